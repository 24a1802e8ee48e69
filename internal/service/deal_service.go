package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dealerdesk/internal/cache"
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/metrics"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// DealService 成交记录业务服务
type DealService struct {
	repo               repository.DealRepository
	salespersonRepo    repository.SalespersonRepository
	financeManagerRepo repository.FinanceManagerRepository
	settingService     *SettingService
}

// NewDealService 创建成交记录服务
func NewDealService(repo repository.DealRepository, salespersonRepo repository.SalespersonRepository, financeManagerRepo repository.FinanceManagerRepository, settingService *SettingService) *DealService {
	return &DealService{
		repo:               repo,
		salespersonRepo:    salespersonRepo,
		financeManagerRepo: financeManagerRepo,
		settingService:     settingService,
	}
}

// DealProductInput 产品明细录入
type DealProductInput struct {
	Product string
	Mode    string
	Amount  decimal.Decimal
	Price   decimal.Decimal
	Cost    decimal.Decimal
}

// DealInput 创建/更新成交输入
// BEGross 为空时取产品毛利合计
type DealInput struct {
	DealNumber          string
	DealDate            time.Time
	Brand               string
	VehicleCondition    string
	StockNumber         string
	CustomerName        string
	SalespersonID       uint
	FinanceManagerID    *uint
	MSRP                decimal.Decimal
	AVPMode             string
	AVPAmount           decimal.Decimal
	FEGross             decimal.Decimal
	BEGross             *decimal.Decimal
	RewardsUpgradeBonus decimal.Decimal
	Products            []DealProductInput
	Notes               string
}

// DealListInput 成交列表查询输入
type DealListInput struct {
	Page             int
	PageSize         int
	SalespersonID    uint
	FinanceManagerID uint
	Status           string
	Brand            string
	Search           string
	DealFrom         *time.Time
	DealTo           *time.Time
}

// List 分页查询成交
func (s *DealService) List(input DealListInput) ([]models.Deal, int64, error) {
	filter := repository.DealListFilter{
		Page:             input.Page,
		PageSize:         input.PageSize,
		SalespersonID:    input.SalespersonID,
		FinanceManagerID: input.FinanceManagerID,
		Status:           strings.ToLower(strings.TrimSpace(input.Status)),
		Search:           strings.TrimSpace(input.Search),
		DealFrom:         input.DealFrom,
		DealTo:           input.DealTo,
	}
	if strings.TrimSpace(input.Brand) != "" {
		brand, err := payroll.ParseBrand(input.Brand)
		if err != nil {
			return nil, 0, ErrBrandInvalid
		}
		filter.Brand = string(brand)
	}
	return s.repo.List(filter)
}

// GetByID 获取成交详情
func (s *DealService) GetByID(id uint) (*models.Deal, error) {
	deal, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrNotFound
	}
	return deal, nil
}

// Create 创建成交
func (s *DealService) Create(ctx context.Context, input DealInput) (*models.Deal, error) {
	deal := &models.Deal{Status: constants.DealStatusActive}
	if err := s.applyInput(deal, input); err != nil {
		return nil, err
	}
	if err := s.ensureDealNumberAvailable(deal.DealNumber, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(deal); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "create", deal.ID)
	return s.GetByID(deal.ID)
}

// Update 更新成交
func (s *DealService) Update(ctx context.Context, id uint, input DealInput) (*models.Deal, error) {
	deal, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyInput(deal, input); err != nil {
		return nil, err
	}
	if err := s.ensureDealNumberAvailable(deal.DealNumber, deal.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(deal); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "update", deal.ID)
	return s.GetByID(deal.ID)
}

// Unwind 退单：成交保留但不再计入薪酬与报表
func (s *DealService) Unwind(ctx context.Context, id uint) (*models.Deal, error) {
	deal, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal.Status == constants.DealStatusUnwound {
		return nil, ErrDealAlreadyUnwound
	}
	now := time.Now()
	deal.Status = constants.DealStatusUnwound
	deal.UnwoundAt = &now
	if err := s.repo.Update(deal); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "unwind", deal.ID)
	return deal, nil
}

// Delete 删除成交（软删除）
func (s *DealService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.afterWrite(ctx, "delete", id)
	return nil
}

func (s *DealService) afterWrite(ctx context.Context, action string, dealID uint) {
	metrics.RecordDealEvent(action)
	if err := cache.BumpReportVersion(ctx); err != nil {
		logger.Warnw("deal_report_cache_bump_failed", "deal_id", dealID, "action", action, "error", err)
	}
}

func (s *DealService) ensureDealNumberAvailable(dealNumber string, selfID uint) error {
	existing, err := s.repo.GetByDealNumber(dealNumber)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrDealNumberExists
	}
	return nil
}

func (s *DealService) applyInput(deal *models.Deal, input DealInput) error {
	dealNumber := strings.TrimSpace(input.DealNumber)
	if dealNumber == "" || input.DealDate.IsZero() {
		return ErrDealInvalid
	}
	brand, err := payroll.ParseBrand(input.Brand)
	if err != nil {
		return ErrBrandInvalid
	}
	condition, err := normalizeVehicleCondition(input.VehicleCondition)
	if err != nil {
		return err
	}
	if input.MSRP.IsNegative() {
		return ErrDealInvalid
	}

	if err := s.ensureSalesperson(input.SalespersonID); err != nil {
		return err
	}
	financeManagerID, err := s.ensureFinanceManager(input.FinanceManagerID)
	if err != nil {
		return err
	}

	calc, err := s.settingService.PayrollCalculator()
	if err != nil {
		return err
	}
	avpMode, err := payroll.ParseEntryMode(input.AVPMode)
	if err != nil {
		return ErrEntryModeInvalid
	}
	avp, err := calc.ResolveAVP(payroll.AVPEntry{
		Mode:   avpMode,
		Amount: input.AVPAmount,
		MSRP:   input.MSRP,
		Brand:  brand,
	})
	if err != nil {
		if errors.Is(err, payroll.ErrConfiguration) {
			return ErrBrandInvalid
		}
		return ErrEntryModeInvalid
	}

	products, productGross, err := resolveDealProducts(input.Products)
	if err != nil {
		return err
	}
	beGross := productGross
	if input.BEGross != nil {
		beGross = input.BEGross.Round(2)
	}

	deal.DealNumber = dealNumber
	deal.DealDate = input.DealDate
	deal.Brand = string(brand)
	deal.VehicleCondition = condition
	deal.StockNumber = strings.TrimSpace(input.StockNumber)
	deal.CustomerName = strings.TrimSpace(input.CustomerName)
	deal.SalespersonID = input.SalespersonID
	deal.FinanceManagerID = financeManagerID
	deal.MSRP = models.NewMoneyFromDecimal(input.MSRP)
	deal.AVPMode = string(avp.Mode)
	deal.AVPAmount = models.NewMoneyFromDecimal(avp.Amount)
	deal.FEGross = models.NewMoneyFromDecimal(input.FEGross)
	deal.BEGross = models.NewMoneyFromDecimal(beGross)
	deal.RewardsUpgradeBonus = models.NewMoneyFromDecimal(input.RewardsUpgradeBonus)
	deal.Notes = strings.TrimSpace(input.Notes)
	deal.Products = products
	// 关联对象可能是旧值，由仓库重新加载
	deal.Salesperson = nil
	deal.FinanceManager = nil
	return nil
}

func (s *DealService) ensureSalesperson(id uint) error {
	if id == 0 {
		return ErrSalespersonNotFound
	}
	salesperson, err := s.salespersonRepo.GetByID(id)
	if err != nil {
		return err
	}
	if salesperson == nil {
		return ErrSalespersonNotFound
	}
	return nil
}

func (s *DealService) ensureFinanceManager(id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	manager, err := s.financeManagerRepo.GetByID(*id)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrFinanceManagerNotFound
	}
	value := *id
	return &value, nil
}

// resolveDealProducts 归一化产品明细，返回明细与毛利合计
// 未知产品或同一成交内重复产品直接拒绝
func resolveDealProducts(inputs []DealProductInput) ([]models.DealProduct, decimal.Decimal, error) {
	products := make([]models.DealProduct, 0, len(inputs))
	total := decimal.Zero
	seen := make(map[payroll.Product]struct{}, len(inputs))
	for _, item := range inputs {
		product, ok := payroll.ParseProduct(item.Product)
		if !ok {
			return nil, decimal.Zero, ErrDealProductInvalid
		}
		if _, dup := seen[product]; dup {
			return nil, decimal.Zero, ErrDealProductDuplicate
		}
		seen[product] = struct{}{}

		mode, err := payroll.ParseEntryMode(item.Mode)
		if err != nil {
			return nil, decimal.Zero, ErrEntryModeInvalid
		}
		line, err := payroll.ResolveGross(payroll.GrossLine{
			Product: product,
			Mode:    mode,
			Gross:   item.Amount,
			Price:   item.Price,
			Cost:    item.Cost,
		})
		if err != nil {
			return nil, decimal.Zero, ErrEntryModeInvalid
		}
		products = append(products, models.DealProduct{
			Product: string(line.Product),
			Mode:    string(line.Mode),
			Price:   models.NewMoneyFromDecimal(line.Price),
			Cost:    models.NewMoneyFromDecimal(line.Cost),
			Amount:  models.NewMoneyFromDecimal(line.Gross),
		})
		total = total.Add(line.Gross)
	}
	return products, total, nil
}

func normalizeVehicleCondition(raw string) (string, error) {
	switch value := strings.ToLower(strings.TrimSpace(raw)); value {
	case "":
		return constants.VehicleConditionNew, nil
	case constants.VehicleConditionNew, constants.VehicleConditionUsed, constants.VehicleConditionCPO:
		return value, nil
	default:
		return "", ErrVehicleConditionInvalid
	}
}

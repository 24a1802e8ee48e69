package repository

import (
	"errors"
	"strings"

	"github.com/dealerdesk/internal/models"

	"gorm.io/gorm"
)

// DealRepository 成交记录数据访问接口
type DealRepository interface {
	GetByID(id uint) (*models.Deal, error)
	GetByDealNumber(dealNumber string) (*models.Deal, error)
	List(filter DealListFilter) ([]models.Deal, int64, error)
	Create(deal *models.Deal) error
	Update(deal *models.Deal) error
	Delete(id uint) error
	CountBySalesperson(salespersonID uint) (int64, error)
	CountByFinanceManager(financeManagerID uint) (int64, error)
}

// GormDealRepository GORM 实现
type GormDealRepository struct {
	db *gorm.DB
}

// NewDealRepository 创建成交记录仓库
func NewDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

func (r *GormDealRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Salesperson").
		Preload("FinanceManager")
}

// GetByID 根据 ID 获取成交记录（含产品明细）
func (r *GormDealRepository) GetByID(id uint) (*models.Deal, error) {
	var deal models.Deal
	if err := r.withRelations(r.db).First(&deal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

// GetByDealNumber 根据成交单号获取成交记录
// 单号唯一索引覆盖已软删除的记录，因此查询同样包含已删除行
func (r *GormDealRepository) GetByDealNumber(dealNumber string) (*models.Deal, error) {
	var deal models.Deal
	if err := r.db.Unscoped().Where("deal_number = ?", dealNumber).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

// List 分页查询成交记录
func (r *GormDealRepository) List(filter DealListFilter) ([]models.Deal, int64, error) {
	query := r.db.Model(&models.Deal{})
	if filter.SalespersonID != 0 {
		query = query.Where("salesperson_id = ?", filter.SalespersonID)
	}
	if filter.FinanceManagerID != 0 {
		query = query.Where("finance_manager_id = ?", filter.FinanceManagerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, count := buildLikeCondition(r.db, []string{"deal_number", "stock_number", "customer_name"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", count)...)
	}
	if filter.DealFrom != nil {
		query = query.Where("deal_date >= ?", *filter.DealFrom)
	}
	if filter.DealTo != nil {
		query = query.Where("deal_date < ?", *filter.DealTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	deals := make([]models.Deal, 0)
	if err := r.withRelations(query).Order("deal_date DESC, id DESC").Find(&deals).Error; err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

// Create 创建成交记录（产品明细随主记录一起写入）
func (r *GormDealRepository) Create(deal *models.Deal) error {
	return r.db.Create(deal).Error
}

// Update 更新成交记录并整体替换产品明细
func (r *GormDealRepository) Update(deal *models.Deal) error {
	if deal == nil {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", deal.ID).Delete(&models.DealProduct{}).Error; err != nil {
			return err
		}
		products := deal.Products
		for i := range products {
			products[i].ID = 0
			products[i].DealID = deal.ID
		}
		if err := tx.Omit("Products", "Salesperson", "FinanceManager").Save(deal).Error; err != nil {
			return err
		}
		if len(products) > 0 {
			if err := tx.Create(&products).Error; err != nil {
				return err
			}
		}
		deal.Products = products
		return nil
	})
}

// Delete 删除成交记录（软删除）
func (r *GormDealRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Deal{}, id).Error
}

// CountBySalesperson 统计销售顾问关联的成交数
func (r *GormDealRepository) CountBySalesperson(salespersonID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Deal{}).Where("salesperson_id = ?", salespersonID).Count(&count).Error
	return count, err
}

// CountByFinanceManager 统计金融经理关联的成交数
func (r *GormDealRepository) CountByFinanceManager(financeManagerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Deal{}).Where("finance_manager_id = ?", financeManagerID).Count(&count).Error
	return count, err
}

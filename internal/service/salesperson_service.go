package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/repository"
)

// SalespersonService 销售顾问业务服务
type SalespersonService struct {
	repo      repository.SalespersonRepository
	dealRepo  repository.DealRepository
	spiffRepo repository.SpiffRepository
}

// NewSalespersonService 创建销售顾问服务
func NewSalespersonService(repo repository.SalespersonRepository, dealRepo repository.DealRepository, spiffRepo repository.SpiffRepository) *SalespersonService {
	return &SalespersonService{repo: repo, dealRepo: dealRepo, spiffRepo: spiffRepo}
}

// SalespersonInput 创建/更新销售顾问输入
type SalespersonInput struct {
	Name         string
	Email        string
	EmployeeCode string
	PayPlan      string
	DemoEligible *bool
	IsActive     *bool
	HiredAt      *time.Time
}

// List 分页查询销售顾问
func (s *SalespersonService) List(search, payPlan string, isActive *bool, page, pageSize int) ([]models.Salesperson, int64, error) {
	filter := repository.SalespersonListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
	}
	if strings.TrimSpace(payPlan) != "" {
		plan, err := payroll.ParsePayPlan(payPlan)
		if err != nil {
			return nil, 0, ErrPayPlanInvalid
		}
		filter.PayPlan = string(plan)
	}
	return s.repo.List(filter)
}

// GetByID 获取销售顾问
func (s *SalespersonService) GetByID(id uint) (*models.Salesperson, error) {
	salesperson, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if salesperson == nil {
		return nil, ErrSalespersonNotFound
	}
	return salesperson, nil
}

// Create 创建销售顾问
func (s *SalespersonService) Create(input SalespersonInput) (*models.Salesperson, error) {
	salesperson, err := buildSalespersonEntity(input, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(salesperson); err != nil {
		return nil, err
	}
	return salesperson, nil
}

// Update 更新销售顾问
func (s *SalespersonService) Update(id uint, input SalespersonInput) (*models.Salesperson, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	salesperson, err := buildSalespersonEntity(input, existing)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(salesperson); err != nil {
		return nil, err
	}
	return salesperson, nil
}

// Delete 删除销售顾问（软删除）
// 已有成交或 spiff 记录的销售顾问只能停用，不能删除
func (s *SalespersonService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	deals, err := s.dealRepo.CountBySalesperson(id)
	if err != nil {
		return err
	}
	if deals > 0 {
		return ErrSalespersonInUse
	}
	spiffs, err := s.spiffRepo.CountBySalesperson(id)
	if err != nil {
		return err
	}
	if spiffs > 0 {
		return ErrSalespersonInUse
	}
	return s.repo.Delete(id)
}

func buildSalespersonEntity(input SalespersonInput, existing *models.Salesperson) (*models.Salesperson, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSalespersonInvalid
	}
	email, err := normalizeOptionalEmail(input.Email)
	if err != nil {
		return nil, ErrSalespersonInvalid
	}
	plan, err := payroll.ParsePayPlan(input.PayPlan)
	if err != nil {
		return nil, ErrPayPlanInvalid
	}

	if existing == nil {
		entity := &models.Salesperson{
			Name:         name,
			Email:        email,
			EmployeeCode: strings.TrimSpace(input.EmployeeCode),
			PayPlan:      string(plan),
			HiredAt:      input.HiredAt,
			IsActive:     true,
		}
		if input.DemoEligible != nil {
			entity.DemoEligible = *input.DemoEligible
		}
		if input.IsActive != nil {
			entity.IsActive = *input.IsActive
		}
		return entity, nil
	}

	existing.Name = name
	existing.Email = email
	existing.EmployeeCode = strings.TrimSpace(input.EmployeeCode)
	existing.PayPlan = string(plan)
	existing.HiredAt = input.HiredAt
	if input.DemoEligible != nil {
		existing.DemoEligible = *input.DemoEligible
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	return existing, nil
}

func normalizeOptionalEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

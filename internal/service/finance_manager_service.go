package service

import (
	"strings"

	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/repository"
)

// FinanceManagerService 金融经理业务服务
type FinanceManagerService struct {
	repo     repository.FinanceManagerRepository
	dealRepo repository.DealRepository
}

// NewFinanceManagerService 创建金融经理服务
func NewFinanceManagerService(repo repository.FinanceManagerRepository, dealRepo repository.DealRepository) *FinanceManagerService {
	return &FinanceManagerService{repo: repo, dealRepo: dealRepo}
}

// FinanceManagerInput 创建/更新金融经理输入
type FinanceManagerInput struct {
	Name     string
	Email    string
	IsActive *bool
}

// List 分页查询金融经理
func (s *FinanceManagerService) List(search string, isActive *bool, page, pageSize int) ([]models.FinanceManager, int64, error) {
	return s.repo.List(repository.FinanceManagerListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
	})
}

// GetByID 获取金融经理
func (s *FinanceManagerService) GetByID(id uint) (*models.FinanceManager, error) {
	manager, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrFinanceManagerNotFound
	}
	return manager, nil
}

// Create 创建金融经理
func (s *FinanceManagerService) Create(input FinanceManagerInput) (*models.FinanceManager, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFinanceManagerInvalid
	}
	email, err := normalizeOptionalEmail(input.Email)
	if err != nil {
		return nil, ErrFinanceManagerInvalid
	}
	manager := &models.FinanceManager{Name: name, Email: email, IsActive: true}
	if input.IsActive != nil {
		manager.IsActive = *input.IsActive
	}
	if err := s.repo.Create(manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// Update 更新金融经理
func (s *FinanceManagerService) Update(id uint, input FinanceManagerInput) (*models.FinanceManager, error) {
	manager, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFinanceManagerInvalid
	}
	email, err := normalizeOptionalEmail(input.Email)
	if err != nil {
		return nil, ErrFinanceManagerInvalid
	}
	manager.Name = name
	manager.Email = email
	if input.IsActive != nil {
		manager.IsActive = *input.IsActive
	}
	if err := s.repo.Update(manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// Delete 删除金融经理（软删除），已关联成交时拒绝
func (s *FinanceManagerService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	count, err := s.dealRepo.CountByFinanceManager(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFinanceManagerInUse
	}
	return s.repo.Delete(id)
}

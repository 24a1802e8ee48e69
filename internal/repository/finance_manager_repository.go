package repository

import (
	"errors"
	"strings"

	"github.com/dealerdesk/internal/models"

	"gorm.io/gorm"
)

// FinanceManagerRepository 金融经理数据访问接口
type FinanceManagerRepository interface {
	GetByID(id uint) (*models.FinanceManager, error)
	List(filter FinanceManagerListFilter) ([]models.FinanceManager, int64, error)
	Create(manager *models.FinanceManager) error
	Update(manager *models.FinanceManager) error
	Delete(id uint) error
}

// GormFinanceManagerRepository GORM 实现
type GormFinanceManagerRepository struct {
	db *gorm.DB
}

// NewFinanceManagerRepository 创建金融经理仓库
func NewFinanceManagerRepository(db *gorm.DB) *GormFinanceManagerRepository {
	return &GormFinanceManagerRepository{db: db}
}

// GetByID 根据 ID 获取金融经理
func (r *GormFinanceManagerRepository) GetByID(id uint) (*models.FinanceManager, error) {
	var manager models.FinanceManager
	if err := r.db.First(&manager, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &manager, nil
}

// List 分页查询金融经理
func (r *GormFinanceManagerRepository) List(filter FinanceManagerListFilter) ([]models.FinanceManager, int64, error) {
	query := r.db.Model(&models.FinanceManager{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, count := buildLikeCondition(r.db, []string{"name", "email"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", count)...)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	items := make([]models.FinanceManager, 0)
	if err := query.Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create 创建金融经理
func (r *GormFinanceManagerRepository) Create(manager *models.FinanceManager) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		active := manager.IsActive
		if err := tx.Create(manager).Error; err != nil {
			return err
		}
		// is_active 带数据库默认值，false 需要显式写回
		if !active {
			manager.IsActive = false
			return tx.Model(&models.FinanceManager{}).Where("id = ?", manager.ID).Update("is_active", false).Error
		}
		return nil
	})
}

// Update 更新金融经理
func (r *GormFinanceManagerRepository) Update(manager *models.FinanceManager) error {
	return r.db.Save(manager).Error
}

// Delete 删除金融经理（软删除）
func (r *GormFinanceManagerRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.FinanceManager{}, id).Error
}

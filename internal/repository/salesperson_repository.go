package repository

import (
	"errors"
	"strings"

	"github.com/dealerdesk/internal/models"

	"gorm.io/gorm"
)

// SalespersonRepository 销售顾问数据访问接口
type SalespersonRepository interface {
	GetByID(id uint) (*models.Salesperson, error)
	List(filter SalespersonListFilter) ([]models.Salesperson, int64, error)
	ListActive() ([]models.Salesperson, error)
	Create(salesperson *models.Salesperson) error
	Update(salesperson *models.Salesperson) error
	Delete(id uint) error
}

// GormSalespersonRepository GORM 实现
type GormSalespersonRepository struct {
	db *gorm.DB
}

// NewSalespersonRepository 创建销售顾问仓库
func NewSalespersonRepository(db *gorm.DB) *GormSalespersonRepository {
	return &GormSalespersonRepository{db: db}
}

// GetByID 根据 ID 获取销售顾问
func (r *GormSalespersonRepository) GetByID(id uint) (*models.Salesperson, error) {
	var salesperson models.Salesperson
	if err := r.db.First(&salesperson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &salesperson, nil
}

// List 分页查询销售顾问
func (r *GormSalespersonRepository) List(filter SalespersonListFilter) ([]models.Salesperson, int64, error) {
	query := r.db.Model(&models.Salesperson{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, count := buildLikeCondition(r.db, []string{"name", "email", "employee_code"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", count)...)
	}
	if filter.PayPlan != "" {
		query = query.Where("pay_plan = ?", filter.PayPlan)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	items := make([]models.Salesperson, 0)
	if err := query.Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListActive 获取全部在职销售顾问
func (r *GormSalespersonRepository) ListActive() ([]models.Salesperson, error) {
	items := make([]models.Salesperson, 0)
	if err := r.db.Where("is_active = ?", true).Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 创建销售顾问
func (r *GormSalespersonRepository) Create(salesperson *models.Salesperson) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		active := salesperson.IsActive
		if err := tx.Create(salesperson).Error; err != nil {
			return err
		}
		// is_active 带数据库默认值，false 需要显式写回
		if !active {
			salesperson.IsActive = false
			return tx.Model(&models.Salesperson{}).Where("id = ?", salesperson.ID).Update("is_active", false).Error
		}
		return nil
	})
}

// Update 更新销售顾问
func (r *GormSalespersonRepository) Update(salesperson *models.Salesperson) error {
	return r.db.Save(salesperson).Error
}

// Delete 删除销售顾问（软删除）
func (r *GormSalespersonRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Salesperson{}, id).Error
}

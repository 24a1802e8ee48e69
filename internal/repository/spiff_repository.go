package repository

import (
	"errors"
	"time"

	"github.com/dealerdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpiffRepository spiff 台账数据访问接口
type SpiffRepository interface {
	GetByID(id uint) (*models.Spiff, error)
	List(filter SpiffListFilter) ([]models.Spiff, int64, error)
	Create(spiff *models.Spiff) error
	Update(spiff *models.Spiff) error
	Delete(id uint) error
	Transition(id uint, fromStatuses []string, updates map[string]interface{}) (*models.Spiff, error)
	CountBySalesperson(salespersonID uint) (int64, error)
}

// GormSpiffRepository GORM 实现
type GormSpiffRepository struct {
	db *gorm.DB
}

// NewSpiffRepository 创建 spiff 仓库
func NewSpiffRepository(db *gorm.DB) *GormSpiffRepository {
	return &GormSpiffRepository{db: db}
}

// GetByID 根据 ID 获取 spiff
func (r *GormSpiffRepository) GetByID(id uint) (*models.Spiff, error) {
	var spiff models.Spiff
	if err := r.db.Preload("Salesperson").First(&spiff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spiff, nil
}

// List 分页查询 spiff
func (r *GormSpiffRepository) List(filter SpiffListFilter) ([]models.Spiff, int64, error) {
	query := r.db.Model(&models.Spiff{})
	if filter.SalespersonID != 0 {
		query = query.Where("salesperson_id = ?", filter.SalespersonID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SpiffFrom != nil {
		query = query.Where("spiff_date >= ?", *filter.SpiffFrom)
	}
	if filter.SpiffTo != nil {
		query = query.Where("spiff_date < ?", *filter.SpiffTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	items := make([]models.Spiff, 0)
	if err := query.Preload("Salesperson").Order("spiff_date DESC, id DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create 创建 spiff
func (r *GormSpiffRepository) Create(spiff *models.Spiff) error {
	return r.db.Create(spiff).Error
}

// Update 更新 spiff
func (r *GormSpiffRepository) Update(spiff *models.Spiff) error {
	return r.db.Omit("Salesperson").Save(spiff).Error
}

// Delete 删除 spiff（软删除）
func (r *GormSpiffRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Spiff{}, id).Error
}

// Transition 条件更新 spiff 状态
// 仅当当前状态属于 fromStatuses 时更新，未命中返回 nil, nil，避免并发审批覆盖
func (r *GormSpiffRepository) Transition(id uint, fromStatuses []string, updates map[string]interface{}) (*models.Spiff, error) {
	var updated *models.Spiff
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var spiff models.Spiff
		query := tx
		if dbDialectName(tx) != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.Where("id = ? AND status IN ?", id, fromStatuses).First(&spiff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if updates == nil {
			updates = map[string]interface{}{}
		}
		updates["updated_at"] = time.Now()
		if err := tx.Model(&spiff).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&spiff, id).Error; err != nil {
			return err
		}
		updated = &spiff
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CountBySalesperson 统计销售顾问的 spiff 数量
func (r *GormSpiffRepository) CountBySalesperson(salespersonID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Spiff{}).Where("salesperson_id = ?", salespersonID).Count(&count).Error
	return count, err
}

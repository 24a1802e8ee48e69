package repository

import (
	"errors"
	"time"

	"github.com/dealerdesk/internal/models"

	"gorm.io/gorm"
)

// PayrollExportRepository 导出任务数据访问接口
type PayrollExportRepository interface {
	Create(export *models.PayrollExport) error
	GetByJobID(jobID string) (*models.PayrollExport, error)
	List(filter PayrollExportListFilter) ([]models.PayrollExport, int64, error)
	UpdateStatus(jobID string, updates map[string]interface{}) error
	ListExpired(before time.Time, limit int) ([]models.PayrollExport, error)
	Delete(id uint) error
}

// GormPayrollExportRepository GORM 实现
type GormPayrollExportRepository struct {
	db *gorm.DB
}

// NewPayrollExportRepository 创建导出任务仓库
func NewPayrollExportRepository(db *gorm.DB) *GormPayrollExportRepository {
	return &GormPayrollExportRepository{db: db}
}

// Create 创建导出任务
func (r *GormPayrollExportRepository) Create(export *models.PayrollExport) error {
	return r.db.Create(export).Error
}

// GetByJobID 根据任务标识获取导出任务
func (r *GormPayrollExportRepository) GetByJobID(jobID string) (*models.PayrollExport, error) {
	var export models.PayrollExport
	if err := r.db.Where("job_id = ?", jobID).First(&export).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &export, nil
}

// List 分页查询导出任务
func (r *GormPayrollExportRepository) List(filter PayrollExportListFilter) ([]models.PayrollExport, int64, error) {
	query := r.db.Model(&models.PayrollExport{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RequestedBy != 0 {
		query = query.Where("requested_by = ?", filter.RequestedBy)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	items := make([]models.PayrollExport, 0)
	if err := query.Order("id DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateStatus 更新导出任务状态
func (r *GormPayrollExportRepository) UpdateStatus(jobID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.Model(&models.PayrollExport{}).Where("job_id = ?", jobID).Updates(updates).Error
}

// ListExpired 获取过期的已完成导出任务
func (r *GormPayrollExportRepository) ListExpired(before time.Time, limit int) ([]models.PayrollExport, error) {
	if limit <= 0 {
		limit = 100
	}
	items := make([]models.PayrollExport, 0)
	if err := r.db.Where("finished_at IS NOT NULL AND finished_at < ?", before).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete 删除导出任务记录
func (r *GormPayrollExportRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.PayrollExport{}, id).Error
}

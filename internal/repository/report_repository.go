package repository

import (
	"fmt"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"

	"gorm.io/gorm"
)

// ReportRepository 销售与财务报表聚合查询接口
// 说明：仅聚合统计数据，不承载薪酬规则。
type ReportRepository interface {
	GetSummary(startAt, endAt time.Time) (ReportSummaryRow, error)
	GetMonthlyTrends(startAt, endAt time.Time) ([]ReportTrendRow, error)
	GetProductPenetration(startAt, endAt time.Time) ([]ReportProductRow, error)
	GetSalespersonRanking(startAt, endAt time.Time, limit int) ([]ReportSalespersonRow, error)
	GetFinanceManagerPerformance(startAt, endAt time.Time) ([]ReportFinanceManagerRow, error)
}

// ReportSummaryRow 报表总览原始统计结果
type ReportSummaryRow struct {
	DealsTotal   int64
	UnwoundDeals int64
	BMWUnits     int64
	MINIUnits    int64
	NewUnits     int64
	UsedUnits    int64
	CPOUnits     int64
	FEGross      float64
	BEGross      float64
	AVPTotal     float64
}

// ReportTrendRow 月度趋势统计
type ReportTrendRow struct {
	Month   string
	Units   int64
	FEGross float64
	BEGross float64
}

// ReportProductRow 产品渗透率原始行
type ReportProductRow struct {
	Product    string
	DealCount  int64
	GrossTotal float64
}

// ReportSalespersonRow 销售顾问排行原始行
type ReportSalespersonRow struct {
	SalespersonID uint
	Name          string
	Units         int64
	FEGross       float64
	BEGross       float64
}

// ReportFinanceManagerRow 金融经理业绩原始行
type ReportFinanceManagerRow struct {
	FinanceManagerID uint
	Name             string
	Deals            int64
	BEGross          float64
	ProductCount     int64
	ProductGross     float64
}

// GormReportRepository GORM 报表聚合实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// GetSummary 获取总览统计
func (r *GormReportRepository) GetSummary(startAt, endAt time.Time) (ReportSummaryRow, error) {
	result := ReportSummaryRow{}

	selectExpr := fmt.Sprintf(
		"COUNT(*) AS deals_total, %s AS bmw_units, %s AS mini_units, %s AS new_units, %s AS used_units, %s AS cpo_units, %s AS fe_gross, %s AS be_gross, %s AS avp_total",
		caseSumExpr(fmt.Sprintf("deals.brand = '%s'", payroll.BrandBMW), "1"),
		caseSumExpr(fmt.Sprintf("deals.brand = '%s'", payroll.BrandMINI), "1"),
		caseSumExpr(fmt.Sprintf("deals.vehicle_condition = '%s'", constants.VehicleConditionNew), "1"),
		caseSumExpr(fmt.Sprintf("deals.vehicle_condition = '%s'", constants.VehicleConditionUsed), "1"),
		caseSumExpr(fmt.Sprintf("deals.vehicle_condition = '%s'", constants.VehicleConditionCPO), "1"),
		moneySumExpr("deals.fe_gross"),
		moneySumExpr("deals.be_gross"),
		moneySumExpr("deals.avp_amount"),
	)
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select(selectExpr).
		Scan(&result).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Deal{}).
		Where("status = ? AND deal_date >= ? AND deal_date < ?", constants.DealStatusUnwound, startAt, endAt).
		Count(&result.UnwoundDeals).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetMonthlyTrends 获取月度趋势
func (r *GormReportRepository) GetMonthlyTrends(startAt, endAt time.Time) ([]ReportTrendRow, error) {
	monthExpr := monthBucketExpr(r.db, "deals.deal_date")
	rows := make([]ReportTrendRow, 0)
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select(fmt.Sprintf("%s AS month, COUNT(*) AS units, %s AS fe_gross, %s AS be_gross",
			monthExpr, moneySumExpr("deals.fe_gross"), moneySumExpr("deals.be_gross"))).
		Group(monthExpr).
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetProductPenetration 获取产品渗透统计（按产品统计售出该产品的成交数）
func (r *GormReportRepository) GetProductPenetration(startAt, endAt time.Time) ([]ReportProductRow, error) {
	rows := make([]ReportProductRow, 0)
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select("deal_products.product AS product, COUNT(DISTINCT deals.id) AS deal_count, " + moneySumExpr("deal_products.amount") + " AS gross_total").
		Joins("JOIN deal_products ON deal_products.deal_id = deals.id").
		Where("deal_products.amount > 0").
		Group("deal_products.product").
		Order("deal_count DESC, product ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSalespersonRanking 获取销售顾问排行（按台数、前端毛利排序）
func (r *GormReportRepository) GetSalespersonRanking(startAt, endAt time.Time, limit int) ([]ReportSalespersonRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]ReportSalespersonRow, 0)
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select(fmt.Sprintf(`
			deals.salesperson_id AS salesperson_id,
			salespeople.name AS name,
			COUNT(*) AS units,
			%s AS fe_gross,
			%s AS be_gross
		`, moneySumExpr("deals.fe_gross"), moneySumExpr("deals.be_gross"))).
		Joins("JOIN salespeople ON salespeople.id = deals.salesperson_id").
		Group("deals.salesperson_id, salespeople.name").
		Order("units DESC, fe_gross DESC, salesperson_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetFinanceManagerPerformance 获取金融经理业绩
func (r *GormReportRepository) GetFinanceManagerPerformance(startAt, endAt time.Time) ([]ReportFinanceManagerRow, error) {
	rows := make([]ReportFinanceManagerRow, 0)
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select(fmt.Sprintf(`
			deals.finance_manager_id AS finance_manager_id,
			finance_managers.name AS name,
			COUNT(*) AS deals,
			%s AS be_gross
		`, moneySumExpr("deals.be_gross"))).
		Joins("JOIN finance_managers ON finance_managers.id = deals.finance_manager_id").
		Group("deals.finance_manager_id, finance_managers.name").
		Order("be_gross DESC, finance_manager_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	type productRow struct {
		FinanceManagerID uint
		ProductCount     int64
		ProductGross     float64
	}
	var products []productRow
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select("deals.finance_manager_id AS finance_manager_id, COUNT(*) AS product_count, " + moneySumExpr("deal_products.amount") + " AS product_gross").
		Joins("JOIN deal_products ON deal_products.deal_id = deals.id").
		Where("deals.finance_manager_id IS NOT NULL AND deal_products.amount > 0").
		Group("deals.finance_manager_id").
		Scan(&products).Error; err != nil {
		return nil, err
	}
	productMap := make(map[uint]productRow, len(products))
	for _, item := range products {
		productMap[item.FinanceManagerID] = item
	}
	for i := range rows {
		item := productMap[rows[i].FinanceManagerID]
		rows[i].ProductCount = item.ProductCount
		rows[i].ProductGross = item.ProductGross
	}
	return rows, nil
}

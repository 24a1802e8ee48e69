package repository

import (
	"fmt"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/payroll"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesAggregateRepository 薪酬周期聚合查询接口
// 返回原始行（列名见 payroll.Column*），数值归一化由 payroll.TotalsFromAggregate 负责。
type SalesAggregateRepository interface {
	AggregateSalesPeriod(startAt, endAt time.Time, salespersonIDs []uint) ([]map[string]interface{}, error)
}

// GormSalesAggregateRepository GORM 聚合实现
type GormSalesAggregateRepository struct {
	db *gorm.DB
}

// NewSalesAggregateRepository 创建聚合仓库
func NewSalesAggregateRepository(db *gorm.DB) *GormSalesAggregateRepository {
	return &GormSalesAggregateRepository{db: db}
}

func moneySumExpr(column string) string {
	return fmt.Sprintf("ROUND(COALESCE(SUM(%s), 0), 2)", column)
}

// activeDealsInPeriod 周期内有效成交（左闭右开，排除退单与软删除）
func activeDealsInPeriod(db *gorm.DB, startAt, endAt time.Time) *gorm.DB {
	return db.Model(&models.Deal{}).
		Where("deals.status = ? AND deals.deal_date >= ? AND deals.deal_date < ?", constants.DealStatusActive, startAt, endAt)
}

// AggregateSalesPeriod 按销售顾问聚合统计周期数据
// salespersonIDs 为空时覆盖全部在职销售顾问；无成交的销售顾问返回 0 值行
func (r *GormSalesAggregateRepository) AggregateSalesPeriod(startAt, endAt time.Time, salespersonIDs []uint) ([]map[string]interface{}, error) {
	people := make([]models.Salesperson, 0)
	peopleQuery := r.db.Model(&models.Salesperson{})
	if len(salespersonIDs) > 0 {
		peopleQuery = peopleQuery.Where("id IN ?", salespersonIDs)
	} else {
		peopleQuery = peopleQuery.Where("is_active = ?", true)
	}
	if err := peopleQuery.Order("name ASC, id ASC").Find(&people).Error; err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return []map[string]interface{}{}, nil
	}

	ids := make([]uint, 0, len(people))
	rows := make(map[uint]map[string]interface{}, len(people))
	for _, person := range people {
		ids = append(ids, person.ID)
		rows[person.ID] = map[string]interface{}{
			payroll.ColumnSalespersonID: person.ID,
			payroll.ColumnPayPlan:       person.PayPlan,
			payroll.ColumnDemoEligible:  person.DemoEligible,
			"salesperson_name":          person.Name,
		}
	}

	if err := r.mergeDealTotals(rows, ids, startAt, endAt); err != nil {
		return nil, err
	}
	if err := r.mergeProductTotals(rows, ids, startAt, endAt); err != nil {
		return nil, err
	}
	if err := r.mergeSpiffTotals(rows, ids, startAt, endAt); err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(people))
	for _, person := range people {
		result = append(result, rows[person.ID])
	}
	return result, nil
}

func (r *GormSalesAggregateRepository) mergeDealTotals(rows map[uint]map[string]interface{}, ids []uint, startAt, endAt time.Time) error {
	selectExpr := fmt.Sprintf(
		"deals.salesperson_id AS salesperson_id, %s AS %s, %s AS %s, %s AS %s, %s AS %s, %s AS %s",
		caseSumExpr(fmt.Sprintf("deals.brand = '%s'", payroll.BrandBMW), "1"), payroll.ColumnBMWUnits,
		caseSumExpr(fmt.Sprintf("deals.brand = '%s'", payroll.BrandMINI), "1"), payroll.ColumnMINIUnits,
		moneySumExpr("deals.fe_gross"), payroll.ColumnFEGross,
		moneySumExpr("deals.be_gross"), payroll.ColumnBEGross,
		moneySumExpr("deals.rewards_upgrade_bonus"), payroll.ColumnRewardsUpgradeBonus,
	)
	var dealRows []map[string]interface{}
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select(selectExpr).
		Where("deals.salesperson_id IN ?", ids).
		Group("deals.salesperson_id").
		Find(&dealRows).Error; err != nil {
		return err
	}
	for _, dealRow := range dealRows {
		row := rows[uint(payroll.CoerceInt(dealRow["salesperson_id"]))]
		if row == nil {
			continue
		}
		for _, column := range []string{
			payroll.ColumnBMWUnits,
			payroll.ColumnMINIUnits,
			payroll.ColumnFEGross,
			payroll.ColumnBEGross,
			payroll.ColumnRewardsUpgradeBonus,
		} {
			row[column] = dealRow[column]
		}
	}
	return nil
}

func (r *GormSalesAggregateRepository) mergeProductTotals(rows map[uint]map[string]interface{}, ids []uint, startAt, endAt time.Time) error {
	type productRow struct {
		SalespersonID uint
		Product       string
		Total         decimal.Decimal
	}
	var productRows []productRow
	if err := activeDealsInPeriod(r.db, startAt, endAt).
		Select("deals.salesperson_id AS salesperson_id, deal_products.product AS product, " + moneySumExpr("deal_products.amount") + " AS total").
		Joins("JOIN deal_products ON deal_products.deal_id = deals.id").
		Where("deals.salesperson_id IN ?", ids).
		Group("deals.salesperson_id, deal_products.product").
		Scan(&productRows).Error; err != nil {
		return err
	}
	for _, item := range productRows {
		row := rows[item.SalespersonID]
		if row == nil {
			continue
		}
		row[payroll.ProductColumn(payroll.Product(item.Product))] = item.Total
	}
	return nil
}

func (r *GormSalesAggregateRepository) mergeSpiffTotals(rows map[uint]map[string]interface{}, ids []uint, startAt, endAt time.Time) error {
	approved := fmt.Sprintf("status = '%s'", constants.SpiffStatusApproved)
	paid := fmt.Sprintf("status = '%s'", constants.SpiffStatusPaid)
	selectExpr := fmt.Sprintf(
		"salesperson_id AS salesperson_id, ROUND(%s, 2) AS %s, %s AS %s, ROUND(%s, 2) AS %s, %s AS %s",
		caseSumExpr(approved, "amount"), payroll.ColumnApprovedSpiffAmount,
		caseSumExpr(approved, "1"), payroll.ColumnApprovedSpiffCount,
		caseSumExpr(paid, "amount"), payroll.ColumnPaidSpiffAmount,
		caseSumExpr(paid, "1"), payroll.ColumnPaidSpiffCount,
	)
	var spiffRows []map[string]interface{}
	if err := r.db.Model(&models.Spiff{}).
		Select(selectExpr).
		Where("salesperson_id IN ? AND spiff_date >= ? AND spiff_date < ?", ids, startAt, endAt).
		Group("salesperson_id").
		Find(&spiffRows).Error; err != nil {
		return err
	}
	for _, spiffRow := range spiffRows {
		row := rows[uint(payroll.CoerceInt(spiffRow["salesperson_id"]))]
		if row == nil {
			continue
		}
		for _, column := range []string{
			payroll.ColumnApprovedSpiffAmount,
			payroll.ColumnApprovedSpiffCount,
			payroll.ColumnPaidSpiffAmount,
			payroll.ColumnPaidSpiffCount,
		} {
			row[column] = spiffRow[column]
		}
	}
	return nil
}

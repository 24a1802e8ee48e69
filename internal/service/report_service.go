package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealerdesk/internal/cache"
	"github.com/dealerdesk/internal/payroll"
	"github.com/dealerdesk/internal/repository"
)

// ReportService 销售与财务报表服务
// 说明：聚合成交、毛利与产品数据，结果按版本号缓存。
type ReportService struct {
	repo           repository.ReportRepository
	settingService *SettingService
}

// NewReportService 创建报表服务
func NewReportService(repo repository.ReportRepository, settingService *SettingService) *ReportService {
	return &ReportService{repo: repo, settingService: settingService}
}

// ReportQueryInput 报表查询输入
type ReportQueryInput struct {
	Period       Period
	ForceRefresh bool
}

// ReportSummaryResponse 报表总览
type ReportSummaryResponse struct {
	Period      string                 `json:"period"`
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	Timezone    string                 `json:"timezone"`
	KPI         ReportKPI              `json:"kpi"`
	Penetration []ReportProductSummary `json:"penetration"`
}

// ReportKPI 报表核心指标
type ReportKPI struct {
	DealsTotal     int64  `json:"deals_total"`
	UnwoundDeals   int64  `json:"unwound_deals"`
	TotalUnits     int64  `json:"total_units"`
	BMWUnits       int64  `json:"bmw_units"`
	MINIUnits      int64  `json:"mini_units"`
	NewUnits       int64  `json:"new_units"`
	UsedUnits      int64  `json:"used_units"`
	CPOUnits       int64  `json:"cpo_units"`
	FEGross        string `json:"fe_gross"`
	BEGross        string `json:"be_gross"`
	AvgFEGross     string `json:"avg_fe_gross"`
	AvgBEGross     string `json:"avg_be_gross"`
	AVPTotal       string `json:"avp_total"`
	AvgProductsPer string `json:"avg_products_per_deal"`
}

// ReportProductSummary 产品渗透率
type ReportProductSummary struct {
	Product     string `json:"product"`
	Label       string `json:"label"`
	DealCount   int64  `json:"deal_count"`
	Penetration string `json:"penetration"`
	GrossTotal  string `json:"gross_total"`
	AvgGross    string `json:"avg_gross"`
}

// ReportTrendResponse 月度趋势
type ReportTrendResponse struct {
	Period   string             `json:"period"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Timezone string             `json:"timezone"`
	Points   []ReportTrendPoint `json:"points"`
}

// ReportTrendPoint 月度趋势点
type ReportTrendPoint struct {
	Month   string `json:"month"`
	Units   int64  `json:"units"`
	FEGross string `json:"fe_gross"`
	BEGross string `json:"be_gross"`
}

// ReportRankingsResponse 排行榜
type ReportRankingsResponse struct {
	Period          string                        `json:"period"`
	From            string                        `json:"from"`
	To              string                        `json:"to"`
	Timezone        string                        `json:"timezone"`
	Salespeople     []ReportSalespersonRanking    `json:"salespeople"`
	FinanceManagers []ReportFinanceManagerRanking `json:"finance_managers"`
}

// ReportSalespersonRanking 销售顾问排行项
type ReportSalespersonRanking struct {
	Rank          int    `json:"rank"`
	SalespersonID uint   `json:"salesperson_id"`
	Name          string `json:"name"`
	Units         int64  `json:"units"`
	FEGross       string `json:"fe_gross"`
	BEGross       string `json:"be_gross"`
	TotalGross    string `json:"total_gross"`
}

// ReportFinanceManagerRanking 金融经理业绩项
type ReportFinanceManagerRanking struct {
	Rank             int    `json:"rank"`
	FinanceManagerID uint   `json:"finance_manager_id"`
	Name             string `json:"name"`
	Deals            int64  `json:"deals"`
	BEGross          string `json:"be_gross"`
	AvgBEGross       string `json:"avg_be_gross"`
	ProductCount     int64  `json:"product_count"`
	ProductsPerDeal  string `json:"products_per_deal"`
	ProductGross     string `json:"product_gross"`
}

// GetSummary 获取报表总览
func (s *ReportService) GetSummary(ctx context.Context, input ReportQueryInput) (*ReportSummaryResponse, error) {
	if s == nil || s.repo == nil {
		return &ReportSummaryResponse{}, nil
	}
	period := input.Period
	setting := s.loadReportSetting()
	cacheKey := cache.ReportKey(ctx, "summary", period.Start.Unix(), period.End.Unix(), period.Timezone)

	var cached ReportSummaryResponse
	if s.readCache(ctx, cacheKey, input.ForceRefresh, setting, &cached) {
		return &cached, nil
	}

	summary, err := s.repo.GetSummary(period.Start, period.End)
	if err != nil {
		return nil, err
	}
	productRows, err := s.repo.GetProductPenetration(period.Start, period.End)
	if err != nil {
		return nil, err
	}

	activeDeals := summary.DealsTotal
	productMap := make(map[string]repository.ReportProductRow, len(productRows))
	var productCount int64
	for _, row := range productRows {
		productMap[row.Product] = row
		productCount += row.DealCount
	}
	penetration := make([]ReportProductSummary, 0, len(payroll.AllProducts))
	for _, product := range payroll.AllProducts {
		row := productMap[string(product)]
		penetration = append(penetration, ReportProductSummary{
			Product:     string(product),
			Label:       product.Label(),
			DealCount:   row.DealCount,
			Penetration: formatPercentValue(ratio(float64(row.DealCount), float64(activeDeals)) * 100),
			GrossTotal:  formatMoneyValue(row.GrossTotal),
			AvgGross:    formatMoneyValue(ratio(row.GrossTotal, float64(row.DealCount))),
		})
	}

	response := &ReportSummaryResponse{
		Period:   period.Label,
		From:     period.Start.Format(time.RFC3339),
		To:       period.End.Add(-time.Second).Format(time.RFC3339),
		Timezone: period.Timezone,
		KPI: ReportKPI{
			DealsTotal:     summary.DealsTotal,
			UnwoundDeals:   summary.UnwoundDeals,
			TotalUnits:     summary.BMWUnits + summary.MINIUnits,
			BMWUnits:       summary.BMWUnits,
			MINIUnits:      summary.MINIUnits,
			NewUnits:       summary.NewUnits,
			UsedUnits:      summary.UsedUnits,
			CPOUnits:       summary.CPOUnits,
			FEGross:        formatMoneyValue(summary.FEGross),
			BEGross:        formatMoneyValue(summary.BEGross),
			AvgFEGross:     formatMoneyValue(ratio(summary.FEGross, float64(activeDeals))),
			AvgBEGross:     formatMoneyValue(ratio(summary.BEGross, float64(activeDeals))),
			AVPTotal:       formatMoneyValue(summary.AVPTotal),
			AvgProductsPer: formatMoneyValue(ratio(float64(productCount), float64(activeDeals))),
		},
		Penetration: penetration,
	}
	s.writeCache(ctx, cacheKey, setting, response)
	return response, nil
}

// GetTrends 获取月度趋势，无成交的月份补零
func (s *ReportService) GetTrends(ctx context.Context, input ReportQueryInput) (*ReportTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &ReportTrendResponse{}, nil
	}
	period := input.Period
	setting := s.loadReportSetting()
	cacheKey := cache.ReportKey(ctx, "trends", period.Start.Unix(), period.End.Unix(), period.Timezone)

	var cached ReportTrendResponse
	if s.readCache(ctx, cacheKey, input.ForceRefresh, setting, &cached) {
		return &cached, nil
	}

	rows, err := s.repo.GetMonthlyTrends(period.Start, period.End)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.ReportTrendRow, len(rows))
	for _, row := range rows {
		rowMap[row.Month] = row
	}

	points := make([]ReportTrendPoint, 0)
	for cursor := time.Date(period.Start.Year(), period.Start.Month(), 1, 0, 0, 0, 0, period.Start.Location()); cursor.Before(period.End); cursor = cursor.AddDate(0, 1, 0) {
		month := cursor.Format("2006-01")
		row := rowMap[month]
		points = append(points, ReportTrendPoint{
			Month:   month,
			Units:   row.Units,
			FEGross: formatMoneyValue(row.FEGross),
			BEGross: formatMoneyValue(row.BEGross),
		})
	}

	response := &ReportTrendResponse{
		Period:   period.Label,
		From:     period.Start.Format(time.RFC3339),
		To:       period.End.Add(-time.Second).Format(time.RFC3339),
		Timezone: period.Timezone,
		Points:   points,
	}
	s.writeCache(ctx, cacheKey, setting, response)
	return response, nil
}

// GetRankings 获取销售顾问排行与金融经理业绩
func (s *ReportService) GetRankings(ctx context.Context, input ReportQueryInput) (*ReportRankingsResponse, error) {
	if s == nil || s.repo == nil {
		return &ReportRankingsResponse{}, nil
	}
	period := input.Period
	setting := s.loadReportSetting()
	cacheKey := cache.ReportKey(ctx, "rankings",
		period.Start.Unix(),
		period.End.Unix(),
		period.Timezone,
		setting.Ranking.SalespersonLimit,
		setting.Ranking.FinanceManagerLimit,
	)

	var cached ReportRankingsResponse
	if s.readCache(ctx, cacheKey, input.ForceRefresh, setting, &cached) {
		return &cached, nil
	}

	salesRows, err := s.repo.GetSalespersonRanking(period.Start, period.End, setting.Ranking.SalespersonLimit)
	if err != nil {
		return nil, err
	}
	managerRows, err := s.repo.GetFinanceManagerPerformance(period.Start, period.End)
	if err != nil {
		return nil, err
	}

	salespeople := make([]ReportSalespersonRanking, 0, len(salesRows))
	for i, row := range salesRows {
		salespeople = append(salespeople, ReportSalespersonRanking{
			Rank:          i + 1,
			SalespersonID: row.SalespersonID,
			Name:          displayName(row.Name),
			Units:         row.Units,
			FEGross:       formatMoneyValue(row.FEGross),
			BEGross:       formatMoneyValue(row.BEGross),
			TotalGross:    formatMoneyValue(row.FEGross + row.BEGross),
		})
	}

	if len(managerRows) > setting.Ranking.FinanceManagerLimit {
		managerRows = managerRows[:setting.Ranking.FinanceManagerLimit]
	}
	managers := make([]ReportFinanceManagerRanking, 0, len(managerRows))
	for i, row := range managerRows {
		managers = append(managers, ReportFinanceManagerRanking{
			Rank:             i + 1,
			FinanceManagerID: row.FinanceManagerID,
			Name:             displayName(row.Name),
			Deals:            row.Deals,
			BEGross:          formatMoneyValue(row.BEGross),
			AvgBEGross:       formatMoneyValue(ratio(row.BEGross, float64(row.Deals))),
			ProductCount:     row.ProductCount,
			ProductsPerDeal:  formatMoneyValue(ratio(float64(row.ProductCount), float64(row.Deals))),
			ProductGross:     formatMoneyValue(row.ProductGross),
		})
	}

	response := &ReportRankingsResponse{
		Period:          period.Label,
		From:            period.Start.Format(time.RFC3339),
		To:              period.End.Add(-time.Second).Format(time.RFC3339),
		Timezone:        period.Timezone,
		Salespeople:     salespeople,
		FinanceManagers: managers,
	}
	s.writeCache(ctx, cacheKey, setting, response)
	return response, nil
}

func (s *ReportService) readCache(ctx context.Context, key string, force bool, setting ReportSetting, dest interface{}) bool {
	if force || setting.Cache.TTLSeconds <= 0 {
		return false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	return err == nil && hit
}

func (s *ReportService) writeCache(ctx context.Context, key string, setting ReportSetting, value interface{}) {
	if setting.Cache.TTLSeconds <= 0 {
		return
	}
	_ = cache.SetJSON(ctx, key, value, time.Duration(setting.Cache.TTLSeconds)*time.Second)
}

func (s *ReportService) loadReportSetting() ReportSetting {
	fallback := ReportDefaultSetting()
	if s == nil || s.settingService == nil {
		return fallback
	}
	setting, err := s.settingService.GetReportSetting()
	if err != nil {
		return fallback
	}
	return NormalizeReportSetting(setting)
}

func ratio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "-"
	}
	return name
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

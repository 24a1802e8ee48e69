package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealerdesk/internal/config"
	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/provider"
	"github.com/dealerdesk/internal/service"

	"github.com/shopspring/decimal"
)

type seedSalesperson struct {
	Name         string
	Email        string
	PayPlan      string
	DemoEligible bool
}

type seedDeal struct {
	Brand     string
	Condition string
	MSRP      string
	FEGross   string
	Products  []service.DealProductInput
	Rewards   string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	cfg.Queue.Enabled = false
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainer(cfg)
	ctx := context.Background()

	// 销售顾问
	people := []seedSalesperson{
		{Name: "Alice Chen", Email: "alice@dealerdesk.local", PayPlan: "bmw", DemoEligible: true},
		{Name: "Brian Lee", Email: "brian@dealerdesk.local", PayPlan: "bmw"},
		{Name: "Carmen Diaz", Email: "carmen@dealerdesk.local", PayPlan: "mini", DemoEligible: true},
		{Name: "Derek Wu", Email: "derek@dealerdesk.local", PayPlan: "mini"},
	}
	salespersonIDs := make([]uint, 0, len(people))
	for _, item := range people {
		existing, _, err := container.SalespersonService.List(item.Email, "", nil, 1, 1)
		if err != nil {
			stdLog.Fatalf("Failed to load salespeople: %v", err)
		}
		if len(existing) > 0 {
			stdLog.Printf("Salesperson already exists: %s", item.Name)
			salespersonIDs = append(salespersonIDs, existing[0].ID)
			continue
		}
		demo := item.DemoEligible
		person, err := container.SalespersonService.Create(service.SalespersonInput{
			Name:         item.Name,
			Email:        item.Email,
			PayPlan:      item.PayPlan,
			DemoEligible: &demo,
		})
		if err != nil {
			stdLog.Printf("Failed to create salesperson %s: %v", item.Name, err)
			continue
		}
		stdLog.Printf("Created salesperson: %s (%s)", person.Name, person.PayPlan)
		salespersonIDs = append(salespersonIDs, person.ID)
	}
	if len(salespersonIDs) == 0 {
		stdLog.Fatalf("No salespeople available, abort seeding")
	}

	// 金融经理
	var financeManagerID *uint
	managers, _, err := container.FinanceManagerService.List("fi@dealerdesk.local", nil, 1, 1)
	if err != nil {
		stdLog.Fatalf("Failed to load finance managers: %v", err)
	}
	if len(managers) > 0 {
		financeManagerID = &managers[0].ID
	} else {
		manager, err := container.FinanceManagerService.Create(service.FinanceManagerInput{
			Name:  "Frank Ito",
			Email: "fi@dealerdesk.local",
		})
		if err != nil {
			stdLog.Printf("Failed to create finance manager: %v", err)
		} else {
			stdLog.Printf("Created finance manager: %s", manager.Name)
			financeManagerID = &manager.ID
		}
	}

	// 本月成交
	templates := []seedDeal{
		{
			Brand: "bmw", Condition: "new", MSRP: "62500", FEGross: "1850",
			Products: []service.DealProductInput{
				{Product: "vsc", Mode: "direct", Amount: decimal.RequireFromString("1450")},
				{Product: "gap", Mode: "calculated", Price: decimal.RequireFromString("895"), Cost: decimal.RequireFromString("300")},
			},
			Rewards: "50",
		},
		{
			Brand: "bmw", Condition: "cpo", MSRP: "41800", FEGross: "2200",
			Products: []service.DealProductInput{
				{Product: "maintenance", Mode: "direct", Amount: decimal.RequireFromString("700")},
			},
		},
		{
			Brand: "mini", Condition: "new", MSRP: "33900", FEGross: "950",
			Products: []service.DealProductInput{
				{Product: "ppf", Mode: "calculated", Price: decimal.RequireFromString("1495"), Cost: decimal.RequireFromString("600")},
				{Product: "wheel_tire", Mode: "direct", Amount: decimal.RequireFromString("400")},
			},
		},
		{
			Brand: "mini", Condition: "used", MSRP: "0", FEGross: "1300",
		},
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	created := 0
	for i, personID := range salespersonIDs {
		for j, tpl := range templates {
			number := fmt.Sprintf("SEED-%s-%02d%02d", monthStart.Format("200601"), i+1, j+1)
			avpMode := "calculated"
			if tpl.Condition == "used" {
				avpMode = "direct"
			}
			rewards := decimal.Zero
			if tpl.Rewards != "" {
				rewards = decimal.RequireFromString(tpl.Rewards)
			}
			_, err := container.DealService.Create(ctx, service.DealInput{
				DealNumber:          number,
				DealDate:            monthStart.AddDate(0, 0, j*3+i),
				Brand:               tpl.Brand,
				VehicleCondition:    tpl.Condition,
				StockNumber:         fmt.Sprintf("STK%04d", i*10+j),
				CustomerName:        fmt.Sprintf("Customer %d", i*10+j),
				SalespersonID:       personID,
				FinanceManagerID:    financeManagerID,
				MSRP:                decimal.RequireFromString(tpl.MSRP),
				AVPMode:             avpMode,
				FEGross:             decimal.RequireFromString(tpl.FEGross),
				RewardsUpgradeBonus: rewards,
				Products:            tpl.Products,
			})
			if errors.Is(err, service.ErrDealNumberExists) {
				continue
			}
			if err != nil {
				stdLog.Printf("Failed to create deal %s: %v", number, err)
				continue
			}
			created++
		}
	}
	stdLog.Printf("Created %d deals", created)

	// Spiff：一笔已批准，一笔已支付
	approvedSteps := []string{constants.SpiffActionSubmit, constants.SpiffActionApprove}
	paidSteps := []string{constants.SpiffActionSubmit, constants.SpiffActionApprove, constants.SpiffActionPay}
	for i, steps := range [][]string{approvedSteps, paidSteps} {
		spiff, err := container.SpiffService.Create(service.SpiffInput{
			SalespersonID: salespersonIDs[i%len(salespersonIDs)],
			Amount:        decimal.NewFromInt(int64(100 * (i + 1))),
			Reason:        "Manufacturer weekend spiff",
			SpiffDate:     monthStart,
		}, 0)
		if err != nil {
			stdLog.Printf("Failed to create spiff: %v", err)
			continue
		}
		for _, action := range steps {
			if _, _, err := container.SpiffService.Transition(ctx, spiff.ID, service.SpiffTransitionInput{Action: action}); err != nil {
				stdLog.Printf("Failed to %s spiff %d: %v", action, spiff.ID, err)
				break
			}
		}
	}

	stdLog.Printf("Seed completed")
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/dealerdesk/internal/constants"
	"github.com/dealerdesk/internal/logger"
	"github.com/dealerdesk/internal/metrics"
	"github.com/dealerdesk/internal/models"
	"github.com/dealerdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// SpiffService spiff 台账业务服务
type SpiffService struct {
	repo            repository.SpiffRepository
	salespersonRepo repository.SalespersonRepository
	dealRepo        repository.DealRepository
}

// NewSpiffService 创建 spiff 服务
func NewSpiffService(repo repository.SpiffRepository, salespersonRepo repository.SalespersonRepository, dealRepo repository.DealRepository) *SpiffService {
	return &SpiffService{repo: repo, salespersonRepo: salespersonRepo, dealRepo: dealRepo}
}

// SpiffInput 创建/更新 spiff 输入
type SpiffInput struct {
	SalespersonID uint
	DealID        *uint
	Amount        decimal.Decimal
	Reason        string
	SpiffDate     time.Time
}

// SpiffTransitionInput 状态流转输入
type SpiffTransitionInput struct {
	Action     string
	OperatorID uint
	Reason     string
}

// spiffTransition 单个动作允许的来源状态与目标状态
type spiffTransition struct {
	from []string
	to   string
}

var allowedSpiffTransitions = map[string]spiffTransition{
	constants.SpiffActionSubmit: {
		from: []string{constants.SpiffStatusDraft},
		to:   constants.SpiffStatusPending,
	},
	constants.SpiffActionReturn: {
		from: []string{constants.SpiffStatusPending},
		to:   constants.SpiffStatusDraft,
	},
	constants.SpiffActionApprove: {
		from: []string{constants.SpiffStatusPending},
		to:   constants.SpiffStatusApproved,
	},
	constants.SpiffActionPay: {
		from: []string{constants.SpiffStatusApproved},
		to:   constants.SpiffStatusPaid,
	},
	constants.SpiffActionCancel: {
		from: []string{constants.SpiffStatusDraft, constants.SpiffStatusPending, constants.SpiffStatusApproved},
		to:   constants.SpiffStatusCancelled,
	},
}

// IsSpiffTransitionAllowed 判断动作是否可作用于当前状态
func IsSpiffTransitionAllowed(current, action string) bool {
	transition, ok := allowedSpiffTransitions[action]
	if !ok {
		return false
	}
	for _, from := range transition.from {
		if from == current {
			return true
		}
	}
	return false
}

// List 分页查询 spiff
func (s *SpiffService) List(filter repository.SpiffListFilter) ([]models.Spiff, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

// GetByID 获取 spiff
func (s *SpiffService) GetByID(id uint) (*models.Spiff, error) {
	spiff, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if spiff == nil {
		return nil, ErrNotFound
	}
	return spiff, nil
}

// Create 创建 spiff（草稿状态）
func (s *SpiffService) Create(input SpiffInput, createdBy uint) (*models.Spiff, error) {
	spiff := &models.Spiff{
		Status:    constants.SpiffStatusDraft,
		CreatedBy: createdBy,
	}
	if err := s.applyInput(spiff, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(spiff); err != nil {
		return nil, err
	}
	return spiff, nil
}

// Update 更新 spiff，仅草稿可编辑
func (s *SpiffService) Update(id uint, input SpiffInput) (*models.Spiff, error) {
	spiff, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if spiff.Status != constants.SpiffStatusDraft {
		return nil, ErrSpiffNotEditable
	}
	if err := s.applyInput(spiff, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(spiff); err != nil {
		return nil, err
	}
	return spiff, nil
}

// Delete 删除 spiff，仅草稿可删除
func (s *SpiffService) Delete(id uint) error {
	spiff, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if spiff.Status != constants.SpiffStatusDraft {
		return ErrSpiffNotEditable
	}
	return s.repo.Delete(id)
}

// Transition 执行状态流转并记录时间戳与操作人
// 并发流转以数据库中的当前状态为准，状态已变化时返回 ErrSpiffTransitionInvalid
func (s *SpiffService) Transition(ctx context.Context, id uint, input SpiffTransitionInput) (*models.Spiff, string, error) {
	action := strings.ToLower(strings.TrimSpace(input.Action))
	transition, ok := allowedSpiffTransitions[action]
	if !ok {
		return nil, "", ErrSpiffTransitionInvalid
	}
	current, err := s.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if !IsSpiffTransitionAllowed(current.Status, action) {
		return nil, current.Status, ErrSpiffTransitionInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status": transition.to,
	}
	switch action {
	case constants.SpiffActionSubmit:
		updates["submitted_at"] = now
	case constants.SpiffActionReturn:
		updates["submitted_at"] = nil
	case constants.SpiffActionApprove:
		updates["approved_at"] = now
		updates["approved_by"] = input.OperatorID
	case constants.SpiffActionPay:
		updates["paid_at"] = now
	case constants.SpiffActionCancel:
		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			return nil, current.Status, ErrSpiffInvalid
		}
		updates["cancelled_at"] = now
		updates["cancel_reason"] = reason
	}

	updated, err := s.repo.Transition(id, transition.from, updates)
	if err != nil {
		return nil, current.Status, err
	}
	if updated == nil {
		return nil, current.Status, ErrSpiffTransitionInvalid
	}
	metrics.RecordSpiffTransition(action)
	logger.C(ctx,
		"spiff_id", id,
		"action", action,
		"from_status", current.Status,
		"to_status", updated.Status,
		"operator_id", input.OperatorID,
	).Infow("spiff_transitioned")
	return updated, current.Status, nil
}

func (s *SpiffService) applyInput(spiff *models.Spiff, input SpiffInput) error {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" || input.SpiffDate.IsZero() || !input.Amount.IsPositive() {
		return ErrSpiffInvalid
	}
	if input.SalespersonID == 0 {
		return ErrSalespersonNotFound
	}
	salesperson, err := s.salespersonRepo.GetByID(input.SalespersonID)
	if err != nil {
		return err
	}
	if salesperson == nil {
		return ErrSalespersonNotFound
	}

	var dealID *uint
	if input.DealID != nil && *input.DealID != 0 {
		deal, err := s.dealRepo.GetByID(*input.DealID)
		if err != nil {
			return err
		}
		if deal == nil || deal.SalespersonID != input.SalespersonID {
			return ErrSpiffInvalid
		}
		value := *input.DealID
		dealID = &value
	}

	spiff.SalespersonID = input.SalespersonID
	spiff.DealID = dealID
	spiff.Amount = models.NewMoneyFromDecimal(input.Amount)
	spiff.Reason = reason
	spiff.SpiffDate = input.SpiffDate
	spiff.Salesperson = nil
	return nil
}

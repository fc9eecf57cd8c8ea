package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/app/service/plan"
	"github.com/epetitpas/aischool/internal/models"
	cfgpkg "github.com/epetitpas/aischool/pkg/config"
	"github.com/epetitpas/aischool/pkg/logctx"
	"github.com/epetitpas/aischool/pkg/tool"
	"github.com/epetitpas/aischool/pkg/types"
)

// DefaultDailyLimit is the freemium limit applied to users without an active
// subscription when no override is configured.
const DefaultDailyLimit = 20

var ErrNoActiveSubscription = errors.New("no active subscription")

type Service struct {
	cfg   *cfgpkg.Config
	db    *gorm.DB
	log   *zap.SugaredLogger
	plans *plan.Service
}

func NewService(cfg *cfgpkg.Config, db *gorm.DB, log *zap.SugaredLogger, plans *plan.Service) *Service {
	return &Service{cfg: cfg, db: db, log: log, plans: plans}
}

// ActiveSubscription returns the authoritative active subscription for a user,
// or nil when none exists. When provisioning anomalies leave several ACTIVE
// rows, the most recently created one wins.
func (s *Service) ActiveSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ?", userID, types.SubscriptionStatusActive).
		Order("created_at desc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return &sub, nil
}

// ResolveDailyLimit returns the daily question limit in effect right now:
// the active plan's limit, or the freemium default for unsubscribed users.
func (s *Service) ResolveDailyLimit(ctx context.Context, userID string) (int, error) {
	sub, err := s.ActiveSubscription(ctx, userID)
	if err != nil {
		return 0, err
	}
	if sub == nil {
		return s.defaultLimit(), nil
	}
	return sub.Plan.DailyQuestionsLimit, nil
}

func (s *Service) defaultLimit() int {
	if s.cfg != nil && s.cfg.Quota.DefaultDailyLimit > 0 {
		return s.cfg.Quota.DefaultDailyLimit
	}
	return DefaultDailyLimit
}

// Subscribe puts the user on a plan. Any currently active subscription is
// cancelled in the same transaction; history rows are kept.
func (s *Service) Subscribe(ctx context.Context, userID, planID string, autoRenew bool) (*models.UserSubscription, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &models.UserSubscription{
		ID:        tool.GenerateUUIDV7(),
		UserID:    userID,
		PlanID:    p.ID,
		Status:    types.SubscriptionStatusActive,
		StartDate: now,
		AutoRenew: autoRenew,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserSubscription{}).
			Where("user_id = ? AND status = ?", userID, types.SubscriptionStatusActive).
			Updates(map[string]any{"status": types.SubscriptionStatusCancelled, "end_date": now}).Error; err != nil {
			return fmt.Errorf("failed to cancel previous subscription: %w", err)
		}
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("user subscribed",
		"user_id", userID, "plan", p.Name, "daily_limit", p.DailyQuestionsLimit)

	sub.Plan = *p
	return sub, nil
}

// Cancel marks the user's active subscription as cancelled. The already-created
// quota row for today keeps its snapshot limit; tomorrow's row falls back to
// the freemium default.
func (s *Service) Cancel(ctx context.Context, userID string) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.UserSubscription{}).
		Where("user_id = ? AND status = ?", userID, types.SubscriptionStatusActive).
		Updates(map[string]any{"status": types.SubscriptionStatusCancelled, "end_date": now})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoActiveSubscription
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription cancelled", "user_id", userID)
	return nil
}

// Info builds the user-facing subscription view, or nil for unsubscribed users.
func (s *Service) Info(ctx context.Context, userID string) (*types.SubscriptionInfo, error) {
	sub, err := s.ActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	return &types.SubscriptionInfo{
		ID:        sub.ID,
		PlanName:  sub.Plan.Name,
		Status:    sub.Status,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		AutoRenew: sub.AutoRenew,
		Features: types.PlanFeatures{
			DailyQuestionsLimit: sub.Plan.DailyQuestionsLimit,
			CanGenerateQuizzes:  sub.Plan.CanGenerateQuizzes,
			CanExportFiles:      sub.Plan.CanExportFiles,
			HasAdvancedStats:    sub.Plan.HasAdvancedStats,
		},
	}, nil
}

package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/app/service/plan"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/tool"
	"github.com/epetitpas/aischool/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.SubscriptionPlan{}, &models.UserSubscription{}))

	log := zap.NewNop().Sugar()
	require.NoError(t, plan.SeedDefaults(log, db))
	return NewService(nil, db, log, plan.NewService(db, log)), db
}

func mustPlan(t *testing.T, svc *Service, name string) *models.SubscriptionPlan {
	t.Helper()
	p, err := svc.plans.GetByName(context.Background(), name)
	require.NoError(t, err)
	return p
}

func TestResolveDailyLimit_DefaultsWithoutSubscription(t *testing.T) {
	svc, _ := newTestService(t)

	limit, err := svc.ResolveDailyLimit(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, DefaultDailyLimit, limit)
}

func TestResolveDailyLimit_UsesActivePlanLimit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := mustPlan(t, svc, "premium")
	_, err := svc.Subscribe(ctx, "user-1", p.ID, false)
	require.NoError(t, err)

	limit, err := svc.ResolveDailyLimit(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 300, limit)
}

func TestSubscribe_CancelsPreviousActive(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	standard := mustPlan(t, svc, "standard")
	premium := mustPlan(t, svc, "premium")

	first, err := svc.Subscribe(ctx, "user-1", standard.ID, false)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, "user-1", premium.ID, true)
	require.NoError(t, err)

	active, err := svc.ActiveSubscription(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, premium.ID, active.PlanID)
	require.True(t, active.AutoRenew)

	var old models.UserSubscription
	require.NoError(t, db.Where("id = ?", first.ID).First(&old).Error)
	require.Equal(t, types.SubscriptionStatusCancelled, old.Status)
	require.NotNil(t, old.EndDate)
}

func TestSubscribe_UnknownPlanFails(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Subscribe(context.Background(), "user-1", tool.GenerateUUIDV7(), false)
	require.ErrorIs(t, err, plan.ErrPlanNotFound)
}

func TestCancel_WithoutActiveSubscriptionFails(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Cancel(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestCancel_FallsBackToDefaultLimit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := mustPlan(t, svc, "standard")
	_, err := svc.Subscribe(ctx, "user-1", p.ID, false)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, "user-1"))

	limit, err := svc.ResolveDailyLimit(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, DefaultDailyLimit, limit)
}

func TestActiveSubscription_NewestCreatedWins(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	standard := mustPlan(t, svc, "standard")
	premium := mustPlan(t, svc, "premium")

	// simulate a provisioning anomaly with two ACTIVE rows
	old := &models.UserSubscription{
		ID: tool.GenerateUUIDV7(), UserID: "user-1", PlanID: standard.ID,
		Status: types.SubscriptionStatusActive, StartDate: time.Now().Add(-48 * time.Hour),
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	newer := &models.UserSubscription{
		ID: tool.GenerateUUIDV7(), UserID: "user-1", PlanID: premium.ID,
		Status: types.SubscriptionStatusActive, StartDate: time.Now(),
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Create(newer).Error)

	active, err := svc.ActiveSubscription(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, newer.ID, active.ID)
	require.Equal(t, premium.ID, active.Plan.ID)
}

func TestInfo_NilForUnsubscribedUser(t *testing.T) {
	svc, _ := newTestService(t)

	info, err := svc.Info(context.Background(), "user-1")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestInfo_ExposesPlanFeatures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := mustPlan(t, svc, "pro")
	_, err := svc.Subscribe(ctx, "user-1", p.ID, true)
	require.NoError(t, err)

	info, err := svc.Info(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "pro", info.PlanName)
	require.Equal(t, 1000, info.Features.DailyQuestionsLimit)
	require.True(t, info.Features.CanGenerateQuizzes)
	require.True(t, info.Features.CanExportFiles)
	require.True(t, info.Features.HasAdvancedStats)
}

package plan

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.SubscriptionPlan{}))
	return NewService(db, zap.NewNop().Sugar()), db
}

func TestSeedDefaults_IsIdempotent(t *testing.T) {
	_, db := newTestService(t)
	log := zap.NewNop().Sugar()

	require.NoError(t, SeedDefaults(log, db))
	require.NoError(t, SeedDefaults(log, db))

	var count int64
	require.NoError(t, db.Model(&models.SubscriptionPlan{}).Count(&count).Error)
	require.EqualValues(t, 4, count)
}

func TestSeedDefaults_KeepsManualEdits(t *testing.T) {
	svc, db := newTestService(t)
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	require.NoError(t, SeedDefaults(log, db))
	require.NoError(t, db.Model(&models.SubscriptionPlan{}).
		Where("name = ?", "standard").
		UpdateColumn("daily_questions_limit", 150).Error)

	require.NoError(t, SeedDefaults(log, db))
	p, err := svc.GetByName(ctx, "standard")
	require.NoError(t, err)
	require.Equal(t, 150, p.DailyQuestionsLimit)
}

func TestList_OrderedByPrice(t *testing.T) {
	svc, db := newTestService(t)
	require.NoError(t, SeedDefaults(zap.NewNop().Sugar(), db))

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 4)
	require.Equal(t, "freemium", plans[0].Name)
	require.Equal(t, "pro", plans[3].Name)
	for i := 1; i < len(plans); i++ {
		require.LessOrEqual(t, plans[i-1].Price, plans[i].Price)
	}
}

func TestDefaultPlans_TierLimits(t *testing.T) {
	limits := map[string]int{}
	for _, p := range DefaultPlans() {
		limits[p.Name] = p.DailyQuestionsLimit
	}
	require.Equal(t, 20, limits["freemium"])
	require.Equal(t, 100, limits["standard"])
	require.Equal(t, 300, limits["premium"])
	require.Equal(t, 1000, limits["pro"])
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

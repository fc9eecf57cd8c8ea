package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/models"
)

type stubResolver struct {
	limit int
	err   error
	calls int
}

func (r *stubResolver) ResolveDailyLimit(ctx context.Context, userID string) (int, error) {
	r.calls++
	return r.limit, r.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.DailyQuota{}))
	return db
}

func newTestLedger(t *testing.T, limit int) (*Ledger, *stubResolver) {
	t.Helper()
	resolver := &stubResolver{limit: limit}
	return NewLedger(newTestDB(t), resolver, zap.NewNop().Sugar()), resolver
}

func TestDayOf_TruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2025, 3, 10, 2, 30, 0, 0, loc) // 2025-03-09 21:30 UTC

	day := DayOf(in)
	require.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), day)
}

func TestGetOrCreateToday_CreatesWithResolvedLimit(t *testing.T) {
	l, resolver := newTestLedger(t, 20)
	ctx := context.Background()

	row, err := l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, row.QuestionsUsed)
	require.Equal(t, 20, row.QuestionsLimit)
	require.True(t, row.Date.UTC().Equal(DayOf(time.Now())))

	// second call reuses the row and does not consult the resolver again
	again, err := l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, row.ID, again.ID)
	require.Equal(t, 1, resolver.calls)
}

func TestGetOrCreateToday_LimitSnapshotSurvivesPlanChange(t *testing.T) {
	l, resolver := newTestLedger(t, 20)
	ctx := context.Background()

	row, err := l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 20, row.QuestionsLimit)

	// a mid-day plan upgrade must not touch the existing row
	resolver.limit = 100
	row, err = l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 20, row.QuestionsLimit)
}

func TestGetOrCreateToday_ConcurrentCallsYieldOneRow(t *testing.T) {
	l, _ := newTestLedger(t, 20)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	rows := make(chan *models.DailyQuota, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			row, err := l.GetOrCreateToday(ctx, "user-1")
			rows <- row
			errs <- err
		}()
	}
	wg.Wait()
	close(rows)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	ids := map[string]bool{}
	for row := range rows {
		require.NotNil(t, row)
		ids[row.ID] = true
	}
	require.Len(t, ids, 1)

	var count int64
	require.NoError(t, l.db.Model(&models.DailyQuota{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetOrCreateToday_ResolverFailurePropagates(t *testing.T) {
	l, resolver := newTestLedger(t, 0)
	resolver.err = errors.New("boom")

	_, err := l.GetOrCreateToday(context.Background(), "user-1")
	require.Error(t, err)
}

func TestCheckAndReserve_AllowsUntilLimit(t *testing.T) {
	l, _ := newTestLedger(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := l.CheckAndReserve(ctx, "user-1")
		require.NoError(t, err)
		require.NoError(t, l.Increment(ctx, "user-1"))
	}

	_, err := l.CheckAndReserve(ctx, "user-1")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	var exceeded *ExceededError
	require.ErrorAs(t, err, &exceeded)
	require.Equal(t, 2, exceeded.Limit)
}

func TestCheckAndReserve_ZeroLimitRejectsImmediately(t *testing.T) {
	l, _ := newTestLedger(t, 0)

	_, err := l.CheckAndReserve(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestIncrement_CountsConcurrentCallsExactly(t *testing.T) {
	l, _ := newTestLedger(t, 1000)
	ctx := context.Background()

	_, err := l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.Increment(ctx, "user-1")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	row, err := l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, n, row.QuestionsUsed)
}

func TestIncrement_WithoutRowFails(t *testing.T) {
	l, _ := newTestLedger(t, 20)

	err := l.Increment(context.Background(), "user-1")
	require.Error(t, err)
}

func TestStatus_DoesNotCreateRow(t *testing.T) {
	l, _ := newTestLedger(t, 20)
	ctx := context.Background()

	info, err := l.Status(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, info.Used)
	require.Equal(t, 20, info.Limit)
	require.Equal(t, 20, info.Remaining)
	require.Equal(t, DayOf(time.Now()).Add(24*time.Hour), info.ResetAt)

	var count int64
	require.NoError(t, l.db.Model(&models.DailyQuota{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestStatus_ReflectsConsumption(t *testing.T) {
	l, _ := newTestLedger(t, 3)
	ctx := context.Background()

	_, err := l.GetOrCreateToday(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, l.Increment(ctx, "user-1"))

	info, err := l.Status(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, info.Used)
	require.Equal(t, 3, info.Limit)
	require.Equal(t, 2, info.Remaining)
}

func TestGetOrCreateToday_NewDayStartsFresh(t *testing.T) {
	l, _ := newTestLedger(t, 2)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	_, err := l.CheckAndReserve(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, l.Increment(ctx, "user-1"))
	require.NoError(t, l.Increment(ctx, "user-1"))
	_, err = l.CheckAndReserve(ctx, "user-1")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// past midnight the counter resets because a fresh row is used
	l.now = func() time.Time { return base.Add(15 * time.Hour) }
	row, err := l.CheckAndReserve(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, row.QuestionsUsed)
}

func TestExceededError_MentionsLimitAndUpgrade(t *testing.T) {
	err := &ExceededError{Limit: 20}
	require.Contains(t, err.Error(), "20")
	require.Contains(t, err.Error(), "Upgrade your plan")
	require.ErrorIs(t, err, ErrQuotaExceeded)
}

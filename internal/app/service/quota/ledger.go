package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/logctx"
	"github.com/epetitpas/aischool/pkg/metrics"
	"github.com/epetitpas/aischool/pkg/tool"
	"github.com/epetitpas/aischool/pkg/types"
)

// ErrQuotaExceeded matches any ExceededError via errors.Is.
var ErrQuotaExceeded = errors.New("daily question quota exceeded")

// ExceededError carries the limit that was hit so callers can render
// upgrade messaging.
type ExceededError struct {
	Limit int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("daily question limit reached (%d). Upgrade your plan for more questions", e.Limit)
}

func (e *ExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// LimitResolver yields the daily question limit in effect for a user right
// now. Satisfied by subscription.Service.
type LimitResolver interface {
	ResolveDailyLimit(ctx context.Context, userID string) (int, error)
}

// Ledger tracks and gates per-day question consumption. The quota row is the
// only contended shared mutable state in the system; it is scoped per
// (user, day) and incremented with a single atomic UPDATE.
type Ledger struct {
	db       *gorm.DB
	resolver LimitResolver
	log      *zap.SugaredLogger

	// now is swapped in tests to control the day boundary.
	now func() time.Time
}

func NewLedger(db *gorm.DB, resolver LimitResolver, log *zap.SugaredLogger) *Ledger {
	return &Ledger{db: db, resolver: resolver, log: log, now: time.Now}
}

// DayOf truncates t to the start of its UTC day. One policy for every
// deployment keeps the day boundary stable across timezones and DST.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetOrCreateToday returns today's quota row for the user, lazily creating it
// with the currently resolved plan limit. Creation is race-safe: the unique
// (user_id, date) index turns the concurrent-create race into a conflict, and
// the loser re-reads the winner's row.
func (l *Ledger) GetOrCreateToday(ctx context.Context, userID string) (*models.DailyQuota, error) {
	today := DayOf(l.now())

	row, err := l.find(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}

	limit, err := l.resolver.ResolveDailyLimit(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve daily limit: %w", err)
	}

	fresh := &models.DailyQuota{
		ID:             tool.GenerateUUIDV7(),
		UserID:         userID,
		Date:           today,
		QuestionsUsed:  0,
		QuestionsLimit: limit,
	}
	res := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(fresh)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create quota row: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logctx.FromCtx(ctx, l.log).Infow("created daily quota row",
			"user_id", userID, "date", today.Format(time.DateOnly), "limit", limit)
		return fresh, nil
	}

	// Lost the creation race; the winner's row is authoritative.
	row, err = l.find(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("quota row for user %s vanished after conflict", userID)
	}
	return row, nil
}

// CheckAndReserve gates a question-creation attempt. It returns the current
// row when capacity remains and ExceededError once used >= limit. The caller
// must call Increment only after the question was generated and persisted.
func (l *Ledger) CheckAndReserve(ctx context.Context, userID string) (*models.DailyQuota, error) {
	row, err := l.GetOrCreateToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row.Exhausted() {
		metrics.QuotaExceededTotal.Inc()
		logctx.FromCtx(ctx, l.log).Infow("daily quota exhausted",
			"user_id", userID, "used", row.QuestionsUsed, "limit", row.QuestionsLimit)
		return nil, &ExceededError{Limit: row.QuestionsLimit}
	}
	return row, nil
}

// Increment consumes one question from today's quota. The counter update is a
// single atomic UPDATE so N concurrent successful generations always account
// for exactly N questions.
func (l *Ledger) Increment(ctx context.Context, userID string) error {
	today := DayOf(l.now())
	res := l.db.WithContext(ctx).
		Model(&models.DailyQuota{}).
		Where("user_id = ? AND date = ?", userID, today).
		UpdateColumn("questions_used", gorm.Expr("questions_used + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment quota: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no quota row for user %s on %s", userID, today.Format(time.DateOnly))
	}
	return nil
}

// Status reports today's consumption without creating a row: when none exists
// yet, the response is synthesized from the resolved limit.
func (l *Ledger) Status(ctx context.Context, userID string) (*types.QuotaInfo, error) {
	today := DayOf(l.now())
	resetAt := today.Add(24 * time.Hour)

	row, err := l.find(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if row == nil {
		limit, err := l.resolver.ResolveDailyLimit(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve daily limit: %w", err)
		}
		return &types.QuotaInfo{Used: 0, Limit: limit, Remaining: limit, ResetAt: resetAt}, nil
	}
	return &types.QuotaInfo{
		Used:      row.QuestionsUsed,
		Limit:     row.QuestionsLimit,
		Remaining: row.Remaining(),
		ResetAt:   resetAt,
	}, nil
}

func (l *Ledger) find(ctx context.Context, userID string, day time.Time) (*models.DailyQuota, error) {
	var row models.DailyQuota
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load quota row: %w", err)
	}
	return &row, nil
}

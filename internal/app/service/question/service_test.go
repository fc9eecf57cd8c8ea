package question

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/internal/platform/ai"
)

type stubGenerator struct {
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, req *ai.GenerateRequest) *ai.Generated {
	g.calls++
	return &ai.Generated{
		Answer: "stub answer for " + req.QuestionText,
		Steps:  []models.QuestionStep{{Title: "Step", Content: "do the thing", Order: 1}},
		Quiz: []models.QuizItem{{
			Question: "q?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1,
		}},
		TokensUsed: 42,
	}
}

type fixedLimit struct{ limit int }

func (r fixedLimit) ResolveDailyLimit(ctx context.Context, userID string) (int, error) {
	return r.limit, nil
}

func newTestService(t *testing.T, limit int) (*Service, *stubGenerator, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.DailyQuota{}, &models.AIQuestion{}))

	log := zap.NewNop().Sugar()
	gen := &stubGenerator{}
	ledger := quota.NewLedger(db, fixedLimit{limit: limit}, log)
	return NewService(db, log, gen, ledger), gen, db
}

func TestCreate_ConsumesQuotaAndPersists(t *testing.T) {
	svc, gen, db := newTestService(t, 5)
	ctx := context.Background()

	q, info, err := svc.Create(ctx, "user-1", &CreateRequest{
		Subject:      "Mathematics",
		GradeLevel:   "Terminale",
		QuestionText: "How do I solve this equation step by step?",
	})
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, DefaultQuestionType, q.QuestionType)
	require.Contains(t, q.AIResponse, "stub answer")
	require.Equal(t, 42, q.TokensUsed)
	require.Contains(t, []string(q.Tags), "mathematics")
	require.Contains(t, []string(q.Tags), "equation")

	require.Equal(t, 1, info.Used)
	require.Equal(t, 5, info.Limit)
	require.Equal(t, 4, info.Remaining)

	var count int64
	require.NoError(t, db.Model(&models.AIQuestion{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreate_RejectedWhenQuotaExhausted(t *testing.T) {
	svc, gen, db := newTestService(t, 0)

	_, _, err := svc.Create(context.Background(), "user-1", &CreateRequest{
		Subject:      "Physics",
		GradeLevel:   "6ème",
		QuestionText: "Why does the sky appear blue at noon?",
	})
	require.ErrorIs(t, err, quota.ErrQuotaExceeded)
	require.Zero(t, gen.calls)

	var count int64
	require.NoError(t, db.Model(&models.AIQuestion{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreate_StopsAtLimit(t *testing.T) {
	svc, _, _ := newTestService(t, 2)
	ctx := context.Background()

	req := &CreateRequest{
		Subject:      "History",
		GradeLevel:   "4ème",
		QuestionText: "What caused the French Revolution to start?",
	}
	for i := 0; i < 2; i++ {
		_, _, err := svc.Create(ctx, "user-1", req)
		require.NoError(t, err)
	}
	_, _, err := svc.Create(ctx, "user-1", req)
	require.ErrorIs(t, err, quota.ErrQuotaExceeded)
}

func seedQuestion(t *testing.T, svc *Service, userID, subject, text string) *models.AIQuestion {
	t.Helper()
	q, _, err := svc.Create(context.Background(), userID, &CreateRequest{
		Subject:      subject,
		GradeLevel:   "Licence",
		QuestionText: text,
	})
	require.NoError(t, err)
	return q
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	seedQuestion(t, svc, "user-1", "Mathematics", "Explain the quadratic formula please")
	seedQuestion(t, svc, "user-1", "Physics", "Explain the law of gravity in detail")
	seedQuestion(t, svc, "user-2", "Mathematics", "What is a derivative exactly here?")

	rows, pg, err := svc.List(ctx, "user-1", &ListRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.EqualValues(t, 2, pg.Total)

	rows, _, err = svc.List(ctx, "user-1", &ListRequest{Subject: "Physics"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Physics", rows[0].Subject)

	rows, _, err = svc.List(ctx, "user-1", &ListRequest{Search: "GRAVITY"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestList_SearchMatchesTags(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	// "physics" only appears as the subject-derived tag, not in the text or answer
	seedQuestion(t, svc, "user-1", "Physics", "Why do objects fall toward the ground?")
	seedQuestion(t, svc, "user-1", "Biology", "Why do leaves turn yellow in autumn?")

	rows, _, err := svc.List(ctx, "user-1", &ListRequest{Search: "physics"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Physics", rows[0].Subject)
}

func TestGet_ScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	q := seedQuestion(t, svc, "user-1", "Biology", "How does photosynthesis actually work?")

	got, err := svc.Get(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.Equal(t, q.ID, got.ID)

	_, err = svc.Get(ctx, "user-2", q.ID)
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestToggleBookmark_Flips(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	q := seedQuestion(t, svc, "user-1", "Chemistry", "What is a covalent bond made of?")

	got, err := svc.ToggleBookmark(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.True(t, got.IsBookmarked)

	got, err = svc.ToggleBookmark(ctx, "user-1", q.ID)
	require.NoError(t, err)
	require.False(t, got.IsBookmarked)
}

func TestDelete_DoesNotRefundQuota(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	q := seedQuestion(t, svc, "user-1", "French", "Comment conjuguer le verbe être au futur?")
	require.NoError(t, svc.Delete(ctx, "user-1", q.ID))

	info, err := svc.ledger.Status(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, info.Used)
}

func TestBulkDelete_SkipsForeignIDs(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	mine := seedQuestion(t, svc, "user-1", "English", "What is the past tense of go?")
	theirs := seedQuestion(t, svc, "user-2", "English", "What is the plural form of mouse?")

	deleted, err := svc.BulkDelete(ctx, "user-1", []string{mine.ID, theirs.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = svc.Get(ctx, "user-2", theirs.ID)
	require.NoError(t, err)
}

func TestBulkDelete_EnforcesBatchLimit(t *testing.T) {
	svc, _, _ := newTestService(t, 100)

	ids := make([]string, MaxBulkDelete+1)
	for i := range ids {
		ids[i] = "id"
	}
	_, err := svc.BulkDelete(context.Background(), "user-1", ids)
	require.Error(t, err)
}

func TestGetStats_Aggregates(t *testing.T) {
	svc, _, _ := newTestService(t, 100)
	ctx := context.Background()

	seedQuestion(t, svc, "user-1", "Mathematics", "Explain prime factorisation with an example")
	seedQuestion(t, svc, "user-1", "Mathematics", "What is the proof of Pythagoras theorem?")
	q := seedQuestion(t, svc, "user-1", "Physics", "State Newton's second law of motion")
	_, err := svc.ToggleBookmark(ctx, "user-1", q.ID)
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx, "user-1")
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.Total)
	require.EqualValues(t, 3, stats.ThisWeek)
	require.EqualValues(t, 1, stats.Bookmarked)
	require.EqualValues(t, 2, stats.BySubject["Mathematics"])
	require.EqualValues(t, 1, stats.BySubject["Physics"])
	require.EqualValues(t, 3, stats.ByType[DefaultQuestionType])
}

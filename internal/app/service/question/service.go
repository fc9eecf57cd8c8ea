package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/internal/platform/ai"
	"github.com/epetitpas/aischool/pkg/logctx"
	"github.com/epetitpas/aischool/pkg/tool"
	"github.com/epetitpas/aischool/pkg/types"
)

var ErrQuestionNotFound = errors.New("question not found")

const (
	DefaultQuestionType = "explanation"
	MaxBulkDelete       = 50
)

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	gen    ai.Generator
	ledger *quota.Ledger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, gen ai.Generator, ledger *quota.Ledger) *Service {
	return &Service{db: db, log: log, gen: gen, ledger: ledger}
}

type CreateRequest struct {
	Subject      string
	GradeLevel   string
	QuestionText string
	QuestionType string
}

// Create runs the question-creation workflow: quota check, answer generation,
// persistence, quota increment — strictly in that order. A failed generation
// or persistence never charges the quota; a failed increment after persistence
// propagates as an error while the question stays visible (the ledger
// undercounts by one for that day).
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.AIQuestion, *types.QuotaInfo, error) {
	start := time.Now()

	if _, err := s.ledger.CheckAndReserve(ctx, userID); err != nil {
		return nil, nil, err
	}

	qType := req.QuestionType
	if qType == "" {
		qType = DefaultQuestionType
	}

	generated := s.gen.Generate(ctx, &ai.GenerateRequest{
		QuestionText: req.QuestionText,
		Subject:      req.Subject,
		GradeLevel:   req.GradeLevel,
		QuestionType: qType,
	})

	q := &models.AIQuestion{
		ID:             tool.GenerateUUIDV7(),
		UserID:         userID,
		Subject:        req.Subject,
		GradeLevel:     req.GradeLevel,
		QuestionText:   req.QuestionText,
		AIResponse:     generated.Answer,
		Steps:          datatypes.NewJSONType(models.StepList{Steps: generated.Steps}),
		Quiz:           datatypes.NewJSONType(models.QuizList{Questions: generated.Quiz}),
		QuestionType:   qType,
		Tags:           datatypes.JSONSlice[string](ExtractTags(req.QuestionText, req.Subject)),
		TokensUsed:     generated.TokensUsed,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to persist question: %w", err)
	}

	if err := s.ledger.Increment(ctx, userID); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("quota increment failed after question persisted",
			"user_id", userID, "question_id", q.ID, "err", err)
		return nil, nil, err
	}

	info, err := s.ledger.Status(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("question created",
		"user_id", userID, "question_id", q.ID, "subject", q.Subject,
		"fallback", generated.Fallback, "response_time_ms", q.ResponseTimeMs)

	return q, info, nil
}

type ListRequest struct {
	Page         int
	Limit        int
	Subject      string
	GradeLevel   string
	QuestionType string
	IsBookmarked *bool
	Search       string
	SortBy       string
	SortOrder    string
}

var listSortColumns = map[string]bool{
	"created_at":  true,
	"subject":     true,
	"grade_level": true,
}

// List returns a page of the user's questions, newest first by default.
func (s *Service) List(ctx context.Context, userID string, req *ListRequest) ([]*models.AIQuestion, *types.Pagination, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	tx := s.db.WithContext(ctx).Model(&models.AIQuestion{}).Where("user_id = ?", userID)
	if req.Subject != "" {
		tx = tx.Where("subject = ?", req.Subject)
	}
	if req.GradeLevel != "" {
		tx = tx.Where("grade_level = ?", req.GradeLevel)
	}
	if req.QuestionType != "" {
		tx = tx.Where("question_type = ?", req.QuestionType)
	}
	if req.IsBookmarked != nil {
		tx = tx.Where("is_bookmarked = ?", *req.IsBookmarked)
	}
	if req.Search != "" {
		pattern := "%" + strings.ToLower(req.Search) + "%"
		tx = tx.Where("LOWER(question_text) LIKE ? OR LOWER(ai_response) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count questions: %w", err)
	}

	sortBy := req.SortBy
	if !listSortColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "desc"
	if req.SortOrder == "asc" {
		order = "asc"
	}

	var rows []*models.AIQuestion
	if err := tx.Order(sortBy + " " + order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list questions: %w", err)
	}

	return rows, &types.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: types.PageCount(total, limit),
	}, nil
}

// Get returns one question if it belongs to the user.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.AIQuestion, error) {
	var q models.AIQuestion
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &q, nil
}

// ToggleBookmark flips the bookmark flag and returns the updated question.
func (s *Service) ToggleBookmark(ctx context.Context, userID, id string) (*models.AIQuestion, error) {
	q, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	q.IsBookmarked = !q.IsBookmarked
	if err := s.db.WithContext(ctx).Model(q).
		UpdateColumn("is_bookmarked", q.IsBookmarked).Error; err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return q, nil
}

// Delete hard-deletes a question the user owns. Quota is never refunded.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.AIQuestion{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete question: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// BulkDelete removes up to MaxBulkDelete questions owned by the user and
// returns how many were actually deleted. Foreign ids are silently skipped.
func (s *Service) BulkDelete(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no question ids provided")
	}
	if len(ids) > MaxBulkDelete {
		return 0, fmt.Errorf("at most %d questions per batch", MaxBulkDelete)
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.AIQuestion{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to bulk delete questions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

type Stats struct {
	Total      int64            `json:"total"`
	ThisWeek   int64            `json:"this_week"`
	ThisMonth  int64            `json:"this_month"`
	Bookmarked int64            `json:"bookmarked"`
	BySubject  map[string]int64 `json:"by_subject"`
	ByType     map[string]int64 `json:"by_type"`
}

// GetStats aggregates the user's question history.
func (s *Service) GetStats(ctx context.Context, userID string) (*Stats, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.AIQuestion{}).Where("user_id = ?", userID)
	}

	stats := &Stats{BySubject: map[string]int64{}, ByType: map[string]int64{}}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	now := time.Now()
	if err := base().Where("created_at >= ?", now.AddDate(0, 0, -7)).Count(&stats.ThisWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count this week: %w", err)
	}
	if err := base().Where("created_at >= ?", now.AddDate(0, -1, 0)).Count(&stats.ThisMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to count this month: %w", err)
	}
	if err := base().Where("is_bookmarked = ?", true).Count(&stats.Bookmarked).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var bySubject []bucket
	if err := base().Select("subject as key, count(*) as count").Group("subject").Scan(&bySubject).Error; err != nil {
		return nil, fmt.Errorf("failed to group by subject: %w", err)
	}
	for _, b := range bySubject {
		stats.BySubject[b.Key] = b.Count
	}
	var byType []bucket
	if err := base().Select("question_type as key, count(*) as count").Group("question_type").Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to group by type: %w", err)
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	return stats, nil
}

package revision

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/logctx"
	"github.com/epetitpas/aischool/pkg/tool"
	"github.com/epetitpas/aischool/pkg/types"
)

var (
	ErrSheetNotFound      = errors.New("revision sheet not found")
	ErrNoQuestionsFound   = errors.New("no valid questions found")
	ErrInvalidQuestionIDs = errors.New("invalid question ids")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type CreateRequest struct {
	Title        string
	Subject      string
	GradeLevel   string
	QuestionIDs  []string
	ExportFormat types.ExportFormat
}

// Create builds a revision sheet from questions the user owns. Ids that do not
// resolve to the user's questions reject the whole request.
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.RevisionSheet, error) {
	if len(req.QuestionIDs) == 0 {
		return nil, ErrNoQuestionsFound
	}

	var questions []*models.AIQuestion
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, req.QuestionIDs).
		Order("created_at asc").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	owned := lo.Map(questions, func(q *models.AIQuestion, _ int) string { return q.ID })
	if missing, _ := lo.Difference(req.QuestionIDs, owned); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestionIDs, missing)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsFound
	}

	format := req.ExportFormat
	if format == "" {
		format = types.ExportFormatPDF
	}
	if !types.ValidExportFormat(format) {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}

	sheet := &models.RevisionSheet{
		ID:           tool.GenerateUUIDV7(),
		UserID:       userID,
		Title:        req.Title,
		Subject:      req.Subject,
		GradeLevel:   req.GradeLevel,
		Content:      BuildContent(questions, req.Title, req.Subject, req.GradeLevel),
		ExportFormat: format,
	}
	if err := s.db.WithContext(ctx).Create(sheet).Error; err != nil {
		return nil, fmt.Errorf("failed to create revision sheet: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("revision sheet created",
		"user_id", userID, "sheet_id", sheet.ID, "questions", len(questions))
	return sheet, nil
}

// List returns a page of the user's sheets, newest first.
func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]*models.RevisionSheet, *types.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	tx := s.db.WithContext(ctx).Model(&models.RevisionSheet{}).Where("user_id = ?", userID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count revision sheets: %w", err)
	}

	var rows []*models.RevisionSheet
	if err := tx.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list revision sheets: %w", err)
	}

	return rows, &types.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: types.PageCount(total, limit),
	}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.RevisionSheet, error) {
	var sheet models.RevisionSheet
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&sheet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("failed to get revision sheet: %w", err)
	}
	return &sheet, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.RevisionSheet{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete revision sheet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSheetNotFound
	}
	return nil
}

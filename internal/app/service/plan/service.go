package plan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/tool"
)

var ErrPlanNotFound = errors.New("plan not found")

// Service is the plan catalog. Plans are seeded once at startup and read-only
// afterwards as far as this service is concerned.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) List(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var plans []*models.SubscriptionPlan
	if err := s.db.WithContext(ctx).Order("price asc").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &p, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &p, nil
}

// DefaultPlans is the provisioning catalog. Seeding upserts by unique name, so
// rerunning on startup never duplicates rows or overwrites manual edits.
func DefaultPlans() []*models.SubscriptionPlan {
	return []*models.SubscriptionPlan{
		{
			Name:                "freemium",
			Price:               0.00,
			DailyQuestionsLimit: 20,
			Features: datatypes.JSONMap{
				"description":  "Plan gratuit avec limitations",
				"maxQuestions": 20,
				"support":      "Community",
			},
		},
		{
			Name:                "standard",
			Price:               9.99,
			DailyQuestionsLimit: 100,
			CanGenerateQuizzes:  true,
			CanExportFiles:      true,
			Features: datatypes.JSONMap{
				"description":   "Plan standard pour étudiants",
				"maxQuestions":  100,
				"support":       "Email",
				"exportFormats": []string{"PDF", "TXT"},
			},
		},
		{
			Name:                "premium",
			Price:               19.99,
			DailyQuestionsLimit: 300,
			CanGenerateQuizzes:  true,
			CanExportFiles:      true,
			HasAdvancedStats:    true,
			Features: datatypes.JSONMap{
				"description":   "Plan premium avec statistiques avancées",
				"maxQuestions":  300,
				"support":       "Priority",
				"exportFormats": []string{"PDF", "WORD", "TXT"},
				"analytics":     true,
			},
		},
		{
			Name:                "pro",
			Price:               39.99,
			DailyQuestionsLimit: 1000,
			CanGenerateQuizzes:  true,
			CanExportFiles:      true,
			HasAdvancedStats:    true,
			Features: datatypes.JSONMap{
				"description":   "Plan professionnel pour écoles et centres de formation",
				"maxQuestions":  1000,
				"support":       "24/7",
				"exportFormats": []string{"PDF", "WORD", "TXT"},
				"analytics":     true,
				"multipleUsers": true,
			},
		},
	}
}

// SeedDefaults provisions the default plan catalog at startup.
func SeedDefaults(log *zap.SugaredLogger, db *gorm.DB) error {
	for _, p := range DefaultPlans() {
		var existing models.SubscriptionPlan
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check plan %s: %w", p.Name, err)
		}
		p.ID = tool.GenerateUUIDV7()
		if err := db.Create(p).Error; err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", p.Name, err)
		}
		log.Infow("seeded subscription plan", "name", p.Name, "daily_limit", p.DailyQuestionsLimit)
	}
	return nil
}

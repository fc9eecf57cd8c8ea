package user

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
	"github.com/epetitpas/aischool/internal/app/service/subscription"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/internal/platform/auth"
	"github.com/epetitpas/aischool/pkg/logctx"
	"github.com/epetitpas/aischool/pkg/tool"
	"github.com/epetitpas/aischool/pkg/types"
)

var ErrUserNotFound = errors.New("user not found")

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	subs   *subscription.Service
	ledger *quota.Ledger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, subs *subscription.Service, ledger *quota.Ledger) *Service {
	return &Service{db: db, log: log, subs: subs, ledger: ledger}
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetOrCreateFromIdentity maps a verified provider identity to the local user
// row, creating it on first sight. Lookup is by provider id first, then by
// email, so provider re-registrations never trip the unique email index.
func (s *Service) GetOrCreateFromIdentity(ctx context.Context, ident *auth.Identity) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", ident.ID).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	err = s.db.WithContext(ctx).Where("email = ?", ident.Email).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now()
	prefs := datatypes.JSONMap{}
	for k, v := range ident.Metadata {
		prefs[k] = v
	}
	u = models.User{
		ID:              ident.ID,
		Email:           ident.Email,
		Name:            ident.Name,
		Role:            ident.Role,
		Status:          types.AccountStatusActive,
		Preferences:     prefs,
		EmailVerifiedAt: &now,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user from identity: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("created user from identity", "user_id", u.ID, "email", u.Email)
	return &u, nil
}

// Profile is the full self-view: account, active subscription, today's quota
// and usage counters.
type Profile struct {
	User         *models.User            `json:"user"`
	Subscription *types.SubscriptionInfo `json:"subscription"`
	Quota        *types.QuotaInfo        `json:"quota"`
	Stats        ProfileStats            `json:"stats"`
}

type ProfileStats struct {
	TotalQuestions      int64 `json:"total_questions"`
	TotalRevisionSheets int64 `json:"total_revision_sheets"`
}

func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	subInfo, err := s.subs.Info(ctx, userID)
	if err != nil {
		return nil, err
	}
	quotaInfo, err := s.ledger.Status(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: u, Subscription: subInfo, Quota: quotaInfo}
	if err := s.db.WithContext(ctx).Model(&models.AIQuestion{}).
		Where("user_id = ?", userID).Count(&p.Stats.TotalQuestions).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.RevisionSheet{}).
		Where("user_id = ?", userID).Count(&p.Stats.TotalRevisionSheets).Error; err != nil {
		return nil, fmt.Errorf("failed to count revision sheets: %w", err)
	}
	return p, nil
}

type UpdateRequest struct {
	Name         string
	ProfileImage string
	Preferences  map[string]any
}

func (s *Service) Update(ctx context.Context, userID string, req *UpdateRequest) (*models.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.ProfileImage != "" {
		updates["profile_image"] = req.ProfileImage
	}
	if req.Preferences != nil {
		merged := datatypes.JSONMap{}
		for k, v := range u.Preferences {
			merged[k] = v
		}
		for k, v := range req.Preferences {
			merged[k] = v
		}
		updates["preferences"] = merged
	}
	if len(updates) == 0 {
		return u, nil
	}

	if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetByID(ctx, userID)
}

type ListRequest struct {
	Page   int
	Limit  int
	Role   types.Role
	Status types.AccountStatus
	Search string
}

// List is the admin user listing with role/status filters and name/email search.
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.User, *types.Pagination, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	tx := s.db.WithContext(ctx).Model(&models.User{})
	if req.Role != "" {
		tx = tx.Where("role = ?", req.Role)
	}
	if req.Status != "" {
		tx = tx.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		pattern := "%" + strings.ToLower(req.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []*models.User
	if err := tx.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	return rows, &types.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: types.PageCount(total, limit),
	}, nil
}

type CreateRequest struct {
	Email       string
	Name        string
	Role        types.Role
	Preferences map[string]any
}

// Create provisions a user directly (admin back office).
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = types.RoleUser
	}
	now := time.Now()
	prefs := datatypes.JSONMap{}
	for k, v := range req.Preferences {
		prefs[k] = v
	}
	u := &models.User{
		ID:              tool.GenerateUUIDV7(),
		Email:           req.Email,
		Name:            req.Name,
		Role:            role,
		Status:          types.AccountStatusActive,
		Preferences:     prefs,
		EmailVerifiedAt: &now,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID string, status types.AccountStatus) (*models.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).UpdateColumn("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	u.Status = status
	return u, nil
}

// SoftDelete deactivates the account and anonymises the email. Question and
// subscription history is retained.
func (s *Service) SoftDelete(ctx context.Context, userID string) error {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	anonymised := fmt.Sprintf("deleted_%d_%s@deleted.local", time.Now().UnixMilli(), u.ID)
	if err := s.db.WithContext(ctx).Model(u).Updates(map[string]any{
		"status": types.AccountStatusInactive,
		"email":  anonymised,
	}).Error; err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("user soft deleted", "user_id", userID)
	return nil
}

package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/epetitpas/aischool/internal/app/api/server"
	"github.com/epetitpas/aischool/internal/app/service/plan"
	"github.com/epetitpas/aischool/internal/app/service/question"
	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/app/service/revision"
	"github.com/epetitpas/aischool/internal/app/service/subscription"
	"github.com/epetitpas/aischool/internal/app/service/user"
	"github.com/epetitpas/aischool/internal/platform/ai"
	"github.com/epetitpas/aischool/internal/platform/auth"
	"github.com/epetitpas/aischool/internal/platform/db"
	"github.com/epetitpas/aischool/pkg/config"
	"github.com/epetitpas/aischool/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	auth.Module,
	ai.Module,
	server.Module,
	plan.Module,
	subscription.Module,
	quota.Module,
	question.Module,
	revision.Module,
	user.Module,
)

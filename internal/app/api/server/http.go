package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/epetitpas/aischool/docs"
	"github.com/epetitpas/aischool/internal/app/api/handlers"
	mw "github.com/epetitpas/aischool/internal/app/api/middleware"
	"github.com/epetitpas/aischool/internal/app/service/plan"
	"github.com/epetitpas/aischool/internal/app/service/question"
	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/app/service/revision"
	subsvc "github.com/epetitpas/aischool/internal/app/service/subscription"
	"github.com/epetitpas/aischool/internal/app/service/user"
	"github.com/epetitpas/aischool/internal/platform/auth"
	cfgpkg "github.com/epetitpas/aischool/pkg/config"
	metrics "github.com/epetitpas/aischool/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log      *zap.SugaredLogger
	Cfg      *cfgpkg.Config
	Verifier auth.Verifier

	Plans     *plan.Service
	Subs      *subsvc.Service
	Ledger    *quota.Ledger
	Questions *question.Service
	Revisions *revision.Service
	Users     *user.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: d.Log,
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Plan catalog is public so the pricing page can render before sign-in.
	pubAPI := r.Group("/api/v1")
	pubAPI.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterPlanRoutes(pubAPI, d.Plans)

	// Authenticated APIs
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(), mw.AuthMiddleware(d.Verifier, d.Users))
	handlers.RegisterUserRoutes(apiV1, d.Users, d.Subs)
	handlers.RegisterQuestionRoutes(apiV1.Group("/questions"), d.Questions, d.Ledger)
	handlers.RegisterRevisionRoutes(apiV1.Group("/revisions"), d.Revisions)

	// Admin back office
	admin := apiV1.Group("/admin")
	admin.Use(mw.RequireAdmin())
	handlers.RegisterAdminRoutes(admin, d.Users)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)

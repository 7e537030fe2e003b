package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawcare/backend/docs"
	"github.com/pawcare/backend/internal/app/api/handlers"
	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/carelog"
	"github.com/pawcare/backend/internal/app/service/caresetting"
	"github.com/pawcare/backend/internal/app/service/checkout"
	"github.com/pawcare/backend/internal/app/service/dogmessage"
	"github.com/pawcare/backend/internal/app/service/reflection"
	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/app/service/webhook"
	"github.com/pawcare/backend/internal/platform/firebase"
	cfgpkg "github.com/pawcare/backend/pkg/config"
	metrics "github.com/pawcare/backend/pkg/metrics"
)

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg.Env == cfgpkg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	if len(cfg.CORS.AllowOrigins) == 0 {
		return r
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", mw.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return r
}

type routeDeps struct {
	fx.In

	Engine       *gin.Engine
	Log          *zap.SugaredLogger
	Config       *cfgpkg.Config
	Webhooks     webhook.Processor
	Users        user.Manager
	Checkout     checkout.Creator
	CareSettings caresetting.Manager
	CareLogs     carelog.Manager
	Reflections  reflection.Manager
	DogMessages  dogmessage.Generator
	Verifier     firebase.TokenVerifier
	LC           fx.Lifecycle
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Config
	// Prometheus metrics
	if cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return "unmatched"
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)
		if srv := p.Server(); srv != nil {
			d.LC.Append(fx.Hook{OnStop: srv.Shutdown})
		}

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	handlers.RegisterWebhookRoutes(api.Group("/webhook_events"), d.Webhooks)
	handlers.RegisterAdminRoutes(api.Group("/admin"), d.Webhooks)
	handlers.RegisterUserRoutes(api.Group("/users"), d.Users, d.Verifier)
	handlers.RegisterPaymentRoutes(api.Group("/payments"), d.Checkout, d.Verifier)
	handlers.RegisterCareSettingRoutes(api.Group("/care_settings"), d.CareSettings, d.Verifier)
	handlers.RegisterCarePasswordRoutes(api.Group("/care_password"), d.CareSettings, d.Verifier)
	handlers.RegisterCareLogRoutes(api.Group("/care_logs"), d.CareLogs, d.Verifier)
	handlers.RegisterWalkMissionRoutes(api.Group("/walk_missions"), d.CareLogs, d.Verifier)
	handlers.RegisterReflectionNoteRoutes(api.Group("/reflection_notes"), d.Reflections, d.Verifier)
	handlers.RegisterMessageLogRoutes(api.Group("/message_logs"), d.DogMessages, d.Verifier)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

package http

import (
	"context"

	"quiz_webapp/internal/account"
	"quiz_webapp/internal/config"
	"quiz_webapp/internal/creation"
	"quiz_webapp/internal/flow"
	"quiz_webapp/internal/http/handlers"
	"quiz_webapp/internal/http/middleware"
	"quiz_webapp/internal/repository"
	"quiz_webapp/internal/service"
	"quiz_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Deps are the connections the API is built on. DB and Redis may be nil.
type Deps struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Version string
}

func RegisterRoutes(r *gin.Engine, d Deps) *handlers.Handler {
	cfg := d.Config

	h := &handlers.Handler{
		Hub:           ws.NewHub(),
		AllowedOrigin: cfg.AllowedOrigin,
	}

	sessions := service.NewSessionStore(d.Redis, service.TokenTTL())
	h.Account = account.NewMenu(sessions, 0)

	// без БД роль берётся из токена, аудит отключён
	var users middleware.UserSource
	if d.DB != nil {
		auditRepo := repository.NewAuditRepository(d.DB)
		h.Audit = service.NewAuditService(auditRepo)
		h.Stats = auditRepo
		users = repository.NewUserRepository(d.DB)
	} else {
		h.Audit = service.NewAuditService(nil)
	}

	client := creation.NewClient(cfg.CreationServiceURL, cfg.CreationTimeout)
	h.Flows = flow.NewRegistry(client, h.Hub.Sink, func(o flow.Outcome) {
		h.Audit.LogQuizCreate(context.Background(), o.Owner, o.Request, o.Result.GameID, o.Err)
	})

	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis, h.Flows.Len, d.Version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	auth := middleware.JWT(sessions, users)
	submitRL := middleware.UserRateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Quiz creation flows
	flows := v1.Group("/flows")
	flows.Use(auth)
	{
		flows.POST("", h.OpenFlow)
		flows.GET("/:id", h.GetFlow)
		flows.POST("/:id/submit", submitRL, h.SubmitFlow)
		flows.DELETE("/:id", h.CloseFlow)
		flows.GET("/:id/ws", h.FlowEvents)
	}

	// Account menu
	v1.GET("/menu", auth, h.Menu)
	v1.POST("/signout", auth, h.SignOut)
	v1.GET("/analytics", auth, middleware.RequireAdmin(), h.Analytics)

	return h
}

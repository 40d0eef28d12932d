package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saverly/internal/domain/user"
	"saverly/internal/handler/api"
	"saverly/internal/handler/middleware"
	"saverly/internal/infra/metrics"
	"saverly/internal/pkg/config"
)

const startRateScope = "redemption-start"

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type handlers struct {
	Redemption *api.RedemptionHandler
	Webhook    *api.WebhookHandler
	Auth       *middleware.AuthMiddleware
	RateLimit  *middleware.RateLimitMiddleware
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	redemptionHandler *api.RedemptionHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) {
	setupMiddleware(engine, cfg, recorder, logger)
	setupRoutes(engine, handlers{
		Redemption: redemptionHandler,
		Webhook:    webhookHandler,
		Auth:       authMiddleware,
		RateLimit:  rateLimitMiddleware,
	}, recorder)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, recorder *metrics.Recorder, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogging(logger))
	engine.Use(middleware.MetricsMiddleware(recorder))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h handlers, recorder *metrics.Recorder) {
	engine.GET("/healthz", healthCheck)
	engine.GET("/metrics", gin.WrapH(recorder.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := engine.Group("/api/v1")
	{
		addRoutes(v1.Group("/webhooks"), []route{
			{Method: http.MethodPost, Path: "/stripe", Handler: h.Webhook.Stripe},
		})

		coupons := v1.Group("/coupons")
		coupons.Use(h.Auth.RequireAuth())
		addRoutes(coupons, []route{
			{Method: http.MethodPost, Path: "/:id/redemptions", Handler: h.Redemption.Start, Mw: []gin.HandlerFunc{h.RateLimit.PerUser(startRateScope)}},
			{Method: http.MethodGet, Path: "/:id/usage", Handler: h.Redemption.Usage},
		})

		merchantOnly := []gin.HandlerFunc{h.Auth.RequireRoleAtLeast(user.RoleBusiness)}
		redemptions := v1.Group("/redemptions")
		redemptions.Use(h.Auth.RequireAuth())
		addRoutes(redemptions, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Redemption.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Redemption.Get},
			{Method: http.MethodGet, Path: "/:id/remaining", Handler: h.Redemption.Remaining},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Redemption.Cancel},
			{Method: http.MethodPost, Path: "/:id/expire", Handler: h.Redemption.Expire},
			{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Redemption.Confirm, Mw: merchantOnly},
			{Method: http.MethodPost, Path: "/confirm-code", Handler: h.Redemption.ConfirmByCode, Mw: merchantOnly},
			{Method: http.MethodPost, Path: "/confirm-scan", Handler: h.Redemption.ConfirmByPayload, Mw: merchantOnly},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

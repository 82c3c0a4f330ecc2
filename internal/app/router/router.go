// Package router はGinエンジンを組み立て、ミドルウェアとルートを登録します。
package router

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "fluxfinance/internal/feature/auth/transport/handler"
	homehandler "fluxfinance/internal/feature/home/transport/handler"
	invoicehandler "fluxfinance/internal/feature/invoices/transport/handler"
	"fluxfinance/internal/platform/gate"
	"fluxfinance/internal/platform/http/handler"
	"fluxfinance/internal/platform/http/middleware"
	"fluxfinance/internal/shared/ratelimiter"
)

// Handlers groups the feature handlers mounted on the router.
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Invoices *invoicehandler.InvoiceHandler
	Health   *handler.HealthHandler
}

// Options carries everything the middleware stack needs.
type Options struct {
	Development        bool
	Logger             *slog.Logger
	Templates          *template.Template
	CORSAllowedOrigins []string

	Classifier *gate.Classifier
	Markers    gate.MarkerReader
	Sessions   gate.SessionValidator
	Pending    gate.DestinationRecorder

	SignInLimiter ratelimiter.Limiter
	SignInWindow  time.Duration
}

// NewRouter builds the engine. Middleware order:
// recovery -> request id -> access log -> cors -> error handler -> session gate.
// The gate is installed on the engine so that it also runs for unknown paths.
func NewRouter(h Handlers, o Options) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(o.Templates)

	errs := middleware.NewErrorHandler(o.Development)
	r.Use(errs.Recovery())
	r.Use(middleware.RequestID())
	if o.Development {
		r.Use(gin.Logger())
	} else if o.Logger != nil {
		r.Use(middleware.RequestLogger(o.Logger))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     o.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(errs.Middleware())
	r.Use(gate.SessionGate(o.Classifier, o.Markers, o.Sessions, o.Pending))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)
	r.GET("/", homehandler.Home)

	auth := r.Group("/auth")
	{
		auth.GET("/sign-in", h.Auth.SignInPage)
		auth.POST("/sign-in", middleware.SignInRateLimit(o.SignInLimiter, o.SignInWindow), h.Auth.SignIn)
		auth.POST("/sign-out", h.Auth.SignOut)
	}

	// 保護対象はパスのプレフィックスでゲートが判定するため、グループ側では何もしない
	invoices := r.Group("/purchase-invoices")
	{
		invoices.GET("", h.Invoices.List)
		invoices.POST("", h.Invoices.Create)
		invoices.GET("/:id", h.Invoices.Get)
	}

	r.NoRoute(notFound)
	return r
}

func notFound(c *gin.Context) {
	if gate.WantsJSON(c.Request) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.HTML(http.StatusNotFound, middleware.ErrorTemplate, gin.H{
		"Title":         "Not found",
		"Message":       "Page not found",
		"Authenticated": gate.IsAuthenticated(c),
	})
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jcarizon/portfolio-cms-backend/internal/metrics"
	"github.com/jcarizon/portfolio-cms-backend/internal/middleware"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// HealthChecker はヘルスチェックで疎通確認する依存先。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator     middleware.TokenValidator
	CORSAllowedOrigins []string
	PublicRateLimiter  *middleware.RateLimiter
	TrustProxy         bool // X-Forwarded-For等からクライアントIPを取得する
	HSTS               bool // HTTPS運用時にStrict-Transport-Securityを付与する
	Logger             *slog.Logger

	// 運用
	Metrics        metrics.MetricsCollector // nilの場合はステータスを記録しない
	MetricsHandler http.Handler             // nilの場合は/metricsを公開しない
	HealthChecker  HealthChecker

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// コンテンツ
	ProjectService    ProjectServiceInterface
	ExperienceService ExperienceServiceInterface
	SkillService      SkillServiceInterface
	MessageService    MessageServiceInterface
	AboutService      AboutServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → (RealIP) → Logging → Metrics → SecurityHeaders → CORS → (ルート単位) BearerAuth / RateLimit
//
// 公開GETは任意認証で、管理者のみ ?all=true で非公開項目を取得できる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(logger))
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.HSTS))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     model.ErrCodeNotFound,
			Message:  "Route not found",
			Category: "system",
			Action:   "Check the request path.",
		})
	})

	requireAuth := middleware.NewBearerAuthMiddleware(deps.TokenValidator)
	optionalAuth := middleware.NewOptionalBearerAuthMiddleware(deps.TokenValidator)
	publicLimit := func(next http.Handler) http.Handler { return next }
	if deps.PublicRateLimiter != nil {
		publicLimit = deps.PublicRateLimiter.Middleware()
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	projectHandler := NewProjectHandler(deps.ProjectService)
	experienceHandler := NewExperienceHandler(deps.ExperienceService)
	skillHandler := NewSkillHandler(deps.SkillService)
	messageHandler := NewMessageHandler(deps.MessageService)
	aboutHandler := NewAboutHandler(deps.AboutService)

	// --- 運用エンドポイント ---
	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// 認証
		r.Route("/auth", func(r chi.Router) {
			r.With(publicLimit).Post("/register", authHandler.Register)
			r.With(publicLimit).Post("/login", authHandler.Login)
			r.Get("/google", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		// プロジェクト
		r.Route("/projects", func(r chi.Router) {
			r.With(optionalAuth).Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", projectHandler.Create)
				r.Put("/reorder", projectHandler.Reorder)
				r.Put("/{id}", projectHandler.Update)
				r.Put("/{id}/toggle-visibility", projectHandler.ToggleVisibility)
				r.Put("/{id}/toggle-featured", projectHandler.ToggleFeatured)
				r.Delete("/{id}", projectHandler.Delete)
			})
		})

		// 職歴
		r.Route("/experience", func(r chi.Router) {
			r.With(optionalAuth).Get("/", experienceHandler.List)
			r.Get("/{id}", experienceHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", experienceHandler.Create)
				r.Put("/reorder", experienceHandler.Reorder)
				r.Put("/{id}", experienceHandler.Update)
				r.Put("/{id}/toggle-visibility", experienceHandler.ToggleVisibility)
				r.Delete("/{id}", experienceHandler.Delete)
			})
		})

		// スキル
		r.Route("/skills", func(r chi.Router) {
			r.With(optionalAuth).Get("/", skillHandler.ListCategories)
			r.Get("/categories/{id}", skillHandler.GetCategory)
			r.With(optionalAuth).Get("/categories/{id}/skills", skillHandler.ListSkills)
			r.Get("/{id}", skillHandler.GetSkill)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/categories", skillHandler.CreateCategory)
				r.Put("/categories/reorder", skillHandler.ReorderCategories)
				r.Put("/categories/{id}", skillHandler.UpdateCategory)
				r.Delete("/categories/{id}", skillHandler.DeleteCategory)
				r.Put("/categories/{id}/toggle-visibility", skillHandler.ToggleCategoryVisibility)
				r.Put("/categories/{id}/reorder", skillHandler.ReorderSkills)

				r.Post("/", skillHandler.CreateSkill)
				r.Put("/{id}", skillHandler.UpdateSkill)
				r.Delete("/{id}", skillHandler.DeleteSkill)
				r.Put("/{id}/toggle-visibility", skillHandler.ToggleSkillVisibility)
			})
		})

		// 問い合わせ
		r.Route("/settings/messages", func(r chi.Router) {
			r.With(publicLimit).Post("/", messageHandler.Submit)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", messageHandler.List)
				r.Get("/unread-count", messageHandler.UnreadCount)
				r.Put("/mark-all-read", messageHandler.MarkAllAsRead)
				r.Put("/{id}/read", messageHandler.MarkAsRead)
				r.Delete("/{id}", messageHandler.Delete)
			})
		})

		// 自己紹介
		r.Get("/about", aboutHandler.Get)
		r.With(requireAuth).Put("/about", aboutHandler.Update)
	})

	return r
}

// healthHandler はDB疎通を含むヘルスチェックを返す。
// GET /health
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

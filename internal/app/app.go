// Package app はサブコマンドの解析と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jcarizon/portfolio-cms-backend/internal/auth"
	"github.com/jcarizon/portfolio-cms-backend/internal/config"
	"github.com/jcarizon/portfolio-cms-backend/internal/contact"
	"github.com/jcarizon/portfolio-cms-backend/internal/content"
	"github.com/jcarizon/portfolio-cms-backend/internal/database"
	"github.com/jcarizon/portfolio-cms-backend/internal/experience"
	"github.com/jcarizon/portfolio-cms-backend/internal/handler"
	"github.com/jcarizon/portfolio-cms-backend/internal/logger"
	"github.com/jcarizon/portfolio-cms-backend/internal/metrics"
	"github.com/jcarizon/portfolio-cms-backend/internal/middleware"
	"github.com/jcarizon/portfolio-cms-backend/internal/ordering"
	"github.com/jcarizon/portfolio-cms-backend/internal/project"
	"github.com/jcarizon/portfolio-cms-backend/internal/ratelimit"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
	"github.com/jcarizon/portfolio-cms-backend/internal/security"
	"github.com/jcarizon/portfolio-cms-backend/internal/skill"
	"github.com/jcarizon/portfolio-cms-backend/internal/worker/cleanup"
)

const shutdownTimeout = 30 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// wが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再初期化
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "4000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if _, ok := lookupCommand(args); !ok && len(args) > 0 {
		slog.Warn("unknown command, falling back to serve", slog.String("command", args[0]))
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.Port),
		slog.Bool("google_login", cfg.GoogleEnabled()),
		slog.String("rate_limit_store", string(cfg.RateLimitStore)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Ping(ctx, db, 10*time.Second); err != nil {
		return err
	}
	slog.Info("database connection established")

	// 2. 問い合わせの送信数制限ストア
	limiter, closeLimiter, err := newContactLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// 3. 公開書き込みエンドポイント用のIP単位制限
	publicLimiter := middleware.NewRateLimiter(middleware.PerMinuteConfig(cfg.RateLimitPublic))
	defer publicLimiter.Stop()

	// 4. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := newRouter(cfg, db, limiter, publicLimiter, registry)

	// 5. 既読問い合わせの保持期間切れ削除を日次で実行
	if cfg.ContactRetentionDays > 0 {
		job := cleanup.NewContactRetentionJob(db, slog.Default(), cfg.ContactRetentionDays)
		go job.Start(ctx, 24*time.Hour)
	}

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newRouter はリポジトリからハンドラーまでの依存関係を組み立てる。
// DBへの接続はリクエスト処理時まで行わない。
func newRouter(
	cfg *config.Config,
	db *sql.DB,
	limiter ratelimit.Limiter,
	publicLimiter *middleware.RateLimiter,
	registry *prometheus.Registry,
) http.Handler {
	collector := metrics.NewCollector(registry)

	// リポジトリ
	adminRepo := repository.NewPostgresAdminRepo(db)
	projectRepo := repository.NewPostgresProjectRepo(db)
	experienceRepo := repository.NewPostgresExperienceRepo(db)
	categoryRepo := repository.NewPostgresSkillCategoryRepo(db)
	skillRepo := repository.NewPostgresSkillRepo(db)
	contactRepo := repository.NewPostgresContactMessageRepo(db)
	aboutRepo := repository.NewPostgresAboutRepo(db)

	orders := ordering.NewManager(repository.NewPostgresOrderStore(db), collector)

	// 認証
	var oauth auth.OAuthProvider
	if cfg.GoogleEnabled() {
		oauth = auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
		})
	}
	authService := auth.NewService(
		adminRepo,
		auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTExpiresIn),
		auth.NewPasswordHasher(cfg.BcryptCost),
		oauth,
		collector,
	)

	deps := &handler.RouterDeps{
		TokenValidator:     authService,
		CORSAllowedOrigins: cfg.FrontendURLs,
		PublicRateLimiter:  publicLimiter,
		TrustProxy:         cfg.TrustProxy,
		HSTS:               cfg.CookieSecure,
		Logger:             slog.Default(),

		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		HealthChecker:  db,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			FrontendURL:  cfg.FrontendURL(),
			CookieSecure: cfg.CookieSecure,
		},

		ProjectService:    project.NewService(projectRepo, orders),
		ExperienceService: experience.NewService(experienceRepo, orders),
		SkillService:      skill.NewService(categoryRepo, skillRepo, orders),
		MessageService:    contact.NewService(contactRepo, limiter, security.NewTextSanitizer(), collector),
		AboutService:      content.NewService(aboutRepo),
	}

	return handler.NewRouter(deps)
}

// newContactLimiter は設定に応じた送信数制限ストアと、その解放関数を返す。
func newContactLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	limitCfg := ratelimit.Config{
		Max:             cfg.RateLimitMessagesMax,
		Window:          cfg.RateLimitMessagesWindow,
		CleanupInterval: 10 * time.Minute,
	}

	if cfg.RateLimitStore == config.RateLimitStoreRedis {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("contact rate limit uses redis store")
		return ratelimit.NewRedisSlidingWindow(client, limitCfg), func() { client.Close() }, nil
	}

	sw := ratelimit.NewSlidingWindow(limitCfg)
	return sw, sw.Stop, nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	return checkHealth(fmt.Sprintf("http://localhost:%s/health", port))
}

func checkHealth(endpoint string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/config"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/gemini"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/repository/cache"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/repository/postgresql"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
	serviceAuth "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/company"
	exportService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/export"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/service/file"
	payrollService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/report"
	userService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/user"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var version = "dev"

const (
	refreshTokenRetention = 7 * 24 * time.Hour
	shutdownTimeout       = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logLevel); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logLevel slog.Level) error {
	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewPostgreSQLDBWithConns(dsn, cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	reportRepo := postgresql.NewNarrativeReportRepository(db)
	pgRecordRepo := postgresql.NewPayrollRecordRepository(db)

	if cfg.Dataset.Path != "" {
		ds, err := fixtures.Load(cfg.Dataset.Path)
		if err != nil {
			return err
		}
		if _, err := fixtures.Merge(ctx, db, fixtures.Repositories{
			Company: companyRepo,
			User:    userRepo,
			Payroll: pgRecordRepo,
		}, ds); err != nil {
			return err
		}
	}

	var recordRepo payroll.PayrollRecordRepository = pgRecordRepo
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unavailable, payroll cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			recordRepo = cache.NewPayrollRecordCache(pgRecordRepo, rdb, cfg.Redis.TTL)
		}
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	secureCookie := cfg.App.Env == "production"
	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, secureCookie)
	if err != nil {
		return err
	}

	var googleService oauth.GoogleService
	if cfg.GoogleEnabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	// Without a key the client answers gemini.ErrNotConfigured, which the
	// narrative service reports as 503.
	generator := gemini.NewClient(gemini.Config{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		BaseURL:    cfg.Gemini.BaseURL,
		Timeout:    cfg.Gemini.Timeout,
		MaxRetries: cfg.Gemini.MaxRetries,
	})
	if cfg.Gemini.APIKey == "" {
		slog.Info("GEMINI_API_KEY not set, narrative reports disabled")
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTService, JWTRepository)
	userSvc := userService.NewUserService(userRepo, companyRepo)
	companyService := serviceCompany.NewCompanyService(companyRepo, fileService)
	payrollSvc := payrollService.NewPayrollService(companyRepo, recordRepo)
	analyticsSvc := analyticsService.NewAnalyticsService(companyRepo, recordRepo, fileService)
	narrativeSvc := reportService.NewNarrativeService(companyRepo, recordRepo, reportRepo, generator)
	exportSvc := exportService.NewExportService(companyRepo, recordRepo, fileService)

	loginLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.LoginPerSecond), cfg.RateLimit.LoginBurst)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("purge-refresh-tokens", time.Hour, cron.PurgeRefreshTokens(JWTRepository, refreshTokenRetention, time.Now))
	scheduler.AddJob("prune-login-limiter", 5*time.Minute, cron.PruneIdle("login", loginLimiter))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       logLevel,
		AllowedOrigins: cfg.App.AllowedOrigins,
		FilesDir:       cfg.Storage.BasePath,
		LoginLimiter:   loginLimiter,
	}, JWTService, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(JWTService, authService, googleService, cfg.App.FrontendURL, secureCookie),
		User:      appHTTP.NewUserHandler(userSvc),
		Company:   appHTTP.NewCompanyHandler(companyService),
		Payroll:   appHTTP.NewPayrollHandler(payrollSvc),
		Analytics: appHTTP.NewAnalyticsHandler(analyticsSvc),
		Report:    appHTTP.NewReportHandler(narrativeSvc),
		Export:    appHTTP.NewExportHandler(exportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

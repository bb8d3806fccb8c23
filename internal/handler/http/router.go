package http

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env            string
	Version        string
	LogLevel       slog.Level
	AllowedOrigins []string
	// FilesDir is the storage root. Only its logos/ subtree is public, under
	// /files/logos/; exports go through the authenticated API.
	FilesDir     string
	LoginLimiter *middleware.IPRateLimiter
}

type Handlers struct {
	Auth      AuthHandler
	User      UserHandler
	Company   CompanyHandler
	Payroll   PayrollHandler
	Analytics AnalyticsHandler
	Report    ReportHandler
	Export    ExportHandler
}

// fileOnlyFS hides directories so the file server never renders a listing.
type fileOnlyFS struct {
	root http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-dashboard"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	// No RealIP: the login limiter keys on RemoteAddr, which a client cannot
	// choose through X-Forwarded-For.
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.FilesDir != "" {
		logos := fileOnlyFS{http.Dir(filepath.Join(cfg.FilesDir, "logos"))}
		r.Handle("/files/logos/*", http.StripPrefix("/files/logos/", http.FileServer(logos)))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.With(middleware.RateLimitByIP(cfg.LoginLimiter)).Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/me", h.User.GetMe)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Put("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Delete)
				})
			})

			r.Route("/companies", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionCompanyView)).Get("/", h.Company.List)
				r.With(middleware.RequirePermission(user.PermissionCompanyManage)).Post("/", h.Company.Create)

				r.Route("/{companyID}", func(r chi.Router) {
					r.Use(middleware.RequireCompanyAccess)

					r.With(middleware.RequirePermission(user.PermissionCompanyView)).Get("/", h.Company.GetByID)
					r.With(middleware.RequirePermission(user.PermissionCompanyBrandingEdit)).Post("/logo", h.Company.UploadLogo)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionCompanyManage))
						r.Put("/", h.Company.Update)
						r.Delete("/", h.Company.Delete)
					})

					r.Route("/payroll", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", h.Payroll.ListPayrollRecords)
						r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/{recordID}", h.Payroll.GetPayrollRecord)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
							r.Post("/", h.Payroll.CreatePayrollRecord)
							r.Put("/{recordID}", h.Payroll.UpdatePayrollRecord)
							r.Delete("/{recordID}", h.Payroll.DeletePayrollRecord)
						})
					})

					r.Route("/analytics", func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAnalyticsView))
						r.Get("/overview", h.Analytics.Overview)
						r.Get("/compare", h.Analytics.Compare)
						r.Get("/trend", h.Analytics.Trend)
					})

					r.Route("/exports", func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionExportCreate))
						r.Post("/csv", h.Export.ExportCSV)
						r.Post("/pdf", h.Export.ExportPDF)
						r.Get("/{filename}", h.Export.Download)
					})

					r.Route("/reports/narrative", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionReportView)).Get("/", h.Report.GetLatestNarrative)
						r.With(middleware.RequirePermission(user.PermissionReportGenerate)).Post("/", h.Report.GenerateNarrative)
					})
				})
			})
		})
	})
	return r
}

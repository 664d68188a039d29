package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/checkin-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	Env            string
	Version        string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	checkinHandler CheckinHandler,
	staffHandler StaffHandler,
	holidayHandler HolidayHandler,
	settingsHandler SettingsHandler,
	reportHandler ReportHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "school-checkin"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Device-facing, no login
		r.Get("/settings", settingsHandler.GetPublic)
		r.Get("/staff/{id}", staffHandler.Get)

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", holidayHandler.Lookup)
			r.Get("/today", holidayHandler.Today)
		})

		r.Route("/checkins", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/preflight", checkinHandler.Preflight)
			r.With(chiMiddleware.AllowContentType("multipart/form-data")).Post("/", checkinHandler.CheckIn)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			// EventSource cannot send headers; the stream checks its own short-lived token
			r.Get("/events", eventsHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Use(middleware.AdminOnly)

				r.Post("/logout", authHandler.Logout)
				r.Get("/events/token", authHandler.SSEToken)

				r.Route("/staff", func(r chi.Router) {
					r.Get("/", staffHandler.List)
					r.Post("/", staffHandler.Create)
					r.Delete("/{id}", staffHandler.Delete)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", settingsHandler.Get)
					r.Put("/", settingsHandler.Update)
				})

				r.Route("/holidays", func(r chi.Router) {
					r.Get("/", holidayHandler.ListSpecial)
					r.Post("/", holidayHandler.CreateSpecial)
					r.Delete("/{id}", holidayHandler.DeleteSpecial)
				})

				r.Route("/checkins", func(r chi.Router) {
					r.Get("/", checkinHandler.List)
					r.Delete("/{id}", checkinHandler.Delete)
				})
				r.Post("/sync", checkinHandler.Sync)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/daily", reportHandler.GetDailyReport)
					r.Get("/monthly", reportHandler.GetMonthlyReport)
					r.Get("/monthly/export", reportHandler.ExportMonthlyReport)
				})
			})
		})
	})
	return r
}

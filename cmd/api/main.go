package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/config"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/checkin-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/checkin-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/imaging"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/sheets"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/vision"
	"github.com/cmlabs-hris/checkin-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/checkin-backend-go/internal/service/auth"
	checkinService "github.com/cmlabs-hris/checkin-backend-go/internal/service/checkin"
	holidayService "github.com/cmlabs-hris/checkin-backend-go/internal/service/holiday"
	"github.com/cmlabs-hris/checkin-backend-go/internal/service/outbox"
	reportService "github.com/cmlabs-hris/checkin-backend-go/internal/service/report"
	settingsService "github.com/cmlabs-hris/checkin-backend-go/internal/service/settings"
	staffService "github.com/cmlabs-hris/checkin-backend-go/internal/service/staff"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(cfg.Log)
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	// Reference data
	holidayTables, err := fixtures.LoadHolidayTables()
	if err != nil {
		return err
	}
	seasonal, err := fixtures.LoadSeasonal()
	if err != nil {
		return err
	}
	seeds, err := fixtures.LoadDefaultStaff()
	if err != nil {
		return err
	}
	promotions, err := staffService.ParsePromotions(seasonal.Promotions)
	if err != nil {
		return err
	}

	// Repositories
	staffRepo := postgresql.NewStaffRepository(db)
	checkinRepo := postgresql.NewCheckinRepository(db)
	specialHolidayRepo := postgresql.NewSpecialHolidayRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	transactor := postgresql.NewTransactor(db)

	// Adapters
	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("creating jwt service: %w", err)
	}

	var credentials []byte
	if cfg.Sheets.CredentialsFile != "" {
		credentials, err = os.ReadFile(cfg.Sheets.CredentialsFile)
		if err != nil {
			return fmt.Errorf("reading sheets credentials: %w", err)
		}
	}
	sheetsClient, err := sheets.NewClient(ctx, sheets.Options{
		Timeout:         cfg.Sheets.Timeout,
		CredentialsJSON: credentials,
	})
	if err != nil {
		return err
	}

	analyzer, err := vision.NewAnalyzer(ctx, vision.GeminiConfig{
		APIKey:  cfg.Vision.APIKey,
		Model:   cfg.Vision.Model,
		BaseURL: cfg.Vision.BaseURL,
		Timeout: cfg.Vision.Timeout,
	})
	if err != nil {
		return err
	}
	if cfg.Vision.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, image analysis disabled")
	}

	hub := sse.NewHub()
	scheduler := cron.NewScheduler()

	// Services
	staffSvc := staffService.NewStaffService(staffRepo, transactor, promotions, loc)
	holidaySvc := holidayService.NewHolidayService(specialHolidayRepo, holidayTables)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, settings.Defaults(cfg.Sheets.DefaultEndpoint), loc)
	authSvc, err := serviceAuth.NewAuthService(JWTService, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		return err
	}

	ob := outbox.NewOutbox(checkinRepo, settingsSvc, sheetsClient, hub, cfg.Checkin.OutboxBatchSize)
	ob.SetKick(func() { scheduler.Trigger(cron.SyncPendingCheckinsJob) })

	policy, err := checkinService.NewPolicy(cfg.Checkin.ArrivalLateAt, cfg.Checkin.DepartureOkAt)
	if err != nil {
		return err
	}
	checkinSvc := checkinService.NewCheckinService(
		checkinRepo, staffSvc, settingsSvc, holidaySvc, analyzer, ob, hub,
		checkinService.Options{
			Policy:          policy,
			Messages:        checkinService.NewMessages(seasonal),
			Location:        loc,
			Acquire:         geo.DefaultAcquireOptions(),
			Imaging:         imaging.DefaultOptions(),
			AnalysisTimeout: cfg.Vision.Timeout,
		},
	)
	reportSvc := reportService.NewReportService(checkinRepo, staffSvc, settingsSvc, holidaySvc, sheetsClient, loc)

	seedRequests := make([]staff.CreateStaffRequest, 0, len(seeds))
	for _, s := range seeds {
		req := staff.CreateStaffRequest{ID: s.ID, Name: s.Name, Role: s.Role}
		if s.Birthday != "" {
			birthday := s.Birthday
			req.Birthday = &birthday
		}
		seedRequests = append(seedRequests, req)
	}
	if seeded, err := staffSvc.SeedDefaults(ctx, seedRequests); err != nil {
		return fmt.Errorf("seeding staff: %w", err)
	} else if seeded > 0 {
		slog.Info("Default staff seeded", "count", seeded)
	}

	// Background jobs
	cron.NewCheckinJobs(ob, cfg.Checkin.OutboxInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{AllowedOrigins: cfg.CORS.AllowedOrigins, Env: cfg.App.Env, Version: version},
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewCheckinHandler(checkinSvc),
		appHTTP.NewStaffHandler(staffSvc),
		appHTTP.NewHolidayHandler(holidaySvc, loc),
		appHTTP.NewSettingsHandler(settingsSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewEventsHandler(JWTService, hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	// Push whatever was committed before exit.
	scheduler.RunOnce(shutdownCtx)

	return nil
}

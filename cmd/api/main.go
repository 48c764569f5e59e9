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

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, "attendance-cmlabs", cfg.App.Env, cfg.App.SlogLevel())
	slog.SetDefault(logger)

	if err := i18n.Init("en"); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	attendanceRepo, employeeRepo, closeStore, err := openLedger(ctx, cfg, loc)
	if err != nil {
		return err
	}
	defer closeStore()

	policy := attendanceService.Policy{
		MorningStart:       cfg.Attendance.MorningStart,
		MorningEnd:         cfg.Attendance.MorningEnd,
		AfternoonExact:     cfg.Attendance.AfternoonExact,
		AfternoonTolerance: cfg.Attendance.AfternoonTolerance,
		CheckoutMin:        cfg.Attendance.CheckoutMin,
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("invalid attendance policy: %w", err)
	}

	calendar, err := attendanceService.NewWorkdayCalendar(cfg.Period.WorkdayRule, loc)
	if err != nil {
		return err
	}

	totalsSvc := attendanceService.NewTotalsService(
		attendanceRepo,
		employeeRepo,
		calendar,
		attendanceService.PeriodConfig{StartDay: cfg.Period.StartDay, EndDay: cfg.Period.EndDay},
		loc,
	)

	hub := sse.NewHub()
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		utils.NewGeofence(cfg.Office.Latitude, cfg.Office.Longitude, cfg.Office.RadiusMeters),
		attendanceService.NewEvaluator(policy),
		attendanceService.NewAggregator(loc),
		attendanceService.NewEmployeeLocker(),
		cfg.Attendance.ReportWindowDays,
		loc,
		totalsSvc,
		hub,
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, totalsSvc, JWTService, hub)

	router := appHTTP.NewRouter(
		logger,
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.App.SlogLevel(),
		},
		JWTService,
		attendanceHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(totalsSvc, cfg.Period.LeaveMarkingHour, loc).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "ledger", cfg.Ledger.Driver, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openLedger connects the configured storage backend and returns its repositories.
func openLedger(ctx context.Context, cfg *config.Config, loc *time.Location) (attendance.AttendanceRepository, employee.EmployeeRepository, func(), error) {
	switch cfg.Ledger.Driver {
	case config.LedgerMongo:
		mdb, err := mongodb.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error connecting to mongodb: %w", err)
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mdb.Close(closeCtx); err != nil {
				slog.Error("Failed to close mongodb client", "error", err)
			}
		}

		attendanceRepo, err := mongodb.NewAttendanceStore(ctx, mdb, loc)
		if err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return attendanceRepo, mongodb.NewEmployeeStore(mdb), closeFn, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgresql.NewAttendanceRepository(db, loc), postgresql.NewEmployeeRepository(db), db.Close, nil
	}
}

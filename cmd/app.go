package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/approval"
	"github.com/frahmantamala/workforce-management/internal/attendance"
	"github.com/frahmantamala/workforce-management/internal/auth"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/payroll"
	"github.com/frahmantamala/workforce-management/internal/rate"
	"github.com/frahmantamala/workforce-management/internal/schedule"
	store "github.com/frahmantamala/workforce-management/internal/store/postgres"
	"github.com/frahmantamala/workforce-management/internal/user"
	"github.com/frahmantamala/workforce-management/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// application holds every service the server and the CLI commands share.
type application struct {
	cfg    *internal.Config
	db     *sqlx.DB
	store  *store.Store
	logger *slog.Logger

	bus        *events.EventBus
	dispatcher *notification.Dispatcher
	policy     auth.Policy

	users         *user.Service
	auth          *auth.Service
	schedule      *schedule.Service
	attendance    *attendance.Service
	rates         *rate.Resolver
	payroll       *payroll.Service
	approval      *approval.Service
	notifications *notification.Service
}

func newApplication(cfg *internal.Config) (*application, error) {
	lg := logger.LoggerWrapper()

	db, st, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	senders := map[notificationDatamodel.Channel]notification.Sender{
		notificationDatamodel.ChannelInApp: notification.LogSender{Logger: lg},
	}
	if cfg.Notification.SMTP.Enabled() {
		senders[notificationDatamodel.ChannelEmail] = notification.NewSMTPSender(cfg.Notification.SMTP)
	}
	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		MaxWorkers:   cfg.Notification.MaxWorkers,
		JobQueueSize: cfg.Notification.JobQueueSize,
	}, senders, lg)

	rates := rate.NewResolver(st, lg)
	notifications := notification.NewService(st, dispatcher, cfg.Notification.DefaultChannel, lg)

	bus := events.NewEventBus(lg)
	notification.NewEventHandler(notifications, lg).Register(bus)

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)

	return &application{
		cfg:           cfg,
		db:            db,
		store:         st,
		logger:        lg,
		bus:           bus,
		dispatcher:    dispatcher,
		policy:        auth.DefaultPolicy(),
		users:         user.NewService(st, cfg.Security.BCryptCost, lg),
		auth:          auth.NewService(st, tokens, lg),
		schedule:      schedule.NewService(st, lg),
		attendance:    attendance.NewService(st, cfg.Attendance, lg),
		rates:         rates,
		payroll:       payroll.NewService(st, rates, lg),
		approval:      approval.NewService(st, cfg.Approval, lg),
		notifications: notifications,
	}, nil
}

// Close waits for queued events and notifications, then releases the pool.
func (a *application) Close(ctx context.Context) {
	if err := a.bus.Drain(ctx); err != nil {
		a.logger.Warn("event handlers still running at shutdown", "error", err)
	}
	a.dispatcher.Shutdown()
	if err := a.db.Close(); err != nil {
		a.logger.Error("database close error", "error", err)
	}
}

// authorize resolves the --as principal and checks it against the policy.
func (a *application) authorize(ctx context.Context, email string, action auth.Action) (*internal.Principal, error) {
	if email == "" {
		return nil, fmt.Errorf("--as <email> is required")
	}
	principal, err := a.auth.PrincipalFor(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := a.policy.Authorize(principal, action); err != nil {
		return nil, err
	}
	return principal, nil
}

// initDB opens the pool through sqlx and hands the same *sql.DB to gorm.
// sqlite opens through gorm and is wrapped by sqlx afterwards.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *store.Store, error) {
	if cfg.Driver == "sqlite" {
		gdb, err := store.Open(cfg, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		sqlDB.SetMaxOpenConns(1)

		st := store.NewStore(gdb)
		if err := st.AutoMigrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return sqlx.NewDb(sqlDB, "sqlite3"), st, nil
	}

	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gdb, err := store.Open(cfg, dbConn.DB)
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}
	return dbConn, store.NewStore(gdb), nil
}

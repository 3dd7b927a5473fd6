package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/workforce-management/internal"
	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Open wraps an already established connection pool in gorm. The sqlite
// driver opens its own connection from cfg.Source and ignores sqlDB.
func Open(cfg internal.DatabaseConfig, sqlDB *sql.DB) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	switch cfg.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Source), gcfg)
	case "postgres", "":
		if sqlDB == nil {
			return nil, errors.New("postgres driver needs an open connection")
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gcfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Models lists every table the core persists, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&scheduleDatamodel.Shift{},
		&scheduleDatamodel.ExceptionFlag{},
		&attendanceDatamodel.TimeLog{},
		&attendanceDatamodel.BreakLog{},
		&payrollDatamodel.PayRate{},
		&payrollDatamodel.PayrollRun{},
		&payrollDatamodel.PayrollLine{},
		&approvalDatamodel.LeaveRequest{},
		&approvalDatamodel.SwapRequest{},
		&notificationDatamodel.Notification{},
	}
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// AutoMigrate creates the schema directly from the models. Postgres
// deployments use the goose migrations instead.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(Models()...)
}

func (s *Store) Transaction(ctx context.Context, fn func(tx port.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&unitOfWork{db: gtx})
	})
}

type unitOfWork struct {
	db *gorm.DB
}

func (u *unitOfWork) Users() port.UserRepository           { return &UserRepository{db: u.db} }
func (u *unitOfWork) Shifts() port.ShiftRepository         { return &ShiftRepository{db: u.db} }
func (u *unitOfWork) TimeLogs() port.TimeLogRepository     { return &TimeLogRepository{db: u.db} }
func (u *unitOfWork) BreakLogs() port.BreakLogRepository   { return &BreakLogRepository{db: u.db} }
func (u *unitOfWork) PayRates() port.PayRateRepository     { return &PayRateRepository{db: u.db} }
func (u *unitOfWork) Leaves() port.LeaveRepository         { return &LeaveRepository{db: u.db} }
func (u *unitOfWork) Swaps() port.SwapRepository           { return &SwapRepository{db: u.db} }
func (u *unitOfWork) PayrollRuns() port.PayrollRunRepository {
	return &PayrollRunRepository{db: u.db}
}
func (u *unitOfWork) PayrollLines() port.PayrollLineRepository {
	return &PayrollLineRepository{db: u.db}
}
func (u *unitOfWork) ExceptionFlags() port.ExceptionFlagRepository {
	return &ExceptionFlagRepository{db: u.db}
}
func (u *unitOfWork) Notifications() port.NotificationRepository {
	return &NotificationRepository{db: u.db}
}

// forUpdate adds SELECT ... FOR UPDATE. The sqlite dialect drops the clause.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// first loads a single row into dest, mapping a missing row to (false, nil).
func first(db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.Where(query, args...).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Package port declares the persistence contract consumed by the core
// services. Every repository is bound to a single unit of work obtained from
// Store.Transaction; nothing here holds an ambient session.
package port

import (
	"context"
	"time"

	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
)

// Lookups return (nil, nil) when the row does not exist.

type UserRepository interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
}

type ShiftRepository interface {
	Create(ctx context.Context, s *scheduleDatamodel.Shift) error
	GetByID(ctx context.Context, id int64) (*scheduleDatamodel.Shift, error)
	LockByID(ctx context.Context, id int64) (*scheduleDatamodel.Shift, error)
	UpdateOwner(ctx context.Context, id, userID int64) error
	UpdateStatus(ctx context.Context, id int64, status scheduleDatamodel.ShiftStatus) error
	// ListOrdered returns shifts by start_time ascending, id as tie-break.
	// A zero userID means every user.
	ListOrdered(ctx context.Context, userID int64) ([]*scheduleDatamodel.Shift, error)
}

type ExceptionFlagRepository interface {
	Create(ctx context.Context, f *scheduleDatamodel.ExceptionFlag) error
	ListByShift(ctx context.Context, shiftID int64) ([]*scheduleDatamodel.ExceptionFlag, error)
}

type TimeLogRepository interface {
	Create(ctx context.Context, t *attendanceDatamodel.TimeLog) error
	GetByID(ctx context.Context, id int64) (*attendanceDatamodel.TimeLog, error)
	LockByID(ctx context.Context, id int64) (*attendanceDatamodel.TimeLog, error)
	Close(ctx context.Context, id int64, clockOut time.Time) error
	ListByShift(ctx context.Context, shiftID int64) ([]*attendanceDatamodel.TimeLog, error)
	// ListClosedBetween returns closed logs with clock_in >= from and
	// clock_out <= to, ordered by id.
	ListClosedBetween(ctx context.Context, from, to time.Time) ([]*attendanceDatamodel.TimeLog, error)
}

type BreakLogRepository interface {
	Create(ctx context.Context, b *attendanceDatamodel.BreakLog) error
	GetByID(ctx context.Context, id int64) (*attendanceDatamodel.BreakLog, error)
	Close(ctx context.Context, id int64, breakEnd time.Time) error
	ListByTimeLog(ctx context.Context, timeLogID int64) ([]*attendanceDatamodel.BreakLog, error)
	ListByTimeLogs(ctx context.Context, timeLogIDs []int64) ([]*attendanceDatamodel.BreakLog, error)
}

type PayRateRepository interface {
	Create(ctx context.Context, r *payrollDatamodel.PayRate) error
	// ListCovering returns the rates of userID whose interval contains at.
	ListCovering(ctx context.Context, userID int64, at time.Time) ([]*payrollDatamodel.PayRate, error)
	ListByUser(ctx context.Context, userID int64) ([]*payrollDatamodel.PayRate, error)
}

type PayrollRunRepository interface {
	Create(ctx context.Context, r *payrollDatamodel.PayrollRun) error
	GetByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollRun, error)
	LockByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollRun, error)
	UpdateStatus(ctx context.Context, id int64, status payrollDatamodel.RunStatus) error
}

type PayrollLineRepository interface {
	DeleteByRun(ctx context.Context, runID int64) error
	CreateBatch(ctx context.Context, lines []*payrollDatamodel.PayrollLine) error
	ListByRun(ctx context.Context, runID int64) ([]*payrollDatamodel.PayrollLine, error)
}

type LeaveRepository interface {
	Create(ctx context.Context, l *approvalDatamodel.LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*approvalDatamodel.LeaveRequest, error)
	LockByID(ctx context.Context, id int64) (*approvalDatamodel.LeaveRequest, error)
	Decide(ctx context.Context, id, approverID int64, status approvalDatamodel.RequestStatus) error
	ListByRequester(ctx context.Context, requesterID int64) ([]*approvalDatamodel.LeaveRequest, error)
}

type SwapRepository interface {
	Create(ctx context.Context, s *approvalDatamodel.SwapRequest) error
	GetByID(ctx context.Context, id int64) (*approvalDatamodel.SwapRequest, error)
	LockByID(ctx context.Context, id int64) (*approvalDatamodel.SwapRequest, error)
	UpdateStatus(ctx context.Context, id int64, status approvalDatamodel.RequestStatus) error
	ListByStatus(ctx context.Context, status approvalDatamodel.RequestStatus) ([]*approvalDatamodel.SwapRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notificationDatamodel.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) (bool, error)
}

// Tx is a unit of work. Writes made through its repositories commit or roll
// back together.
type Tx interface {
	Users() UserRepository
	Shifts() ShiftRepository
	ExceptionFlags() ExceptionFlagRepository
	TimeLogs() TimeLogRepository
	BreakLogs() BreakLogRepository
	PayRates() PayRateRepository
	PayrollRuns() PayrollRunRepository
	PayrollLines() PayrollLineRepository
	Leaves() LeaveRepository
	Swaps() SwapRepository
	Notifications() NotificationRepository
}

// Store opens units of work. fn's error rolls the transaction back and is
// returned unchanged.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

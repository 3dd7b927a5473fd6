package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/workforce-management/internal/core/port"
)

type Service struct {
	store  port.Store
	cfg    internal.AttendanceConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewService(store port.Store, cfg internal.AttendanceConfig, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source stamped on clock and break events.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) ClockIn(ctx context.Context, userID, shiftID int64) (*Result, error) {
	return s.ClockInFrom(ctx, userID, shiftID, attendanceDatamodel.SourceApp)
}

// ClockInFrom opens a time log against a shift owned by userID. Several open
// logs per user are accepted.
func (s *Service) ClockInFrom(ctx context.Context, userID, shiftID int64, source attendanceDatamodel.Source) (*Result, error) {
	switch source {
	case attendanceDatamodel.SourceApp, attendanceDatamodel.SourceKiosk:
	case "":
		source = attendanceDatamodel.SourceApp
	default:
		return nil, internal.NewInvalidValue("source", source)
	}

	result := &Result{}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		shift, err := s.ownedShift(ctx, tx, userID, shiftID)
		if err != nil {
			return err
		}

		now := s.clock()
		log := &attendanceDatamodel.TimeLog{
			ShiftID: shift.ID,
			UserID:  userID,
			ClockIn: now,
			Source:  source,
		}
		if err := tx.TimeLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("create time log: %w", err)
		}
		result.TimeLog = log

		if now.After(shift.StartTime.Add(s.cfg.GracePeriod)) {
			late := now.Sub(shift.StartTime).Truncate(time.Minute)
			flag, err := s.flag(ctx, tx, shift.ID, userID, scheduleDatamodel.ExceptionLate, fmt.Sprintf("clocked in %s after shift start", late), now)
			if err != nil {
				return err
			}
			result.Flags = append(result.Flags, flag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("clocked in", "user_id", userID, "shift_id", shiftID, "timelog_id", result.TimeLog.ID, "flags", len(result.Flags))
	return result, nil
}

// ClockOut closes an open time log and completes its shift.
func (s *Service) ClockOut(ctx context.Context, userID, timeLogID int64) (*Result, error) {
	result := &Result{}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		log, err := s.ownedTimeLog(ctx, tx, userID, timeLogID, true)
		if err != nil {
			return err
		}
		if !log.IsOpen() {
			return internal.NewAlreadyClosed("timelog", timeLogID)
		}

		now := s.clock()
		if !now.After(log.ClockIn) {
			return internal.NewInvalidRange("clock_out")
		}
		if err := tx.TimeLogs().Close(ctx, log.ID, now); err != nil {
			return fmt.Errorf("close time log: %w", err)
		}
		log.ClockOut = &now
		result.TimeLog = log

		if err := tx.Shifts().UpdateStatus(ctx, log.ShiftID, scheduleDatamodel.ShiftCompleted); err != nil {
			return fmt.Errorf("complete shift: %w", err)
		}

		breaks, err := tx.BreakLogs().ListByTimeLog(ctx, log.ID)
		if err != nil {
			return err
		}
		result.Breaks = breaks

		shift, err := tx.Shifts().GetByID(ctx, log.ShiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return nil
		}
		for _, f := range s.clockOutFlags(shift, now) {
			flag, err := s.flag(ctx, tx, shift.ID, log.UserID, f.kind, f.reason, now)
			if err != nil {
				return err
			}
			result.Flags = append(result.Flags, flag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("clocked out",
		"user_id", userID,
		"timelog_id", timeLogID,
		"worked_minutes", WorkedMinutes(result.TimeLog, result.Breaks),
		"flags", len(result.Flags))
	return result, nil
}

// StartBreak opens a break on an open time log. Only one break may be open
// at a time.
func (s *Service) StartBreak(ctx context.Context, userID, timeLogID int64) (*attendanceDatamodel.BreakLog, error) {
	var brk *attendanceDatamodel.BreakLog
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		log, err := s.ownedTimeLog(ctx, tx, userID, timeLogID, true)
		if err != nil {
			return err
		}
		if !log.IsOpen() {
			return internal.NewAlreadyClosed("timelog", timeLogID)
		}

		breaks, err := tx.BreakLogs().ListByTimeLog(ctx, log.ID)
		if err != nil {
			return err
		}
		for _, b := range breaks {
			if b.IsOpen() {
				return internal.NewConflictError(fmt.Sprintf("break %d is still open", b.ID), internal.ErrCodeBreakOpen)
			}
		}

		brk = &attendanceDatamodel.BreakLog{TimeLogID: log.ID, BreakStart: s.clock()}
		return tx.BreakLogs().Create(ctx, brk)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("break started", "user_id", userID, "timelog_id", timeLogID, "break_id", brk.ID)
	return brk, nil
}

func (s *Service) EndBreak(ctx context.Context, userID, breakID int64) (*attendanceDatamodel.BreakLog, error) {
	var brk *attendanceDatamodel.BreakLog
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		brk, err = tx.BreakLogs().GetByID(ctx, breakID)
		if err != nil {
			return err
		}
		if brk == nil {
			return internal.NewNotFound("break", breakID, internal.ErrCodeBreakNotFound)
		}
		if _, err := s.ownedTimeLog(ctx, tx, userID, brk.TimeLogID, true); err != nil {
			if internal.IsKind(err, internal.ErrorTypeNotFound) {
				return internal.NewNotFound("break", breakID, internal.ErrCodeBreakNotFound)
			}
			return err
		}
		if !brk.IsOpen() {
			return internal.NewAlreadyClosed("break", breakID)
		}

		now := s.clock()
		if !now.After(brk.BreakStart) {
			return internal.NewInvalidRange("break_end")
		}
		if err := tx.BreakLogs().Close(ctx, brk.ID, now); err != nil {
			return fmt.Errorf("close break: %w", err)
		}
		brk.BreakEnd = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("break ended", "user_id", userID, "break_id", breakID, "duration", brk.BreakEnd.Sub(brk.BreakStart))
	return brk, nil
}

// GetTimeLog returns a time log of userID with its breaks.
func (s *Service) GetTimeLog(ctx context.Context, userID, timeLogID int64) (*Result, error) {
	result := &Result{}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		log, err := s.ownedTimeLog(ctx, tx, userID, timeLogID, false)
		if err != nil {
			return err
		}
		result.TimeLog = log
		result.Breaks, err = tx.BreakLogs().ListByTimeLog(ctx, log.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) ListFlags(ctx context.Context, shiftID int64) ([]*scheduleDatamodel.ExceptionFlag, error) {
	var flags []*scheduleDatamodel.ExceptionFlag
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		shift, err := tx.Shifts().GetByID(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return internal.NewNotFound("shift", shiftID, internal.ErrCodeShiftNotFound)
		}
		flags, err = tx.ExceptionFlags().ListByShift(ctx, shiftID)
		return err
	})
	return flags, err
}

func (s *Service) ownedShift(ctx context.Context, tx port.Tx, userID, shiftID int64) (*scheduleDatamodel.Shift, error) {
	u, err := tx.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFound("user", userID, internal.ErrCodeUserNotFound)
	}

	shift, err := tx.Shifts().GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil || shift.UserID != userID {
		return nil, internal.NewNotFound("shift", shiftID, internal.ErrCodeShiftNotFound)
	}
	return shift, nil
}

func (s *Service) ownedTimeLog(ctx context.Context, tx port.Tx, userID, timeLogID int64, lock bool) (*attendanceDatamodel.TimeLog, error) {
	var (
		log *attendanceDatamodel.TimeLog
		err error
	)
	if lock {
		log, err = tx.TimeLogs().LockByID(ctx, timeLogID)
	} else {
		log, err = tx.TimeLogs().GetByID(ctx, timeLogID)
	}
	if err != nil {
		return nil, err
	}
	if log == nil || log.UserID != userID {
		return nil, internal.NewNotFound("timelog", timeLogID, internal.ErrCodeTimeLogNotFound)
	}
	return log, nil
}

type pendingFlag struct {
	kind   scheduleDatamodel.ExceptionKind
	reason string
}

func (s *Service) clockOutFlags(shift *scheduleDatamodel.Shift, out time.Time) []pendingFlag {
	var flags []pendingFlag
	if out.Before(shift.EndTime.Add(-s.cfg.GracePeriod)) {
		early := shift.EndTime.Sub(out).Truncate(time.Minute)
		flags = append(flags, pendingFlag{scheduleDatamodel.ExceptionEarly, fmt.Sprintf("clocked out %s before shift end", early)})
	}
	if out.After(shift.EndTime.Add(s.cfg.OvertimeThreshold)) {
		extra := out.Sub(shift.EndTime).Truncate(time.Minute)
		flags = append(flags, pendingFlag{scheduleDatamodel.ExceptionOvertime, fmt.Sprintf("clocked out %s after shift end", extra)})
	}
	return flags
}

func (s *Service) flag(ctx context.Context, tx port.Tx, shiftID, userID int64, kind scheduleDatamodel.ExceptionKind, reason string, at time.Time) (*scheduleDatamodel.ExceptionFlag, error) {
	f := &scheduleDatamodel.ExceptionFlag{
		ShiftID:    shiftID,
		UserID:     userID,
		Kind:       kind,
		Reason:     reason,
		DetectedAt: at,
	}
	if err := tx.ExceptionFlags().Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create %s flag: %w", kind, err)
	}
	s.logger.Warn("attendance exception", "shift_id", shiftID, "user_id", userID, "kind", kind)
	return f, nil
}

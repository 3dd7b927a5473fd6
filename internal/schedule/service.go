package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
)

type Service struct {
	store  port.Store
	logger *slog.Logger
}

func NewService(store port.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// AssignShift creates a scheduled shift. Overlap with the user's other
// shifts is not checked. The work date is the start's calendar date in the
// caller's offset; the stored times are UTC.
func (s *Service) AssignShift(ctx context.Context, userID int64, start, end time.Time) (*scheduleDatamodel.Shift, error) {
	dto := AssignShiftDTO{UserID: userID, Start: start.UTC(), End: end.UTC()}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	shift := &scheduleDatamodel.Shift{
		UserID:    userID,
		WorkDate:  WorkDateOf(start),
		StartTime: dto.Start,
		EndTime:   dto.End,
		Status:    scheduleDatamodel.ShiftScheduled,
	}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return internal.NewNotFound("user", userID, internal.ErrCodeUserNotFound)
		}
		if err := tx.Shifts().Create(ctx, shift); err != nil {
			return fmt.Errorf("create shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift assigned", "shift_id", shift.ID, "user_id", userID, "start", shift.StartTime, "end", shift.EndTime)
	return shift, nil
}

// ViewRoster lists every shift by start time.
func (s *Service) ViewRoster(ctx context.Context) ([]*scheduleDatamodel.Shift, error) {
	var shifts []*scheduleDatamodel.Shift
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		shifts, err = tx.Shifts().ListOrdered(ctx, 0)
		return err
	})
	return shifts, err
}

// Roster lists shifts with their owners. A zero userID means every user.
func (s *Service) Roster(ctx context.Context, userID int64) ([]RosterEntry, error) {
	var entries []RosterEntry
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		shifts, err := tx.Shifts().ListOrdered(ctx, userID)
		if err != nil {
			return err
		}

		owners := make(map[int64]*userDatamodel.User)
		entries = make([]RosterEntry, 0, len(shifts))
		for _, sh := range shifts {
			owner, seen := owners[sh.UserID]
			if !seen {
				owner, err = tx.Users().GetByID(ctx, sh.UserID)
				if err != nil {
					return err
				}
				owners[sh.UserID] = owner
			}
			entries = append(entries, NewRosterEntry(sh, owner))
		}
		return nil
	})
	return entries, err
}

func (s *Service) GetShift(ctx context.Context, shiftID int64) (*scheduleDatamodel.Shift, error) {
	var shift *scheduleDatamodel.Shift
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		shift, err = tx.Shifts().GetByID(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return internal.NewNotFound("shift", shiftID, internal.ErrCodeShiftNotFound)
		}
		return nil
	})
	return shift, err
}

package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	"github.com/frahmantamala/workforce-management/internal/core/port"
)

type Service struct {
	store  port.Store
	cfg    internal.ApprovalConfig
	logger *slog.Logger
}

func NewService(store port.Store, cfg internal.ApprovalConfig, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLeave files a pending leave request over an inclusive date range.
func (s *Service) CreateLeave(ctx context.Context, requesterID int64, start, end time.Time, leaveType, reason string) (*approvalDatamodel.LeaveRequest, error) {
	dto := CreateLeaveDTO{RequesterID: requesterID, StartDate: start, EndDate: end, Type: leaveType, Reason: reason}
	parsed, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	leave := &approvalDatamodel.LeaveRequest{
		RequesterID: requesterID,
		StartDate:   start.UTC(),
		EndDate:     end.UTC(),
		Type:        parsed,
		Status:      approvalDatamodel.StatusPending,
		Reason:      reason,
	}
	err = s.store.Transaction(ctx, func(tx port.Tx) error {
		if err := requireUser(ctx, tx, requesterID); err != nil {
			return err
		}
		if err := tx.Leaves().Create(ctx, leave); err != nil {
			return fmt.Errorf("create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave requested", "leave_id", leave.ID, "requester_id", requesterID, "type", leave.Type)
	return leave, nil
}

// DecideLeave records the approver and outcome on a leave request. The
// decision is validated before anything is read.
func (s *Service) DecideLeave(ctx context.Context, leaveID, approverID int64, decision string) (*approvalDatamodel.LeaveRequest, error) {
	d, err := ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	var leave *approvalDatamodel.LeaveRequest
	err = s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		leave, err = tx.Leaves().LockByID(ctx, leaveID)
		if err != nil {
			return fmt.Errorf("lock leave request: %w", err)
		}
		if leave == nil {
			return internal.NewNotFound("leave_request", leaveID, internal.ErrCodeLeaveNotFound)
		}
		if err := requireUser(ctx, tx, approverID); err != nil {
			return err
		}
		if err := s.checkOpen("leave_request", leaveID, leave.Status); err != nil {
			return err
		}

		if err := tx.Leaves().Decide(ctx, leaveID, approverID, d.Status()); err != nil {
			return fmt.Errorf("decide leave request: %w", err)
		}
		leave.ApproverID = &approverID
		leave.Status = d.Status()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave decided", "leave_id", leaveID, "approver_id", approverID, "status", leave.Status)
	return leave, nil
}

func (s *Service) ListLeaves(ctx context.Context, requesterID int64) ([]*approvalDatamodel.LeaveRequest, error) {
	var leaves []*approvalDatamodel.LeaveRequest
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		leaves, err = tx.Leaves().ListByRequester(ctx, requesterID)
		return err
	})
	return leaves, err
}

// checkOpen rejects decisions on settled requests when strict transitions
// are enabled. Otherwise a later decision overwrites the earlier one.
func (s *Service) checkOpen(entity string, id int64, status approvalDatamodel.RequestStatus) error {
	if !status.IsTerminal() {
		return nil
	}
	if s.cfg.StrictTransitions {
		return internal.NewAlreadyClosed(entity, id)
	}
	s.logger.Warn("overwriting a settled decision", "entity", entity, "id", id, "previous_status", status)
	return nil
}

func requireUser(ctx context.Context, tx port.Tx, userID int64) error {
	u, err := tx.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return internal.NewNotFound("user", userID, internal.ErrCodeUserNotFound)
	}
	return nil
}

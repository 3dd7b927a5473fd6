package approval

import (
	"context"
	"fmt"

	"github.com/frahmantamala/workforce-management/internal"
	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	"github.com/frahmantamala/workforce-management/internal/core/port"
)

// RequestSwap asks to hand a shift owned by fromUserID over to toUserID.
func (s *Service) RequestSwap(ctx context.Context, fromUserID, shiftID, toUserID int64, note string) (*approvalDatamodel.SwapRequest, error) {
	dto := RequestSwapDTO{FromUserID: fromUserID, ShiftID: shiftID, ToUserID: toUserID, Note: note}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	swap := &approvalDatamodel.SwapRequest{
		ShiftID:    shiftID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     approvalDatamodel.StatusPending,
		Note:       note,
	}
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		if err := requireUser(ctx, tx, fromUserID); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, toUserID); err != nil {
			return err
		}
		shift, err := tx.Shifts().GetByID(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil || shift.UserID != fromUserID {
			return internal.NewNotFound("shift", shiftID, internal.ErrCodeShiftNotFound)
		}
		if err := tx.Swaps().Create(ctx, swap); err != nil {
			return fmt.Errorf("create swap request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("swap requested", "swap_id", swap.ID, "shift_id", shiftID, "from_user_id", fromUserID, "to_user_id", toUserID)
	return swap, nil
}

// DecideSwap settles a swap request. Approval moves the shift to the target
// user in the same transaction as the status change.
func (s *Service) DecideSwap(ctx context.Context, swapID, approverID int64, decision string) (*approvalDatamodel.SwapRequest, error) {
	d, err := ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	var swap *approvalDatamodel.SwapRequest
	err = s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		swap, err = tx.Swaps().LockByID(ctx, swapID)
		if err != nil {
			return fmt.Errorf("lock swap request: %w", err)
		}
		if swap == nil {
			return internal.NewNotFound("swap_request", swapID, internal.ErrCodeSwapNotFound)
		}
		if err := requireUser(ctx, tx, approverID); err != nil {
			return err
		}
		if err := s.checkOpen("swap_request", swapID, swap.Status); err != nil {
			return err
		}

		if d == DecisionApproved {
			shift, err := tx.Shifts().LockByID(ctx, swap.ShiftID)
			if err != nil {
				return fmt.Errorf("lock shift: %w", err)
			}
			if shift == nil {
				return internal.NewNotFound("shift", swap.ShiftID, internal.ErrCodeShiftNotFound)
			}
			if err := tx.Shifts().UpdateOwner(ctx, shift.ID, swap.ToUserID); err != nil {
				return fmt.Errorf("reassign shift: %w", err)
			}
		}
		if err := tx.Swaps().UpdateStatus(ctx, swapID, d.Status()); err != nil {
			return fmt.Errorf("update swap request: %w", err)
		}
		swap.Status = d.Status()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("swap decided", "swap_id", swapID, "approver_id", approverID, "status", swap.Status)
	return swap, nil
}

// ListSwaps lists swap requests in one status, pending when status is empty.
func (s *Service) ListSwaps(ctx context.Context, status string) ([]*approvalDatamodel.SwapRequest, error) {
	st := approvalDatamodel.StatusPending
	if status != "" {
		st = approvalDatamodel.RequestStatus(status)
		if st != approvalDatamodel.StatusPending && !st.IsTerminal() {
			return nil, internal.NewInvalidValue("status", status)
		}
	}

	var swaps []*approvalDatamodel.SwapRequest
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		swaps, err = tx.Swaps().ListByStatus(ctx, st)
		return err
	})
	return swaps, err
}

package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveDecided     = "leave.decided"
	EventTypeSwapRequested    = "swap.requested"
	EventTypeSwapDecided      = "swap.decided"
	EventTypePayrollGenerated = "payroll.generated"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type LeaveDecidedEvent struct {
	BaseEvent
	LeaveID     int64  `json:"leave_id"`
	RequesterID int64  `json:"requester_id"`
	ApproverID  int64  `json:"approver_id"`
	Status      string `json:"status"`
}

func NewLeaveDecidedEvent(leaveID, requesterID, approverID int64, status string) *LeaveDecidedEvent {
	return &LeaveDecidedEvent{
		BaseEvent: newBase(EventTypeLeaveDecided, map[string]interface{}{
			"leave_id":     leaveID,
			"requester_id": requesterID,
			"approver_id":  approverID,
			"status":       status,
		}),
		LeaveID:     leaveID,
		RequesterID: requesterID,
		ApproverID:  approverID,
		Status:      status,
	}
}

type SwapRequestedEvent struct {
	BaseEvent
	SwapID     int64 `json:"swap_id"`
	ShiftID    int64 `json:"shift_id"`
	FromUserID int64 `json:"from_user_id"`
	ToUserID   int64 `json:"to_user_id"`
}

func NewSwapRequestedEvent(swapID, shiftID, fromUserID, toUserID int64) *SwapRequestedEvent {
	return &SwapRequestedEvent{
		BaseEvent: newBase(EventTypeSwapRequested, map[string]interface{}{
			"swap_id":      swapID,
			"shift_id":     shiftID,
			"from_user_id": fromUserID,
			"to_user_id":   toUserID,
		}),
		SwapID:     swapID,
		ShiftID:    shiftID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
	}
}

type SwapDecidedEvent struct {
	BaseEvent
	SwapID     int64  `json:"swap_id"`
	ShiftID    int64  `json:"shift_id"`
	FromUserID int64  `json:"from_user_id"`
	ToUserID   int64  `json:"to_user_id"`
	ApproverID int64  `json:"approver_id"`
	Status     string `json:"status"`
}

func NewSwapDecidedEvent(swapID, shiftID, fromUserID, toUserID, approverID int64, status string) *SwapDecidedEvent {
	return &SwapDecidedEvent{
		BaseEvent: newBase(EventTypeSwapDecided, map[string]interface{}{
			"swap_id":      swapID,
			"shift_id":     shiftID,
			"from_user_id": fromUserID,
			"to_user_id":   toUserID,
			"approver_id":  approverID,
			"status":       status,
		}),
		SwapID:     swapID,
		ShiftID:    shiftID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		ApproverID: approverID,
		Status:     status,
	}
}

type PayrollGeneratedEvent struct {
	BaseEvent
	RunID       int64   `json:"run_id"`
	GeneratedBy int64   `json:"generated_by"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	UserIDs     []int64 `json:"user_ids"`
}

func NewPayrollGeneratedEvent(runID, generatedBy int64, periodStart, periodEnd string, userIDs []int64) *PayrollGeneratedEvent {
	return &PayrollGeneratedEvent{
		BaseEvent: newBase(EventTypePayrollGenerated, map[string]interface{}{
			"run_id":       runID,
			"generated_by": generatedBy,
			"period_start": periodStart,
			"period_end":   periodEnd,
			"user_ids":     userIDs,
		}),
		RunID:       runID,
		GeneratedBy: generatedBy,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		UserIDs:     userIDs,
	}
}

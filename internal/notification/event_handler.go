package notification

import (
	"context"
	"fmt"
	"log/slog"

	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/workforce-management/internal/core/events"
)

// Notifier is the slice of Service the event handler needs.
type Notifier interface {
	Send(ctx context.Context, recipientID int64, message, channel string, entityType *string, entityID *int64) (*notificationDatamodel.Notification, error)
}

// EventHandler turns workflow events into notifications for the people
// affected.
type EventHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewEventHandler(notifier Notifier, logger *slog.Logger) *EventHandler {
	return &EventHandler{notifier: notifier, logger: logger}
}

func (h *EventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLeaveDecided, h.HandleLeaveDecided)
	bus.Subscribe(events.EventTypeSwapRequested, h.HandleSwapRequested)
	bus.Subscribe(events.EventTypeSwapDecided, h.HandleSwapDecided)
	bus.Subscribe(events.EventTypePayrollGenerated, h.HandlePayrollGenerated)
}

func (h *EventHandler) HandleLeaveDecided(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveDecidedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	msg := fmt.Sprintf("Your leave request #%d was %s.", e.LeaveID, e.Status)
	return h.notify(ctx, e.RequesterID, msg, "leave_request", e.LeaveID)
}

func (h *EventHandler) HandleSwapRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SwapRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	msg := fmt.Sprintf("You were asked to take over shift #%d (swap request #%d).", e.ShiftID, e.SwapID)
	return h.notify(ctx, e.ToUserID, msg, "swap_request", e.SwapID)
}

func (h *EventHandler) HandleSwapDecided(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SwapDecidedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	msg := fmt.Sprintf("Swap request #%d for shift #%d was %s.", e.SwapID, e.ShiftID, e.Status)
	if err := h.notify(ctx, e.FromUserID, msg, "swap_request", e.SwapID); err != nil {
		return err
	}
	return h.notify(ctx, e.ToUserID, msg, "swap_request", e.SwapID)
}

func (h *EventHandler) HandlePayrollGenerated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PayrollGeneratedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	msg := fmt.Sprintf("Payroll for %s to %s is available.", e.PeriodStart, e.PeriodEnd)
	var firstErr error
	for _, userID := range e.UserIDs {
		if err := h.notify(ctx, userID, msg, "payroll_run", e.RunID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *EventHandler) notify(ctx context.Context, recipientID int64, message, entityType string, entityID int64) error {
	if _, err := h.notifier.Send(ctx, recipientID, message, "", &entityType, &entityID); err != nil {
		h.logger.Warn("failed to notify", "recipient_id", recipientID, "entity_type", entityType, "entity_id", entityID, "error", err)
		return err
	}
	return nil
}

package approval

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/internal/transport"
)

type ServiceAPI interface {
	CreateLeave(ctx context.Context, requesterID int64, start, end time.Time, leaveType, reason string) (*approvalDatamodel.LeaveRequest, error)
	DecideLeave(ctx context.Context, leaveID, approverID int64, decision string) (*approvalDatamodel.LeaveRequest, error)
	ListLeaves(ctx context.Context, requesterID int64) ([]*approvalDatamodel.LeaveRequest, error)
	RequestSwap(ctx context.Context, fromUserID, shiftID, toUserID int64, note string) (*approvalDatamodel.SwapRequest, error)
	DecideSwap(ctx context.Context, swapID, approverID int64, decision string) (*approvalDatamodel.SwapRequest, error)
	ListSwaps(ctx context.Context, status string) ([]*approvalDatamodel.SwapRequest, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Events  events.Publisher
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, publisher events.Publisher) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Events:      publisher,
	}
}

func (h *Handler) publish(r *http.Request, event events.Event) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(r.Context(), event); err != nil {
		h.Logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// CreateLeave handles POST /leaves
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var req createLeaveRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	start, verr := validation.ParseDate("start_date", req.StartDate)
	if verr != nil {
		h.WriteAppError(w, verr)
		return
	}
	end, verr := validation.ParseDate("end_date", req.EndDate)
	if verr != nil {
		h.WriteAppError(w, verr)
		return
	}

	leave, err := h.Service.CreateLeave(r.Context(), p.UserID, start, end, req.Type, req.Reason)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, leave)
}

// DecideLeave handles POST /leaves/{id}/decision
func (h *Handler) DecideLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req decisionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	leave, err := h.Service.DecideLeave(r.Context(), id, p.UserID, req.Decision)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.publish(r, events.NewLeaveDecidedEvent(leave.ID, leave.RequesterID, p.UserID, string(leave.Status)))
	h.WriteJSON(w, http.StatusOK, leave)
}

// ListLeaves handles GET /leaves for the caller's own requests
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	leaves, err := h.Service.ListLeaves(r.Context(), p.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, LeavesResponse{Leaves: leaves})
}

// RequestSwap handles POST /swaps
func (h *Handler) RequestSwap(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var req requestSwapRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	swap, err := h.Service.RequestSwap(r.Context(), p.UserID, req.ShiftID, req.ToUserID, req.Note)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.publish(r, events.NewSwapRequestedEvent(swap.ID, swap.ShiftID, swap.FromUserID, swap.ToUserID))
	h.WriteJSON(w, http.StatusCreated, swap)
}

// DecideSwap handles POST /swaps/{id}/decision
func (h *Handler) DecideSwap(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req decisionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	swap, err := h.Service.DecideSwap(r.Context(), id, p.UserID, req.Decision)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.publish(r, events.NewSwapDecidedEvent(swap.ID, swap.ShiftID, swap.FromUserID, swap.ToUserID, p.UserID, string(swap.Status)))
	h.WriteJSON(w, http.StatusOK, swap)
}

// ListSwaps handles GET /swaps?status=
func (h *Handler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.Service.ListSwaps(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SwapsResponse{Swaps: swaps})
}

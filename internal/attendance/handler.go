package attendance

import (
	"context"
	"net/http"

	attendanceDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/attendance"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/workforce-management/internal/transport"
)

type ServiceAPI interface {
	ClockInFrom(ctx context.Context, userID, shiftID int64, source attendanceDatamodel.Source) (*Result, error)
	ClockOut(ctx context.Context, userID, timeLogID int64) (*Result, error)
	StartBreak(ctx context.Context, userID, timeLogID int64) (*attendanceDatamodel.BreakLog, error)
	EndBreak(ctx context.Context, userID, breakID int64) (*attendanceDatamodel.BreakLog, error)
	GetTimeLog(ctx context.Context, userID, timeLogID int64) (*Result, error)
	ListFlags(ctx context.Context, shiftID int64) ([]*scheduleDatamodel.ExceptionFlag, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ClockIn handles POST /timelogs
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto ClockInDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.ClockInFrom(r.Context(), p.UserID, dto.ShiftID, attendanceDatamodel.Source(dto.Source))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result.ToResponse())
}

// ClockOut handles POST /timelogs/{id}/clock-out
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.Service.ClockOut(r.Context(), p.UserID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

// GetTimeLog handles GET /timelogs/{id}
func (h *Handler) GetTimeLog(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.Service.GetTimeLog(r.Context(), p.UserID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

// StartBreak handles POST /timelogs/{id}/breaks
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	brk, err := h.Service.StartBreak(r.Context(), p.UserID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, brk)
}

// EndBreak handles POST /breaks/{id}/end
func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	brk, err := h.Service.EndBreak(r.Context(), p.UserID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, brk)
}

// ListFlags handles GET /shifts/{id}/flags
func (h *Handler) ListFlags(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	flags, err := h.Service.ListFlags(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, FlagsResponse{Flags: flags})
}

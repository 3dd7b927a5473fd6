package schedule

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	scheduleDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/workforce-management/internal/transport"
)

type ServiceAPI interface {
	AssignShift(ctx context.Context, userID int64, start, end time.Time) (*scheduleDatamodel.Shift, error)
	Roster(ctx context.Context, userID int64) ([]RosterEntry, error)
	GetShift(ctx context.Context, shiftID int64) (*scheduleDatamodel.Shift, error)
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

type assignShiftRequest struct {
	UserID    int64  `json:"user_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AssignShift handles POST /shifts
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req assignShiftRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	start, verr := validation.ParseInstant("start_time", req.StartTime)
	if verr != nil {
		h.WriteAppError(w, verr)
		return
	}
	end, verr := validation.ParseInstant("end_time", req.EndTime)
	if verr != nil {
		h.WriteAppError(w, verr)
		return
	}

	shift, err := h.Service.AssignShift(r.Context(), req.UserID, start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, shift)
}

// GetShift handles GET /shifts/{id}
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	shift, err := h.Service.GetShift(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, shift)
}

// ViewRoster handles GET /roster, optionally filtered by ?user_id=
func (h *Handler) ViewRoster(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.roster(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, RosterResponse{Shifts: entries})
}

// ExportRoster handles GET /roster.ics
func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.roster(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.ics"`)
	if err := WriteICS(w, entries, time.Now()); err != nil {
		h.Logger.Error("failed to write roster calendar", "error", err)
	}
}

func (h *Handler) roster(w http.ResponseWriter, r *http.Request) ([]RosterEntry, bool) {
	var userID int64
	if r.URL.Query().Get("user_id") != "" {
		id, ok := h.QueryID(w, r, "user_id")
		if !ok {
			return nil, false
		}
		userID = id
	}

	entries, err := h.Service.Roster(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}
	return entries, true
}

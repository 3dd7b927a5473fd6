package rate

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/common/validation"
	payrollDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/workforce-management/internal/transport"
)

type ServiceAPI interface {
	ResolveRate(ctx context.Context, userID int64, at time.Time) (*payrollDatamodel.PayRate, error)
	SetRate(ctx context.Context, dto SetRateDTO) (*payrollDatamodel.PayRate, error)
	ListRates(ctx context.Context, userID int64) ([]*payrollDatamodel.PayRate, error)
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

// ResolveRate handles GET /rates/resolve?user_id=&at=
func (h *Handler) ResolveRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.QueryID(w, r, "user_id")
	if !ok {
		return
	}
	at := time.Now().UTC()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := validation.ParseInstant("at", raw)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}
		at = parsed
	}

	resolved, err := h.Service.ResolveRate(r.Context(), userID, at)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponse(resolved))
}

// SetRate handles POST /rates
func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	var dto SetRateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	created, err := h.Service.SetRate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToResponse(created))
}

// ListRates handles GET /users/{id}/rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	rates, err := h.Service.ListRates(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	resp := RatesResponse{Rates: make([]RateResponse, 0, len(rates))}
	for _, rt := range rates {
		resp.Rates = append(resp.Rates, ToResponse(rt))
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

package notification

import (
	"context"
	"net/http"
	"strconv"

	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/workforce-management/internal/transport"
)

type ServiceAPI interface {
	Send(ctx context.Context, recipientID int64, message, channel string, entityType *string, entityID *int64) (*notificationDatamodel.Notification, error)
	ListForRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error)
	MarkRead(ctx context.Context, notificationID, recipientID int64) error
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

// Send handles POST /notifications
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var dto SendNotificationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	n, err := h.Service.Send(r.Context(), dto.RecipientID, dto.Message, dto.Channel, dto.EntityType, dto.EntityID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, n)
}

// List handles GET /notifications for the caller, ?unread=true for unread only
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	items, err := h.Service.ListForRecipient(r.Context(), p.UserID, unreadOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NotificationsResponse{Notifications: items})
}

// MarkRead handles POST /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.MarkRead(r.Context(), id, p.UserID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"TRAVBUD_BACK-END/internal/dto"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

// NotificationsHandler: HTTP endpoints (list/mark read/mark all read)
type NotificationsHandler struct {
	svc *services.NotificationService
}

func NewNotificationsHandler(svc *services.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

// ListNotifications
// @Summary List notifications
// @Description List the caller's notifications with filters and pagination.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread_only query bool false "true|false (default false)"
// @Param type query string false "join_requested, join_cancelled, join_approved or trip_cancelled"
// @Param page query int false "default 1"
// @Param limit query int false "default 20 (max 100)"
// @Success 200 {object} utils.Envelope{data=services.NotificationPage}
// @Failure 400 {object} utils.ErrorEnvelope
// @Failure 401 {object} utils.ErrorEnvelope
// @Router /api/v1/notifications [get]
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unread, err := utils.QueryBool(r, "unread_only")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	f := models.NotificationFilter{
		UserID: callerOf(r).ID,
		Type:   models.NotificationType(r.URL.Query().Get("type")),
		Page:   page,
	}
	if unread != nil {
		f.UnreadOnly = *unread
	}

	result, err := h.svc.List(r.Context(), f)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Notifications retrieved successfully", result)
}

// MarkRead
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.ErrorEnvelope
// @Router /api/v1/notifications/{id}/read [patch]
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := h.svc.MarkRead(r.Context(), id, callerOf(r).ID); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=dto.MarkAllReadResponse}
// @Router /api/v1/notifications/read-all [patch]
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkAllRead(r.Context(), callerOf(r).ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "All notifications marked as read", dto.MarkAllReadResponse{Updated: n})
}

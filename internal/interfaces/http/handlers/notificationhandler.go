package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// NotificationHandler serves the caller's own in-app notifications.
type NotificationHandler struct {
	service notificationService
	logger  logger.Interface
}

func NewNotificationHandler(service notificationService, logger logger.Interface) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description Newest first. Only the caller's notifications are returned.
// @Security Bearer
// @Tags notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Param is_read query bool false "Filter by read state"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse} "Notifications"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	pg := utils.ParsePagination(c)
	result, err := h.service.List(c.Request.Context(), dto.ListNotificationsRequest{
		UserID:   p.UserID,
		IsRead:   common.OptionalBool(c, "is_read"),
		Page:     pg.Page,
		PageSize: pg.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetUnreadCount godoc
// @Summary Unread notification count
// @Security Bearer
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.UnreadCountResponse} "Unread count"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.UnreadCount(c.Request.Context(), p.UserID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Description Idempotent. A notification owned by someone else answers 404.
// @Security Bearer
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.APIResponse "Marked as read"
// @Failure 400 {object} utils.APIResponse "Invalid notification ID"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "Notification not found"
// @Router /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	id, err := common.ParseUintParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), p.UserID, id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Security Bearer
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.MarkAllAsReadResponse} "Number of notifications updated"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.MarkAllAsRead(c.Request.Context(), p.UserID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "All notifications marked as read", result)
}

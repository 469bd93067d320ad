package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/services"
	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
)

// NotificationHandler serves in-app notification endpoints.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(notifications *services.NotificationService) (*NotificationHandler, error) {
	if notifications == nil {
		return nil, errors.New("notification handler requires a notification service")
	}
	return &NotificationHandler{notifications: notifications}, nil
}

// List returns the authenticated user's notifications. Pass unread=true to
// filter out read ones.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notifications.ListForUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, notifications)
}

// MarkRead flags a notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, gin.H{"read": true})
}

// UnreadCount returns the number of unread notifications.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, gin.H{"unread": count})
}

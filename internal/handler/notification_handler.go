package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

type NotificationHandler struct {
	notifications store.NotificationStore
}

func NewNotificationHandler(notifications store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type NotificationListResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

func (h *NotificationHandler) ListMine(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ctx := c.Request().Context()
	notifications, err := h.notifications.AllFor(ctx, user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch notifications"))
	}
	unread, err := h.notifications.CountUnread(ctx, user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch notifications"))
	}
	return c.JSON(http.StatusOK, NotificationListResponse{Notifications: notifications, Unread: unread})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if err := h.notifications.MarkAllRead(c.Request().Context(), user.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark notifications read"))
	}
	return c.NoContent(http.StatusNoContent)
}

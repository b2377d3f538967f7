package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
)

// NotificationHandler serves the /notification endpoints. Every operation is
// scoped to the authenticated user; nobody reads or mutates someone else's
// notifications.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

// List returns the caller's notifications; ?unread_only=true narrows to
// unread ones.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	unreadOnly := strings.EqualFold(c.QueryParam("unread_only"), "true")
	notifications, err := h.Notifications.ForUser(c.Request().Context(), userID, unreadOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

type notificationReq struct {
	UserID  uint64 `json:"user_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Create sends a notification to a user.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req notificationReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.UserID == 0 {
		return apperr.Validation("user_id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperr.Validation("message is required")
	}
	if req.Type == "" {
		req.Type = "GENERAL"
	}

	id, err := h.Notifications.Create(c.Request().Context(), req.UserID, req.Type, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":         "Notification created successfully",
		"notification_id": id,
	})
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	ok, err := h.Notifications.MarkRead(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Notification")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// Delete removes one of the caller's notifications.
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	ok, err := h.Notifications.Delete(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Notification")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}

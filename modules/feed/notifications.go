package feed

import (
	"net/http"
	"strings"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/notifications"
)

type addNotificationRequest struct {
	Text string `json:"text" form:"text"`
}

type notificationRequest struct {
	Index int `path:"index"`
}

func (m *Module) listNotifications(_ handler.Context, _ struct{}) handler.Response {
	return m.notificationsResponse(http.StatusOK)
}

func (m *Module) addNotification(_ handler.Context, req addNotificationRequest) handler.Response {
	req.Text = strings.TrimSpace(req.Text)
	if err := validator.Apply(validator.Required("text", req.Text)); err != nil {
		return handler.JSONError(err)
	}
	m.notifications.AddNotification(notifications.Notification{Text: req.Text})
	return m.notificationsResponse(http.StatusCreated)
}

func (m *Module) markAllRead(_ handler.Context, _ struct{}) handler.Response {
	m.notifications.MarkAllAsRead()
	return m.notificationsResponse(http.StatusOK)
}

func (m *Module) markRead(ctx handler.Context, req notificationRequest) handler.Response {
	if !m.notifications.MarkAsRead(req.Index) {
		m.log.DebugContext(ctx, "notification index out of range", logger.NotificationIndex(req.Index))
		return handler.JSONError(handler.ErrNotFound)
	}
	return m.notificationsResponse(http.StatusOK)
}

func (m *Module) notificationsResponse(status int) handler.Response {
	return handler.JSON(m.notifications.Notifications(),
		handler.WithJSONStatus(status),
		handler.WithJSONMeta(map[string]any{"unreadCount": m.notifications.UnreadCount()}),
	)
}

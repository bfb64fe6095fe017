package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/csc-helpdesk/csc/internal/infrastructure/services"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const closeWriteWait = time.Second

// notificationHub is the part of services.NotificationHub used for sessions.
type notificationHub interface {
	Register(userID string, conn *websocket.Conn) *services.WSConn
	Serve(c *services.WSConn)
}

// NotificationHubHandler upgrades authenticated requests to websocket
// sessions that receive notification events.
type NotificationHubHandler struct {
	hub      notificationHub
	upgrader websocket.Upgrader
	logger   logger.Interface
}

// NewNotificationHubHandler accepts browser connections only from
// allowedOrigins. Requests without an Origin header (non-browser clients)
// are accepted.
func NewNotificationHubHandler(hub notificationHub, allowedOrigins []string, log logger.Interface) *NotificationHubHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}

	return &NotificationHubHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil || u.Host == "" {
					return false
				}
				_, ok := allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
				return ok
			},
		},
		logger: log,
	}
}

// NotificationWS godoc
// @Summary Notification stream
// @Description Websocket carrying notification events for the caller. Browsers pass the token as ?token= since they cannot set headers on the upgrade request.
// @Security Bearer
// @Tags notifications
// @Param token query string false "Access token"
// @Success 101 "Switching protocols"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /ws [get]
func (h *NotificationHubHandler) NotificationWS(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("failed to upgrade to websocket",
			"error", err,
			"user_id", p.UserID,
			"ip", c.ClientIP(),
		)
		return
	}

	session := h.hub.Register(p.UserID, conn)
	if session == nil {
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
		_ = conn.Close()
		return
	}

	h.logger.Infow("notification websocket connected",
		"user_id", p.UserID,
		"conn_id", session.ID,
		"ip", c.ClientIP(),
	)

	h.hub.Serve(session)

	h.logger.Infow("notification websocket disconnected",
		"user_id", p.UserID,
		"conn_id", session.ID,
	)
}

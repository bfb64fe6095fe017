// Package services provides infrastructure services.
package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	json "github.com/json-iterator/go"

	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// HubEvent is the frame written to a websocket client.
type HubEvent struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// WSConn is one websocket session of a user.
type WSConn struct {
	ID          string
	UserID      string
	ConnectedAt time.Time

	conn   *websocket.Conn
	send   chan []byte
	closed atomic.Bool
}

// TrySend queues data without blocking. Returns false when the buffer is
// full or the connection is closed.
func (c *WSConn) TrySend(data []byte) (sent bool) {
	if c.closed.Load() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *WSConn) close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.send)
	}
}

type NotificationHubConfig struct {
	MaxConnsPerUser int
}

// NotificationHub pushes notification events to the websocket sessions of
// each user. It implements the dispatcher's Pusher.
type NotificationHub struct {
	// userID -> connID -> conn
	conns   map[string]map[string]*WSConn
	connsMu sync.RWMutex

	maxConnsPerUser int
	shutdown        atomic.Bool
	logger          logger.Interface
}

func NewNotificationHub(log logger.Interface, cfg *NotificationHubConfig) *NotificationHub {
	maxConns := 5
	if cfg != nil && cfg.MaxConnsPerUser > 0 {
		maxConns = cfg.MaxConnsPerUser
	}
	return &NotificationHub{
		conns:           make(map[string]map[string]*WSConn),
		maxConnsPerUser: maxConns,
		logger:          log,
	}
}

// Register adds conn for userID. Returns nil when the user is at the
// connection limit or the hub is shut down.
func (h *NotificationHub) Register(userID string, conn *websocket.Conn) *WSConn {
	if h.shutdown.Load() {
		return nil
	}

	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	userConns := h.conns[userID]
	if len(userConns) >= h.maxConnsPerUser {
		h.logger.Warnw("websocket connection limit exceeded",
			"user_id", userID,
			"limit", h.maxConnsPerUser,
		)
		return nil
	}
	if userConns == nil {
		userConns = make(map[string]*WSConn)
		h.conns[userID] = userConns
	}

	c := &WSConn{
		ID:          uuid.NewString(),
		UserID:      userID,
		ConnectedAt: biztime.NowUTC(),
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
	}
	userConns[c.ID] = c

	h.logger.Debugw("websocket connection registered", "user_id", userID, "conn_id", c.ID)
	return c
}

func (h *NotificationHub) Unregister(c *WSConn) {
	h.connsMu.Lock()
	if userConns, ok := h.conns[c.UserID]; ok {
		delete(userConns, c.ID)
		if len(userConns) == 0 {
			delete(h.conns, c.UserID)
		}
	}
	h.connsMu.Unlock()

	c.close()
}

// PushToUser sends event to every open session of userID. Sessions whose
// buffer is full are dropped.
func (h *NotificationHub) PushToUser(userID string, event string, payload any) {
	data, err := json.Marshal(HubEvent{
		Type:      event,
		Data:      payload,
		Timestamp: biztime.NowUTC().Unix(),
	})
	if err != nil {
		h.logger.Errorw("failed to marshal hub event", "event", event, "error", err)
		return
	}

	h.connsMu.RLock()
	targets := make([]*WSConn, 0, len(h.conns[userID]))
	for _, c := range h.conns[userID] {
		targets = append(targets, c)
	}
	h.connsMu.RUnlock()

	for _, c := range targets {
		if !c.TrySend(data) {
			h.logger.Warnw("dropping slow websocket client", "user_id", userID, "conn_id", c.ID)
			h.Unregister(c)
		}
	}
}

// ConnectionCount returns the open sessions of userID, or of everyone when
// userID is empty.
func (h *NotificationHub) ConnectionCount(userID string) int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()

	if userID != "" {
		return len(h.conns[userID])
	}
	n := 0
	for _, userConns := range h.conns {
		n += len(userConns)
	}
	return n
}

// Serve runs the session until the peer goes away. It blocks; call it from
// the upgrade handler.
func (h *NotificationHub) Serve(c *WSConn) {
	defer h.Unregister(c)

	go h.writePump(c)

	if data, err := json.Marshal(HubEvent{Type: "connected", Timestamp: biztime.NowUTC().Unix()}); err == nil {
		c.TrySend(data)
	}

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients never send anything meaningful; reading only drives pong and close handling.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugw("websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

func (h *NotificationHub) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debugw("websocket write failed", "user_id", c.UserID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Shutdown closes every session. Safe to call more than once.
func (h *NotificationHub) Shutdown() {
	if !h.shutdown.CompareAndSwap(false, true) {
		return
	}

	h.connsMu.Lock()
	all := h.conns
	h.conns = make(map[string]map[string]*WSConn)
	h.connsMu.Unlock()

	for _, userConns := range all {
		for _, c := range userConns {
			c.close()
		}
	}
}

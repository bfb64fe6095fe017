package notification

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	vo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

const (
	MaxTitleLength   = 200
	MaxMessageLength = 5000
)

type Notification struct {
	id               uint
	userID           string
	notificationType vo.NotificationType
	title            string
	message          string
	payload          map[string]any
	dedupKey         string
	isRead           bool
	readAt           *time.Time
	createdAt        time.Time
	mu               sync.RWMutex
}

func NewNotification(
	userID string,
	notificationType vo.NotificationType,
	title string,
	message string,
	payload map[string]any,
) (*Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type")
	}
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("message is required")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return &Notification{
		userID:           userID,
		notificationType: notificationType,
		title:            title,
		message:          message,
		payload:          payload,
		createdAt:        biztime.NowUTC(),
	}, nil
}

func ReconstructNotification(
	id uint,
	userID string,
	notificationType vo.NotificationType,
	title string,
	message string,
	payload map[string]any,
	dedupKey string,
	isRead bool,
	readAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	if id == 0 {
		return nil, fmt.Errorf("notification ID cannot be zero")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return &Notification{
		id:               id,
		userID:           userID,
		notificationType: notificationType,
		title:            title,
		message:          message,
		payload:          payload,
		dedupKey:         dedupKey,
		isRead:           isRead,
		readAt:           readAt,
		createdAt:        createdAt,
	}, nil
}

func (n *Notification) ID() uint {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.id
}

func (n *Notification) UserID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.userID
}

func (n *Notification) Type() vo.NotificationType {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.notificationType
}

func (n *Notification) Title() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.title
}

func (n *Notification) Message() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.message
}

func (n *Notification) Payload() map[string]any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]any, len(n.payload))
	for k, v := range n.payload {
		out[k] = v
	}
	return out
}

// DedupKey is unique per recipient; the overdue sweep uses it to notify once a day.
func (n *Notification) DedupKey() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dedupKey
}

func (n *Notification) IsRead() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.isRead
}

func (n *Notification) ReadAt() *time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.readAt
}

func (n *Notification) CreatedAt() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.createdAt
}

func (n *Notification) SetID(id uint) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

// WithDedupKey sets the key and mirrors it into the payload.
func (n *Notification) WithDedupKey(key string) *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dedupKey = key
	n.payload["dedup_key"] = key
	return n
}

// MarkAsRead is idempotent; it reports whether the state changed.
func (n *Notification) MarkAsRead() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.isRead {
		return false
	}
	now := biztime.NowUTC()
	n.isRead = true
	n.readAt = &now
	return true
}

// OverdueDedupKey identifies the overdue reminder for a ticket on a business day.
func OverdueDedupKey(ticketID uint, at time.Time) string {
	return fmt.Sprintf("overdue:%d:%s", ticketID, biztime.DateKey(at))
}

package notification

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

const (
	// VisibleFor is how long a notification stays on screen.
	VisibleFor = 3 * time.Second
	// RemoveAfter is when a notification is dropped entirely, after its fade-out.
	RemoveAfter = 3500 * time.Millisecond
)

// Level is the severity shown by the banner.
type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

// IsValid returns true if the level is recognized.
func (l Level) IsValid() bool {
	return l == LevelError || l == LevelInfo
}

// Notification is a transient, auto-dismissing message for the user.
type Notification struct {
	id        string
	message   string
	level     Level
	createdAt time.Time
}

// New creates a notification stamped at now.
func New(message string, level Level, now time.Time) (*Notification, error) {
	if message == "" {
		return nil, fmt.Errorf("notification message is required")
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid notification level: %s", level)
	}

	return &Notification{
		id:        newID(),
		message:   message,
		level:     level,
		createdAt: now.UTC(),
	}, nil
}

func newID() string {
	return "ntf_" + ksuid.New().String()
}

// --- Getters ---

func (n *Notification) ID() string           { return n.id }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) Level() Level         { return n.level }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) HideAt() time.Time    { return n.createdAt.Add(VisibleFor) }
func (n *Notification) ExpiresAt() time.Time { return n.createdAt.Add(RemoveAfter) }

// --- Behavior ---

// IsVisible reports whether the banner should still be shown at t.
func (n *Notification) IsVisible(t time.Time) bool {
	return t.Before(n.HideAt())
}

// IsExpired reports whether the notification can be discarded at t.
func (n *Notification) IsExpired(t time.Time) bool {
	return !t.Before(n.ExpiresAt())
}

package application

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/domain/notification"
)

// NotificationDTO is the response representation of a notification.
type NotificationDTO struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	HideAt    time.Time `json:"hide_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NotificationService owns the notification banner.
type NotificationService struct {
	mu     sync.Mutex
	items  []*notification.Notification
	hub    *EventHub
	logger *zap.Logger
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(hub *EventHub, logger *zap.Logger) *NotificationService {
	return &NotificationService{hub: hub, logger: logger, now: time.Now}
}

// Notify shows message as an error notification.
func (s *NotificationService) Notify(message string) NotificationDTO {
	return s.add(message, notification.LevelError)
}

// Info shows message as an informational notification.
func (s *NotificationService) Info(message string) NotificationDTO {
	return s.add(message, notification.LevelInfo)
}

func (s *NotificationService) add(message string, level notification.Level) NotificationDTO {
	now := s.now()
	n, err := notification.New(message, level, now)
	if err != nil {
		s.logger.Error("dropping invalid notification", zap.Error(err))
		return NotificationDTO{}
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.items = append(s.items, n)
	s.mu.Unlock()

	if level == notification.LevelError {
		s.logger.Warn("user notification", zap.String("id", n.ID()), zap.String("message", message))
	} else {
		s.logger.Info("user notification", zap.String("id", n.ID()), zap.String("message", message))
	}

	dto := toNotificationDTO(n, now)
	s.hub.Publish(EventNotification, dto)
	return dto
}

// Active returns the notifications that have not expired yet, oldest first.
func (s *NotificationService) Active() []NotificationDTO {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)

	out := make([]NotificationDTO, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, toNotificationDTO(n, now))
	}
	return out
}

// Recover turns a panic in the calling operation into a notification and
// an error. It must be deferred directly.
func (s *NotificationService) Recover(prefix string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	s.logger.Error("recovered panic in operation", zap.String("operation", prefix), zap.Any("panic", r))
	s.Notify(fmt.Sprintf("%s: %v", prefix, r))
	if errp != nil {
		*errp = fmt.Errorf("%s: %v", prefix, r)
	}
}

func (s *NotificationService) pruneLocked(now time.Time) {
	kept := s.items[:0]
	for _, n := range s.items {
		if !n.IsExpired(now) {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
}

func toNotificationDTO(n *notification.Notification, now time.Time) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID(),
		Message:   n.Message(),
		Level:     string(n.Level()),
		Visible:   n.IsVisible(now),
		CreatedAt: n.CreatedAt(),
		HideAt:    n.HideAt(),
		ExpiresAt: n.ExpiresAt(),
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/pkg/metrics"
)

// ErrNotificationNotFound indicates no matching notification for the user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService manages per-user in-app notifications.
type NotificationService struct {
	db    *gorm.DB
	clock func() time.Time
}

// NotificationServiceOption customises NotificationService construction.
type NotificationServiceOption func(*NotificationService)

// WithNotificationClock overrides the time source, used in tests.
func WithNotificationClock(clock func() time.Time) NotificationServiceOption {
	return func(s *NotificationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB, opts ...NotificationServiceOption) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service requires a database handle")
	}

	svc := &NotificationService{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create stores a notification for the receiver. Metadata is optional.
func (s *NotificationService) Create(ctx context.Context, receiverID, message string, metadata map[string]any) (*models.Notification, error) {
	return s.create(ensureContext(ctx), s.db, receiverID, message, metadata)
}

// CreateTx stores a notification using the caller's transaction.
func (s *NotificationService) CreateTx(ctx context.Context, tx *gorm.DB, receiverID, message string, metadata map[string]any) (*models.Notification, error) {
	if tx == nil {
		tx = s.db
	}
	return s.create(ensureContext(ctx), tx, receiverID, message, metadata)
}

func (s *NotificationService) create(ctx context.Context, db *gorm.DB, receiverID, message string, metadata map[string]any) (*models.Notification, error) {
	record := &models.Notification{
		ReceiverID: receiverID,
		Message:    message,
	}

	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("encode notification metadata: %w", err)
		}
		record.Metadata = datatypes.JSON(raw)
	}

	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	metrics.NotificationsSent.Inc()
	return record, nil
}

// ListForUser returns a user's notifications, newest first. When unreadOnly is
// set, read notifications are filtered out.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Where("receiver_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags a notification as read. Marking an already-read notification
// succeeds without changing its read timestamp.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	ctx = ensureContext(ctx)

	var record models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", notificationID, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}

	if record.IsRead {
		return nil
	}

	now := s.clock()
	return s.db.WithContext(ctx).Model(&record).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an in-app message delivered to a single user.
type Notification struct {
	BaseModel

	ReceiverID string         `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

package models

import "time"

// EmailVerificationToken is a single-use activation credential, looked up by
// (user id, token) pair.
type EmailVerificationToken struct {
	BaseModel

	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"not null;index" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
}

// PasswordResetToken is a single-use reset credential, looked up by token
// string alone.
type PasswordResetToken struct {
	BaseModel

	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
}

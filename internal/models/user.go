package models

// User is a login account. Accounts start inactive and are activated by
// redeeming an email verification token.
type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`

	IsActive bool `gorm:"default:false" json:"is_active"`
	IsAdmin  bool `gorm:"default:false" json:"is_admin"`

	Profile *CampusProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// CampusProfile carries the institutional identity owned 1:1 by a User.
type CampusProfile struct {
	BaseModel

	UserID   string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	RoleID   int    `gorm:"not null" json:"role_id"`
	FullName string `gorm:"not null" json:"full_name"`
	CampusID string `gorm:"not null" json:"campus_id"` // student or staff number
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
}

// CampusRole is seed data describing the campus population groups.
type CampusRole struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

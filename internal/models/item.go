package models

// ItemStatus enumerates the lifecycle states of a reported item.
type ItemStatus string

const (
	ItemStatusFound   ItemStatus = "Found"
	ItemStatusClaimed ItemStatus = "Claimed"
	ItemStatusLost    ItemStatus = "Lost"
)

// Valid reports whether the status is a member of the enum.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusFound, ItemStatusClaimed, ItemStatusLost:
		return true
	}
	return false
}

// Active returns the derived listing flag: an item is listed while Found.
func (s ItemStatus) Active() bool {
	return s == ItemStatusFound
}

// Item is a found object reported by a user.
type Item struct {
	BaseModel

	FoundBy     string     `gorm:"type:uuid;not null;index" json:"found_by"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"not null" json:"location"`
	Status      ItemStatus `gorm:"type:varchar(16);default:'Found';index" json:"status"`
	IsActive    bool       `gorm:"default:true;index" json:"is_active"`

	Images []ItemImage `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Finder *User       `gorm:"foreignKey:FoundBy" json:"finder,omitempty"`
}

// ItemImage stores one hosted photo URL for an item.
type ItemImage struct {
	BaseModel

	ItemID string `gorm:"type:uuid;not null;index" json:"item_id"`
	URL    string `gorm:"type:text;not null" json:"url"`
}

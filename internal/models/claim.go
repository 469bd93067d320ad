package models

// ClaimStatus enumerates adjudication states. Pending is the only state a
// claim can leave.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "Pending"
	ClaimStatusApproved ClaimStatus = "Approved"
	ClaimStatusRejected ClaimStatus = "Rejected"
)

// Valid reports whether the status is a member of the enum.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status is a legal adjudication outcome.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// Claim is a user's assertion of ownership over a reported item.
type Claim struct {
	BaseModel

	ItemID    string      `gorm:"type:uuid;not null;index" json:"item_id"`
	ClaimedBy string      `gorm:"type:uuid;not null;index" json:"claimed_by"`
	Details   string      `gorm:"type:text" json:"details"`
	Status    ClaimStatus `gorm:"type:varchar(16);default:'Pending';index" json:"status"`

	Images []ClaimImage `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Item   *Item        `gorm:"foreignKey:ItemID" json:"-"`
}

// ClaimImage stores one hosted proof photo URL for a claim.
type ClaimImage struct {
	BaseModel

	ClaimID string `gorm:"type:uuid;not null;index" json:"claim_id"`
	URL     string `gorm:"type:text;not null" json:"url"`
}

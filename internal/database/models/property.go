package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Moderation statuses for a property listing.
const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
)

// Property is an owner's listing. Status tracks moderation while IsPublished
// tracks visibility independently: unpublishing an approved property hides it
// but leaves status "approved". Published listings are always approved; the
// reverse does not hold.
type Property struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID       uuid.UUID  `gorm:"type:uuid;index" json:"owner_id"`
	Title         string     `gorm:"not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex" json:"slug"`
	Location      string     `json:"location"`
	Sleeps        int        `json:"sleeps"`
	PricePerNight float64    `json:"price_per_night"`
	Status        string     `gorm:"default:'pending';index" json:"status"` // pending, approved, rejected
	IsPublished   bool       `gorm:"default:false;index" json:"is_published"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Property) TableName() string {
	return "properties"
}

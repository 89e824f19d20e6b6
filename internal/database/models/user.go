package models

// User roles
const (
	RoleGuest = "guest"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Payment statuses a user account can carry. "paid" and "active" both count
// as an active membership.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusActive  = "active"
	PaymentStatusFailed  = "failed"
)

type User struct {
	Base
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	Role          string `gorm:"default:'guest';index" json:"role"` // guest, owner, admin
	Phone         string `gorm:"column:phone" json:"phone,omitempty"`

	// Owner membership fields
	PlanID          string `gorm:"column:plan_id" json:"plan_id,omitempty"` // bronze/silver/gold (aliases: basic/premium/professional)
	PaymentStatus   string `gorm:"column:payment_status;default:'pending'" json:"payment_status"`
	PropertyName    string `gorm:"column:company_name" json:"property_name,omitempty"`
	PropertyWebsite string `gorm:"column:property_website" json:"property_website,omitempty"`

	// Relationships
	Accounts []Account `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

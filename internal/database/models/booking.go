package models

import "time"

// Booking statuses
const (
	BookingStatusEnquiry   = "enquiry"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking records a stay enquiry or confirmed reservation. Creation happens
// through the public enquiry flow; the admin dashboard only counts rows.
type Booking struct {
	Base
	PropertyID uint      `gorm:"index" json:"property_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	GroupSize  int       `json:"group_size"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Status     string    `gorm:"default:'enquiry'" json:"status"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

package models

import "github.com/google/uuid"

// Payment is a membership charge recorded from the payment provider. Status
// strings arrive as-is from the provider; commission and net revenue are
// derived at read time and never stored.
type Payment struct {
	Base
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `gorm:"default:'GBP'" json:"currency"`
	Status        string    `gorm:"index" json:"status"`
	Plan          string    `json:"plan"`
	PaymentType   string    `json:"payment_type"`
	ProviderTxnID string    `gorm:"index" json:"provider_txn_id"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

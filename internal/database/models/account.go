package models

import "github.com/google/uuid"

// ProviderCredential marks accounts created through email+password sign-up.
const ProviderCredential = "credential"

// Account links a user to a sign-in provider. For the credential provider it
// holds the password hash; a user without a credential account cannot sign in
// with email and password.
type Account struct {
	Base
	AccountID  string    `gorm:"not null" json:"account_id"`
	ProviderID string    `gorm:"not null;index" json:"provider_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Password   string    `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

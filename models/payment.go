package models

import (
	"time"
)

// Payment tracks one online payment attempt for an order.
type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	Provider    string     `gorm:"type:varchar(30);not null" json:"provider"`
	Reference   string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	Amount      int64      `gorm:"not null" json:"amount"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Token       string     `gorm:"type:varchar(255)" json:"token,omitempty"`
	RedirectURL string     `gorm:"type:varchar(500)" json:"redirect_url,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

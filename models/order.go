package models

import (
	"fmt"
	"time"
)

// Order statuses.
const (
	OrderPending    = "PENDENTE"
	OrderPreparing  = "PREPARANDO"
	OrderReady      = "PRONTO"
	OrderInDelivery = "EM_ENTREGA"
	OrderDelivered  = "ENTREGUE"
	OrderCancelled  = "CANCELADO"
)

// Delivery types.
const (
	DeliveryTypeDelivery = "ENTREGA"
	DeliveryTypePickup   = "RETIRADA"
)

// Payment methods.
const (
	PaymentCash   = "dinheiro"
	PaymentPix    = "pix"
	PaymentOnline = "online"
)

// Payment statuses, shared by Order and Payment.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
	PaymentStatusNotNeeded = "not_required"
)

type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	CustomerName  string       `gorm:"type:varchar(120);not null" json:"customer_name"`
	Phone         string       `gorm:"type:varchar(30);not null" json:"phone"`
	Address       string       `gorm:"type:varchar(255)" json:"address"`
	DeliveryType  string       `gorm:"type:varchar(20);not null;default:'ENTREGA'" json:"delivery_type"`
	Notes         string       `gorm:"type:text" json:"notes"`
	Status        string       `gorm:"type:varchar(20);not null;default:'PENDENTE';index" json:"status"`
	PaymentMethod string       `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus string       `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentRef    string       `gorm:"type:varchar(100);index" json:"payment_reference,omitempty"`
	PaymentURL    string       `gorm:"type:varchar(500)" json:"payment_url,omitempty"`
	Total         int64        `gorm:"not null;default:0" json:"total"`
	Items         []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Extras        []OrderExtra `gorm:"foreignKey:OrderID" json:"extras,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// PaymentReference is the id sent to the payment provider for the given
// attempt. Providers refuse to reuse an id, so retries get a suffix.
func (o *Order) PaymentReference(attempt int) string {
	if attempt <= 1 {
		return fmt.Sprintf("BURGER-%d", o.ID)
	}
	return fmt.Sprintf("BURGER-%d-%d", o.ID, attempt)
}

// Terminal reports whether no further status change is expected.
func (o *Order) Terminal() bool {
	return o.Status == OrderDelivered || o.Status == OrderCancelled
}

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderPreparing, OrderReady, OrderInDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentPix, PaymentOnline:
		return true
	}
	return false
}

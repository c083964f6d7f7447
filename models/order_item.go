package models

import (
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/builder"
)

// OrderItem is one composed burger of an order.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	Position  int             `gorm:"not null" json:"position"`
	Layers    []builder.Layer `gorm:"type:text;serializer:json" json:"layers"`
	Subtotal  int64           `gorm:"not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderExtra is a combo extra attached to an order at checkout.
type OrderExtra struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ExtraSlug string    `gorm:"type:varchar(80);not null" json:"extra_id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

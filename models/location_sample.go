package models

import "time"

// LocationSample is an append-only position report from the rider.
type LocationSample struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DeliveryID uint      `gorm:"not null;index:idx_sample_delivery_created,priority:1" json:"delivery_id"`
	Latitude   float64   `gorm:"not null" json:"latitude"`
	Longitude  float64   `gorm:"not null" json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	Heading    *float64  `json:"heading,omitempty"`
	CreatedAt  time.Time `gorm:"index:idx_sample_delivery_created,priority:2" json:"created_at"`
}

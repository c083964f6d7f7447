package models

import (
	"strings"
	"time"
)

// Delivery statuses, in the only order they may advance.
const (
	DeliveryAwaiting  = "AGUARDANDO"
	DeliveryEnRoute   = "A_CAMINHO"
	DeliveryArriving  = "CHEGANDO"
	DeliveryDelivered = "ENTREGUE"
)

var deliveryRank = map[string]int{
	DeliveryAwaiting:  0,
	DeliveryEnRoute:   1,
	DeliveryArriving:  2,
	DeliveryDelivered: 3,
}

var deliveryAliases = map[string]string{
	"AWAITING":  DeliveryAwaiting,
	"EN_ROUTE":  DeliveryEnRoute,
	"ARRIVING":  DeliveryArriving,
	"DELIVERED": DeliveryDelivered,
}

// ParseDeliveryStatus accepts the stored values and their English names.
func ParseDeliveryStatus(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if _, ok := deliveryRank[s]; ok {
		return s, true
	}
	if v, ok := deliveryAliases[s]; ok {
		return v, true
	}
	return "", false
}

// DeliveryRank orders statuses; unknown statuses rank -1.
func DeliveryRank(status string) int {
	if r, ok := deliveryRank[status]; ok {
		return r
	}
	return -1
}

type Delivery struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Token          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	OrderID        uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	Order          *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'AGUARDANDO';index" json:"status"`
	LastLatitude   *float64   `json:"last_latitude,omitempty"`
	LastLongitude  *float64   `json:"last_longitude,omitempty"`
	LastLocationAt *time.Time `json:"last_location_at,omitempty"`
	RiderName      string     `gorm:"type:varchar(120)" json:"rider_name"`
	RiderPhone     string     `gorm:"type:varchar(30)" json:"rider_phone"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (d *Delivery) Finished() bool {
	return d.Status == DeliveryDelivered
}

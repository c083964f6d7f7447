package models

import "time"

// Ingredient is a persisted option of one builder step.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Step      string    `gorm:"type:varchar(30);not null;index" json:"step"`
	Slug      string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Price     int64     `gorm:"not null;default:0" json:"price"`
	Image     string    `gorm:"type:varchar(255)" json:"image"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Extra is a persisted combo extra.
type Extra struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Price     int64     `gorm:"not null;default:0" json:"price"`
	Image     string    `gorm:"type:varchar(255)" json:"image"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

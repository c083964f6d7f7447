package models

import "time"

// Staff roles.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleKitchen = "KITCHEN"
	RoleMotoboy = "MOTOBOY"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleKitchen, RoleMotoboy:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package database

import (
	"errors"
	"fmt"

	"github.com/Garciabraganca/COSTABURGUER-sub001/builder"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service uses.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Extra{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderExtra{},
		&models.Payment{},
		&models.Delivery{},
		&models.LocationSample{},
		&models.PushSubscription{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedCatalog fills the ingredient and extra tables from the built-in catalog
// when they are empty.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Ingredient{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	catalog := builder.DefaultCatalog()
	return db.Transaction(func(tx *gorm.DB) error {
		for _, step := range catalog.Steps {
			for i, opt := range step.Options {
				ing := models.Ingredient{
					Step:     string(step.ID),
					Slug:     opt.ID,
					Name:     opt.Name,
					Price:    int64(opt.Price),
					Image:    opt.Image,
					Position: i,
					Active:   true,
				}
				if err := tx.Create(&ing).Error; err != nil {
					return err
				}
			}
		}
		for i, e := range catalog.Extras {
			extra := models.Extra{
				Slug:     e.ID,
				Name:     e.Name,
				Price:    int64(e.Price),
				Image:    e.Image,
				Position: i,
				Active:   true,
			}
			if err := tx.Create(&extra).Error; err != nil {
				return err
			}
		}
		utils.InfoLogger.Printf("Seeded catalog with %d steps and %d extras", len(catalog.Steps), len(catalog.Extras))
		return nil
	})
}

// SeedAdmin creates the first ADMIN account if no user with that email exists.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrador",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin user %s", email)
	return nil
}

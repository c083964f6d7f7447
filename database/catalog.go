package database

import (
	"context"

	"github.com/Garciabraganca/COSTABURGUER-sub001/builder"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"gorm.io/gorm"
)

// LoadCatalog builds the builder catalog from the active ingredients and
// extras. Steps keep their fixed order. Without a database, or when no
// ingredients are stored, the built-in catalog is returned.
func LoadCatalog(ctx context.Context, db *gorm.DB) (builder.Catalog, error) {
	if db == nil {
		return builder.DefaultCatalog(), nil
	}

	var ingredients []models.Ingredient
	if err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("position asc, id asc").
		Find(&ingredients).Error; err != nil {
		return builder.Catalog{}, err
	}
	if len(ingredients) == 0 {
		return builder.DefaultCatalog(), nil
	}

	var extras []models.Extra
	if err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("position asc, id asc").
		Find(&extras).Error; err != nil {
		return builder.Catalog{}, err
	}

	byStep := make(map[builder.StepID][]builder.Option)
	for _, ing := range ingredients {
		id := builder.StepID(ing.Step)
		byStep[id] = append(byStep[id], builder.Option{
			ID:    ing.Slug,
			Name:  ing.Name,
			Price: builder.Money(ing.Price),
			Image: ing.Image,
		})
	}

	var catalog builder.Catalog
	for _, id := range builder.StepOrder {
		options, ok := byStep[id]
		if !ok {
			utils.InfoLogger.Warnf("catalog step %s has no active ingredients", id)
			continue
		}
		label, subtitle := builder.StepLabels(id)
		catalog.Steps = append(catalog.Steps, builder.Step{
			ID:       id,
			Label:    label,
			Subtitle: subtitle,
			Options:  options,
		})
	}
	for _, e := range extras {
		catalog.Extras = append(catalog.Extras, builder.ComboExtra{
			ID:    e.Slug,
			Name:  e.Name,
			Price: builder.Money(e.Price),
			Image: e.Image,
		})
	}
	return catalog, nil
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Garciabraganca/COSTABURGUER-sub001/builder"
	"github.com/Garciabraganca/COSTABURGUER-sub001/database"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

// GetCatalog serves the builder steps and combo extras. Without a database
// the built-in catalog is served.
func (cc *CatalogController) GetCatalog(c *gin.Context) {
	catalog, err := database.LoadCatalog(c.Request.Context(), cc.DB)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Catalog", catalog)
}

type catalogItemRequest struct {
	Step     *string `json:"step"`
	Slug     *string `json:"slug"`
	Name     *string `json:"name"`
	Price    *int64  `json:"price"`
	Image    *string `json:"image"`
	Position *int    `json:"position"`
	Active   *bool   `json:"active"`
}

// updates validates the request and returns the columns to write.
func (r catalogItemRequest) updates(withStep bool) (map[string]interface{}, error) {
	u := make(map[string]interface{})
	if withStep && r.Step != nil {
		step := builder.StepID(strings.ToLower(strings.TrimSpace(*r.Step)))
		if !knownStep(step) {
			return nil, utils.NewError(utils.KindValidation, "unknown step %q", *r.Step)
		}
		u["step"] = string(step)
	}
	if r.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*r.Slug))
		if slug == "" {
			return nil, utils.NewError(utils.KindValidation, "slug cannot be empty")
		}
		u["slug"] = slug
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, utils.NewError(utils.KindValidation, "name cannot be empty")
		}
		u["name"] = name
	}
	if r.Price != nil {
		if *r.Price < 0 {
			return nil, utils.NewError(utils.KindValidation, "price cannot be negative")
		}
		u["price"] = *r.Price
	}
	if r.Image != nil {
		u["image"] = strings.TrimSpace(*r.Image)
	}
	if r.Position != nil {
		u["position"] = *r.Position
	}
	if r.Active != nil {
		u["active"] = *r.Active
	}
	return u, nil
}

func knownStep(id builder.StepID) bool {
	for _, s := range builder.StepOrder {
		if s == id {
			return true
		}
	}
	return false
}

func (cc *CatalogController) ListIngredients(c *gin.Context) {
	if cc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	query := cc.DB.Order("step asc, position asc, id asc")
	if step := c.Query("step"); step != "" {
		query = query.Where("step = ?", step)
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", ingredients)
}

func (cc *CatalogController) CreateIngredient(c *gin.Context) {
	if cc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	var req catalogItemRequest
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	if req.Step == nil || req.Slug == nil || req.Name == nil {
		utils.RespondFailure(c, utils.NewError(utils.KindValidation, "step, slug and name are required"))
		return
	}
	fields, err := req.updates(true)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	ingredient := models.Ingredient{
		Step:   fields["step"].(string),
		Slug:   fields["slug"].(string),
		Name:   fields["name"].(string),
		Active: true,
	}
	if req.Price != nil {
		ingredient.Price = *req.Price
	}
	if req.Image != nil {
		ingredient.Image = strings.TrimSpace(*req.Image)
	}
	if req.Position != nil {
		ingredient.Position = *req.Position
	}
	if err := createCatalogItem(cc.DB, &ingredient, fields); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	cc.DB.First(&ingredient, ingredient.ID)

	utils.InfoLogger.Printf("Ingredient %s created in step %s", ingredient.Slug, ingredient.Step)
	utils.RespondJSON(c, http.StatusCreated, "Ingredient created", ingredient)
}

func (cc *CatalogController) UpdateIngredient(c *gin.Context) {
	var ingredient models.Ingredient
	cc.updateCatalogItem(c, &ingredient, true, "Ingredient updated")
}

func (cc *CatalogController) DeleteIngredient(c *gin.Context) {
	cc.deleteCatalogItem(c, &models.Ingredient{}, "Ingredient deleted")
}

func (cc *CatalogController) ListExtras(c *gin.Context) {
	if cc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	var extras []models.Extra
	if err := cc.DB.Order("position asc, id asc").Find(&extras).Error; err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of extras", extras)
}

func (cc *CatalogController) CreateExtra(c *gin.Context) {
	if cc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	var req catalogItemRequest
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	if req.Slug == nil || req.Name == nil {
		utils.RespondFailure(c, utils.NewError(utils.KindValidation, "slug and name are required"))
		return
	}
	fields, err := req.updates(false)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	extra := models.Extra{
		Slug:   fields["slug"].(string),
		Name:   fields["name"].(string),
		Active: true,
	}
	if req.Price != nil {
		extra.Price = *req.Price
	}
	if req.Image != nil {
		extra.Image = strings.TrimSpace(*req.Image)
	}
	if req.Position != nil {
		extra.Position = *req.Position
	}
	if err := createCatalogItem(cc.DB, &extra, fields); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	cc.DB.First(&extra, extra.ID)

	utils.InfoLogger.Printf("Extra %s created", extra.Slug)
	utils.RespondJSON(c, http.StatusCreated, "Extra created", extra)
}

func (cc *CatalogController) UpdateExtra(c *gin.Context) {
	var extra models.Extra
	cc.updateCatalogItem(c, &extra, false, "Extra updated")
}

func (cc *CatalogController) DeleteExtra(c *gin.Context) {
	cc.deleteCatalogItem(c, &models.Extra{}, "Extra deleted")
}

// createCatalogItem inserts the row. GORM skips zero values that have a column
// default, so an inactive item is switched off after the insert.
func createCatalogItem(db *gorm.DB, item interface{}, fields map[string]interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewError(utils.KindConflict, "slug already exists")
			}
			return err
		}
		if active, ok := fields["active"].(bool); ok && !active {
			return tx.Model(item).Update("active", false).Error
		}
		return nil
	})
}

func (cc *CatalogController) updateCatalogItem(c *gin.Context, item interface{}, withStep bool, message string) {
	if cc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	var req catalogItemRequest
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	fields, err := req.updates(withStep)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	if err := cc.DB.First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondFailure(c, utils.NewError(utils.KindNotFound, "catalog item not found"))
			return
		}
		utils.RespondFailure(c, err)
		return
	}
	if len(fields) > 0 {
		if err := cc.DB.Model(item).Updates(fields).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				utils.RespondFailure(c, utils.NewError(utils.KindConflict, "slug already exists"))
				return
			}
			utils.RespondFailure(c, err)
			return
		}
	}
	cc.DB.First(item, id)
	utils.RespondJSON(c, http.StatusOK, message, item)
}

func (cc *CatalogController) deleteCatalogItem(c *gin.Context, item interface{}, message string) {
	if cc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	res := cc.DB.Delete(item, id)
	if res.Error != nil {
		utils.RespondFailure(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondFailure(c, utils.NewError(utils.KindNotFound, "catalog item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, nil)
}

package controllers

import (
	"strconv"

	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, utils.NewError(utils.KindValidation, "invalid %s", name)
	}
	return uint(id), nil
}

// bindJSON binds the request body and reports failures as validation errors.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return utils.Wrap(utils.KindValidation, err, "invalid request body")
	}
	return nil
}

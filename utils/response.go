package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Error   ErrorKind   `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes err with an explicit status code.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Error:   KindOf(err),
	})
}

// RespondFailure derives the status code from the error kind. Internal errors
// are logged and reported with a generic message.
func RespondFailure(c *gin.Context, err error) {
	if KindOf(err) == KindInternal {
		ErrorLogger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, JSONResponse{Status: false, Message: "internal error", Error: KindInternal})
		return
	}
	RespondError(c, StatusCode(err), err)
}

package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONAppError renders a service error with its taxonomy kind and the
// matching status code.
func JSONAppError(c *gin.Context, err error) {
	msg := err.Error()
	var ae *AppError
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	c.JSON(HTTPStatus(err), gin.H{
		"success": false,
		"kind":    string(KindOf(err)),
		"error":   msg,
	})
}

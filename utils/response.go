package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONPage sends a listing response with its pagination block next to the data
func JSONPage(c *gin.Context, status int, data any, pagination any, message string) {
	c.JSON(status, gin.H{
		"status":     status,
		"message":    message,
		"data":       data,
		"pagination": pagination,
	})
}

// JSONError sends a structured error response. reason is the message meant for end users.
func JSONError(c *gin.Context, status int, err error, reason string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": reason,
		"error":   err.Error(),
	})
}

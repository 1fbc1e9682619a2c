package api

import (
	"github.com/gin-gonic/gin"
)

// Every /api response uses the {success, data} envelope so callers can
// normalize failures to an empty collection without inspecting status codes.

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and the configured receipt store
func Health(appName, storeDriver string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"service":      appName,
			"store_driver": storeDriver,
		})
	}
}

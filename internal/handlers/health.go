package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health reports process liveness and database reachability.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		status := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(requestContext(c))
			}
			if err != nil {
				dbStatus = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, gin.H{
			"success": status == http.StatusOK,
			"status":  "ok",
			"db":      dbStatus,
		})
	}
}

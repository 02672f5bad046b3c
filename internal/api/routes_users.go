package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/handlers"
)

func registerUserRoutes(api *gin.RouterGroup, db *gorm.DB, requireAuth gin.HandlerFunc) error {
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return err
	}

	api.POST("/sync-user", requireAuth, userHandler.Sync)
	return nil
}

package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/handlers"
)

func registerEventRoutes(api *gin.RouterGroup, db *gorm.DB, requireAuth gin.HandlerFunc) error {
	eventHandler, err := handlers.NewEventHandler(db)
	if err != nil {
		return err
	}

	events := api.Group("/events")
	{
		// Browsing the catalogue is public; mutating it requires a session.
		events.GET("", eventHandler.List)
		events.GET("/:id", eventHandler.Get)
		events.POST("", requireAuth, eventHandler.Create)
		events.PUT("/:id", requireAuth, eventHandler.Update)
		events.DELETE("/:id", requireAuth, eventHandler.Delete)
	}
	return nil
}

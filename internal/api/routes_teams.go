package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/handlers"
)

func registerTeamRoutes(api *gin.RouterGroup, db *gorm.DB, requireAuth gin.HandlerFunc) error {
	teamHandler, err := handlers.NewTeamHandler(db)
	if err != nil {
		return err
	}
	invitationHandler, err := handlers.NewInvitationHandler(db)
	if err != nil {
		return err
	}
	joinRequestHandler, err := handlers.NewJoinRequestHandler(db)
	if err != nil {
		return err
	}

	teams := api.Group("/teams")
	{
		teams.GET("/available", teamHandler.ListAvailable)
		teams.GET("/:id", teamHandler.Get)

		authed := teams.Group("")
		authed.Use(requireAuth)
		{
			authed.POST("/create", teamHandler.Create)
			authed.GET("/my", teamHandler.ListMine)
			authed.PUT("/:id", teamHandler.Update)
			authed.DELETE("/:id", teamHandler.Delete)

			authed.POST("/invite", invitationHandler.Invite)
			authed.GET("/invitations", invitationHandler.ListPending)
			authed.POST("/invitations/respond", invitationHandler.Respond)

			authed.POST("/request-join", joinRequestHandler.Request)
			authed.GET("/pending-request", joinRequestHandler.ListPending)
			authed.POST("/respond", joinRequestHandler.Respond)
		}
	}

	return nil
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/controllers"
	"github.com/sabelo-news/api-go/middleware"
	"github.com/sabelo-news/api-go/models"
)

func SetupAdRoutes(public, protected *gin.RouterGroup, adController *controllers.AdController) {
	public.GET("/ads", adController.ListAds)

	ads := protected.Group("/ads")
	ads.Use(middleware.RequireRole(models.RoleMarketing, models.RoleAdmin))
	{
		ads.POST("", adController.CreateAd)
		ads.DELETE("/:id", adController.DeleteAd)
	}
}

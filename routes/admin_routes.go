package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/controllers"
)

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController) {
	users := admin.Group("/users")
	{
		users.GET("", adminController.ListUsers)
		users.PATCH("/:id/roles", adminController.UpdateUserRoles)
		users.DELETE("/:id", adminController.DeleteUser)
	}

	news := admin.Group("/news")
	{
		news.GET("", adminController.ListAllNews)
		news.DELETE("/:id", adminController.DeleteNews)
	}
}

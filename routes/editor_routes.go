package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/controllers"
)

func SetupEditorRoutes(editor *gin.RouterGroup, newsController *controllers.NewsController, commentController *controllers.CommentController) {
	editor.GET("/dashboard", newsController.Dashboard)

	news := editor.Group("/news")
	{
		news.POST("", newsController.CreateNews)
		news.GET("", newsController.ListMyNews)
		news.GET("/:id", newsController.GetMyNews)
		news.PUT("/:id", newsController.UpdateNews)
		news.DELETE("/:id", newsController.DeleteNews)
	}

	comments := editor.Group("/comments")
	{
		comments.GET("", commentController.ListMyComments)
		comments.DELETE("/:id", commentController.DeleteComment)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/controllers"
)

func SetupNewsRoutes(public, protected *gin.RouterGroup, newsController *controllers.NewsController, commentController *controllers.CommentController) {
	news := public.Group("/news")
	{
		news.GET("", newsController.ListNews)
		news.GET("/:id", newsController.GetNewsDetail)
		news.GET("/:id/comments", commentController.GetComments)
		// Live comment forest as server-sent events
		news.GET("/:id/comments/stream", commentController.StreamComments)
	}

	protected.POST("/news/:id/comments", commentController.PostComment)
	protected.POST("/comments/:id/like", commentController.LikeComment)
}

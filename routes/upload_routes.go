package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/upload")
	{
		// Presigned PUT URL for a news, ad or avatar image
		upload.POST("/presigned-url", uploadController.GetPresignedURL)

		// Confirm upload completion
		upload.POST("/confirm", uploadController.ConfirmUpload)

		// Keys contain slashes
		upload.DELETE("/file/*key", uploadController.DeleteFile)
	}
}

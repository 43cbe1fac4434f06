package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/controllers"
	"github.com/sabelo-news/api-go/middleware"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/thread"
	"gorm.io/gorm"
)

// SetupRoutes wires every endpoint. users resolves the account behind a
// token on each authenticated request.
func SetupRoutes(r *gin.Engine, db *gorm.DB, users middleware.UserLoader, comments *thread.Service, articles controllers.ArticleSource) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	newsController := controllers.NewNewsController(db, articles, comments)
	commentController := controllers.NewCommentController(db, comments)
	adController := controllers.NewAdController(db)
	adminController := controllers.NewAdminController(db)
	uploadController := controllers.NewUploadController()
	validationController := controllers.NewValidationController(db)

	// Public routes
	public := r.Group("/api")
	public.Use(middleware.OptionalAuth(users))
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/google", authController.GoogleLogin)
		public.POST("/refresh-token", authController.RefreshToken)

		SetupValidationRoutes(public, validationController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(users))
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		SetupUploadRoutes(protected, uploadController)
	}

	SetupNewsRoutes(public, protected, newsController, commentController)
	SetupAdRoutes(public, protected, adController)

	editor := protected.Group("/editor")
	editor.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
	SetupEditorRoutes(editor, newsController, commentController)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	SetupAdminRoutes(admin, adminController)
}

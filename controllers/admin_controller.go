package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/store"
	"github.com/sabelo-news/api-go/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	page, size := pageParams(c, 20)
	query := ac.DB.WithContext(c.Request.Context()).Model(&models.User{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users", "success": false})
		return
	}

	users := []models.User{}
	if err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       users,
		Pagination: newPagination(page, size, total),
	})
}

func (ac *AdminController) findUser(c *gin.Context) *models.User {
	id := c.Param("id")
	var user models.User
	if !isUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return nil
	}
	err := ac.DB.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user", "success": false})
		return nil
	}
	return &user
}

// UpdateUserRoles switches the role flags present in the body and leaves
// the others alone. Admins cannot drop their own admin flag.
func (ac *AdminController) UpdateUserRoles(c *gin.Context) {
	var input struct {
		Admin     *bool `json:"admin"`
		Editor    *bool `json:"editor"`
		Marketing *bool `json:"marketing"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := ac.findUser(c)
	if user == nil {
		return
	}
	if input.Admin != nil && !*input.Admin && user.ID == utils.GetUser(c).UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot remove your own admin role", "success": false})
		return
	}

	updates := map[string]interface{}{}
	if input.Admin != nil {
		updates["admin"] = *input.Admin
		user.Admin = *input.Admin
	}
	if input.Editor != nil {
		updates["editor"] = *input.Editor
		user.Editor = *input.Editor
	}
	if input.Marketing != nil {
		updates["marketing"] = *input.Marketing
		user.Marketing = *input.Marketing
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No roles to update", "success": false})
		return
	}

	if err := ac.DB.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roles", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"id": user.ID, "roles": user.Roles()},
		Message: "Roles updated successfully",
	})
}

func (ac *AdminController) DeleteUser(c *gin.Context) {
	user := ac.findUser(c)
	if user == nil {
		return
	}
	if user.ID == utils.GetUser(c).UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account", "success": false})
		return
	}

	// Refresh tokens go with the user; comments keep their author name.
	if err := ac.DB.WithContext(c.Request.Context()).Select("RefreshTokens").Delete(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "User deleted successfully"})
}

func (ac *AdminController) ListAllNews(c *gin.Context) {
	page, size := pageParams(c, 20)
	query := ac.DB.WithContext(c.Request.Context()).Model(&models.News{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news", "success": false})
		return
	}

	news := []models.News{}
	if err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&news).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       news,
		Pagination: newPagination(page, size, total),
	})
}

func (ac *AdminController) DeleteNews(c *gin.Context) {
	id := c.Param("id")
	err := store.DeleteNews(c.Request.Context(), ac.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found", "success": false})
		return
	}
	if err != nil {
		log.Printf("admin: delete news %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete news", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "News deleted successfully"})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/models"
	"gorm.io/gorm"
)

type AdController struct {
	DB *gorm.DB
}

func NewAdController(db *gorm.DB) *AdController {
	return &AdController{DB: db}
}

func (ac *AdController) ListAds(c *gin.Context) {
	ads := []models.Ad{}
	if err := ac.DB.WithContext(c.Request.Context()).Order("created_at DESC").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ads", "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: ads})
}

func (ac *AdController) CreateAd(c *gin.Context) {
	var input struct {
		Link  string `json:"link" binding:"required,url"`
		Image string `json:"image" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ad := models.Ad{Link: input.Link, Image: input.Image}
	if err := ac.DB.WithContext(c.Request.Context()).Create(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ad", "success": false})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: ad, Message: "Ad created successfully"})
}

func (ac *AdController) DeleteAd(c *gin.Context) {
	id := c.Param("id")
	if !isUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found", "success": false})
		return
	}

	result := ac.DB.WithContext(c.Request.Context()).Delete(&models.Ad{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ad", "success": false})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Ad deleted successfully"})
}

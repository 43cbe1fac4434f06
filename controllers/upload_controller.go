package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sabelo-news/api-go/config"
	"github.com/sabelo-news/api-go/models"
	"github.com/sabelo-news/api-go/storage"
	"github.com/sabelo-news/api-go/utils"
)

type UploadController struct {
	Images *storage.Images
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=news ad avatar"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadCompleteRequest struct {
	Key string `json:"key" binding:"required"`
}

func NewUploadController() *UploadController {
	return &UploadController{Images: storage.NewImages(config.GetR2Config())}
}

// uploadRoles lists who may upload each kind of image; nil means any
// signed-in user.
var uploadRoles = map[string][]string{
	storage.KindNews: {models.RoleEditor, models.RoleAdmin},
	storage.KindAd:   {models.RoleMarketing, models.RoleAdmin},
}

func canUpload(user *utils.UserClaims, kind string) bool {
	roles, ok := uploadRoles[kind]
	if !ok {
		return user != nil
	}
	return user.HasRole(roles...)
}

func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	var req PresignedURLRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !canUpload(user, req.Kind) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions for this upload"})
		return
	}

	if err := storage.ValidateImage(req.Kind, req.ContentType, req.FileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := storage.Key(req.Kind, user.UserID, req.FileName, time.Now())

	uploadURL, err := uc.Images.PresignPut(c.Request.Context(), key, req.ContentType)
	if err != nil {
		log.Printf("upload: presign %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: uploadURL,
			FileURL:   uc.Images.URL(key),
			Key:       key,
			ExpiresIn: int(storage.PresignExpiry.Seconds()),
		},
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload checks that the client finished its upload and returns the
// public URL to store on the news, ad or profile.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	user := utils.GetUser(c)
	var req UploadCompleteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !storage.OwnedBy(req.Key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	exists, err := uc.Images.Exists(c.Request.Context(), req.Key)
	if err != nil {
		log.Printf("upload: head %s: %v", req.Key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify file upload"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found in storage"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":        req.Key,
			"fileUrl":    uc.Images.URL(req.Key),
			"uploadedBy": user.UserID,
		},
		Message: "Upload confirmed successfully",
	})
}

func (uc *UploadController) DeleteFile(c *gin.Context) {
	user := utils.GetUser(c)
	key := strings.TrimPrefix(c.Param("key"), "/")

	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File key is required"})
		return
	}

	if !storage.OwnedBy(key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := uc.Images.Delete(c.Request.Context(), key); err != nil {
		log.Printf("upload: delete %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "File deleted successfully",
	})
}

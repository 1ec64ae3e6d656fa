// File: handlers/storage.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mauryaelectronics/services/complaint"
	"mauryaelectronics/services/storage"
	"mauryaelectronics/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageHandler proxies multipart media uploads to the object store and
// records the resulting URL against a complaint.
type StorageHandler struct {
	Storage storage.StorageService
	Svc     complaint.ComplaintService
}

// NewStorageHandler creates a new StorageHandler.
func NewStorageHandler(storageSvc storage.StorageService, svc complaint.ComplaintService) *StorageHandler {
	return &StorageHandler{Storage: storageSvc, Svc: svc}
}

// UploadMediaHandler accepts a multipart file, stores it under the complaint
// media folder and appends a media row to the complaint.
func (h *StorageHandler) UploadMediaHandler(c *gin.Context) {
	complaintID := c.PostForm("complaint_id")
	if complaintID == "" {
		utils.JSONError(c, http.StatusBadRequest, "complaint_id required", "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "no file uploaded", err.Error())
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer upload", "details": err.Error()})
		return
	}
	defer os.Remove(tmpPath)

	folder := c.PostForm("folder")
	if folder == "" {
		folder = "complaint_media"
	}

	result, err := h.Storage.UploadFile(c.Request.Context(), tmpPath, folder)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed", "details": err.Error()})
		return
	}

	mediaType := c.PostForm("media_type")
	if mediaType == "" && strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "video/") {
		mediaType = "video"
	}

	saved, err := h.Svc.AttachMedia(c.Request.Context(), complaintID, complaint.MediaInput{
		MediaType:        mediaType,
		MediaURL:         result.SecureURL,
		ProviderResponse: result.Raw,
	})
	if err != nil {
		// The file already landed in storage; remove it so a failed attach
		// leaves no orphaned upload behind.
		if derr := h.Storage.DeleteFile(c.Request.Context(), result.PublicID); derr != nil {
			utils.GetLogger().Warn("orphaned upload cleanup failed",
				zap.String("publicId", result.PublicID), zap.Error(derr))
		}
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "media": saved})
}

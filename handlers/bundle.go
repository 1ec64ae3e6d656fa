// File: handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler so route registration takes one
// assembled dependency instead of a dozen.
type HandlerBundle struct {
	// Auth endpoints.
	LoginHandler gin.HandlerFunc

	// Complaint endpoints.
	CreateComplaintHandler gin.HandlerFunc
	CreateBatchHandler     gin.HandlerFunc
	GetComplaintHandler    gin.HandlerFunc
	ListComplaintsHandler  gin.HandlerFunc
	UpdateComplaintHandler gin.HandlerFunc
	ChangeStatusHandler    gin.HandlerFunc
	DeleteComplaintHandler gin.HandlerFunc

	// Media upload endpoints.
	UploadMediaHandler gin.HandlerFunc
}

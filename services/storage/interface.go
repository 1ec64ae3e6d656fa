package storage

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
)

// UploadResult carries what the provider returned for one stored file.
type UploadResult struct {
	PublicID     string
	SecureURL    string
	ResourceType string
	Raw          map[string]interface{}
}

// StorageService abstracts the binary object store holding complaint media.
type StorageService interface {
	// UploadFile stores the file at localFilePath under destFolder and returns
	// the provider's result, including the permanent URL.
	UploadFile(ctx context.Context, localFilePath, destFolder string) (*UploadResult, error)
	// DeleteFile removes a stored file by its public ID.
	DeleteFile(ctx context.Context, publicID string) error
}

// StorageServiceImpl is the Cloudinary-backed implementation.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

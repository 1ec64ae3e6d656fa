package complaintRepo

import (
	"context"
	"errors"
	"time"

	"mauryaelectronics/database"
	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors the service layer maps onto its own taxonomy.
var (
	// ErrNotFound means the complaint document does not exist.
	ErrNotFound = errors.New("complaint not found")
	// ErrStaleStatus means a conditional status update matched the id but not
	// the expected prior status: another writer got there first.
	ErrStaleStatus = errors.New("complaint status changed concurrently")
)

// ListFilter narrows List results.
type ListFilter struct {
	Status       string
	TechnicianID string
	Start        *time.Time
	End          *time.Time
}

// StatusUpdate is the mechanically derived persistence payload of one status
// transition: the fields to $set plus the single history entry to $push,
// applied only while the document still holds ExpectedStatus.
type StatusUpdate struct {
	ExpectedStatus string
	Set            map[string]interface{}
	History        models.StatusHistoryEntry
}

// ComplaintRepository persists complaints and their satellite collections.
type ComplaintRepository interface {
	Create(ctx context.Context, c *models.Complaint) error
	GetByID(ctx context.Context, id string) (*models.Complaint, error)
	List(ctx context.Context, f ListFilter) ([]models.Complaint, error)
	// UpdateFields applies a plain $set of whitelisted fields and returns the
	// updated document.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Complaint, error)
	// UpdateFieldsIfStatus applies the $set only while the document still holds
	// expectedStatus. Returns ErrStaleStatus when the status moved after the
	// caller's read.
	UpdateFieldsIfStatus(ctx context.Context, id, expectedStatus string, fields map[string]interface{}) (*models.Complaint, error)
	// ApplyStatusUpdate performs the conditional read-modify-write of a status
	// transition as one atomic server-side operation. Returns ErrStaleStatus
	// when a concurrent writer moved the status first.
	ApplyStatusUpdate(ctx context.Context, id string, u StatusUpdate) (*models.Complaint, error)
	// Delete removes the complaint and both satellite sets.
	Delete(ctx context.Context, id string) error

	ReplaceMissingParts(ctx context.Context, complaintID string, parts []models.MissingPart) error
	ReplaceMedia(ctx context.Context, complaintID string, media []models.ComplaintMedia) error
	InsertMedia(ctx context.Context, m *models.ComplaintMedia) error
	MissingPartsByComplaint(ctx context.Context, complaintID string) ([]models.MissingPart, error)
	MediaByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintMedia, error)

	EnsureIndexes() error
}

type mongoComplaintRepo struct {
	coll      *mongo.Collection
	partsColl *mongo.Collection
	mediaColl *mongo.Collection
}

// NewMongoComplaintRepo returns a new ComplaintRepository instance using MongoDB.
func NewMongoComplaintRepo() ComplaintRepository {
	db := database.DB()
	return &mongoComplaintRepo{
		coll:      db.Collection("complaints"),
		partsColl: db.Collection("missing_parts"),
		mediaColl: db.Collection("complaint_media"),
	}
}

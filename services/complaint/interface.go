package complaint

import (
	"context"

	catalogRepo "mauryaelectronics/database/repository/catalog"
	complaintRepo "mauryaelectronics/database/repository/complaint"
	"mauryaelectronics/models"
	"mauryaelectronics/services/sequence"
)

// ComplaintService is the single entry point for complaint lifecycle
// operations. All status-affecting writes funnel through the transition
// engine; satellite sets follow replace-wholesale semantics.
type ComplaintService interface {
	Create(ctx context.Context, in CreateInput) (*models.ComplaintDetail, error)
	// CreateBatch registers one complaint per input, numbering the batch with
	// a single contiguous block allocation.
	CreateBatch(ctx context.Context, ins []CreateInput) ([]models.Complaint, error)
	Update(ctx context.Context, id string, in UpdateInput) (*models.ComplaintDetail, error)
	ChangeStatus(ctx context.Context, id, status, by, note string) (*models.Complaint, error)
	GetDetail(ctx context.Context, id string) (*models.ComplaintDetail, error)
	List(ctx context.Context, q ListQuery) ([]models.Complaint, error)
	Delete(ctx context.Context, id string) error
	// AttachMedia appends one uploaded media row outside the replace-all flow,
	// used by the upload proxy endpoint.
	AttachMedia(ctx context.Context, complaintID string, in MediaInput) (*models.ComplaintMedia, error)
}

// DefaultComplaintService wires the repositories and the number allocator.
type DefaultComplaintService struct {
	Repo      complaintRepo.ComplaintRepository
	Catalog   catalogRepo.CatalogRepository
	Allocator sequence.Allocator

	// Numbering policy, normally taken from config.
	NoPrefix string
	NoPad    int
}

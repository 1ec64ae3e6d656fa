// File: services/complaint/service.go
package complaint

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogRepo "mauryaelectronics/database/repository/catalog"
	complaintRepo "mauryaelectronics/database/repository/complaint"
	"mauryaelectronics/models"
	"mauryaelectronics/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const transitionAttempts = 2

func (s *DefaultComplaintService) prefix() string {
	if s.NoPrefix != "" {
		return s.NoPrefix
	}
	return "CMP"
}

func (s *DefaultComplaintService) pad() int {
	if s.NoPad > 0 {
		return s.NoPad
	}
	return 4
}

// Create validates the payload, allocates a ticket number when none was
// supplied, routes the initial status through the transition engine and
// persists the complaint with its satellite rows.
func (s *DefaultComplaintService) Create(ctx context.Context, in CreateInput) (*models.ComplaintDetail, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	if _, err := s.Catalog.GetServiceByID(ctx, in.ServiceID); err != nil {
		return nil, mapCatalogErr(err, "service", in.ServiceID)
	}
	if _, err := s.Catalog.GetTechnicianByID(ctx, in.TechnicianID); err != nil {
		return nil, mapCatalogErr(err, "technician", in.TechnicianID)
	}

	now := time.Now()
	c := &models.Complaint{
		ID:                 uuid.New().String(),
		ComplaintNo:        in.ComplaintNo,
		CustomerName:       in.CustomerName,
		Phone:              in.Phone,
		Phone2:             in.Phone2,
		PinCode:            in.PinCode,
		Address:            in.Address,
		ServiceID:          in.ServiceID,
		TechnicianID:       in.TechnicianID,
		ProblemDescription: in.ProblemDescription,
		Remarks:            in.Remarks,
		ComplaintType:      in.ComplaintType,
		CreatedBy:          in.CreatedBy,
		CreatedAt:          now,
	}

	if c.ComplaintNo == "" {
		no, err := s.Allocator.AllocateOne(ctx, now, s.prefix(), s.pad())
		if err != nil {
			return nil, err
		}
		c.ComplaintNo = no
	}

	status := in.Status
	if status == "" {
		status = models.StatusOpen
	}
	eff, err := ApplyTransition(c, status, in.CreatedBy, "", now)
	if err != nil {
		return nil, err
	}
	eff.ApplyTo(c)

	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, NewTransient(fmt.Sprintf("create complaint: %v", err))
	}

	if len(in.MissingParts) > 0 {
		if err := s.Repo.ReplaceMissingParts(ctx, c.ID, buildParts(c.ID, in.MissingParts)); err != nil {
			return nil, NewTransient(fmt.Sprintf("store missing parts: %v", err))
		}
	}
	if media := buildMedia(c.ID, in.Media); len(media) > 0 {
		if err := s.Repo.ReplaceMedia(ctx, c.ID, media); err != nil {
			return nil, NewTransient(fmt.Sprintf("store media: %v", err))
		}
	}

	return s.assemble(ctx, c)
}

// CreateBatch registers one complaint per payload (multi-service mode). The
// whole batch is numbered from one contiguous block allocation so the numbers
// come out strictly increasing without per-item counter round trips.
func (s *DefaultComplaintService) CreateBatch(ctx context.Context, ins []CreateInput) ([]models.Complaint, error) {
	if len(ins) == 0 {
		return nil, NewInvalidArgument("no complaints provided")
	}
	for i := range ins {
		if err := validateCreate(ins[i]); err != nil {
			return nil, err
		}
	}

	needed := 0
	for i := range ins {
		if ins[i].ComplaintNo == "" {
			needed++
		}
	}
	var block []string
	if needed > 0 {
		var err error
		block, err = s.Allocator.AllocateBlock(ctx, needed, time.Now(), s.prefix(), s.pad())
		if err != nil {
			return nil, err
		}
	}

	created := make([]models.Complaint, 0, len(ins))
	next := 0
	for i := range ins {
		in := ins[i]
		if in.ComplaintNo == "" {
			in.ComplaintNo = block[next]
			next++
		}
		detail, err := s.Create(ctx, in)
		if err != nil {
			return created, err
		}
		created = append(created, detail.Complaint)
	}
	return created, nil
}

// Update applies a whitelisted partial update. A status change routes through
// the transition engine and commits conditionally on the status observed
// during validation; on a lost race the whole read-validate-write is retried.
func (s *DefaultComplaintService) Update(ctx context.Context, id string, in UpdateInput) (*models.ComplaintDetail, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	var updated *models.Complaint
	for attempt := 0; attempt < transitionAttempts; attempt++ {
		cur, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapRepoErr(err, id)
		}

		// Only the technician price is locked to open tickets; the base-price
		// snapshot stays editable in any status.
		if in.TechnicianPriceCharged != nil && cur.Status != models.StatusOpen {
			return nil, NewBusinessRule("cannot change technician price unless complaint is open")
		}

		fields := whitelistedFields(in)

		if in.Status != nil {
			eff, err := ApplyTransition(cur, *in.Status, in.Actor, in.StatusNote, time.Now())
			if err != nil {
				return nil, err
			}
			for k, v := range eff.DocumentSet() {
				fields[k] = v
			}
			updated, err = s.Repo.ApplyStatusUpdate(ctx, id, complaintRepo.StatusUpdate{
				ExpectedStatus: cur.Status,
				Set:            fields,
				History:        eff.History,
			})
			if errors.Is(err, complaintRepo.ErrStaleStatus) {
				continue
			}
			if err != nil {
				return nil, mapRepoErr(err, id)
			}
		} else if in.TechnicianPriceCharged != nil {
			// The open-only price rule holds at write time too: the $set commits
			// only while the status is still open, a lost race retries from a
			// fresh read.
			updated, err = s.Repo.UpdateFieldsIfStatus(ctx, id, models.StatusOpen, fields)
			if errors.Is(err, complaintRepo.ErrStaleStatus) {
				continue
			}
			if err != nil {
				return nil, mapRepoErr(err, id)
			}
		} else {
			updated, err = s.Repo.UpdateFields(ctx, id, fields)
			if err != nil {
				return nil, mapRepoErr(err, id)
			}
		}
		break
	}
	if updated == nil {
		return nil, NewConflict("complaint was modified concurrently, retry the update")
	}

	if in.MissingParts != nil {
		if err := s.Repo.ReplaceMissingParts(ctx, id, buildParts(id, *in.MissingParts)); err != nil {
			return nil, NewTransient(fmt.Sprintf("replace missing parts: %v", err))
		}
	}
	if in.Media != nil {
		if err := s.Repo.ReplaceMedia(ctx, id, buildMedia(id, *in.Media)); err != nil {
			return nil, NewTransient(fmt.Sprintf("replace media: %v", err))
		}
	}

	// Best-effort secondary effect, fired only after the complaint update
	// committed. Its failure is logged, never rolled back into the update.
	if in.ApplyToService && in.TechnicianPriceCharged != nil {
		serviceID := updated.ServiceID
		if in.ServiceID != nil {
			serviceID = *in.ServiceID
		}
		if serviceID != "" {
			s.applyPriceToService(ctx, serviceID, *in.TechnicianPriceCharged)
		}
	}

	return s.assemble(ctx, updated)
}

// ChangeStatus performs a direct status transition with actor and note.
func (s *DefaultComplaintService) ChangeStatus(ctx context.Context, id, status, by, note string) (*models.Complaint, error) {
	if !models.ValidStatus(status) {
		return nil, NewInvalidArgument(fmt.Sprintf("invalid status %q", status))
	}

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		cur, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapRepoErr(err, id)
		}
		eff, err := ApplyTransition(cur, status, by, note, time.Now())
		if err != nil {
			return nil, err
		}
		updated, err := s.Repo.ApplyStatusUpdate(ctx, id, complaintRepo.StatusUpdate{
			ExpectedStatus: cur.Status,
			Set:            eff.DocumentSet(),
			History:        eff.History,
		})
		if errors.Is(err, complaintRepo.ErrStaleStatus) {
			continue
		}
		if err != nil {
			return nil, mapRepoErr(err, id)
		}
		return updated, nil
	}
	return nil, NewConflict("complaint status changed concurrently, retry the transition")
}

// GetDetail assembles the complaint with its satellite collections.
func (s *DefaultComplaintService) GetDetail(ctx context.Context, id string) (*models.ComplaintDetail, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, id)
	}
	return s.assemble(ctx, c)
}

// List returns complaints matching the query, most recent first.
func (s *DefaultComplaintService) List(ctx context.Context, q ListQuery) ([]models.Complaint, error) {
	if q.Status != "" && !models.ValidStatus(q.Status) {
		return nil, NewInvalidArgument(fmt.Sprintf("invalid status %q", q.Status))
	}
	list, err := s.Repo.List(ctx, complaintRepo.ListFilter{
		Status:       q.Status,
		TechnicianID: q.TechnicianID,
		Start:        q.Start,
		End:          q.End,
	})
	if err != nil {
		return nil, NewTransient(fmt.Sprintf("list complaints: %v", err))
	}
	return list, nil
}

// Delete removes the complaint together with its satellite rows.
func (s *DefaultComplaintService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err, id)
	}
	return nil
}

// AttachMedia appends one uploaded media row for the upload proxy.
func (s *DefaultComplaintService) AttachMedia(ctx context.Context, complaintID string, in MediaInput) (*models.ComplaintMedia, error) {
	if _, err := s.Repo.GetByID(ctx, complaintID); err != nil {
		return nil, mapRepoErr(err, complaintID)
	}
	url := in.ResolveURL()
	if url == "" {
		return nil, NewInvalidArgument("media entry has no resolvable URL")
	}
	m := &models.ComplaintMedia{
		ComplaintID: complaintID,
		MediaType:   in.resolveType(url),
		MediaURL:    url,
		Meta:        in.ProviderResponse,
	}
	if err := s.Repo.InsertMedia(ctx, m); err != nil {
		return nil, NewTransient(fmt.Sprintf("store media: %v", err))
	}
	return m, nil
}

func (s *DefaultComplaintService) applyPriceToService(ctx context.Context, serviceID string, price float64) {
	if err := s.Catalog.SetTechnicianPrice(ctx, serviceID, price); err != nil {
		utils.GetLogger().Warn("apply-to-service price write failed",
			zap.String("serviceId", serviceID),
			zap.Float64("price", price),
			zap.Error(err))
	}
}

func (s *DefaultComplaintService) assemble(ctx context.Context, c *models.Complaint) (*models.ComplaintDetail, error) {
	parts, err := s.Repo.MissingPartsByComplaint(ctx, c.ID)
	if err != nil {
		return nil, NewTransient(fmt.Sprintf("fetch missing parts: %v", err))
	}
	media, err := s.Repo.MediaByComplaint(ctx, c.ID)
	if err != nil {
		return nil, NewTransient(fmt.Sprintf("fetch media: %v", err))
	}
	return &models.ComplaintDetail{
		Complaint:    *c,
		MissingParts: parts,
		Media:        media,
	}, nil
}

// --- validation and mapping helpers ---

func validateCreate(in CreateInput) error {
	switch {
	case in.CustomerName == "":
		return NewInvalidArgument("customer_name is required")
	case in.Phone == "":
		return NewInvalidArgument("phone is required")
	case in.Address == "":
		return NewInvalidArgument("address is required")
	case in.ServiceID == "":
		return NewInvalidArgument("service_id is required")
	case in.TechnicianID == "":
		return NewInvalidArgument("technician_id is required")
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return NewInvalidArgument(fmt.Sprintf("invalid status %q", in.Status))
	}
	for _, p := range in.MissingParts {
		if p.Qty < 0 {
			return NewInvalidArgument("missing part qty must not be negative")
		}
	}
	return nil
}

func validateUpdate(in UpdateInput) error {
	if in.TechnicianPriceCharged != nil && *in.TechnicianPriceCharged < 0 {
		return NewInvalidArgument("technician_price_charged must be a non-negative number")
	}
	if in.ServiceBasePriceCharged != nil && *in.ServiceBasePriceCharged < 0 {
		return NewInvalidArgument("service_base_price_charged must be a non-negative number")
	}
	if in.Status != nil && !models.ValidStatus(*in.Status) {
		return NewInvalidArgument(fmt.Sprintf("invalid status %q", *in.Status))
	}
	if in.MissingParts != nil {
		for _, p := range *in.MissingParts {
			if p.Qty < 0 {
				return NewInvalidArgument("missing part qty must not be negative")
			}
		}
	}
	return nil
}

// whitelistedFields maps the provided pointer fields onto document keys.
// Status is handled separately through the transition engine.
func whitelistedFields(in UpdateInput) map[string]interface{} {
	fields := map[string]interface{}{}
	setStr := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setStr("customerName", in.CustomerName)
	setStr("phone", in.Phone)
	setStr("phone2", in.Phone2)
	setStr("pinCode", in.PinCode)
	setStr("address", in.Address)
	setStr("serviceId", in.ServiceID)
	setStr("technicianId", in.TechnicianID)
	setStr("problemDescription", in.ProblemDescription)
	setStr("remarks", in.Remarks)
	setStr("complaintType", in.ComplaintType)
	if in.TechnicianPriceCharged != nil {
		fields["technicianPriceCharged"] = *in.TechnicianPriceCharged
	}
	if in.ServiceBasePriceCharged != nil {
		fields["serviceBasePriceCharged"] = *in.ServiceBasePriceCharged
	}
	return fields
}

func buildParts(complaintID string, ins []PartInput) []models.MissingPart {
	parts := make([]models.MissingPart, 0, len(ins))
	for _, p := range ins {
		qty := p.Qty
		if qty == 0 {
			qty = 1
		}
		parts = append(parts, models.MissingPart{
			ComplaintID: complaintID,
			Brand:       p.Brand,
			Model:       p.Model,
			PartName:    p.PartName,
			Qty:         qty,
		})
	}
	return parts
}

// buildMedia normalizes media inputs, silently dropping entries without a
// resolvable URL so broken references are never stored.
func buildMedia(complaintID string, ins []MediaInput) []models.ComplaintMedia {
	media := make([]models.ComplaintMedia, 0, len(ins))
	for _, m := range ins {
		url := m.ResolveURL()
		if url == "" {
			continue
		}
		media = append(media, models.ComplaintMedia{
			ComplaintID: complaintID,
			MediaType:   m.resolveType(url),
			MediaURL:    url,
			Meta:        m.ProviderResponse,
		})
	}
	return media
}

func mapRepoErr(err error, id string) error {
	if errors.Is(err, complaintRepo.ErrNotFound) {
		return NewNotFound(fmt.Sprintf("complaint %q not found", id))
	}
	return NewTransient(err.Error())
}

func mapCatalogErr(err error, kind, id string) error {
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return NewNotFound(fmt.Sprintf("%s %q not found", kind, id))
	}
	return NewTransient(err.Error())
}

package complaint

import (
	"context"
	"sync"
	"testing"
	"time"

	catalogRepo "mauryaelectronics/database/repository/catalog"
	complaintRepo "mauryaelectronics/database/repository/complaint"
	"mauryaelectronics/models"
	"mauryaelectronics/services/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type memComplaintRepo struct {
	mu    sync.Mutex
	docs  map[string]*models.Complaint
	parts map[string][]models.MissingPart
	media map[string][]models.ComplaintMedia

	// statusHook runs before every ApplyStatusUpdate; a non-nil return is
	// surfaced to the caller, used to inject concurrency races.
	statusHook func() error
	// fieldsHook runs before every UpdateFieldsIfStatus, used to mutate state
	// between a caller's read and its conditional write.
	fieldsHook func()
}

func newMemComplaintRepo() *memComplaintRepo {
	return &memComplaintRepo{
		docs:  map[string]*models.Complaint{},
		parts: map[string][]models.MissingPart{},
		media: map[string][]models.ComplaintMedia{},
	}
}

func (r *memComplaintRepo) Create(_ context.Context, c *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.docs[c.ID] = &cp
	return nil
}

func (r *memComplaintRepo) GetByID(_ context.Context, id string) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, complaintRepo.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *memComplaintRepo) List(_ context.Context, f complaintRepo.ListFilter) ([]models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Complaint
	for _, doc := range r.docs {
		if f.Status != "" && doc.Status != f.Status {
			continue
		}
		if f.TechnicianID != "" && doc.TechnicianID != f.TechnicianID {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (r *memComplaintRepo) applySet(doc *models.Complaint, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			doc.Status = v.(string)
		case "openedAt":
			t := v.(time.Time)
			doc.OpenedAt = &t
		case "closedAt":
			if v == nil {
				doc.ClosedAt = nil
			} else {
				t := v.(time.Time)
				doc.ClosedAt = &t
			}
		case "timeToCloseMs":
			if v == nil {
				doc.TimeToCloseMs = nil
			} else {
				ms := v.(int64)
				doc.TimeToCloseMs = &ms
			}
		case "customerName":
			doc.CustomerName = v.(string)
		case "remarks":
			doc.Remarks = v.(string)
		case "serviceId":
			doc.ServiceID = v.(string)
		case "technicianPriceCharged":
			p := v.(float64)
			doc.TechnicianPriceCharged = &p
		case "serviceBasePriceCharged":
			p := v.(float64)
			doc.ServiceBasePriceCharged = &p
		}
	}
	doc.UpdatedAt = time.Now()
}

func (r *memComplaintRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, complaintRepo.ErrNotFound
	}
	r.applySet(doc, fields)
	cp := *doc
	return &cp, nil
}

func (r *memComplaintRepo) UpdateFieldsIfStatus(_ context.Context, id, expectedStatus string, fields map[string]interface{}) (*models.Complaint, error) {
	if r.fieldsHook != nil {
		r.fieldsHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, complaintRepo.ErrNotFound
	}
	if doc.Status != expectedStatus {
		return nil, complaintRepo.ErrStaleStatus
	}
	r.applySet(doc, fields)
	cp := *doc
	return &cp, nil
}

func (r *memComplaintRepo) ApplyStatusUpdate(_ context.Context, id string, u complaintRepo.StatusUpdate) (*models.Complaint, error) {
	if r.statusHook != nil {
		if err := r.statusHook(); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, complaintRepo.ErrNotFound
	}
	if doc.Status != u.ExpectedStatus {
		return nil, complaintRepo.ErrStaleStatus
	}
	r.applySet(doc, u.Set)
	doc.StatusHistory = append(doc.StatusHistory, u.History)
	cp := *doc
	return &cp, nil
}

func (r *memComplaintRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return complaintRepo.ErrNotFound
	}
	delete(r.docs, id)
	delete(r.parts, id)
	delete(r.media, id)
	return nil
}

func (r *memComplaintRepo) ReplaceMissingParts(_ context.Context, complaintID string, parts []models.MissingPart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parts[complaintID] = parts
	return nil
}

func (r *memComplaintRepo) ReplaceMedia(_ context.Context, complaintID string, media []models.ComplaintMedia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media[complaintID] = media
	return nil
}

func (r *memComplaintRepo) InsertMedia(_ context.Context, m *models.ComplaintMedia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media[m.ComplaintID] = append(r.media[m.ComplaintID], *m)
	return nil
}

func (r *memComplaintRepo) MissingPartsByComplaint(_ context.Context, complaintID string) ([]models.MissingPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.parts[complaintID], nil
}

func (r *memComplaintRepo) MediaByComplaint(_ context.Context, complaintID string) ([]models.ComplaintMedia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.media[complaintID], nil
}

func (r *memComplaintRepo) EnsureIndexes() error { return nil }

func catalogNotFound() error { return catalogRepo.ErrNotFound }

type fakeCatalog struct {
	services    map[string]*models.Service
	technicians map[string]*models.Technician

	priceWrites map[string]float64
	priceErr    error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[string]*models.Service{
			"svc-1": {ID: "svc-1", Name: "TV Repair", BasePrice: 500, TechnicianPrice: 300},
		},
		technicians: map[string]*models.Technician{
			"tech-1": {ID: "tech-1", Name: "Ramesh"},
		},
		priceWrites: map[string]float64{},
	}
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, id string) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, catalogNotFound()
	}
	return svc, nil
}

func (f *fakeCatalog) GetTechnicianByID(_ context.Context, id string) (*models.Technician, error) {
	tech, ok := f.technicians[id]
	if !ok {
		return nil, catalogNotFound()
	}
	return tech, nil
}

func (f *fakeCatalog) SetTechnicianPrice(_ context.Context, serviceID string, price float64) error {
	if f.priceErr != nil {
		return f.priceErr
	}
	f.priceWrites[serviceID] = price
	return nil
}

func newTestService(repo *memComplaintRepo, cat *fakeCatalog) *DefaultComplaintService {
	return &DefaultComplaintService{
		Repo:      repo,
		Catalog:   cat,
		Allocator: sequence.NewCounterAllocator(newMemCounterRepo()),
		NoPrefix:  "CMP",
		NoPad:     4,
	}
}

type memCounterRepoSvc struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemCounterRepo() *memCounterRepoSvc {
	return &memCounterRepoSvc{seqs: map[string]int64{}}
}

func (r *memCounterRepoSvc) IncrementBy(_ context.Context, key string, count int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs[key] += count
	return r.seqs[key], nil
}

func (r *memCounterRepoSvc) EnsureIndexes() error { return nil }

func validCreateInput() CreateInput {
	return CreateInput{
		CustomerName:       "Asha Verma",
		Phone:              "9876543210",
		Address:            "14 MG Road",
		ServiceID:          "svc-1",
		TechnicianID:       "tech-1",
		ProblemDescription: "No display",
		CreatedBy:          "staff-1",
	}
}

// --- tests ---

func TestCreateAllocatesNumberAndOpens(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	c := detail.Complaint
	day := time.Now().Format("20060102")
	assert.Equal(t, "CMP-"+day+"-0001", c.ComplaintNo)
	assert.Equal(t, models.StatusOpen, c.Status)
	require.NotNil(t, c.OpenedAt)
	assert.Nil(t, c.ClosedAt)
	require.Len(t, c.StatusHistory, 1)
	assert.Equal(t, "staff-1", c.StatusHistory[0].By)
}

func TestCreateKeepsSuppliedNumber(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	in := validCreateInput()
	in.ComplaintNo = "LEGACY-001"
	detail, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "LEGACY-001", detail.Complaint.ComplaintNo)
}

func TestCreateRejectsUnknownServiceRef(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	in := validCreateInput()
	in.ServiceID = "svc-missing"
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestCreateBatchNumbersContiguously(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	ins := []CreateInput{validCreateInput(), validCreateInput(), validCreateInput()}
	created, err := svc.CreateBatch(context.Background(), ins)
	require.NoError(t, err)
	require.Len(t, created, 3)

	day := time.Now().Format("20060102")
	assert.Equal(t, "CMP-"+day+"-0001", created[0].ComplaintNo)
	assert.Equal(t, "CMP-"+day+"-0002", created[1].ComplaintNo)
	assert.Equal(t, "CMP-"+day+"-0003", created[2].ComplaintNo)
}

func TestUpdatePriceRequiresOpenStatus(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	_, err = svc.ChangeStatus(context.Background(), id, models.StatusClosed, "staff-1", "")
	require.NoError(t, err)

	price := 450.0
	_, err = svc.Update(context.Background(), id, UpdateInput{TechnicianPriceCharged: &price, Actor: "staff-1"})
	require.Error(t, err)
	assert.Equal(t, CodeBusinessRule, CodeOf(err))

	// Reopen, then the same edit goes through.
	_, err = svc.ChangeStatus(context.Background(), id, models.StatusOpen, "staff-1", "")
	require.NoError(t, err)
	updated, err := svc.Update(context.Background(), id, UpdateInput{TechnicianPriceCharged: &price, Actor: "staff-1"})
	require.NoError(t, err)
	require.NotNil(t, updated.Complaint.TechnicianPriceCharged)
	assert.Equal(t, 450.0, *updated.Complaint.TechnicianPriceCharged)
}

func TestUpdateBasePriceEditableInAnyStatus(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	_, err = svc.ChangeStatus(context.Background(), id, models.StatusClosed, "staff-1", "")
	require.NoError(t, err)

	// The open-only lock covers the technician price, not the base price.
	basePrice := 600.0
	updated, err := svc.Update(context.Background(), id, UpdateInput{ServiceBasePriceCharged: &basePrice, Actor: "staff-1"})
	require.NoError(t, err)
	require.NotNil(t, updated.Complaint.ServiceBasePriceCharged)
	assert.Equal(t, 600.0, *updated.Complaint.ServiceBasePriceCharged)
	assert.Equal(t, models.StatusClosed, updated.Complaint.Status)
}

func TestUpdatePriceGuardHoldsAtWriteTime(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	// Another writer closes the complaint between the validation read and the
	// conditional price write.
	repo.fieldsHook = func() {
		repo.mu.Lock()
		repo.docs[id].Status = models.StatusClosed
		repo.mu.Unlock()
		repo.fieldsHook = nil
	}

	price := 450.0
	_, err = svc.Update(context.Background(), id, UpdateInput{TechnicianPriceCharged: &price, Actor: "staff-1"})
	require.Error(t, err)
	assert.Equal(t, CodeBusinessRule, CodeOf(err))

	stored, err := svc.GetDetail(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, stored.Complaint.TechnicianPriceCharged)
}

func TestUpdateApplyToServiceWritesCatalog(t *testing.T) {
	repo := newMemComplaintRepo()
	cat := newFakeCatalog()
	svc := newTestService(repo, cat)

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	price := 450.0
	updated, err := svc.Update(context.Background(), id, UpdateInput{
		TechnicianPriceCharged: &price,
		ApplyToService:         true,
		Actor:                  "staff-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 450.0, cat.priceWrites["svc-1"])

	// The complaint keeps its own snapshot regardless of later catalog edits.
	cat.services["svc-1"].TechnicianPrice = 999
	require.NotNil(t, updated.Complaint.TechnicianPriceCharged)
	assert.Equal(t, 450.0, *updated.Complaint.TechnicianPriceCharged)
}

func TestUpdateApplyToServiceFailureDoesNotFailUpdate(t *testing.T) {
	repo := newMemComplaintRepo()
	cat := newFakeCatalog()
	cat.priceErr = catalogNotFound()
	svc := newTestService(repo, cat)

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	price := 450.0
	updated, err := svc.Update(context.Background(), detail.Complaint.ID, UpdateInput{
		TechnicianPriceCharged: &price,
		ApplyToService:         true,
		Actor:                  "staff-1",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Complaint.TechnicianPriceCharged)
	assert.Equal(t, 450.0, *updated.Complaint.TechnicianPriceCharged)
	assert.Empty(t, cat.priceWrites)
}

func TestUpdateWithoutApplyFlagLeavesCatalog(t *testing.T) {
	repo := newMemComplaintRepo()
	cat := newFakeCatalog()
	svc := newTestService(repo, cat)

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	price := 450.0
	_, err = svc.Update(context.Background(), detail.Complaint.ID, UpdateInput{
		TechnicianPriceCharged: &price,
		Actor:                  "staff-1",
	})
	require.NoError(t, err)
	assert.Empty(t, cat.priceWrites)
}

func TestUpdateStatusRetriesOnRaceThenConflicts(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	// Every conditional write loses the race: the retry budget runs out.
	repo.statusHook = func() error { return complaintRepo.ErrStaleStatus }
	closed := models.StatusClosed
	_, err = svc.Update(context.Background(), id, UpdateInput{Status: &closed, Actor: "staff-1"})
	require.Error(t, err)
	assert.Equal(t, CodeConflict, CodeOf(err))

	// One lost race followed by a clean write succeeds.
	calls := 0
	repo.statusHook = func() error {
		calls++
		if calls == 1 {
			return complaintRepo.ErrStaleStatus
		}
		return nil
	}
	updated, err := svc.Update(context.Background(), id, UpdateInput{Status: &closed, Actor: "staff-1"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, updated.Complaint.Status)
	assert.Equal(t, 2, calls)
}

func TestUpdateReplacesSatelliteSetsWholesale(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	in := validCreateInput()
	in.MissingParts = []PartInput{{Brand: "LG", PartName: "panel", Qty: 2}}
	detail, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	id := detail.Complaint.ID
	require.Len(t, detail.MissingParts, 1)

	newParts := []PartInput{{Brand: "Samsung", PartName: "board"}}
	updated, err := svc.Update(context.Background(), id, UpdateInput{MissingParts: &newParts, Actor: "staff-1"})
	require.NoError(t, err)
	require.Len(t, updated.MissingParts, 1)
	assert.Equal(t, "Samsung", updated.MissingParts[0].Brand)
	// Qty defaults to 1 when omitted.
	assert.Equal(t, 1, updated.MissingParts[0].Qty)

	// An explicit empty slice clears the set; a nil pointer leaves it alone.
	empty := []PartInput{}
	updated, err = svc.Update(context.Background(), id, UpdateInput{MissingParts: &empty, Actor: "staff-1"})
	require.NoError(t, err)
	assert.Empty(t, updated.MissingParts)

	updated, err = svc.Update(context.Background(), id, UpdateInput{Actor: "staff-1"})
	require.NoError(t, err)
	assert.Empty(t, updated.MissingParts)
}

func TestUpdateMediaNormalization(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	media := []MediaInput{
		{MediaURL: "https://cdn.example.com/a.jpg"},
		{ProviderResponse: map[string]interface{}{"secure_url": "https://cdn.example.com/b.mp4"}},
		{ProviderResponse: map[string]interface{}{"status": "pending"}}, // no URL anywhere, dropped
	}
	updated, err := svc.Update(context.Background(), id, UpdateInput{Media: &media, Actor: "staff-1"})
	require.NoError(t, err)
	require.Len(t, updated.Media, 2)
	assert.Equal(t, models.MediaTypeImage, updated.Media[0].MediaType)
	assert.Equal(t, models.MediaTypeVideo, updated.Media[1].MediaType)
	assert.Equal(t, "https://cdn.example.com/b.mp4", updated.Media[1].MediaURL)
}

func TestChangeStatusNotFound(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	_, err := svc.ChangeStatus(context.Background(), "nope", models.StatusClosed, "staff-1", "")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestDeleteRemovesComplaint(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	require.NoError(t, svc.Delete(context.Background(), id))
	err = svc.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestAttachMediaAppends(t *testing.T) {
	repo := newMemComplaintRepo()
	svc := newTestService(repo, newFakeCatalog())

	detail, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	id := detail.Complaint.ID

	m, err := svc.AttachMedia(context.Background(), id, MediaInput{
		ProviderResponse: map[string]interface{}{"secure_url": "https://cdn.example.com/c.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeImage, m.MediaType)

	got, err := svc.GetDetail(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, got.Media, 1)

	_, err = svc.AttachMedia(context.Background(), id, MediaInput{})
	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
}

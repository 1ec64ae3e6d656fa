// File: models/complaint.go
package models

import "time"

// Complaint status lifecycle values. Nothing else is ever persisted.
const (
	StatusOpen         = "open"
	StatusClosed       = "closed"
	StatusCancelled    = "cancelled"
	StatusPendingParts = "pending_parts"
)

// ValidStatus reports whether s is one of the four lifecycle values.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusClosed, StatusCancelled, StatusPendingParts:
		return true
	}
	return false
}

// StatusHistoryEntry is one append-only audit record of a status change.
type StatusHistoryEntry struct {
	Status string    `bson:"status" json:"status"`
	At     time.Time `bson:"at" json:"at"`
	By     string    `bson:"by,omitempty" json:"by,omitempty"`
	Note   string    `bson:"note,omitempty" json:"note,omitempty"`
}

// Complaint is a repair ticket tracked from registration to resolution.
type Complaint struct {
	ID                 string `bson:"id" json:"id"`
	ComplaintNo        string `bson:"complaintNo" json:"complaintNo"` // Human-readable ticket number, e.g. CMP-20251107-0042
	CustomerName       string `bson:"customerName" json:"customerName"`
	Phone              string `bson:"phone" json:"phone"`
	Phone2             string `bson:"phone2,omitempty" json:"phone2,omitempty"`
	PinCode            string `bson:"pinCode,omitempty" json:"pinCode,omitempty"`
	Address            string `bson:"address" json:"address"`
	ServiceID          string `bson:"serviceId" json:"serviceId"`
	TechnicianID       string `bson:"technicianId" json:"technicianId"`
	ProblemDescription string `bson:"problemDescription,omitempty" json:"problemDescription,omitempty"`
	Remarks            string `bson:"remarks,omitempty" json:"remarks,omitempty"`
	ComplaintType      string `bson:"complaintType,omitempty" json:"complaintType,omitempty"` // e.g. "in_warranty" / "out_of_warranty"

	Status        string               `bson:"status" json:"status"`
	OpenedAt      *time.Time           `bson:"openedAt,omitempty" json:"openedAt,omitempty"`
	ClosedAt      *time.Time           `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	TimeToCloseMs *int64               `bson:"timeToCloseMs,omitempty" json:"timeToCloseMs,omitempty"`
	StatusHistory []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`

	// Prices captured at update time so later catalog edits never alter historical billing.
	TechnicianPriceCharged  *float64 `bson:"technicianPriceCharged,omitempty" json:"technicianPriceCharged,omitempty"`
	ServiceBasePriceCharged *float64 `bson:"serviceBasePriceCharged,omitempty" json:"serviceBasePriceCharged,omitempty"`

	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MissingPart describes one part needed to finish a repair. The set is replaced
// wholesale on every complaint update, never patched per item.
type MissingPart struct {
	ID          string    `bson:"id" json:"id"`
	ComplaintID string    `bson:"complaintId" json:"complaintId"`
	Brand       string    `bson:"brand,omitempty" json:"brand,omitempty"`
	Model       string    `bson:"model,omitempty" json:"model,omitempty"`
	PartName    string    `bson:"partName,omitempty" json:"partName,omitempty"`
	Qty         int       `bson:"qty" json:"qty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Media type values for ComplaintMedia.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeOther = "other"
)

// ComplaintMedia is one uploaded attachment. Same replace-wholesale lifecycle
// as MissingPart.
type ComplaintMedia struct {
	ID          string                 `bson:"id" json:"id"`
	ComplaintID string                 `bson:"complaintId" json:"complaintId"`
	MediaType   string                 `bson:"mediaType" json:"mediaType"`
	MediaURL    string                 `bson:"mediaUrl" json:"mediaUrl"`
	Meta        map[string]interface{} `bson:"meta,omitempty" json:"meta,omitempty"` // raw provider response etc.
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}

// ComplaintDetail is the assembled read view: the ticket plus its satellites.
type ComplaintDetail struct {
	Complaint    Complaint        `json:"complaint"`
	MissingParts []MissingPart    `json:"missingParts"`
	Media        []ComplaintMedia `json:"media"`
}

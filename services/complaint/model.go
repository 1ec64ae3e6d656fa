// File: services/complaint/model.go
package complaint

import (
	"strings"
	"time"

	"mauryaelectronics/models"
)

// PartInput is one missing-part row supplied by the caller.
type PartInput struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	PartName string `json:"partName"`
	Qty      int    `json:"qty"`
}

// MediaInput is one media attachment supplied by the caller. The URL may
// arrive directly or buried inside the upload provider's raw response.
type MediaInput struct {
	MediaType        string                 `json:"mediaType"`
	MediaURL         string                 `json:"mediaUrl"`
	ProviderResponse map[string]interface{} `json:"providerResponse"`
}

// ResolveURL digs the usable URL out of the input, preferring the direct
// field, then the provider response's secure_url/url. Empty means the entry
// has no resolvable URL and must be dropped rather than stored broken.
func (m MediaInput) ResolveURL() string {
	if m.MediaURL != "" {
		return m.MediaURL
	}
	for _, k := range []string{"secure_url", "url"} {
		if v, ok := m.ProviderResponse[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func (m MediaInput) resolveType(url string) string {
	switch m.MediaType {
	case models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeOther:
		return m.MediaType
	}
	if strings.Contains(strings.ToLower(url), ".mp4") {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}

// CreateInput carries everything needed to register a complaint.
type CreateInput struct {
	ComplaintNo        string       `json:"complaintNo"`
	CustomerName       string       `json:"customerName"`
	Phone              string       `json:"phone"`
	Phone2             string       `json:"phone2"`
	PinCode            string       `json:"pinCode"`
	Address            string       `json:"address"`
	ServiceID          string       `json:"serviceId"`
	TechnicianID       string       `json:"technicianId"`
	ProblemDescription string       `json:"problemDescription"`
	Remarks            string       `json:"remarks"`
	ComplaintType      string       `json:"complaintType"`
	Status             string       `json:"status"` // defaults to open; other values allowed for administrative corrections
	MissingParts       []PartInput  `json:"missingParts"`
	Media              []MediaInput `json:"media"`
	CreatedBy          string       `json:"-"`
}

// UpdateInput is the fixed whitelist of mutable complaint fields. Pointer
// fields distinguish "absent" from "set"; anything outside this struct never
// reaches the document, which keeps derived and audit fields out of reach of
// a generic update call.
type UpdateInput struct {
	CustomerName       *string `json:"customerName"`
	Phone              *string `json:"phone"`
	Phone2             *string `json:"phone2"`
	PinCode            *string `json:"pinCode"`
	Address            *string `json:"address"`
	ServiceID          *string `json:"serviceId"`
	TechnicianID       *string `json:"technicianId"`
	ProblemDescription *string `json:"problemDescription"`
	Remarks            *string `json:"remarks"`
	ComplaintType      *string `json:"complaintType"`

	Status     *string `json:"status"`
	StatusNote string  `json:"statusNote"`

	TechnicianPriceCharged  *float64 `json:"technicianPriceCharged"`
	ServiceBasePriceCharged *float64 `json:"serviceBasePriceCharged"`
	ApplyToService          bool     `json:"applyToService"`

	MissingParts *[]PartInput  `json:"missingParts"`
	Media        *[]MediaInput `json:"media"`

	Actor string `json:"-"`
}

// ListQuery narrows complaint listings.
type ListQuery struct {
	Status       string
	TechnicianID string
	Start        *time.Time
	End          *time.Time
}

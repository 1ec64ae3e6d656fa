// File: models/catalog.go
package models

import "time"

// Service is a catalog entry the core reads for reference validation and
// default pricing. The only field the core ever writes back is
// TechnicianPrice, via the apply-to-service policy.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	BasePrice       float64   `bson:"basePrice" json:"basePrice"`
	TechnicianPrice float64   `bson:"technicianPrice" json:"technicianPrice"`
	CategoryID      string    `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Technician is read-only reference data for complaint assignment.
type Technician struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Address    string    `bson:"address,omitempty" json:"address,omitempty"`
	IsActive   bool      `bson:"isActive" json:"isActive"`
	ServiceIDs []string  `bson:"serviceIds,omitempty" json:"serviceIds,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

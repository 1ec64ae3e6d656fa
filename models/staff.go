// File: models/staff.go
package models

import "time"

// Staff roles. Admin unlocks destructive and catalog-mutating routes.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// StaffUser is a shop employee or admin account used only for authentication;
// catalog-style staff management lives outside this service.
type StaffUser struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

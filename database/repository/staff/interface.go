package staffRepo

import (
	"context"
	"errors"

	"mauryaelectronics/database"
	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound means no staff account matches the lookup.
var ErrNotFound = errors.New("staff user not found")

// StaffRepository reads staff accounts for authentication. Staff management
// itself is plain catalog CRUD handled outside this service.
type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	GetByID(ctx context.Context, id string) (*models.StaffUser, error)
}

type mongoStaffRepo struct {
	coll *mongo.Collection
}

// NewMongoStaffRepo returns a new StaffRepository instance using MongoDB.
func NewMongoStaffRepo() StaffRepository {
	return &mongoStaffRepo{
		coll: database.DB().Collection("staff_users"),
	}
}

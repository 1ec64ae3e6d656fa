package staffRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoStaffRepo) GetByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var usr models.StaffUser
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&usr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch staff user by email: %w", err)
	}
	return &usr, nil
}

func (r *mongoStaffRepo) GetByID(ctx context.Context, id string) (*models.StaffUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var usr models.StaffUser
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&usr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch staff user %q: %w", id, err)
	}
	return &usr, nil
}

package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetServiceByID returns a catalog service by its ID.
func (r *mongoCatalogRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	err := r.serviceColl.FindOne(ctx, bson.M{"id": id}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch service %q: %w", id, err)
	}
	return &svc, nil
}

// GetTechnicianByID returns a technician by ID.
func (r *mongoCatalogRepo) GetTechnicianByID(ctx context.Context, id string) (*models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tech models.Technician
	err := r.technicianColl.FindOne(ctx, bson.M{"id": id}).Decode(&tech)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch technician %q: %w", id, err)
	}
	return &tech, nil
}

// SetTechnicianPrice overwrites the service's default technician price.
func (r *mongoCatalogRepo) SetTechnicianPrice(ctx context.Context, serviceID string, price float64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.serviceColl.UpdateOne(ctx,
		bson.M{"id": serviceID},
		bson.M{"$set": bson.M{"technicianPrice": price, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("set technician price on service %q: %w", serviceID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

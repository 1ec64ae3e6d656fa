// FILE: database/repository/complaint/indexes.go
package complaintRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the complaints and satellite collections.
func (r *mongoComplaintRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	complaintModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "complaintNo", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_complaint_no"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "technicianId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("technician_created_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, complaintModels); err != nil {
		return fmt.Errorf("failed to create complaint indexes: %w", err)
	}

	satelliteModel := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "complaintId", Value: 1}},
			Options: options.Index().SetName("complaint_fk_idx"),
		},
	}
	if _, err := r.partsColl.Indexes().CreateMany(ctx, satelliteModel); err != nil {
		return fmt.Errorf("failed to create missing-part indexes: %w", err)
	}
	if _, err := r.mediaColl.Indexes().CreateMany(ctx, satelliteModel); err != nil {
		return fmt.Errorf("failed to create media indexes: %w", err)
	}
	return nil
}

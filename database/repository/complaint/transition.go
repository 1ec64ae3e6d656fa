// File: database/repository/complaint/transition.go
package complaintRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplyStatusUpdate commits one status transition as a single conditional
// FindOneAndUpdate: the filter pins the expected prior status, the update
// carries the $set payload and the $push of exactly one history entry. Two
// writers racing to close the same complaint cannot both match the filter, so
// at most one transition wins the timing computation; the loser gets
// ErrStaleStatus and the caller retries from a fresh read.
func (r *mongoComplaintRepo) ApplyStatusUpdate(ctx context.Context, id string, u StatusUpdate) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": u.ExpectedStatus}

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range u.Set {
		set[k] = v
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": u.History},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Complaint
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a missing document from a lost race on the status field.
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if cerr != nil {
			return nil, fmt.Errorf("apply status update %q: %w", id, cerr)
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrStaleStatus
	}
	if err != nil {
		return nil, fmt.Errorf("apply status update %q: %w", id, err)
	}
	return &updated, nil
}

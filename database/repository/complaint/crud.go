// File: database/repository/complaint/crud.go
package complaintRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mauryaelectronics/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new complaint document.
func (r *mongoComplaintRepo) Create(ctx context.Context, c *models.Complaint) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// GetByID returns a complaint by its ID.
func (r *mongoComplaintRepo) GetByID(ctx context.Context, id string) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Complaint
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch complaint %q: %w", id, err)
	}
	return &c, nil
}

// List returns complaints matching the filter, most recent first.
func (r *mongoComplaintRepo) List(ctx context.Context, f ListFilter) ([]models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.TechnicianID != "" {
		filter["technicianId"] = f.TechnicianID
	}
	if f.Start != nil && f.End != nil {
		filter["createdAt"] = bson.M{"$gte": *f.Start, "$lte": *f.End}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, fmt.Errorf("decode complaints: %w", err)
	}
	return complaints, nil
}

// UpdateFields applies a plain $set and returns the updated document.
func (r *mongoComplaintRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Complaint
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update complaint %q: %w", id, err)
	}
	return &updated, nil
}

// UpdateFieldsIfStatus applies a $set conditioned on the document still holding
// expectedStatus, same filter discipline as ApplyStatusUpdate.
func (r *mongoComplaintRepo) UpdateFieldsIfStatus(ctx context.Context, id, expectedStatus string, fields map[string]interface{}) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Complaint
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": expectedStatus}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if cerr != nil {
			return nil, fmt.Errorf("update complaint %q: %w", id, cerr)
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrStaleStatus
	}
	if err != nil {
		return nil, fmt.Errorf("update complaint %q: %w", id, err)
	}
	return &updated, nil
}

// Delete removes the complaint document and both satellite sets.
func (r *mongoComplaintRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.coll.DeleteOne(sc, bson.M{"id": id})
		if err != nil {
			return nil, fmt.Errorf("delete complaint: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		if _, err := r.partsColl.DeleteMany(sc, bson.M{"complaintId": id}); err != nil {
			return nil, fmt.Errorf("delete missing parts: %w", err)
		}
		if _, err := r.mediaColl.DeleteMany(sc, bson.M{"complaintId": id}); err != nil {
			return nil, fmt.Errorf("delete media: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return err
	}
	return nil
}

// File: database/repository/complaint/satellites.go
package complaintRepo

import (
	"context"
	"fmt"
	"time"

	"mauryaelectronics/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReplaceMissingParts swaps the full missing-parts set for a complaint:
// delete-all-then-insert inside one transaction. There is no per-item patch.
func (r *mongoComplaintRepo) ReplaceMissingParts(ctx context.Context, complaintID string, parts []models.MissingPart) error {
	docs := make([]interface{}, len(parts))
	now := time.Now()
	for i, p := range parts {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.ComplaintID = complaintID
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		docs[i] = p
	}
	return r.replaceSatellites(ctx, r.partsColl, complaintID, docs)
}

// ReplaceMedia swaps the full media set for a complaint, same semantics as
// ReplaceMissingParts.
func (r *mongoComplaintRepo) ReplaceMedia(ctx context.Context, complaintID string, media []models.ComplaintMedia) error {
	docs := make([]interface{}, len(media))
	now := time.Now()
	for i, m := range media {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		m.ComplaintID = complaintID
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		docs[i] = m
	}
	return r.replaceSatellites(ctx, r.mediaColl, complaintID, docs)
}

func (r *mongoComplaintRepo) replaceSatellites(ctx context.Context, coll *mongo.Collection, complaintID string, docs []interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := coll.DeleteMany(sc, bson.M{"complaintId": complaintID}); err != nil {
			return nil, fmt.Errorf("clear satellites: %w", err)
		}
		if len(docs) > 0 {
			if _, err := coll.InsertMany(sc, docs); err != nil {
				return nil, fmt.Errorf("insert satellites: %w", err)
			}
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		return fmt.Errorf("replace satellites for complaint %q: %w", complaintID, err)
	}
	return nil
}

// InsertMedia appends a single media row, used by the upload proxy.
func (r *mongoComplaintRepo) InsertMedia(ctx context.Context, m *models.ComplaintMedia) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, err := r.mediaColl.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

// MissingPartsByComplaint fetches all missing parts for one complaint.
func (r *mongoComplaintRepo) MissingPartsByComplaint(ctx context.Context, complaintID string) ([]models.MissingPart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.partsColl.Find(ctx, bson.M{"complaintId": complaintID})
	if err != nil {
		return nil, fmt.Errorf("fetch missing parts: %w", err)
	}
	defer cursor.Close(ctx)

	var parts []models.MissingPart
	if err := cursor.All(ctx, &parts); err != nil {
		return nil, fmt.Errorf("decode missing parts: %w", err)
	}
	return parts, nil
}

// MediaByComplaint fetches all media rows for one complaint.
func (r *mongoComplaintRepo) MediaByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintMedia, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.mediaColl.Find(ctx, bson.M{"complaintId": complaintID})
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	defer cursor.Close(ctx)

	var media []models.ComplaintMedia
	if err := cursor.All(ctx, &media); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	return media, nil
}

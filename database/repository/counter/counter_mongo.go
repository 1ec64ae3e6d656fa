package counterRepo

import (
	"context"
	"fmt"
	"time"

	"mauryaelectronics/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IncrementBy performs a single findAndModify-style upsert increment and reads
// back the committed value. A read-then-write pair would let two concurrent
// callers observe the same seq; the server-side $inc cannot.
func (r *mongoCounterRepo) IncrementBy(ctx context.Context, key string, count int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": key}
	update := bson.M{
		"$inc":         bson.M{"seq": count},
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.SequenceCounter
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("increment counter %q: %w", key, err)
	}
	return counter.Seq, nil
}

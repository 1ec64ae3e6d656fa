// FILE: database/repository/counter/indexes.go
package counterRepo

import (
	"context"
	"fmt"
	"time"

	"mauryaelectronics/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the TTL index that expires counter documents once the
// retention window has passed. A day's counter has no value after all same-day
// numbers have been allocated.
func (r *mongoCounterRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ttlDays := config.AppConfig.CounterTTLDays
	if ttlDays <= 0 {
		ttlDays = 30
	}
	ttl := int32(ttlDays * 24 * 60 * 60)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ttl).SetName("counter_ttl_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create counter indexes: %w", err)
	}
	return nil
}

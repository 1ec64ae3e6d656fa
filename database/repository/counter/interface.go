package counterRepo

import (
	"context"

	"mauryaelectronics/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// CounterRepository hands out monotonically increasing sequence values for
// day-scoped counter keys. IncrementBy must be atomic against concurrent
// callers across processes.
type CounterRepository interface {
	// IncrementBy bumps the counter stored under key by count and returns the
	// new value. The counter document is created transparently on first use.
	IncrementBy(ctx context.Context, key string, count int64) (int64, error)
	EnsureIndexes() error
}

type mongoCounterRepo struct {
	coll *mongo.Collection
}

// NewMongoCounterRepo returns a new CounterRepository instance using MongoDB.
func NewMongoCounterRepo() CounterRepository {
	return &mongoCounterRepo{
		coll: database.DB().Collection("counters"),
	}
}

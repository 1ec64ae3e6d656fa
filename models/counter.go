// File: models/counter.go
package models

import "time"

// SequenceCounter is one per-day ticket-number counter document. The ID is the
// partition key, e.g. "cmp_20251107". Documents expire via a TTL index on
// CreatedAt once all same-day numbers have been handed out.
type SequenceCounter struct {
	ID        string    `bson:"_id" json:"id"`
	Seq       int64     `bson:"seq" json:"seq"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// File: services/sequence/allocator.go
package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	counterRepo "mauryaelectronics/database/repository/counter"
)

// Allocator hands out unique, gap-free, human-readable complaint numbers
// partitioned by calendar day. Numbers look like CMP-20251107-0042.
//
// Allocation is not idempotent: a caller that timed out and retries receives a
// fresh number. Callers that need exactly-once numbering must keep the number
// from the first successful call.
type Allocator interface {
	AllocateOne(ctx context.Context, date time.Time, prefix string, pad int) (string, error)
	// AllocateBlock reserves count contiguous numbers with a single atomic
	// increment and derives the range locally, saving one round trip per item.
	AllocateBlock(ctx context.Context, count int, date time.Time, prefix string, pad int) ([]string, error)
}

// CounterAllocator implements Allocator over an atomic counter store.
type CounterAllocator struct {
	Repo counterRepo.CounterRepository
}

// NewCounterAllocator returns an Allocator backed by the given counter store.
func NewCounterAllocator(repo counterRepo.CounterRepository) *CounterAllocator {
	return &CounterAllocator{Repo: repo}
}

func (a *CounterAllocator) AllocateOne(ctx context.Context, date time.Time, prefix string, pad int) (string, error) {
	nos, err := a.AllocateBlock(ctx, 1, date, prefix, pad)
	if err != nil {
		return "", err
	}
	return nos[0], nil
}

func (a *CounterAllocator) AllocateBlock(ctx context.Context, count int, date time.Time, prefix string, pad int) ([]string, error) {
	if count <= 0 {
		return nil, newInvalidArgument(fmt.Sprintf("allocation count must be positive, got %d", count))
	}
	if prefix == "" {
		return nil, newInvalidArgument("allocation prefix must not be empty")
	}

	day := date.Format("20060102")
	key := counterKey(prefix, day)

	newSeq, err := a.Repo.IncrementBy(ctx, key, int64(count))
	if err != nil {
		return nil, newTransient(fmt.Sprintf("counter increment for %s failed: %v", key, err))
	}

	// The increment committed [newSeq-count+1 .. newSeq] to this caller; the
	// range is derived locally without further storage reads.
	nos := make([]string, count)
	for i := 0; i < count; i++ {
		seq := newSeq - int64(count) + int64(i) + 1
		nos[i] = FormatComplaintNo(prefix, day, seq, pad)
	}
	return nos, nil
}

func counterKey(prefix, day string) string {
	return strings.ToLower(prefix) + "_" + day
}

// FormatComplaintNo renders one ticket number: {PREFIX}-{YYYYMMDD}-{zero-padded seq}.
func FormatComplaintNo(prefix, day string, seq int64, pad int) string {
	if pad < 1 {
		pad = 1
	}
	return fmt.Sprintf("%s-%s-%0*d", strings.ToUpper(prefix), day, pad, seq)
}

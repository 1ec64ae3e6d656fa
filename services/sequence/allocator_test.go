package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCounterRepo is an in-memory CounterRepository with the same atomicity
// guarantee as the real one.
type memCounterRepo struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemCounterRepo() *memCounterRepo {
	return &memCounterRepo{seqs: map[string]int64{}}
}

func (r *memCounterRepo) IncrementBy(_ context.Context, key string, count int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs[key] += count
	return r.seqs[key], nil
}

func (r *memCounterRepo) EnsureIndexes() error { return nil }

func TestAllocateOneSequential(t *testing.T) {
	a := NewCounterAllocator(newMemCounterRepo())
	day := time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)

	first, err := a.AllocateOne(context.Background(), day, "CMP", 4)
	require.NoError(t, err)
	second, err := a.AllocateOne(context.Background(), day, "CMP", 4)
	require.NoError(t, err)

	assert.Equal(t, "CMP-20251107-0001", first)
	assert.Equal(t, "CMP-20251107-0002", second)
}

func TestAllocateOneConcurrentDistinct(t *testing.T) {
	a := NewCounterAllocator(newMemCounterRepo())
	day := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)

	const workers = 50
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			no, err := a.AllocateOne(context.Background(), day, "CMP", 4)
			assert.NoError(t, err)
			results <- no
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for no := range results {
		assert.False(t, seen[no], "duplicate complaint number %s", no)
		seen[no] = true
	}
	assert.Len(t, seen, workers)
}

func TestAllocateBlockContiguous(t *testing.T) {
	a := NewCounterAllocator(newMemCounterRepo())
	day := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)

	block, err := a.AllocateBlock(context.Background(), 3, day, "CMP", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CMP-20251107-0001",
		"CMP-20251107-0002",
		"CMP-20251107-0003",
	}, block)

	// A follow-on single allocation continues where the block stopped.
	next, err := a.AllocateOne(context.Background(), day, "CMP", 4)
	require.NoError(t, err)
	assert.Equal(t, "CMP-20251107-0004", next)
}

func TestAllocateDayPartition(t *testing.T) {
	a := NewCounterAllocator(newMemCounterRepo())

	dayOne := time.Date(2025, 11, 7, 23, 59, 0, 0, time.UTC)
	dayTwo := time.Date(2025, 11, 8, 0, 1, 0, 0, time.UTC)

	one, err := a.AllocateOne(context.Background(), dayOne, "CMP", 4)
	require.NoError(t, err)
	two, err := a.AllocateOne(context.Background(), dayTwo, "CMP", 4)
	require.NoError(t, err)

	// Each calendar day restarts from 1.
	assert.Equal(t, "CMP-20251107-0001", one)
	assert.Equal(t, "CMP-20251108-0001", two)
}

func TestAllocateRejectsBadInput(t *testing.T) {
	a := NewCounterAllocator(newMemCounterRepo())
	day := time.Now()

	_, err := a.AllocateBlock(context.Background(), 0, day, "CMP", 4)
	require.Error(t, err)
	var ae *AllocError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalidArgument", ae.Code)

	_, err = a.AllocateBlock(context.Background(), 3, day, "", 4)
	require.Error(t, err)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalidArgument", ae.Code)
}

func TestFormatComplaintNo(t *testing.T) {
	assert.Equal(t, "CMP-20251107-0042", FormatComplaintNo("cmp", "20251107", 42, 4))
	// Sequences beyond the pad width widen instead of truncating.
	assert.Equal(t, "CMP-20251107-12345", FormatComplaintNo("CMP", "20251107", 12345, 4))
	// A non-positive pad falls back to no leading zeros.
	assert.Equal(t, "JOB-20251107-7", FormatComplaintNo("job", "20251107", 7, 0))
}

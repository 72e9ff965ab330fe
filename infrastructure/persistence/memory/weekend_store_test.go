package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"squad-backend/application/ports"
	"squad-backend/domain/weekend"
	apperrors "squad-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, kv ...string) weekend.Record {
	r := weekend.New(id)
	for i := 0; i+1 < len(kv); i += 2 {
		r.Fields[kv[i]] = kv[i+1]
	}
	return r
}

func TestWeekendStore_Scenario(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()

	seed := []weekend.Record{
		rec("2024-01-06", "party", "A"),
		rec("2024-01-13", "party", "B"),
	}

	result, err := store.InitializeIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, ports.InitResultInitialized, result)

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-06", records[0].ID)
	assert.Equal(t, "A", records[0].Fields["party"])
	assert.Equal(t, "2024-01-13", records[1].ID)

	// Merge on the first record: party overwritten, note added.
	require.NoError(t, store.UpsertMerge(ctx, rec("2024-01-06", "party", "C", "note", "x")))

	records, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "C", records[0].Fields["party"])
	assert.Equal(t, "x", records[0].Fields["note"])
	assert.Equal(t, "B", records[1].Fields["party"])

	// A second initialize is a no-op.
	result, err = store.InitializeIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, ports.InitResultAlreadyPopulated, result)

	records, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "C", records[0].Fields["party"], "initialize must not overwrite")
}

func TestWeekendStore_UpsertCreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()

	require.NoError(t, store.UpsertMerge(ctx, rec("2024-03-02", "party", "D")))

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-02", records[0].ID)
	assert.Equal(t, "D", records[0].Fields["party"])
}

func TestWeekendStore_UpsertRejectsMissingID(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()

	err := store.UpsertMerge(ctx, weekend.Record{Fields: map[string]interface{}{"party": "A"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	records, listErr := store.ListAll(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, records, "rejected write must not mutate state")
}

func TestWeekendStore_ListAllSortsAnyInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()

	for _, id := range []string{"2024-05-04", "2024-01-06", "2024-03-02", "2024-02-03"} {
		require.NoError(t, store.UpsertMerge(ctx, rec(id)))
	}

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].ID, records[i].ID)
	}
}

func TestWeekendStore_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()
	require.NoError(t, store.UpsertMerge(ctx, rec("2024-01-06", "party", "A")))

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	records[0].Fields["party"] = "mutated"

	again, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Fields["party"], "callers must not reach the backing map")
}

func TestWeekendStore_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("2024-%02d-%02d", (i%12)+1, (w%27)+1)
				_ = store.UpsertMerge(ctx, rec(id, "worker", fmt.Sprintf("%d", w)))
				_, _ = store.ListAll(ctx)
			}
		}(w)
	}
	wg.Wait()

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].ID, records[i].ID)
	}
}

func TestWeekendStore_ConcurrentInitializeWritesOnce(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()
	seed := []weekend.Record{rec("2024-01-06", "party", "A")}

	const initializers = 8
	results := make(chan ports.InitResult, initializers)

	var wg sync.WaitGroup
	for i := 0; i < initializers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := store.InitializeIfEmpty(ctx, seed)
			assert.NoError(t, err)
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	initialized := 0
	for result := range results {
		if result == ports.InitResultInitialized {
			initialized++
		}
	}
	assert.Equal(t, 1, initialized, "exactly one initializer wins")
}

func TestWeekendStore_InitializeRejectsMissingID(t *testing.T) {
	ctx := context.Background()
	store := NewWeekendStore()

	_, err := store.InitializeIfEmpty(ctx, []weekend.Record{
		rec("2024-01-06"),
		{Fields: map[string]interface{}{"party": "A"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	records, listErr := store.ListAll(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

func testRun(id string, started time.Time) domain.DiscoveryResult {
	return domain.DiscoveryResult{
		RunID:     id,
		Mode:      domain.WorkflowManual,
		Keywords:  []string{"growth hacking"},
		Accepted:  []string{"GrowthHacking"},
		StartedAt: started,
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRun("r1", time.Now())))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"GrowthHacking"}, got.Accepted)

	// Mutating the copy must not affect the stored run.
	got.Accepted[0] = "changed"
	again, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "GrowthHacking", again.Accepted[0])
}

func TestRunStore_Get_NotFound(t *testing.T) {
	_, err := NewRunStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_List_NewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testRun("old", base)))
	require.NoError(t, store.Save(ctx, testRun("new", base.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, testRun("mid", base.Add(time.Minute))))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].RunID)
	assert.Equal(t, "mid", all[1].RunID)
	assert.Equal(t, "old", all[2].RunID)
	assert.Equal(t, "growth hacking", all[0].PrimaryKeyword)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunStore_Delete(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRun("r1", time.Now())))

	require.NoError(t, store.Delete(ctx, "r1"))
	assert.ErrorIs(t, store.Delete(ctx, "r1"), domain.ErrNotFound)

	_, err := store.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

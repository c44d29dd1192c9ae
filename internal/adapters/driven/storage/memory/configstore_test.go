package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("discovery.mode", "manual"))
	require.NoError(t, store.Set("discovery.mode", "auto_keywords"))

	val, ok := store.Get("discovery.mode")
	assert.True(t, ok)
	assert.Equal(t, "auto_keywords", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Has(t *testing.T) {
	store := NewConfigStore()
	assert.False(t, store.Has("thresholds.min_ratio"))

	require.NoError(t, store.Set("thresholds.min_ratio", 0.0))
	assert.True(t, store.Has("thresholds.min_ratio"))
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "value"))
	require.NoError(t, store.Set("n", 1))

	assert.Equal(t, "value", store.GetString("s"))
	assert.Empty(t, store.GetString("n"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 42, 42},
		{"int64", int64(7), 7},
		{"float64", 20.0, 20},
		{"wrong type", "20", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			require.NoError(t, store.Set("k", tt.value))
			assert.Equal(t, tt.want, store.GetInt("k"))
		})
	}
	assert.Zero(t, NewConfigStore().GetInt("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float64", 0.35, 0.35},
		{"float32", float32(0.5), 0.5},
		{"int", 2, 2},
		{"int64", int64(3), 3},
		{"wrong type", "0.35", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			require.NoError(t, store.Set("k", tt.value))
			assert.InDelta(t, tt.want, store.GetFloat("k"), 1e-9)
		})
	}
	assert.Zero(t, NewConfigStore().GetFloat("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("embedding.cache", true))
	require.NoError(t, store.Set("wrong", "true"))

	assert.True(t, store.GetBool("embedding.cache"))
	assert.False(t, store.GetBool("wrong"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("typed", []string{"a", "b"}))
	require.NoError(t, store.Set("decoded", []any{"a", 1, "b"}))
	require.NoError(t, store.Set("scalar", "a"))

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("typed"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("decoded"))
	assert.Nil(t, store.GetStringSlice("scalar"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveAndLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key%d", i), i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key%d", i))
			_ = store.Has(fmt.Sprintf("key%d", i))
		}()
	}
	wg.Wait()

	for i := range 50 {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key%d", i)))
	}
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}

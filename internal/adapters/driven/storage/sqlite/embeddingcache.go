package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// embeddingCache implements driven.EmbeddingCache.
// Texts are keyed by their SHA-256 so post bodies of any size share one index.
type embeddingCache struct {
	store *Store
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

// Get returns the cached vector for model and text.
func (c *embeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	var blob []byte
	var dims int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT dimensions, vector FROM embedding_cache WHERE model = ? AND text_hash = ?",
		model, textHash(text)).Scan(&dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying embedding: %w", err)
	}

	vec := bytesToFloat32Slice(blob)
	if len(vec) != dims {
		return nil, false, fmt.Errorf("cached embedding has %d values, want %d", len(vec), dims)
	}
	return vec, true, nil
}

// Put stores the vector for model and text.
func (c *embeddingCache) Put(ctx context.Context, model, text string, vector []float32) error {
	if len(vector) == 0 {
		return nil
	}
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO embedding_cache (model, text_hash, dimensions, vector, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(model, text_hash) DO UPDATE SET
			dimensions = excluded.dimensions,
			vector = excluded.vector,
			created_at = excluded.created_at
	`, model, textHash(text), len(vector), float32SliceToBytes(vector), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("saving embedding: %w", err)
	}
	return nil
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

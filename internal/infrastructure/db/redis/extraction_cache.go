package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

const extractionTTL = 24 * time.Hour

// ExtractionCache memoizes voice extraction results in Redis keyed by
// a hash of the transcript, so re-submitting the same recording does
// not re-invoke the external language service.
// Key format: voice:extract:<sha256(transcript)>
type ExtractionCache struct {
	client *redis.Client
}

// NewExtractionCache wraps the given Redis client.
func NewExtractionCache(client *redis.Client) *ExtractionCache {
	return &ExtractionCache{client: client}
}

// Get returns the cached updates for transcript, if present.
func (c *ExtractionCache) Get(ctx context.Context, transcript string) ([]ports.HabitUpdate, bool, error) {
	blob, err := c.client.Get(ctx, c.key(transcript)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("extraction cache get: %w", err)
	}
	var updates []ports.HabitUpdate
	if err := json.Unmarshal(blob, &updates); err != nil {
		return nil, false, fmt.Errorf("extraction cache decode: %w", err)
	}
	return updates, true, nil
}

// Set records the extraction result for transcript (expires after 24h).
func (c *ExtractionCache) Set(ctx context.Context, transcript string, updates []ports.HabitUpdate) error {
	blob, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("extraction cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(transcript), blob, extractionTTL).Err()
}

func (c *ExtractionCache) key(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return "voice:extract:" + hex.EncodeToString(sum[:])
}

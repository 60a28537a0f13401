package ports

import "context"

// BackingStore is the opaque durable keyspace the record store mirrors
// itself into. Implementations must treat Set as a full overwrite of
// the named blob.
type BackingStore interface {
	// Get returns the blob stored under key. ok is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (blob []byte, ok bool, err error)
	Set(ctx context.Context, key string, blob []byte) error
	RemoveMany(ctx context.Context, keys []string) error
}

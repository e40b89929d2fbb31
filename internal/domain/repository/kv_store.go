package repository

import "context"

// UpdateFunc receives the current value of a key (exists is false when the
// key is absent) and returns the value to store.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// KeyValueStore is the local persistence area: opaque values under string keys.
// Update must run its read-modify-write atomically with respect to other
// writers of the same store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Delete(ctx context.Context, key string) error
	Close() error
}

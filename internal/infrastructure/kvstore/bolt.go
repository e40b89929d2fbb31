package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/sangkips/scanpay/internal/domain/repository"
)

type boltStore struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltStore opens an embedded bbolt file. Every Update runs in one bolt
// write transaction, so concurrent read-modify-write cycles cannot interleave.
func NewBoltStore(path, bucket string) (repository.KeyValueStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create bolt directory")
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt file %s", path)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create bucket %s", bucket)
	}

	return &boltStore{db: db, bucket: []byte(bucket)}, nil
}

func (s *boltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v != nil {
			// bolt memory is only valid inside the transaction
			value = cloneBytes(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "bolt get %s", key)
	}
	return value, found, nil
}

func (s *boltStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		current := b.Get([]byte(key))
		next, err := fn(cloneBytes(current), current != nil)
		if err != nil {
			return err
		}
		return errors.Wrapf(b.Put([]byte(key), next), "bolt put %s", key)
	})
}

func (s *boltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
	return errors.Wrapf(err, "bolt delete %s", key)
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

package kvstore

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/sangkips/scanpay/internal/domain/repository"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore keeps values under "<prefix>:<key>". Updates use
// WATCH/MULTI/EXEC and retry when another client touched the key.
func NewRedisStore(ctx context.Context, opts *redis.Options, prefix string) (repository.KeyValueStore, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", opts.Addr)
	}
	return &redisStore{client: client, prefix: prefix}, nil
}

func (s *redisStore) name(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.name(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}
	return v, true, nil
}

func (s *redisStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	name := s.name(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, name).Bytes()
		exists := true
		if stderrors.Is(err, redis.Nil) {
			exists = false
		} else if err != nil {
			return err
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, name, next, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, name)
		if err == nil {
			return nil
		}
		if stderrors.Is(err, redis.TxFailedErr) {
			continue
		}
		return errors.Wrapf(err, "redis update %s", key)
	}
	return errors.Wrapf(redis.TxFailedErr, "redis update %s after %d attempts", key, maxCASAttempts)
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(s.client.Del(ctx, s.name(key)).Err(), "redis del %s", key)
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

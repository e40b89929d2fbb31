package kvstore

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/scanpay/internal/domain/entity"
	"github.com/sangkips/scanpay/internal/domain/repository"
)

const maxCASAttempts = 8

// errVersionConflict signals that another writer won the race for a key
var errVersionConflict = stderrors.New("kv entry version changed concurrently")

type gormStore struct {
	db *gorm.DB
}

// NewGormStore keeps values in the kv_entries table of a SQL database. Updates
// are compare-and-swap on the row version and retried on conflict.
func NewGormStore(db *gorm.DB) repository.KeyValueStore {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, found, err := s.load(s.db.WithContext(ctx), key)
	if err != nil || !found {
		return nil, false, err
	}
	return e.Value, true, nil
}

func (s *gormStore) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		err := s.tryUpdate(ctx, key, fn)
		if !stderrors.Is(err, errVersionConflict) {
			return err
		}
	}
	return errors.Wrapf(errVersionConflict, "update kv entry %s after %d attempts", key, maxCASAttempts)
}

func (s *gormStore) tryUpdate(ctx context.Context, key string, fn repository.UpdateFunc) error {
	db := s.db.WithContext(ctx)

	current, exists, err := s.load(db, key)
	if err != nil {
		return err
	}

	next, err := fn(current.Value, exists)
	if err != nil {
		return err
	}

	if !exists {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entity.KVEntry{
			Key:       key,
			Value:     next,
			Version:   1,
			UpdatedAt: time.Now(),
		})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "insert kv entry %s", key)
		}
		if res.RowsAffected == 0 {
			return errVersionConflict
		}
		return nil
	}

	res := db.Model(&entity.KVEntry{}).
		Where("entry_key = ? AND version = ?", key, current.Version).
		Updates(map[string]interface{}{
			"entry_value": next,
			"version":     current.Version + 1,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update kv entry %s", key)
	}
	if res.RowsAffected == 0 {
		return errVersionConflict
	}
	return nil
}

// load reads one row; a missing key is not an error
func (s *gormStore) load(db *gorm.DB, key string) (entity.KVEntry, bool, error) {
	var rows []entity.KVEntry
	if err := db.Where("entry_key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return entity.KVEntry{}, false, errors.Wrapf(err, "select kv entry %s", key)
	}
	if len(rows) == 0 {
		return entity.KVEntry{}, false, nil
	}
	return rows[0], true, nil
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&entity.KVEntry{}).Error
	return errors.Wrapf(err, "delete kv entry %s", key)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

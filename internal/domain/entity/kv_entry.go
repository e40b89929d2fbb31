package entity

import "time"

// KVEntry is one key of the local key-value area when it lives in a SQL
// database. Version increases on every write and guards concurrent updates.
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:255" json:"key"`
	Value     []byte    `gorm:"column:entry_value" json:"-"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the KVEntry model
func (KVEntry) TableName() string {
	return "kv_entries"
}

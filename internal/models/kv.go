package models

import "time"

// KVEntry is one row of the key-value table backing the relational stores
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for KVEntry
func (KVEntry) TableName() string {
	return "kv_entries"
}

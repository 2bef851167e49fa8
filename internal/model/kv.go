// Package model contains the gorm models backing the SQL implementation of the key-value store.
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StringEntry is a plain string value stored under a key.
type StringEntry struct {
	Key       string `json:"key" gorm:"column:entry_key;primaryKey"`
	Value     string `json:"value" gorm:"not null"`
	UpdatedAt time.Time
}

// HashEntry is a hash stored under a key.
// All of its fields are kept in a single JSON column.
type HashEntry struct {
	Key       string            `json:"key" gorm:"column:entry_key;primaryKey"`
	Fields    datatypes.JSONMap `json:"fields" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// ListItem is one element of a list stored under a key.
// The head of the list is the item with the highest ID.
type ListItem struct {
	gorm.Model

	Key   string `json:"key" gorm:"column:entry_key;index;not null"`
	Value string `json:"value" gorm:"not null"`
}

package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/model"
	"github.com/tidwall/match"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SQL is a Store kept in a relational database through gorm.
// Strings, hashes and lists live in separate tables; see package model.
type SQL struct {
	db      *gorm.DB
	timeout time.Duration
	logger  *zap.Logger
}

// NewSQL creates a Store on top of an already migrated database.
func NewSQL(db *gorm.DB, timeout time.Duration, logger *zap.Logger) *SQL {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQL{db: db, timeout: timeout, logger: logger}
}

func (s *SQL) withTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// Set stores a string value at key.
func (s *SQL) Set(ctx context.Context, key, value string) bool {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := tx.Save(&model.StringEntry{Key: key, Value: value}).Error; err != nil {
		s.logger.Warn("failed to set key", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool) {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	var e model.StringEntry
	if err := tx.Where("entry_key = ?", key).First(&e).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to get key", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return e.Value, true
}

func (s *SQL) HSet(ctx context.Context, key string, fieldValues ...string) bool {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := tx.Transaction(func(tx *gorm.DB) error {
		var h model.HashEntry
		err := tx.Where("entry_key = ?", key).First(&h).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			h = model.HashEntry{Key: key, Fields: datatypes.JSONMap{}}
		case err != nil:
			return err
		}
		if h.Fields == nil {
			h.Fields = datatypes.JSONMap{}
		}
		for f, v := range pairs(fieldValues) {
			h.Fields[f] = v
		}
		return tx.Save(&h).Error
	})
	if err != nil {
		s.logger.Warn("failed to set hash fields", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// HGetAll returns all fields of the hash at key.
func (s *SQL) HGetAll(ctx context.Context, key string) (map[string]string, bool) {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	var h model.HashEntry
	if err := tx.Where("entry_key = ?", key).First(&h).Error; err != nil {
		return nil, false
	}
	out := make(map[string]string, len(h.Fields))
	for f, v := range h.Fields {
		if str, ok := v.(string); ok {
			out[f] = str
		}
	}
	return out, true
}

func (s *SQL) LPush(ctx context.Context, key, value string) bool {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := tx.Create(&model.ListItem{Key: key, Value: value}).Error; err != nil {
		s.logger.Warn("failed to push list item", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// LRange returns the whole list at key, head first.
func (s *SQL) LRange(ctx context.Context, key string) []string {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	var items []model.ListItem
	if err := tx.Where("entry_key = ?", key).Order("id DESC").Find(&items).Error; err != nil {
		return nil
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

func (s *SQL) Keys(ctx context.Context, pattern string) ([]string, bool) {
	tx, cancel := s.withTimeout(ctx)
	defer cancel()

	seen := make(map[string]struct{})
	for _, m := range []any{&model.StringEntry{}, &model.HashEntry{}, &model.ListItem{}} {
		var keys []string
		if err := tx.Model(m).Distinct("entry_key").Pluck("entry_key", &keys).Error; err != nil {
			s.logger.Warn("failed to scan keys", zap.String("pattern", pattern), zap.Error(err))
			return nil, false
		}
		for _, k := range keys {
			if match.Match(k, pattern) {
				seen[k] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, true
}

// Close releases the underlying database connection pool.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

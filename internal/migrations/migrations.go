// Package migrations creates and updates the schema of the sql store backend.
package migrations

import (
	"fmt"

	"github.com/ada-mcp/ada-mcp-tools/internal/model"
	"gorm.io/gorm"
)

// Migrate runs the schema migrations for all store models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.StringEntry{},
		&model.HashEntry{},
		&model.ListItem{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

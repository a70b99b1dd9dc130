package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Membership lookups by node and by user
		{"node_members", "idx_node_members_node_id", "node_id"},
		{"node_members", "idx_node_members_user_id", "user_id"},
		// Owner-count checks scan (node_id, role)
		{"node_members", "idx_node_members_node_role", "node_id, role"},

		// Invitation lookups by node and by token
		{"invitations", "idx_invitations_node_id", "node_id"},

		// Audit log reads are newest-first per node
		{"audit_logs", "idx_audit_logs_node_created", "node_id, created_at"},
	}

	for _, idx := range indexes {
		exists, err := indexExists(db, idx.table, idx.name)
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if exists {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// indexExists consults the engine's index catalog. mysql and postgres keep
// it in different places.
func indexExists(db *gorm.DB, table, name string) (bool, error) {
	var count int64
	var err error

	switch db.Dialector.Name() {
	case "postgres":
		err = db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, table, name).Count(&count).Error
	default:
		err = db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_name = ? AND index_name = ?
		`, table, name).Count(&count).Error
	}

	return count > 0, err
}

package database

import (
	"fmt"

	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
)

// compositeIndex is an index AutoMigrate cannot derive from struct tags.
type compositeIndex struct {
	model   any
	name    string
	columns string
}

var compositeIndexes = []compositeIndex{
	// Task list: project + completion is on every query, deadline orders it.
	{&models.Task{}, "idx_tasks_project_completed_deadline", "project_id, is_completed, deadline"},
	// Worker search orders by name.
	{&models.Worker{}, "idx_workers_last_first_name", "last_name, first_name"},
}

// AddIndexes creates the composite indexes that are missing.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			logging.Logger.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.Logger.Infof("Created index %s on %s(%s)", idx.name, stmt.Schema.Table, idx.columns)
	}

	return nil
}

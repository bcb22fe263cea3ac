// Package sqlitestore implements the fallback store on a local SQLite file.
// The slot is a single fixed-id row whose payload is the JSON-encoded
// simulation result; every save upserts that row.
package sqlitestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

const slotID = 1

type slotRow struct {
	ID           uint           `gorm:"primarykey"`
	SimulationID string         `gorm:"column:simulation_id"`
	SavedAt      time.Time      `gorm:"column:saved_at"`
	Payload      datatypes.JSON `gorm:"column:payload"`
}

func (slotRow) TableName() string {
	return "saved_simulation"
}

// Backend persists the slot in a SQLite database at a fixed path.
type Backend struct {
	db  *gorm.DB
	log *slog.Logger
}

// New opens (or creates) the database at path and migrates the slot table.
func New(path string, log *slog.Logger) (*Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store requires a path")
	}
	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite store: %w", err)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&slotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate slot table: %w", err)
	}

	return &Backend{db: db, log: log}, nil
}

// Save overwrites the slot with rec.
func (b *Backend) Save(rec core.StoredSimulation) error {
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to encode simulation result: %w", err)
	}

	row := slotRow{
		ID:           slotID,
		SimulationID: rec.SimulationID,
		SavedAt:      rec.SavedAt,
		Payload:      datatypes.JSON(payload),
	}
	err = b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}

	b.log.Debug("fallback slot saved", "simulation", rec.SimulationID, "backend", "sqlite")
	return nil
}

// Load returns the slot contents, or (nil, nil) when the slot is empty or
// the payload no longer decodes.
func (b *Backend) Load() (*core.StoredSimulation, error) {
	var row slotRow
	err := b.db.First(&row, slotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}

	var result core.SimulationResult
	if err := json.Unmarshal(row.Payload, &result); err != nil {
		b.log.Warn("fallback slot payload is corrupted, ignoring", "error", err)
		return nil, nil
	}

	return &core.StoredSimulation{
		SimulationID: row.SimulationID,
		SavedAt:      row.SavedAt,
		Result:       result,
	}, nil
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

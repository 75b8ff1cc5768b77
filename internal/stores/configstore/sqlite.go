// Package configstore persists per-farm crop configuration in SQLite.
package configstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agrifog/agrimind/internal/model"
	"github.com/agrifog/agrimind/internal/model/entities"
)

// Store reads and writes CropConfig records. A farm that was never configured
// gets a default record materialized on first read.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open config db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate config db: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crop_configs (
		farm_id            TEXT PRIMARY KEY,
		crop_type          TEXT NOT NULL,
		soil_type          TEXT NOT NULL,
		growth_stage       TEXT NOT NULL,
		field_area_sqm     REAL NOT NULL,
		sprinkler_flow_lpm REAL NOT NULL,
		threshold_overrides TEXT,
		updated_at         TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the config for a farm, creating the default record if none
// exists yet.
func (s *Store) Get(ctx context.Context, farmID string) (model.CropConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT crop_type, soil_type, growth_stage, field_area_sqm, sprinkler_flow_lpm, threshold_overrides, updated_at
		FROM crop_configs WHERE farm_id = ?`, farmID)

	var (
		cfg       model.CropConfig
		overrides sql.NullString
		updatedAt string
	)
	cfg.FarmID = farmID
	err := row.Scan(&cfg.CropType, &cfg.SoilType, &cfg.GrowthStage, &cfg.FieldAreaSqm, &cfg.SprinklerFlowLpm, &overrides, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		def := entities.DefaultCropConfig(farmID)
		if err := s.Update(ctx, def); err != nil {
			return model.CropConfig{}, err
		}
		return def, nil
	}
	if err != nil {
		return model.CropConfig{}, fmt.Errorf("read config %s: %w", farmID, err)
	}

	if overrides.Valid && overrides.String != "" {
		if err := json.Unmarshal([]byte(overrides.String), &cfg.ThresholdOverrides); err != nil {
			return model.CropConfig{}, fmt.Errorf("decode overrides %s: %w", farmID, err)
		}
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		cfg.UpdatedAt = t
	}
	return cfg, nil
}

// Update validates and upserts a config record. Threshold overrides that
// break the ordering invariant are rejected here, at write time.
func (s *Store) Update(ctx context.Context, cfg model.CropConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var overrides any
	if len(cfg.ThresholdOverrides) > 0 {
		b, err := json.Marshal(cfg.ThresholdOverrides)
		if err != nil {
			return fmt.Errorf("encode overrides: %w", err)
		}
		overrides = string(b)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crop_configs (farm_id, crop_type, soil_type, growth_stage, field_area_sqm, sprinkler_flow_lpm, threshold_overrides, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(farm_id) DO UPDATE SET
			crop_type = excluded.crop_type,
			soil_type = excluded.soil_type,
			growth_stage = excluded.growth_stage,
			field_area_sqm = excluded.field_area_sqm,
			sprinkler_flow_lpm = excluded.sprinkler_flow_lpm,
			threshold_overrides = excluded.threshold_overrides,
			updated_at = excluded.updated_at`,
		cfg.FarmID, cfg.CropType, cfg.SoilType, string(cfg.GrowthStage),
		cfg.FieldAreaSqm, cfg.SprinklerFlowLpm, overrides, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write config %s: %w", cfg.FarmID, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

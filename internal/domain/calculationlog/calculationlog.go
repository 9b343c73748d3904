// Package calculationlog implements CalculationLog, the opaque provenance pointer
// DynamicOperatingEnvelope and TariffGeneratedRate rows optionally reference through
// calculation_log_id. The core stores and returns it but never interprets its contents
// (SPEC_FULL.md §3 EXPANSION, grounded on original_source's calculation_log table).
package calculationlog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CalculationLog records which external run (a forecasting/optimisation batch job, typically)
// produced a set of DOEs or generated rates.
type CalculationLog struct {
	CalculationLogID uint32    `gorm:"column:calculation_log_id;primaryKey;autoIncrement"`
	Description      string    `gorm:"column:description;type:varchar(256)"`
	ExternalID        string    `gorm:"column:external_id;type:varchar(64);index"`
	CreatedTime       time.Time `gorm:"column:created_time"`
}

func (CalculationLog) TableName() string { return "calculation_log" }

// Create inserts a new calculation log entry.
func Create(ctx context.Context, db *gorm.DB, description, externalID string, now time.Time) (*CalculationLog, error) {
	l := CalculationLog{Description: description, ExternalID: externalID, CreatedTime: now}
	if err := db.WithContext(ctx).Create(&l).Error; err != nil {
		return nil, fmt.Errorf("failed to create calculation log: %w", err)
	}
	return &l, nil
}

// Get fetches a single calculation log by id.
func Get(ctx context.Context, db *gorm.DB, id uint32) (*CalculationLog, error) {
	var l CalculationLog
	if err := db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// List pages through calculation logs, most recent first.
func List(ctx context.Context, db *gorm.DB, start, limit int) ([]CalculationLog, error) {
	var rows []CalculationLog
	err := db.WithContext(ctx).Order("calculation_log_id DESC").Offset(start).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list calculation logs: %w", err)
	}
	return rows, nil
}

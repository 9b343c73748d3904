// Package serverconfig implements RuntimeServerConfig, the single-row table of
// deployment-wide knobs spec.md §5 describes as "module-singletonish" - modelled here as a
// process-wide value with an explicit get/update lifecycle rather than read implicitly.
package serverconfig

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RuntimeServerConfig is the server's single configuration row; its absence is equivalent to
// every field at its zero value (spec.md §6.4).
type RuntimeServerConfig struct {
	ID                      uint32 `gorm:"column:id;primaryKey"`
	SiteControlPow10Encoding int32  `gorm:"column:site_control_pow10_encoding"`
	EDevListPollRateSeconds  uint32 `gorm:"column:edevl_pollrate_seconds"`
	FSAListPollRateSeconds   uint32 `gorm:"column:fsal_pollrate_seconds"`
	DisableEDevRegistration  bool   `gorm:"column:disable_edev_registration"`
	ChangedTime              time.Time `gorm:"column:changed_time"`
}

func (RuntimeServerConfig) TableName() string { return "runtime_server_config" }

// singletonID is the fixed primary key of the one row this table ever holds.
const singletonID = 1

// Defaults returns the all-defaults config used when no row has been written yet.
func Defaults() RuntimeServerConfig {
	return RuntimeServerConfig{ID: singletonID}
}

// GetCurrent returns the current runtime config, or Defaults() if no row exists.
func GetCurrent(ctx context.Context, db *gorm.DB) (RuntimeServerConfig, error) {
	var c RuntimeServerConfig
	err := db.WithContext(ctx).First(&c, singletonID).Error
	if err == gorm.ErrRecordNotFound {
		return Defaults(), nil
	}
	if err != nil {
		return RuntimeServerConfig{}, fmt.Errorf("failed to load runtime server config: %w", err)
	}
	return c, nil
}

// UpdateCurrent overwrites the single config row, returning the prior value so callers can
// detect an edevl/fsal poll-rate change and fire the corresponding notification sweep.
func UpdateCurrent(ctx context.Context, db *gorm.DB, next RuntimeServerConfig, now time.Time) (prior RuntimeServerConfig, err error) {
	next.ID = singletonID
	next.ChangedTime = now

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing RuntimeServerConfig
		err := tx.First(&existing, singletonID).Error
		switch {
		case err == nil:
			prior = existing
			return tx.Save(&next).Error
		case err == gorm.ErrRecordNotFound:
			prior = Defaults()
			return tx.Create(&next).Error
		default:
			return fmt.Errorf("failed to look up existing runtime server config: %w", err)
		}
	})
	if txErr != nil {
		return RuntimeServerConfig{}, txErr
	}
	return prior, nil
}

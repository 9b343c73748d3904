package reading

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sep2utility/internal/domain/archive"
)

// FetchSiteReadingTypeForAggregator fetches a SiteReadingType by id, scoped to
// aggregatorID and (if siteID is non-nil) to a specific site. Returns gorm.ErrRecordNotFound
// if it doesn't exist or isn't owned by the caller.
func FetchSiteReadingTypeForAggregator(ctx context.Context, db *gorm.DB, aggregatorID int64, siteReadingTypeID uint64, siteID *uint32) (*SiteReadingType, error) {
	query := db.WithContext(ctx).
		Where("site_reading_type_id = ? AND aggregator_id = ?", siteReadingTypeID, aggregatorID)
	if siteID != nil {
		query = query.Where("site_id = ?", *siteID)
	}

	var t SiteReadingType
	if err := query.First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CountSiteReadingTypesForAggregator counts SiteReadingTypes owned by aggregatorID (scoped
// to the sites still assigned to it), optionally narrowed to siteID.
func CountSiteReadingTypesForAggregator(ctx context.Context, db *gorm.DB, aggregatorID int64, siteID *uint32, changedAfter time.Time) (int64, error) {
	query := db.WithContext(ctx).Model(&SiteReadingType{}).
		Joins("JOIN site ON site.site_id = site_reading_type.site_id").
		Where("site_reading_type.aggregator_id = ? AND site_reading_type.changed_time >= ? AND site.aggregator_id = ?",
			aggregatorID, changedAfter, aggregatorID)
	if siteID != nil {
		query = query.Where("site_reading_type.site_id = ?", *siteID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count site reading types: %w", err)
	}
	return count, nil
}

// FetchSiteReadingTypesPageForAggregator pages through SiteReadingTypes owned by
// aggregatorID, ordered id DESC to match 2030.5 MirrorUsagePoint list ordering.
func FetchSiteReadingTypesPageForAggregator(ctx context.Context, db *gorm.DB, aggregatorID int64, siteID *uint32, start, limit int, changedAfter time.Time) ([]SiteReadingType, error) {
	query := db.WithContext(ctx).
		Joins("JOIN site ON site.site_id = site_reading_type.site_id").
		Where("site_reading_type.aggregator_id = ? AND site_reading_type.changed_time >= ? AND site.aggregator_id = ?",
			aggregatorID, changedAfter, aggregatorID).
		Order("site_reading_type.site_reading_type_id DESC").
		Offset(start).
		Limit(limit)
	if siteID != nil {
		query = query.Where("site_reading_type.site_id = ?", *siteID)
	}

	var types []SiteReadingType
	if err := query.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch site reading types: %w", err)
	}
	return types, nil
}

// UpsertSiteReadingTypeForAggregator creates or reuses the SiteReadingType matching srt's
// full semantic tuple, archiving any matching prior row and bumping its changed_time, and
// returning the resulting primary key.
func UpsertSiteReadingTypeForAggregator(ctx context.Context, db *gorm.DB, aggregatorID int64, srt SiteReadingType) (uint64, error) {
	if aggregatorID != srt.AggregatorID {
		return 0, fmt.Errorf("aggregator_id %d mismatches site_reading_type.aggregator_id %d", aggregatorID, srt.AggregatorID)
	}

	var result uint64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteReadingType
		err := tx.Where(
			`aggregator_id = ? AND site_id = ? AND uom = ? AND data_qualifier = ? AND flow_direction = ? AND
			 accumulation_behaviour = ? AND kind = ? AND phase = ? AND power_of_ten_multiplier = ? AND
			 default_interval_seconds = ? AND role_flags = ?`,
			srt.AggregatorID, srt.SiteID, srt.UOM, srt.DataQualifier, srt.FlowDirection,
			srt.AccumulationBehaviour, srt.Kind, srt.Phase, srt.PowerOfTenMultiplier,
			srt.DefaultIntervalSeconds, srt.RoleFlags,
		).First(&existing).Error

		switch {
		case err == nil:
			if err := archive.ArchiveUpdate(ctx, tx, []SiteReadingType{existing}, SiteReadingTypeToArchive, srt.ChangedTime, func(innerTx *gorm.DB) error {
				return innerTx.Model(&SiteReadingType{}).Where("site_reading_type_id = ?", existing.SiteReadingTypeID).
					Update("changed_time", srt.ChangedTime).Error
			}); err != nil {
				return err
			}
			result = existing.SiteReadingTypeID
			return nil
		case err == gorm.ErrRecordNotFound:
			if err := tx.Create(&srt).Error; err != nil {
				return fmt.Errorf("failed to insert site reading type: %w", err)
			}
			result = srt.SiteReadingTypeID
			return nil
		default:
			return fmt.Errorf("failed to look up existing site reading type: %w", err)
		}
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// UpsertSiteReadings inserts siteReadings, archiving then deleting any existing row sharing
// (site_reading_type_id, time_period_start) with an incoming one first. Every row in
// siteReadings must already carry a valid SiteReadingTypeID.
func UpsertSiteReadings(ctx context.Context, db *gorm.DB, now time.Time, siteReadings []SiteReading) error {
	if len(siteReadings) == 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicts []SiteReading
		for _, sr := range siteReadings {
			var existing []SiteReading
			if err := tx.Where("site_reading_type_id = ? AND time_period_start = ?", sr.SiteReadingTypeID, sr.TimePeriodStart).
				Find(&existing).Error; err != nil {
				return fmt.Errorf("failed to look up conflicting readings: %w", err)
			}
			conflicts = append(conflicts, existing...)
		}

		if len(conflicts) > 0 {
			ids := make([]uint64, len(conflicts))
			for i, c := range conflicts {
				ids[i] = c.SiteReadingID
			}
			if err := archive.DeleteIntoArchive(ctx, tx, conflicts, SiteReadingToArchive, now, func(innerTx *gorm.DB) error {
				return innerTx.Delete(&SiteReading{}, ids).Error
			}); err != nil {
				return err
			}
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&siteReadings).Error; err != nil {
			return fmt.Errorf("failed to insert site readings: %w", err)
		}
		return nil
	})
}

// DeleteSiteReadingTypeForAggregator deletes a SiteReadingType and every SiteReading
// descending from it, archiving both, after first verifying it's owned by aggregatorID (and,
// if siteID is non-nil, scoped to that site). Returns false if no matching type exists.
func DeleteSiteReadingTypeForAggregator(ctx context.Context, db *gorm.DB, aggregatorID int64, siteID *uint32, siteReadingTypeID uint64, deletedTime time.Time) (bool, error) {
	srt, err := FetchSiteReadingTypeForAggregator(ctx, db, aggregatorID, siteReadingTypeID, siteID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var readings []SiteReading
		if err := tx.Where("site_reading_type_id = ?", srt.SiteReadingTypeID).Find(&readings).Error; err != nil {
			return fmt.Errorf("failed to find readings to delete: %w", err)
		}
		if len(readings) > 0 {
			if err := archive.DeleteIntoArchive(ctx, tx, readings, SiteReadingToArchive, deletedTime, func(innerTx *gorm.DB) error {
				return innerTx.Where("site_reading_type_id = ?", srt.SiteReadingTypeID).Delete(&SiteReading{}).Error
			}); err != nil {
				return err
			}
		}

		return archive.DeleteIntoArchive(ctx, tx, []SiteReadingType{*srt}, SiteReadingTypeToArchive, deletedTime, func(innerTx *gorm.DB) error {
			return innerTx.Delete(&SiteReadingType{}, srt.SiteReadingTypeID).Error
		})
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadingBatchKey groups SiteReading rows for notification purposes: one batch per
// (aggregator, site, reading type), mirroring the other resource families' fetch-by-batch
// functions used by the notification batcher's check_db_change_or_delete entry point.
type ReadingBatchKey struct {
	AggregatorID      int64
	SiteID            uint32
	SiteReadingTypeID uint64
}

type readingWithOwner struct {
	SiteReading
	AggregatorID int64
	SiteID       uint32
}

type archiveReadingWithOwner struct {
	ArchiveSiteReading
	AggregatorID int64
	SiteID       uint32
}

// FetchReadingsChangedAt returns SiteReading rows whose changed_time equals timestamp
// exactly, grouped by ReadingBatchKey. SiteReading itself carries no aggregator_id/site_id;
// both are resolved through the owning SiteReadingType.
func FetchReadingsChangedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[ReadingBatchKey][]SiteReading, error) {
	var rows []readingWithOwner
	err := db.WithContext(ctx).Table("site_reading").
		Select("site_reading.*, site_reading_type.aggregator_id AS aggregator_id, site_reading_type.site_id AS site_id").
		Joins("JOIN site_reading_type ON site_reading_type.site_reading_type_id = site_reading.site_reading_type_id").
		Where("site_reading.changed_time = ?", timestamp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch changed site readings: %w", err)
	}

	batches := make(map[ReadingBatchKey][]SiteReading)
	for _, row := range rows {
		key := ReadingBatchKey{AggregatorID: row.AggregatorID, SiteID: row.SiteID, SiteReadingTypeID: row.SiteReadingTypeID}
		batches[key] = append(batches[key], row.SiteReading)
	}
	return batches, nil
}

// FetchReadingsDeletedAt returns ArchiveSiteReading rows whose deleted_time equals
// timestamp exactly, grouped by ReadingBatchKey. The owning reading type is resolved by
// joining the current site_reading_type table, approximating the point-in-time
// aggregator/site ownership since the archive row carries no such columns of its own.
func FetchReadingsDeletedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[ReadingBatchKey][]ArchiveSiteReading, error) {
	var rows []archiveReadingWithOwner
	err := db.WithContext(ctx).Table("archive_site_reading").
		Select("archive_site_reading.*, site_reading_type.aggregator_id AS aggregator_id, site_reading_type.site_id AS site_id").
		Joins("JOIN site_reading_type ON site_reading_type.site_reading_type_id = archive_site_reading.site_reading_type_id").
		Where("archive_site_reading.deleted_time = ?", timestamp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deleted site readings: %w", err)
	}

	batches := make(map[ReadingBatchKey][]ArchiveSiteReading)
	for _, row := range rows {
		key := ReadingBatchKey{AggregatorID: row.AggregatorID, SiteID: row.SiteID, SiteReadingTypeID: row.SiteReadingTypeID}
		batches[key] = append(batches[key], row.ArchiveSiteReading)
	}
	return batches, nil
}

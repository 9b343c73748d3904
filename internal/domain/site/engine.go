package site

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/archive"
	"sep2utility/internal/shared/errors"
)

// RegisterSite inserts a newly provisioned Site. Callers are responsible for populating
// AggregatorID (the null aggregator sentinel for a device-cert site) and stamping
// CreatedTime/ChangedTime.
func RegisterSite(ctx context.Context, db *gorm.DB, s *Site) error {
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to register site: %w", err)
	}
	return nil
}

// SelectSiteByLFDI looks up a site by its unique LFDI.
func SelectSiteByLFDI(ctx context.Context, db *gorm.DB, lfdi string) (*Site, error) {
	var s Site
	if err := db.WithContext(ctx).Where("lfdi = ?", lfdi).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SelectSiteBySFDIAndAggregator looks up a site by its (aggregator_id, sfdi) unique pair.
func SelectSiteBySFDIAndAggregator(ctx context.Context, db *gorm.DB, sfdi uint64, aggregatorID int64) (*Site, error) {
	var s Site
	err := db.WithContext(ctx).
		Where("sfdi = ? AND aggregator_id = ?", sfdi, aggregatorID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSite fetches a single site by id, unscoped by aggregator - the admin surface's
// equivalent of SelectSiteByLFDI/SelectSiteBySFDIAndAggregator for a caller that already
// knows the numeric id.
func GetSite(ctx context.Context, db *gorm.DB, siteID uint32) (*Site, error) {
	var s Site
	if err := db.WithContext(ctx).First(&s, siteID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// EnumerateAllSites pages through every site across all aggregators, for the unscoped
// admin listing (spec.md §6.2 "CRUD on ... sites").
func EnumerateAllSites(ctx context.Context, db *gorm.DB, start, limit int) ([]Site, error) {
	var sites []Site
	err := db.WithContext(ctx).Order("site_id ASC").Offset(start).Limit(limit).Find(&sites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate sites: %w", err)
	}
	return sites, nil
}

// UpdateSite applies admin-supplied field changes to an existing site, archiving its
// pre-image first.
func UpdateSite(ctx context.Context, db *gorm.DB, siteID uint32, nmi *string, timezoneID string, deviceCategory DeviceCategory, now time.Time) error {
	if nmi != nil && *nmi != "" && !ValidNMIShape(*nmi) {
		return errors.NewValidationError("nmi does not have a valid National Metering Identifier shape")
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Site
		if err := tx.First(&existing, siteID).Error; err != nil {
			return err
		}
		if err := archive.CopyIntoArchive(ctx, tx, []Site{existing}, ToArchive, now); err != nil {
			return err
		}
		existing.NMI = nmi
		existing.TimezoneID = timezoneID
		existing.DeviceCategory = deviceCategory
		existing.ChangedTime = now
		return tx.Save(&existing).Error
	})
}

// EnumerateSites pages through the sites owned by aggregatorID, ordered by site_id ASC.
func EnumerateSites(ctx context.Context, db *gorm.DB, aggregatorID int64, start, limit int) ([]Site, error) {
	var sites []Site
	err := db.WithContext(ctx).
		Where("aggregator_id = ?", aggregatorID).
		Order("site_id ASC").
		Offset(start).
		Limit(limit).
		Find(&sites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate sites: %w", err)
	}
	return sites, nil
}

// DeleteSite archives then removes a site and every one of its DER child rows, matching the
// cascade-into-archives lifecycle: "deleted cascades through all child tables into their
// archives".
func DeleteSite(ctx context.Context, db *gorm.DB, siteID uint32, deletedTime time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var der SiteDER
		err := tx.Where("site_id = ?", siteID).First(&der).Error
		switch {
		case err == nil:
			if err := deleteSiteDERTree(ctx, tx, der, deletedTime); err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			// no DER attached to this site
		default:
			return fmt.Errorf("failed to look up site DER for cascade delete: %w", err)
		}

		var s Site
		if err := tx.First(&s, siteID).Error; err != nil {
			return fmt.Errorf("failed to look up site for delete: %w", err)
		}
		return archive.DeleteIntoArchive(ctx, tx, []Site{s}, ToArchive, deletedTime, func(innerTx *gorm.DB) error {
			return innerTx.Delete(&Site{}, siteID).Error
		})
	})
}

func deleteSiteDERTree(ctx context.Context, tx *gorm.DB, der SiteDER, deletedTime time.Time) error {
	var ratings []SiteDERRating
	if err := tx.Where("site_der_id = ?", der.SiteDERID).Find(&ratings).Error; err != nil {
		return err
	}
	if len(ratings) > 0 {
		if err := archive.DeleteIntoArchive(ctx, tx, ratings, SiteDERRatingToArchive, deletedTime, func(innerTx *gorm.DB) error {
			return innerTx.Where("site_der_id = ?", der.SiteDERID).Delete(&SiteDERRating{}).Error
		}); err != nil {
			return err
		}
	}

	var settings []SiteDERSetting
	if err := tx.Where("site_der_id = ?", der.SiteDERID).Find(&settings).Error; err != nil {
		return err
	}
	if len(settings) > 0 {
		if err := archive.DeleteIntoArchive(ctx, tx, settings, SiteDERSettingToArchive, deletedTime, func(innerTx *gorm.DB) error {
			return innerTx.Where("site_der_id = ?", der.SiteDERID).Delete(&SiteDERSetting{}).Error
		}); err != nil {
			return err
		}
	}

	var availabilities []SiteDERAvailability
	if err := tx.Where("site_der_id = ?", der.SiteDERID).Find(&availabilities).Error; err != nil {
		return err
	}
	if len(availabilities) > 0 {
		if err := archive.DeleteIntoArchive(ctx, tx, availabilities, SiteDERAvailabilityToArchive, deletedTime, func(innerTx *gorm.DB) error {
			return innerTx.Where("site_der_id = ?", der.SiteDERID).Delete(&SiteDERAvailability{}).Error
		}); err != nil {
			return err
		}
	}

	var statuses []SiteDERStatus
	if err := tx.Where("site_der_id = ?", der.SiteDERID).Find(&statuses).Error; err != nil {
		return err
	}
	if len(statuses) > 0 {
		if err := archive.DeleteIntoArchive(ctx, tx, statuses, SiteDERStatusToArchive, deletedTime, func(innerTx *gorm.DB) error {
			return innerTx.Where("site_der_id = ?", der.SiteDERID).Delete(&SiteDERStatus{}).Error
		}); err != nil {
			return err
		}
	}

	return archive.DeleteIntoArchive(ctx, tx, []SiteDER{der}, SiteDERToArchive, deletedTime, func(innerTx *gorm.DB) error {
		return innerTx.Delete(&SiteDER{}, der.SiteDERID).Error
	})
}

// UpsertSiteDERRating replaces the DER rating row for siteDERID: any existing row is
// archived (deleted_time = now, since it's being replaced rather than deleted outright -
// matching the model's "each upsert replaces the prior row; prior rows are archived") and
// the new row is inserted in its place.
func UpsertSiteDERRating(ctx context.Context, db *gorm.DB, siteDERID uint32, newRating SiteDERRating, now time.Time) error {
	newRating.SiteDERID = siteDERID
	newRating.CreatedTime = now
	newRating.ChangedTime = now

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteDERRating
		err := tx.Where("site_der_id = ?", siteDERID).First(&existing).Error
		switch {
		case err == nil:
			if err := archive.DeleteIntoArchive(ctx, tx, []SiteDERRating{existing}, SiteDERRatingToArchive, now, func(innerTx *gorm.DB) error {
				return innerTx.Delete(&SiteDERRating{}, existing.SiteDERRatingID).Error
			}); err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			// nothing to replace
		default:
			return fmt.Errorf("failed to look up existing DER rating: %w", err)
		}
		return tx.Create(&newRating).Error
	})
}

// UpsertSiteDERSetting replaces the DER setting row for siteDERID, per the same
// replace-and-archive pattern as UpsertSiteDERRating.
func UpsertSiteDERSetting(ctx context.Context, db *gorm.DB, siteDERID uint32, newSetting SiteDERSetting, now time.Time) error {
	newSetting.SiteDERID = siteDERID
	newSetting.CreatedTime = now
	newSetting.ChangedTime = now

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteDERSetting
		err := tx.Where("site_der_id = ?", siteDERID).First(&existing).Error
		switch {
		case err == nil:
			if err := archive.DeleteIntoArchive(ctx, tx, []SiteDERSetting{existing}, SiteDERSettingToArchive, now, func(innerTx *gorm.DB) error {
				return innerTx.Delete(&SiteDERSetting{}, existing.SiteDERSettingID).Error
			}); err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
		default:
			return fmt.Errorf("failed to look up existing DER setting: %w", err)
		}
		return tx.Create(&newSetting).Error
	})
}

// UpsertSiteDERAvailability replaces the DER availability row for siteDERID, per the same
// replace-and-archive pattern as UpsertSiteDERRating.
func UpsertSiteDERAvailability(ctx context.Context, db *gorm.DB, siteDERID uint32, newAvailability SiteDERAvailability, now time.Time) error {
	newAvailability.SiteDERID = siteDERID
	newAvailability.CreatedTime = now
	newAvailability.ChangedTime = now

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteDERAvailability
		err := tx.Where("site_der_id = ?", siteDERID).First(&existing).Error
		switch {
		case err == nil:
			if err := archive.DeleteIntoArchive(ctx, tx, []SiteDERAvailability{existing}, SiteDERAvailabilityToArchive, now, func(innerTx *gorm.DB) error {
				return innerTx.Delete(&SiteDERAvailability{}, existing.SiteDERAvailabilityID).Error
			}); err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
		default:
			return fmt.Errorf("failed to look up existing DER availability: %w", err)
		}
		return tx.Create(&newAvailability).Error
	})
}

// UpsertSiteDERStatus replaces the DER status row for siteDERID, per the same
// replace-and-archive pattern as UpsertSiteDERRating.
func UpsertSiteDERStatus(ctx context.Context, db *gorm.DB, siteDERID uint32, newStatus SiteDERStatus, now time.Time) error {
	newStatus.SiteDERID = siteDERID
	newStatus.CreatedTime = now
	newStatus.ChangedTime = now

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteDERStatus
		err := tx.Where("site_der_id = ?", siteDERID).First(&existing).Error
		switch {
		case err == nil:
			if err := archive.DeleteIntoArchive(ctx, tx, []SiteDERStatus{existing}, SiteDERStatusToArchive, now, func(innerTx *gorm.DB) error {
				return innerTx.Delete(&SiteDERStatus{}, existing.SiteDERStatusID).Error
			}); err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
		default:
			return fmt.Errorf("failed to look up existing DER status: %w", err)
		}
		return tx.Create(&newStatus).Error
	})
}

// GetOrCreateSiteDER fetches the DER container for siteID, creating it if absent.
func GetOrCreateSiteDER(ctx context.Context, db *gorm.DB, siteID uint32, now time.Time) (*SiteDER, error) {
	var der SiteDER
	err := db.WithContext(ctx).Where("site_id = ?", siteID).First(&der).Error
	if err == nil {
		return &der, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up site DER: %w", err)
	}

	der = SiteDER{SiteID: siteID, CreatedTime: now, ChangedTime: now}
	if err := db.WithContext(ctx).Create(&der).Error; err != nil {
		return nil, fmt.Errorf("failed to create site DER: %w", err)
	}
	return &der, nil
}

// FetchSitesChangedAt returns every live Site whose changed_time exactly equals timestamp,
// grouped by aggregator_id - the batch key for SITE notifications (aggregator_id is the
// entire key; a Site subscription with no scoped_site_id applies to every site the aggregator
// owns).
func FetchSitesChangedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[int64][]Site, error) {
	var sites []Site
	if err := db.WithContext(ctx).Where("changed_time = ?", timestamp).Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sites changed at timestamp: %w", err)
	}

	batches := make(map[int64][]Site)
	for _, s := range sites {
		batches[s.AggregatorID] = append(batches[s.AggregatorID], s)
	}
	return batches, nil
}

// FetchSitesDeletedAt returns every archived Site whose deleted_time exactly equals timestamp,
// grouped the same way as FetchSitesChangedAt.
func FetchSitesDeletedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[int64][]ArchiveSite, error) {
	var sites []ArchiveSite
	if err := db.WithContext(ctx).Where("deleted_time = ?", timestamp).Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch deleted sites at timestamp: %w", err)
	}

	batches := make(map[int64][]ArchiveSite)
	for _, s := range sites {
		batches[s.AggregatorID] = append(batches[s.AggregatorID], s)
	}
	return batches, nil
}

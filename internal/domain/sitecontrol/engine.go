package sitecontrol

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/archive"
)

// PrimacyLookup answers the priority of a site control group for supersession comparisons.
// Group 1 (and, per the spec's documented-as-is behaviour, any group absent from this lookup)
// is treated as primacy 0 - the highest priority - unless the caller has explicitly recorded
// a different primacy for it.
type PrimacyLookup func(siteControlGroupID uint32) uint32

// MapPrimacyLookup builds a PrimacyLookup from a plain map, defaulting any missing group to
// primacy 0. This mirrors primacy_by_group_id.get(group_id, 0) in the original implementation.
func MapPrimacyLookup(primacyByGroupID map[uint32]uint32) PrimacyLookup {
	return func(groupID uint32) uint32 {
		if p, ok := primacyByGroupID[groupID]; ok {
			return p
		}
		return 0
	}
}

// CancelThenInsertDOEs implements the cancel-then-insert upsert mode: for each submitted DOE,
// an existing DOE sharing (site_control_group_id, start_time, site_id) is archived (with
// deleted_time = now) and replaced; otherwise the new DOE is simply inserted.
func CancelThenInsertDOEs(ctx context.Context, db *gorm.DB, does []DynamicOperatingEnvelope, now time.Time) error {
	for _, d := range does {
		if err := assertEndTime(d); err != nil {
			return err
		}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range does {
			var existing DynamicOperatingEnvelope
			err := tx.Where(
				"site_control_group_id = ? AND start_time = ? AND site_id = ?",
				d.SiteControlGroupID, d.StartTime, d.SiteID,
			).First(&existing).Error

			switch {
			case err == nil:
				if err := archive.DeleteIntoArchive(
					ctx, tx, []DynamicOperatingEnvelope{existing}, ToArchive, now,
					func(innerTx *gorm.DB) error {
						return innerTx.Delete(&DynamicOperatingEnvelope{}, existing.DynamicOperatingEnvelopeID).Error
					},
				); err != nil {
					return err
				}
			case err == gorm.ErrRecordNotFound:
				// nothing to cancel
			default:
				return fmt.Errorf("failed to look up existing DOE for cancel-then-insert: %w", err)
			}

			if err := tx.Create(&d).Error; err != nil {
				return fmt.Errorf("failed to insert DOE: %w", err)
			}
		}
		return nil
	})
}

// SupersedeThenInsertDOEs implements the supersede upsert mode: before inserting newDOEs,
// any existing DOE in an equal-or-lower-primacy group whose window overlaps a new DOE's
// window (within the same site) is marked superseded, with its pre-image archived.
//
// Primacy rule: a new DOE in group g_new supersedes an existing DOE in group g_old iff
// primacy(g_old) >= primacy(g_new) - the old group is lower- or equal-priority.
func SupersedeThenInsertDOEs(ctx context.Context, db *gorm.DB, newDOEs []DynamicOperatingEnvelope, primacy PrimacyLookup, now time.Time) error {
	for _, d := range newDOEs {
		if err := assertEndTime(d); err != nil {
			return err
		}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, newDOE := range newDOEs {
			newPrimacy := primacy(newDOE.SiteControlGroupID)

			var candidates []DynamicOperatingEnvelope
			if err := tx.Where(
				"site_id = ? AND start_time < ? AND end_time > ? AND superseded = ?",
				newDOE.SiteID, newDOE.EndTime, newDOE.StartTime, false,
			).Find(&candidates).Error; err != nil {
				return fmt.Errorf("failed to find supersession candidates: %w", err)
			}

			var toSupersede []DynamicOperatingEnvelope
			for _, c := range candidates {
				if primacy(c.SiteControlGroupID) >= newPrimacy {
					toSupersede = append(toSupersede, c)
				}
			}

			if len(toSupersede) > 0 {
				ids := make([]uint64, len(toSupersede))
				for i, c := range toSupersede {
					ids[i] = c.DynamicOperatingEnvelopeID
				}

				if err := archive.ArchiveUpdate(ctx, tx, toSupersede, ToArchive, now, func(innerTx *gorm.DB) error {
					return innerTx.Model(&DynamicOperatingEnvelope{}).
						Where("dynamic_operating_envelope_id IN ?", ids).
						Update("superseded", true).Error
				}); err != nil {
					return err
				}
			}

			if err := tx.Create(&newDOE).Error; err != nil {
				return fmt.Errorf("failed to insert DOE: %w", err)
			}
		}
		return nil
	})
}

func assertEndTime(d DynamicOperatingEnvelope) error {
	if !d.EndTime.Equal(d.End()) {
		return fmt.Errorf(
			"DOE %d has end_time %s inconsistent with start_time + duration_seconds (%s)",
			d.DynamicOperatingEnvelopeID, d.EndTime, d.End(),
		)
	}
	return nil
}

// DeleteDOEsWithStartTimeInRange archives (and removes from the live table) every DOE in
// groupID whose start_time falls in [periodStart, periodEnd), optionally narrowed to siteID.
func DeleteDOEsWithStartTimeInRange(ctx context.Context, db *gorm.DB, groupID uint32, siteID *uint32, periodStart, periodEnd, deletedTime time.Time) error {
	query := db.WithContext(ctx).
		Where("site_control_group_id = ? AND start_time >= ? AND start_time < ?", groupID, periodStart, periodEnd)
	if siteID != nil {
		query = query.Where("site_id = ?", *siteID)
	}

	var rows []DynamicOperatingEnvelope
	if err := query.Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to find DOEs to delete: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	ids := make([]uint64, len(rows))
	for i, r := range rows {
		ids[i] = r.DynamicOperatingEnvelopeID
	}

	return archive.DeleteIntoArchive(ctx, db, rows, ToArchive, deletedTime, func(tx *gorm.DB) error {
		return tx.Delete(&DynamicOperatingEnvelope{}, ids).Error
	})
}

// SelectActiveDOEsIncludeDeleted is a UNION ALL of the live and archive tables, both filtered
// by end_time > now, site_control_group_id = groupID, site_id = siteID - the archive side
// additionally requires deleted_time IS NOT NULL. The merged result is ordered
// (start_time ASC, changed_time DESC, id DESC), with the archive row's changed_time taken to
// be its deleted_time for ordering purposes.
func SelectActiveDOEsIncludeDeleted(ctx context.Context, db *gorm.DB, groupID, siteID uint32, now time.Time) ([]ActiveDOE, error) {
	var live []DynamicOperatingEnvelope
	if err := db.WithContext(ctx).
		Where("end_time > ? AND site_control_group_id = ? AND site_id = ?", now, groupID, siteID).
		Find(&live).Error; err != nil {
		return nil, fmt.Errorf("failed to query live DOEs: %w", err)
	}

	var archived []ArchiveDynamicOperatingEnvelope
	if err := db.WithContext(ctx).
		Where("end_time > ? AND site_control_group_id = ? AND site_id = ? AND deleted_time IS NOT NULL", now, groupID, siteID).
		Find(&archived).Error; err != nil {
		return nil, fmt.Errorf("failed to query archived DOEs: %w", err)
	}

	result := make([]ActiveDOE, 0, len(live)+len(archived))
	for i := range live {
		result = append(result, ActiveDOE{Live: &live[i]})
	}
	for i := range archived {
		result = append(result, ActiveDOE{IsArchive: true, Archived: &archived[i]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		si, ci, idi := result[i].Ordered()
		sj, cj, idj := result[j].Ordered()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return idi > idj
	})

	return result, nil
}

// SelectDOEsAtTimestamp returns every DOE active at ts: start_time <= ts < end_time, scoped to
// groupID and aggregatorID (via the owning site), optionally narrowed to siteID. Ordering
// matches SelectActiveDOEsIncludeDeleted.
func SelectDOEsAtTimestamp(ctx context.Context, db *gorm.DB, groupID uint32, aggregatorID int64, siteID *uint32, ts time.Time) ([]DynamicOperatingEnvelope, error) {
	query := db.WithContext(ctx).
		Joins("JOIN site ON site.site_id = dynamic_operating_envelope.site_id").
		Where("dynamic_operating_envelope.start_time <= ? AND dynamic_operating_envelope.end_time > ?", ts, ts).
		Where("dynamic_operating_envelope.site_control_group_id = ?", groupID).
		Where("site.aggregator_id = ?", aggregatorID).
		Order("dynamic_operating_envelope.start_time ASC").
		Order("dynamic_operating_envelope.changed_time DESC").
		Order("dynamic_operating_envelope.dynamic_operating_envelope_id DESC")

	if siteID != nil {
		query = query.Where("dynamic_operating_envelope.site_id = ?", *siteID)
	}

	var rows []DynamicOperatingEnvelope
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query DOEs at timestamp: %w", err)
	}
	return rows, nil
}

// EnumerateSiteControlGroups returns a page of groups, optionally filtered by fsaID, ordered
// primacy ASC, id DESC to match 2030.5 DERProgram list ordering.
func EnumerateSiteControlGroups(ctx context.Context, db *gorm.DB, fsaID *uint32, start, limit int) ([]SiteControlGroup, error) {
	query := db.WithContext(ctx).
		Order("primacy ASC").
		Order("site_control_group_id DESC").
		Offset(start).
		Limit(limit)
	if fsaID != nil {
		query = query.Where("fsa_id = ?", *fsaID)
	}

	var groups []SiteControlGroup
	if err := query.Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to enumerate site control groups: %w", err)
	}
	return groups, nil
}

// DOEBatchKey groups DynamicOperatingEnvelope rows for the notification batcher: aggregator_id
// then site_id, matching the DYNAMIC_OPERATING_ENVELOPE subscription's site scoping.
type DOEBatchKey struct {
	AggregatorID int64
	SiteID       uint32
}

type doeWithAggregator struct {
	DynamicOperatingEnvelope
	AggregatorID int64
}

// FetchDOEsChangedAt returns every live DOE whose changed_time exactly equals timestamp,
// grouped by DOEBatchKey.
func FetchDOEsChangedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[DOEBatchKey][]DynamicOperatingEnvelope, error) {
	var rows []doeWithAggregator
	err := db.WithContext(ctx).Table("dynamic_operating_envelope").
		Select("dynamic_operating_envelope.*, site.aggregator_id AS aggregator_id").
		Joins("JOIN site ON site.site_id = dynamic_operating_envelope.site_id").
		Where("dynamic_operating_envelope.changed_time = ?", timestamp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch DOEs changed at timestamp: %w", err)
	}

	batches := make(map[DOEBatchKey][]DynamicOperatingEnvelope)
	for _, row := range rows {
		key := DOEBatchKey{AggregatorID: row.AggregatorID, SiteID: row.SiteID}
		batches[key] = append(batches[key], row.DynamicOperatingEnvelope)
	}
	return batches, nil
}

type archiveDOEWithAggregator struct {
	ArchiveDynamicOperatingEnvelope
	AggregatorID int64
}

// FetchDOEsDeletedAt returns every archived DOE whose deleted_time exactly equals timestamp,
// grouped the same way as FetchDOEsChangedAt.
func FetchDOEsDeletedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[DOEBatchKey][]ArchiveDynamicOperatingEnvelope, error) {
	var rows []archiveDOEWithAggregator
	err := db.WithContext(ctx).Table("archive_dynamic_operating_envelope").
		Select("archive_dynamic_operating_envelope.*, site.aggregator_id AS aggregator_id").
		Joins("JOIN site ON site.site_id = archive_dynamic_operating_envelope.site_id").
		Where("archive_dynamic_operating_envelope.deleted_time = ?", timestamp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deleted DOEs at timestamp: %w", err)
	}

	batches := make(map[DOEBatchKey][]ArchiveDynamicOperatingEnvelope)
	for _, row := range rows {
		key := DOEBatchKey{AggregatorID: row.AggregatorID, SiteID: row.SiteID}
		batches[key] = append(batches[key], row.ArchiveDynamicOperatingEnvelope)
	}
	return batches, nil
}

// ResolveDefaultControl returns the effective default limits for (groupID, siteID): the
// site's own DefaultSiteControl override if one exists, otherwise the group's
// SiteControlGroupDefault, otherwise a zero value. Mirrors the original's "per-site override
// falls back to group default" resolution.
func ResolveDefaultControl(ctx context.Context, db *gorm.DB, groupID, siteID uint32) (setEnergized, setConnected *bool, importW, exportW, genW, loadW *float64, err error) {
	var site DefaultSiteControl
	err = db.WithContext(ctx).
		Where("site_control_group_id = ? AND site_id = ?", groupID, siteID).
		First(&site).Error
	switch {
	case err == nil:
		return site.SetEnergized, site.SetConnected,
			site.ImportLimitActiveWatts, site.ExportLimitWatts,
			site.GenerationLimitActiveWatts, site.LoadLimitActiveWatts, nil
	case err != gorm.ErrRecordNotFound:
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to look up default site control: %w", err)
	}

	var group SiteControlGroupDefault
	err = db.WithContext(ctx).Where("site_control_group_id = ?", groupID).First(&group).Error
	switch {
	case err == nil:
		return group.SetEnergized, group.SetConnected,
			group.ImportLimitActiveWatts, group.ExportLimitWatts,
			group.GenerationLimitActiveWatts, group.LoadLimitActiveWatts, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil, nil, nil, nil, nil, nil
	default:
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("failed to look up group default control: %w", err)
	}
}

// UpsertSiteControlGroupDefault replaces groupID's group-level fallback limits.
func UpsertSiteControlGroupDefault(ctx context.Context, db *gorm.DB, d SiteControlGroupDefault, now time.Time) error {
	d.ChangedTime = now
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteControlGroupDefault
		err := tx.Where("site_control_group_id = ?", d.SiteControlGroupID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			d.CreatedTime = now
			return tx.Create(&d).Error
		}
		if err != nil {
			return fmt.Errorf("failed to look up site control group default: %w", err)
		}
		d.CreatedTime = existing.CreatedTime
		return tx.Save(&d).Error
	})
}

// UpsertDefaultSiteControl replaces a site's per-group override of its default limits.
func UpsertDefaultSiteControl(ctx context.Context, db *gorm.DB, d DefaultSiteControl, now time.Time) error {
	d.ChangedTime = now
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DefaultSiteControl
		err := tx.Where("site_control_group_id = ? AND site_id = ?", d.SiteControlGroupID, d.SiteID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			d.CreatedTime = now
			return tx.Create(&d).Error
		}
		if err != nil {
			return fmt.Errorf("failed to look up default site control: %w", err)
		}
		d.CreatedTime = existing.CreatedTime
		return tx.Save(&d).Error
	})
}

// CreateSiteControlGroup inserts a new DERProgram-backing group (spec.md §6.2 admin
// "CRUD on ... site-control-groups").
func CreateSiteControlGroup(ctx context.Context, db *gorm.DB, description string, primacy, fsaID uint32, now time.Time) (*SiteControlGroup, error) {
	g := SiteControlGroup{Description: description, Primacy: primacy, FsaID: fsaID, CreatedTime: now, ChangedTime: now}
	if err := db.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to create site control group: %w", err)
	}
	return &g, nil
}

// GetSiteControlGroup fetches a single group by id.
func GetSiteControlGroup(ctx context.Context, db *gorm.DB, groupID uint32) (*SiteControlGroup, error) {
	var g SiteControlGroup
	if err := db.WithContext(ctx).First(&g, groupID).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateSiteControlGroup changes a group's description/primacy/fsa assignment, archiving its
// pre-image first. Changing primacy affects every future SupersedeThenInsertDOEs call against
// this group's peers.
func UpdateSiteControlGroup(ctx context.Context, db *gorm.DB, groupID uint32, description string, primacy, fsaID uint32, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SiteControlGroup
		if err := tx.First(&existing, groupID).Error; err != nil {
			return err
		}
		if err := archive.CopyIntoArchive(ctx, tx, []SiteControlGroup{existing}, ToArchiveSiteControlGroup, now); err != nil {
			return err
		}
		existing.Description = description
		existing.Primacy = primacy
		existing.FsaID = fsaID
		existing.ChangedTime = now
		return tx.Save(&existing).Error
	})
}

// DeleteSiteControlGroup archives and removes a group. Callers are expected to have already
// cleared or re-assigned any DOEs and defaults scoped to it.
func DeleteSiteControlGroup(ctx context.Context, db *gorm.DB, groupID uint32, now time.Time) error {
	var existing SiteControlGroup
	if err := db.WithContext(ctx).First(&existing, groupID).Error; err != nil {
		return err
	}
	return archive.DeleteIntoArchive(ctx, db, []SiteControlGroup{existing}, ToArchiveSiteControlGroup, now, func(tx *gorm.DB) error {
		return tx.Delete(&SiteControlGroup{}, groupID).Error
	})
}

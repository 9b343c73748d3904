// Package sitecontrol implements the DOE / site-control engine: SiteControlGroup and
// DynamicOperatingEnvelope storage, supersession by primacy, archival of replaced rows, and
// the time-windowed queries the 2030.5 DERProgram/DERControl resources are projected from.
package sitecontrol

import (
	"time"
)

// DOEDecimalPlaces is the fixed-point scale used for every watt-valued DOE column
// (DECIMAL(16, DOEDecimalPlaces) in the original schema).
const DOEDecimalPlaces = 2

// SiteControlGroup is a named, site-independent grouping of DOEs. Its Primacy orders groups
// relative to one another for supersession purposes: lower is higher priority.
type SiteControlGroup struct {
	SiteControlGroupID uint32 `gorm:"column:site_control_group_id;primaryKey"`
	Description         string `gorm:"column:description;type:varchar(32)"`
	Primacy             uint32 `gorm:"column:primacy;index:ix_site_control_group_primacy_site_control_group_id,priority:1"`
	FsaID               uint32 `gorm:"column:fsa_id;index;default:1"`
	CreatedTime         time.Time `gorm:"column:created_time"`
	ChangedTime         time.Time `gorm:"column:changed_time;index"`
}

func (SiteControlGroup) TableName() string { return "site_control_group" }

// ArchiveSiteControlGroup is the append-only shadow of SiteControlGroup. No FKs, no relations.
type ArchiveSiteControlGroup struct {
	ArchiveID           uint64 `gorm:"column:archive_id;primaryKey"`
	SiteControlGroupID  uint32 `gorm:"column:site_control_group_id;index"`
	Description         string
	Primacy             uint32
	CreatedTime         time.Time
	ChangedTime         time.Time
	ArchiveTime         time.Time
	DeletedTime         *time.Time
}

func (ArchiveSiteControlGroup) TableName() string { return "archive_site_control_group" }

// ToArchiveSiteControlGroup projects a live SiteControlGroup into its archive row.
func ToArchiveSiteControlGroup(g SiteControlGroup, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteControlGroup {
	return ArchiveSiteControlGroup{
		SiteControlGroupID: g.SiteControlGroupID,
		Description:         g.Description,
		Primacy:             g.Primacy,
		CreatedTime:         g.CreatedTime,
		ChangedTime:         g.ChangedTime,
		ArchiveTime:         archiveTime,
		DeletedTime:         deletedTime,
	}
}

// DynamicOperatingEnvelope is a dynamic operating envelope for one site over one time window.
// end_time is materialised by the writer, never computed by the database - callers MUST keep
// end_time == start_time + duration_seconds on every insert.
type DynamicOperatingEnvelope struct {
	DynamicOperatingEnvelopeID uint64  `gorm:"column:dynamic_operating_envelope_id;primaryKey"`
	SiteControlGroupID         uint32  `gorm:"column:site_control_group_id;uniqueIndex:site_control_group_id_start_time_site_id_uc,priority:1"`
	SiteID                     uint32  `gorm:"column:site_id;uniqueIndex:site_control_group_id_start_time_site_id_uc,priority:3"`
	CalculationLogID           *uint32 `gorm:"column:calculation_log_id;index"`

	CreatedTime time.Time `gorm:"column:created_time"`
	ChangedTime time.Time `gorm:"column:changed_time;index"`
	StartTime   time.Time `gorm:"column:start_time;uniqueIndex:site_control_group_id_start_time_site_id_uc,priority:2"`
	EndTime     time.Time `gorm:"column:end_time;index:ix_site_control_group_dynamic_operating_envelope_end_time_site"`

	DurationSeconds       int  `gorm:"column:duration_seconds"`
	RandomizeStartSeconds *int `gorm:"column:randomize_start_seconds"`

	ImportLimitActiveWatts    *float64 `gorm:"column:import_limit_active_watts;type:decimal(16,2)"`
	ExportLimitWatts          *float64 `gorm:"column:export_limit_watts;type:decimal(16,2)"`
	GenerationLimitActiveWatts *float64 `gorm:"column:generation_limit_active_watts;type:decimal(16,2)"`
	LoadLimitActiveWatts      *float64 `gorm:"column:load_limit_active_watts;type:decimal(16,2)"`

	SetEnergized *bool `gorm:"column:set_energized"`
	SetConnected *bool `gorm:"column:set_connected"`

	// Superseded is true once a higher-or-equal priority group's window has overtaken this
	// DOE's. A superseded DOE is still a live row; it's simply no longer authoritative.
	Superseded bool `gorm:"column:superseded"`
}

func (DynamicOperatingEnvelope) TableName() string { return "dynamic_operating_envelope" }

// End returns start_time + duration_seconds, the value end_time must always equal.
func (d DynamicOperatingEnvelope) End() time.Time {
	return d.StartTime.Add(time.Duration(d.DurationSeconds) * time.Second)
}

// ArchiveDynamicOperatingEnvelope is the append-only shadow of DynamicOperatingEnvelope.
type ArchiveDynamicOperatingEnvelope struct {
	ArchiveID                  uint64  `gorm:"column:archive_id;primaryKey"`
	DynamicOperatingEnvelopeID uint64  `gorm:"column:dynamic_operating_envelope_id;index"`
	SiteControlGroupID         uint32  `gorm:"column:site_control_group_id"`
	SiteID                     uint32  `gorm:"column:site_id"`
	CalculationLogID           *uint32

	CreatedTime time.Time
	ChangedTime time.Time
	StartTime   time.Time
	EndTime     time.Time

	DurationSeconds       int
	RandomizeStartSeconds *int

	ImportLimitActiveWatts     *float64 `gorm:"type:decimal(16,2)"`
	ExportLimitWatts           *float64 `gorm:"type:decimal(16,2)"`
	GenerationLimitActiveWatts *float64 `gorm:"type:decimal(16,2)"`
	LoadLimitActiveWatts       *float64 `gorm:"type:decimal(16,2)"`

	SetEnergized *bool
	SetConnected *bool
	Superseded   bool

	ArchiveTime time.Time
	DeletedTime *time.Time `gorm:"index:archive_doe_site_control_group_id_end_time_deleted_time_site_id,priority:3"`
}

func (ArchiveDynamicOperatingEnvelope) TableName() string {
	return "archive_dynamic_operating_envelope"
}

// ToArchive projects a live DOE into its archive row, stamping archiveTime/deletedTime.
func ToArchive(d DynamicOperatingEnvelope, archiveTime time.Time, deletedTime *time.Time) ArchiveDynamicOperatingEnvelope {
	return ArchiveDynamicOperatingEnvelope{
		DynamicOperatingEnvelopeID: d.DynamicOperatingEnvelopeID,
		SiteControlGroupID:         d.SiteControlGroupID,
		SiteID:                     d.SiteID,
		CalculationLogID:           d.CalculationLogID,
		CreatedTime:                d.CreatedTime,
		ChangedTime:                d.ChangedTime,
		StartTime:                  d.StartTime,
		EndTime:                    d.EndTime,
		DurationSeconds:            d.DurationSeconds,
		RandomizeStartSeconds:      d.RandomizeStartSeconds,
		ImportLimitActiveWatts:     d.ImportLimitActiveWatts,
		ExportLimitWatts:           d.ExportLimitWatts,
		GenerationLimitActiveWatts: d.GenerationLimitActiveWatts,
		LoadLimitActiveWatts:       d.LoadLimitActiveWatts,
		SetEnergized:               d.SetEnergized,
		SetConnected:               d.SetConnected,
		Superseded:                 d.Superseded,
		ArchiveTime:                archiveTime,
		DeletedTime:                deletedTime,
	}
}

// ActiveDOE is the re-hydrated result row of SelectActiveDOEsIncludeDeleted: either a live DOE
// or an archived (deleted/superseded) one, distinguished by IsArchive.
type ActiveDOE struct {
	IsArchive bool
	Live      *DynamicOperatingEnvelope
	Archived  *ArchiveDynamicOperatingEnvelope
}

// Ordered returns the (start_time, changed_time, id) triple 2030.5 list ordering is defined
// over, regardless of whether this row came from the live or archive side of the union.
func (a ActiveDOE) Ordered() (startTime, changedTime time.Time, id uint64) {
	if a.IsArchive {
		return a.Archived.StartTime, *a.Archived.DeletedTime, a.Archived.DynamicOperatingEnvelopeID
	}
	return a.Live.StartTime, a.Live.ChangedTime, a.Live.DynamicOperatingEnvelopeID
}

// SiteControlGroupDefault is a SiteControlGroup's fallback limits - the values a
// DefaultDERControl resource reports for every site in the group that hasn't been given its
// own per-site override (spec.md §3: "DefaultSiteControl ... mirrored onto
// SiteControlGroupDefault at the group level").
type SiteControlGroupDefault struct {
	SiteControlGroupID uint32 `gorm:"column:site_control_group_id;primaryKey"`
	CreatedTime         time.Time `gorm:"column:created_time"`
	ChangedTime         time.Time `gorm:"column:changed_time"`

	ImportLimitActiveWatts     *float64 `gorm:"column:import_limit_active_watts;type:decimal(16,2)"`
	ExportLimitWatts           *float64 `gorm:"column:export_limit_watts;type:decimal(16,2)"`
	GenerationLimitActiveWatts *float64 `gorm:"column:generation_limit_active_watts;type:decimal(16,2)"`
	LoadLimitActiveWatts       *float64 `gorm:"column:load_limit_active_watts;type:decimal(16,2)"`
	SetEnergized               *bool    `gorm:"column:set_energized"`
	SetConnected               *bool    `gorm:"column:set_connected"`
}

func (SiteControlGroupDefault) TableName() string { return "site_control_group_default" }

// DefaultSiteControl is the per-site override of its group's default limits; a site with no
// row here falls back to its group's SiteControlGroupDefault untouched.
type DefaultSiteControl struct {
	SiteID              uint32 `gorm:"column:site_id;primaryKey"`
	SiteControlGroupID  uint32 `gorm:"column:site_control_group_id;primaryKey"`
	CreatedTime         time.Time `gorm:"column:created_time"`
	ChangedTime         time.Time `gorm:"column:changed_time"`

	ImportLimitActiveWatts     *float64 `gorm:"column:import_limit_active_watts;type:decimal(16,2)"`
	ExportLimitWatts           *float64 `gorm:"column:export_limit_watts;type:decimal(16,2)"`
	GenerationLimitActiveWatts *float64 `gorm:"column:generation_limit_active_watts;type:decimal(16,2)"`
	LoadLimitActiveWatts       *float64 `gorm:"column:load_limit_active_watts;type:decimal(16,2)"`
	SetEnergized               *bool    `gorm:"column:set_energized"`
	SetConnected               *bool    `gorm:"column:set_connected"`
}

func (DefaultSiteControl) TableName() string { return "default_site_control" }

// Package reading implements SiteReadingType and SiteReading: the mrid-bearing analogue of
// a 2030.5 ReadingType, and the (thin, high-volume) time-series values recorded against it.
package reading

import (
	"time"
)

// SiteReadingType aggregates SiteReading rows by their shared semantic descriptor. Every
// column from AggregatorID through RoleFlags participates in the dedup unique index:
// two uploads describing the same measurement shape collapse onto the same row.
type SiteReadingType struct {
	SiteReadingTypeID uint64 `gorm:"column:site_reading_type_id;primaryKey"`
	AggregatorID      int64  `gorm:"column:aggregator_id;uniqueIndex:site_reading_type_all_values_uc,priority:1"`
	SiteID            uint32 `gorm:"column:site_id;uniqueIndex:site_reading_type_all_values_uc,priority:2"`

	UOM                    uint32 `gorm:"column:uom;uniqueIndex:site_reading_type_all_values_uc,priority:3"`
	DataQualifier          uint32 `gorm:"column:data_qualifier;uniqueIndex:site_reading_type_all_values_uc,priority:4"`
	FlowDirection          uint32 `gorm:"column:flow_direction;uniqueIndex:site_reading_type_all_values_uc,priority:5"`
	AccumulationBehaviour  uint32 `gorm:"column:accumulation_behaviour;uniqueIndex:site_reading_type_all_values_uc,priority:6"`
	Kind                   uint32 `gorm:"column:kind;uniqueIndex:site_reading_type_all_values_uc,priority:7"`
	Phase                  uint32 `gorm:"column:phase;uniqueIndex:site_reading_type_all_values_uc,priority:8"`
	PowerOfTenMultiplier   int32  `gorm:"column:power_of_ten_multiplier;uniqueIndex:site_reading_type_all_values_uc,priority:9"`
	DefaultIntervalSeconds int32  `gorm:"column:default_interval_seconds;uniqueIndex:site_reading_type_all_values_uc,priority:10"`
	RoleFlags              uint32 `gorm:"column:role_flags;uniqueIndex:site_reading_type_all_values_uc,priority:11"`

	ChangedTime time.Time `gorm:"column:changed_time;index"`
}

func (SiteReadingType) TableName() string { return "site_reading_type" }

// ArchiveSiteReadingType is the append-only shadow of SiteReadingType.
type ArchiveSiteReadingType struct {
	ArchiveID         uint64 `gorm:"column:archive_id;primaryKey"`
	SiteReadingTypeID uint64 `gorm:"column:site_reading_type_id;index"`
	AggregatorID      int64
	SiteID            uint32

	UOM                    uint32
	DataQualifier          uint32
	FlowDirection          uint32
	AccumulationBehaviour  uint32
	Kind                   uint32
	Phase                  uint32
	PowerOfTenMultiplier   int32
	DefaultIntervalSeconds int32
	RoleFlags              uint32

	CreatedTime time.Time
	ChangedTime time.Time
	ArchiveTime time.Time
	DeletedTime *time.Time
}

func (ArchiveSiteReadingType) TableName() string { return "archive_site_reading_type" }

func SiteReadingTypeToArchive(t SiteReadingType, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteReadingType {
	return ArchiveSiteReadingType{
		SiteReadingTypeID:      t.SiteReadingTypeID,
		AggregatorID:           t.AggregatorID,
		SiteID:                 t.SiteID,
		UOM:                    t.UOM,
		DataQualifier:          t.DataQualifier,
		FlowDirection:          t.FlowDirection,
		AccumulationBehaviour:  t.AccumulationBehaviour,
		Kind:                   t.Kind,
		Phase:                  t.Phase,
		PowerOfTenMultiplier:   t.PowerOfTenMultiplier,
		DefaultIntervalSeconds: t.DefaultIntervalSeconds,
		RoleFlags:              t.RoleFlags,
		ChangedTime:            t.ChangedTime,
		ArchiveTime:            archiveTime,
		DeletedTime:            deletedTime,
	}
}

// SiteReading is kept deliberately thin - this table receives a mountain of rows. The
// value's type and power-of-ten scale are defined by the parent SiteReadingType, not here.
// Unique on (site_reading_type_id, time_period_start).
type SiteReading struct {
	SiteReadingID       uint64 `gorm:"column:site_reading_id;primaryKey"`
	SiteReadingTypeID   uint64 `gorm:"column:site_reading_type_id;uniqueIndex:site_reading_type_id_time_period_start_uc,priority:1"`
	ChangedTime         time.Time `gorm:"column:changed_time;index"`
	LocalID             *int32 `gorm:"column:local_id"`
	QualityFlags        uint32 `gorm:"column:quality_flags"`
	TimePeriodStart     time.Time `gorm:"column:time_period_start;uniqueIndex:site_reading_type_id_time_period_start_uc,priority:2"`
	TimePeriodSeconds   int32     `gorm:"column:time_period_seconds"`
	Value               int64     `gorm:"column:value"`
}

func (SiteReading) TableName() string { return "site_reading" }

// ArchiveSiteReading is the append-only shadow of SiteReading.
type ArchiveSiteReading struct {
	ArchiveID         uint64 `gorm:"column:archive_id;primaryKey"`
	SiteReadingID     uint64 `gorm:"column:site_reading_id;index"`
	SiteReadingTypeID uint64
	ChangedTime       time.Time
	LocalID           *int32
	QualityFlags      uint32
	TimePeriodStart   time.Time
	TimePeriodSeconds int32
	Value             int64
	ArchiveTime       time.Time
	DeletedTime       *time.Time
}

func (ArchiveSiteReading) TableName() string { return "archive_site_reading" }

func SiteReadingToArchive(r SiteReading, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteReading {
	return ArchiveSiteReading{
		SiteReadingID:     r.SiteReadingID,
		SiteReadingTypeID: r.SiteReadingTypeID,
		ChangedTime:       r.ChangedTime,
		LocalID:           r.LocalID,
		QualityFlags:      r.QualityFlags,
		TimePeriodStart:   r.TimePeriodStart,
		TimePeriodSeconds: r.TimePeriodSeconds,
		Value:             r.Value,
		ArchiveTime:       archiveTime,
		DeletedTime:       deletedTime,
	}
}

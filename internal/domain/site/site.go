// Package site implements Site and its DER state/capability records: registration,
// the per-site IANA timezone that DOE and tariff engines localize against, and the
// upsert-replaces-prior-archives pattern the DER records share.
package site

import (
	"time"
)

// DeviceCategory is the 2030.5 EndDevice device category bitmask.
type DeviceCategory uint32

// Site is a single end device (or a virtual aggregator-managed site), the unit every
// DOE, rate, and reading is ultimately scoped to. Belongs to exactly one Aggregator.
type Site struct {
	SiteID         uint32         `gorm:"column:site_id;primaryKey;autoIncrement"`
	NMI            *string        `gorm:"column:nmi;type:varchar(11)"`
	AggregatorID   int64          `gorm:"column:aggregator_id;uniqueIndex:aggregator_id_sfdi_uc,priority:1"`
	TimezoneID     string         `gorm:"column:timezone_id;type:varchar(64)"` // IANA zone name, authoritative for all local-time computation on this site
	ChangedTime    time.Time      `gorm:"column:changed_time;index"`
	LFDI           string         `gorm:"column:lfdi;type:varchar(42);uniqueIndex"`
	SFDI           uint64         `gorm:"column:sfdi;uniqueIndex:aggregator_id_sfdi_uc,priority:2"`
	DeviceCategory DeviceCategory `gorm:"column:device_category"`
	RegistrationPIN uint32        `gorm:"column:registration_pin"` // 0-99999
	CreatedTime    time.Time      `gorm:"column:created_time"`
}

func (Site) TableName() string { return "site" }

// ArchiveSite is the append-only shadow of Site.
type ArchiveSite struct {
	ArchiveID       uint64 `gorm:"column:archive_id;primaryKey"`
	SiteID          uint32 `gorm:"column:site_id;index"`
	NMI             *string
	AggregatorID    int64
	TimezoneID      string
	CreatedTime     time.Time
	ChangedTime     time.Time
	LFDI            string
	SFDI            uint64
	DeviceCategory  DeviceCategory
	RegistrationPIN uint32
	ArchiveTime     time.Time
	DeletedTime     *time.Time
}

func (ArchiveSite) TableName() string { return "archive_site" }

// ToArchive projects a live Site into its archive row.
func ToArchive(s Site, archiveTime time.Time, deletedTime *time.Time) ArchiveSite {
	return ArchiveSite{
		SiteID:          s.SiteID,
		NMI:             s.NMI,
		AggregatorID:    s.AggregatorID,
		TimezoneID:      s.TimezoneID,
		CreatedTime:     s.CreatedTime,
		ChangedTime:     s.ChangedTime,
		LFDI:            s.LFDI,
		SFDI:            s.SFDI,
		DeviceCategory:  s.DeviceCategory,
		RegistrationPIN: s.RegistrationPIN,
		ArchiveTime:     archiveTime,
		DeletedTime:     deletedTime,
	}
}

// SiteDER is the one-to-one DER record attached to a Site: a container the four
// state/capability records below hang off of.
type SiteDER struct {
	SiteDERID   uint32    `gorm:"column:site_der_id;primaryKey;autoIncrement"`
	SiteID      uint32    `gorm:"column:site_id;uniqueIndex"`
	CreatedTime time.Time `gorm:"column:created_time"`
	ChangedTime time.Time `gorm:"column:changed_time"`
}

func (SiteDER) TableName() string { return "site_der" }

// ArchiveSiteDER is the append-only shadow of SiteDER.
type ArchiveSiteDER struct {
	ArchiveID   uint64 `gorm:"column:archive_id;primaryKey"`
	SiteDERID   uint32 `gorm:"column:site_der_id;index"`
	SiteID      uint32
	CreatedTime time.Time
	ChangedTime time.Time
	ArchiveTime time.Time
	DeletedTime *time.Time
}

func (ArchiveSiteDER) TableName() string { return "archive_site_der" }

func SiteDERToArchive(d SiteDER, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteDER {
	return ArchiveSiteDER{
		SiteDERID:   d.SiteDERID,
		SiteID:      d.SiteID,
		CreatedTime: d.CreatedTime,
		ChangedTime: d.ChangedTime,
		ArchiveTime: archiveTime,
		DeletedTime: deletedTime,
	}
}

// SiteDERRating captures the DER's nameplate capacity limits, each expressed as the
// 2030.5 (value, multiplier) pair: displayed = value * 10^multiplier.
type SiteDERRating struct {
	SiteDERRatingID    uint32 `gorm:"column:site_der_rating_id;primaryKey;autoIncrement"`
	SiteDERID          uint32 `gorm:"column:site_der_id;uniqueIndex"`
	CreatedTime        time.Time `gorm:"column:created_time"`
	ChangedTime        time.Time `gorm:"column:changed_time"`
	ModesSupported     *uint32 `gorm:"column:modes_supported"`
	DOEModesSupported  *uint32 `gorm:"column:doe_modes_supported"`
	DERType            uint32  `gorm:"column:der_type"`
	MaxWValue          int32   `gorm:"column:max_w_value"`
	MaxWMultiplier     int32   `gorm:"column:max_w_multiplier"`
	MaxVAValue         *int32  `gorm:"column:max_va_value"`
	MaxVAMultiplier    *int32  `gorm:"column:max_va_multiplier"`
	MaxVarValue        *int32  `gorm:"column:max_var_value"`
	MaxVarMultiplier   *int32  `gorm:"column:max_var_multiplier"`
}

func (SiteDERRating) TableName() string { return "site_der_rating" }

type ArchiveSiteDERRating struct {
	ArchiveID         uint64 `gorm:"column:archive_id;primaryKey"`
	SiteDERRatingID   uint32 `gorm:"column:site_der_rating_id;index"`
	SiteDERID         uint32
	CreatedTime       time.Time
	ChangedTime       time.Time
	ModesSupported    *uint32
	DOEModesSupported *uint32
	DERType           uint32
	MaxWValue         int32
	MaxWMultiplier    int32
	MaxVAValue        *int32
	MaxVAMultiplier   *int32
	MaxVarValue       *int32
	MaxVarMultiplier  *int32
	ArchiveTime       time.Time
	DeletedTime       *time.Time
}

func (ArchiveSiteDERRating) TableName() string { return "archive_site_der_rating" }

func SiteDERRatingToArchive(r SiteDERRating, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteDERRating {
	return ArchiveSiteDERRating{
		SiteDERRatingID:   r.SiteDERRatingID,
		SiteDERID:         r.SiteDERID,
		CreatedTime:       r.CreatedTime,
		ChangedTime:       r.ChangedTime,
		ModesSupported:    r.ModesSupported,
		DOEModesSupported: r.DOEModesSupported,
		DERType:           r.DERType,
		MaxWValue:         r.MaxWValue,
		MaxWMultiplier:    r.MaxWMultiplier,
		MaxVAValue:        r.MaxVAValue,
		MaxVAMultiplier:   r.MaxVAMultiplier,
		MaxVarValue:       r.MaxVarValue,
		MaxVarMultiplier:  r.MaxVarMultiplier,
		ArchiveTime:       archiveTime,
		DeletedTime:       deletedTime,
	}
}

// SiteDERSetting is the DER's currently-enabled operating configuration.
type SiteDERSetting struct {
	SiteDERSettingID uint32 `gorm:"column:site_der_setting_id;primaryKey;autoIncrement"`
	SiteDERID        uint32 `gorm:"column:site_der_id;uniqueIndex"`
	CreatedTime      time.Time `gorm:"column:created_time"`
	ChangedTime      time.Time `gorm:"column:changed_time"`
	ModesEnabled     *uint32 `gorm:"column:modes_enabled"`
	DOEModesEnabled  *uint32 `gorm:"column:doe_modes_enabled"`
	GradW            int32   `gorm:"column:grad_w"`
	MaxWValue        int32   `gorm:"column:max_w_value"`
	MaxWMultiplier   int32   `gorm:"column:max_w_multiplier"`
}

func (SiteDERSetting) TableName() string { return "site_der_setting" }

type ArchiveSiteDERSetting struct {
	ArchiveID        uint64 `gorm:"column:archive_id;primaryKey"`
	SiteDERSettingID uint32 `gorm:"column:site_der_setting_id;index"`
	SiteDERID        uint32
	CreatedTime      time.Time
	ChangedTime      time.Time
	ModesEnabled     *uint32
	DOEModesEnabled  *uint32
	GradW            int32
	MaxWValue        int32
	MaxWMultiplier   int32
	ArchiveTime      time.Time
	DeletedTime      *time.Time
}

func (ArchiveSiteDERSetting) TableName() string { return "archive_site_der_setting" }

func SiteDERSettingToArchive(s SiteDERSetting, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteDERSetting {
	return ArchiveSiteDERSetting{
		SiteDERSettingID: s.SiteDERSettingID,
		SiteDERID:        s.SiteDERID,
		CreatedTime:      s.CreatedTime,
		ChangedTime:      s.ChangedTime,
		ModesEnabled:     s.ModesEnabled,
		DOEModesEnabled:  s.DOEModesEnabled,
		GradW:            s.GradW,
		MaxWValue:        s.MaxWValue,
		MaxWMultiplier:   s.MaxWMultiplier,
		ArchiveTime:      archiveTime,
		DeletedTime:      deletedTime,
	}
}

// SiteDERAvailability is the DER's current reserve/availability snapshot.
type SiteDERAvailability struct {
	SiteDERAvailabilityID  uint32 `gorm:"column:site_der_availability_id;primaryKey;autoIncrement"`
	SiteDERID              uint32 `gorm:"column:site_der_id;uniqueIndex"`
	CreatedTime            time.Time `gorm:"column:created_time"`
	ChangedTime            time.Time `gorm:"column:changed_time"`
	AvailabilityDurationSec *int32 `gorm:"column:availability_duration_sec"`
	EstimatedWAvailValue   *int32 `gorm:"column:estimated_w_avail_value"`
	EstimatedWAvailMultiplier *int32 `gorm:"column:estimated_w_avail_multiplier"`
}

func (SiteDERAvailability) TableName() string { return "site_der_availability" }

type ArchiveSiteDERAvailability struct {
	ArchiveID               uint64 `gorm:"column:archive_id;primaryKey"`
	SiteDERAvailabilityID   uint32 `gorm:"column:site_der_availability_id;index"`
	SiteDERID               uint32
	CreatedTime             time.Time
	ChangedTime             time.Time
	AvailabilityDurationSec *int32
	EstimatedWAvailValue    *int32
	EstimatedWAvailMultiplier *int32
	ArchiveTime             time.Time
	DeletedTime             *time.Time
}

func (ArchiveSiteDERAvailability) TableName() string { return "archive_site_der_availability" }

func SiteDERAvailabilityToArchive(a SiteDERAvailability, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteDERAvailability {
	return ArchiveSiteDERAvailability{
		SiteDERAvailabilityID:     a.SiteDERAvailabilityID,
		SiteDERID:                 a.SiteDERID,
		CreatedTime:               a.CreatedTime,
		ChangedTime:               a.ChangedTime,
		AvailabilityDurationSec:   a.AvailabilityDurationSec,
		EstimatedWAvailValue:      a.EstimatedWAvailValue,
		EstimatedWAvailMultiplier: a.EstimatedWAvailMultiplier,
		ArchiveTime:               archiveTime,
		DeletedTime:               deletedTime,
	}
}

// SiteDERStatus is the DER's current operational status snapshot.
type SiteDERStatus struct {
	SiteDERStatusID        uint32 `gorm:"column:site_der_status_id;primaryKey;autoIncrement"`
	SiteDERID              uint32 `gorm:"column:site_der_id;uniqueIndex"`
	CreatedTime            time.Time `gorm:"column:created_time"`
	ChangedTime            time.Time `gorm:"column:changed_time"`
	AlarmStatus            *uint32 `gorm:"column:alarm_status"`
	GeneratorConnectStatus *uint32 `gorm:"column:generator_connect_status"`
	OperationalModeStatus  *uint32 `gorm:"column:operational_mode_status"`
	StorageConnectStatus   *uint32 `gorm:"column:storage_connect_status"`
}

func (SiteDERStatus) TableName() string { return "site_der_status" }

type ArchiveSiteDERStatus struct {
	ArchiveID              uint64 `gorm:"column:archive_id;primaryKey"`
	SiteDERStatusID        uint32 `gorm:"column:site_der_status_id;index"`
	SiteDERID              uint32
	CreatedTime            time.Time
	ChangedTime            time.Time
	AlarmStatus            *uint32
	GeneratorConnectStatus *uint32
	OperationalModeStatus  *uint32
	StorageConnectStatus   *uint32
	ArchiveTime            time.Time
	DeletedTime            *time.Time
}

func (ArchiveSiteDERStatus) TableName() string { return "archive_site_der_status" }

func SiteDERStatusToArchive(s SiteDERStatus, archiveTime time.Time, deletedTime *time.Time) ArchiveSiteDERStatus {
	return ArchiveSiteDERStatus{
		SiteDERStatusID:        s.SiteDERStatusID,
		SiteDERID:              s.SiteDERID,
		CreatedTime:            s.CreatedTime,
		ChangedTime:            s.ChangedTime,
		AlarmStatus:            s.AlarmStatus,
		GeneratorConnectStatus: s.GeneratorConnectStatus,
		OperationalModeStatus:  s.OperationalModeStatus,
		StorageConnectStatus:   s.StorageConnectStatus,
		ArchiveTime:            archiveTime,
		DeletedTime:            deletedTime,
	}
}

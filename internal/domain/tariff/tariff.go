// Package tariff implements generated-rate storage and the 2030.5 pricing virtualisation:
// a flat table of TariffGeneratedRate rows projected into the four-level
// TariffProfile -> RateComponent -> TimeTariffInterval -> ConsumptionTariffInterval tree.
package tariff

import (
	"time"
)

// PriceDecimalPlaces is the fixed-point scale every price column is stored at:
// a human $1 is the integer 10000 (10^PriceDecimalPlaces).
const PriceDecimalPlaces = 4

// Tariff is a top-level tariff: when it applies, who assigned it, what currency it's priced in.
type Tariff struct {
	TariffID     uint32 `gorm:"column:tariff_id;primaryKey"`
	Name         string `gorm:"column:name;type:varchar(64)"`
	DnspCode     string `gorm:"column:dnsp_code;type:varchar(20)"`
	CurrencyCode uint32 `gorm:"column:currency_code"` // ISO 4217 numeric, e.g. AUD = 36
	ChangedTime  time.Time `gorm:"column:changed_time;index"`
}

func (Tariff) TableName() string { return "tariff" }

// ArchiveTariff is the append-only shadow of Tariff.
type ArchiveTariff struct {
	ArchiveID    uint64 `gorm:"column:archive_id;primaryKey"`
	TariffID     uint32 `gorm:"column:tariff_id;index"`
	Name         string
	DnspCode     string
	CurrencyCode uint32
	CreatedTime  time.Time
	ChangedTime  time.Time
	ArchiveTime  time.Time
	DeletedTime  *time.Time
}

func (ArchiveTariff) TableName() string { return "archive_tariff" }

// ToArchiveTariff projects a live Tariff into its archive row.
func ToArchiveTariff(t Tariff, archiveTime time.Time, deletedTime *time.Time) ArchiveTariff {
	return ArchiveTariff{
		TariffID:     t.TariffID,
		Name:         t.Name,
		DnspCode:     t.DnspCode,
		CurrencyCode: t.CurrencyCode,
		ChangedTime:  t.ChangedTime,
		ArchiveTime:  archiveTime,
		DeletedTime:  deletedTime,
	}
}

// TariffGeneratedRate is a generated rate for one time interval at one site. It takes
// precedence over any "default" rate for that time slice. Unique on
// (tariff_id, site_id, start_time).
type TariffGeneratedRate struct {
	TariffGeneratedRateID uint64  `gorm:"column:tariff_generated_rate_id;primaryKey"`
	TariffID              uint32  `gorm:"column:tariff_id;uniqueIndex:tariff_id_site_id_start_time_uc,priority:1"`
	SiteID                uint32  `gorm:"column:site_id;uniqueIndex:tariff_id_site_id_start_time_uc,priority:2"`
	CalculationLogID      *uint32 `gorm:"column:calculation_log_id;index"`

	ChangedTime     time.Time `gorm:"column:changed_time;index"`
	StartTime       time.Time `gorm:"column:start_time;uniqueIndex:tariff_id_site_id_start_time_uc,priority:3;index"`
	DurationSeconds int       `gorm:"column:duration_seconds"`

	// Prices are DECIMAL(10, PriceDecimalPlaces): calculated rate for each of the four
	// pricing reading types this single row carries simultaneously.
	ImportActivePrice   float64 `gorm:"column:import_active_price;type:decimal(10,4)"`
	ExportActivePrice   float64 `gorm:"column:export_active_price;type:decimal(10,4)"`
	ImportReactivePrice float64 `gorm:"column:import_reactive_price;type:decimal(10,4)"`
	ExportReactivePrice float64 `gorm:"column:export_reactive_price;type:decimal(10,4)"`
}

func (TariffGeneratedRate) TableName() string { return "tariff_generated_rate" }

// ArchiveTariffGeneratedRate is the append-only shadow of TariffGeneratedRate.
type ArchiveTariffGeneratedRate struct {
	ArchiveID             uint64  `gorm:"column:archive_id;primaryKey"`
	TariffGeneratedRateID uint64  `gorm:"column:tariff_generated_rate_id;index"`
	TariffID              uint32  `gorm:"column:tariff_id"`
	SiteID                uint32  `gorm:"column:site_id"`
	CalculationLogID      *uint32

	CreatedTime     time.Time
	ChangedTime     time.Time
	StartTime       time.Time
	DurationSeconds int

	ImportActivePrice   float64 `gorm:"type:decimal(10,4)"`
	ExportActivePrice   float64 `gorm:"type:decimal(10,4)"`
	ImportReactivePrice float64 `gorm:"type:decimal(10,4)"`
	ExportReactivePrice float64 `gorm:"type:decimal(10,4)"`

	ArchiveTime time.Time
	DeletedTime *time.Time
}

func (ArchiveTariffGeneratedRate) TableName() string { return "archive_tariff_generated_rate" }

// ToArchive projects a live rate into its archive row, stamping archiveTime/deletedTime.
func ToArchive(r TariffGeneratedRate, archiveTime time.Time, deletedTime *time.Time) ArchiveTariffGeneratedRate {
	return ArchiveTariffGeneratedRate{
		TariffGeneratedRateID: r.TariffGeneratedRateID,
		TariffID:              r.TariffID,
		SiteID:                r.SiteID,
		CalculationLogID:      r.CalculationLogID,
		ChangedTime:           r.ChangedTime,
		StartTime:             r.StartTime,
		DurationSeconds:       r.DurationSeconds,
		ImportActivePrice:     r.ImportActivePrice,
		ExportActivePrice:     r.ExportActivePrice,
		ImportReactivePrice:   r.ImportReactivePrice,
		ExportReactivePrice:   r.ExportReactivePrice,
		ArchiveTime:           archiveTime,
		DeletedTime:           deletedTime,
	}
}

// PricingReadingType is the four pricing channels a TariffGeneratedRate carries
// simultaneously: each (day, pricing reading type) pair is one virtual RateComponent.
type PricingReadingType uint32

const (
	ImportActiveKWh       PricingReadingType = 1
	ExportActiveKWh       PricingReadingType = 2
	ImportReactiveKVArh   PricingReadingType = 3
	ExportReactiveKVArh   PricingReadingType = 4
)

// PricingReadingTypes lists all four pricing reading types in the fixed order the
// RateComponent/TimeTariffInterval fanout iterates them in.
var PricingReadingTypes = [4]PricingReadingType{
	ImportActiveKWh, ExportActiveKWh, ImportReactiveKVArh, ExportReactiveKVArh,
}

// ExtractPrice returns the one of the rate's four decimal columns corresponding to prt.
func ExtractPrice(prt PricingReadingType, rate TariffGeneratedRate) float64 {
	switch prt {
	case ImportActiveKWh:
		return rate.ImportActivePrice
	case ExportActiveKWh:
		return rate.ExportActivePrice
	case ImportReactiveKVArh:
		return rate.ImportReactivePrice
	case ExportReactiveKVArh:
		return rate.ExportReactivePrice
	default:
		return 0
	}
}

package tariff

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// SelectTariffCount returns the number of tariffs changed at or after after.
func SelectTariffCount(ctx context.Context, db *gorm.DB, after time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&Tariff{}).Where("changed_time >= ?", after).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tariffs: %w", err)
	}
	return count, nil
}

// SelectAllTariffs pages through tariffs changed at or after changedAfter, ordered tariff_id DESC.
func SelectAllTariffs(ctx context.Context, db *gorm.DB, start int, changedAfter time.Time, limit int) ([]Tariff, error) {
	var tariffs []Tariff
	err := db.WithContext(ctx).
		Where("changed_time >= ?", changedAfter).
		Order("tariff_id DESC").
		Offset(start).
		Limit(limit).
		Find(&tariffs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select tariffs: %w", err)
	}
	return tariffs, nil
}

// SelectSingleTariff fetches a tariff by primary key, returning gorm.ErrRecordNotFound if absent.
func SelectSingleTariff(ctx context.Context, db *gorm.DB, tariffID uint32) (*Tariff, error) {
	var t Tariff
	err := db.WithContext(ctx).First(&t, tariffID).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// localDayBounds returns the [start, end) UTC instants bracketing day's calendar date in loc.
func localDayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// CountTariffRatesForDay counts TariffGeneratedRate rows for (tariff, site) whose start_time
// falls on day in the site's local timezone loc.
func CountTariffRatesForDay(ctx context.Context, db *gorm.DB, aggregatorID int64, tariffID, siteID uint32, day time.Time, loc *time.Location, changedAfter time.Time) (int64, error) {
	from, to := localDayBounds(day, loc)
	var count int64
	err := db.WithContext(ctx).Model(&TariffGeneratedRate{}).
		Joins("JOIN site ON site.site_id = tariff_generated_rate.site_id").
		Where("tariff_generated_rate.tariff_id = ?", tariffID).
		Where("tariff_generated_rate.site_id = ?", siteID).
		Where("tariff_generated_rate.start_time >= ? AND tariff_generated_rate.start_time < ?", from, to).
		Where("tariff_generated_rate.changed_time >= ?", changedAfter).
		Where("site.aggregator_id = ?", aggregatorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tariff rates for day: %w", err)
	}
	return count, nil
}

// SelectTariffRatesForDay pages through TariffGeneratedRate rows for (tariff, site) whose
// start_time falls on day in the site's local timezone loc. Orders
// (start_time ASC, changed_time DESC, id DESC) as required for TimeTariffInterval lists.
func SelectTariffRatesForDay(ctx context.Context, db *gorm.DB, aggregatorID int64, tariffID, siteID uint32, day time.Time, loc *time.Location, start int, changedAfter time.Time, limit int) ([]TariffGeneratedRate, error) {
	from, to := localDayBounds(day, loc)
	var rates []TariffGeneratedRate
	err := db.WithContext(ctx).
		Joins("JOIN site ON site.site_id = tariff_generated_rate.site_id").
		Where("tariff_generated_rate.tariff_id = ?", tariffID).
		Where("tariff_generated_rate.site_id = ?", siteID).
		Where("tariff_generated_rate.start_time >= ? AND tariff_generated_rate.start_time < ?", from, to).
		Where("tariff_generated_rate.changed_time >= ?", changedAfter).
		Where("site.aggregator_id = ?", aggregatorID).
		Order("tariff_generated_rate.start_time ASC").
		Order("tariff_generated_rate.changed_time DESC").
		Order("tariff_generated_rate.tariff_generated_rate_id DESC").
		Offset(start).
		Limit(limit).
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select tariff rates for day: %w", err)
	}
	return rates, nil
}

// SelectTariffRateForDayTime requires an exact (day, timeOfDay) match in the site's local
// timezone - not merely a containing interval. Returns gorm.ErrRecordNotFound if absent.
func SelectTariffRateForDayTime(ctx context.Context, db *gorm.DB, aggregatorID int64, tariffID, siteID uint32, day time.Time, timeOfDay time.Duration, loc *time.Location) (*TariffGeneratedRate, error) {
	from, _ := localDayBounds(day, loc)
	match := from.Add(timeOfDay)

	var rate TariffGeneratedRate
	err := db.WithContext(ctx).
		Joins("JOIN site ON site.site_id = tariff_generated_rate.site_id").
		Where("tariff_generated_rate.tariff_id = ?", tariffID).
		Where("tariff_generated_rate.site_id = ?", siteID).
		Where("tariff_generated_rate.start_time = ?", match).
		Where("site.aggregator_id = ?", aggregatorID).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// TariffGeneratedRateStats summarises the rates for one (tariff, site): how many, and the
// earliest/latest start_time, localized to the site's timezone.
type TariffGeneratedRateStats struct {
	TotalRates int64
	FirstRate  *time.Time
	LastRate   *time.Time
}

// SelectRateStats computes basic stats on TariffGeneratedRate for (tariff, site).
func SelectRateStats(ctx context.Context, db *gorm.DB, aggregatorID int64, tariffID, siteID uint32, changedAfter time.Time, loc *time.Location) (TariffGeneratedRateStats, error) {
	var rows []TariffGeneratedRate
	err := db.WithContext(ctx).
		Joins("JOIN site ON site.site_id = tariff_generated_rate.site_id").
		Where("tariff_generated_rate.tariff_id = ?", tariffID).
		Where("tariff_generated_rate.site_id = ?", siteID).
		Where("tariff_generated_rate.changed_time >= ?", changedAfter).
		Where("site.aggregator_id = ?", aggregatorID).
		Find(&rows).Error
	if err != nil {
		return TariffGeneratedRateStats{}, fmt.Errorf("failed to select rate stats: %w", err)
	}
	if len(rows) == 0 {
		return TariffGeneratedRateStats{TotalRates: 0}, nil
	}

	first, last := rows[0].StartTime.In(loc), rows[0].StartTime.In(loc)
	for _, r := range rows[1:] {
		t := r.StartTime.In(loc)
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return TariffGeneratedRateStats{TotalRates: int64(len(rows)), FirstRate: &first, LastRate: &last}, nil
}

// ComputeRateComponentPage converts a client-facing (start, limit) pair over the virtual
// RateComponent list (4 entries per day - one per PricingReadingType) into the day-bucket
// window the backing store must be queried with, plus the head/tail trim the mapper applies
// to the flattened (day x pricing reading type) product after fetching.
func ComputeRateComponentPage(start, limit int) (dbStart, dbLimit, headSkip, tailSkip int) {
	dbStart = start / 4
	headSkip = start % 4
	dbLimit = ceilDiv(headSkip+limit, 4)
	tailSkip = (4 - ((headSkip + limit) % 4)) % 4
	return
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RateComponentRef identifies one virtual RateComponent: a (day, pricing reading type) pair.
type RateComponentRef struct {
	Day                time.Time
	PricingReadingType PricingReadingType
}

// FlattenRateComponents expands an ordered list of days into the (day x prt) product, in
// PricingReadingTypes order within each day.
func FlattenRateComponents(days []time.Time) []RateComponentRef {
	refs := make([]RateComponentRef, 0, len(days)*4)
	for _, d := range days {
		for _, prt := range PricingReadingTypes {
			refs = append(refs, RateComponentRef{Day: d, PricingReadingType: prt})
		}
	}
	return refs
}

// TrimRateComponentPage drops the first headSkip and last tailSkip elements of a flattened
// RateComponent page, clamping to the slice bounds.
func TrimRateComponentPage(refs []RateComponentRef, headSkip, tailSkip int) []RateComponentRef {
	if headSkip > len(refs) {
		headSkip = len(refs)
	}
	end := len(refs) - tailSkip
	if end < headSkip {
		end = headSkip
	}
	return refs[headSkip:end]
}

// SelectUniqueRateDays returns the distinct calendar days (in the site's local timezone loc)
// on which a TariffGeneratedRate exists for (tariff, site), changed at or after changedAfter,
// ordered ascending. Timezone bucketing is performed in application code rather than pushed
// down via a dialect-specific SQL timezone function, to keep the query portable across the
// postgres/mysql/sqlite drivers this module supports.
func SelectUniqueRateDays(ctx context.Context, db *gorm.DB, aggregatorID int64, tariffID, siteID uint32, changedAfter time.Time, loc *time.Location) ([]time.Time, error) {
	var rows []TariffGeneratedRate
	err := db.WithContext(ctx).
		Select("tariff_generated_rate.start_time").
		Joins("JOIN site ON site.site_id = tariff_generated_rate.site_id").
		Where("tariff_generated_rate.tariff_id = ?", tariffID).
		Where("tariff_generated_rate.site_id = ?", siteID).
		Where("tariff_generated_rate.changed_time >= ?", changedAfter).
		Where("site.aggregator_id = ?", aggregatorID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select unique rate days: %w", err)
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, r := range rows {
		y, m, d := r.StartTime.In(loc).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// FetchRateComponentList is the entry point for RateComponent list pagination: it resolves
// the day-bucket window from (start, limit), fetches the matching unique rate days, and
// returns the trimmed page of virtual RateComponent refs alongside all_, the total virtual
// RateComponent count (unique rate days x 4).
func FetchRateComponentList(ctx context.Context, db *gorm.DB, aggregatorID int64, tariffID, siteID uint32, changedAfter time.Time, loc *time.Location, start, limit int) ([]RateComponentRef, int, error) {
	allDays, err := SelectUniqueRateDays(ctx, db, aggregatorID, tariffID, siteID, changedAfter, loc)
	if err != nil {
		return nil, 0, err
	}

	dbStart, dbLimit, headSkip, tailSkip := ComputeRateComponentPage(start, limit)

	from := dbStart
	if from > len(allDays) {
		from = len(allDays)
	}
	to := from + dbLimit
	if to > len(allDays) {
		to = len(allDays)
	}

	page := FlattenRateComponents(allDays[from:to])
	trimmed := TrimRateComponentPage(page, headSkip, tailSkip)

	return trimmed, len(allDays) * 4, nil
}

// RateBatchKey groups TariffGeneratedRate rows for the notification batcher: aggregator_id,
// then tariff_id, site_id, and the UTC calendar day the rate's start_time falls on (the site's
// own timezone is not consulted) - the grouping behind the href
// `/edev/{site}/tp/{tariff}/rc/{day}/{prt}/tti`.
type RateBatchKey struct {
	AggregatorID int64
	TariffID     uint32
	SiteID       uint32
	Day          time.Time
}

type rateWithAggregator struct {
	TariffGeneratedRate
	AggregatorID int64
}

// FetchRatesChangedAt returns every live TariffGeneratedRate whose changed_time exactly
// equals timestamp, grouped by RateBatchKey. start_time is bucketed by its UTC calendar day;
// the owning site's timezone is not looked up, so for a site outside UTC a rate can fall in a
// different day bucket than its local date. Day granularity only affects which RateComponent
// a subscriber's page references, not whether they're notified at all.
func FetchRatesChangedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[RateBatchKey][]TariffGeneratedRate, error) {
	var rows []rateWithAggregator
	err := db.WithContext(ctx).Table("tariff_generated_rate").
		Select("tariff_generated_rate.*, site.aggregator_id AS aggregator_id").
		Joins("JOIN site ON site.site_id = tariff_generated_rate.site_id").
		Where("tariff_generated_rate.changed_time = ?", timestamp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates changed at timestamp: %w", err)
	}

	batches := make(map[RateBatchKey][]TariffGeneratedRate)
	for _, row := range rows {
		y, m, d := row.StartTime.UTC().Date()
		key := RateBatchKey{AggregatorID: row.AggregatorID, TariffID: row.TariffID, SiteID: row.SiteID, Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
		batches[key] = append(batches[key], row.TariffGeneratedRate)
	}
	return batches, nil
}

type archiveRateWithAggregator struct {
	ArchiveTariffGeneratedRate
	AggregatorID int64
}

// FetchRatesDeletedAt returns every archived TariffGeneratedRate whose deleted_time exactly
// equals timestamp, grouped the same way as FetchRatesChangedAt. Archive rows carry no FK to
// site, so aggregator_id is resolved from the still-live site row at query time; a rate whose
// site has since been deleted too is excluded; a rate belonging to a site that's since moved
// aggregators is grouped under the site's current owner, which is this port's accepted
// approximation of the original's point-in-time aggregator_id capture.
func FetchRatesDeletedAt(ctx context.Context, db *gorm.DB, timestamp time.Time) (map[RateBatchKey][]ArchiveTariffGeneratedRate, error) {
	var rows []archiveRateWithAggregator
	err := db.WithContext(ctx).Table("archive_tariff_generated_rate").
		Select("archive_tariff_generated_rate.*, site.aggregator_id AS aggregator_id").
		Joins("JOIN site ON site.site_id = archive_tariff_generated_rate.site_id").
		Where("archive_tariff_generated_rate.deleted_time = ?", timestamp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates deleted at timestamp: %w", err)
	}

	batches := make(map[RateBatchKey][]ArchiveTariffGeneratedRate)
	for _, row := range rows {
		y, m, d := row.StartTime.UTC().Date()
		key := RateBatchKey{AggregatorID: row.AggregatorID, TariffID: row.TariffID, SiteID: row.SiteID, Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
		batches[key] = append(batches[key], row.ArchiveTariffGeneratedRate)
	}
	return batches, nil
}

// CreateTariff inserts a new top-level tariff (spec.md §6.2 admin "CRUD on ... tariffs").
func CreateTariff(ctx context.Context, db *gorm.DB, name, dnspCode string, currencyCode uint32, now time.Time) (*Tariff, error) {
	t := Tariff{Name: name, DnspCode: dnspCode, CurrencyCode: currencyCode, ChangedTime: now}
	if err := db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to create tariff: %w", err)
	}
	return &t, nil
}

// UpdateTariff replaces a tariff's descriptive fields, archiving its pre-image first.
func UpdateTariff(ctx context.Context, db *gorm.DB, tariffID uint32, name, dnspCode string, currencyCode uint32, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Tariff
		if err := tx.First(&existing, tariffID).Error; err != nil {
			return err
		}
		if err := archiveTariffPreimage(ctx, tx, existing, now); err != nil {
			return err
		}
		existing.Name = name
		existing.DnspCode = dnspCode
		existing.CurrencyCode = currencyCode
		existing.ChangedTime = now
		return tx.Save(&existing).Error
	})
}

// DeleteTariff archives and removes a tariff. Callers are expected to have already deleted or
// re-assigned its TariffGeneratedRate rows.
func DeleteTariff(ctx context.Context, db *gorm.DB, tariffID uint32, now time.Time) error {
	var existing Tariff
	if err := db.WithContext(ctx).First(&existing, tariffID).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := archiveTariffPreimage(ctx, tx, existing, now); err != nil {
			return err
		}
		return tx.Delete(&Tariff{}, tariffID).Error
	})
}

func archiveTariffPreimage(ctx context.Context, tx *gorm.DB, t Tariff, archiveTime time.Time) error {
	archived := ToArchiveTariff(t, archiveTime, nil)
	if err := tx.WithContext(ctx).Create(&archived).Error; err != nil {
		return fmt.Errorf("failed to archive tariff pre-image: %w", err)
	}
	return nil
}

// UpsertTariffGeneratedRates bulk-inserts-or-replaces generated rates for one tariff, keyed by
// the (tariff_id, site_id, start_time) unique index - the admin surface's "generated rates
// (bulk upsert)" operation. Each rate whose key already exists is archived then replaced;
// rates with a new key are inserted directly.
func UpsertTariffGeneratedRates(ctx context.Context, db *gorm.DB, rates []TariffGeneratedRate, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rates {
			rates[i].ChangedTime = now

			var existing TariffGeneratedRate
			err := tx.Where("tariff_id = ? AND site_id = ? AND start_time = ?", rates[i].TariffID, rates[i].SiteID, rates[i].StartTime).
				First(&existing).Error
			switch {
			case err == nil:
				archived := ToArchive(existing, now, nil)
				if err := tx.Create(&archived).Error; err != nil {
					return fmt.Errorf("failed to archive generated rate pre-image: %w", err)
				}
				rates[i].TariffGeneratedRateID = existing.TariffGeneratedRateID
				if err := tx.Save(&rates[i]).Error; err != nil {
					return fmt.Errorf("failed to replace generated rate: %w", err)
				}
			case err == gorm.ErrRecordNotFound:
				if err := tx.Create(&rates[i]).Error; err != nil {
					return fmt.Errorf("failed to insert generated rate: %w", err)
				}
			default:
				return fmt.Errorf("failed to look up existing generated rate: %w", err)
			}
		}
		return nil
	})
}

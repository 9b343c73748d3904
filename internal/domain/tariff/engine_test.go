package tariff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// minimal stand-in for the site domain's table, just enough to exercise the
// aggregator_id scoping join.
type testSite struct {
	SiteID       uint32 `gorm:"primaryKey"`
	AggregatorID int64
}

func (testSite) TableName() string { return "site" }

func setupTariffDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Tariff{}, &ArchiveTariff{}, &TariffGeneratedRate{}, &ArchiveTariffGeneratedRate{}, &testSite{}))
	return db
}

func rate(id uint64, tariffID, siteID uint32, start time.Time) TariffGeneratedRate {
	return TariffGeneratedRate{
		TariffGeneratedRateID: id,
		TariffID:              tariffID,
		SiteID:                siteID,
		ChangedTime:           start,
		StartTime:             start,
		DurationSeconds:       1800,
		ImportActivePrice:     1,
		ExportActivePrice:     2,
		ImportReactivePrice:   3,
		ExportReactivePrice:   4,
	}
}

func TestSelectAllTariffs_OrdersByIDDesc(t *testing.T) {
	db := setupTariffDB(t)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []uint32{1, 2, 3} {
		require.NoError(t, db.Create(&Tariff{TariffID: id, Name: "t", ChangedTime: now}).Error)
	}

	got, err := SelectAllTariffs(ctx, db, 0, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint32{3, 2, 1}, []uint32{got[0].TariffID, got[1].TariffID, got[2].TariffID})
}

func TestExtractPrice_SelectsMatchingColumn(t *testing.T) {
	r := rate(1, 1, 1, time.Now())
	assert.Equal(t, r.ImportActivePrice, ExtractPrice(ImportActiveKWh, r))
	assert.Equal(t, r.ExportActivePrice, ExtractPrice(ExportActiveKWh, r))
	assert.Equal(t, r.ImportReactivePrice, ExtractPrice(ImportReactiveKVArh, r))
	assert.Equal(t, r.ExportReactivePrice, ExtractPrice(ExportReactiveKVArh, r))
}

func TestSelectTariffRatesForDay_LocalizesToSiteTimezone(t *testing.T) {
	db := setupTariffDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)

	loc, err := time.LoadLocation("Australia/Brisbane") // UTC+10, no DST
	require.NoError(t, err)

	// 2023-06-01 00:30 local time is 2023-05-31 14:30 UTC.
	localStart := time.Date(2023, 6, 1, 0, 30, 0, 0, loc)
	onDay := rate(1, 1, 1, localStart)
	// One minute before local midnight on the prior day - must NOT match day=2023-06-01.
	offDay := rate(2, 1, 1, localStart.Add(-31*time.Minute))
	require.NoError(t, db.Create(&onDay).Error)
	require.NoError(t, db.Create(&offDay).Error)

	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := SelectTariffRatesForDay(ctx, db, 10, 1, 1, day, loc, 0, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].TariffGeneratedRateID)
}

func TestSelectTariffRateForDayTime_RequiresExactMatch(t *testing.T) {
	db := setupTariffDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)

	loc := time.UTC
	start := time.Date(2023, 6, 1, 14, 30, 0, 0, loc)
	r := rate(1, 1, 1, start)
	require.NoError(t, db.Create(&r).Error)

	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := SelectTariffRateForDayTime(ctx, db, 10, 1, 1, day, 14*time.Hour+30*time.Minute, loc)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.TariffGeneratedRateID)

	// A time that falls inside the interval's duration but isn't an exact start must not match.
	_, err = SelectTariffRateForDayTime(ctx, db, 10, 1, 1, day, 14*time.Hour+45*time.Minute, loc)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestComputeRateComponentPage_S5(t *testing.T) {
	// S5: 3 rate days seeded, request start=1 limit=5. Expect to fetch 2 day buckets from
	// index 0, trim 1 from the head and 2 from the tail, leaving 5 entries whose first is
	// (day 0, prt=2) and whose last is (day 1, prt=2).
	dbStart, dbLimit, headSkip, tailSkip := ComputeRateComponentPage(1, 5)
	assert.Equal(t, 0, dbStart)
	assert.Equal(t, 2, dbLimit)
	assert.Equal(t, 1, headSkip)
	assert.Equal(t, 2, tailSkip)

	day0 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	day1 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	page := FlattenRateComponents([]time.Time{day0, day1})
	trimmed := TrimRateComponentPage(page, headSkip, tailSkip)

	require.Len(t, trimmed, 5)
	assert.Equal(t, day0, trimmed[0].Day)
	assert.Equal(t, ExportActiveKWh, trimmed[0].PricingReadingType)
	assert.Equal(t, day1, trimmed[len(trimmed)-1].Day)
	assert.Equal(t, ExportActiveKWh, trimmed[len(trimmed)-1].PricingReadingType)
}

func TestFetchRateComponentList_S5(t *testing.T) {
	db := setupTariffDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)

	loc := time.UTC
	days := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, loc),
		time.Date(2023, 1, 2, 0, 0, 0, 0, loc),
		time.Date(2023, 1, 3, 0, 0, 0, 0, loc),
	}
	var id uint64 = 1
	for _, d := range days {
		r := rate(id, 1, 1, d.Add(6*time.Hour))
		require.NoError(t, db.Create(&r).Error)
		id++
	}

	refs, all, err := FetchRateComponentList(ctx, db, 10, 1, 1, time.Time{}, loc, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, all) // 3 days x 4 pricing reading types
	require.Len(t, refs, 5)
	assert.Equal(t, days[0], refs[0].Day)
	assert.Equal(t, ExportActiveKWh, refs[0].PricingReadingType)
	assert.Equal(t, days[1], refs[len(refs)-1].Day)
	assert.Equal(t, ExportActiveKWh, refs[len(refs)-1].PricingReadingType)
}

func TestSelectRateStats_EmptyReturnsZeroCountNilDates(t *testing.T) {
	db := setupTariffDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)

	stats, err := SelectRateStats(ctx, db, 10, 1, 1, time.Time{}, time.UTC)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRates)
	assert.Nil(t, stats.FirstRate)
	assert.Nil(t, stats.LastRate)
}

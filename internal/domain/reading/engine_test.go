package reading

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testSite struct {
	SiteID       uint32 `gorm:"primaryKey"`
	AggregatorID int64
}

func (testSite) TableName() string { return "site" }

func setupReadingDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&SiteReadingType{}, &ArchiveSiteReadingType{},
		&SiteReading{}, &ArchiveSiteReading{},
		&testSite{},
	))
	return db
}

func baseSRT(id uint64, aggregatorID int64, siteID uint32, now time.Time) SiteReadingType {
	return SiteReadingType{
		SiteReadingTypeID:     id,
		AggregatorID:          aggregatorID,
		SiteID:                siteID,
		UOM:                   38,
		DataQualifier:         0,
		FlowDirection:         1,
		AccumulationBehaviour: 3,
		Kind:                  37,
		Phase:                 0,
		PowerOfTenMultiplier:  0,
		DefaultIntervalSeconds: 300,
		RoleFlags:             0,
		ChangedTime:           now,
	}
}

func TestUpsertSiteReadingTypeForAggregator_DedupsByTuple(t *testing.T) {
	db := setupReadingDB(t)
	ctx := context.Background()
	now := time.Now()

	first := baseSRT(1, 10, 1, now)
	id1, err := UpsertSiteReadingTypeForAggregator(ctx, db, 10, first)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id1)

	// Same semantic tuple, different PK and changed_time - must reuse id1, not insert a new row.
	dup := baseSRT(2, 10, 1, now.Add(time.Hour))
	id2, err := UpsertSiteReadingTypeForAggregator(ctx, db, 10, dup)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	var count int64
	require.NoError(t, db.Model(&SiteReadingType{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var archived []ArchiveSiteReadingType
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
}

func TestUpsertSiteReadingTypeForAggregator_RejectsMismatchedOwner(t *testing.T) {
	db := setupReadingDB(t)
	ctx := context.Background()
	_, err := UpsertSiteReadingTypeForAggregator(ctx, db, 99, baseSRT(1, 10, 1, time.Now()))
	assert.Error(t, err)
}

func TestUpsertSiteReadings_ReplacesConflictingInterval(t *testing.T) {
	db := setupReadingDB(t)
	ctx := context.Background()
	now := time.Now()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, UpsertSiteReadings(ctx, db, now, []SiteReading{
		{SiteReadingID: 1, SiteReadingTypeID: 1, ChangedTime: now, TimePeriodStart: start, TimePeriodSeconds: 300, Value: 100},
	}))

	later := now.Add(time.Minute)
	require.NoError(t, UpsertSiteReadings(ctx, db, later, []SiteReading{
		{SiteReadingID: 2, SiteReadingTypeID: 1, ChangedTime: later, TimePeriodStart: start, TimePeriodSeconds: 300, Value: 200},
	}))

	var live []SiteReading
	require.NoError(t, db.Find(&live).Error)
	require.Len(t, live, 1)
	assert.Equal(t, int64(200), live[0].Value)

	var archived []ArchiveSiteReading
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
	assert.Equal(t, int64(100), archived[0].Value)
}

func TestDeleteSiteReadingTypeForAggregator_CascadesReadings(t *testing.T) {
	db := setupReadingDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)
	srt := baseSRT(1, 10, 1, now)
	require.NoError(t, db.Create(&srt).Error)
	require.NoError(t, db.Create(&SiteReading{SiteReadingID: 1, SiteReadingTypeID: 1, ChangedTime: now, TimePeriodStart: now, TimePeriodSeconds: 300, Value: 1}).Error)

	ok, err := DeleteSiteReadingTypeForAggregator(ctx, db, 10, nil, 1, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	var srtCount, readingCount int64
	require.NoError(t, db.Model(&SiteReadingType{}).Count(&srtCount).Error)
	require.NoError(t, db.Model(&SiteReading{}).Count(&readingCount).Error)
	assert.Zero(t, srtCount)
	assert.Zero(t, readingCount)

	ok, err = DeleteSiteReadingTypeForAggregator(ctx, db, 10, nil, 999, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountAndFetchSiteReadingTypesPage_OrdersIDDesc(t *testing.T) {
	db := setupReadingDB(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)

	for _, id := range []uint64{1, 2, 3} {
		srt := baseSRT(id, 10, 1, now)
		srt.UOM = uint32(id) // keep each row's unique tuple distinct
		require.NoError(t, db.Create(&srt).Error)
	}

	count, err := CountSiteReadingTypesForAggregator(ctx, db, 10, nil, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	page, err := FetchSiteReadingTypesPageForAggregator(ctx, db, 10, nil, 0, 10, time.Time{})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []uint64{3, 2, 1}, []uint64{page[0].SiteReadingTypeID, page[1].SiteReadingTypeID, page[2].SiteReadingTypeID})
}

package sitecontrol

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
// SelectDOEsAtTimestamp join on aggregator_id.
type testSite struct {
	SiteID       uint32 `gorm:"primaryKey"`
	AggregatorID int64
}

func (testSite) TableName() string { return "site" }

func setupEngineDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&SiteControlGroup{}, &ArchiveSiteControlGroup{},
		&DynamicOperatingEnvelope{}, &ArchiveDynamicOperatingEnvelope{},
		&testSite{},
	))
	return db
}

func newDOE(groupID, siteID uint32, id uint64, start time.Time, durationSeconds int) DynamicOperatingEnvelope {
	return DynamicOperatingEnvelope{
		DynamicOperatingEnvelopeID: id,
		SiteControlGroupID:         groupID,
		SiteID:                     siteID,
		CreatedTime:                start,
		ChangedTime:                start,
		StartTime:                  start,
		EndTime:                    start.Add(time.Duration(durationSeconds) * time.Second),
		DurationSeconds:            durationSeconds,
	}
}

func TestCancelThenInsertDOEs_ReplacesSameWindow(t *testing.T) {
	db := setupEngineDB(t)
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	first := newDOE(1, 1, 1, start, 600)
	require.NoError(t, CancelThenInsertDOEs(ctx, db, []DynamicOperatingEnvelope{first}, start))

	replacement := newDOE(1, 1, 2, start, 300)
	require.NoError(t, CancelThenInsertDOEs(ctx, db, []DynamicOperatingEnvelope{replacement}, start.Add(time.Minute)))

	var live []DynamicOperatingEnvelope
	require.NoError(t, db.Find(&live).Error)
	require.Len(t, live, 1)
	assert.Equal(t, uint64(2), live[0].DynamicOperatingEnvelopeID)

	var archived []ArchiveDynamicOperatingEnvelope
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
	assert.Equal(t, uint64(1), archived[0].DynamicOperatingEnvelopeID)
	require.NotNil(t, archived[0].DeletedTime)
}

func TestCancelThenInsertDOEs_RejectsInconsistentEndTime(t *testing.T) {
	db := setupEngineDB(t)
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	bad := newDOE(1, 1, 1, start, 600)
	bad.EndTime = start.Add(time.Hour)

	err := CancelThenInsertDOEs(ctx, db, []DynamicOperatingEnvelope{bad}, start)
	assert.Error(t, err)
}

// S2 — Supersession. Group 1 (primacy 0), site 1, start=2023-01-01T00:00Z, duration=600.
// New DOE group 3, site 1, start=2023-01-01T00:02Z, duration=60: with group 3 at primacy 1
// (lower priority, higher value), the group-1 DOE must NOT be superseded. With group 3 forced
// to primacy 0, it must be superseded and the pre-image archived.
func TestSupersedeThenInsertDOEs_PrimacyRule(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("lower priority group does not supersede", func(t *testing.T) {
		db := setupEngineDB(t)
		ctx := context.Background()

		existing := newDOE(1, 1, 1, start, 600)
		require.NoError(t, db.Create(&existing).Error)

		newDOEs := []DynamicOperatingEnvelope{newDOE(3, 1, 2, start.Add(2*time.Minute), 60)}
		primacy := MapPrimacyLookup(map[uint32]uint32{1: 0, 3: 1})

		require.NoError(t, SupersedeThenInsertDOEs(ctx, db, newDOEs, primacy, start.Add(3*time.Minute)))

		var got DynamicOperatingEnvelope
		require.NoError(t, db.First(&got, 1).Error)
		assert.False(t, got.Superseded)

		var archiveCount int64
		require.NoError(t, db.Model(&ArchiveDynamicOperatingEnvelope{}).Count(&archiveCount).Error)
		assert.Zero(t, archiveCount)
	})

	t.Run("equal-or-higher priority group supersedes", func(t *testing.T) {
		db := setupEngineDB(t)
		ctx := context.Background()

		existing := newDOE(1, 1, 1, start, 600)
		require.NoError(t, db.Create(&existing).Error)

		newDOEs := []DynamicOperatingEnvelope{newDOE(3, 1, 2, start.Add(2*time.Minute), 60)}
		primacy := MapPrimacyLookup(map[uint32]uint32{1: 0, 3: 0})

		require.NoError(t, SupersedeThenInsertDOEs(ctx, db, newDOEs, primacy, start.Add(3*time.Minute)))

		var got DynamicOperatingEnvelope
		require.NoError(t, db.First(&got, 1).Error)
		assert.True(t, got.Superseded)

		var archived []ArchiveDynamicOperatingEnvelope
		require.NoError(t, db.Find(&archived).Error)
		require.Len(t, archived, 1)
		assert.False(t, archived[0].Superseded, "archived pre-image must capture the old superseded=false value")
		assert.Nil(t, archived[0].DeletedTime, "archiving an update, not a delete, leaves deleted_time NULL")
	})

	t.Run("missing group defaults to primacy 0", func(t *testing.T) {
		db := setupEngineDB(t)
		ctx := context.Background()

		existing := newDOE(1, 1, 1, start, 600)
		require.NoError(t, db.Create(&existing).Error)

		newDOEs := []DynamicOperatingEnvelope{newDOE(3, 1, 2, start.Add(2*time.Minute), 60)}
		primacy := MapPrimacyLookup(map[uint32]uint32{3: 1}) // group 1 absent -> defaults to 0

		require.NoError(t, SupersedeThenInsertDOEs(ctx, db, newDOEs, primacy, start.Add(3*time.Minute)))

		var got DynamicOperatingEnvelope
		require.NoError(t, db.First(&got, 1).Error)
		assert.False(t, got.Superseded, "group 1 missing from the lookup defaults to primacy 0 (max priority), so a primacy-1 group cannot supersede it")
	})
}

func TestDeleteDOEsWithStartTimeInRange(t *testing.T) {
	db := setupEngineDB(t)
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	inRange := newDOE(1, 1, 1, start, 60)
	outOfRange := newDOE(1, 1, 2, start.Add(time.Hour), 60)
	require.NoError(t, db.Create(&inRange).Error)
	require.NoError(t, db.Create(&outOfRange).Error)

	err := DeleteDOEsWithStartTimeInRange(ctx, db, 1, nil, start, start.Add(30*time.Minute), start.Add(time.Hour*2))
	require.NoError(t, err)

	var live []DynamicOperatingEnvelope
	require.NoError(t, db.Find(&live).Error)
	require.Len(t, live, 1)
	assert.Equal(t, uint64(2), live[0].DynamicOperatingEnvelopeID)

	var archived []ArchiveDynamicOperatingEnvelope
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
	assert.Equal(t, uint64(1), archived[0].DynamicOperatingEnvelopeID)
}

// Ordering boundary: a page spanning the live/archive boundary must still come back strictly
// ordered by (start_time ASC, changed_time DESC, id DESC) regardless of origin.
func TestSelectActiveDOEsIncludeDeleted_OrderingAcrossBoundary(t *testing.T) {
	db := setupEngineDB(t)
	ctx := context.Background()
	now := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	live := newDOE(1, 1, 1, now.Add(time.Hour), 3600)
	require.NoError(t, db.Create(&live).Error)

	deletedAt := now.Add(30 * time.Minute)
	archived := ArchiveDynamicOperatingEnvelope{
		ArchiveID:                  1,
		DynamicOperatingEnvelopeID: 2,
		SiteControlGroupID:         1,
		SiteID:                     1,
		StartTime:                  now,
		EndTime:                    now.Add(2 * time.Hour),
		ArchiveTime:                deletedAt,
		DeletedTime:                &deletedAt,
	}
	require.NoError(t, db.Create(&archived).Error)

	results, err := SelectActiveDOEsIncludeDeleted(ctx, db, 1, 1, now)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].IsArchive)
	assert.Equal(t, uint64(2), results[0].Archived.DynamicOperatingEnvelopeID)
	assert.False(t, results[1].IsArchive)
	assert.Equal(t, uint64(1), results[1].Live.DynamicOperatingEnvelopeID)
}

func TestSelectDOEsAtTimestamp_FiltersByAggregator(t *testing.T) {
	db := setupEngineDB(t)
	ctx := context.Background()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&testSite{SiteID: 1, AggregatorID: 10}).Error)
	require.NoError(t, db.Create(&testSite{SiteID: 2, AggregatorID: 20}).Error)

	d1 := newDOE(1, 1, 1, start, 3600)
	d2 := newDOE(1, 2, 2, start, 3600)
	require.NoError(t, db.Create(&d1).Error)
	require.NoError(t, db.Create(&d2).Error)

	rows, err := SelectDOEsAtTimestamp(ctx, db, 1, 10, nil, start.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(1), rows[0].DynamicOperatingEnvelopeID)
}

func TestEnumerateSiteControlGroups_OrderedByPrimacyThenIDDesc(t *testing.T) {
	db := setupEngineDB(t)
	ctx := context.Background()
	now := time.Now()

	groups := []SiteControlGroup{
		{SiteControlGroupID: 1, Primacy: 5, FsaID: 1, CreatedTime: now, ChangedTime: now},
		{SiteControlGroupID: 2, Primacy: 1, FsaID: 1, CreatedTime: now, ChangedTime: now},
		{SiteControlGroupID: 3, Primacy: 1, FsaID: 1, CreatedTime: now, ChangedTime: now},
	}
	for _, g := range groups {
		require.NoError(t, db.Create(&g).Error)
	}

	got, err := EnumerateSiteControlGroups(ctx, db, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint32{3, 2, 1}, []uint32{got[0].SiteControlGroupID, got[1].SiteControlGroupID, got[2].SiteControlGroupID})
}

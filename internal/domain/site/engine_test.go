package site

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Site{}, &ArchiveSite{},
		&SiteDER{}, &ArchiveSiteDER{},
		&SiteDERRating{}, &ArchiveSiteDERRating{},
		&SiteDERSetting{}, &ArchiveSiteDERSetting{},
		&SiteDERAvailability{}, &ArchiveSiteDERAvailability{},
		&SiteDERStatus{}, &ArchiveSiteDERStatus{},
	))
	return db
}

func TestRegisterSite_EnforcesUniqueAggregatorSfdi(t *testing.T) {
	db := setupSiteDB(t)
	ctx := context.Background()
	now := time.Now()

	s1 := &Site{SiteID: 1, AggregatorID: 1, SFDI: 100, LFDI: "a", TimezoneID: "UTC", CreatedTime: now, ChangedTime: now}
	require.NoError(t, RegisterSite(ctx, db, s1))

	s2 := &Site{SiteID: 2, AggregatorID: 1, SFDI: 100, LFDI: "b", TimezoneID: "UTC", CreatedTime: now, ChangedTime: now}
	err := RegisterSite(ctx, db, s2)
	assert.Error(t, err)
}

func TestSelectSiteByLFDI(t *testing.T) {
	db := setupSiteDB(t)
	ctx := context.Background()
	now := time.Now()

	s := &Site{SiteID: 1, AggregatorID: 1, SFDI: 100, LFDI: "abc123", TimezoneID: "Australia/Brisbane", CreatedTime: now, ChangedTime: now}
	require.NoError(t, RegisterSite(ctx, db, s))

	got, err := SelectSiteByLFDI(ctx, db, "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got.SiteID)

	_, err = SelectSiteByLFDI(ctx, db, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertSiteDERRating_ArchivesPriorRow(t *testing.T) {
	db := setupSiteDB(t)
	ctx := context.Background()
	now := time.Now()

	der, err := GetOrCreateSiteDER(ctx, db, 1, now)
	require.NoError(t, err)

	first := SiteDERRating{DERType: 1, MaxWValue: 5000, MaxWMultiplier: 0}
	require.NoError(t, UpsertSiteDERRating(ctx, db, der.SiteDERID, first, now))

	later := now.Add(time.Hour)
	second := SiteDERRating{DERType: 1, MaxWValue: 7500, MaxWMultiplier: 0}
	require.NoError(t, UpsertSiteDERRating(ctx, db, der.SiteDERID, second, later))

	var live []SiteDERRating
	require.NoError(t, db.Find(&live).Error)
	require.Len(t, live, 1)
	assert.Equal(t, int32(7500), live[0].MaxWValue)

	var archived []ArchiveSiteDERRating
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
	assert.Equal(t, int32(5000), archived[0].MaxWValue)
	require.NotNil(t, archived[0].DeletedTime)
}

func TestDeleteSite_CascadesThroughDERTree(t *testing.T) {
	db := setupSiteDB(t)
	ctx := context.Background()
	now := time.Now()

	s := &Site{SiteID: 1, AggregatorID: 1, SFDI: 100, LFDI: "abc", TimezoneID: "UTC", CreatedTime: now, ChangedTime: now}
	require.NoError(t, RegisterSite(ctx, db, s))

	der, err := GetOrCreateSiteDER(ctx, db, 1, now)
	require.NoError(t, err)
	require.NoError(t, UpsertSiteDERRating(ctx, db, der.SiteDERID, SiteDERRating{DERType: 1, MaxWValue: 5000}, now))
	require.NoError(t, UpsertSiteDERStatus(ctx, db, der.SiteDERID, SiteDERStatus{}, now))

	deletedAt := now.Add(time.Minute)
	require.NoError(t, DeleteSite(ctx, db, 1, deletedAt))

	var siteCount, derCount, ratingCount, statusCount int64
	require.NoError(t, db.Model(&Site{}).Count(&siteCount).Error)
	require.NoError(t, db.Model(&SiteDER{}).Count(&derCount).Error)
	require.NoError(t, db.Model(&SiteDERRating{}).Count(&ratingCount).Error)
	require.NoError(t, db.Model(&SiteDERStatus{}).Count(&statusCount).Error)
	assert.Zero(t, siteCount)
	assert.Zero(t, derCount)
	assert.Zero(t, ratingCount)
	assert.Zero(t, statusCount)

	var archivedSite []ArchiveSite
	require.NoError(t, db.Find(&archivedSite).Error)
	require.Len(t, archivedSite, 1)
	require.NotNil(t, archivedSite[0].DeletedTime)

	var archivedRating []ArchiveSiteDERRating
	require.NoError(t, db.Find(&archivedRating).Error)
	require.Len(t, archivedRating, 1)
}

func TestValidNMIShape(t *testing.T) {
	assert.True(t, ValidNMIShape("NAAA1234562"))
	assert.False(t, ValidNMIShape("short"))
	assert.False(t, ValidNMIShape("NAAA 123456")) // whitespace
	assert.False(t, ValidNMIShape("NAAA123O562")) // contains 'O'
}

func TestValidNMIForParticipant(t *testing.T) {
	assert.True(t, ValidNMIForParticipant(DNSPAusgrid, "NCCC1234562"))
	assert.True(t, ValidNMIForParticipant(DNSPTasNetworks, "T1234567822"))
	assert.False(t, ValidNMIForParticipant(DNSPAusgrid, "NDDD1234562")) // wrong participant's range
	assert.False(t, ValidNMIForParticipant(DNSPAusgrid, "NCCCW123456")) // excluded 'W' in position 5
	assert.False(t, ValidNMIForParticipant(DNSPAusgrid, "short"))
}

func TestUpdateSite_RejectsMalformedNMI(t *testing.T) {
	db := setupSiteDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	s := &Site{AggregatorID: 1, SFDI: 1, LFDI: "0xabc", TimezoneID: "Australia/Brisbane", CreatedTime: now, ChangedTime: now}
	require.NoError(t, RegisterSite(ctx, db, s))

	bad := "not valid"
	err := UpdateSite(ctx, db, s.SiteID, &bad, "Australia/Brisbane", s.DeviceCategory, now)
	assert.Error(t, err)

	good := "NAAA1234562"
	err = UpdateSite(ctx, db, s.SiteID, &good, "Australia/Brisbane", s.DeviceCategory, now)
	assert.NoError(t, err)
}

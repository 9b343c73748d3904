package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sep2utility/internal/domain/aggregator"
)

func TestParseSubscribedResource_RecognisesAllTemplates(t *testing.T) {
	rt, siteID, resID, err := ParseSubscribedResource("/edev")
	require.NoError(t, err)
	assert.Equal(t, ResourceSite, rt)
	assert.Nil(t, siteID)
	assert.Nil(t, resID)

	rt, siteID, resID, err = ParseSubscribedResource("/edev/7")
	require.NoError(t, err)
	assert.Equal(t, ResourceSite, rt)
	require.NotNil(t, siteID)
	assert.Equal(t, uint32(7), *siteID)
	assert.Nil(t, resID)

	rt, siteID, resID, err = ParseSubscribedResource("/edev/7/derp/doe/derc")
	require.NoError(t, err)
	assert.Equal(t, ResourceDynamicOperatingEnvelope, rt)
	assert.Equal(t, uint32(7), *siteID)
	assert.Nil(t, resID)

	rt, siteID, resID, err = ParseSubscribedResource("/upt/7/mr/3/rs/all/r")
	require.NoError(t, err)
	assert.Equal(t, ResourceReading, rt)
	assert.Equal(t, uint32(7), *siteID)
	assert.Equal(t, uint32(3), *resID)

	rt, siteID, resID, err = ParseSubscribedResource("/edev/7/tp/5/rc")
	require.NoError(t, err)
	assert.Equal(t, ResourceTariffGeneratedRate, rt)
	assert.Equal(t, uint32(7), *siteID)
	assert.Equal(t, uint32(5), *resID)
}

func TestParseSubscribedResource_RejectsTimeTariffIntervalGranularity(t *testing.T) {
	_, _, _, err := ParseSubscribedResource("/edev/7/tp/5/rc/2023-01-01/1/tti")
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestParseSubscribedResource_RejectsUnrecognisedHref(t *testing.T) {
	_, _, _, err := ParseSubscribedResource("/not/a/real/path")
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func setupSubscriptionDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ResourceSubscription{}, &ArchiveResourceSubscription{},
		&aggregator.Aggregator{}, &aggregator.AggregatorDomain{},
	))
	return db
}

func TestCreateResourceSubscription_RejectsHostNotInAllowlist(t *testing.T) {
	db := setupSubscriptionDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&aggregator.Aggregator{AggregatorID: 1, Name: "acme", CreatedTime: now, ChangedTime: now}).Error)
	require.NoError(t, aggregator.AddDomain(ctx, db, 1, "ok.example.com", now))

	_, err := CreateResourceSubscription(ctx, db, 1, "/edev/7/tp/5/rc", "https://evil.example.com/cb", 100, nil, nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestCreateResourceSubscription_PersistsWhenAllowed(t *testing.T) {
	db := setupSubscriptionDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&aggregator.Aggregator{AggregatorID: 1, Name: "acme", CreatedTime: now, ChangedTime: now}).Error)
	require.NoError(t, aggregator.AddDomain(ctx, db, 1, "ok.example.com", now))

	sub, err := CreateResourceSubscription(ctx, db, 1, "/edev/7/tp/5/rc", "https://ok.example.com/cb", 100, nil, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, ResourceTariffGeneratedRate, sub.ResourceType)
	assert.Equal(t, uint32(5), *sub.ResourceID)
	assert.Equal(t, uint32(7), *sub.ScopedSiteID)
}

func TestMatches_READINGValueConditionRequiresOutOfRange(t *testing.T) {
	attr := ConditionREADINGValue
	lower, upper := 10.0, 90.0
	sub := ResourceSubscription{ResourceType: ResourceReading, ConditionAttr: &attr, ConditionLower: &lower, ConditionUpper: &upper}

	inRange := 50.0
	below := 5.0
	above := 95.0

	assert.False(t, sub.Matches(ResourceReading, CandidateEntity{Value: &inRange}))
	assert.True(t, sub.Matches(ResourceReading, CandidateEntity{Value: &below}))
	assert.True(t, sub.Matches(ResourceReading, CandidateEntity{Value: &above}))
}

func TestMatches_ResourceAndSiteScoping(t *testing.T) {
	tariffID := uint32(5)
	siteID := uint32(7)
	sub := ResourceSubscription{ResourceType: ResourceTariffGeneratedRate, ResourceID: &tariffID, ScopedSiteID: &siteID}

	otherTariff := uint32(6)
	assert.False(t, sub.Matches(ResourceTariffGeneratedRate, CandidateEntity{ResourceID: &otherTariff, SiteID: &siteID}))
	assert.True(t, sub.Matches(ResourceTariffGeneratedRate, CandidateEntity{ResourceID: &tariffID, SiteID: &siteID}))
}

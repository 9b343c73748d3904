package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sep2utility/internal/domain/aggregator"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/domain/sitecontrol"
	"sep2utility/internal/domain/subscription"
	"sep2utility/internal/domain/tariff"
)

func setupCheckDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&site.Site{}, &site.ArchiveSite{},
		&sitecontrol.SiteControlGroup{}, &sitecontrol.ArchiveSiteControlGroup{},
		&sitecontrol.DynamicOperatingEnvelope{}, &sitecontrol.ArchiveDynamicOperatingEnvelope{},
		&tariff.Tariff{}, &tariff.ArchiveTariff{},
		&tariff.TariffGeneratedRate{}, &tariff.ArchiveTariffGeneratedRate{},
		&subscription.ResourceSubscription{}, &subscription.ArchiveResourceSubscription{},
		&aggregator.Aggregator{}, &aggregator.AggregatorDomain{},
	))
	return db
}

func noopSerializer(resourceType subscription.ResourceType, page any) ([]byte, error) {
	return []byte("<x/>"), nil
}

func TestCheckDOEChanges_NotifiesMatchingSubscription(t *testing.T) {
	db := setupCheckDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&aggregator.Aggregator{AggregatorID: 1, Name: "acme", CreatedTime: now, ChangedTime: now}).Error)
	require.NoError(t, aggregator.AddDomain(ctx, db, 1, "sub.example.com", now))
	require.NoError(t, db.Create(&site.Site{SiteID: 7, AggregatorID: 1, LFDI: "0xaaa", SFDI: 1, ChangedTime: now}).Error)

	sub, err := subscription.CreateResourceSubscription(ctx, db, 1, "/edev/7/derp/doe/derc", "https://sub.example.com/cb", 10, nil, nil, nil, now)
	require.NoError(t, err)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	doe := sitecontrol.DynamicOperatingEnvelope{
		DynamicOperatingEnvelopeID: 1,
		SiteControlGroupID:         1,
		SiteID:                     7,
		CreatedTime:                start,
		ChangedTime:                start,
		StartTime:                  start,
		EndTime:                    start.Add(10 * time.Minute),
		DurationSeconds:            600,
	}
	require.NoError(t, db.Create(&doe).Error)

	tasks, err := CheckDOEChanges(ctx, db, start, EntityChanged, noopSerializer, now)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, sub.SubscriptionID, tasks[0].SubscriptionID)
	assert.Equal(t, "https://sub.example.com/cb", tasks[0].RemoteURI)
}

// TestCheckTariffRateChanges_S3 reproduces scenario S3: 2 matched rates fanned out across the
// 4 PricingReadingTypes enqueue 8 notification tasks, one per (rate, pricing reading type).
func TestCheckTariffRateChanges_S3(t *testing.T) {
	db := setupCheckDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&aggregator.Aggregator{AggregatorID: 1, Name: "acme", CreatedTime: now, ChangedTime: now}).Error)
	require.NoError(t, aggregator.AddDomain(ctx, db, 1, "sub.example.com", now))
	require.NoError(t, db.Create(&site.Site{SiteID: 7, AggregatorID: 1, LFDI: "0xaaa", SFDI: 1, ChangedTime: now}).Error)
	require.NoError(t, db.Create(&tariff.Tariff{TariffID: 5, Name: "t", ChangedTime: now}).Error)

	_, err := subscription.CreateResourceSubscription(ctx, db, 1, "/edev/7/tp/5/rc", "https://sub.example.com/cb", 100, nil, nil, nil, now)
	require.NoError(t, err)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rates := []tariff.TariffGeneratedRate{
		{TariffGeneratedRateID: 1, TariffID: 5, SiteID: 7, ChangedTime: start, StartTime: start, DurationSeconds: 1800},
		{TariffGeneratedRateID: 2, TariffID: 5, SiteID: 7, ChangedTime: start, StartTime: start.Add(30 * time.Minute), DurationSeconds: 1800},
	}
	require.NoError(t, db.Create(&rates).Error)

	tasks, err := CheckTariffRateChanges(ctx, db, start, EntityChanged, noopSerializer, now)
	require.NoError(t, err)
	assert.Len(t, tasks, 8)
}

func TestCheckDOEChanges_EmitsNothingWhenNoSubscriptionMatches(t *testing.T) {
	db := setupCheckDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&site.Site{SiteID: 7, AggregatorID: 1, LFDI: "0xaaa", SFDI: 1, ChangedTime: now}).Error)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	doe := sitecontrol.DynamicOperatingEnvelope{
		DynamicOperatingEnvelopeID: 1,
		SiteControlGroupID:         1,
		SiteID:                     7,
		CreatedTime:                start,
		ChangedTime:                start,
		StartTime:                  start,
		EndTime:                    start.Add(10 * time.Minute),
		DurationSeconds:            600,
	}
	require.NoError(t, db.Create(&doe).Error)

	tasks, err := CheckDOEChanges(ctx, db, start, EntityChanged, noopSerializer, now)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

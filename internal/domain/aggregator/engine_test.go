package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAggregatorDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Aggregator{}, &ArchiveAggregator{},
		&AggregatorDomain{},
		&Certificate{},
		&AggregatorCertificateAssignment{},
	))
	return db
}

func TestIsHostAllowed_MatchesCaseInsensitively(t *testing.T) {
	db := setupAggregatorDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&Aggregator{AggregatorID: 1, Name: "acme", CreatedTime: now, ChangedTime: now}).Error)
	require.NoError(t, AddDomain(ctx, db, 1, "Notify.Example.Com", now))

	ok, err := IsHostAllowed(ctx, db, 1, "notify.example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsHostAllowed(ctx, db, 1, "evil.example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAggregatorIDsForCertificate_RejectsExpiredCertificate(t *testing.T) {
	db := setupAggregatorDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&Certificate{CertificateID: 1, LFDI: "ABCDEF0123456789ABCD", SFDI: 1, Expiry: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&AggregatorCertificateAssignment{CertificateID: 1, AggregatorID: 5}).Error)

	ids, err := AggregatorIDsForCertificate(ctx, db, "ABCDEF0123456789ABCD", now)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAggregatorIDsForCertificate_ReturnsAssignedAggregators(t *testing.T) {
	db := setupAggregatorDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&Certificate{CertificateID: 1, LFDI: "ABCDEF0123456789ABCD", SFDI: 1, Expiry: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&AggregatorCertificateAssignment{CertificateID: 1, AggregatorID: 5}).Error)
	require.NoError(t, db.Create(&AggregatorCertificateAssignment{CertificateID: 1, AggregatorID: 7}).Error)

	ids, err := AggregatorIDsForCertificate(ctx, db, "ABCDEF0123456789ABCD", now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{5, 7}, ids)
}

func TestAggregatorIDsForCertificate_UnknownLFDIReturnsEmpty(t *testing.T) {
	db := setupAggregatorDB(t)
	ctx := context.Background()

	ids, err := AggregatorIDsForCertificate(ctx, db, "NOSUCHCERT", time.Now())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

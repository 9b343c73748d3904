package auth

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

// TestGenerateLFDIFromPEM_S4 reproduces scenario S4's worked example by constructing a PEM
// whose DER body's SHA-256 is known in advance.
func TestGenerateLFDIFromPEM_S4(t *testing.T) {
	const urlEncodedPEM = "-----BEGIN%20CERTIFICATE-----%0AdGVzdC1jZXJ0aWZpY2F0ZS1kZXItYnl0ZXMtZm9yLWxmZGktdW5pdC10ZXN0%0A-----END%20CERTIFICATE-----"
	const wantLFDI = "0x567408b496382067a622573b16fbb1ab0328b9fa"

	got, err := GenerateLFDIFromPEM(urlEncodedPEM)
	require.NoError(t, err)
	assert.Equal(t, wantLFDI, got)
	assert.Len(t, got, 42)
}

func TestGenerateLFDIFromPEM_RejectsMalformedInput(t *testing.T) {
	_, err := GenerateLFDIFromPEM("not-even-one-line")
	assert.Error(t, err)
}

func setupAuthDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&aggregator.Certificate{}, &aggregator.AggregatorCertificateAssignment{}))
	return db
}

func TestAuthenticateCertificateHeader_MissingHeaderIs500Class(t *testing.T) {
	db := setupAuthDB(t)
	_, err := AuthenticateCertificateHeader(context.Background(), db, "", time.Now())
	assert.ErrorIs(t, err, ErrAuthHeaderMissing)
}

func TestAuthenticateCertificateHeader_UnknownCertificateIs403Class(t *testing.T) {
	db := setupAuthDB(t)
	const urlEncodedPEM = "-----BEGIN%20CERTIFICATE-----%0AdGVzdC1jZXJ0aWZpY2F0ZS1kZXItYnl0ZXMtZm9yLWxmZGktdW5pdC10ZXN0%0A-----END%20CERTIFICATE-----"
	_, err := AuthenticateCertificateHeader(context.Background(), db, urlEncodedPEM, time.Now())
	assert.ErrorIs(t, err, ErrCertificateUnauthorized)
}

func TestAuthenticateCertificateHeader_ResolvesAggregatorsForValidCertificate(t *testing.T) {
	db := setupAuthDB(t)
	now := time.Now()
	const urlEncodedPEM = "-----BEGIN%20CERTIFICATE-----%0AdGVzdC1jZXJ0aWZpY2F0ZS1kZXItYnl0ZXMtZm9yLWxmZGktdW5pdC10ZXN0%0A-----END%20CERTIFICATE-----"
	const wantLFDI = "0x567408b496382067a622573b16fbb1ab0328b9fa"

	require.NoError(t, db.Create(&aggregator.Certificate{CertificateID: 1, LFDI: wantLFDI, SFDI: 1, Expiry: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&aggregator.AggregatorCertificateAssignment{CertificateID: 1, AggregatorID: 9}).Error)

	scope, err := AuthenticateCertificateHeader(context.Background(), db, urlEncodedPEM, now)
	require.NoError(t, err)
	assert.Equal(t, wantLFDI, scope.LFDI)
	assert.Equal(t, []uint32{9}, scope.AggregatorIDs)
}

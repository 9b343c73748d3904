package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/aggregator"
)

// ErrAuthHeaderMissing is returned when the gateway did not attach the client-certificate
// header at all - a 500 per the error taxonomy, since it indicates a deployment
// misconfiguration rather than a client error.
var ErrAuthHeaderMissing = fmt.Errorf("client certificate header missing")

// ErrCertificateUnauthorized covers both an unknown LFDI and an expired certificate; the
// caller surfaces both as 403 without distinguishing them to the client.
var ErrCertificateUnauthorized = fmt.Errorf("certificate unauthorized")

// GenerateLFDIFromPEM derives a 2030.5 LFDI from a URL-percent-encoded PEM client
// certificate: URL-decode, strip the PEM header/footer lines, base64-decode to DER, SHA-256,
// left-truncate to 40 hex chars, prepend "0x".
func GenerateLFDIFromPEM(urlEncodedPEM string) (string, error) {
	pem, err := url.QueryUnescape(urlEncodedPEM)
	if err != nil {
		return "", fmt.Errorf("failed to url-decode certificate header: %w", err)
	}

	der, err := pemBodyToDER(pem)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(der)
	return "0x" + hex.EncodeToString(sum[:])[:40], nil
}

// GenerateLFDIFromRawPEM is GenerateLFDIFromPEM without the leading URL-decode step, for
// callers (cert-tool) that read a PEM certificate straight off disk rather than off a
// gateway-forwarded, percent-encoded header.
func GenerateLFDIFromRawPEM(pem string) (string, error) {
	der, err := pemBodyToDER(pem)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(der)
	return "0x" + hex.EncodeToString(sum[:])[:40], nil
}

// pemBodyToDER strips the first and last line of a PEM block (its -----BEGIN/END----- header
// and footer) and base64-decodes what remains.
func pemBodyToDER(pem string) ([]byte, error) {
	lines := strings.Split(strings.TrimSpace(pem), "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("certificate PEM has too few lines")
	}
	body := strings.Join(lines[1:len(lines)-1], "")

	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to base64-decode certificate body: %w", err)
	}
	return der, nil
}

// DeriveSFDIFromLFDI computes the SFDI (short-form device identifier) from an already-derived
// LFDI: the leftmost 36 bits of the LFDI (its first 9 hex digits) read as a decimal integer,
// with a trailing sum-of-digits check digit appended per Annex B of IEEE 2030.5-2018.
func DeriveSFDIFromLFDI(lfdi string) (uint64, error) {
	hexPart := strings.TrimPrefix(lfdi, "0x")
	if len(hexPart) < 9 {
		return 0, fmt.Errorf("lfdi too short to derive sfdi")
	}
	v, err := strconv.ParseUint(hexPart[:9], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse lfdi prefix: %w", err)
	}
	return v*10 + sfdiCheckDigit(v), nil
}

func sfdiCheckDigit(v uint64) uint64 {
	var sum uint64
	for v > 0 {
		sum += v % 10
		v /= 10
	}
	return (10 - (sum % 10)) % 10
}

// CertificateScope is the result of authenticating a client certificate: the aggregator(s) it
// resolves to, ready to be narrowed into a request scope by the caller.
type CertificateScope struct {
	LFDI          string
	AggregatorIDs []uint32
}

// AuthenticateCertificateHeader implements the certificate lookup described in §4.8: decode
// and hash the forwarded PEM to an LFDI, then resolve it to its non-expired certificate's
// assigned aggregator(s). An empty header is ErrAuthHeaderMissing; an unknown or expired
// certificate is ErrCertificateUnauthorized.
func AuthenticateCertificateHeader(ctx context.Context, db *gorm.DB, urlEncodedPEM string, now time.Time) (*CertificateScope, error) {
	if urlEncodedPEM == "" {
		return nil, ErrAuthHeaderMissing
	}

	lfdi, err := GenerateLFDIFromPEM(urlEncodedPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to derive LFDI from certificate header: %w", err)
	}

	ids, err := aggregator.AggregatorIDsForCertificate(ctx, db, lfdi, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve certificate: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrCertificateUnauthorized
	}

	return &CertificateScope{LFDI: lfdi, AggregatorIDs: ids}, nil
}

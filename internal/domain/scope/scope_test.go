package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sep2errors "sep2utility/internal/shared/errors"
)

func int64p(v int64) *int64 { return &v }

func TestToUnregisteredRequestScope_DefaultsNullAggregator(t *testing.T) {
	claims := RawRequestClaims{Source: DeviceCertificate, LFDI: "abc"}
	s, err := claims.ToUnregisteredRequestScope()
	require.NoError(t, err)
	assert.Equal(t, NullAggregatorID, s.AggregatorID)
}

func TestToUnregisteredRequestScope_RejectsDeviceCertWithAggregatorScope(t *testing.T) {
	claims := RawRequestClaims{Source: DeviceCertificate, AggregatorIDScope: int64p(5)}
	_, err := claims.ToUnregisteredRequestScope()
	require.Error(t, err)
	assert.True(t, sep2errors.IsForbiddenScopeError(err))
}

func TestToDeviceOrAggregatorRequestScope_NoScopeIsForbidden(t *testing.T) {
	claims := RawRequestClaims{Source: DeviceCertificate, LFDI: "xyz"}
	_, err := claims.ToDeviceOrAggregatorRequestScope(nil)
	require.Error(t, err)
	assert.True(t, sep2errors.IsForbiddenScopeError(err))
}

func TestToDeviceOrAggregatorRequestScope_VirtualSiteIDBecomesNoSiteScope(t *testing.T) {
	claims := RawRequestClaims{Source: AggregatorCertificate, AggregatorIDScope: int64p(9)}
	requested := VirtualEndDeviceSiteID
	s, err := claims.ToDeviceOrAggregatorRequestScope(&requested)
	require.NoError(t, err)
	assert.Nil(t, s.SiteID)
	assert.Equal(t, VirtualEndDeviceSiteID, s.DisplaySiteID)
}

// S6 — Device-cert scope violation: claims scoped to site 22, request for site 2 -> 403
// mentioning "scoped to EndDevice 22".
func TestToDeviceOrAggregatorRequestScope_RejectsMismatchedSite(t *testing.T) {
	claims := RawRequestClaims{
		Source:      DeviceCertificate,
		LFDI:        "devicelfdi",
		SiteIDScope: int64p(22),
	}
	requested := int64(2)
	_, err := claims.ToDeviceOrAggregatorRequestScope(&requested)
	require.Error(t, err)
	assert.True(t, sep2errors.IsForbiddenScopeError(err))
	assert.Contains(t, err.Error(), "scoped to EndDevice 22")
}

func TestToAggregatorRequestScope_RejectsNullAggregator(t *testing.T) {
	claims := RawRequestClaims{
		Source:      DeviceCertificate,
		LFDI:        "devicelfdi",
		SiteIDScope: int64p(22),
	}
	requested := int64(22)
	_, err := claims.ToAggregatorRequestScope(&requested)
	require.Error(t, err)
	assert.True(t, sep2errors.IsForbiddenScopeError(err))
}

func TestToAggregatorRequestScope_AllowsRealAggregator(t *testing.T) {
	claims := RawRequestClaims{Source: AggregatorCertificate, AggregatorIDScope: int64p(7)}
	s, err := claims.ToAggregatorRequestScope(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.AggregatorID)
	assert.Equal(t, VirtualEndDeviceSiteID, s.DisplaySiteID)
}

func TestToSiteRequestScope_RejectsVirtualSiteID(t *testing.T) {
	claims := RawRequestClaims{Source: AggregatorCertificate, AggregatorIDScope: int64p(7)}
	_, err := claims.ToSiteRequestScope(VirtualEndDeviceSiteID)
	require.Error(t, err)
	assert.True(t, sep2errors.IsForbiddenScopeError(err))
}

func TestToSiteRequestScope_Success(t *testing.T) {
	claims := RawRequestClaims{Source: AggregatorCertificate, AggregatorIDScope: int64p(7)}
	s, err := claims.ToSiteRequestScope(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.SiteID)
	assert.Equal(t, int64(7), s.AggregatorID)
}

func TestToMUPRequestScope_AggregatorGetsUnrestrictedScope(t *testing.T) {
	claims := RawRequestClaims{Source: AggregatorCertificate, AggregatorIDScope: int64p(3)}
	s, err := claims.ToMUPRequestScope()
	require.NoError(t, err)
	assert.Nil(t, s.SiteID)
}

func TestToMUPRequestScope_DeviceGetsOwnSite(t *testing.T) {
	claims := RawRequestClaims{Source: DeviceCertificate, SiteIDScope: int64p(11)}
	s, err := claims.ToMUPRequestScope()
	require.NoError(t, err)
	require.NotNil(t, s.SiteID)
	assert.Equal(t, int64(11), *s.SiteID)
}

func TestToMUPListRequestScope_AllowsUnregisteredDevice(t *testing.T) {
	claims := RawRequestClaims{Source: DeviceCertificate}
	s, err := claims.ToMUPListRequestScope()
	require.NoError(t, err)
	assert.Equal(t, NullAggregatorID, s.AggregatorID)
	assert.Nil(t, s.DeviceSiteID)
}

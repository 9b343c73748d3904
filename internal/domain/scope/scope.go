// Package scope derives narrowed request scopes from the claims extracted out of an
// incoming client certificate. A scope is the single source of truth downstream resource
// handlers use to decide what a request is allowed to touch; every conversion here either
// returns a scope or a forbidden error, never a partially-populated scope.
package scope

import (
	"fmt"

	sep2errors "sep2utility/internal/shared/errors"
)

// NullAggregatorID is the sentinel aggregator_id used for requests driven by a device
// certificate rather than an aggregator certificate. Device certificates never belong to a
// real aggregator row, so their resources are recorded against this id instead.
const NullAggregatorID int64 = 0

// VirtualEndDeviceSiteID is the site_id used to address the "virtual aggregator EndDevice" -
// the synthetic EndDevice representing the aggregator itself, as opposed to any of the real
// sites it manages.
const VirtualEndDeviceSiteID int64 = 0

// CertificateType classifies the incoming client certificate that ultimately produced a
// request's claims.
type CertificateType int

const (
	// AggregatorCertificate grants the ability to create/manage multiple EndDevices under a
	// specified aggregator. These devices are decoupled from the LFDI of the certificate.
	AggregatorCertificate CertificateType = iota + 1
	// DeviceCertificate grants the ability to create/manage a single EndDevice stored under
	// the null aggregator. This device's LFDI/SFDI match the certificate's.
	DeviceCertificate
)

// BaseRequestScope carries the fields common to every narrowed scope: the identity of the
// certificate that produced it and the deployment parameters needed to mint hrefs and mrids
// hermetically, without a second lookup.
type BaseRequestScope struct {
	LFDI       string
	SFDI       uint64
	HrefPrefix string
	Pen        uint64
}

// IanaPen satisfies mrid.IanaPenScope so a BaseRequestScope (or anything embedding it) can be
// passed directly to the mrid codec.
func (s BaseRequestScope) IanaPen() uint64 { return s.Pen }

// UnregisteredRequestScope is the widest scope: it accepts any certificate type and the only
// guarantee is that aggregator_id is populated (falling back to NullAggregatorID).
type UnregisteredRequestScope struct {
	BaseRequestScope
	Source        CertificateType
	AggregatorID  int64
}

// MUPListRequestScope grants access to the MirrorUsagePoint list resource - the one resource
// reachable by both registered and unregistered device certificates as well as aggregator
// certificates. It should not be reused for any other resource.
type MUPListRequestScope struct {
	BaseRequestScope
	Source       CertificateType
	AggregatorID int64
	// DeviceSiteID is set only for device certificates that have completed EndDevice
	// registration; nil means the device certificate is not yet registered.
	DeviceSiteID *int64
}

// DeviceOrAggregatorRequestScope is scoped to either every site under AggregatorID, or a
// single SiteID under AggregatorID, never to the null aggregator's full site list.
type DeviceOrAggregatorRequestScope struct {
	BaseRequestScope
	Source       CertificateType
	AggregatorID int64
	// DisplaySiteID echoes the site_id the client queried; it's VirtualEndDeviceSiteID when
	// SiteID is nil. Use this, not SiteID, when generating href site segments.
	DisplaySiteID int64
	// SiteID is the concrete site this request is scoped to, or nil for no site scope.
	SiteID *int64
}

// MUPRequestScope is a DeviceOrAggregatorRequestScope that additionally forbids aggregator
// certificates from being narrowed to a single arbitrary site - it is built only via
// ToMUPRequestScope, which derives the site scope from the certificate's own claims.
type MUPRequestScope struct {
	DeviceOrAggregatorRequestScope
}

// SiteRequestScope narrows DeviceOrAggregatorRequestScope so SiteID is always present.
type SiteRequestScope struct {
	DeviceOrAggregatorRequestScope
	SiteID int64
}

// AggregatorRequestScope is a DeviceOrAggregatorRequestScope that additionally guarantees
// AggregatorID is never NullAggregatorID, ruling out device certificates entirely.
type AggregatorRequestScope struct {
	BaseRequestScope
	Source        CertificateType
	AggregatorID  int64
	DisplaySiteID int64
	SiteID        *int64
}

// RawRequestClaims is the unvalidated claim set extracted from an incoming request's
// certificate by the auth middleware. Every downstream handler narrows these into one of the
// scopes above before touching a resource.
//
// The four AggregatorIDScope/SiteIDScope combinations:
//   - both nil: no access to anything beyond registering a new EndDevice.
//   - AggregatorIDScope nil, SiteIDScope set: access to exactly that one site, no aggregator access.
//   - AggregatorIDScope set, SiteIDScope nil: access to everything under that aggregator.
//   - both set: unsupported; conversions do not reject it outright - they use the aggregator
//     id and still enforce the single-site restriction.
type RawRequestClaims struct {
	Source CertificateType

	LFDI       string
	SFDI       uint64
	HrefPrefix string
	Pen        uint64

	// AggregatorIDScope is the aggregator this request is scoped to, nil if the request has
	// no aggregator-wide access.
	AggregatorIDScope *int64
	// SiteIDScope is the single site this request is scoped to, nil if the request has no
	// single-site restriction.
	SiteIDScope *int64
}

func (c RawRequestClaims) base() BaseRequestScope {
	return BaseRequestScope{
		LFDI:       c.LFDI,
		SFDI:       c.SFDI,
		HrefPrefix: c.HrefPrefix,
		Pen:        c.Pen,
	}
}

// ToUnregisteredRequestScope narrows these claims into an UnregisteredRequestScope. Returns a
// forbidden error if a device certificate has somehow been assigned an aggregator scope -
// that combination is never valid.
func (c RawRequestClaims) ToUnregisteredRequestScope() (UnregisteredRequestScope, error) {
	if c.Source == DeviceCertificate && c.AggregatorIDScope != nil {
		return UnregisteredRequestScope{}, sep2errors.NewForbiddenScopeError(
			c.LFDI + " is improperly scoped to an aggregator")
	}

	aggID := NullAggregatorID
	if c.AggregatorIDScope != nil {
		aggID = *c.AggregatorIDScope
	}

	return UnregisteredRequestScope{
		BaseRequestScope: c.base(),
		Source:           c.Source,
		AggregatorID:     aggID,
	}, nil
}

// ToMUPListRequestScope narrows these claims into a MUPListRequestScope, the one resource
// accessible to both registered and unregistered device certificates.
func (c RawRequestClaims) ToMUPListRequestScope() (MUPListRequestScope, error) {
	if c.Source == DeviceCertificate && c.AggregatorIDScope != nil {
		return MUPListRequestScope{}, sep2errors.NewForbiddenScopeError(
			c.LFDI + " is improperly scoped to an aggregator")
	}

	aggID := NullAggregatorID
	if c.AggregatorIDScope != nil {
		aggID = *c.AggregatorIDScope
	}

	return MUPListRequestScope{
		BaseRequestScope: c.base(),
		Source:           c.Source,
		AggregatorID:     aggID,
		DeviceSiteID:     c.SiteIDScope,
	}, nil
}

// ToDeviceOrAggregatorRequestScope narrows these claims to a single site (requestedSiteID) or
// to the whole aggregator (requestedSiteID == nil). Returns a forbidden error if the client
// has no access at all, or is restricted to a different site than the one requested.
func (c RawRequestClaims) ToDeviceOrAggregatorRequestScope(requestedSiteID *int64) (DeviceOrAggregatorRequestScope, error) {
	aggID := NullAggregatorID
	if c.AggregatorIDScope == nil {
		if c.SiteIDScope == nil {
			return DeviceOrAggregatorRequestScope{}, sep2errors.NewForbiddenScopeError(
				c.LFDI + " is not scoped to access this resource (has an EndDevice been registered?)")
		}
	} else {
		aggID = *c.AggregatorIDScope
	}

	// The virtual aggregator EndDevice is shorthand for no site scope.
	if requestedSiteID != nil && *requestedSiteID == VirtualEndDeviceSiteID {
		requestedSiteID = nil
	}

	displaySiteID := VirtualEndDeviceSiteID
	if requestedSiteID != nil {
		displaySiteID = *requestedSiteID
	}

	if c.SiteIDScope != nil {
		if requestedSiteID == nil || *requestedSiteID != *c.SiteIDScope {
			return DeviceOrAggregatorRequestScope{}, sep2errors.NewForbiddenScopeError(
				fmt.Sprintf("client %s is scoped to EndDevice %d", c.LFDI, *c.SiteIDScope))
		}
	}

	return DeviceOrAggregatorRequestScope{
		BaseRequestScope: c.base(),
		Source:           c.Source,
		AggregatorID:     aggID,
		DisplaySiteID:    displaySiteID,
		SiteID:           requestedSiteID,
	}, nil
}

// ToMUPRequestScope narrows these claims into a MUPRequestScope. Aggregator certificates get
// an unrestricted (no single site) scope; device certificates get their own registered site.
func (c RawRequestClaims) ToMUPRequestScope() (MUPRequestScope, error) {
	var base DeviceOrAggregatorRequestScope
	var err error

	switch c.Source {
	case AggregatorCertificate:
		base, err = c.ToDeviceOrAggregatorRequestScope(nil)
	case DeviceCertificate:
		base, err = c.ToDeviceOrAggregatorRequestScope(c.SiteIDScope)
	default:
		return MUPRequestScope{}, sep2errors.NewForbiddenScopeError(
			c.LFDI + " has an unrecognised certificate source")
	}
	if err != nil {
		return MUPRequestScope{}, err
	}

	return MUPRequestScope{DeviceOrAggregatorRequestScope: base}, nil
}

// ToAggregatorRequestScope is like ToDeviceOrAggregatorRequestScope but additionally rejects
// the null aggregator, ruling out device certificates entirely.
func (c RawRequestClaims) ToAggregatorRequestScope(requestedSiteID *int64) (AggregatorRequestScope, error) {
	base, err := c.ToDeviceOrAggregatorRequestScope(requestedSiteID)
	if err != nil {
		return AggregatorRequestScope{}, err
	}
	if base.AggregatorID == NullAggregatorID {
		return AggregatorRequestScope{}, sep2errors.NewForbiddenScopeError(
			"client doesn't have access to this resource")
	}

	return AggregatorRequestScope{
		BaseRequestScope: base.BaseRequestScope,
		Source:           c.Source,
		AggregatorID:     base.AggregatorID,
		DisplaySiteID:    base.DisplaySiteID,
		SiteID:           base.SiteID,
	}, nil
}

// ToSiteRequestScope narrows these claims to exactly one site, rejecting the virtual
// aggregator EndDevice id outright (that resource has no single-site scope to narrow to).
func (c RawRequestClaims) ToSiteRequestScope(requestedSiteID int64) (SiteRequestScope, error) {
	aggID := NullAggregatorID
	if c.AggregatorIDScope == nil {
		if c.SiteIDScope == nil {
			return SiteRequestScope{}, sep2errors.NewForbiddenScopeError(
				c.LFDI + " is not scoped to access this resource (has an EndDevice been registered?)")
		}
	} else {
		aggID = *c.AggregatorIDScope
	}

	if requestedSiteID == VirtualEndDeviceSiteID {
		return SiteRequestScope{}, sep2errors.NewForbiddenScopeError(
			"client can't access this resource for the aggregator EndDevice")
	}

	if c.SiteIDScope != nil && requestedSiteID != *c.SiteIDScope {
		return SiteRequestScope{}, sep2errors.NewForbiddenScopeError(
			fmt.Sprintf("client %s is scoped to EndDevice %d", c.LFDI, *c.SiteIDScope))
	}

	return SiteRequestScope{
		DeviceOrAggregatorRequestScope: DeviceOrAggregatorRequestScope{
			BaseRequestScope: c.base(),
			Source:           c.Source,
			AggregatorID:     aggID,
			DisplaySiteID:    requestedSiteID,
			SiteID:           &requestedSiteID,
		},
		SiteID: requestedSiteID,
	}, nil
}

package dto

import (
	"encoding/xml"

	"sep2utility/internal/domain/site"
	"sep2utility/internal/infrastructure/href"
)

// DER is the 2030.5 DER resource: the container linking to the four state/capability
// sub-resources. The schema keeps exactly one DER per Site, so its der_id is always "1".
type DER struct {
	XMLName xml.Name `xml:"DER"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	DERAvailabilityLink Link `xml:"DERAvailabilityLink"`
	DERCapabilityLink   Link `xml:"DERCapabilityLink"`
	DERSettingsLink     Link `xml:"DERSettingsLink"`
	DERStatusLink       Link `xml:"DERStatusLink"`
}

// DERList is the 2030.5 DERList resource - always zero or one items in this port.
type DERList struct {
	XMLName xml.Name `xml:"DERList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	DERs []DER `xml:"DER"`
}

// MapDERToResponse projects a site's DER container into a DER resource.
func MapDERToResponse(siteID uint32, b href.Builder) DER {
	return DER{
		Xmlns: Namespace,
		Href:  b.DER(siteID),
		DERAvailabilityLink: Link{Href: b.DERAvailability(siteID)},
		DERCapabilityLink:   Link{Href: b.DERCapability(siteID)},
		DERSettingsLink:     Link{Href: b.DERSettings(siteID)},
		DERStatusLink:       Link{Href: b.DERStatus(siteID)},
	}
}

// DERCapability is the 2030.5 DERCapability resource: the DER's nameplate rating.
type DERCapability struct {
	XMLName xml.Name `xml:"DERCapability"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	ModesSupported    string       `xml:"modesSupported,omitempty"`
	DOEModesSupported string       `xml:"doeModesSupported,omitempty"`
	Type              uint32       `xml:"type"`
	RtgMaxW           PowerOfTenValue `xml:"rtgMaxW"`
	RtgMaxVA          *PowerOfTenValue `xml:"rtgMaxVA,omitempty"`
	RtgMaxVar         *PowerOfTenValue `xml:"rtgMaxVar,omitempty"`
}

// PowerOfTenValue is the 2030.5 {value, multiplier} pair every scaled quantity uses:
// displayed = value * 10^multiplier.
type PowerOfTenValue struct {
	Value      int32 `xml:"value"`
	Multiplier int32 `xml:"multiplier"`
}

// MapDERCapabilityToResponse projects a SiteDERRating row into a DERCapability resource.
func MapDERCapabilityToResponse(siteID uint32, r site.SiteDERRating, b href.Builder) DERCapability {
	dto := DERCapability{
		Xmlns:   Namespace,
		Href:    b.DERCapability(siteID),
		Type:    r.DERType,
		RtgMaxW: PowerOfTenValue{Value: r.MaxWValue, Multiplier: r.MaxWMultiplier},
	}
	if r.ModesSupported != nil {
		dto.ModesSupported = hexUint32(*r.ModesSupported)
	}
	if r.DOEModesSupported != nil {
		dto.DOEModesSupported = hexUint32(*r.DOEModesSupported)
	}
	if r.MaxVAValue != nil && r.MaxVAMultiplier != nil {
		dto.RtgMaxVA = &PowerOfTenValue{Value: *r.MaxVAValue, Multiplier: *r.MaxVAMultiplier}
	}
	if r.MaxVarValue != nil && r.MaxVarMultiplier != nil {
		dto.RtgMaxVar = &PowerOfTenValue{Value: *r.MaxVarValue, Multiplier: *r.MaxVarMultiplier}
	}
	return dto
}

// DERCapabilityRequest is the inbound shape of a PUT .../dercap body.
type DERCapabilityRequest struct {
	XMLName           xml.Name         `xml:"DERCapability"`
	ModesSupported    string           `xml:"modesSupported,omitempty"`
	DOEModesSupported string           `xml:"doeModesSupported,omitempty"`
	Type              uint32           `xml:"type"`
	RtgMaxW           PowerOfTenValue  `xml:"rtgMaxW"`
	RtgMaxVA          *PowerOfTenValue `xml:"rtgMaxVA,omitempty"`
	RtgMaxVar         *PowerOfTenValue `xml:"rtgMaxVar,omitempty"`
}

// MapDERCapabilityFromRequest translates an inbound DERCapabilityRequest into a domain
// SiteDERRating row; SiteDERID/timestamps are stamped by the caller.
func MapDERCapabilityFromRequest(req DERCapabilityRequest) site.SiteDERRating {
	r := site.SiteDERRating{DERType: req.Type, MaxWValue: req.RtgMaxW.Value, MaxWMultiplier: req.RtgMaxW.Multiplier}
	if req.ModesSupported != "" {
		v := parseHexUint32(req.ModesSupported)
		r.ModesSupported = &v
	}
	if req.DOEModesSupported != "" {
		v := parseHexUint32(req.DOEModesSupported)
		r.DOEModesSupported = &v
	}
	if req.RtgMaxVA != nil {
		r.MaxVAValue = &req.RtgMaxVA.Value
		r.MaxVAMultiplier = &req.RtgMaxVA.Multiplier
	}
	if req.RtgMaxVar != nil {
		r.MaxVarValue = &req.RtgMaxVar.Value
		r.MaxVarMultiplier = &req.RtgMaxVar.Multiplier
	}
	return r
}

// DERSettings is the 2030.5 DERSettings resource: the DER's currently-enabled configuration.
type DERSettings struct {
	XMLName xml.Name `xml:"DERSettings"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	ModesEnabled    string          `xml:"modesEnabled,omitempty"`
	DOEModesEnabled string          `xml:"doeModesEnabled,omitempty"`
	GradW           int32           `xml:"gradW"`
	SetMaxW         PowerOfTenValue `xml:"setMaxW"`
}

func MapDERSettingsToResponse(siteID uint32, s site.SiteDERSetting, b href.Builder) DERSettings {
	dto := DERSettings{
		Xmlns:   Namespace,
		Href:    b.DERSettings(siteID),
		GradW:   s.GradW,
		SetMaxW: PowerOfTenValue{Value: s.MaxWValue, Multiplier: s.MaxWMultiplier},
	}
	if s.ModesEnabled != nil {
		dto.ModesEnabled = hexUint32(*s.ModesEnabled)
	}
	if s.DOEModesEnabled != nil {
		dto.DOEModesEnabled = hexUint32(*s.DOEModesEnabled)
	}
	return dto
}

// DERSettingsRequest is the inbound shape of a PUT .../derg body.
type DERSettingsRequest struct {
	XMLName         xml.Name        `xml:"DERSettings"`
	ModesEnabled    string          `xml:"modesEnabled,omitempty"`
	DOEModesEnabled string          `xml:"doeModesEnabled,omitempty"`
	GradW           int32           `xml:"gradW"`
	SetMaxW         PowerOfTenValue `xml:"setMaxW"`
}

func MapDERSettingsFromRequest(req DERSettingsRequest) site.SiteDERSetting {
	s := site.SiteDERSetting{GradW: req.GradW, MaxWValue: req.SetMaxW.Value, MaxWMultiplier: req.SetMaxW.Multiplier}
	if req.ModesEnabled != "" {
		v := parseHexUint32(req.ModesEnabled)
		s.ModesEnabled = &v
	}
	if req.DOEModesEnabled != "" {
		v := parseHexUint32(req.DOEModesEnabled)
		s.DOEModesEnabled = &v
	}
	return s
}

// DERAvailability is the 2030.5 DERAvailability resource: the DER's current reserve snapshot.
type DERAvailability struct {
	XMLName                 xml.Name         `xml:"DERAvailability"`
	Xmlns                   string           `xml:"xmlns,attr"`
	Href                    string           `xml:"href,attr"`
	AvailabilityDurationSec int32            `xml:"availabilityDuration,omitempty"`
	EstimatedWAvail         *PowerOfTenValue `xml:"estimatedWAvail,omitempty"`
}

func MapDERAvailabilityToResponse(siteID uint32, a site.SiteDERAvailability, b href.Builder) DERAvailability {
	dto := DERAvailability{Xmlns: Namespace, Href: b.DERAvailability(siteID)}
	if a.AvailabilityDurationSec != nil {
		dto.AvailabilityDurationSec = *a.AvailabilityDurationSec
	}
	if a.EstimatedWAvailValue != nil && a.EstimatedWAvailMultiplier != nil {
		dto.EstimatedWAvail = &PowerOfTenValue{Value: *a.EstimatedWAvailValue, Multiplier: *a.EstimatedWAvailMultiplier}
	}
	return dto
}

// DERAvailabilityRequest is the inbound shape of a PUT .../dera body.
type DERAvailabilityRequest struct {
	XMLName                 xml.Name         `xml:"DERAvailability"`
	AvailabilityDurationSec int32            `xml:"availabilityDuration,omitempty"`
	EstimatedWAvail         *PowerOfTenValue `xml:"estimatedWAvail,omitempty"`
}

func MapDERAvailabilityFromRequest(req DERAvailabilityRequest) site.SiteDERAvailability {
	a := site.SiteDERAvailability{}
	if req.AvailabilityDurationSec != 0 {
		v := req.AvailabilityDurationSec
		a.AvailabilityDurationSec = &v
	}
	if req.EstimatedWAvail != nil {
		a.EstimatedWAvailValue = &req.EstimatedWAvail.Value
		a.EstimatedWAvailMultiplier = &req.EstimatedWAvail.Multiplier
	}
	return a
}

// DERStatus is the 2030.5 DERStatus resource: the DER's current operational status snapshot.
type DERStatus struct {
	XMLName                xml.Name `xml:"DERStatus"`
	Xmlns                  string   `xml:"xmlns,attr"`
	Href                   string   `xml:"href,attr"`
	AlarmStatus            uint32   `xml:"alarmStatus,omitempty"`
	GeneratorConnectStatus uint32   `xml:"genConnectStatus,omitempty"`
	OperationalModeStatus  uint32   `xml:"operationalModeStatus,omitempty"`
	StorageConnectStatus   uint32   `xml:"storConnectStatus,omitempty"`
}

func MapDERStatusToResponse(siteID uint32, s site.SiteDERStatus, b href.Builder) DERStatus {
	dto := DERStatus{Xmlns: Namespace, Href: b.DERStatus(siteID)}
	if s.AlarmStatus != nil {
		dto.AlarmStatus = *s.AlarmStatus
	}
	if s.GeneratorConnectStatus != nil {
		dto.GeneratorConnectStatus = *s.GeneratorConnectStatus
	}
	if s.OperationalModeStatus != nil {
		dto.OperationalModeStatus = *s.OperationalModeStatus
	}
	if s.StorageConnectStatus != nil {
		dto.StorageConnectStatus = *s.StorageConnectStatus
	}
	return dto
}

// DERStatusRequest is the inbound shape of a PUT .../ders body.
type DERStatusRequest struct {
	XMLName                xml.Name `xml:"DERStatus"`
	AlarmStatus            uint32   `xml:"alarmStatus,omitempty"`
	GeneratorConnectStatus uint32   `xml:"genConnectStatus,omitempty"`
	OperationalModeStatus  uint32   `xml:"operationalModeStatus,omitempty"`
	StorageConnectStatus   uint32   `xml:"storConnectStatus,omitempty"`
}

func MapDERStatusFromRequest(req DERStatusRequest) site.SiteDERStatus {
	s := site.SiteDERStatus{}
	if req.AlarmStatus != 0 {
		s.AlarmStatus = &req.AlarmStatus
	}
	if req.GeneratorConnectStatus != 0 {
		s.GeneratorConnectStatus = &req.GeneratorConnectStatus
	}
	if req.OperationalModeStatus != 0 {
		s.OperationalModeStatus = &req.OperationalModeStatus
	}
	if req.StorageConnectStatus != 0 {
		s.StorageConnectStatus = &req.StorageConnectStatus
	}
	return s
}

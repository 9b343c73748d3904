package dto

import (
	"encoding/xml"
	"time"

	"sep2utility/internal/domain/site"
	"sep2utility/internal/infrastructure/href"
)

// EndDevice is the 2030.5 EndDevice resource, grounded on original_source's
// EndDeviceMapper.map_to_response.
type EndDevice struct {
	XMLName xml.Name `xml:"EndDevice"`
	Xmlns   string   `xml:"xmlns,attr"`

	Href string `xml:"href,attr"`

	SFDI            uint64 `xml:"sFDI"`
	LFDI            string `xml:"lFDI"`
	DeviceCategory  string `xml:"deviceCategory"`
	ChangedTime     int64  `xml:"changedTime"`

	ConnectionPointLink Link `xml:"ConnectionPointLink"`
	DERListLink         Link `xml:"DERListLink"`
	DERProgramListLink  Link `xml:"DERProgramListLink"`
	RegistrationLink    Link `xml:"RegistrationLink"`
	SubscriptionListLink Link `xml:"SubscriptionListLink"`
}

// EndDeviceList is the 2030.5 EndDeviceList resource.
type EndDeviceList struct {
	XMLName xml.Name `xml:"EndDeviceList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	EndDevices []EndDevice `xml:"EndDevice"`
}

// MapEndDeviceToResponse projects a domain Site into its EndDevice XML resource.
func MapEndDeviceToResponse(s site.Site, b href.Builder) EndDevice {
	return EndDevice{
		Xmlns:           Namespace,
		Href:            b.EndDevice(s.SiteID),
		SFDI:            s.SFDI,
		LFDI:            s.LFDI,
		DeviceCategory:  deviceCategoryHex(s.DeviceCategory),
		ChangedTime:     s.ChangedTime.Unix(),
		ConnectionPointLink: Link{Href: b.ConnectionPoint(s.SiteID)},
		DERListLink:         Link{Href: b.DERList(s.SiteID)},
		DERProgramListLink:  Link{Href: b.DERProgramList(s.SiteID)},
		RegistrationLink:    Link{Href: b.Registration(s.SiteID)},
		SubscriptionListLink: Link{Href: b.SubscriptionList(s.SiteID)},
	}
}

// MapEndDeviceListToResponse projects a page of Sites into an EndDeviceList resource.
func MapEndDeviceListToResponse(sites []site.Site, all uint32, b href.Builder) EndDeviceList {
	items := make([]EndDevice, 0, len(sites))
	for _, s := range sites {
		items = append(items, MapEndDeviceToResponse(s, b))
	}
	return EndDeviceList{
		Xmlns:        Namespace,
		ListResponse: ListResponse{All: all, Results: uint32(len(items))},
		EndDevices:   items,
	}
}

// EndDeviceRequest is the inbound shape of a POST /edev body (device self-registration).
type EndDeviceRequest struct {
	XMLName        xml.Name `xml:"EndDevice"`
	SFDI           uint64   `xml:"sFDI"`
	LFDI           string   `xml:"lFDI"`
	DeviceCategory string   `xml:"deviceCategory"`
}

// MapEndDeviceFromRequest translates an inbound EndDeviceRequest into a domain Site row,
// stamped with aggregatorID/now by the caller's scope. nmi/timezone default as the caller's
// config dictates (spec.md §6.5 default_timezone).
func MapEndDeviceFromRequest(req EndDeviceRequest, aggregatorID int64, defaultTimezone string, registrationPIN uint32, now time.Time) site.Site {
	return site.Site{
		NMI:             nil,
		AggregatorID:    aggregatorID,
		TimezoneID:      defaultTimezone,
		LFDI:            req.LFDI,
		SFDI:            req.SFDI,
		DeviceCategory:  parseDeviceCategoryHex(req.DeviceCategory),
		RegistrationPIN: registrationPIN,
		CreatedTime:     now,
		ChangedTime:     now,
	}
}

// Registration is the 2030.5 Registration resource: a site's PIN plus polling hints.
type Registration struct {
	XMLName         xml.Name `xml:"Registration"`
	Xmlns           string   `xml:"xmlns,attr"`
	Href            string   `xml:"href,attr"`
	PIN             uint32   `xml:"pIN"`
	PollRate        uint32   `xml:"pollRate,omitempty"`
}

// MapRegistrationToResponse projects a Site's registration PIN into a Registration resource.
func MapRegistrationToResponse(s site.Site, pollRateSeconds int, b href.Builder) Registration {
	return Registration{
		Xmlns:    Namespace,
		Href:     b.Registration(s.SiteID),
		PIN:      s.RegistrationPIN,
		PollRate: uint32(pollRateSeconds),
	}
}

// ConnectionPoint is the 2030.5 ConnectionPoint resource: the site's metering identifier.
type ConnectionPoint struct {
	XMLName xml.Name `xml:"ConnectionPoint"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`
	ID      string   `xml:"connectionPointId,omitempty"`
}

// MapConnectionPointToResponse projects a Site's NMI into a ConnectionPoint resource; an
// absent NMI marshals as an empty connectionPointId element.
func MapConnectionPointToResponse(s site.Site, b href.Builder) ConnectionPoint {
	id := ""
	if s.NMI != nil {
		id = *s.NMI
	}
	return ConnectionPoint{
		Xmlns: Namespace,
		Href:  b.ConnectionPoint(s.SiteID),
		ID:    id,
	}
}

// ConnectionPointRequest is the inbound shape of a PUT /edev/{site_id}/cp body.
type ConnectionPointRequest struct {
	XMLName xml.Name `xml:"ConnectionPoint"`
	ID      string   `xml:"connectionPointId"`
}

func deviceCategoryHex(c site.DeviceCategory) string {
	return hexUint32(uint32(c))
}

func parseDeviceCategoryHex(s string) site.DeviceCategory {
	return site.DeviceCategory(parseHexUint32(s))
}

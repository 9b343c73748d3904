package subscription

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// ResourceType enumerates the 2030.5 resource families a ResourceSubscription can target.
type ResourceType int

const (
	ResourceSite ResourceType = iota
	ResourceDynamicOperatingEnvelope
	ResourceReading
	ResourceTariffGeneratedRate
)

// ErrInvalidMapping is returned whenever an inbound subscribedResource href doesn't match one
// of the recognised URL templates, or a subscription's notificationURI host isn't allowlisted.
var ErrInvalidMapping = fmt.Errorf("invalid subscription mapping")

// ResourceSubscription is a client's standing request to be notified of changes to one
// resource family, optionally narrowed to a site and/or a specific resource instance.
type ResourceSubscription struct {
	SubscriptionID   uint64       `gorm:"column:subscription_id;primaryKey;autoIncrement"`
	AggregatorID     uint32       `gorm:"column:aggregator_id;index"`
	ResourceType     ResourceType `gorm:"column:resource_type"`
	ResourceID       *uint32      `gorm:"column:resource_id"`
	ScopedSiteID     *uint32      `gorm:"column:scoped_site_id"`
	NotificationURI  string       `gorm:"column:notification_uri"`
	EntityLimit      int          `gorm:"column:entity_limit"`
	ChangedTime      time.Time    `gorm:"column:changed_time"`
	ConditionAttr    *string      `gorm:"column:condition_attr"`
	ConditionLower   *float64     `gorm:"column:condition_lower"`
	ConditionUpper   *float64     `gorm:"column:condition_upper"`
}

func (ResourceSubscription) TableName() string { return "resource_subscription" }

// ArchiveResourceSubscription is the append-only shadow of ResourceSubscription.
type ArchiveResourceSubscription struct {
	ArchiveID       uint64 `gorm:"column:archive_id;primaryKey"`
	SubscriptionID  uint64 `gorm:"column:subscription_id;index"`
	AggregatorID    uint32
	ResourceType    ResourceType
	ResourceID      *uint32
	ScopedSiteID    *uint32
	NotificationURI string
	EntityLimit     int
	ChangedTime     time.Time
	ArchiveTime     time.Time
	DeletedTime     *time.Time
}

func (ArchiveResourceSubscription) TableName() string { return "archive_resource_subscription" }

func ResourceSubscriptionToArchive(s ResourceSubscription, archiveTime time.Time, deletedTime *time.Time) ArchiveResourceSubscription {
	return ArchiveResourceSubscription{
		SubscriptionID:  s.SubscriptionID,
		AggregatorID:    s.AggregatorID,
		ResourceType:    s.ResourceType,
		ResourceID:      s.ResourceID,
		ScopedSiteID:    s.ScopedSiteID,
		NotificationURI: s.NotificationURI,
		EntityLimit:     s.EntityLimit,
		ChangedTime:     s.ChangedTime,
		ArchiveTime:     archiveTime,
		DeletedTime:     deletedTime,
	}
}

// ConditionREADINGValue is the only condition attribute this port recognises: match a
// READING entity only when its value falls outside [lower, upper].
const ConditionREADINGValue = "READING_VALUE"

var (
	reEdev        = regexp.MustCompile(`^/edev$`)
	reEdevSite    = regexp.MustCompile(`^/edev/(\d+)$`)
	reEdevDOE     = regexp.MustCompile(`^/edev/(\d+)/derp/doe/derc$`)
	reReading     = regexp.MustCompile(`^/upt/(\d+)/mr/(\d+)/rs/all/r$`)
	reTariffRate  = regexp.MustCompile(`^/edev/(\d+)/tp/(\d+)/rc$`)
)

// ParseSubscribedResource parses a subscribedResource href (already stripped of href_prefix)
// into (resource_type, scoped_site_id, resource_id) using the strict URL templates in the
// href-to-scope table. Subscribing at TimeTariffInterval granularity is not a recognised
// shape: clients must subscribe at the RateComponent list and receive all four pricing types.
func ParseSubscribedResource(href string) (resourceType ResourceType, scopedSiteID *uint32, resourceID *uint32, err error) {
	switch {
	case reEdev.MatchString(href):
		return ResourceSite, nil, nil, nil

	case reEdevSite.MatchString(href):
		m := reEdevSite.FindStringSubmatch(href)
		siteID, perr := parseUint32(m[1])
		if perr != nil {
			return 0, nil, nil, fmt.Errorf("%w: bad site id %q", ErrInvalidMapping, m[1])
		}
		return ResourceSite, &siteID, nil, nil

	case reEdevDOE.MatchString(href):
		m := reEdevDOE.FindStringSubmatch(href)
		siteID, perr := parseUint32(m[1])
		if perr != nil {
			return 0, nil, nil, fmt.Errorf("%w: bad site id %q", ErrInvalidMapping, m[1])
		}
		return ResourceDynamicOperatingEnvelope, &siteID, nil, nil

	case reReading.MatchString(href):
		m := reReading.FindStringSubmatch(href)
		siteID, perr := parseUint32(m[1])
		if perr != nil {
			return 0, nil, nil, fmt.Errorf("%w: bad site id %q", ErrInvalidMapping, m[1])
		}
		srtID, perr := parseUint32(m[2])
		if perr != nil {
			return 0, nil, nil, fmt.Errorf("%w: bad reading type id %q", ErrInvalidMapping, m[2])
		}
		return ResourceReading, &siteID, &srtID, nil

	case reTariffRate.MatchString(href):
		m := reTariffRate.FindStringSubmatch(href)
		siteID, perr := parseUint32(m[1])
		if perr != nil {
			return 0, nil, nil, fmt.Errorf("%w: bad site id %q", ErrInvalidMapping, m[1])
		}
		tariffID, perr := parseUint32(m[2])
		if perr != nil {
			return 0, nil, nil, fmt.Errorf("%w: bad tariff id %q", ErrInvalidMapping, m[2])
		}
		return ResourceTariffGeneratedRate, &siteID, &tariffID, nil

	default:
		return 0, nil, nil, fmt.Errorf("%w: unrecognised href %q", ErrInvalidMapping, href)
	}
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// NotificationURIHost extracts the host component of a subscription's callback URI, the
// value checked against the owning aggregator's FQDN allowlist.
func NotificationURIHost(notificationURI string) (string, error) {
	u, err := url.Parse(notificationURI)
	if err != nil {
		return "", fmt.Errorf("%w: unparseable notificationURI: %v", ErrInvalidMapping, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: notificationURI has no host", ErrInvalidMapping)
	}
	return u.Hostname(), nil
}

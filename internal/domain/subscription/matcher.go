package subscription

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/aggregator"
)

// CreateResourceSubscription validates href and notificationURI against the href-to-scope
// table and the owning aggregator's FQDN allowlist, then persists the subscription.
func CreateResourceSubscription(ctx context.Context, db *gorm.DB, aggregatorID uint32, href, notificationURI string, entityLimit int, conditionAttr *string, lower, upper *float64, now time.Time) (*ResourceSubscription, error) {
	resourceType, scopedSiteID, resourceID, err := ParseSubscribedResource(href)
	if err != nil {
		return nil, err
	}

	host, err := NotificationURIHost(notificationURI)
	if err != nil {
		return nil, err
	}

	allowed, err := aggregator.IsHostAllowed(ctx, db, aggregatorID, host)
	if err != nil {
		return nil, fmt.Errorf("failed to check aggregator domain allowlist: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: notificationURI host %q not in aggregator %d's domain allowlist", ErrInvalidMapping, host, aggregatorID)
	}

	sub := ResourceSubscription{
		AggregatorID:    aggregatorID,
		ResourceType:    resourceType,
		ResourceID:      resourceID,
		ScopedSiteID:    scopedSiteID,
		NotificationURI: notificationURI,
		EntityLimit:     entityLimit,
		ChangedTime:     now,
		ConditionAttr:   conditionAttr,
		ConditionLower:  lower,
		ConditionUpper:  upper,
	}
	if err := db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return &sub, nil
}

// ListSubscriptionsForAggregator loads every ResourceSubscription owned by aggregatorID.
// The notification batcher calls this once per aggregator encountered in a batch pass and
// caches the result, rather than re-querying per entity.
func ListSubscriptionsForAggregator(ctx context.Context, db *gorm.DB, aggregatorID uint32) ([]ResourceSubscription, error) {
	var subs []ResourceSubscription
	if err := db.WithContext(ctx).Where("aggregator_id = ?", aggregatorID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for aggregator %d: %w", aggregatorID, err)
	}
	return subs, nil
}

// CandidateEntity is the subset of fields the matcher needs from an entity being considered
// for notification: its resource-family id (e.g. tariff id, srt id) and owning site id.
type CandidateEntity struct {
	ResourceID *uint32
	SiteID     *uint32
	// Value is only populated (and only consulted) for ResourceReading entities.
	Value *float64
}

// Matches implements entities_serviced_by_subscription's per-entity test (steps 1-4 of
// §4.6): resource type match, optional resource-id match, optional site-scope match, and -
// for READING subscriptions carrying a READING_VALUE condition - the out-of-range filter.
func (s ResourceSubscription) Matches(resourceType ResourceType, e CandidateEntity) bool {
	if s.ResourceType != resourceType {
		return false
	}
	if s.ResourceID != nil {
		if e.ResourceID == nil || *s.ResourceID != *e.ResourceID {
			return false
		}
	}
	if s.ScopedSiteID != nil {
		if e.SiteID == nil || *s.ScopedSiteID != *e.SiteID {
			return false
		}
	}
	if resourceType == ResourceReading && s.ConditionAttr != nil && *s.ConditionAttr == ConditionREADINGValue {
		if e.Value == nil {
			return false
		}
		return readingOutOfRange(*e.Value, s.ConditionLower, s.ConditionUpper)
	}
	return true
}

// readingOutOfRange implements the READING_VALUE condition: a reading matches only when its
// value falls outside [lower, upper]. With only one bound set, match is "below lower" or
// "above upper" respectively; with both set, match is the disjunction.
func readingOutOfRange(value float64, lower, upper *float64) bool {
	below := lower != nil && value < *lower
	above := upper != nil && value > *upper
	return below || above
}

// MatchAll filters entities against sub, returning only the ones entities_serviced_by_subscription
// would notify on.
func MatchAll(s ResourceSubscription, resourceType ResourceType, entities []CandidateEntity) []CandidateEntity {
	var matched []CandidateEntity
	for _, e := range entities {
		if s.Matches(resourceType, e) {
			matched = append(matched, e)
		}
	}
	return matched
}

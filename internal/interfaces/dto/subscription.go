package dto

import (
	"encoding/xml"

	"sep2utility/internal/domain/subscription"
	"sep2utility/internal/infrastructure/href"
)

// Subscription is the 2030.5 Subscription resource.
type Subscription struct {
	XMLName xml.Name `xml:"Subscription"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	SubscribedResource string `xml:"subscribedResource"`
	NotificationURI    string `xml:"notificationURI"`
	EntityLimit        uint32 `xml:"limit"`

	Condition *SubscriptionCondition `xml:"condition,omitempty"`
}

// SubscriptionCondition is the 2030.5 Condition element: a single attribute/threshold pair,
// the schema permitting one condition per subscription (spec.md §3).
type SubscriptionCondition struct {
	Attribute string   `xml:"attributeIdentifier"`
	LowerBound *float64 `xml:"lowerThreshold,omitempty"`
	UpperBound *float64 `xml:"upperThreshold,omitempty"`
}

// SubscriptionList is the 2030.5 SubscriptionList resource, scoped to one EndDevice.
type SubscriptionList struct {
	XMLName xml.Name `xml:"SubscriptionList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	Subscriptions []Subscription `xml:"Subscription"`
}

// MapSubscriptionToResponse projects a ResourceSubscription into a Subscription resource.
// subscribedResourceHref is reconstructed by the caller from the subscription's
// (resource_type, scoped_site_id, resource_id) tuple, since the href-to-scope mapping
// (spec.md §4.6) is not invertible without the resource family's own href builder.
func MapSubscriptionToResponse(s subscription.ResourceSubscription, subscribedResourceHref string, siteID uint32, b href.Builder) Subscription {
	dto := Subscription{
		Xmlns:              Namespace,
		Href:               b.Subscription(siteID, s.SubscriptionID),
		SubscribedResource: subscribedResourceHref,
		NotificationURI:    s.NotificationURI,
		EntityLimit:        uint32(s.EntityLimit),
	}
	if s.ConditionAttr != nil {
		dto.Condition = &SubscriptionCondition{
			Attribute:  *s.ConditionAttr,
			LowerBound: s.ConditionLower,
			UpperBound: s.ConditionUpper,
		}
	}
	return dto
}

// MapSubscriptionListToResponse projects a page of subscriptions scoped to siteID.
func MapSubscriptionListToResponse(subs []subscription.ResourceSubscription, hrefs map[uint64]string, siteID uint32, b href.Builder) SubscriptionList {
	items := make([]Subscription, 0, len(subs))
	for _, s := range subs {
		items = append(items, MapSubscriptionToResponse(s, hrefs[s.SubscriptionID], siteID, b))
	}
	return SubscriptionList{
		Xmlns:        Namespace,
		ListResponse: ListResponse{All: uint32(len(items)), Results: uint32(len(items))},
		Subscriptions: items,
	}
}

// SubscriptionRequest is the inbound shape of a POST .../sub body.
type SubscriptionRequest struct {
	XMLName            xml.Name               `xml:"Subscription"`
	SubscribedResource string                 `xml:"subscribedResource"`
	NotificationURI    string                 `xml:"notificationURI"`
	EntityLimit        uint32                 `xml:"limit"`
	Condition          *SubscriptionCondition `xml:"condition,omitempty"`
}

// Notification is the 2030.5 Notification resource POSTed to a subscriber's notificationURI,
// carrying the changed/deleted resource page plus the subscription that produced it.
type Notification struct {
	XMLName xml.Name `xml:"Notification"`
	Xmlns   string   `xml:"xmlns,attr"`

	SubscribedResource string `xml:"subscribedResource"`
	SubscriptionURI    string `xml:"subscriptionURI"`
	Status             string `xml:"status"`

	Resource []byte `xml:"Resource,innerxml"`
}

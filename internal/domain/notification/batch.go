// Package notification implements the 2030.5 change-notification pipeline: batching
// changed/deleted entities by aggregator and resource scope, matching them against
// subscriptions, and producing the per-subscriber delivery tasks the transport layer enqueues.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// ChangeKind distinguishes a live row change from an archived (deleted) row, the two shapes
// check_db_change_or_delete fetches for a resource family at a given timestamp.
type ChangeKind int

const (
	EntityChanged ChangeKind = iota
	EntityDeleted
)

// MaxNotificationPageSize bounds entity_limit: page_size = clamp(sub.entity_limit, 1, 100).
const MaxNotificationPageSize = 100

// BatchKey groups changed entities for one notification pass. It always begins with
// AggregatorID; Extra carries whatever additional grouping the resource family needs (e.g. a
// site id) as a string so it stays comparable and usable as a map key alongside AggregatorID.
type BatchKey struct {
	AggregatorID uint32
	Extra        string
}

// Batch is one (batch key, change kind) group of entities awaiting subscription matching.
type Batch struct {
	Key   BatchKey
	Kind  ChangeKind
	Count int
}

// DeliveryTask is a single notification payload to POST to one subscriber, matching the
// transmit_notification task shape: {remote_uri, xml_bytes, notification_id, subscription_href,
// subscription_id, attempt}.
type DeliveryTask struct {
	RemoteURI        string
	XMLBytes         []byte
	NotificationID   uuid.UUID
	SubscriptionHref string
	SubscriptionID   uint64
	Attempt          int
	EnqueuedAt       time.Time
}

// ClampPageSize implements page_size = clamp(sub.entity_limit, 1, MAX_NOTIFICATION_PAGE_SIZE).
func ClampPageSize(entityLimit int) int {
	switch {
	case entityLimit < 1:
		return 1
	case entityLimit > MaxNotificationPageSize:
		return MaxNotificationPageSize
	default:
		return entityLimit
	}
}

package notify

import (
	"encoding/xml"

	"sep2utility/internal/domain/subscription"
)

// BasicXMLSerializer is a notification.PageSerializer that XML-encodes whatever page the
// engine hands it verbatim, without the 2030.5 namespace/href enrichment a handler-facing
// response gets from interfaces/http/sep2's dto mappers (that enrichment needs a
// request-scoped href.Builder this package, running off the request path, doesn't carry).
// It is the fallback every admin- and poller-triggered notification sweep uses.
func BasicXMLSerializer(_ subscription.ResourceType, page any) ([]byte, error) {
	return xml.Marshal(page)
}

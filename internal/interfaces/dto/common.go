// Package dto holds the 2030.5 XML wire types and the ToXML/FromXML mapping functions that
// translate them to and from the internal/domain structs, grounded on
// original_source/src/envoy/server/mapper/sep2/*.py and the teacher's model/mapper split
// between internal/domain and internal/infrastructure/persistence/models.
package dto

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// Namespace is the IEEE 2030.5 XML namespace every resource is marshalled under.
const Namespace = "urn:ieee:std:2030.5:ns"

// Link is a single-href reference to a related or child resource.
type Link struct {
	Href string `xml:"href,attr"`
}

// ListLink is a Link additionally carrying the list's total item count.
type ListLink struct {
	Href string `xml:"href,attr"`
	All  uint32 `xml:"all,attr,omitempty"`
}

// ListResponse carries the fields every 2030.5 List resource shares: the total count and
// the number of results actually returned.
type ListResponse struct {
	All     uint32 `xml:"all,attr"`
	Results uint32 `xml:"results,attr"`
}

// PollRate is the subscribable poll-rate attribute 2030.5 list resources carry, seconds.
type PollRate struct {
	PollRate uint32 `xml:"pollRate,attr,omitempty"`
}

// ListQuery is the s=<start>&a=<after>&l=<limit> query parameters every list endpoint
// accepts, per spec.md §6.1. Only the first value of each is used (list-form query params,
// for historical client compatibility).
type ListQuery struct {
	Start int64
	After int64
	Limit int64
}

// DefaultListLimit is applied when a client omits l= entirely.
const DefaultListLimit = 50

// hexUint32 renders v as the lowercase "0x"-prefixed hex string 2030.5 bitmask fields use.
func hexUint32(v uint32) string {
	return "0x" + strconv.FormatUint(uint64(v), 16)
}

// parseHexUint32 parses a "0x"-prefixed (or bare) hex string back into a bitmask; an
// unparseable string maps to 0 rather than failing the whole resource decode.
func parseHexUint32(s string) uint32 {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// unixToTime converts a 2030.5 wire TimeType (epoch seconds) to a UTC time.Time.
func unixToTime(epochSeconds int64) time.Time {
	return time.Unix(epochSeconds, 0).UTC()
}

func marshalXML(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// MarshalXML renders v as a 2030.5 wire document: the standard XML declaration followed by
// the marshalled resource. Exported for internal/interfaces/http/sep2's response writer.
func MarshalXML(v any) ([]byte, error) {
	return marshalXML(v)
}

package dto

import (
	"encoding/xml"
	"time"
)

// TimeResource is the 2030.5 /tm resource: the server's notion of the current time, quality,
// and local offset - the one resource every client polls to synchronise its clock.
type TimeResource struct {
	XMLName xml.Name `xml:"Time"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	CurrentTime      int64 `xml:"currentTime"`
	DstOffset        int32 `xml:"dstOffset"`
	TzOffset         int32 `xml:"tzOffset"`
	Quality          uint32 `xml:"quality"`
}

// MapTimeResourceToResponse builds the /tm resource for now, localised to loc.
func MapTimeResourceToResponse(now time.Time, loc *time.Location, href string) TimeResource {
	_, tzOffset := now.In(loc).Zone()
	return TimeResource{
		Xmlns:       Namespace,
		Href:        href,
		CurrentTime: now.Unix(),
		TzOffset:    int32(tzOffset),
		Quality:     4, // "level 4 source" - NTP-synchronised server clock, no better claim made
	}
}

package dto

import (
	"encoding/xml"

	"sep2utility/internal/domain/reading"
	"sep2utility/internal/infrastructure/href"
)

// MirrorUsagePoint is the 2030.5 MirrorUsagePoint resource, projected from a
// SiteReadingType: a client-originated declaration of a metering point it will mirror
// readings into.
type MirrorUsagePoint struct {
	XMLName xml.Name `xml:"MirrorUsagePoint"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	MRID   string `xml:"mRID"`
	RoleFlags uint32 `xml:"roleFlags"`

	MirrorMeterReadingLink Link `xml:"MirrorMeterReadingLink"`
}

// MirrorUsagePointList is the 2030.5 MirrorUsagePointList resource, ordered id DESC
// (spec.md §5).
type MirrorUsagePointList struct {
	XMLName xml.Name `xml:"MirrorUsagePointList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	MirrorUsagePoints []MirrorUsagePoint `xml:"MirrorUsagePoint"`
}

// MapMirrorUsagePointToResponse projects a SiteReadingType into a MirrorUsagePoint resource.
func MapMirrorUsagePointToResponse(srt reading.SiteReadingType, mridStr string, b href.Builder) MirrorUsagePoint {
	return MirrorUsagePoint{
		Xmlns:                  Namespace,
		Href:                   b.MirrorUsagePoint(srt.SiteReadingTypeID),
		MRID:                   mridStr,
		RoleFlags:              srt.RoleFlags,
		MirrorMeterReadingLink: Link{Href: b.MirrorMeterReading(srt.SiteReadingTypeID)},
	}
}

// ReadingTypeFields is the embedded ReadingType descriptor every MirrorUsagePoint's
// MirrorMeterReading resource carries, mirroring the semantic columns SiteReadingType dedups
// on (spec.md §3).
type ReadingTypeFields struct {
	UOM                    uint32 `xml:"uom"`
	DataQualifier          uint32 `xml:"dataQualifier"`
	FlowDirection          uint32 `xml:"flowDirection"`
	AccumulationBehaviour  uint32 `xml:"accumulationBehaviour"`
	Kind                   uint32 `xml:"kind"`
	Phase                  uint32 `xml:"phase"`
	PowerOfTenMultiplier   int32  `xml:"powerOfTenMultiplier"`
	IntervalLength         int32  `xml:"intervalLength"`
}

// MirrorMeterReading is the 2030.5 MirrorMeterReading resource: the ReadingType descriptor
// plus the most recent Reading values a client has mirrored in.
type MirrorMeterReading struct {
	XMLName xml.Name `xml:"MirrorMeterReading"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	ReadingType ReadingTypeFields `xml:"ReadingType"`
	Readings    []Reading         `xml:"Reading"`
}

// Reading is one SiteReading value, as mirrored by a client or returned to a subscriber.
type Reading struct {
	TimePeriodStart int64 `xml:"timePeriod>start"`
	TimePeriodDur   int32 `xml:"timePeriod>duration"`
	Value           int64 `xml:"value"`
	QualityFlags    uint32 `xml:"qualityFlags,omitempty"`
}

// MapMirrorMeterReadingToResponse projects a SiteReadingType plus its recent SiteReadings
// into a MirrorMeterReading resource.
func MapMirrorMeterReadingToResponse(srt reading.SiteReadingType, readings []reading.SiteReading, b href.Builder) MirrorMeterReading {
	items := make([]Reading, 0, len(readings))
	for _, r := range readings {
		items = append(items, Reading{
			TimePeriodStart: r.TimePeriodStart.Unix(),
			TimePeriodDur:   r.TimePeriodSeconds,
			Value:           r.Value,
			QualityFlags:    r.QualityFlags,
		})
	}
	return MirrorMeterReading{
		Xmlns: Namespace,
		Href:  b.MirrorMeterReading(srt.SiteReadingTypeID),
		ReadingType: ReadingTypeFields{
			UOM:                   srt.UOM,
			DataQualifier:         srt.DataQualifier,
			FlowDirection:         srt.FlowDirection,
			AccumulationBehaviour: srt.AccumulationBehaviour,
			Kind:                  srt.Kind,
			Phase:                 srt.Phase,
			PowerOfTenMultiplier:  srt.PowerOfTenMultiplier,
			IntervalLength:        srt.DefaultIntervalSeconds,
		},
		Readings: items,
	}
}

// MirrorUsagePointRequest is the inbound shape of a POST /mup body (or the mRType embedded
// at the top of a POST /mup/{mup_id} reading-batch body).
type MirrorUsagePointRequest struct {
	XMLName     xml.Name          `xml:"MirrorUsagePoint"`
	RoleFlags   uint32            `xml:"roleFlags"`
	ReadingType ReadingTypeFields `xml:"ReadingType"`
	Readings    []Reading         `xml:"MirrorMeterReading>Reading"`
}

// MapMirrorUsagePointFromRequest translates an inbound MirrorUsagePointRequest into the
// domain SiteReadingType dedup key, scoped to aggregatorID/siteID.
func MapMirrorUsagePointFromRequest(req MirrorUsagePointRequest, aggregatorID int64, siteID uint32) reading.SiteReadingType {
	return reading.SiteReadingType{
		AggregatorID:           aggregatorID,
		SiteID:                 siteID,
		UOM:                    req.ReadingType.UOM,
		DataQualifier:          req.ReadingType.DataQualifier,
		FlowDirection:          req.ReadingType.FlowDirection,
		AccumulationBehaviour:  req.ReadingType.AccumulationBehaviour,
		Kind:                   req.ReadingType.Kind,
		Phase:                  req.ReadingType.Phase,
		PowerOfTenMultiplier:   req.ReadingType.PowerOfTenMultiplier,
		DefaultIntervalSeconds: req.ReadingType.IntervalLength,
		RoleFlags:              req.RoleFlags,
	}
}

// MapReadingsFromRequest translates the inbound Reading batch (a POST /mup/{mup_id} reading
// upload) into domain SiteReading rows against srtID.
func MapReadingsFromRequest(req MirrorUsagePointRequest, srtID uint64) []reading.SiteReading {
	out := make([]reading.SiteReading, 0, len(req.Readings))
	for _, r := range req.Readings {
		out = append(out, reading.SiteReading{
			SiteReadingTypeID: srtID,
			TimePeriodStart:   unixToTime(r.TimePeriodStart),
			TimePeriodSeconds: r.TimePeriodDur,
			Value:             r.Value,
			QualityFlags:      r.QualityFlags,
		})
	}
	return out
}

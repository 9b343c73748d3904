package dto

import (
	"encoding/xml"
	"strconv"
	"time"

	"sep2utility/internal/domain/sitecontrol"
	"sep2utility/internal/infrastructure/href"
)

// DOEGroupRef renders a SiteControlGroup's id as the DERProgram href segment: the literal
// "doe" pre-multi-group compatibility alias when groupID == 1, its integer id otherwise.
func DOEGroupRef(groupID uint32) string {
	if groupID == 1 {
		return "doe"
	}
	return strconv.FormatUint(uint64(groupID), 10)
}

// DERProgram is the 2030.5 DERProgram resource, projected from a SiteControlGroup.
type DERProgram struct {
	XMLName xml.Name `xml:"DERProgram"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	MRID            string `xml:"mRID"`
	Description     string `xml:"description"`
	PrimacyValue    uint32 `xml:"primacy"`

	DefaultDERControlLink   Link `xml:"DefaultDERControlLink"`
	ActiveDERControlListLink Link `xml:"ActiveDERControlListLink"`
	DERControlListLink      Link `xml:"DERControlListLink"`
}

// DERProgramList is the 2030.5 DERProgramList resource, ordered primacy ASC, id DESC
// (spec.md §5 ordering guarantees).
type DERProgramList struct {
	XMLName xml.Name `xml:"DERProgramList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	DERPrograms []DERProgram `xml:"DERProgram"`
}

// MapDERProgramToResponse projects a SiteControlGroup into a DERProgram resource, scoped to
// one site's href tree. mrid is pre-encoded by the caller (mrid.EncodeDOEProgramMRID).
func MapDERProgramToResponse(g sitecontrol.SiteControlGroup, mrid string, siteID uint32, b href.Builder) DERProgram {
	ref := DOEGroupRef(g.SiteControlGroupID)
	return DERProgram{
		Xmlns:        Namespace,
		Href:         b.DERProgram(siteID, ref),
		MRID:         mrid,
		Description:  g.Description,
		PrimacyValue: g.Primacy,
		DefaultDERControlLink:    Link{Href: b.DefaultDERControl(siteID, ref)},
		ActiveDERControlListLink: Link{Href: b.ActiveDERControlList(siteID, ref)},
		DERControlListLink:       Link{Href: b.DERControlList(siteID, ref)},
	}
}

// DERControlBase carries the DOE payload fields shared by DERControl and DefaultDERControl.
type DERControlBase struct {
	SetEnergized          *bool            `xml:"opModEnergize,omitempty"`
	SetConnected          *bool            `xml:"opModConnect,omitempty"`
	ImportLimitActiveWatts *PowerOfTenValue `xml:"opModImpLimW,omitempty"`
	ExportLimitWatts       *PowerOfTenValue `xml:"opModExpLimW,omitempty"`
	GenerationLimitActiveWatts *PowerOfTenValue `xml:"opModGenLimW,omitempty"`
	LoadLimitActiveWatts       *PowerOfTenValue `xml:"opModLoadLimW,omitempty"`
}

// DERControl is the 2030.5 DERControl resource, projected from a DynamicOperatingEnvelope
// (or its archived shadow, via MapArchiveDERControlToResponse). Its interval carries start as
// epoch seconds plus the duration; no end time is emitted.
type DERControl struct {
	XMLName xml.Name `xml:"DERControl"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	MRID            string `xml:"mRID"`
	StartTime       int64  `xml:"interval>start"`
	DurationSeconds int64  `xml:"interval>duration"`

	DERControlBase
}

// DERControlList is the 2030.5 DERControlList resource, ordered start_time ASC,
// changed_time DESC, id DESC (spec.md §5).
type DERControlList struct {
	XMLName xml.Name `xml:"DERControlList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	DERControls []DERControl `xml:"DERControl"`
}

// MapDERControlToResponse projects a live DynamicOperatingEnvelope into a DERControl
// resource. start is emitted as epoch seconds, so loc does not change the value written.
func MapDERControlToResponse(d sitecontrol.DynamicOperatingEnvelope, mridStr string, loc *time.Location, b href.Builder) DERControl {
	ref := DOEGroupRef(d.SiteControlGroupID)
	dto := DERControl{
		Xmlns:           Namespace,
		Href:            b.DERControl(d.SiteID, ref, d.DynamicOperatingEnvelopeID),
		MRID:            mridStr,
		StartTime:       d.StartTime.In(loc).Unix(),
		DurationSeconds: int64(d.DurationSeconds),
	}
	dto.DERControlBase = mapDERControlBase(
		d.SetEnergized, d.SetConnected,
		d.ImportLimitActiveWatts, d.ExportLimitWatts,
		d.GenerationLimitActiveWatts, d.LoadLimitActiveWatts,
	)
	return dto
}

// MapArchiveDERControlToResponse is the archive-side counterpart of MapDERControlToResponse,
// used when select_active_does_include_deleted's union spans into the archive table (the
// "recently-cancelled controls" case, SPEC_FULL §9).
func MapArchiveDERControlToResponse(d sitecontrol.ArchiveDynamicOperatingEnvelope, mridStr string, loc *time.Location, b href.Builder) DERControl {
	ref := DOEGroupRef(d.SiteControlGroupID)
	dto := DERControl{
		Xmlns:           Namespace,
		Href:            b.DERControl(d.SiteID, ref, d.DynamicOperatingEnvelopeID),
		MRID:            mridStr,
		StartTime:       d.StartTime.In(loc).Unix(),
		DurationSeconds: int64(d.DurationSeconds),
	}
	dto.DERControlBase = mapDERControlBase(
		d.SetEnergized, d.SetConnected,
		d.ImportLimitActiveWatts, d.ExportLimitWatts,
		d.GenerationLimitActiveWatts, d.LoadLimitActiveWatts,
	)
	return dto
}

func mapDERControlBase(setEnergized, setConnected *bool, importW, exportW, genW, loadW *float64) DERControlBase {
	base := DERControlBase{SetEnergized: setEnergized, SetConnected: setConnected}
	if importW != nil {
		base.ImportLimitActiveWatts = wattsToPowerOfTen(*importW)
	}
	if exportW != nil {
		base.ExportLimitWatts = wattsToPowerOfTen(*exportW)
	}
	if genW != nil {
		base.GenerationLimitActiveWatts = wattsToPowerOfTen(*genW)
	}
	if loadW != nil {
		base.LoadLimitActiveWatts = wattsToPowerOfTen(*loadW)
	}
	return base
}

// wattsToPowerOfTen renders a stored DECIMAL(16,2) watt value as the {value, multiplier=-2}
// pair matching sitecontrol.DOEDecimalPlaces.
func wattsToPowerOfTen(w float64) *PowerOfTenValue {
	scale := 1
	for i := 0; i < sitecontrol.DOEDecimalPlaces; i++ {
		scale *= 10
	}
	return &PowerOfTenValue{Value: int32(w * float64(scale)), Multiplier: -int32(sitecontrol.DOEDecimalPlaces)}
}

func powerOfTenToWatts(v *PowerOfTenValue) *float64 {
	if v == nil {
		return nil
	}
	scale := 1.0
	for i := int32(0); i < -v.Multiplier; i++ {
		scale *= 10
	}
	w := float64(v.Value) / scale
	return &w
}

// DERControlRequest is the inbound shape of a bulk-upsert DOE submission.
type DERControlRequest struct {
	XMLName         xml.Name `xml:"DERControl"`
	StartTime       int64    `xml:"interval>start"`
	DurationSeconds int64    `xml:"interval>duration"`
	DERControlBase
}

// MapDERControlFromRequest translates an inbound DERControlRequest into a domain DOE row
// scoped to groupID/siteID, reading start (epoch seconds) as a UTC time and materialising
// end_time per the invariant in spec.md §3.
func MapDERControlFromRequest(req DERControlRequest, groupID, siteID uint32, now time.Time) sitecontrol.DynamicOperatingEnvelope {
	start := time.Unix(req.StartTime, 0).UTC()
	d := sitecontrol.DynamicOperatingEnvelope{
		SiteControlGroupID: groupID,
		SiteID:             siteID,
		CreatedTime:        now,
		ChangedTime:        now,
		StartTime:          start,
		DurationSeconds:    int(req.DurationSeconds),
		SetEnergized:       req.SetEnergized,
		SetConnected:       req.SetConnected,
	}
	d.EndTime = d.End()
	d.ImportLimitActiveWatts = powerOfTenToWatts(req.ImportLimitActiveWatts)
	d.ExportLimitWatts = powerOfTenToWatts(req.ExportLimitWatts)
	d.GenerationLimitActiveWatts = powerOfTenToWatts(req.GenerationLimitActiveWatts)
	d.LoadLimitActiveWatts = powerOfTenToWatts(req.LoadLimitActiveWatts)
	return d
}

// DefaultDERControl is the 2030.5 DefaultDERControl resource: a SiteControlGroup's fallback
// limits, mirrored per-site by DefaultSiteControl (SPEC_FULL 3).
type DefaultDERControl struct {
	XMLName xml.Name `xml:"DefaultDERControl"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`
	MRID    string   `xml:"mRID"`
	DERControlBase
}

// MapDefaultDERControlToResponse projects a SiteControlGroup's default limits resource.
func MapDefaultDERControlToResponse(siteID uint32, groupID uint32, mridStr string, setEnergized, setConnected *bool, importW, exportW, genW, loadW *float64, b href.Builder) DefaultDERControl {
	ref := DOEGroupRef(groupID)
	return DefaultDERControl{
		Xmlns:          Namespace,
		Href:           b.DefaultDERControl(siteID, ref),
		MRID:           mridStr,
		DERControlBase: mapDERControlBase(setEnergized, setConnected, importW, exportW, genW, loadW),
	}
}

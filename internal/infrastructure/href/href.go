// Package href composes the 2030.5 resource hrefs every XML DTO embeds. A single Builder
// carries the deployment's href_prefix (SPEC_FULL 4.1/9) so every link a mapper emits is
// built the same way, hermetically, without a second DB lookup.
package href

import "fmt"

// Builder composes hrefs under a fixed deployment prefix (e.g. "" or "/dcap1").
type Builder struct {
	Prefix string
}

// New returns a Builder for prefix, as carried on every scope.BaseRequestScope.
func New(prefix string) Builder {
	return Builder{Prefix: prefix}
}

func (b Builder) join(path string) string {
	return b.Prefix + path
}

// Time is the href of the /tm TimeResource.
func (b Builder) Time() string { return b.join("/tm") }

// EndDeviceList is the href of the /edev list resource.
func (b Builder) EndDeviceList() string { return b.join("/edev") }

// EndDevice is the href of a single EndDevice.
func (b Builder) EndDevice(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d", siteID))
}

// Registration is the href of an EndDevice's Registration resource.
func (b Builder) Registration(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/reg", siteID))
}

// ConnectionPoint is the href of an EndDevice's ConnectionPoint resource.
func (b Builder) ConnectionPoint(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/cp", siteID))
}

// DERList is the href of an EndDevice's DER list resource.
func (b Builder) DERList(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/der", siteID))
}

// DER is the href of a single DER under an EndDevice. The schema stores one DER per site, so
// der_id is always "1".
func (b Builder) DER(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/der/1", siteID))
}

// DERCapability is the href of a DER's DERCapability sub-resource.
func (b Builder) DERCapability(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/der/1/dercap", siteID))
}

// DERSettings is the href of a DER's DERSettings sub-resource.
func (b Builder) DERSettings(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/der/1/derg", siteID))
}

// DERAvailability is the href of a DER's DERAvailability sub-resource.
func (b Builder) DERAvailability(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/der/1/dera", siteID))
}

// DERStatus is the href of a DER's DERStatus sub-resource.
func (b Builder) DERStatus(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/der/1/ders", siteID))
}

// DERProgramList is the href of an EndDevice's DERProgram list resource.
func (b Builder) DERProgramList(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/derp", siteID))
}

// DERProgram is the href of a single DERProgram (site control group), addressed by "doe"
// pre-multi-group or by the group's integer id post-multi-group.
func (b Builder) DERProgram(siteID uint32, groupRef string) string {
	return b.join(fmt.Sprintf("/edev/%d/derp/%s", siteID, groupRef))
}

// DefaultDERControl is the href of a DERProgram's DefaultDERControl sub-resource.
func (b Builder) DefaultDERControl(siteID uint32, groupRef string) string {
	return b.join(fmt.Sprintf("/edev/%d/derp/%s/dderc", siteID, groupRef))
}

// ActiveDERControlList is the href of a DERProgram's active DERControl list.
func (b Builder) ActiveDERControlList(siteID uint32, groupRef string) string {
	return b.join(fmt.Sprintf("/edev/%d/derp/%s/actderc", siteID, groupRef))
}

// DERControlList is the href of a DERProgram's DERControl list.
func (b Builder) DERControlList(siteID uint32, groupRef string) string {
	return b.join(fmt.Sprintf("/edev/%d/derp/%s/derc", siteID, groupRef))
}

// DERControl is the href of a single DERControl (DOE) under a DERProgram.
func (b Builder) DERControl(siteID uint32, groupRef string, doeID uint64) string {
	return b.join(fmt.Sprintf("/edev/%d/derp/%s/derc/%d", siteID, groupRef, doeID))
}

// SubscriptionList is the href of an EndDevice's Subscription list resource.
func (b Builder) SubscriptionList(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/sub", siteID))
}

// Subscription is the href of a single Subscription.
func (b Builder) Subscription(siteID uint32, subID uint64) string {
	return b.join(fmt.Sprintf("/edev/%d/sub/%d", siteID, subID))
}

// TariffProfileList is the href of the top-level /tp list resource.
func (b Builder) TariffProfileList() string { return b.join("/tp") }

// TariffProfile is the href of a single top-level TariffProfile.
func (b Builder) TariffProfile(tariffID uint32) string {
	return b.join(fmt.Sprintf("/tp/%d", tariffID))
}

// SiteTariffProfileList is the href of an EndDevice-scoped /tp list resource.
func (b Builder) SiteTariffProfileList(siteID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/tp", siteID))
}

// SiteTariffProfile is the href of an EndDevice-scoped single TariffProfile.
func (b Builder) SiteTariffProfile(siteID uint32, tariffID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/tp/%d", siteID, tariffID))
}

// RateComponentList is the href of a TariffProfile's RateComponent list, scoped to a site.
func (b Builder) RateComponentList(siteID uint32, tariffID uint32) string {
	return b.join(fmt.Sprintf("/edev/%d/tp/%d/rc", siteID, tariffID))
}

// RateComponent is the href of a single (virtual) RateComponent, keyed by its calendar day.
func (b Builder) RateComponent(siteID uint32, tariffID uint32, day string) string {
	return b.join(fmt.Sprintf("/edev/%d/tp/%d/rc/%s", siteID, tariffID, day))
}

// TimeTariffIntervalList is the href of a RateComponent's TimeTariffInterval list, scoped to
// one PricingReadingType.
func (b Builder) TimeTariffIntervalList(siteID, tariffID uint32, day string, prt int) string {
	return b.join(fmt.Sprintf("/edev/%d/tp/%d/rc/%s/%d/tti", siteID, tariffID, day, prt))
}

// TimeTariffInterval is the href of a single TimeTariffInterval, keyed by its time-of-day.
func (b Builder) TimeTariffInterval(siteID, tariffID uint32, day string, prt int, timeOfDay string) string {
	return b.join(fmt.Sprintf("/edev/%d/tp/%d/rc/%s/%d/tti/%s", siteID, tariffID, day, prt, timeOfDay))
}

// ConsumptionTariffIntervalList is the href of a TimeTariffInterval's (always
// single-element) ConsumptionTariffInterval list, addressed by the integer price itself.
func (b Builder) ConsumptionTariffIntervalList(siteID, tariffID uint32, day string, prt int, timeOfDay string, priceInt int64) string {
	return b.join(fmt.Sprintf("/edev/%d/tp/%d/rc/%s/%d/tti/%s/cti/%d", siteID, tariffID, day, prt, timeOfDay, priceInt))
}

// MirrorUsagePointList is the href of the /mup list resource.
func (b Builder) MirrorUsagePointList() string { return b.join("/mup") }

// MirrorUsagePoint is the href of a single MirrorUsagePoint.
func (b Builder) MirrorUsagePoint(mupID uint64) string {
	return b.join(fmt.Sprintf("/mup/%d", mupID))
}

// MirrorMeterReading is the href of a MirrorUsagePoint's MirrorMeterReading child.
func (b Builder) MirrorMeterReading(mupID uint64) string {
	return b.join(fmt.Sprintf("/mup/%d/mr", mupID))
}

// ReadingListAll is the href of a SiteReadingType's "all readings" list, the subscribable
// shape named in the href-to-scope table (§4.6).
func (b Builder) ReadingListAll(siteID uint32, srtID uint64) string {
	return b.join(fmt.Sprintf("/upt/%d/mr/%d/rs/all/r", siteID, srtID))
}

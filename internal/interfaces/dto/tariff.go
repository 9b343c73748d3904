package dto

import (
	"encoding/xml"
	"fmt"
	"math"
	"time"

	"sep2utility/internal/domain/tariff"
	"sep2utility/internal/infrastructure/href"
)

// pricePowerOfTenMultiplier is -PRICE_DECIMAL_PLACES per spec.md §4.5.
const pricePowerOfTenMultiplier = -tariff.PriceDecimalPlaces

// TariffProfile is the 2030.5 TariffProfile resource, one per Tariff (optionally
// site-scoped). Its RateComponentListLink.all = unique_rate_days_for_site * 4.
type TariffProfile struct {
	XMLName xml.Name `xml:"TariffProfile"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	MRID                      string `xml:"mRID"`
	Name                      string `xml:"name"`
	CurrencyCode              uint32 `xml:"currency"`
	PricePowerOfTenMultiplier int32  `xml:"pricePowerOfTenMultiplier"`

	RateComponentListLink ListLink `xml:"RateComponentListLink"`
}

// TariffProfileList is the 2030.5 TariffProfileList resource, ordered id DESC (spec.md §5).
type TariffProfileList struct {
	XMLName xml.Name `xml:"TariffProfileList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	TariffProfiles []TariffProfile `xml:"TariffProfile"`
}

// MapTariffProfileToResponse projects a Tariff into a TariffProfile resource, scoped either
// to the unscoped top-level /tp tree (siteID == nil) or to one EndDevice's /tp tree.
func MapTariffProfileToResponse(t tariff.Tariff, mridStr string, siteID *uint32, rateComponentAll uint32, b href.Builder) TariffProfile {
	href_ := b.TariffProfile(t.TariffID)
	rcHref := ""
	if siteID != nil {
		href_ = b.SiteTariffProfile(*siteID, t.TariffID)
		rcHref = b.RateComponentList(*siteID, t.TariffID)
	}
	return TariffProfile{
		Xmlns:                     Namespace,
		Href:                      href_,
		MRID:                      mridStr,
		Name:                      t.Name,
		CurrencyCode:              t.CurrencyCode,
		PricePowerOfTenMultiplier: pricePowerOfTenMultiplier,
		RateComponentListLink:     ListLink{Href: rcHref, All: rateComponentAll},
	}
}

// RateComponent is the 2030.5 RateComponent resource - fully virtual, identified by
// (tariff, site, day, pricing reading type). Its href embeds the calendar day.
type RateComponent struct {
	XMLName xml.Name `xml:"RateComponent"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	MRID                      string `xml:"mRID"`
	ReadingType               uint32 `xml:"ReadingType"`
	TimeTariffIntervalListLink Link  `xml:"TimeTariffIntervalListLink"`
}

// RateComponentList is the 2030.5 RateComponentList resource for one TariffProfile/site,
// pagination per spec.md §4.5's fetch_rate_component_list formula.
type RateComponentList struct {
	XMLName xml.Name `xml:"RateComponentList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	RateComponents []RateComponent `xml:"RateComponent"`
}

// DayKey formats a RateComponentRef's day as the YYYY-MM-DD href segment.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// MapRateComponentToResponse projects one RateComponentRef into a RateComponent resource.
func MapRateComponentToResponse(ref tariff.RateComponentRef, siteID, tariffID uint32, mridStr string, b href.Builder) RateComponent {
	day := DayKey(ref.Day)
	return RateComponent{
		Xmlns:       Namespace,
		Href:        b.RateComponent(siteID, tariffID, day),
		MRID:        mridStr,
		ReadingType: uint32(ref.PricingReadingType),
		TimeTariffIntervalListLink: Link{Href: b.TimeTariffIntervalList(siteID, tariffID, day, int(ref.PricingReadingType))},
	}
}

// TimeTariffInterval is the 2030.5 TimeTariffInterval resource: one per
// (TariffGeneratedRate, pricing reading type). Href embeds HH:MM.
type TimeTariffInterval struct {
	XMLName xml.Name `xml:"TimeTariffInterval"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`

	MRID      string `xml:"mRID"`
	StartTime int64  `xml:"interval>start"`
	Duration  int64  `xml:"interval>duration"`

	ConsumptionTariffIntervalListLink Link `xml:"ConsumptionTariffIntervalListLink"`
}

// TimeTariffIntervalList is the 2030.5 TimeTariffIntervalList resource.
type TimeTariffIntervalList struct {
	XMLName xml.Name `xml:"TimeTariffIntervalList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	TimeTariffIntervals []TimeTariffInterval `xml:"TimeTariffInterval"`
}

// TimeOfDayKey formats a rate's local start time as the HH:MM href segment.
func TimeOfDayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// MapTimeTariffIntervalToResponse projects one TariffGeneratedRate + PricingReadingType into
// a TimeTariffInterval resource, localising start_time to loc per spec.md §4.5.
func MapTimeTariffIntervalToResponse(rate tariff.TariffGeneratedRate, prt tariff.PricingReadingType, mridStr string, siteID, tariffID uint32, loc *time.Location, b href.Builder) TimeTariffInterval {
	day := DayKey(rate.StartTime.In(loc))
	tod := TimeOfDayKey(rate.StartTime, loc)
	price := tariff.ExtractPrice(prt, rate)
	priceInt := int64(math.Round(price * math.Pow(10, tariff.PriceDecimalPlaces)))
	return TimeTariffInterval{
		Xmlns:     Namespace,
		Href:      b.TimeTariffInterval(siteID, tariffID, day, int(prt), tod),
		MRID:      mridStr,
		StartTime: rate.StartTime.Unix(),
		Duration:  int64(rate.DurationSeconds),
		ConsumptionTariffIntervalListLink: Link{
			Href: b.ConsumptionTariffIntervalList(siteID, tariffID, day, int(prt), tod, priceInt),
		},
	}
}

// ConsumptionTariffInterval is the 2030.5 ConsumptionTariffInterval resource - fully
// virtual, always a single-element list, addressable by its integer price alone.
type ConsumptionTariffInterval struct {
	XMLName xml.Name `xml:"ConsumptionTariffInterval"`
	Xmlns   string   `xml:"xmlns,attr"`
	Href    string   `xml:"href,attr"`
	Price   int64    `xml:"price"`
}

// ConsumptionTariffIntervalList is always a single-element list, per spec.md §4.5.
type ConsumptionTariffIntervalList struct {
	XMLName xml.Name `xml:"ConsumptionTariffIntervalList"`
	Xmlns   string   `xml:"xmlns,attr"`
	ListResponse
	ConsumptionTariffIntervals []ConsumptionTariffInterval `xml:"ConsumptionTariffInterval"`
}

// MapConsumptionTariffIntervalToResponse builds the single-element list resource for a
// TimeTariffInterval's price, addressed by priceInt (the href segment itself).
func MapConsumptionTariffIntervalToResponse(siteID, tariffID uint32, day string, prt int, timeOfDay string, priceInt int64, b href.Builder) ConsumptionTariffIntervalList {
	href_ := fmt.Sprintf("%s/cti/%d", b.TimeTariffInterval(siteID, tariffID, day, prt, timeOfDay), priceInt)
	return ConsumptionTariffIntervalList{
		Xmlns:        Namespace,
		ListResponse: ListResponse{All: 1, Results: 1},
		ConsumptionTariffIntervals: []ConsumptionTariffInterval{{
			Xmlns: Namespace,
			Href:  href_,
			Price: priceInt,
		}},
	}
}

package notification

// ChunkPages splits items into pages of at most pageSize, implementing get_entity_pages for
// the ordinary (list-resource) case. pageSize must already be the clamped value from
// ClampPageSize.
func ChunkPages[T any](items []T, pageSize int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if pageSize < 1 {
		pageSize = 1
	}

	pages := make([][]T, 0, (len(items)+pageSize-1)/pageSize)
	for start := 0; start < len(items); start += pageSize {
		end := start + pageSize
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	return pages
}

// SingletonPages turns each item into its own one-element page, implementing the
// NON_LIST_RESOURCES special case (SiteDERAvailability/Rating/Setting/Status, and - in this
// port - TariffGeneratedRate fanned out per PricingReadingType, since each (rate, pricing
// reading type) pair addresses its own TimeTariffInterval href and is never paged together
// with its siblings).
func SingletonPages[T any](items []T) [][]T {
	pages := make([][]T, 0, len(items))
	for _, item := range items {
		pages = append(pages, []T{item})
	}
	return pages
}

// FanOutByPricingReadingType repeats each rate once per entry of prts, pairing it with that
// reading type, then turns the whole set into singleton pages - one notification task per
// (rate, pricing reading type) tuple. This is what makes scenario S3 (2 rates, 4 pricing
// reading types) enqueue 8 notification tasks rather than 2.
func FanOutByPricingReadingType[T any, P any](rates []T, prts []P) [][]RatePricingPair[T, P] {
	pairs := make([]RatePricingPair[T, P], 0, len(rates)*len(prts))
	for _, rate := range rates {
		for _, prt := range prts {
			pairs = append(pairs, RatePricingPair[T, P]{Rate: rate, PricingReadingType: prt})
		}
	}
	return SingletonPages(pairs)
}

// RatePricingPair pairs one rate row with one PricingReadingType it's being notified for.
type RatePricingPair[T any, P any] struct {
	Rate               T
	PricingReadingType P
}

// BuildPages dispatches to the correct paging strategy. isNonList selects singleton pages for
// the NON_LIST_RESOURCES set. TariffGeneratedRate's per-PricingReadingType fan-out is not
// handled here; callers use FanOutByPricingReadingType for it since it changes the element
// type. If matched is empty but
// emitEmptyOnNoMatch is set (the subscription's resource type matches the resource family
// directly, e.g. a list-metadata-only subscription), a single empty page is returned so list
// metadata is still reported.
func BuildPages[T any](matched []T, pageSize int, isNonList bool, emitEmptyOnNoMatch bool) [][]T {
	if len(matched) == 0 {
		if emitEmptyOnNoMatch {
			return [][]T{{}}
		}
		return nil
	}
	if isNonList {
		return SingletonPages(matched)
	}
	return ChunkPages(matched, pageSize)
}

package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sep2utility/internal/domain/tariff"
)

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 1, ClampPageSize(0))
	assert.Equal(t, 1, ClampPageSize(-5))
	assert.Equal(t, 100, ClampPageSize(1000))
	assert.Equal(t, 42, ClampPageSize(42))
}

func TestChunkPages_SplitsEvenlyAndLeavesRemainder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	pages := ChunkPages(items, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, pages)
}

func TestBuildPages_EmitsEmptyPageOnNoMatchWhenRequested(t *testing.T) {
	pages := BuildPages([]int{}, 10, false, true)
	assert.Equal(t, [][]int{{}}, pages)

	pages = BuildPages([]int{}, 10, false, false)
	assert.Nil(t, pages)
}

// TestFanOutByPricingReadingType_S3 reproduces scenario S3: two rates for tariff=5, site=7,
// one subscription with entity_limit=100 - expected 8 notification tasks (2 rates x 4
// PricingReadingType), each a singleton page.
func TestFanOutByPricingReadingType_S3(t *testing.T) {
	rates := []tariff.TariffGeneratedRate{
		{TariffGeneratedRateID: 1, TariffID: 5, SiteID: 7},
		{TariffGeneratedRateID: 2, TariffID: 5, SiteID: 7},
	}

	pages := FanOutByPricingReadingType(rates, tariff.PricingReadingTypes[:])

	assert.Len(t, pages, 8)
	for _, page := range pages {
		assert.Len(t, page, 1)
	}
}

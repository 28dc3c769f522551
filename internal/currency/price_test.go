package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricescout/pricescout/internal/model"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		display string
		want    float64
		ok      bool
	}{
		{"$199.99", 199.99, true},
		{"₹1,200", 1200, true},
		{"₹1,29,999", 129999, true},
		{"1200", 1200, true},
		{"EUR 45.50", 45.50, true},
		{"Price unavailable", 0, false},
		{"", 0, false},
		{"N/A", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			got, ok := ParsePrice(tt.display)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestSortByPrice_UnparseableLast(t *testing.T) {
	records := []model.StorePriceRecord{
		{Store: "A", Price: "₹1,200"},
		{Store: "B", Price: "Price unavailable"},
		{Store: "C", Price: "$199.99"},
	}

	SortByPrice(records)

	assert.Equal(t, "C", records[0].Store)
	assert.Equal(t, "A", records[1].Store)
	assert.Equal(t, "B", records[2].Store)
}

func TestBestDeal(t *testing.T) {
	records := []model.StorePriceRecord{
		{Store: "Amazon", Price: "₹54,999"},
		{Store: "Flipkart", Price: "₹52,490"},
		{Store: "Meesho", Price: "₹53,100"},
	}

	best := BestDeal(records)
	require.NotNil(t, best)
	assert.Equal(t, "Flipkart", best.Store)
}

func TestBestDeal_AllUnavailable_RetainsFirst(t *testing.T) {
	records := []model.StorePriceRecord{
		{Store: "Amazon", Price: "Price unavailable"},
		{Store: "Flipkart", Price: "Price unavailable"},
		{Store: "Meesho", Price: "Price unavailable"},
	}

	best := BestDeal(records)
	require.NotNil(t, best)
	assert.Equal(t, "Amazon", best.Store)
}

func TestBestDeal_Empty(t *testing.T) {
	assert.Nil(t, BestDeal(nil))
}

func TestCountryByCode_Fallback(t *testing.T) {
	c := CountryByCode("ZZ")
	assert.Equal(t, "IN", c.Code)
	assert.Equal(t, "INR", c.CurrencyCode)

	c = CountryByCode("")
	assert.Equal(t, "IN", c.Code)
}

func TestCountryByCode_Known(t *testing.T) {
	c := CountryByCode("US")
	assert.Equal(t, "USD", c.CurrencyCode)
	assert.Equal(t, "$", c.CurrencySymbol)
}

func TestConvert(t *testing.T) {
	got := Convert(83.0, "INR", "USD")
	assert.InDelta(t, 1.0, got, 0.001)

	// unknown currencies convert 1:1
	got = Convert(10, "XXX", "USD")
	assert.InDelta(t, 10, got, 0.001)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$1,299.00", FormatPrice(1299, "US"))
	// Indian grouping: 1,29,999.00
	assert.Equal(t, "₹1,29,999.00", FormatPrice(129999, "IN"))
	// zero-decimal currency
	assert.Equal(t, "¥1,480", FormatPrice(1480, "JP"))
	// unknown country falls back to India
	assert.Equal(t, "₹500.00", FormatPrice(500, "ZZ"))
}

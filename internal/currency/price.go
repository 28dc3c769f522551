package currency

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pricescout/pricescout/internal/model"
)

// ParsePrice extracts a numeric amount from a display price string such as
// "$199.99" or "₹1,200". The second return is false when no number can be
// extracted ("Price unavailable" and friends).
func ParsePrice(display string) (float64, bool) {
	var b strings.Builder
	for _, r := range display {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			// thousands separator, dropped
		}
	}
	s := b.String()
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// priceValue returns the sortable numeric value for a record; unparseable
// prices sort last.
func priceValue(r model.StorePriceRecord) float64 {
	if v, ok := ParsePrice(r.Price); ok {
		return v
	}
	return math.Inf(1)
}

// SortByPrice orders records ascending by parsed price, stable so that equal
// (including equally unparseable) records keep their original order.
func SortByPrice(records []model.StorePriceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return priceValue(records[i]) < priceValue(records[j])
	})
}

// BestDeal returns the record with the lowest parsed price. When every price
// is unparseable the first record is retained. Returns nil for an empty set.
func BestDeal(records []model.StorePriceRecord) *model.StorePriceRecord {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]model.StorePriceRecord, len(records))
	copy(sorted, records)
	SortByPrice(sorted)
	best := sorted[0]
	return &best
}

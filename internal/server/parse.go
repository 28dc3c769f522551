package server

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pricescout/pricescout/internal/model"
)

// parseRecords extracts a JSON array of store/price records from a model
// completion. Only an array is accepted; any other shape or a parse failure
// yields nil, which the caller treats as "no usable data", not an error.
func parseRecords(completion string) []model.StorePriceRecord {
	text := strings.TrimSpace(completion)
	if text == "" {
		return nil
	}

	// Models wrap JSON in markdown fences more often than not.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}

	var records []model.StorePriceRecord
	if err := json.Unmarshal([]byte(text[start:end+1]), &records); err != nil {
		return nil
	}

	// Records without a store name render as blank rows; drop them.
	out := records[:0]
	for _, r := range records {
		if r.Store != "" {
			out = append(out, r)
		}
	}
	return out
}

// PriceUnavailable is the display price of placeholder records.
const PriceUnavailable = "Price unavailable"

// fallbackRecords builds the three placeholder rows used when the completion
// yields no usable data. The deep links point at each store's search page for
// the original query.
func fallbackRecords(query string) []model.StorePriceRecord {
	escaped := url.QueryEscape(query)
	return []model.StorePriceRecord{
		{
			Store: "Amazon",
			Price: PriceUnavailable,
			URL:   "https://www.amazon.in/s?k=" + escaped,
		},
		{
			Store: "Flipkart",
			Price: PriceUnavailable,
			URL:   "https://www.flipkart.com/search?q=" + escaped,
		},
		{
			Store: "Meesho",
			Price: PriceUnavailable,
			URL:   "https://www.meesho.com/search?q=" + escaped,
		},
	}
}

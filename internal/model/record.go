package model

import (
	"encoding/json"
	"time"
)

// StorePriceRecord is one retailer's quoted price and metadata for a product.
// Price is the display string as quoted (currency symbol may be embedded or
// absent); numeric fields are best-effort and optional. A store may appear
// more than once in a result set; no deduplication is performed.
type StorePriceRecord struct {
	Store        string          `json:"store"`
	Price        string          `json:"price"`
	RegularPrice float64         `json:"regular_price,omitempty"`
	DiscountPct  float64         `json:"discount_pct,omitempty"`
	Rating       float64         `json:"rating,omitempty"`
	InStock      *bool           `json:"in_stock,omitempty"`
	URL          string          `json:"url,omitempty"`
	Offers       json.RawMessage `json:"offers,omitempty"`
}

// CompareResult is the envelope returned by the price-estimation backend.
// Success determines which side of the union is populated: on success the
// counters and Data are set, on failure only Error is.
type CompareResult struct {
	Success     bool               `json:"success"`
	Status      string             `json:"status,omitempty"`
	Completed   int                `json:"completed,omitempty"`
	Total       int                `json:"total,omitempty"`
	CreditsUsed int                `json:"creditsUsed,omitempty"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty"`
	Data        []StorePriceRecord `json:"data,omitempty"`
	Answer      string             `json:"answer,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// CompareSuccess builds a success envelope for the given records with the
// fixed credit cost and a 24-hour expiry.
func CompareSuccess(records []StorePriceRecord, now time.Time) *CompareResult {
	expires := now.Add(24 * time.Hour)
	return &CompareResult{
		Success:     true,
		Status:      "completed",
		Completed:   len(records),
		Total:       len(records),
		CreditsUsed: 1,
		ExpiresAt:   &expires,
		Data:        records,
	}
}

// CompareFailure builds a failure envelope with the given message.
func CompareFailure(msg string) *CompareResult {
	return &CompareResult{Success: false, Error: msg}
}

// Empty reports whether a successful result carries no usable records or
// answer text. Used by the client retry policy to distinguish "no results"
// from hard failures.
func (r *CompareResult) Empty() bool {
	return r.Success && len(r.Data) == 0 && r.Answer == ""
}

package model

import "time"

// MaxHistoryItems caps the persisted search history. Inserts beyond the cap
// evict the oldest entries.
const MaxHistoryItems = 50

// HistoryItem records a past search and its outcome. It lives only in the
// local store; there is no server-side copy.
type HistoryItem struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	Query       string     `json:"query"`
	Kind        QueryKind  `json:"kind"`
	ProductName string     `json:"product_name,omitempty"`
	BestPrice   *BestPrice `json:"best_price,omitempty"`
}

// BestPrice is a snapshot of the lowest quoted price at search time.
type BestPrice struct {
	Store string `json:"store"`
	Price string `json:"price"`
}

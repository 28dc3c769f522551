package server

import (
	"fmt"
	"strings"

	"github.com/pricescout/pricescout/internal/model"
)

// buildPricePrompt asks for a machine-readable price listing. The target
// market is fixed to major Indian e-commerce platforms.
func buildPricePrompt(query string, kind model.QueryKind) string {
	var subject string
	switch kind {
	case model.KindURL:
		subject = fmt.Sprintf("the product at this URL: %s", query)
	case model.KindBarcode:
		subject = fmt.Sprintf("the product with barcode %s", query)
	default:
		subject = fmt.Sprintf("the product %q", query)
	}

	return fmt.Sprintf(`You are a price comparison engine for the Indian market.
Find approximate current prices for %s across major Indian e-commerce platforms
(Amazon.in, Flipkart, Meesho, Croma, Reliance Digital).

Respond with ONLY a JSON array, no prose, no markdown. Each element:
{"store": "<store name>", "price": "<display price with currency symbol>", "url": "<product or search URL>", "rating": <seller rating 0-5 or omit>, "discount_pct": <percent or omit>}

If you are not confident about a price, give your best estimate.`, subject)
}

// buildTextPrompt serves the conversational actions.
func buildTextPrompt(req CompareRequest, action string) string {
	switch action {
	case ActionSummarize:
		return fmt.Sprintf(`Summarize the product %q in 3-4 sentences for a shopper
comparing prices in India: what it is, key specs, and what to watch for when buying.`, req.Query)
	case ActionAnalyzeReviews:
		return fmt.Sprintf(`Analyze the overall sentiment of these customer reviews for %q.
Report the ratio of positive to negative, the most common complaint, and the most
praised aspect, in at most 4 sentences.

Reviews:
%s`, req.Query, strings.Join(req.Reviews, "\n"))
	default: // chat
		if req.Context != "" {
			return fmt.Sprintf(`You are a shopping assistant helping a user compare product
prices in India. Conversation so far:
%s

User: %s`, req.Context, req.Query)
		}
		return fmt.Sprintf(`You are a shopping assistant helping a user compare product
prices in India. Answer concisely.

User: %s`, req.Query)
	}
}

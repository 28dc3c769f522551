package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricescout/pricescout/internal/currency"
	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/search"
)

var (
	compareNoHistory bool
	compareRetries   int
)

var compareCmd = &cobra.Command{
	Use:   "compare <query>",
	Short: "Compare prices for a product",
	Long:  "Accepts a product name, a product URL, or a numeric barcode, and compares prices across stores. The query kind is detected automatically.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.TrimSpace(args[0])
		if query == "" {
			return fmt.Errorf("query must not be empty")
		}
		kind := model.ClassifyQuery(query)

		svc := initSearch()
		if cmd.Flags().Changed("retries") {
			policy := retryPolicy(cfg)
			policy.MaxAttempts = compareRetries
			svc = search.New(cfg.Backend.BaseURL,
				search.WithCacheTTL(cacheTTL(cfg)),
				search.WithCacheSize(cfg.Cache.MaxEntries),
				search.WithRetry(policy),
			)
		}

		stopProgress := startProgress(os.Stderr, "Searching")
		result := svc.Compare(ctx, query)
		stopProgress()

		// Every attempt is recorded, not just the ones with results.
		if !compareNoHistory {
			recordHistory(cmd, query, kind, result.Data)
		}

		if !result.Success {
			fmt.Fprintf(os.Stderr, "Search failed: %s\n", result.Error)
			printRemediation(os.Stderr, kind)
			return fmt.Errorf("no results")
		}

		if len(result.Data) == 0 {
			fmt.Fprintln(os.Stderr, "No results found.")
			printRemediation(os.Stderr, kind)
			return nil
		}

		records := make([]model.StorePriceRecord, len(result.Data))
		copy(records, result.Data)
		currency.SortByPrice(records)

		formatResults(os.Stdout, records)
		printConvertedBest(os.Stdout, cmd, records)

		return nil
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareNoHistory, "no-history", false, "do not record this search in history")
	compareCmd.Flags().IntVar(&compareRetries, "retries", 0, "total attempts including the first (default from config)")
	rootCmd.AddCommand(compareCmd)
}

// recordHistory persists the search and its best price. History failures are
// logged, never surfaced: a comparison that printed results has succeeded.
func recordHistory(cmd *cobra.Command, query string, kind model.QueryKind, records []model.StorePriceRecord) {
	st, err := initStore(cmd)
	if err != nil {
		zap.L().Warn("history unavailable", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck

	item := model.HistoryItem{
		Query:       query,
		Kind:        kind,
		ProductName: query,
	}
	if best := currency.BestDeal(records); best != nil {
		if _, ok := currency.ParsePrice(best.Price); ok {
			item.BestPrice = &model.BestPrice{Store: best.Store, Price: best.Price}
		}
	}

	if err := st.AddHistory(cmd.Context(), item); err != nil {
		zap.L().Warn("failed to record history", zap.Error(err))
	}
}

// startProgress renders a ticking percentage to w. The displayed value is
// synthetic and never reaches 100 until the stop function is called.
func startProgress(w io.Writer, label string) func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		pct := 0
		ticker := time.NewTicker(300 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				fmt.Fprintf(w, "\r%s... 100%%\n", label)
				return
			case <-ticker.C:
				if pct < 90 {
					pct += 10
				}
				fmt.Fprintf(w, "\r%s... %d%%", label, pct)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// formatResults writes a price table, cheapest first, with the best deal
// marked. Unparseable prices sort last and are never marked best.
func formatResults(out io.Writer, records []model.StorePriceRecord) {
	best := currency.BestDeal(records)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tSTORE\tPRICE\tRATING\tDISCOUNT\tURL")
	_, _ = fmt.Fprintln(w, " \t-----\t-----\t------\t--------\t---")

	for _, r := range records {
		marker := " "
		if best != nil && r.Store == best.Store && r.Price == best.Price {
			if _, ok := currency.ParsePrice(r.Price); ok {
				marker = "*"
			}
		}

		rating := ""
		if r.Rating > 0 {
			rating = fmt.Sprintf("%.1f", r.Rating)
		}
		discount := ""
		if r.DiscountPct > 0 {
			discount = fmt.Sprintf("%.0f%%", r.DiscountPct)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			marker, r.Store, r.Price, rating, discount, r.URL)
	}
	_ = w.Flush()

	if best != nil {
		if _, ok := currency.ParsePrice(best.Price); ok {
			_, _ = fmt.Fprintf(out, "\nBest deal: %s at %s\n", best.Price, best.Store)
		}
	}
}

// printConvertedBest adds an approximate best price in the selected country's
// currency. Backend quotes are INR; nothing is printed when the selection is
// India, the price is unparseable, or the store is unreachable.
func printConvertedBest(out io.Writer, cmd *cobra.Command, records []model.StorePriceRecord) {
	best := currency.BestDeal(records)
	if best == nil {
		return
	}
	amount, ok := currency.ParsePrice(best.Price)
	if !ok {
		return
	}

	st, err := initStore(cmd)
	if err != nil {
		return
	}
	defer st.Close() //nolint:errcheck

	code, err := st.SelectedCountry(cmd.Context())
	if err != nil {
		return
	}
	selected := currency.CountryByCode(code)
	if selected.CurrencyCode == "INR" {
		return
	}

	converted := currency.Convert(amount, "INR", selected.CurrencyCode)
	fmt.Fprintf(out, "Approx. %s in %s (static rate)\n",
		currency.FormatPrice(converted, selected.Code), selected.Name)
}

// printRemediation suggests next steps after a failed or empty search.
func printRemediation(w io.Writer, kind model.QueryKind) {
	switch kind {
	case model.KindBarcode:
		fmt.Fprintln(w, "Tip: barcode lookups work best with full EAN-13 codes; try searching by product name instead.")
	case model.KindURL:
		fmt.Fprintln(w, "Tip: some store pages cannot be read; try searching by product name instead.")
	default:
		fmt.Fprintln(w, "Tip: try a more specific product name, including brand and model number.")
	}
}

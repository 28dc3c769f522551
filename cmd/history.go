package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pricescout/pricescout/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect local search history",
	Long:  "Search history lives only on this machine, newest first, capped at 50 entries.",
}

// -- history list --

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past searches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := initStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		items, err := st.ListHistory(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "history list")
		}

		if len(items) == 0 {
			fmt.Fprintln(os.Stderr, "No history yet.")
			return nil
		}

		formatHistory(os.Stdout, items)
		return nil
	},
}

// -- history delete --

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteHistory(cmd.Context(), args[0]); err != nil {
			return eris.Wrap(err, "history delete")
		}
		fmt.Println("Deleted.")
		return nil
	},
}

// -- history clear --

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := initStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.ClearHistory(cmd.Context()); err != nil {
			return eris.Wrap(err, "history clear")
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// formatHistory writes a tabular history listing to w.
func formatHistory(out io.Writer, items []model.HistoryItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tWHEN\tKIND\tQUERY\tBEST PRICE")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t-----\t----------")

	for _, item := range items {
		query := item.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}

		best := ""
		if item.BestPrice != nil {
			best = fmt.Sprintf("%s (%s)", item.BestPrice.Price, item.BestPrice.Store)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(item.ID),
			item.CreatedAt.Format("2006-01-02 15:04"),
			item.Kind,
			query,
			best,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

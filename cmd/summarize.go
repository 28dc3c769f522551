package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <product>",
	Short: "Summarize a product for buyers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		product := strings.TrimSpace(strings.Join(args, " "))
		if product == "" {
			return fmt.Errorf("product name must not be empty")
		}

		svc := initSearch()

		result := svc.Summarize(cmd.Context(), product)
		if !result.Success {
			fmt.Fprintf(os.Stderr, "Summary failed: %s\n", result.Error)
			return fmt.Errorf("no summary")
		}
		if result.Answer == "" {
			fmt.Fprintln(os.Stderr, "No summary available for that product.")
			return nil
		}

		fmt.Println(result.Answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

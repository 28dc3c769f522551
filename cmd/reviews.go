package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews <product>",
	Short: "Analyze review sentiment for a product",
	Long:  "Reads one review per line from stdin (end with Ctrl-D) and reports the overall sentiment.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		product := strings.TrimSpace(strings.Join(args, " "))
		if product == "" {
			return fmt.Errorf("product name must not be empty")
		}

		reviews, err := readReviews(os.Stdin)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			return fmt.Errorf("no reviews given; paste one review per line on stdin")
		}

		svc := initSearch()

		result := svc.AnalyzeReviews(cmd.Context(), product, reviews)
		if !result.Success {
			fmt.Fprintf(os.Stderr, "Analysis failed: %s\n", result.Error)
			return fmt.Errorf("no analysis")
		}

		fmt.Println(result.Answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewsCmd)
}

// readReviews collects non-blank lines, one review each.
func readReviews(in io.Reader) ([]string, error) {
	var reviews []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			reviews = append(reviews, line)
		}
	}
	return reviews, scanner.Err()
}

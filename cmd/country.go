package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pricescout/pricescout/internal/currency"
	"github.com/pricescout/pricescout/internal/geo"
	"github.com/pricescout/pricescout/internal/notify"
	"github.com/pricescout/pricescout/internal/store"
)

var countryCmd = &cobra.Command{
	Use:   "country",
	Short: "Show or change the price display country",
	Long:  "The selected country controls currency display. Unknown or unset values fall back to India (INR).",
}

// -- country show --

var countryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the selected country and the supported set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := initStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		code, err := st.SelectedCountry(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "country show")
		}

		formatCountries(os.Stdout, code)
		return nil
	},
}

// -- country set --

var countrySetCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Set the selected country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := strings.ToUpper(strings.TrimSpace(args[0]))
		if !currency.IsSupported(code) {
			return eris.Errorf("country set: unsupported country code %q, run 'pricescout country show' for the supported set", code)
		}

		st, err := initStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.SetSelectedCountry(cmd.Context(), code); err != nil {
			return eris.Wrap(err, "country set")
		}

		c := currency.CountryByCode(code)
		fmt.Printf("Selected country: %s %s (%s)\n", c.Flag, c.Name, c.CurrencyCode)
		return nil
	},
}

// -- country detect --

var countryDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the country from the network location",
	Long:  "Looks up approximate coordinates from the public IP, reverse-geocodes them, and stores the result. Falls back to the current selection when detection fails.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		loc, ok := geo.NewLocator().Detect(ctx)
		if !ok {
			fmt.Fprintln(os.Stderr, "Could not detect location; keeping the current selection.")
			return nil
		}

		bus := notify.NewBus()
		st, err := store.NewSQLite(cfg.Store.Path, bus)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		events, cancel := bus.Subscribe()
		defer cancel()

		if err := st.SetUserLocation(ctx, loc); err != nil {
			return eris.Wrap(err, "country detect")
		}

		// Only supported countries change the price display selection;
		// anything else resolves to the configured default.
		resolved := currency.CountryByCode(loc.CountryCode)
		if !currency.IsSupported(loc.CountryCode) {
			resolved = currency.CountryByCode(cfg.Locale.DefaultCountry)
		}
		if err := st.SetSelectedCountry(ctx, resolved.Code); err != nil {
			return eris.Wrap(err, "country detect")
		}

		// The badge renders off the broadcasts, same as any other listener.
		printLocationBadge(os.Stdout, events)
		return nil
	},
}

func init() {
	countryCmd.AddCommand(countryShowCmd)
	countryCmd.AddCommand(countrySetCmd)
	countryCmd.AddCommand(countryDetectCmd)
	rootCmd.AddCommand(countryCmd)
}

// printLocationBadge renders the detection outcome from the buffered
// broadcasts: the location line from the location event, the selection line
// from the country event.
func printLocationBadge(out io.Writer, events <-chan notify.Event) {
	for {
		select {
		case ev := <-events:
			switch ev.Topic {
			case notify.TopicLocationChanged:
				if ev.Location != nil {
					where := ev.Location.City
					if where == "" {
						where = ev.Location.Country
					}
					fmt.Fprintf(out, "Detected %s\n", where)
				}
			case notify.TopicCountryChanged:
				c := currency.CountryByCode(ev.CountryCode)
				fmt.Fprintf(out, "Selected country: %s %s (%s)\n", c.Flag, c.Name, c.CurrencyCode)
			}
		default:
			return
		}
	}
}

// formatCountries lists the supported countries, marking the selection.
func formatCountries(out io.Writer, selected string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tCODE\tCOUNTRY\tCURRENCY")
	_, _ = fmt.Fprintln(w, " \t----\t-------\t--------")

	for _, c := range currency.Countries() {
		marker := " "
		if c.Code == selected {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s %s\t%s (%s)\n",
			marker, c.Code, c.Flag, c.Name, c.CurrencyCode, c.CurrencySymbol)
	}
	_ = w.Flush()
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"papercal/internal/eventcsv"
	"papercal/internal/holidays"
	"papercal/internal/ics"
	"papercal/internal/model"
	"papercal/internal/recurrence"
)

func addEvents(topLevel *cobra.Command, o *options) {
	var groups []string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the events loaded from the configured CSV files and feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := o.renderer().Load(cmd.Context())
			if err != nil {
				return err
			}
			reportInputs(cmd.ErrOrStderr(), in)

			events := model.FilterByGroups(in.Events, groups)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Name"), bold.Sprint("Type"), bold.Sprint("When"), bold.Sprint("Groups"))
			for _, ev := range events {
				tbl.AddRow(ev.Name, string(ev.Type), when(ev), strings.Join(ev.Groups, ","))
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, tbl)
			_, _ = fmt.Fprintf(w, "%d events; groups: %s\n", len(events), strings.Join(model.Groups(in.Events), ", "))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&groups, "groups", "g", nil, "Only list events in these groups")
	topLevel.AddCommand(cmd)
}

func when(ev model.Event) string {
	if ev.Type == model.TypeRecurring {
		if ev.Recurrence == nil {
			return "?"
		}
		return recurrence.Format(*ev.Recurrence)
	}
	return fmt.Sprintf("%s %d", model.MonthAbbrev(ev.Month), ev.Day)
}

func addHolidays(topLevel *cobra.Command, o *options) {
	var year, month int
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the built-in holidays for a year or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("month %d out of range 1-12", month)
			}
			disabled := make(map[string]bool, len(o.cfg.Holidays.Disabled))
			for _, name := range o.cfg.Holidays.Disabled {
				disabled[strings.ToUpper(strings.TrimSpace(name))] = true
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Holiday"), "")
			for m := 1; m <= 12; m++ {
				if month != 0 && m != month {
					continue
				}
				for _, h := range holidays.ForMonth(holidays.Defaults, year, m, nil) {
					note := ""
					if disabled[h.Name] {
						note = warnColor.Sprint("disabled")
					}
					tbl.AddRow(fmt.Sprintf("%s %2d", model.MonthAbbrev(h.Month), h.Day), h.Name, note)
				}
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, tbl)

			// Rules without a date this year, e.g. lookup tables that end.
			var missing []string
			for _, name := range holidays.Names(holidays.Defaults) {
				if !hasDate(name, year) {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 && month == 0 {
				warnf(cmd.ErrOrStderr(), "no date in %d for: %s", year, strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: current year)")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "Only this month, 1-12")
	topLevel.AddCommand(cmd)
}

func hasDate(name string, year int) bool {
	for _, d := range holidays.Defaults {
		if d.Name == name {
			_, _, ok := d.Date(year)
			return ok
		}
	}
	return false
}

func addExport(topLevel *cobra.Command, o *options) {
	var (
		format string
		output string
		year   int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded events as CSV or ICS",
		Example: `
papercal export --format csv -o events.csv
papercal export --format ics --year 2026 > family.ics
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := o.renderer().Load(cmd.Context())
			if err != nil {
				return err
			}
			reportInputs(cmd.ErrOrStderr(), in)

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch strings.ToLower(format) {
			case "csv":
				err = eventcsv.Write(w, in.Events)
			case "ics":
				if year == 0 {
					year = time.Now().Year()
				}
				err = ics.Export(w, in.Events, year)
			default:
				return fmt.Errorf("unknown format %q (want csv or ics)", format)
			}
			if err != nil {
				return err
			}
			if output != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("wrote ")+output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or ics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Anchor year for ICS export (default: current year)")
	topLevel.AddCommand(cmd)
}

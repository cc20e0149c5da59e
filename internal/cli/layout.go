package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"papercal/internal/calendar"
	"papercal/internal/layout"
	"papercal/internal/pdf"
)

var weekdayHeads = [calendar.Cols]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func addLayout(topLevel *cobra.Command, o *options) {
	var mf monthFlags
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the layout plan of a month without writing a PDF",
		Long: `Print the grid cell by cell: days with their entries, the empty
cells that host overflow events, and the region reserved for the title.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := mf.request(cmd, time.Now())
			if err := req.Validate(); err != nil {
				return err
			}
			r := o.renderer()
			out, err := r.Render(cmd.Context(), req)
			if err != nil {
				return err
			}
			reportInputs(cmd.ErrOrStderr(), out.Inputs)

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, bold.Sprint(out.Document.Title))
			_, _ = fmt.Fprintln(w, planTable(out.Document.Plan))
			_, _ = fmt.Fprintln(w, summaryTable(out.Document))
			return nil
		},
	}
	mf.bind(cmd)
	topLevel.AddCommand(cmd)
}

// planTable lists every cell of the padded grid in reading order.
func planTable(p layout.Plan) *uitable.Table {
	overflow := make(map[layout.Position][]string, len(p.Overflow))
	for _, cell := range p.Overflow {
		for _, ev := range cell.Events {
			overflow[cell.Position] = append(overflow[cell.Position], pdf.FormatOverflowEvent(ev))
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Cell"), bold.Sprint("Day"), bold.Sprint("Contents"))
	for r, week := range p.Weeks {
		for c, slot := range week {
			cell := fmt.Sprintf("%d,%d %s", r, c, weekdayHeads[c])
			pos := layout.Position{Row: r, Col: c}
			switch {
			case slot != nil:
				tbl.AddRow(cell, strconv.Itoa(slot.Day), strings.Join(slotLines(slot), "; "))
			case len(overflow[pos]) > 0:
				tbl.AddRow(cell, "-", warnColor.Sprint("overflow: ")+strings.Join(overflow[pos], "; "))
			case p.Title.Contains(r, c):
				tbl.AddRow(cell, "-", "title")
			default:
				tbl.AddRow(cell, "-", "")
			}
		}
	}
	tbl.RightAlign(1)
	return tbl
}

func slotLines(slot *calendar.DaySlot) []string {
	var lines []string
	for _, h := range slot.Holidays {
		lines = append(lines, h.Name)
	}
	for _, ev := range slot.Events {
		lines = append(lines, pdf.FormatEvent(ev))
	}
	lines = append(lines, slot.RecurringEvents...)
	for _, mp := range slot.MoonPhases {
		lines = append(lines, pdf.FormatMoonPhase(mp.Kind))
	}
	return lines
}

func summaryTable(doc *pdf.Document) *uitable.Table {
	p := doc.Plan
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("rows:", strconv.Itoa(len(p.Weeks)))
	tbl.AddRow("overflow cells:", strconv.Itoa(len(p.Overflow)))
	dropped := make([]string, 0, len(p.Dropped))
	for _, ev := range p.Dropped {
		dropped = append(dropped, pdf.FormatOverflowEvent(ev))
	}
	if len(dropped) > 0 {
		tbl.AddRow("dropped:", warnColor.Sprint(strings.Join(dropped, "; ")))
	} else {
		tbl.AddRow("dropped:", "none")
	}
	if p.Title.Empty() {
		tbl.AddRow("title region:", "none")
	} else {
		tbl.AddRow("title region:", p.Title.String())
	}
	if doc.TitleFontSize > 0 {
		tbl.AddRow("title size:", strconv.FormatFloat(doc.TitleFontSize, 'f', 1, 64)+"pt")
	} else {
		tbl.AddRow("title size:", "not drawn")
	}
	return tbl
}

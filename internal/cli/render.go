package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"papercal/internal/pdf"
	"papercal/internal/pipeline"
)

// monthFlags selects the month for render and layout.
type monthFlags struct {
	year   int
	month  int
	title  string
	groups []string
}

func (m *monthFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&m.year, "year", "y", 0, "Year to render (default: current year)")
	cmd.Flags().IntVarP(&m.month, "month", "m", 0, "Month to render, 1-12 (default: current month)")
	cmd.Flags().StringVarP(&m.title, "title", "t", "", "Custom title placed before the month name (default: config title)")
	cmd.Flags().StringSliceVarP(&m.groups, "groups", "g", nil, "Only include events in these groups (default: config groups)")
}

func (m *monthFlags) request(cmd *cobra.Command, now time.Time) pipeline.Request {
	req := pipeline.Request{Year: m.year, Month: m.month, Title: m.title}
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if cmd.Flags().Changed("groups") {
		req.Groups = append([]string{}, m.groups...)
	}
	return req
}

func addRender(topLevel *cobra.Command, o *options) {
	var (
		mf     monthFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one month to a PDF",
		Example: `
papercal render
papercal render --year 2026 --month 2 --title "Smith Family"
papercal render -m 12 -g family,church -o december.pdf
`,
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
			stderr := cmd.ErrOrStderr()
			reportInputs(stderr, out.Inputs)
			for _, ev := range out.Document.Plan.Dropped {
				warnf(stderr, "no room for %s", pdf.FormatOverflowEvent(ev))
			}
			if out.Document.Title != "" && out.Document.TitleFontSize == 0 {
				warnf(stderr, "title %q not drawn, no free cells", out.Document.Title)
			}

			path := output
			if path == "" {
				path = filepath.Join(o.cfg.OutputDir, pdf.Filename(out.Document.Title))
			}
			if err := pdf.Save(out.Document, path); err != nil {
				return fmt.Errorf("save %s: %w", path, err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("wrote ")+path)
			return nil
		},
	}
	mf.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <output_dir>/<title>.pdf)")
	topLevel.AddCommand(cmd)
}

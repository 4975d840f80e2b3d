package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/services"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/store"
)

func newChartCmd() *cobra.Command {
	var uid, rng string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print a student's cumulative-hours series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := services.NewProgressService(
				store.NewParticipationStore(a.firestore),
				store.NewGoalStore(a.firestore),
				store.NewUserStore(a.firestore),
				nil,
				a.cfg.Location(),
			)
			chart, err := svc.GetChart(a.context(cmd.Context()), uid, rng)
			if err != nil {
				return err
			}
			return renderChart(cmd.OutOrStdout(), chart)
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "student uid")
	cmd.Flags().StringVar(&rng, "range", "1M", "1W, 1M, 6M, 1Y or all")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// renderChart prints one row per day, marking completion anchors and the goal deadline.
func renderChart(w io.Writer, chart *dto.ChartResponse) error {
	marks := map[string]string{}
	for _, a := range chart.Anchors {
		if marks[a.Date] != "" {
			marks[a.Date] += ", "
		}
		marks[a.Date] += a.Title
	}
	if chart.Goal != nil && chart.Goal.Marker != "" {
		if marks[chart.Goal.Marker] != "" {
			marks[chart.Goal.Marker] += ", "
		}
		marks[chart.Goal.Marker] += "goal deadline"
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Hours", "Notes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(chart.Points))
	for _, p := range chart.Points {
		data = append(data, []string{p.Date, formatHours(p.Hours), marks[p.Date]})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "range %s (%s to %s), current total %s hours", chart.Range, chart.Start, chart.End, formatHours(chart.CurrentTotalHours))
	if err != nil {
		return err
	}
	if chart.Goal != nil {
		_, err = fmt.Fprintf(w, ", goal %s hours", formatHours(chart.Goal.TargetHours))
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}

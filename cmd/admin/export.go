package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/services"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/store"
)

func newExportCmd() *cobra.Command {
	var out string

	export := &cobra.Command{Use: "export", Short: "Export records across all students as CSV"}
	export.PersistentFlags().StringVar(&out, "out", "", "output file (default stdout)")

	run := func(write func(ctx context.Context, svc exporter, w io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := services.NewExportService(
				store.NewUserStore(a.firestore),
				store.NewActivityStore(a.firestore),
				store.NewParticipationStore(a.firestore),
			)
			return writeTo(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return write(a.context(cmd.Context()), svc, w)
			})
		}
	}

	export.AddCommand(&cobra.Command{
		Use:   "participations",
		Short: "Export every hours log entry",
		RunE: run(func(ctx context.Context, svc exporter, w io.Writer) error {
			return svc.ExportParticipations(ctx, w)
		}),
	})
	export.AddCommand(&cobra.Command{
		Use:   "activities",
		Short: "Export every activity",
		RunE: run(func(ctx context.Context, svc exporter, w io.Writer) error {
			return svc.ExportActivities(ctx, w)
		}),
	})
	return export
}

type exporter interface {
	ExportParticipations(ctx context.Context, w io.Writer) error
	ExportActivities(ctx context.Context, w io.Writer) error
}

// writeTo sends output to path, or to fallback when path is empty.
func writeTo(path string, fallback io.Writer, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/spf13/cobra"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/bootstrap"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/config"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operator tools for the activity verifier backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExportCmd())
	root.AddCommand(newChartCmd())
	root.AddCommand(newGrantAdminCmd())
	return root
}

// app holds the clients a command needs; stdout is left to command output.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	firestore *firestore.Client
	auth      *auth.Client
}

func stderrHandler(level slog.Level) slog.Handler {
	return logger.NewCloudRunHandlerTo(os.Stderr, level)
}

func loadApp(ctx context.Context, withAuth bool) (*app, error) {
	cfg := config.New()
	a := &app{cfg: cfg, log: logger.New(cfg.LogLevel, stderrHandler)}

	var err error
	a.firestore, err = bootstrap.InitFirestore(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}
	if withAuth {
		a.auth, err = bootstrap.InitFirebase(ctx)
		if err != nil {
			_ = a.firestore.Close()
			return nil, fmt.Errorf("firebase auth: %w", err)
		}
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.firestore.Close(); err != nil {
		a.log.Error("close failed", "client", "firestore", "error", err)
	}
}

func (a *app) context(ctx context.Context) context.Context {
	return logger.ToContext(ctx, a.log)
}

// Package cli implements the eduhub command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/winmanuel/eduhub/internal/app"
	"github.com/winmanuel/eduhub/internal/config"
	"github.com/winmanuel/eduhub/internal/logger"
)

// Opener builds the application for one command run.
type Opener func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app.App, error)

type runtime struct {
	open Opener
	cfg  *config.Config
	log  zerolog.Logger
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand(app.New).ExecuteContext(ctx)
}

func NewRootCommand(open Opener) *cobra.Command {
	rt := &runtime{open: open}
	var initData, dropExisting bool

	root := &cobra.Command{
		Use:          "eduhub",
		Short:        "Provision, seed and report on the EduHub store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Observability, cfg.Primary.Env)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !initData {
				if dropExisting {
					rt.log.Warn().Msg("--drop only applies together with --init")
				}
				rt.log.Info().Msg("nothing to do; run with --init [--drop] or see --help for subcommands")
				return nil
			}
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return runInit(ctx, a, dropExisting)
			})
		},
	}

	root.Flags().BoolVar(&initData, "init", false, "create collections, insert sample data and export it")
	root.Flags().BoolVar(&dropExisting, "drop", false, "drop existing collections before --init")

	root.AddCommand(
		newReportCommand(rt),
		newExportCommand(rt),
		newExplainCommand(rt),
		newServeCommand(rt),
	)
	return root
}

// withApp opens the application, runs fn under the operation timeout and
// closes the application again.
func (rt *runtime) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	a, err := rt.open(cmd.Context(), rt.cfg, rt.log)
	if err != nil {
		rt.log.Error().Err(err).Msg("failed to start")
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			rt.log.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()

	ctx, cancel := a.OperationContext(cmd.Context())
	defer cancel()

	if err := fn(ctx, a); err != nil {
		rt.log.Error().Err(err).Str("command", cmd.Name()).Msg("command failed")
		return err
	}
	return nil
}

func runInit(ctx context.Context, a *app.App, dropExisting bool) error {
	seedCfg := a.Config.Seed
	result, err := a.Services.Setup().Init(ctx, dropExisting, app.SeedCounts(seedCfg), seedCfg.ExportDir)
	if result != nil && result.Seed != nil {
		a.Logger.Info().
			Str("users", result.Seed.Users.String()).
			Str("courses", result.Seed.Courses.String()).
			Str("enrollments", result.Seed.Enrollments.String()).
			Str("lessons", result.Seed.Lessons.String()).
			Str("assignments", result.Seed.Assignments.String()).
			Str("submissions", result.Seed.Submissions.String()).
			Msg("sample data inserted")
	}
	if err != nil {
		return err
	}

	a.Logger.Info().Str("dir", seedCfg.ExportDir).Msg("exported sample data")
	return nil
}

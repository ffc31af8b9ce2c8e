package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/winmanuel/eduhub/internal/app"
	"github.com/winmanuel/eduhub/internal/handlers"
	"github.com/winmanuel/eduhub/internal/repositories"
	"github.com/winmanuel/eduhub/internal/services"
)

const shutdownTimeout = 30 * time.Second

func newReportCommand(rt *runtime) *cobra.Command {
	var (
		limit    int
		xlsxPath string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the enrollment, grade and revenue reports as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				reports, _, err := services.Timed(ctx, a.Logger, "reports", func(ctx context.Context) (*services.Reports, error) {
					return a.Services.Report().All(ctx, limit)
				})
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
				if xlsxPath != "" {
					return a.Services.Export().ExportReportsToXLSX(ctx, xlsxPath, limit)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows per ranked report")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the reports to this XLSX file")
	return cmd
}

func newExportCommand(rt *runtime) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to sample_<collection>.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if dir == "" {
					dir = a.Config.Seed.ExportDir
				}
				counts, err := a.Services.Export().ExportAll(ctx, dir)
				for _, c := range repositories.Collections() {
					if n, ok := counts[c]; ok {
						fmt.Fprintf(cmd.OutOrStdout(), "%-12s %5d records\n", c, n)
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: seed export dir)")
	return cmd
}

func newExplainCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <collection> [field=value ...]",
		Short: "Show the query plan of an equality filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := repositories.ParseCollection(args[0])
			if err != nil {
				return err
			}
			filter, err := parseFilter(args[1:])
			if err != nil {
				return err
			}
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				plan, err := a.Services.Export().ExplainQuery(ctx, collection, filter)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), plan)
			})
		},
	}
}

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only report API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return serve(cmd.Context(), a)
		},
	}
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, a *app.App) error {
	router := handlers.NewRouter(a.Services, a.Config, a.Logger)
	server := handlers.NewServer(a.Config.Server, router)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// parseFilter turns field=value arguments into an equality filter. Values
// that parse as booleans or numbers are typed; quoting a value keeps it a
// string.
func parseFilter(args []string) (map[string]any, error) {
	filter := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, want field=value", arg)
		}
		filter[key] = parseValue(raw)
	}
	return filter, nil
}

func parseValue(raw string) any {
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return unquoted
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

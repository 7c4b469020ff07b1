package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/metrics"
	"nathanbeddoewebdev/dirctl/internal/reconcile"

	"github.com/spf13/cobra"
)

func WatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [users|groups]",
		Short: "Reconcile periodically until interrupted",
		Long: `Reconcile on a fixed interval until interrupted. Failed runs are logged
and retried on the next tick.

With --metrics-addr, Prometheus metrics are served at /metrics.

Examples:
  dirctl sync watch --interval 5m
  dirctl sync watch users --interval 1m --metrics-addr :9464`,
		Args:         cobra.MaximumNArgs(1),
		ValidArgs:    []string{"users", "groups"},
		RunE:         runWatch,
		SilenceUsage: true,
	}

	cmd.Flags().Duration("interval", 15*time.Minute, "Time between reconciliation rounds")
	cmd.Flags().String("metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9464)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	types, err := entityTypes(args)
	if err != nil {
		return err
	}
	interval, _ := cmd.Flags().GetDuration("interval")
	addr, _ := cmd.Flags().GetString("metrics-addr")

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(a.Context(cmd))
	defer cancel()

	errCh := make(chan error, 1)
	if addr != "" {
		srv := &http.Server{Addr: addr, Handler: metricsMux(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			a.Logger.Info().Str("addr", addr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Shutdown(shutdownCtx)
		}()
	}

	out := cmd.OutOrStdout()
	s := &reconcile.Scheduler{
		Reconciler: a.Reconciler,
		Types:      types,
		Interval:   interval,
		Logger:     &a.Logger,
		OnResult: func(et domain.EntityType, res *reconcile.Result, err error) {
			if err != nil {
				return
			}
			fmt.Fprintf(out, "%s  %s: %d total, %d updated\n",
				time.Now().Format(time.RFC3339), et.Plural(), res.Total, res.Updated)
		},
	}
	if err := s.Run(ctx); err != nil {
		return err
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

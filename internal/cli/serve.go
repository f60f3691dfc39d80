package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/tgschema/internal/api"
	"github.com/dgallion1/tgschema/internal/contract"
	"github.com/dgallion1/tgschema/internal/pipeline"
	"github.com/dgallion1/tgschema/internal/source"
)

func newServeCommand(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the build worker pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			if err := a.cfg.ValidateServe(); err != nil {
				return err
			}
			ln, err := net.Listen("tcp", ":"+a.cfg.Port)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context(), ln)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default PORT)")
	return cmd
}

// serve runs until ctx is cancelled, then drains the HTTP server and the
// worker pool.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	doc, err := contract.DocumentJSON()
	if err != nil {
		return err
	}

	client := source.NewClient(a.cfg.FetchTimeout, a.cfg.FetchMaxBytes)
	defer client.Close()

	orch := pipeline.NewOrchestrator(a.cfg, client, a.log)
	orch.Start(ctx)

	httpServer := &http.Server{
		Handler:      api.NewServer(orch, doc, a.log, a.cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("starting tgschema", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		orch.Stop()
		return err
	})
	return g.Wait()
}

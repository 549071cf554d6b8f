package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/pianov/clock"
	"github.com/jsphweid/pianov/server"
	"github.com/jsphweid/pianov/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveFile string

func init() {
	serveCmd.Flags().StringVar(&serveFile, "file", "", "file to load on startup")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves notes and keys over HTTP",
	Long:  `Serves notes and keys over HTTP`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	logger := log.WithFields(log.Fields{
		"function": "serve",
		"addr":     cfg.Addr,
	})

	st := store.New()
	if serveFile != "" {
		if _, err := st.LoadFile(serveFile); err != nil {
			return err
		}
	}

	clk := clock.New(cfg.Clock.Step, cfg.Clock.Interval)
	defer clk.Stop()

	s := server.New(ctx, st, clk, layout(), cfg.MediaDir)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	logger.Info("listening")

	select {
	case err := <-errs:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

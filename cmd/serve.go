package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienpequegnot/blogrank/internal/api"
	"github.com/julienpequegnot/blogrank/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rankings over HTTP",
	Long: `Starts the read-only HTTP API:

  GET  /api/v1/blogs/recommended?user=&page=&page_size=&published_only=&tags=
  GET  /api/v1/blogs/search/{query}?user=&page=&page_size=
  GET  /api/v1/blogs/{id}/score?user=
  POST /api/v1/likes/blogs/{id}?user=
  GET  /health
  GET  /metrics`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	log := logging.Component(a.log, "api")
	handler := api.NewServer(a.service(), a.users, a.blogs, api.Options{
		RequestsPerMinute: a.cfg.Server.RequestsPerMinute,
	}, log)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	log.Info().
		Str("addr", addr).
		Str("vectorizer", scorerOptions(a.cfg, log).Vectorizer.String()).
		Msg("blogrank server listening")
	fmt.Printf("Serving on http://%s. Press Ctrl+C to stop.\n", addr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

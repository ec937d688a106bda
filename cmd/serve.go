package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"salereport/events"
	"salereport/web"

	"github.com/spf13/cobra"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API with a live change feed",
	Long: `Start a local HTTP server exposing companies, categories, customers, sales reports,
imports, exports and audit logs as JSON endpoints.

Clients connected to /ws receive one event per successful change, for example
{"type":"customer_created","id":12,"action":"create"}.`,
	Example: `
  # Start local server on the configured port
  salereport serve

  # Start on a custom port with an explicit database
  salereport serve --port 9090 --db ./sales_report.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cfg, err := openApp()
		if err != nil {
			return err
		}
		defer application.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		logger := slog.Default()
		hub := events.NewHub(logger)
		application.SetPublisher(hub)

		server := &http.Server{
			Addr:              serveAddr(serveHost, port),
			Handler:           web.NewServer(application, hub, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		fmt.Printf("Listening on http://%s\n", server.Addr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func serveAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (overrides server.port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Interface to listen on")
}

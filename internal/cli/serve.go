package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/config"
	"github.com/mymcp/console/internal/metrics"
	"github.com/mymcp/console/internal/recorder"
	"github.com/mymcp/console/internal/toolstore"
	"github.com/mymcp/console/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web console",
	Long: `Start the local web console server.

Examples:
  mymcp-console serve              # Start on the configured port (default 8501)
  mymcp-console serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides MYMCP_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	var rec metrics.Recorder = metrics.NewNoop()
	if cfg.OTEL.Enabled {
		exporter, err := metrics.NewExporter(ctx, cfg.OTEL)
		if err != nil {
			log.Printf("metrics exporter unavailable, continuing without: %v", err)
		} else {
			rec = exporter
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := exporter.Shutdown(shutdownCtx); err != nil {
					log.Printf("metrics exporter shutdown: %v", err)
				}
			}()
		}
	}

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	gate := recorder.NewGate(client)
	lifecycle := recorder.NewLifecycle(client, gate, rec)
	catalog := recorder.NewCatalog(client)
	generator := recorder.NewGenerator(client, rec)
	tools := toolstore.New(cfg.ToolsDir)
	persister := recorder.NewPersister(client, tools, rec)

	log.Printf("backend API at %s", cfg.Backend.URL)
	server := web.NewServer(port, client, gate, lifecycle, catalog, generator, persister, tools, cfg.ExtensionDir)
	return server.Start(ctx)
}

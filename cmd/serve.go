package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/jobs"
	"github.com/ziadkadry99/docqa/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing document upload, ingestion, search,
question answering, history and reports as a JSON API, plus a WebSocket
chat endpoint at /api/ws/ask.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stderr)

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		warnNoLLM(a)

		cfg := a.Config()
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		root := cfg.Server.DocumentRoot
		if root == "" {
			if root, err = os.Getwd(); err != nil {
				return err
			}
		}

		jm := jobs.NewManager()
		defer jm.Shutdown()

		srv := server.New(server.Config{
			Port:         port,
			CORSOrigins:  cfg.Server.CORSOrigins,
			DocumentRoot: root,
		}, a, jm)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "Starting docqa server on http://localhost:%d\n", port)
		fmt.Fprintf(os.Stderr, "Path ingestion is limited to %s\n", root)
		if a.Processed() {
			fmt.Fprintf(os.Stderr, "Loaded index with %d chunk(s)\n", a.IndexStats().NumDocuments)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

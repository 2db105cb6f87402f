// Package main provides the entry point for the anime catalog web front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anicatalog/config"
	"anicatalog/logx"
	"anicatalog/services"
)

var (
	errInvalidID       = errors.New("id must be a positive integer")
	errUnknownFragment = errors.New("unknown fragment")
)

var (
	envFile  string
	logLevel string
	addr     string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "anicatalog",
	Short: "Anime catalog front end backed by the AniList GraphQL API",
	Long: `anicatalog serves a browsable anime catalog: a home page with trending,
seasonal, top rated and upcoming titles, detail pages, full search and
type-ahead suggestions, all rendered from AniList data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger, err = logx.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr != "" {
			cfg.Addr = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, newApp())
	},
}

var renderCmd = &cobra.Command{
	Use:   "render {home | detail ID | search TERM | suggest TERM}",
	Short: "Render a page fragment to stdout",
	Example: `  anicatalog render home
  anicatalog render detail 21
  anicatalog render suggest "cowboy bebop"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("requires a fragment name")
		}
		if args[0] == "home" {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 1 {
			arg = args[1]
		}
		html, err := newApp().renderFragment(cmd.Context(), args[0], arg)
		if errors.Is(err, errUnknownFragment) {
			return fmt.Errorf("%w %q", err, args[0])
		}
		// the fragment carries the user-facing message even when err is set
		fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides "+config.EnvAddr+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *App {
	anilist := services.NewAniListService(cfg.Endpoint, cfg.Timeout, logger.Named("anilist"))
	return NewApp(anilist, cfg, logger)
}

// serve runs the server until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, app *App) error {
	server := &http.Server{
		Addr:         app.cfg.Addr,
		Handler:      app.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

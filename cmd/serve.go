package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"prom_seating_console/app"
	"prom_seating_console/config"
	"prom_seating_console/logger"
	"prom_seating_console/routes"
)

type serveOptions struct {
	ConfigFile string
	EnvFile    string
	Addr       string
	LogLevel   string
}

func serveCmd() *cobra.Command {
	var opts serveOptions
	v := viper.New()
	var cmd = &cobra.Command{
		Use:          "serve",
		SilenceUsage: true,
		Short:        "run the console HTTP server",
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.ConfigFile, "config", "c", "", "optional YAML config file")
	fs.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.StringVarP(&opts.Addr, "addr", "a", "", "listen address, overrides ADDR")
	fs.StringVarP(&opts.LogLevel, "log-level", "l", "", "silent|debug|info|warning|error, overrides LOG_LEVEL")
	_ = v.BindPFlag("addr", fs.Lookup("addr"))
	_ = v.BindPFlag("log_level", fs.Lookup("log-level"))
	return cmd
}

func runServe(ctx context.Context, v *viper.Viper, opts serveOptions) error {
	config.LoadEnv(opts.EnvFile)
	cfg, err := config.Load(v, opts.ConfigFile)
	if err != nil {
		return err
	}
	logger.SetDefault(cfg.LogLevel, os.Stderr)
	log := logger.New("serve")

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()
	routes.RegisterRoutes(application.Router, application)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s, backend %s", cfg.Addr, cfg.BackendURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Command momu is a terminal client for the MOMU assessment API. It is one
// subscriber of the state machines in internal/; any other rendering layer
// could observe the same snapshots.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/catalog"
	"github.com/danielsouzza/momu-go/internal/config"
	"github.com/danielsouzza/momu-go/internal/credential"
	"github.com/danielsouzza/momu-go/internal/detail"
	"github.com/danielsouzza/momu-go/internal/role"
	"github.com/danielsouzza/momu-go/internal/session"
)

var (
	verbose bool
	baseURL string

	app *application
)

type application struct {
	cfg     config.Config
	logger  *zap.Logger
	store   credential.Store
	gateway *api.Client
	session *session.Session
	roles   *role.Context
	catalog *catalog.Catalog
	detail  *detail.Detail
	metrics *http.Server
}

var rootCmd = &cobra.Command{
	Use:           "momu",
	Short:         "momu views assessment results from the MOMU platform",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zapCfg.Build()
		if err != nil {
			return fmt.Errorf("logger init: %w", err)
		}

		cfg := config.Load()
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}

		var store credential.Store
		if cfg.RedisAddr != "" {
			store = credential.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		} else {
			store = credential.NewFileStore(cfg.CredentialDir)
		}

		gateway := api.NewClient(cfg.BaseURL, store, cfg.HTTPTimeout, logger)
		app = &application{
			cfg:     cfg,
			logger:  logger,
			store:   store,
			gateway: gateway,
			session: session.New(gateway, store, cfg.DeviceModel, logger),
			roles:   role.New(gateway, logger),
			catalog: catalog.New(gateway, logger),
			detail:  detail.New(gateway, logger),
		}
		if cfg.MetricsAddr != "" {
			app.metrics = startMetrics(cfg.MetricsAddr, logger)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app == nil {
			return
		}
		if app.metrics != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = app.metrics.Shutdown(shutdownCtx)
		}
		_ = app.logger.Sync()
	},
}

func startMetrics(addr string, logger *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server error", zap.Error(err))
		}
	}()
	return srv
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the API base URL")

	rootCmd.AddCommand(loginCmd, logoutCmd, rolesCmd, switchRoleCmd)
	rootCmd.AddCommand(assessmentsCmd, resultCmd, answersCmd, consolidatedCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Werneck0live/empresas-obrigacoes/internal/admin"
	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
	"github.com/Werneck0live/empresas-obrigacoes/internal/config"
	"github.com/Werneck0live/empresas-obrigacoes/internal/handlers"
	"github.com/Werneck0live/empresas-obrigacoes/internal/metrics"
	"github.com/Werneck0live/empresas-obrigacoes/internal/middleware"
)

// cmd/api/main.go
func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command_failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "api",
		Short:         "API de cadastro de empresas e obrigações acessórias",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
			config.InitLogger(cfg.LogLevel, "api")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "arquivo de configuração (yaml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "cria o schema e sobe o servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	// HOOK: admin jobs (one-off), encerram o processo sem subir HTTP
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "cria as tabelas/índices e sai",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cfg, func(b *backend) error {
				if err := b.migrate(cmd.Context()); err != nil {
					return err
				}
				slog.Info("migrate_done", "driver", cfg.DBDriver)
				return nil
			})
		},
	}
	seed := &cobra.Command{
		Use:   "seed",
		Short: "carrega empresas e obrigações de exemplo (idempotente)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cfg, func(b *backend) error {
				if err := b.migrate(cmd.Context()); err != nil {
					return err
				}
				_, err := admin.Seed(cmd.Context(), b.companies, b.obligations, slog.Default())
				return err
			})
		},
	}

	root.AddCommand(serve, migrate, seed)
	// sem subcomando = serve
	root.RunE = serve.RunE
	return root
}

func withBackend(cfg *config.Config, fn func(*backend) error) error {
	b, err := openBackend(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer b.close()
	return fn(b)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	slog.Info("starting", "port", cfg.Port, "driver", cfg.DBDriver, "delete_policy", cfg.DeletePolicy)

	b, err := openBackend(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer b.close()

	mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = b.migrate(mctx)
	cancel()
	if err != nil {
		return err
	}

	m := metrics.New()
	opts := handlers.Options{
		Validator:      handlers.NewValidator(cfg.StrictCNPJ),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         slog.Default(),
		OnPublish:      m.EventPublished,
	}

	// publisher (Rabbit) opcional
	if cfg.RabbitURI != "" {
		pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts.Publisher = pub
	} else {
		slog.Warn("rabbit_disabled", "reason", "RABBIT_URI vazio")
	}

	mux := handlers.NewRouter(handlers.RouterConfig{
		Companies:   b.companies,
		Obligations: b.obligations,
		Options:     opts,
		Pinger:      b.companies,
		Metrics:     m.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logging(slog.Default(), m)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("graceful shutdown error", "err", err)
		return err
	}
	slog.Info("stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
	"github.com/Werneck0live/empresas-obrigacoes/internal/config"
	"github.com/Werneck0live/empresas-obrigacoes/internal/middleware"
	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
	"github.com/Werneck0live/empresas-obrigacoes/internal/ws"
)

func main() {
	wscfg := config.LoadWSConfig()
	log := config.InitLogger(wscfg.LogLevel, "ws")

	hub := ws.NewHub(log)
	go hub.Run()

	// Conecta no Rabbit e começa a consumir
	cons, err := broker.NewConsumer(wscfg.RabbitURI, wscfg.RabbitQueue, "ws-consumer", wscfg.ConsumerPrefetch)
	if err != nil {
		log.Error("rabbit_consumer_start_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = cons.Close() }()
	log.Info("rabbit_consumer_started", "queue", wscfg.RabbitQueue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// encaminha mensagens do Rabbit para o hub
	go ws.Relay(ctx, cons.Deliveries, hub, log)

	// HTTP: /ws e /healthz
	mux := http.NewServeMux()
	mux.Handle("/ws", ws.Handler(hub, log))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "clients": hub.Len()})
	})

	srv := &http.Server{
		Addr:              wscfg.Addr,
		Handler:           skipUpgrade(mux, middleware.Logging(log, nil)(mux)),
		ReadHeaderTimeout: wscfg.ReadHeaderTimeout,
	}

	// O servidor é inicializado e começa a escutar na porta configurada
	go func() {
		log.Info("ws_listen", "addr", wscfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sctx, scancel := context.WithTimeout(context.Background(), wscfg.ShutdownTimeout)
	defer scancel()
	_ = srv.Shutdown(sctx)
	cancel()
	hub.Stop()

	log.Info("stopped")
}

// Se é upgrade para websocket, não embrulha o ResponseWriter (o Hijack some).
func skipUpgrade(raw, logged http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			raw.ServeHTTP(w, r)
			return
		}
		logged.ServeHTTP(w, r)
	})
}

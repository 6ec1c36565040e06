package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig reúne os stores e os extras opcionais do roteador.
type RouterConfig struct {
	Companies   CompanyStore
	Obligations ObligationStore
	Options

	Pinger  Pinger       // /healthz consulta o banco quando informado
	Metrics http.Handler // exposto em /metrics quando informado
}

func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", Health(cfg.Pinger))
	mux.Handle(companiesPath, NewCompanyHandler(cfg.Companies, cfg.Options))
	mux.Handle(obligationsPath, NewObligationHandler(cfg.Obligations, cfg.Options))
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}
	return mux
}

// Health responde 200 quando o banco responde ao ping e 503 caso contrário.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

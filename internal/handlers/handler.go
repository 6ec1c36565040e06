package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

type Publisher interface {
	Publish(ctx context.Context, ev broker.Event) error
}

// Options são as dependências comuns aos handlers de empresa e obrigação.
type Options struct {
	Publisher      Publisher // nil desliga as notificações
	Validator      *Validator
	RequestTimeout time.Duration
	Logger         *slog.Logger
	OnPublish      func(entity string, err error) // ex.: métricas
}

func (o Options) withDefaults() Options {
	if o.Validator == nil {
		o.Validator = NewValidator(false)
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) reqContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), o.RequestTimeout)
}

// publish notifica a mudança já confirmada no banco. Falha aqui só é logada:
// a escrita já foi feita e a resposta não muda.
func (o Options) publish(ev broker.Event) {
	if o.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := o.Publisher.Publish(ctx, ev)
	if err != nil {
		o.Logger.Warn("publish_failed", "entity", ev.Entity, "entity_id", ev.EntityID, "action", ev.Action, "err", err)
	}
	if o.OnPublish != nil {
		o.OnPublish(ev.Entity, err)
	}
}

func (o Options) storeError(w http.ResponseWriter, r *http.Request, err error, op string, m messages) {
	if !errors.Is(err, repository.ErrNotFound) {
		o.Logger.Warn("store_error",
			"op", op, "path", r.URL.Path, "err", err,
			"request_id", r.Header.Get("X-Request-ID"),
		)
	}
	writeStoreError(w, err, op, m)
}

// parseID extrai o {id} de /<prefix>/{id}. ok=false quando o path tem mais
// segmentos que o esperado (404); err != nil quando o id não é inteiro (422).
func parseID(path, prefix string) (id int64, ok bool, err error) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, true, err
	}
	return id, true, nil
}

func writeBadID(w http.ResponseWriter, param string) {
	utils.WriteDetail(w, http.StatusUnprocessableEntity, []FieldError{{
		Loc:  []string{"path", param},
		Msg:  "value is not a valid integer",
		Type: "int_parsing",
	}})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	utils.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func notFound(w http.ResponseWriter) {
	utils.WriteDetail(w, http.StatusNotFound, "Not Found")
}

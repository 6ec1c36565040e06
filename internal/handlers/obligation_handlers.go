package handlers

import (
	"context"
	"net/http"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

const obligationsPath = "/obrigacoes_acessorias/"

type ObligationStore interface {
	Create(ctx context.Context, o *models.Obligation) error
	List(ctx context.Context) ([]models.Obligation, error)
	GetByID(ctx context.Context, id int64) (*models.Obligation, error)
	Update(ctx context.Context, id int64, o *models.Obligation) (*models.Obligation, error)
	Delete(ctx context.Context, id int64) (*models.Obligation, error)
}

type ObligationHandler struct {
	Repo ObligationStore
	opts Options
}

func NewObligationHandler(repo ObligationStore, opts Options) *ObligationHandler {
	return &ObligationHandler{Repo: repo, opts: opts.withDefaults()}
}

// ServeHTTP atende /obrigacoes_acessorias/ e /obrigacoes_acessorias/{id}.
func (h *ObligationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == obligationsPath {
		h.Obligations(w, r)
		return
	}
	h.ObligationByID(w, r)
}

func (h *ObligationHandler) Obligations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {

	// lista completa, sem paginação
	case http.MethodGet:
		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		list, err := h.Repo.List(ctx)
		if err != nil {
			h.opts.storeError(w, r, err, "list", obligationMsgs)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	// create
	case http.MethodPost:
		var in ObligationInput
		if err := h.opts.Validator.Decode(r.Body, &in); err != nil {
			writeValidation(w, err)
			return
		}
		c := in.model()

		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		if err := h.Repo.Create(ctx, c); err != nil {
			h.opts.storeError(w, r, err, "create", obligationMsgs)
			return
		}

		h.opts.publish(broker.NewEvent(broker.ActionCreate, broker.EntityObligation, c.ID, c.Nome))
		utils.WriteJSON(w, http.StatusOK, c)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *ObligationHandler) ObligationByID(w http.ResponseWriter, r *http.Request) {
	id, ok, err := parseID(r.URL.Path, obligationsPath)
	if !ok {
		notFound(w)
		return
	}
	if err != nil {
		writeBadID(w, "obrigacao_id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		c, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			h.opts.storeError(w, r, err, "get", obligationMsgs)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	// PUT = replace completo; o id da rota prevalece
	case http.MethodPut:
		var in ObligationInput
		if err := h.opts.Validator.Decode(r.Body, &in); err != nil {
			writeValidation(w, err)
			return
		}

		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		c, err := h.Repo.Update(ctx, id, in.model())
		if err != nil {
			h.opts.storeError(w, r, err, "update", obligationMsgs)
			return
		}

		h.opts.publish(broker.NewEvent(broker.ActionUpdate, broker.EntityObligation, c.ID, c.Nome))
		utils.WriteJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		c, err := h.Repo.Delete(ctx, id)
		if err != nil {
			h.opts.storeError(w, r, err, "delete", obligationMsgs)
			return
		}

		h.opts.publish(broker.NewEvent(broker.ActionDelete, broker.EntityObligation, c.ID, c.Nome))
		utils.WriteJSON(w, http.StatusOK, c)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

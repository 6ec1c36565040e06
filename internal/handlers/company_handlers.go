package handlers

import (
	"context"
	"net/http"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

const companiesPath = "/empresas/"

type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	List(ctx context.Context) ([]models.Company, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	Update(ctx context.Context, id int64, c *models.Company) (*models.Company, error)
	Delete(ctx context.Context, id int64) (*models.Company, error)
}

type CompanyHandler struct {
	Repo CompanyStore
	opts Options
}

func NewCompanyHandler(repo CompanyStore, opts Options) *CompanyHandler {
	return &CompanyHandler{Repo: repo, opts: opts.withDefaults()}
}

// ServeHTTP atende /empresas/ (coleção) e /empresas/{id}.
func (h *CompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == companiesPath {
		h.Companies(w, r)
		return
	}
	h.CompanyByID(w, r)
}

func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {

	// lista completa, sem paginação
	case http.MethodGet:
		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		list, err := h.Repo.List(ctx)
		if err != nil {
			h.opts.storeError(w, r, err, "list", companyMsgs)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	// create
	case http.MethodPost:
		var in CompanyInput
		if err := h.opts.Validator.Decode(r.Body, &in); err != nil {
			writeValidation(w, err)
			return
		}
		c := in.model()

		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		if err := h.Repo.Create(ctx, c); err != nil {
			h.opts.storeError(w, r, err, "create", companyMsgs)
			return
		}

		h.opts.publish(broker.NewEvent(broker.ActionCreate, broker.EntityCompany, c.ID, c.Label()))
		utils.WriteJSON(w, http.StatusOK, c)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *CompanyHandler) CompanyByID(w http.ResponseWriter, r *http.Request) {
	id, ok, err := parseID(r.URL.Path, companiesPath)
	if !ok {
		notFound(w)
		return
	}
	if err != nil {
		writeBadID(w, "empresa_id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		c, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			h.opts.storeError(w, r, err, "get", companyMsgs)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	// PUT = replace completo; o id da rota prevalece
	case http.MethodPut:
		var in CompanyInput
		if err := h.opts.Validator.Decode(r.Body, &in); err != nil {
			writeValidation(w, err)
			return
		}

		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		c, err := h.Repo.Update(ctx, id, in.model())
		if err != nil {
			h.opts.storeError(w, r, err, "update", companyMsgs)
			return
		}

		h.opts.publish(broker.NewEvent(broker.ActionUpdate, broker.EntityCompany, c.ID, c.Label()))
		utils.WriteJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		ctx, cancel := h.opts.reqContext(r)
		defer cancel()
		c, err := h.Repo.Delete(ctx, id)
		if err != nil {
			h.opts.storeError(w, r, err, "delete", companyMsgs)
			return
		}

		h.opts.publish(broker.NewEvent(broker.ActionDelete, broker.EntityCompany, c.ID, c.Label()))
		utils.WriteJSON(w, http.StatusOK, c)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

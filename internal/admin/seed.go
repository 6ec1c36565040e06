package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

//go:embed seeds/empresas.json
var empresasJSON []byte

type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	List(ctx context.Context) ([]models.Company, error)
}

type ObligationStore interface {
	Create(ctx context.Context, o *models.Obligation) error
	List(ctx context.Context) ([]models.Obligation, error)
}

type seedObligation struct {
	Nome          string `json:"nome"`
	Periodicidade string `json:"periodicidade"`
}

type seedItem struct {
	Nome       string           `json:"nome"`
	CNPJ       string           `json:"cnpj"`
	Endereco   *string          `json:"endereco"`
	Email      *string          `json:"email"`
	Telefone   *string          `json:"telefone"`
	Obrigacoes []seedObligation `json:"obrigacoes"`
}

// SeedResult conta o que foi feito numa execução do seed.
type SeedResult struct {
	Created     int
	Existing    int
	Invalid     int
	Obligations int
}

// Idempotente: cria o que falta. Empresa com CNPJ já cadastrado não é
// recriada, mas recebe as obrigações do seed que ainda não tiver (por nome),
// o que completa uma execução anterior interrompida no meio.
func Seed(ctx context.Context, companies CompanyStore, obligations ObligationStore, log *slog.Logger) (SeedResult, error) {
	return seedFrom(ctx, empresasJSON, companies, obligations, log)
}

func seedFrom(ctx context.Context, raw []byte, companies CompanyStore, obligations ObligationStore, log *slog.Logger) (SeedResult, error) {
	var res SeedResult
	if log == nil {
		log = slog.Default()
	}

	var items []seedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return res, err
	}

	for _, s := range items {
		cnpj := utils.SanitizeCNPJ(s.CNPJ)
		if !utils.ValidateCNPJ(cnpj) {
			log.Warn("seed_skip_invalid_cnpj", "raw", s.CNPJ)
			res.Invalid++
			continue
		}

		c := models.Company{
			Nome:     s.Nome,
			CNPJ:     cnpj,
			Endereco: s.Endereco,
			Email:    s.Email,
			Telefone: s.Telefone,
		}

		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := companies.Create(ictx, &c)
		cancel()

		switch {
		case err == nil:
			res.Created++
			log.Info("seed_company_created", "cnpj", cnpj, "id", c.ID)
		case errors.Is(err, repository.ErrDuplicateCNPJ):
			existing, ferr := findByCNPJ(ctx, companies, cnpj)
			if ferr != nil {
				return res, ferr
			}
			c = *existing
			res.Existing++
			log.Info("seed_company_exists", "cnpj", cnpj, "id", c.ID)
		default:
			return res, err
		}

		have, err := obligationNames(ctx, obligations, c.ID)
		if err != nil {
			return res, err
		}
		for _, so := range s.Obrigacoes {
			if have[so.Nome] {
				continue
			}
			o := models.Obligation{Nome: so.Nome, Periodicidade: so.Periodicidade, EmpresaID: &c.ID}
			ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := obligations.Create(ictx, &o)
			cancel()
			if err != nil {
				return res, err
			}
			have[so.Nome] = true
			res.Obligations++
		}
	}

	log.Info("seed_done", "companies", len(items), "created", res.Created, "existing", res.Existing, "obligations", res.Obligations)
	return res, nil
}

func findByCNPJ(ctx context.Context, companies CompanyStore, cnpj string) (*models.Company, error) {
	list, err := companies.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].CNPJ == cnpj {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("empresa %s: %w", cnpj, repository.ErrNotFound)
}

// obligationNames devolve os nomes das obrigações já ligadas à empresa.
func obligationNames(ctx context.Context, obligations ObligationStore, empresaID int64) (map[string]bool, error) {
	names := map[string]bool{}
	list, err := obligations.List(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return names, nil
	}
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		if o.EmpresaID != nil && *o.EmpresaID == empresaID {
			names[o.Nome] = true
		}
	}
	return names, nil
}

package handlers

import "github.com/Werneck0live/empresas-obrigacoes/internal/models"

// somente os campos do contrato; id vem da rota, nunca do corpo.
// O mesmo shape serve para POST e PUT (substituição completa).
type CompanyInput struct {
	Nome     string  `json:"nome" validate:"required"`
	CNPJ     string  `json:"cnpj" validate:"required,cnpj"`
	Endereco *string `json:"endereco"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telefone *string `json:"telefone"`
}

func (in CompanyInput) model() *models.Company {
	return &models.Company{
		Nome:     in.Nome,
		CNPJ:     in.CNPJ,
		Endereco: in.Endereco,
		Email:    in.Email,
		Telefone: in.Telefone,
	}
}

// EmpresaID é ponteiro para distinguir "omitido/null" de um valor informado.
type ObligationInput struct {
	Nome          string `json:"nome" validate:"required"`
	Periodicidade string `json:"periodicidade" validate:"required"`
	EmpresaID     *int64 `json:"empresa_id" validate:"required"`
}

func (in ObligationInput) model() *models.Obligation {
	return &models.Obligation{
		Nome:          in.Nome,
		Periodicidade: in.Periodicidade,
		EmpresaID:     in.EmpresaID,
	}
}

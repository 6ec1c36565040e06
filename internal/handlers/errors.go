package handlers

import (
	"errors"
	"net/http"

	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

// mensagens por entidade, no texto que os clientes da API já recebem
type messages struct {
	notFound     string
	listEmpty    string
	failureNoun  string // "empresa", "obrigação acessória"
	unknownOwner string
}

var (
	companyMsgs = messages{
		notFound:    "Empresa não encontrada.",
		listEmpty:   "Nenhuma empresa encontrada.",
		failureNoun: "empresa",
	}
	obligationMsgs = messages{
		notFound:     "Obrigação não encontrada.",
		listEmpty:    "Nenhuma obrigação acessória encontrada.",
		failureNoun:  "obrigação acessória",
		unknownOwner: "Empresa informada não existe.",
	}
)

const (
	msgDuplicateCNPJ = "CNPJ já cadastrado. Utilize outro CNPJ."
	msgCompanyInUse  = "Empresa possui obrigações acessórias vinculadas e não pode ser excluída."
)

var verbs = map[string]string{
	"create": "criar",
	"update": "atualizar",
	"delete": "excluir",
	"list":   "listar",
	"get":    "buscar",
}

// writeValidation responde 422 com a lista de campos inválidos.
func writeValidation(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		utils.WriteDetail(w, http.StatusUnprocessableEntity, verr.Fields)
		return
	}
	utils.WriteDetail(w, http.StatusUnprocessableEntity, []FieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}})
}

// writeStoreError traduz os erros do repositório em status HTTP. Toda falha
// vira resposta ao cliente; nenhuma derruba o processo.
func writeStoreError(w http.ResponseWriter, err error, op string, m messages) {
	var pe *repository.PersistenceError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if op == "list" {
			utils.WriteDetail(w, http.StatusNotFound, m.listEmpty)
			return
		}
		utils.WriteDetail(w, http.StatusNotFound, m.notFound)
	case errors.Is(err, repository.ErrDuplicateCNPJ):
		utils.WriteDetail(w, http.StatusBadRequest, msgDuplicateCNPJ)
	case errors.Is(err, repository.ErrUnknownCompany):
		utils.WriteDetail(w, http.StatusBadRequest, m.unknownOwner)
	case errors.Is(err, repository.ErrCompanyInUse):
		utils.WriteDetail(w, http.StatusConflict, msgCompanyInUse)
	case errors.As(err, &pe):
		utils.WriteDetail(w, http.StatusBadRequest, "Erro ao "+verbs[op]+" "+m.failureNoun+": "+pe.Err.Error())
	default:
		utils.WriteDetail(w, http.StatusBadRequest, "Erro ao "+verbs[op]+" "+m.failureNoun+": "+err.Error())
	}
}

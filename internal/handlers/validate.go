package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/empresas-obrigacoes/internal/utils"
)

// FieldError segue o formato de erro de validação que os clientes já conhecem:
// {"loc": ["body", "email"], "msg": "...", "type": "..."}.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError agrupa os problemas encontrados antes da persistência.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, strings.Join(f.Loc, ".")+": "+f.Msg)
	}
	return strings.Join(msgs, "; ")
}

type Validator struct {
	v *validator.Validate
}

// NewValidator monta o validador. Com strictCNPJ o campo cnpj precisa ter
// dígitos verificadores válidos; sem ele qualquer texto não vazio é aceito.
func NewValidator(strictCNPJ bool) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		if !strictCNPJ {
			return true
		}
		return utils.ValidateCNPJ(utils.SanitizeCNPJ(fl.Field().String()))
	})
	return &Validator{v: v}
}

// Decode lê o corpo (estrito: sem campos desconhecidos nem JSON extra) e
// valida as tags da struct.
func (val *Validator) Decode(r io.Reader, dst any) error {
	if err := utils.DecodeStrict(r, dst); err != nil {
		return decodeError(err)
	}
	err := val.v.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  fieldMessage(fe),
			Type: fe.Tag(),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "cnpj":
		return "value is not a valid CNPJ"
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}

func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Fields: []FieldError{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  "expected " + typeErr.Type.String() + ", got " + typeErr.Value,
			Type: "type_error",
		}}}
	}
	if errors.Is(err, io.EOF) {
		return &ValidationError{Fields: []FieldError{{Loc: []string{"body"}, Msg: "body required", Type: "missing"}}}
	}
	kind := "json_invalid"
	if strings.HasPrefix(err.Error(), "json: unknown field") {
		kind = "extra_forbidden"
	}
	return &ValidationError{Fields: []FieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: kind}}}
}

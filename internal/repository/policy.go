package repository

import "fmt"

// DeletePolicy define o que acontece com as obrigações de uma empresa excluída.
type DeletePolicy string

const (
	Restrict DeletePolicy = "restrict"
	Cascade  DeletePolicy = "cascade"
	SetNull  DeletePolicy = "set-null"
)

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(s); p {
	case Restrict, Cascade, SetNull:
		return p, nil
	case "":
		return Restrict, nil
	}
	return "", fmt.Errorf("invalid delete policy %q (want restrict, cascade or set-null)", s)
}

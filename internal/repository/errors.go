package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateCNPJ  = errors.New("cnpj already exists")
	ErrUnknownCompany = errors.New("empresa_id does not reference an existing company")
	ErrCompanyInUse   = errors.New("company still has obligations")
)

// PersistenceError é qualquer outra falha do banco. Op identifica a operação
// (create, update, delete...) para compor a mensagem devolvida ao cliente.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// códigos SQLSTATE do postgres
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify converte erros do driver nos sentinelas do pacote.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCompanyInUse),
		errors.Is(err, ErrDuplicateCNPJ), errors.Is(err, ErrUnknownCompany):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicateCNPJ
	case isForeignKeyViolation(err):
		return ErrUnknownCompany
	}
	return &PersistenceError{Op: op, Err: err}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

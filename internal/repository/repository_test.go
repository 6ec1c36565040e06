package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Werneck0live/empresas-obrigacoes/internal/db"
	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := db.OpenGorm(db.DriverSQLite, path, db.PoolOptions{}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.CloseGorm(gdb) })
	return gdb
}

func strPtr(s string) *string { return &s }

func newCompany(cnpj string) *models.Company {
	return &models.Company{
		Nome:     "Empresa " + cnpj,
		CNPJ:     cnpj,
		Endereco: strPtr("Rua Teste, 123"),
		Email:    strPtr("contato@empresa.com"),
	}
}

func countCompanies(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&models.Company{}).Count(&n).Error)
	return n
}

func TestCompanyRepository_CreateAssignsFreshIDs(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t), Restrict)
	ctx := context.Background()

	a := newCompany("12345678000100")
	a.ID = 99 // ignorado
	require.NoError(t, repo.Create(ctx, a))
	b := newCompany("98765432000100")
	require.NoError(t, repo.Create(ctx, b))

	assert.NotZero(t, a.ID)
	assert.NotZero(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCompanyRepository_DuplicateCNPJLeavesStoreUnchanged(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewCompanyRepository(gdb, Restrict)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newCompany("12345678000100")))
	before := countCompanies(t, gdb)

	err := repo.Create(ctx, newCompany("12345678000100"))
	assert.ErrorIs(t, err, ErrDuplicateCNPJ)
	assert.Equal(t, before, countCompanies(t, gdb))
}

func TestCompanyRepository_GetAndListRoundTrip(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t), Restrict)
	ctx := context.Background()

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "empty table lists as not found")

	c := newCompany("12345678000100")
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Nome, got.Nome)
	assert.Equal(t, c.CNPJ, got.CNPJ)
	assert.Equal(t, c.Email, got.Email)
	assert.Nil(t, got.Telefone)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	_, err = repo.GetByID(ctx, c.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRepository_UpdateReplacesAllFields(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t), Restrict)
	ctx := context.Background()

	c := newCompany("12345678000100")
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Update(ctx, c.ID, &models.Company{Nome: "Empresa Atualizada", CNPJ: "98765432000101"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Empresa Atualizada", got.Nome)
	assert.Equal(t, "98765432000101", got.CNPJ)
	assert.Nil(t, got.Endereco, "full replace clears omitted optional fields")
	assert.Nil(t, got.Email)

	stored, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestCompanyRepository_UpdateMissingNeverCreates(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewCompanyRepository(gdb, Restrict)

	_, err := repo.Update(context.Background(), 42, newCompany("12345678000100"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, countCompanies(t, gdb))
}

func TestCompanyRepository_UpdateDuplicateCNPJRollsBack(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t), Restrict)
	ctx := context.Background()

	a := newCompany("11111111000100")
	b := newCompany("22222222000100")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	_, err := repo.Update(ctx, b.ID, &models.Company{Nome: "Outro", CNPJ: a.CNPJ})
	assert.ErrorIs(t, err, ErrDuplicateCNPJ)

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Nome, stored.Nome)
	assert.Equal(t, b.CNPJ, stored.CNPJ)
}

func TestCompanyRepository_DeleteThenGet(t *testing.T) {
	repo := NewCompanyRepository(newTestDB(t), Restrict)
	ctx := context.Background()

	c := newCompany("12345678000100")
	require.NoError(t, repo.Create(ctx, c))

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)
	assert.Equal(t, c.Nome, deleted.Nome)

	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRepository_DeletePolicies(t *testing.T) {
	tests := []struct {
		name    string
		policy  DeletePolicy
		wantErr error
		check   func(t *testing.T, obligations *ObligationRepository, oblID int64)
	}{
		{
			name:    "restrict keeps company and obligation",
			policy:  Restrict,
			wantErr: ErrCompanyInUse,
			check: func(t *testing.T, obligations *ObligationRepository, oblID int64) {
				o, err := obligations.GetByID(context.Background(), oblID)
				require.NoError(t, err)
				assert.NotNil(t, o.EmpresaID)
			},
		},
		{
			name:   "cascade removes obligations",
			policy: Cascade,
			check: func(t *testing.T, obligations *ObligationRepository, oblID int64) {
				_, err := obligations.GetByID(context.Background(), oblID)
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name:   "set-null orphans obligations",
			policy: SetNull,
			check: func(t *testing.T, obligations *ObligationRepository, oblID int64) {
				o, err := obligations.GetByID(context.Background(), oblID)
				require.NoError(t, err)
				assert.Nil(t, o.EmpresaID)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gdb := newTestDB(t)
			companies := NewCompanyRepository(gdb, tc.policy)
			obligations := NewObligationRepository(gdb)
			ctx := context.Background()

			c := newCompany("12345678000100")
			require.NoError(t, companies.Create(ctx, c))
			o := &models.Obligation{Nome: "DCTF", Periodicidade: "mensal", EmpresaID: &c.ID}
			require.NoError(t, obligations.Create(ctx, o))

			_, err := companies.Delete(ctx, c.ID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				_, getErr := companies.GetByID(ctx, c.ID)
				assert.NoError(t, getErr)
			} else {
				assert.NoError(t, err)
			}
			tc.check(t, obligations, o.ID)
		})
	}
}

func TestObligationRepository_CRUD(t *testing.T) {
	gdb := newTestDB(t)
	companies := NewCompanyRepository(gdb, Restrict)
	repo := NewObligationRepository(gdb)
	ctx := context.Background()

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	c := newCompany("12345678000100")
	require.NoError(t, companies.Create(ctx, c))

	o := &models.Obligation{Nome: "Obrigação Teste", Periodicidade: "Mensal", EmpresaID: &c.ID}
	require.NoError(t, repo.Create(ctx, o))
	assert.NotZero(t, o.ID)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	upd, err := repo.Update(ctx, o.ID, &models.Obligation{Nome: "Obrigação Atualizada", Periodicidade: "Anual", EmpresaID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, o.ID, upd.ID)
	assert.Equal(t, "Anual", upd.Periodicidade)

	_, err = repo.Update(ctx, o.ID+1, upd)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := repo.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obrigação Atualizada", deleted.Nome)

	_, err = repo.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObligationRepository_UnknownCompany(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewObligationRepository(gdb)
	ctx := context.Background()

	missing := int64(404)
	err := repo.Create(ctx, &models.Obligation{Nome: "ECD", Periodicidade: "anual", EmpresaID: &missing})
	assert.ErrorIs(t, err, ErrUnknownCompany)

	var n int64
	require.NoError(t, gdb.Model(&models.Obligation{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify("create", nil))
	assert.ErrorIs(t, classify("get", gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, classify("create", gorm.ErrDuplicatedKey), ErrDuplicateCNPJ)
	assert.ErrorIs(t, classify("create", gorm.ErrForeignKeyViolated), ErrUnknownCompany)
	assert.ErrorIs(t, classify("create", errors.New("UNIQUE constraint failed: empresas.cnpj")), ErrDuplicateCNPJ)

	boom := errors.New("boom")
	err := classify("update", boom)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "update", pe.Op)
	assert.ErrorIs(t, err, boom)
}

func TestParseDeletePolicy(t *testing.T) {
	for in, want := range map[string]DeletePolicy{"": Restrict, "restrict": Restrict, "cascade": Cascade, "set-null": SetNull} {
		got, err := ParseDeletePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDeletePolicy("orphan")
	assert.Error(t, err)
}

package admin

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/empresas-obrigacoes/internal/db"
	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
)

func TestSeed_Idempotent(t *testing.T) {
	gdb, err := db.OpenGorm(db.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"), db.PoolOptions{}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.CloseGorm(gdb) })

	companies := repository.NewCompanyRepository(gdb, repository.Restrict)
	obligations := repository.NewObligationRepository(gdb)
	ctx := context.Background()

	res, err := Seed(ctx, companies, obligations, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 2, Invalid: 1, Obligations: 6}, res)

	// segunda execução não duplica nada
	res, err = Seed(ctx, companies, obligations, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Existing: 2, Invalid: 1}, res)

	var n int64
	require.NoError(t, gdb.Model(&models.Obligation{}).Count(&n).Error)
	assert.EqualValues(t, 6, n)

	list, err := companies.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "11222333000181", list[0].CNPJ)
	assert.Nil(t, list[1].Telefone)
}

// falha depois de n criações, como um banco que cai no meio do seed
type flakyObligations struct {
	*repository.ObligationRepository
	left int
}

func (f *flakyObligations) Create(ctx context.Context, o *models.Obligation) error {
	if f.left == 0 {
		return errors.New("connection reset")
	}
	f.left--
	return f.ObligationRepository.Create(ctx, o)
}

func TestSeed_ResumesAfterPartialFailure(t *testing.T) {
	gdb, err := db.OpenGorm(db.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"), db.PoolOptions{}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.CloseGorm(gdb) })

	companies := repository.NewCompanyRepository(gdb, repository.Restrict)
	obligations := repository.NewObligationRepository(gdb)
	ctx := context.Background()

	// a primeira empresa entra com só 1 das 3 obrigações
	_, err = Seed(ctx, companies, &flakyObligations{ObligationRepository: obligations, left: 1}, nil)
	require.Error(t, err)

	res, err := Seed(ctx, companies, obligations, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 1, Existing: 1, Invalid: 1, Obligations: 5}, res)

	list, err := obligations.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 6)
	names := map[string]int{}
	for _, o := range list {
		names[o.Nome]++
	}
	for name, n := range names {
		assert.Equal(t, 1, n, name)
	}
}

func TestSeed_InvalidJSON(t *testing.T) {
	_, err := seedFrom(context.Background(), []byte(`{`), nil, nil, nil)
	assert.Error(t, err)
}

package broker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent(ActionCreate, EntityCompany, 7, "Nova Empresa")

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "Cadastro de EMPRESA Nova Empresa", ev.Message)
	assert.Equal(t, int64(7), ev.EntityID)

	h := ev.headers()
	assert.Equal(t, "cadastro", h["action"])
	assert.Equal(t, "empresa", h["entity"])
	require.NoError(t, h.Validate())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"entity":"empresa"`)

	del := NewEvent(ActionDelete, EntityObligation, 3, "DCTF")
	assert.Equal(t, "Exclusão de OBRIGAÇÃO ACESSÓRIA DCTF", del.Message)
	assert.NotEqual(t, ev.ID, del.ID)
}

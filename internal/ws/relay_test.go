package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
)

func TestEntityOf(t *testing.T) {
	ev := broker.NewEvent(broker.ActionCreate, broker.EntityObligation, 1, "DCTF")
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	assert.Equal(t, "empresa", entityOf(amqp.Delivery{Headers: amqp.Table{"entity": "empresa"}, Body: body}, slogDiscard()))
	assert.Equal(t, broker.EntityObligation, entityOf(amqp.Delivery{Body: body}, slogDiscard()))
	assert.Equal(t, "", entityOf(amqp.Delivery{Body: []byte("texto solto")}, slogDiscard()))
}

func TestRelay_ForwardsUntilClosed(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	c := &Client{Entity: broker.EntityCompany, Send: make(chan []byte, 1)}
	h.Register(c)

	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Headers: amqp.Table{"entity": broker.EntityObligation}, Body: []byte("o")}
	deliveries <- amqp.Delivery{Headers: amqp.Table{"entity": broker.EntityCompany}, Body: []byte("e")}
	close(deliveries)

	done := make(chan struct{})
	go func() {
		Relay(context.Background(), deliveries, h, nil)
		close(done)
	}()

	assert.Equal(t, "e", string(recv(t, c, "c")))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Relay não terminou com o canal fechado")
	}
}

func slogDiscard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
)

// Relay encaminha as notificações consumidas do Rabbit para o hub até o
// canal fechar ou o ctx ser cancelado. A entidade vem do header "entity" e,
// na falta dele, do próprio corpo do evento.
func Relay(ctx context.Context, deliveries <-chan amqp.Delivery, hub *Hub, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Warn("deliveries_channel_closed")
				return
			}
			hub.Broadcast(entityOf(d, log), d.Body)
		}
	}
}

func entityOf(d amqp.Delivery, log *slog.Logger) string {
	if e, ok := d.Headers["entity"].(string); ok && e != "" {
		return e
	}
	var ev broker.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Warn("relay_invalid_event", "err", err, "message_id", d.MessageId)
		return ""
	}
	return ev.Entity
}

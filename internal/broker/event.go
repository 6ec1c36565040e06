package broker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Action string

const (
	ActionCreate Action = "cadastro"
	ActionUpdate Action = "edicao"
	ActionDelete Action = "exclusao"
)

const (
	EntityCompany    = "empresa"
	EntityObligation = "obrigacao_acessoria"
)

// Event é a notificação de mudança publicada após cada escrita confirmada.
type Event struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Nome      string    `json:"nome"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

var actionLabel = map[Action]string{
	ActionCreate: "Cadastro",
	ActionUpdate: "Edição",
	ActionDelete: "Exclusão",
}

var entityLabel = map[string]string{
	EntityCompany:    "EMPRESA",
	EntityObligation: "OBRIGAÇÃO ACESSÓRIA",
}

func NewEvent(action Action, entity string, id int64, nome string) Event {
	return Event{
		ID:        uuid.NewString(),
		Action:    action,
		Entity:    entity,
		EntityID:  id,
		Nome:      nome,
		Message:   fmt.Sprintf("%s de %s %s", actionLabel[action], entityLabel[entity], nome),
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) headers() amqp.Table {
	return amqp.Table{
		"action":    string(e.Action),
		"entity":    e.Entity,
		"entity_id": e.EntityID,
		"nome":      e.Nome,
		"timestamp": e.Timestamp.Format(time.RFC3339),
	}
}

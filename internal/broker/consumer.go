package broker

import (
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer lê a mesma fila durável em que o Publisher escreve.
type Consumer struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	Deliveries <-chan amqp.Delivery
}

func NewConsumer(uri, queue, tag string, prefetch int) (*Consumer, error) {
	conn, ch, err := open(uri, queue)
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*Consumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			return fail(err)
		}
	}

	// auto-ack: notificação perdida não é reprocessada
	deliveries, err := ch.Consume(queue, tag, true, false, false, false, nil)
	if err != nil {
		return fail(err)
	}
	return &Consumer{conn: conn, ch: ch, Deliveries: deliveries}, nil
}

func (c *Consumer) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}

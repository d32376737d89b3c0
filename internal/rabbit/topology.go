package rabbit

import amqp "github.com/rabbitmq/amqp091-go"

const (
	ExchangeEvents = "storefront.events"
	ExchangeDLX    = "storefront.dlx"
)

func DeclareBase(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeEvents, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	return ch.ExchangeDeclare(ExchangeDLX, "topic", true, false, false, false, nil)
}

// QueueSpec declares a durable queue bound to ExchangeEvents.
// Prefetch is a consumer concern; Consumer.Consume sets it.
type QueueSpec struct {
	Name     string
	BindKeys []string // routing keys bound to ExchangeEvents
	DLQ      string   // dlq routing key / queue name
}

func DeclareQueueWithDLQ(ch *amqp.Channel, q QueueSpec) error {
	args := amqp.Table{}
	if q.DLQ != "" {
		args["x-dead-letter-exchange"] = ExchangeDLX
		args["x-dead-letter-routing-key"] = q.DLQ
	}

	qq, err := ch.QueueDeclare(q.Name, true, false, false, false, args)
	if err != nil {
		return err
	}

	for _, key := range q.BindKeys {
		if err := ch.QueueBind(qq.Name, key, ExchangeEvents, false, nil); err != nil {
			return err
		}
	}

	if q.DLQ != "" {
		dlq, err := ch.QueueDeclare(q.DLQ, true, false, false, false, nil)
		if err != nil {
			return err
		}
		if err := ch.QueueBind(dlq.Name, q.DLQ, ExchangeDLX, false, nil); err != nil {
			return err
		}
	}

	return nil
}

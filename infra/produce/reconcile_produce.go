package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ReconcileExchange   = "reconcile.exchange"
	ReconcileQueue      = "reconcile.request"
	ReconcileRoutingKey = "reconcile.request"
)

// ReconcileRequestMessage asks the consumer to run a mapping repair pass.
// ProjectID is optional; when nil the run targets each uploader's most recent
// project.
type ReconcileRequestMessage struct {
	ProjectID   *uint64 `json:"project_id,omitempty"`
	RequestedBy string  `json:"requested_by"`
	Role        string  `json:"role"`
	Timestamp   int64   `json:"timestamp"`
}

// ReconcileService publishes repair requests for asynchronous processing.
type ReconcileService struct {
	channel *amqp.Channel
}

func InitReconcileService(channel *amqp.Channel) *ReconcileService {
	service := &ReconcileService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		ReconcileExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Reconcile exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		ReconcileQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Reconcile queue: " + err.Error())
	}

	err = channel.QueueBind(
		ReconcileQueue,
		ReconcileRoutingKey,
		ReconcileExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Reconcile queue: " + err.Error())
	}

	return service
}

func (s *ReconcileService) PublishReconcileRequest(ctx context.Context, msg ReconcileRequestMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(ctx,
		ReconcileExchange,
		ReconcileRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

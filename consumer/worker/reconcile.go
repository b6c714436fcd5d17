package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/locdesk/loc-file-service/infra"
	"github.com/locdesk/loc-file-service/infra/produce"
	"github.com/locdesk/loc-file-service/provider"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ReconcileConsumer runs queued mapping repair passes.
type ReconcileConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	reconciler *provider.MappingReconciler
}

func NewReconcileConsumer(channel *amqp.Channel, infra *infra.Infra, reconciler *provider.MappingReconciler) *ReconcileConsumer {
	return &ReconcileConsumer{
		channel:    channel,
		infra:      infra,
		reconciler: reconciler,
	}
}

// Start begins consuming reconcile requests.
func (c *ReconcileConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.ReconcileQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register reconcile consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Started listening on queue: %s", produce.ReconcileQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Reconcile Consumer] Channel closed")
					return
				}
				c.handleReconcileRequest(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *ReconcileConsumer) handleReconcileRequest(ctx context.Context, msg amqp.Delivery) {
	c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Received message: %s", string(msg.Body))

	var payload produce.ReconcileRequestMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	requesterID, err := uuid.Parse(payload.RequestedBy)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Invalid requested_by %q: %v", payload.RequestedBy, err)
		_ = msg.Nack(false, false)
		return
	}

	actor := provider.Principal{
		ID:   requesterID,
		Role: payload.Role,
	}

	result, err := c.reconciler.Run(ctx, payload.ProjectID, actor)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) || errors.Is(err, provider.ErrForbidden) {
			// Permanent failures, requeueing would never succeed.
			c.infra.Logger.WarningWithContextf(ctx, "[Reconcile Consumer] Dropping request from %s: %v", requesterID, err)
			_ = msg.Nack(false, false)
			return
		}
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Reconcile Consumer] Run failed, requeueing: %v", err)
		_ = msg.Nack(false, true)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Reconcile Consumer] Run complete: before=%d after=%d fixed=%d",
		result.Before, result.After, result.Fixed)
	_ = msg.Ack(false)
}

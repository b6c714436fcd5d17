package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	ReconcileService *ReconcileService
}

func InitProduce(channel *amqp.Channel) *Produce {
	reconcileService := InitReconcileService(channel)
	if reconcileService == nil {
		panic("Failed to initialize Reconcile produce service")
	}

	return &Produce{
		ReconcileService: reconcileService,
	}
}

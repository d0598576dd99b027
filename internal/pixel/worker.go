package pixel

import (
	"context"
	"errors"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/revoa/analytics-backend/pkg/logger"
)

type messageProcessor interface {
	Process(ctx context.Context, data []byte) error
}

// Worker drains the pixel subscription into the consumer. The consumer owns
// idempotency and garbage handling; the worker only decides ack versus nack.
type Worker struct {
	subscription *gcppubsub.Subscriber
	processor    messageProcessor
	logg         *logger.Logger
}

func NewWorker(subscription *gcppubsub.Subscriber, processor messageProcessor, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("pixel subscription is required")
	}
	if processor == nil {
		return nil, errors.New("pixel processor is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{subscription: subscription, processor: processor, logg: logg}, nil
}

type processResult struct {
	nack bool
}

// Run consumes pixel messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	logCtx := w.logg.WithField(ctx, "message_id", msg.ID)
	if err := w.processor.Process(logCtx, msg.Data); err != nil {
		w.logg.Error(logCtx, "pixel event processing failed", err)
		return processResult{nack: true}
	}
	return processResult{}
}

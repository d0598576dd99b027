package pixel

import (
	"context"
	"encoding/json"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
)

const defaultPublishTimeout = 15 * time.Second

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// Ingest accepts storefront pixel events at the edge and hands them to the
// event bus. Persistence and attribution happen in the consumer, never here.
type Ingest struct {
	pub  publisher
	logg *logger.Logger
	now  func() time.Time
}

// NewIngest wires the ingress service to a concrete Pub/Sub publisher.
func NewIngest(pub *gcppubsub.Publisher, logg *logger.Logger) (*Ingest, error) {
	if pub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pixel publisher is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &Ingest{pub: newGCPPublisher(pub), logg: logg, now: time.Now}, nil
}

// Accept validates the envelope and publishes it. The returned event ID is
// echoed to the storefront so retries can reuse it.
func (i *Ingest) Accept(ctx context.Context, envelope EventEnvelope) (string, error) {
	name, err := enums.ParsePixelEventName(envelope.EventName)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported event name")
	}
	envelope.EventName = string(name)

	if envelope.UserID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	if envelope.EventID == "" {
		envelope.EventID = uuid.NewString()
	}
	if envelope.OccurredAt.IsZero() {
		envelope.OccurredAt = i.now().UTC()
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding pixel event")
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":   envelope.EventID,
			"event_name": envelope.EventName,
			"user_id":    envelope.UserID.String(),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := i.pub.Publish(publishCtx, msg)
	if result == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "publisher returned no result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publishing pixel event")
	}

	i.logg.Info(i.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_name": envelope.EventName,
	}), "pixel event accepted")
	return envelope.EventID, nil
}

type gcpPublisher struct {
	pub *gcppubsub.Publisher
}

func newGCPPublisher(p *gcppubsub.Publisher) publisher {
	return gcpPublisher{pub: p}
}

func (g gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return g.pub.Publish(ctx, msg)
}

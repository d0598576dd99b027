package pixel

import (
	"context"
	"errors"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/revoa/analytics-backend/pkg/logger"
)

type stubProcessor struct {
	seen [][]byte
	err  error
}

func (s *stubProcessor) Process(ctx context.Context, data []byte) error {
	s.seen = append(s.seen, data)
	return s.err
}

func TestWorkerAcksProcessedMessage(t *testing.T) {
	processor := &stubProcessor{}
	worker := &Worker{
		processor: processor,
		logg:      logger.New(logger.Options{ServiceName: "test"}),
	}

	result := worker.process(context.Background(), &gcppubsub.Message{Data: []byte(`{"event_id":"evt-1"}`)})
	if result.nack {
		t.Fatal("expected ack on success")
	}
	if len(processor.seen) != 1 {
		t.Fatalf("expected one processed message, got %d", len(processor.seen))
	}
}

func TestWorkerNacksOnProcessorFailure(t *testing.T) {
	processor := &stubProcessor{err: errors.New("insert failed")}
	worker := &Worker{
		processor: processor,
		logg:      logger.New(logger.Options{ServiceName: "test"}),
	}

	result := worker.process(context.Background(), &gcppubsub.Message{Data: []byte(`{}`)})
	if !result.nack {
		t.Fatal("expected nack on failure")
	}
}

func TestNewWorkerValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	if _, err := NewWorker(nil, &stubProcessor{}, logg); err == nil {
		t.Fatal("expected error for missing subscription")
	}
	if _, err := NewWorker(&gcppubsub.Subscriber{}, nil, logg); err == nil {
		t.Fatal("expected error for missing processor")
	}
	if _, err := NewWorker(&gcppubsub.Subscriber{}, &stubProcessor{}, nil); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

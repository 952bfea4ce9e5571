package pubsub

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "bloodlink/internal/delivery/context"
	"bloodlink/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultQueueSize = 256

// ErrQueueFull is returned when the inline queue cannot take another task.
var ErrQueueFull = errors.New("task queue is full")

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("task publisher is closed")

// inlinePublisher runs tasks in-process on a single worker goroutine.
// Publishing never blocks the caller and a failing task never reaches it.
type inlinePublisher struct {
	handler service.TaskHandler
	logger  *slog.Logger
	queue   chan *service.TaskEvent

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewInlinePublisher starts the worker goroutine and returns the publisher.
func NewInlinePublisher(handler service.TaskHandler, size int, logger *slog.Logger) service.TaskPublisher {
	if size <= 0 {
		size = defaultQueueSize
	}
	p := &inlinePublisher{
		handler: handler,
		logger:  logger,
		queue:   make(chan *service.TaskEvent, size),
		done:    make(chan struct{}),
	}
	go p.run()

	return p
}

func (p *inlinePublisher) PublishTask(_ context.Context, event *service.TaskEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *inlinePublisher) run() {
	defer close(p.done)

	for event := range p.queue {
		p.handle(event)
	}
}

func (p *inlinePublisher) handle(event *service.TaskEvent) {
	taskLogger := p.logger.With(slog.String("request_id", event.RequestID), slog.String("task_id", event.TaskID))
	defer func() {
		if r := recover(); r != nil {
			taskLogger.Error("[InlinePubSub] Task handler panicked", slog.Any("panic", r))
		}
	}()

	// The publishing request may be long gone; only its IDs carry over.
	ctx := deliverycontext.WithRequestID(context.Background(), event.RequestID)
	ctx = deliverycontext.WithTaskID(ctx, event.TaskID)
	ctx = deliverycontext.WithLogger(ctx, taskLogger)

	if err := p.handler.HandleTask(ctx, event); err != nil {
		taskLogger.Error("[InlinePubSub] Task failed",
			slog.String("kind", string(event.Kind)),
			slog.Any("error", err),
		)
	}
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (p *inlinePublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()

		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done

	return nil
}

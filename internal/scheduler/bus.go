package scheduler

import (
	"context"
	"errors"
	"sync"

	"live-auction/utils"
)

// ErrBusClosed is returned when publishing after Close
var ErrBusClosed = errors.New("trigger bus closed")

// Handler consumes one trigger message
type Handler func(ctx context.Context, msg Message)

// Publisher delivers trigger messages to whichever worker consumes them
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LocalBus hands triggers to an in-process handler on its own goroutine, so a
// slow sweep never blocks the producer
type LocalBus struct {
	handler Handler

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocalBus(handler Handler) *LocalBus {
	return &LocalBus{handler: handler}
}

func (b *LocalBus) Publish(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handler(context.WithoutCancel(ctx), msg)
	}()
	return nil
}

// Wait blocks until every published trigger has been handled
func (b *LocalBus) Wait() {
	b.wg.Wait()
}

// Close rejects further publishes and waits for in-flight handlers
func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	utils.Info("scheduler: local trigger bus closed", nil)
	return nil
}

// DispatchHandler adapts a Dispatcher to the Handler signature
func DispatchHandler(d *Dispatcher) Handler {
	return func(ctx context.Context, msg Message) {
		_, _, _ = d.Handle(ctx, msg)
	}
}

package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"live-auction/utils"

	"github.com/nats-io/nats.go"
)

// DefaultQueueGroup is the queue group workers subscribe with, so each trigger
// is handled by a single worker
const DefaultQueueGroup = "auction-sweepers"

// NATSBus carries triggers over NATS subjects
type NATSBus struct {
	conn  *nats.Conn
	queue string
	subs  []*nats.Subscription
}

// NewNATSBus connects to the NATS server at url
func NewNATSBus(url, queue string) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name("live-auction-scheduler"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				utils.Warn("scheduler: NATS disconnected", map[string]any{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			utils.Info("scheduler: NATS reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("scheduler: failed to connect to NATS: %w", err)
	}
	if queue == "" {
		queue = DefaultQueueGroup
	}
	return &NATSBus{conn: conn, queue: queue}, nil
}

func (b *NATSBus) Publish(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("scheduler: failed to marshal trigger: %w", err)
	}
	if err := b.conn.Publish(msg.Trigger.Subject(), data); err != nil {
		return fmt.Errorf("scheduler: failed to publish trigger %s: %w", msg.Trigger, err)
	}
	return nil
}

// Subscribe joins the queue group on every trigger subject
func (b *NATSBus) Subscribe(ctx context.Context, handler Handler) error {
	for _, t := range Triggers {
		sub, err := b.conn.QueueSubscribe(t.Subject(), b.queue, func(m *nats.Msg) {
			handleData(ctx, m.Subject, m.Data, handler)
		})
		if err != nil {
			return fmt.Errorf("scheduler: failed to subscribe to %s: %w", t.Subject(), err)
		}
		b.subs = append(b.subs, sub)
	}
	utils.Info("scheduler: subscribed to triggers", map[string]any{"queue": b.queue})
	return nil
}

// Close drains subscriptions before closing the connection
func (b *NATSBus) Close() error {
	if b.conn == nil {
		return nil
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return fmt.Errorf("scheduler: failed to drain NATS connection: %w", err)
	}
	return nil
}

// handleData decodes a raw trigger payload. A message whose body names a
// different trigger than its subject is dropped.
func handleData(ctx context.Context, subject string, data []byte, handler Handler) bool {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		utils.Warn("scheduler: dropping undecodable trigger", map[string]any{"subject": subject, "error": err.Error()})
		return false
	}
	if err := msg.Validate(); err != nil {
		utils.Warn("scheduler: dropping invalid trigger", map[string]any{"subject": subject, "error": err.Error()})
		return false
	}
	if expected, ok := TriggerForSubject(subject); !ok || expected != msg.Trigger {
		utils.Warn("scheduler: trigger does not match subject", map[string]any{"subject": subject, "trigger": msg.Trigger})
		return false
	}

	handler(ctx, msg)
	return true
}

package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/15Galan/h4-hash-cracker/internal/models"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends one OutcomeEvent per hash to a queue on the default
// exchange. Failures are logged and otherwise ignored: the result mapping
// never depends on the broker.
type Publisher struct {
	ch     Channel
	queue  string
	runID  string
	logger *zap.Logger
	now    func() time.Time
}

func NewPublisher(ch Channel, queue string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Publisher{
		ch:     ch,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// ForRun returns a copy of p that tags events with runID.
func (p *Publisher) ForRun(runID string) *Publisher {
	cp := *p
	cp.runID = runID
	cp.logger = p.logger.With(zap.String("run_id", runID))

	return &cp
}

func (p *Publisher) Attempt(string, string, string) {}

func (p *Publisher) Outcome(o models.Outcome) {
	event := models.OutcomeEvent{
		RunID:     p.runID,
		Hash:      o.Hash,
		Found:     o.Found,
		Word:      o.Word,
		Algorithm: o.Algorithm,
		Attempts:  o.Attempts,
		At:        p.now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to encode outcome event", zap.String("hash", o.Hash), zap.Error(err))
		return
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    p.runID + ":" + o.Hash,
		Timestamp:    event.At,
		Body:         body,
	}

	if err := p.ch.Publish("", p.queue, false, false, msg); err != nil {
		p.logger.Warn("Failed to publish outcome event", zap.String("hash", o.Hash), zap.Error(err))
	}
}

// Broker owns the AMQP connection behind a Publisher.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to url and declares queue as durable.
func Dial(url, queue string, logger *zap.Logger) (*Broker, *Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()

		return nil, nil, fmt.Errorf("declaring queue %q: %w", queue, err)
	}

	return &Broker{conn: conn, ch: ch}, NewPublisher(ch, queue, logger), nil
}

func (b *Broker) Close() error {
	if err := b.ch.Close(); err != nil {
		b.conn.Close()
		return err
	}

	return b.conn.Close()
}

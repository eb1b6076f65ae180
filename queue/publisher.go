// Package queue publishes domain events to RabbitMQ. Publishing is
// fire-and-forget from the caller's point of view: failures are logged and
// returned, never fatal to the request that produced the event.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"movie-vote-system/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

const voteCastQueue = "vote.cast"

// VoteCastEvent is the analytics payload emitted for every accepted vote.
type VoteCastEvent struct {
	VoteID    string    `json:"vote_id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	MatchupID string    `json:"matchup_id"`
	Round     int       `json:"round"`
	Pair      int       `json:"pair"`
	VotedAt   time.Time `json:"voted_at"`
}

// Publisher holds a live AMQP connection and channel.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials the broker and declares the vote.cast queue (durable,
// idempotent declaration).
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(voteCastQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishVoteCast sends one event to the vote.cast queue as a persistent
// JSON message.
func (p *Publisher) PublishVoteCast(ctx context.Context, event VoteCastEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.ch.PublishWithContext(ctx,
		"",            // default exchange
		voteCastQueue, // routing key = queue name
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		logging.Log.Warnf("rabbitmq: publish to %s failed: %v", voteCastQueue, err)
	}
	return err
}

// Close tears down the channel and connection.
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

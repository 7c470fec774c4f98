// Package notify publishes run-completion events over NATS.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

const publishTimeout = 5 * time.Second

// Event is the JSON payload published when a documentation run finishes.
type Event struct {
	RunID      string    `json:"run_id"`
	State      string    `json:"state"`
	FailedStep string    `json:"failed_step,omitempty"`
	Source     string    `json:"source"`
	SpecPath   string    `json:"spec_path"`
	HTMLPath   string    `json:"html_path"`
	SpecTitle  string    `json:"spec_title,omitempty"`
	Attempts   int       `json:"bundle_attempts"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers run events.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close()
}

// NoopPublisher discards events (default when notify.nats_url is unset).
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(context.Context, *Event) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() {}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

// New returns a NATS publisher when cfg names a server, NoopPublisher otherwise.
func New(cfg config.NotifyConfig) (Publisher, error) {
	if cfg.NATSURL == "" {
		return NoopPublisher{}, nil
	}
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("apidocgen"),
		nats.Timeout(publishTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	subject := cfg.Subject
	if subject == "" {
		subject = config.DefaultNATSSubject
	}
	slog.Info("NATS notifications enabled", "url", cfg.NATSURL, logfields.Subject(subject))
	return &NATSPublisher{conn: nc, subject: subject}, nil
}

// Publish marshals event and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, event *Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	slog.Debug("Published run event", logfields.RunID(event.RunID), logfields.State(event.State), logfields.Subject(p.subject))
	return nil
}

// Subject returns the subject events are published on.
func (p *NATSPublisher) Subject() string { return p.subject }

// Close closes the NATS connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

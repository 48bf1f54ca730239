package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/founder-playbook/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name("founder-playbook-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}

// NoopPublisher is used when NATS_URL is unset.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	logger.DebugContext(ctx, "Event dropped (no bus configured)", "subject", subject)
	return nil
}

func (NoopPublisher) Close() error { return nil }

// Subjects
const (
	AccessGranted = "access.granted"
	AccessDenied  = "access.denied"

	AdminLogin = "admin.login"

	AccessCodeCreated = "accesscode.created"
	AccessCodeUpdated = "accesscode.updated"
	AccessCodeDeleted = "accesscode.deleted"

	ProviderChanged = "provider.changed"
	ContentChanged  = "content.changed"
)

type AccessAttemptEvent struct {
	AccessCodeID *int64    `json:"access_code_id,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	Outcome      string    `json:"outcome"`
	IPAddress    string    `json:"ip_address"`
	At           time.Time `json:"at"`
}

type AccessCodeEvent struct {
	AccessCodeID int64     `json:"access_code_id"`
	Code         string    `json:"code"`
	Action       string    `json:"action"`
	At           time.Time `json:"at"`
}

// ChangeEvent describes an admin write to catalog or content entities.
type ChangeEvent struct {
	Entity string    `json:"entity"`
	ID     int64     `json:"id"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

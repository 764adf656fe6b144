package events

import (
	"encoding/json"

	"iot-ledger-backend/internal/logger"

	"github.com/nats-io/nats.go"
)

// Publisher broadcasts committed audit events to external consumers
// (indexers, UIs). Publishing is best-effort: the database event row is the
// source of truth, the broadcast is a convenience.
type Publisher interface {
	Publish(eventType string, payload any)
}

const subjectPrefix = "iot.events."

type natsPublisher struct {
	nc *nats.Conn
}

func NewNATS(url string) (Publisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) Publish(eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Warnf("event %s: marshal failed: %v", eventType, err)
		return
	}
	if err := p.nc.Publish(subjectPrefix+eventType, raw); err != nil {
		logger.Warnf("event %s: publish failed: %v", eventType, err)
	}
}

type noopPublisher struct{}

// NewNoop returns a publisher that drops everything. Used when no NATS URL
// is configured and in tests.
func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(string, any) {}

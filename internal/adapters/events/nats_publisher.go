package events

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubject = "portops.dock.reassigned"

// DockReassigned is the event body published after an audit record is stored.
type DockReassigned struct {
	ID           string    `json:"id"`
	VvnID        string    `json:"vvnId"`
	VesselName   string    `json:"vesselName"`
	OriginalDock string    `json:"originalDock"`
	UpdatedDock  string    `json:"updatedDock"`
	OfficerID    string    `json:"officerId"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher sends dock reassignment events on a core NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// Connect dials NATS with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("dock-rebalance-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %q: %w", url, err)
	}
	return nc, nil
}

func (p *Publisher) PublishReassigned(ctx context.Context, entry domain.DockReassignmentLog) (err error) {
	defer obs.Time(ctx, "events.PublishReassigned")(&err)

	if p.nc == nil {
		return errors.New("publish reassigned: nats connection is nil")
	}

	b, err := json.Marshal(DockReassigned(entry))
	if err != nil {
		return fmt.Errorf("publish reassigned: marshal: %w", err)
	}

	if err := p.nc.Publish(p.subject, b); err != nil {
		return fmt.Errorf("publish reassigned: vvn_id=%q: %w", entry.VvnID, err)
	}
	return nil
}

// PublishingLogStore decorates a ReassignmentLogStore with a best-effort
// event per stored record. Publish failures never fail the append.
type PublishingLogStore struct {
	ports.ReassignmentLogStore
	pub *Publisher
}

func NewPublishingLogStore(store ports.ReassignmentLogStore, pub *Publisher) *PublishingLogStore {
	return &PublishingLogStore{ReassignmentLogStore: store, pub: pub}
}

func (s *PublishingLogStore) Append(ctx context.Context, entry domain.DockReassignmentLog) (domain.DockReassignmentLog, error) {
	stored, err := s.ReassignmentLogStore.Append(ctx, entry)
	if err != nil {
		return stored, err
	}

	if err := s.pub.PublishReassigned(ctx, stored); err != nil {
		slog.WarnContext(ctx, "reassignment event not published",
			"req_id", obs.RequestID(ctx), "vvn_id", stored.VvnID, "err", err)
	}
	return stored, nil
}

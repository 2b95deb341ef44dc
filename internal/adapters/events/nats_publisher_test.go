package events

import (
	"context"
	"dock-rebalance-service/internal/adapters/memory"
	"dock-rebalance-service/internal/domain"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEmbeddedNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("nats server not ready")
	}

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return nc
}

func sampleEntry() domain.DockReassignmentLog {
	return domain.DockReassignmentLog{
		VvnID: "v1", VesselName: "Aurora", OriginalDock: "D1", UpdatedDock: "D2",
		OfficerID: "off-1", Timestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishingLogStorePublishesStoredRecord(t *testing.T) {
	nc := startEmbeddedNATS(t)

	sub, err := nc.SubscribeSync(DefaultSubject)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	inner := memory.NewReassignmentLogStore()
	store := NewPublishingLogStore(inner, NewPublisher(nc, ""))

	stored, err := store.Append(context.Background(), sampleEntry())
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var ev DockReassigned
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, stored.ID, ev.ID)
	assert.Equal(t, "v1", ev.VvnID)
	assert.Equal(t, "D2", ev.UpdatedDock)

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPublishingLogStoreSurvivesPublishFailure(t *testing.T) {
	nc := startEmbeddedNATS(t)
	nc.Close()

	inner := memory.NewReassignmentLogStore()
	store := NewPublishingLogStore(inner, NewPublisher(nc, ""))

	_, err := store.Append(context.Background(), sampleEntry())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Len())
}

func TestPublishingLogStoreSkipsFailedAppend(t *testing.T) {
	nc := startEmbeddedNATS(t)
	sub, err := nc.SubscribeSync(DefaultSubject)
	require.NoError(t, err)

	store := NewPublishingLogStore(memory.NewReassignmentLogStore(), NewPublisher(nc, ""))
	_, err = store.Append(context.Background(), domain.DockReassignmentLog{VvnID: "v1"})
	require.Error(t, err)

	_, err = sub.NextMsg(100 * time.Millisecond)
	require.ErrorIs(t, err, nats.ErrTimeout)
}

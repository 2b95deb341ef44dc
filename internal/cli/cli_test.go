package cli

import (
	"bytes"
	"dock-rebalance-service/internal/adapters/feasibility"
	"dock-rebalance-service/internal/adapters/memory"
	"dock-rebalance-service/internal/api"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/metrics"
	"dock-rebalance-service/internal/ports"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDay = "2026-03-10"

type fixture struct {
	url    string
	visits *memory.VesselVisitStore
	logs   *memory.ReassignmentLogStore
}

// Three 4h visits stacked on D1 with D2 and D3 empty: the plan moves
// v1 to D2 and v2 to D3.
func newFixture(t *testing.T, token string) *fixture {
	t.Helper()

	at := func(h int) time.Time { return time.Date(2026, 3, 10, h, 0, 0, 0, time.UTC) }
	visits := memory.NewVesselVisitStore(
		[]domain.Dock{{Code: "D1"}, {Code: "D2"}, {Code: "D3"}},
		[]domain.RebalanceCandidate{
			{VvnID: "v1", VesselName: "Aurora", CurrentDock: "D1", OperationDurationHours: 4, EstimatedTimeArrival: at(6), EstimatedTimeDeparture: at(10)},
			{VvnID: "v2", VesselName: "Borealis", CurrentDock: "D1", OperationDurationHours: 4, EstimatedTimeArrival: at(7), EstimatedTimeDeparture: at(11)},
			{VvnID: "v3", VesselName: "Cygnus", CurrentDock: "D1", OperationDurationHours: 4, EstimatedTimeArrival: at(8), EstimatedTimeDeparture: at(12)},
		},
	)
	logs := memory.NewReassignmentLogStore()

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Visits:   visits,
		Logs:     logs,
		Oracles:  feasibility.FromDocks,
		Metrics:  metrics.New(prometheus.NewRegistry(), "cli_test"),
		Location: time.UTC,
		APIToken: token,
	}))
	t.Cleanup(srv.Close)

	return &fixture{url: srv.URL, visits: visits, logs: logs}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := BuildCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanPrintsMoves(t *testing.T) {
	f := newFixture(t, "")

	out, err := run(t, "plan", "--server", f.url, "--token", "", "--day", testDay)
	require.NoError(t, err)

	assert.Contains(t, out, "3 candidates, 2 moves")
	assert.Regexp(t, `v1\s+Aurora\s+D1\s+D2`, out)
	assert.Regexp(t, `v2\s+Borealis\s+D1\s+D3`, out)
	assert.Regexp(t, `v3\s+Cygnus\s+D1\s+-`, out)
	assert.Contains(t, out, "100.0% better")
}

func TestApplyClientSide(t *testing.T) {
	f := newFixture(t, "")

	out, err := run(t, "apply", "--server", f.url, "--token", "", "--day", testDay, "--officer", "off-7")
	require.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))
	assert.Contains(t, out, "Applied all 2 moves.")

	v1, _ := f.visits.Visit("v1")
	v2, _ := f.visits.Visit("v2")
	assert.Equal(t, "D2", v1.CurrentDock)
	assert.Equal(t, "D3", v2.CurrentDock)

	logs, err := f.logs.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, "off-7", l.OfficerID)
		assert.Equal(t, "D1", l.OriginalDock)
	}
}

func TestApplyServerSide(t *testing.T) {
	f := newFixture(t, "")

	out, err := run(t, "apply", "--server", f.url, "--token", "", "--day", testDay, "--officer", "off-7", "--server-side")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied all 2 moves.")
	assert.Equal(t, 2, f.logs.Len())
}

func TestApplyPartialExitsTwo(t *testing.T) {
	f := newFixture(t, "")
	f.visits.UpdateFailures["v2"] = ports.ErrNotFound

	out, err := run(t, "apply", "--server", f.url, "--token", "", "--day", testDay, "--officer", "off-7")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, out, "Partially applied: 1 succeeded, 1 failed.")
	assert.Contains(t, out, "v2 (update)")
	assert.Equal(t, 1, f.logs.Len())
}

func TestApplyAllFailedExitsOne(t *testing.T) {
	f := newFixture(t, "")
	f.visits.UpdateFailures["v1"] = ports.ErrNotFound
	f.visits.UpdateFailures["v2"] = ports.ErrNotFound

	out, err := run(t, "apply", "--server", f.url, "--token", "", "--day", testDay, "--officer", "off-7")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "Apply failed: all 2 moves failed.")
	assert.Zero(t, f.logs.Len())
}

func TestApplyNothingToApply(t *testing.T) {
	f := newFixture(t, "")

	out, err := run(t, "apply", "--server", f.url, "--token", "", "--day", "2026-03-11", "--officer", "off-7")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to apply for 2026-03-11")
	assert.Empty(t, f.visits.UpdateCalls())
}

func TestApplyRequiresOfficer(t *testing.T) {
	f := newFixture(t, "")

	_, err := run(t, "apply", "--server", f.url, "--token", "", "--day", testDay)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, f.visits.UpdateCalls())
}

func TestPlanRejectsBadToken(t *testing.T) {
	f := newFixture(t, "secret")

	_, err := run(t, "plan", "--server", f.url, "--token", "wrong", "--day", testDay)
	require.ErrorIs(t, err, ports.ErrUnauthorized)

	_, err = run(t, "plan", "--server", f.url, "--token", "secret", "--day", testDay)
	require.NoError(t, err)
}

func TestAuditListsOldestFirst(t *testing.T) {
	f := newFixture(t, "")

	base := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	for i, vvn := range []string{"late", "early"} {
		_, err := f.logs.Append(t.Context(), domain.DockReassignmentLog{
			VvnID:        vvn,
			VesselName:   "Vessel " + vvn,
			OriginalDock: "D1",
			UpdatedDock:  "D2",
			OfficerID:    "off-1",
			Timestamp:    base.Add(time.Duration(-i) * time.Hour),
		})
		require.NoError(t, err)
	}

	out, err := run(t, "audit", "--server", f.url, "--token", "", "--json")
	require.NoError(t, err)

	var got []struct {
		VvnID string `json:"vvnId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].VvnID)
	assert.Equal(t, "late", got[1].VvnID)
}

func TestResolveDayUsesTimezone(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)

	day, err := (&options{timezone: "UTC"}).resolveDay("", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", day)

	day, err = (&options{timezone: "Asia/Tokyo"}).resolveDay("", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-12", day)

	day, err = (&options{timezone: "Asia/Tokyo"}).resolveDay("2026-01-05", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", day)

	_, err = (&options{timezone: "Mars/Olympus"}).resolveDay("", now)
	require.Error(t, err)
}

package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewLogger(buf, "debug", "text")
	require.NoError(t, err)

	logger.Debug("planned", "day", "2026-03-02")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "day=2026-03-02")

	buf.Reset()
	logger, err = NewLogger(buf, "info", "json")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(buf, "loud", "text")
	assert.Error(t, err)
	_, err = NewLogger(buf, "info", "xml")
	assert.Error(t, err)
}

func TestTimeLogsRequestIDAndError(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))

	err := errors.New("boom")
	Time(ctx, "vvn.UpdateDock")(&err)

	out := buf.String()
	assert.Contains(t, out, "req_id=req-42")
	assert.Contains(t, out, "op=vvn.UpdateDock")
	assert.Contains(t, out, "err=boom")
}

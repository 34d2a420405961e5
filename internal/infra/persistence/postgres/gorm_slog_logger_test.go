package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	deliverycontext "storefront/internal/delivery/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func lines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err == nil {
			out = append(out, m)
		}
	}

	return out
}

func TestGormSlogLogger_Trace(t *testing.T) {
	t.Parallel()

	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name      string
		debug     bool
		elapsed   time.Duration
		err       error
		wantMsg   string
		wantLevel string
	}{
		{name: "query error", err: errors.New("syntax"), wantMsg: "GORM query failed", wantLevel: "ERROR"},
		{name: "not found is quiet", err: gorm.ErrRecordNotFound},
		{name: "duplicate key is a warning", err: gorm.ErrDuplicatedKey, wantMsg: "GORM constraint violation", wantLevel: "WARN"},
		{name: "slow query", elapsed: time.Second, wantMsg: "GORM slow query", wantLevel: "WARN"},
		{name: "fast query quiet", elapsed: time.Millisecond},
		{name: "debug logs all", debug: true, elapsed: time.Millisecond, wantMsg: "GORM query", wantLevel: "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base, buf := captureLogger()
			l := newGormSlogLogger(base, tt.debug, 200*time.Millisecond)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), sqlFn, tt.err)

			entries := lines(buf)
			if tt.wantMsg == "" {
				assert.Empty(t, entries)

				return
			}
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0]["msg"])
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, "SELECT 1", entries[0]["sql"])
		})
	}
}

func TestGormSlogLogger_UsesRequestLogger(t *testing.T) {
	base, baseBuf := captureLogger()
	reqBase, reqBuf := captureLogger()
	ctx := deliverycontext.WithLogger(context.Background(), reqBase.With(slog.String("request_id", "req-1")))

	l := newGormSlogLogger(base, true, 0)
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 0 }, nil)

	assert.Empty(t, lines(baseBuf))
	entries := lines(reqBuf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
}

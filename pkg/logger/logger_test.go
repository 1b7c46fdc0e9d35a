package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeInserter struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeInserter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestSetupProductionWritesJSON(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev; slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("production", &buf)
	Debug("hidden")
	Info("visible", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	tagged := L.With("request_id", "abc")
	assert.Same(t, tagged, WithCtx(InjectLogger(context.Background(), tagged)))
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &fakeInserter{}
	h := newMongoHandler(col, slog.LevelInfo)

	log := slog.New(h).With("request_id", "rid-1")
	log.Debug("dropped by level")
	log.WithGroup("payment").Info("reconciled", "session_id", "cs_1")
	h.Close()

	col.mu.Lock()
	defer col.mu.Unlock()
	require.Len(t, col.docs, 1)
	doc := col.docs[0]
	assert.Equal(t, "reconciled", doc.Msg)
	assert.Equal(t, "rid-1", doc.RequestID)
	assert.Equal(t, "cs_1", doc.Attrs["payment.session_id"])
}

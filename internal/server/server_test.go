package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func TestGracefulShutdown_ParentCancelClosesAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gfl := NewGracefulShutdown(ctx, time.Second, nopLogger())

	var closed atomic.Int32
	gfl.MustClose(func(context.Context) error { closed.Add(1); return nil })
	gfl.MustClose(func(context.Context) error { closed.Add(1); return nil })

	cancel()
	require.NoError(t, gfl.Wait())
	assert.Equal(t, int32(2), closed.Load())
}

func TestGracefulShutdown_FailingTaskStopsTheRest(t *testing.T) {
	gfl := NewGracefulShutdown(context.Background(), time.Second, nopLogger())

	boom := errors.New("listen: address in use")
	var closed atomic.Bool
	gfl.MustClose(func(context.Context) error { closed.Store(true); return nil })
	gfl.Go(func() error { return boom })

	assert.ErrorIs(t, gfl.Wait(), boom)
	assert.True(t, closed.Load())
}

func TestGracefulShutdown_CloseTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gfl := NewGracefulShutdown(ctx, 20*time.Millisecond, nopLogger())

	gfl.MustClose(func(c context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	cancel()
	assert.Error(t, gfl.Wait())
}

func TestHTTPServer_StartStop(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	var wrapped atomic.Bool
	mw := func(next http.Handler) http.Handler {
		wrapped.Store(true)
		return next
	}

	srv := NewHTTPServer(h, nopLogger(),
		WithAddress("127.0.0.1:0"),
		WithTimeouts(time.Second, time.Second, time.Second),
		WithMiddleware(mw),
	)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
	assert.True(t, wrapped.Load())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

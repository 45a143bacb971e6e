package supervisor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/courtside/internal/supervisor"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flaky fails on its first run and then blocks until stopped.
type flaky struct {
	runs atomic.Int32
}

func (f *flaky) Serve(ctx context.Context) error {
	if f.runs.Add(1) == 1 {
		return errors.New("boom")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *flaky) String() string { return "flaky" }

func TestTreeRestartsFailedWorker(t *testing.T) {
	tree := supervisor.NewTree(quietLogger(), supervisor.TreeConfig{FailureBackoff: 10 * time.Millisecond})
	w := &flaky{}
	tree.AddWorker(w)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	assert.Eventually(t, func() bool { return w.runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestHTTPServiceStopsOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}
	svc := supervisor.NewHTTPService(srv, time.Second)
	assert.Equal(t, "http-server", svc.String())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("http service did not stop")
	}
}

func TestHTTPServiceListenError(t *testing.T) {
	svc := supervisor.NewHTTPService(&http.Server{Addr: "127.0.0.1:-1"}, time.Second)
	err := svc.Serve(context.Background())
	require.Error(t, err)
}

package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkarpov/papersync/internal/logging"
)

type fakeProber struct {
	mu  sync.Mutex
	err error
}

func (f *fakeProber) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeProber) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type recorder struct {
	mu     sync.Mutex
	events []bool
}

func (r *recorder) record(online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, online)
}

func (r *recorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, len(r.events))
	copy(out, r.events)
	return out
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestMonitor_FiresOncePerTransition(t *testing.T) {
	prober := &fakeProber{err: errors.New("down")}
	m := NewMonitor(prober, 10*time.Millisecond, testLogger())

	rec := &recorder{}
	m.OnChange(rec.record)

	m.Start(context.Background())
	defer m.Stop()

	// several failed probes: still offline, no event fired
	time.Sleep(50 * time.Millisecond)
	require.False(t, m.Current())
	require.Empty(t, rec.snapshot())

	prober.set(nil)
	waitFor(t, m.Current)
	require.Equal(t, []bool{true}, rec.snapshot())

	// repeated successes do not re-fire
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, []bool{true}, rec.snapshot())

	prober.set(errors.New("down again"))
	waitFor(t, func() bool { return !m.Current() })
	require.Equal(t, []bool{true, false}, rec.snapshot())
}

func TestMonitor_ProbeFailureDegradesToOffline(t *testing.T) {
	prober := &fakeProber{err: nil}
	m := NewMonitor(prober, 10*time.Millisecond, testLogger())
	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, m.Current)

	prober.set(errors.New("os facility unavailable"))
	waitFor(t, func() bool { return !m.Current() })
}

func TestMonitor_StopIsIdempotentAndStartAfterStopWorks(t *testing.T) {
	prober := &fakeProber{}
	m := NewMonitor(prober, 10*time.Millisecond, testLogger())

	m.Start(context.Background())
	m.Start(context.Background()) // second start is a no-op
	m.Stop()
	m.Stop() // second stop must not panic

	m.Start(context.Background())
	waitFor(t, m.Current)
	m.Stop()
}

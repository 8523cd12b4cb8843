// Package connectivity observes reachability of the remote document service
// by probing it periodically. Observers get exactly one notification per
// transition; repeated identical observations are silent.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/dkarpov/papersync/internal/logging"
)

const defaultProbeTimeout = 3 * time.Second

// Prober checks service reachability. remote.Client satisfies this.
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor maintains the current reachability boolean. A failed probe, for
// whatever reason, degrades to "offline" rather than raising an error.
type Monitor struct {
	prober   Prober
	interval time.Duration
	log      logging.Logger

	mu        sync.Mutex
	online    bool
	callbacks []func(online bool)
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewMonitor returns a stopped Monitor that probes at the given interval.
// The initial state is offline until the first successful probe.
func NewMonitor(prober Prober, interval time.Duration, log logging.Logger) *Monitor {
	return &Monitor{prober: prober, interval: interval, log: log}
}

// Current returns the last observed reachability.
func (m *Monitor) Current() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnChange registers a callback fired on every false→true and true→false
// transition. Register before Start; callbacks run on the monitor goroutine.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Start launches the probe loop. An immediate probe runs before the first
// tick so callers do not wait a full interval for the initial state.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.done != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	m.done = done
	m.mu.Unlock()

	go m.run(ctx, done)
}

// Stop terminates the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	err := m.prober.Ping(probeCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	m.observe(ctx, err == nil)
}

func (m *Monitor) observe(ctx context.Context, online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	callbacks := make([]func(bool), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	if online {
		m.log.Info(ctx, "connectivity restored")
	} else {
		m.log.Info(ctx, "connectivity lost")
	}
	for _, fn := range callbacks {
		fn(online)
	}
}

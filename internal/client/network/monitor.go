// Package network tracks whether the backend is reachable.
package network

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

//go:generate moq -out prober_mock.go . Prober

// Prober checks the backend once. Implemented by [api.Client].
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor probes the backend periodically and publishes online/offline
// transitions. The state is offline until the first successful probe.
type Monitor struct {
	prober   Prober
	logger   *slog.Logger
	subs     map[int]chan bool
	interval time.Duration
	nextSub  int
	mu       sync.Mutex
	online   bool
}

func NewMonitor(prober Prober, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		prober:   prober,
		interval: interval,
		logger:   logger,
		subs:     make(map[int]chan bool),
	}
}

// Online reports the last known state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline forces the state and notifies subscribers on change.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return
	}
	m.online = online
	m.logger.Info("Connectivity changed", "online", online)

	for _, ch := range m.subs {
		// Подписчику важно только последнее состояние.
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

// Subscribe delivers transitions until cancel is called.
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// Probe checks the backend once and updates the state.
func (m *Monitor) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, min(defaultProbeTimeout, m.interval))
	defer cancel()

	err := m.prober.Health(ctx)
	if err != nil {
		m.logger.Debug("Health probe failed", "error", err)
	}
	m.SetOnline(err == nil)
	return err == nil
}

// Run probes immediately, then every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Probe(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CheckFunc pings one dependency.
type CheckFunc func(ctx context.Context) error

type check struct {
	name string
	fn   CheckFunc
}

// Monitor periodically pings registered dependencies and caches the result.
type Monitor struct {
	checks  []check
	timeout time.Duration

	status Status
	mu     sync.RWMutex

	interval  time.Duration
	scheduler *cron.Cron
	now       func() time.Time
	logger    *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		timeout:  3 * time.Second,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Register adds a named dependency. Call before Start.
func (m *Monitor) Register(name string, fn CheckFunc) {
	if fn == nil {
		return
	}
	m.checks = append(m.checks, check{name: name, fn: fn})
}

// Start runs one check immediately, then on every interval.
func (m *Monitor) Start() error {
	m.Refresh()

	m.scheduler = cron.New()
	if _, err := m.scheduler.AddFunc(fmt.Sprintf("@every %s", m.interval), m.Refresh); err != nil {
		return err
	}
	m.scheduler.Start()
	return nil
}

// Stop waits for a running check to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	if m.scheduler == nil {
		return
	}
	select {
	case <-m.scheduler.Stop().Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	services := make(map[string]bool, len(m.status.Services))
	for name, ok := range m.status.Services {
		services[name] = ok
	}
	status := m.status
	status.Services = services
	return status
}

// Refresh pings every dependency once.
func (m *Monitor) Refresh() {
	status := Status{
		Healthy:  true,
		Services: make(map[string]bool, len(m.checks)),
	}
	for _, c := range m.checks {
		ok := m.ping(c)
		status.Services[c.name] = ok
		status.Healthy = status.Healthy && ok
	}
	status.LastCheck = m.now()

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.Healthy != status.Healthy && !previous.LastCheck.IsZero() {
		m.logger.Warn("dependency health changed", zap.Bool("healthy", status.Healthy), zap.Any("services", status.Services))
	}
}

func (m *Monitor) ping(c check) bool {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := c.fn(ctx); err != nil {
		m.logger.Debug("health check failed", zap.String("service", c.name), zap.Error(err))
		return false
	}
	return true
}

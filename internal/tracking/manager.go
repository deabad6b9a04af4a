package tracking

import (
	"context"
	"log/slog"
	"sync"

	"skyparcel/internal/drone"
	"skyparcel/internal/order"
)

const fallbackSpeedKMH = 50.0

// Manager owns one independent tracking session per active order.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]context.CancelFunc

	store  Store
	drones drone.Service
	clock  Clock
	cfg    Config
}

func NewManager(store Store, drones drone.Service, clock Clock, cfg Config) *Manager {
	return &Manager{
		sessions: make(map[string]context.CancelFunc),
		store:    store,
		drones:   drones,
		clock:    clock,
		cfg:      cfg,
	}
}

// Start spawns the tracking loop for a freshly created order.
func (m *Manager) Start(o *order.Order) {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if _, running := m.sessions[o.OrderID]; running {
		m.mu.Unlock()
		cancel()
		return
	}
	m.sessions[o.OrderID] = cancel
	m.mu.Unlock()

	speed := fallbackSpeedKMH
	if d, err := m.drones.GetByID(ctx, o.DroneID); err == nil && d.SpeedKMH > 0 {
		speed = d.SpeedKMH
	}

	sess := NewSession(o, speed, m.cfg, m.store, m.clock)

	slog.Info("tracking session started",
		slog.String("order_id", o.OrderID),
		slog.String("pickup_mode", string(o.PickupMode)))

	go func() {
		defer m.remove(o.OrderID)
		sess.Run(ctx)
	}()
}

// Stop cancels an order's session; no further ticks are scheduled once the
// cancellation is observed.
func (m *Manager) Stop(orderID string) {
	m.mu.Lock()
	cancel, ok := m.sessions[orderID]
	m.mu.Unlock()
	if ok {
		cancel()
	}
}

// StopAll tears down every session; used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cancel := range m.sessions {
		cancel()
		delete(m.sessions, id)
	}
}

func (m *Manager) remove(orderID string) {
	m.mu.Lock()
	delete(m.sessions, orderID)
	m.mu.Unlock()
}

package tracking

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"skyparcel/internal/common"
	"skyparcel/internal/order"
)

// Store is the persistence surface a session writes through. The order
// service implements it; during the active delivery window the session is
// the only writer of status and position.
type Store interface {
	GetStatus(ctx context.Context, orderID string) (order.Status, error)
	Transition(ctx context.Context, orderID string, next order.Status) error
	RecordPosition(ctx context.Context, orderID string, pos common.Location) error
	RecordCompletion(ctx context.Context, orderID string, final common.Location) error
}

// Session drives one order through its scripted phases and position ticks.
// One session owns one order's write path; sessions share nothing.
type Session struct {
	orderID  string
	pickup   common.Location
	delivery common.Location
	speedKMH float64
	mode     common.PickupMode

	cfg   Config
	store Store
	clock Clock
}

func NewSession(o *order.Order, speedKMH float64, cfg Config, store Store, clock Clock) *Session {
	return &Session{
		orderID:  o.OrderID,
		pickup:   o.Pickup(),
		delivery: o.Delivery(),
		speedKMH: speedKMH,
		mode:     o.PickupMode,
		cfg:      cfg,
		store:    store,
		clock:    clock,
	}
}

type eventKind int

const (
	kindTransition eventKind = iota
	kindTick
	kindComplete
)

type scheduledEvent struct {
	at   time.Duration
	kind eventKind
	step PhaseStep // transition only
	tick int       // tick only
}

// timeline merges the phase script with the interpolation ticks, ordered by
// absolute offset. Ticks begin one interval after the flight phase fires.
func (s *Session) timeline() []scheduledEvent {
	script := s.cfg.script(s.mode)

	var events []scheduledEvent
	var flightStart time.Duration
	for _, step := range script {
		events = append(events, scheduledEvent{at: step.Offset, kind: kindTransition, step: step})
		if step.StartsFlight {
			flightStart = step.Offset
		}
	}

	for k := 1; k <= s.cfg.Steps; k++ {
		events = append(events, scheduledEvent{
			at:   flightStart + time.Duration(k)*s.cfg.TickInterval,
			kind: kindTick,
			tick: k,
		})
	}
	events = append(events, scheduledEvent{
		at:   flightStart + time.Duration(s.cfg.Steps)*s.cfg.TickInterval,
		kind: kindComplete,
	})

	sort.SliceStable(events, func(i, j int) bool { return events[i].at < events[j].at })
	return events
}

// Run advances the session until the order is delivered or cancelled. It
// returns when the timeline is exhausted or cancellation is observed; at most
// one write can race an external cancellation.
func (s *Session) Run(ctx context.Context) {
	totalKM := common.HaversineDistance(s.pickup, s.delivery)

	var elapsed time.Duration
	for _, ev := range s.timeline() {
		if delay := ev.at - elapsed; delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(delay):
			}
		}
		elapsed = ev.at

		if s.cancelled(ctx) {
			slog.InfoContext(ctx, "tracking stopped: order cancelled",
				slog.String("order_id", s.orderID))
			return
		}

		switch ev.kind {
		case kindTransition:
			s.transition(ctx, ev.step)
		case kindTick:
			s.tick(ctx, ev.tick, totalKM)
		case kindComplete:
			s.complete(ctx)
			return
		}
	}
}

func (s *Session) cancelled(ctx context.Context) bool {
	status, err := s.store.GetStatus(ctx, s.orderID)
	if err != nil {
		slog.WarnContext(ctx, "tracking status check failed",
			slog.String("order_id", s.orderID),
			slog.String("error", err.Error()))
		return false
	}
	return status == order.StatusCancelled
}

func (s *Session) transition(ctx context.Context, step PhaseStep) {
	if err := s.store.Transition(ctx, s.orderID, step.Status); err != nil {
		slog.WarnContext(ctx, "tracking transition failed",
			slog.String("order_id", s.orderID),
			slog.String("status", string(step.Status)),
			slog.String("error", err.Error()))
		return
	}
	slog.InfoContext(ctx, "delivery phase",
		slog.String("order_id", s.orderID),
		slog.String("status", string(step.Status)),
		slog.String("message", step.Message),
		slog.String("eta", step.ETA))
}

// tick persists one interpolated position. The final tick lands exactly on
// the delivery coordinates rather than trusting float arithmetic.
func (s *Session) tick(ctx context.Context, k int, totalKM float64) {
	var pos common.Location
	if k >= s.cfg.Steps {
		pos = s.delivery
	} else {
		pos = common.Lerp(s.pickup, s.delivery, float64(k)/float64(s.cfg.Steps))
	}

	// Position writes are best-effort; a lost tick never halts the flight.
	if err := s.persistWithRetry(ctx, func() error {
		return s.store.RecordPosition(ctx, s.orderID, pos)
	}); err != nil {
		slog.WarnContext(ctx, "tracking position write failed",
			slog.String("order_id", s.orderID),
			slog.Int("tick", k),
			slog.String("error", err.Error()))
	}

	progress := float64(k) / float64(s.cfg.Steps)
	remainingKM := totalKM * (1 - progress)
	slog.DebugContext(ctx, "tracking tick",
		slog.String("order_id", s.orderID),
		slog.Int("tick", k),
		slog.Float64("remaining_km", remainingKM),
		slog.Int("eta_minutes", s.remainingMinutes(remainingKM)))
}

func (s *Session) complete(ctx context.Context) {
	if err := s.persistWithRetry(ctx, func() error {
		return s.store.RecordCompletion(ctx, s.orderID, s.delivery)
	}); err != nil {
		slog.WarnContext(ctx, "tracking completion write failed",
			slog.String("order_id", s.orderID),
			slog.String("error", err.Error()))
		return
	}
	slog.InfoContext(ctx, "delivery complete",
		slog.String("order_id", s.orderID))
}

func (s *Session) persistWithRetry(ctx context.Context, fn func() error) error {
	if err := fn(); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fn()
	}
	return nil
}

func (s *Session) remainingMinutes(remainingKM float64) int {
	if s.speedKMH <= 0 {
		return 0
	}
	return int(math.Round(remainingKM / s.speedKMH * 60))
}

package unit

import (
	"context"
	"testing"
	"time"

	"skyparcel/internal/common"
	"skyparcel/internal/order"
	"skyparcel/internal/tracking"
)

// fakeStore records every write a session makes so tests can assert on the
// exact sequence of status and position updates.
type fakeStore struct {
	status      order.Status
	transitions []order.Status
	positions   []common.Location
	completed   bool
	final       common.Location

	// cancelAfter flips status to cancelled once this many writes landed.
	cancelAfter int
	writes      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{status: order.StatusPending, cancelAfter: -1}
}

func (f *fakeStore) countWrite() {
	f.writes++
	if f.cancelAfter >= 0 && f.writes >= f.cancelAfter {
		f.status = order.StatusCancelled
	}
}

func (f *fakeStore) GetStatus(ctx context.Context, orderID string) (order.Status, error) {
	return f.status, nil
}

func (f *fakeStore) Transition(ctx context.Context, orderID string, next order.Status) error {
	f.status = next
	f.transitions = append(f.transitions, next)
	f.countWrite()
	return nil
}

func (f *fakeStore) RecordPosition(ctx context.Context, orderID string, pos common.Location) error {
	f.positions = append(f.positions, pos)
	f.countWrite()
	return nil
}

func (f *fakeStore) RecordCompletion(ctx context.Context, orderID string, final common.Location) error {
	f.status = order.StatusDelivered
	f.completed = true
	f.final = final
	f.countWrite()
	return nil
}

func runSession(t *testing.T, mode common.PickupMode, store *fakeStore, cfg tracking.Config) (*order.Order, *tracking.ImmediateClock) {
	t.Helper()
	o := newPendingOrder(mode)
	clock := tracking.NewImmediateClock()
	sess := tracking.NewSession(o, 50, cfg, store, clock)
	sess.Run(context.Background())
	return o, clock
}

func TestSession_HomeScript_FullRun(t *testing.T) {
	store := newFakeStore()
	o, _ := runSession(t, common.PickupHome, store, tracking.DefaultConfig())

	want := []order.Status{order.StatusPickupEnroute, order.StatusPickedUp, order.StatusInTransit}
	if len(store.transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(store.transitions), store.transitions)
	}
	for i, s := range want {
		if store.transitions[i] != s {
			t.Fatalf("transition %d: expected %s, got %s", i, s, store.transitions[i])
		}
	}

	if len(store.positions) != 25 {
		t.Fatalf("expected 25 position ticks, got %d", len(store.positions))
	}
	if !store.completed {
		t.Fatal("expected completion")
	}
	if store.final != o.Delivery() {
		t.Fatalf("expected final position at delivery %+v, got %+v", o.Delivery(), store.final)
	}
}

func TestSession_StationScript_FullRun(t *testing.T) {
	store := newFakeStore()
	runSession(t, common.PickupStation, store, tracking.DefaultConfig())

	want := []order.Status{order.StatusAtStation, order.StatusPickedUp, order.StatusInTransit}
	if len(store.transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(store.transitions), store.transitions)
	}
	for i, s := range want {
		if store.transitions[i] != s {
			t.Fatalf("transition %d: expected %s, got %s", i, s, store.transitions[i])
		}
	}
	if !store.completed {
		t.Fatal("expected completion")
	}
}

func TestSession_FinalTickLandsExactlyOnDelivery(t *testing.T) {
	store := newFakeStore()
	o, _ := runSession(t, common.PickupHome, store, tracking.DefaultConfig())

	last := store.positions[len(store.positions)-1]
	if last != o.Delivery() {
		t.Fatalf("expected last tick at delivery coordinates %+v, got %+v", o.Delivery(), last)
	}
}

func TestSession_PositionsProgressTowardsDelivery(t *testing.T) {
	store := newFakeStore()
	o, _ := runSession(t, common.PickupHome, store, tracking.DefaultConfig())

	prev := -1.0
	for i, pos := range store.positions {
		travelled := common.HaversineDistance(o.Pickup(), pos)
		if travelled <= prev {
			t.Fatalf("tick %d did not progress: %f <= %f", i, travelled, prev)
		}
		prev = travelled
	}
}

func TestSession_ElapsedVirtualTime(t *testing.T) {
	store := newFakeStore()
	cfg := tracking.DefaultConfig()
	_, clock := runSession(t, common.PickupHome, store, cfg)

	// Flight starts at the 8s picked-up step; the last tick and completion
	// land 25 intervals later.
	want := 8*time.Second + time.Duration(cfg.Steps)*cfg.TickInterval
	if got := clock.Now().Sub(time.Unix(0, 0)); got != want {
		t.Fatalf("expected %s of virtual time, got %s", want, got)
	}
}

func TestSession_CancellationStopsWrites(t *testing.T) {
	store := newFakeStore()
	store.cancelAfter = 5

	runSession(t, common.PickupHome, store, tracking.DefaultConfig())

	if store.completed {
		t.Fatal("expected no completion after cancellation")
	}
	if store.writes > 5 {
		t.Fatalf("expected writes to stop after cancellation, got %d", store.writes)
	}
}

func TestSession_AlreadyCancelledOrder_NeverWrites(t *testing.T) {
	store := newFakeStore()
	store.status = order.StatusCancelled

	o := newPendingOrder(common.PickupHome)
	clock := tracking.NewImmediateClock()
	sess := tracking.NewSession(o, 50, tracking.DefaultConfig(), store, clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess.Run(ctx)

	if store.writes != 0 {
		t.Fatalf("expected no writes for a cancelled order, got %d", store.writes)
	}
}

func TestSession_ShortConfig(t *testing.T) {
	store := newFakeStore()
	cfg := tracking.DefaultConfig()
	cfg.Steps = 4
	cfg.TickInterval = time.Second

	o, _ := runSession(t, common.PickupStation, store, cfg)

	if len(store.positions) != 4 {
		t.Fatalf("expected 4 ticks, got %d", len(store.positions))
	}
	mid := store.positions[1]
	wantMid := common.Lerp(o.Pickup(), o.Delivery(), 0.5)
	if mid != wantMid {
		t.Fatalf("expected tick 2 at midpoint %+v, got %+v", wantMid, mid)
	}
}

package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"skyparcel/internal/common"
	"skyparcel/internal/drone"
	domainerrors "skyparcel/internal/errors"
	"skyparcel/internal/events"
	"skyparcel/internal/matching"
)

// TxCoordinator runs the order/drone state changes that must land together.
// Implemented by the delivery package; declared locally to avoid the import
// cycle.
type TxCoordinator interface {
	CreateOrderAndReserveDrone(ctx context.Context, o *Order) error
	CompleteAndRelease(ctx context.Context, o *Order) error
	CancelAndRelease(ctx context.Context, o *Order) error
}

// Simulator owns the tracking session lifecycle for an order. Implemented by
// the tracking package.
type Simulator interface {
	Start(o *Order)
	Stop(orderID string)
}

type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetByToken(ctx context.Context, orderID string) (*Order, error)
	UpdatePosition(ctx context.Context, orderID string, lat, lng float64) (*Order, error)
	CompleteOrder(ctx context.Context, orderID string, final common.Location) (*Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	ListAll(ctx context.Context, status *Status, page, limit int) ([]*Order, int, error)

	// Tracking write path; the simulator is the only caller during an
	// active delivery window.
	GetStatus(ctx context.Context, orderID string) (Status, error)
	Transition(ctx context.Context, orderID string, next Status) error
	RecordPosition(ctx context.Context, orderID string, pos common.Location) error
	RecordCompletion(ctx context.Context, orderID string, final common.Location) error
}

type service struct {
	repo        Repository
	db          *sqlx.DB
	drones      drone.Service
	coordinator TxCoordinator
	simulator   Simulator
	publisher   events.Publisher
	pricer      matching.Pricer
	minLeadTime time.Duration
}

func NewOrderService(
	repo Repository,
	db *sqlx.DB,
	drones drone.Service,
	coordinator TxCoordinator,
	publisher events.Publisher,
	pricer matching.Pricer,
	minLeadTime time.Duration,
) *service {
	return &service{
		repo:        repo,
		db:          db,
		drones:      drones,
		coordinator: coordinator,
		publisher:   publisher,
		pricer:      pricer,
		minLeadTime: minLeadTime,
	}
}

// SetSimulator breaks the construction cycle: the tracking manager needs the
// order store and the order service needs the manager.
func (s *service) SetSimulator(sim Simulator) {
	s.simulator = sim
}

// -------------------------------------------------------------------------------------------------
func (s *service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	mode := common.PickupMode(req.PickupMode)
	if !mode.Valid() {
		return nil, domainerrors.NewValidation("pickup_mode must be 'home' or 'station'")
	}
	if !drone.ValidCategory(drone.Category(req.Parcel.Category)) {
		return nil, domainerrors.NewValidation("unknown parcel category " + req.Parcel.Category)
	}
	if req.Parcel.WeightKG <= 0 {
		return nil, domainerrors.NewValidation("parcel weight must be greater than zero")
	}
	if err := common.ValidateLatLng(req.Pickup.Coordinates.Lat, req.Pickup.Coordinates.Lng); err != nil {
		return nil, domainerrors.NewValidation(err.Error())
	}
	if err := common.ValidateLatLng(req.Delivery.Coordinates.Lat, req.Delivery.Coordinates.Lng); err != nil {
		return nil, domainerrors.NewValidation(err.Error())
	}
	if req.ScheduledAt.Before(time.Now().Add(s.minLeadTime)) {
		return nil, domainerrors.ScheduleViolation(s.minLeadTime.String())
	}

	d, err := s.drones.GetByID(ctx, req.DroneID)
	if err != nil {
		return nil, domainerrors.DroneNotFound(req.DroneID.String())
	}

	// Trip distance always derives from the actual coordinates.
	distanceKM := common.HaversineDistance(req.Pickup.Coordinates, req.Delivery.Coordinates)
	if distanceKM <= 0 {
		return nil, domainerrors.NewValidation("pickup and delivery locations must differ")
	}
	if !d.CanCarry(req.Parcel.WeightKG) || !d.CanReach(distanceKM) {
		return nil, domainerrors.NewConflict("selected drone cannot handle this parcel")
	}

	quote, err := s.pricer.Quote(d, distanceKM, mode)
	if err != nil {
		return nil, err
	}

	o := NewOrder(TripFacts{
		Parcel:      req.Parcel,
		Pickup:      req.Pickup,
		Delivery:    req.Delivery,
		DroneID:     d.ID,
		PickupMode:  mode,
		ScheduledAt: req.ScheduledAt,
		DistanceKM:  distanceKM,
	})
	o.BaseFare = quote.BaseFare
	o.DistanceFare = quote.DistanceFare
	o.PickupFee = quote.PickupFee
	o.TotalFare = quote.Total
	o.EstimatedMinutes = matching.EstimateMinutes(distanceKM, d.SpeedKMH)

	if err := s.coordinator.CreateOrderAndReserveDrone(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderCreated, o.OrderID, map[string]any{
		"order_id":    o.OrderID,
		"drone_id":    o.DroneID,
		"status":      o.Status,
		"distance_km": o.DistanceKM,
		"total_fare":  o.TotalFare,
	})

	if s.simulator != nil {
		s.simulator.Start(o)
	}

	return o, nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) GetByToken(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repo.GetByToken(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.OrderNotFound(orderID)
	}
	return o, nil
}

// -------------------------------------------------------------------------------------------------
// UpdatePosition is the external write boundary; unlike the simulator path it
// rejects out-of-range coordinates.
func (s *service) UpdatePosition(ctx context.Context, orderID string, lat, lng float64) (*Order, error) {
	if err := common.ValidateLatLng(lat, lng); err != nil {
		return nil, domainerrors.NewValidation(err.Error())
	}

	o, err := s.repo.GetByToken(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.OrderNotFound(orderID)
	}
	o.RecordPosition(common.NewLocation(lat, lng))
	if err := s.repo.Update(ctx, s.db, o); err != nil {
		return nil, domainerrors.NewPersistence("failed to record position", err)
	}
	return o, nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) CompleteOrder(ctx context.Context, orderID string, final common.Location) (*Order, error) {
	o, err := s.repo.GetByToken(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.OrderNotFound(orderID)
	}
	alreadyDelivered := o.Status == StatusDelivered
	if err := o.Complete(final); err != nil {
		return nil, err
	}
	if alreadyDelivered {
		return o, nil
	}
	if err := s.coordinator.CompleteAndRelease(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderDelivered, o.OrderID, map[string]any{
		"order_id": o.OrderID,
		"status":   o.Status,
		"position": o.Position(),
	})

	return o, nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) CancelOrder(ctx context.Context, orderID string) error {
	o, err := s.repo.GetByToken(ctx, s.db, orderID)
	if err != nil {
		return domainerrors.OrderNotFound(orderID)
	}
	if err := o.Cancel(); err != nil {
		return err
	}
	if err := s.coordinator.CancelAndRelease(ctx, o); err != nil {
		return err
	}

	// Stop the simulator after the status is durable so a racing tick
	// observes the cancellation.
	if s.simulator != nil {
		s.simulator.Stop(orderID)
	}

	s.publish(ctx, events.EventOrderCancelled, o.OrderID, map[string]any{
		"order_id": o.OrderID,
		"status":   o.Status,
	})

	return nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) ListAll(ctx context.Context, status *Status, page, limit int) ([]*Order, int, error) {
	return s.repo.ListAll(ctx, s.db, status, page, limit)
}

// -------------------------------------------------------------------------------------------------
func (s *service) GetStatus(ctx context.Context, orderID string) (Status, error) {
	status, err := s.repo.GetStatus(ctx, s.db, orderID)
	if err != nil {
		return "", domainerrors.OrderNotFound(orderID)
	}
	return status, nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) Transition(ctx context.Context, orderID string, next Status) error {
	o, err := s.repo.GetByToken(ctx, s.db, orderID)
	if err != nil {
		return domainerrors.OrderNotFound(orderID)
	}
	if err := o.AdvanceTo(next); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, s.db, o); err != nil {
		return domainerrors.NewPersistence("failed to persist transition", err)
	}

	s.publish(ctx, events.EventOrderStatusChanged, o.OrderID, map[string]any{
		"order_id": o.OrderID,
		"status":   o.Status,
	})

	return nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) RecordPosition(ctx context.Context, orderID string, pos common.Location) error {
	if err := s.repo.UpdatePosition(ctx, s.db, orderID, pos.Lat, pos.Lng); err != nil {
		return domainerrors.NewPersistence("failed to record position", err)
	}

	s.publish(ctx, events.EventOrderPositionUpdated, orderID, map[string]any{
		"order_id": orderID,
		"position": pos,
	})

	return nil
}

// -------------------------------------------------------------------------------------------------
func (s *service) RecordCompletion(ctx context.Context, orderID string, final common.Location) error {
	_, err := s.CompleteOrder(ctx, orderID, final)
	return err
}

// -------------------------------------------------------------------------------------------------
func (s *service) publish(ctx context.Context, eventType, orderID string, payload map[string]any) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, orderID, payload)); err != nil {
		slog.WarnContext(ctx, "event publish failed",
			slog.String("event", eventType),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
}

var _ Service = (*service)(nil)

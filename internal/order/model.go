package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"

	"skyparcel/internal/common"
	domainerrors "skyparcel/internal/errors"
)

// NewToken mints the externally visible order id: a short alphanumeric token
// with a recognizable prefix, unique per creation instant.
func NewToken() string {
	return "DRN" + strings.ToUpper(cuid.Slug())
}

type TripFacts struct {
	Parcel      ParcelInput
	Pickup      LocationInput
	Delivery    LocationInput
	DroneID     uuid.UUID
	PickupMode  common.PickupMode
	ScheduledAt time.Time
	DistanceKM  float64
}

func NewOrder(facts TripFacts) *Order {
	now := time.Now()
	return &Order{
		ID:                uuid.New(),
		OrderID:           NewToken(),
		ParcelTitle:       facts.Parcel.Title,
		ParcelCategory:    facts.Parcel.Category,
		ParcelWeightKG:    facts.Parcel.WeightKG,
		ParcelDescription: facts.Parcel.Description,
		PickupAddress:     facts.Pickup.Address,
		PickupLat:         facts.Pickup.Coordinates.Lat,
		PickupLng:         facts.Pickup.Coordinates.Lng,
		DeliveryAddress:   facts.Delivery.Address,
		DeliveryLat:       facts.Delivery.Coordinates.Lat,
		DeliveryLng:       facts.Delivery.Coordinates.Lng,
		DroneID:           facts.DroneID,
		PickupMode:        facts.PickupMode,
		ScheduledAt:       facts.ScheduledAt,
		DistanceKM:        facts.DistanceKM,
		Status:            StatusPending,
		DroneLat:          facts.Pickup.Coordinates.Lat,
		DroneLng:          facts.Pickup.Coordinates.Lng,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (o *Order) Pickup() common.Location {
	return common.NewLocation(o.PickupLat, o.PickupLng)
}

func (o *Order) Delivery() common.Location {
	return common.NewLocation(o.DeliveryLat, o.DeliveryLng)
}

func (o *Order) Position() common.Location {
	return common.NewLocation(o.DroneLat, o.DroneLng)
}

// AdvanceTo moves the lifecycle strictly forward. Backward or sideways
// transitions are rejected, as is any transition out of a terminal state.
func (o *Order) AdvanceTo(next Status) error {
	if o.Status.IsTerminal() {
		return domainerrors.OrderInvalidTransition(string(o.Status), string(next))
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return domainerrors.NewValidation("unknown order status " + string(next))
	}
	if nextRank <= statusRank[o.Status] {
		return domainerrors.OrderInvalidTransition(string(o.Status), string(next))
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel is allowed from any pre-delivery state.
func (o *Order) Cancel() error {
	if o.Status.IsTerminal() {
		return domainerrors.OrderAlreadyTerminal(string(o.Status))
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// RecordPosition overwrites the live drone position. The tracking simulator
// is the trusted writer; bounds checks happen at the HTTP boundary.
func (o *Order) RecordPosition(loc common.Location) {
	o.DroneLat = loc.Lat
	o.DroneLng = loc.Lng
	o.UpdatedAt = time.Now()
}

// Complete marks the order delivered at the final position. Idempotent when
// already delivered.
func (o *Order) Complete(final common.Location) error {
	if o.Status == StatusDelivered {
		return nil
	}
	if o.Status == StatusCancelled {
		return domainerrors.OrderAlreadyTerminal(string(o.Status))
	}
	o.Status = StatusDelivered
	o.DroneLat = final.Lat
	o.DroneLng = final.Lng
	o.UpdatedAt = time.Now()
	return nil
}

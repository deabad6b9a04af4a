package order

import (
	"time"

	"github.com/google/uuid"

	"skyparcel/internal/common"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusPickupEnroute Status = "pickup-enroute"
	StatusAtStation     Status = "at-station"
	StatusPickedUp      Status = "picked-up"
	StatusInTransit     Status = "in-transit"
	StatusDelivered     Status = "delivered"
	StatusCancelled     Status = "cancelled"
)

// statusRank orders the forward-only lifecycle. The two rank-1 states belong
// to different pickup-mode scripts and never both occur for one order.
var statusRank = map[Status]int{
	StatusPending:       0,
	StatusPickupEnroute: 1,
	StatusAtStation:     1,
	StatusPickedUp:      2,
	StatusInTransit:     3,
	StatusDelivered:     4,
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID      uuid.UUID `db:"id" json:"-"`
	OrderID string    `db:"order_id" json:"order_id"`

	ParcelTitle       string  `db:"parcel_title" json:"parcel_title"`
	ParcelCategory    string  `db:"parcel_category" json:"parcel_category"`
	ParcelWeightKG    float64 `db:"parcel_weight_kg" json:"parcel_weight_kg"`
	ParcelDescription string  `db:"parcel_description" json:"parcel_description,omitempty"`

	PickupAddress   string  `db:"pickup_address" json:"pickup_address"`
	PickupLat       float64 `db:"pickup_lat" json:"pickup_lat"`
	PickupLng       float64 `db:"pickup_lng" json:"pickup_lng"`
	DeliveryAddress string  `db:"delivery_address" json:"delivery_address"`
	DeliveryLat     float64 `db:"delivery_lat" json:"delivery_lat"`
	DeliveryLng     float64 `db:"delivery_lng" json:"delivery_lng"`

	DroneID     uuid.UUID         `db:"drone_id" json:"drone_id"`
	PickupMode  common.PickupMode `db:"pickup_mode" json:"pickup_mode"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	DistanceKM  float64           `db:"distance_km" json:"distance_km"`

	BaseFare     float64 `db:"base_fare" json:"base_fare"`
	DistanceFare float64 `db:"distance_fare" json:"distance_fare"`
	PickupFee    float64 `db:"pickup_fee" json:"pickup_fee"`
	TotalFare    float64 `db:"total_fare" json:"total_fare"`

	Status           Status  `db:"status" json:"status"`
	DroneLat         float64 `db:"drone_lat" json:"drone_lat"`
	DroneLng         float64 `db:"drone_lng" json:"drone_lng"`
	EstimatedMinutes int     `db:"estimated_minutes" json:"estimated_minutes"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type LocationInput struct {
	Address     string          `json:"address" binding:"required"`
	Coordinates common.Location `json:"coordinates" binding:"required"`
}

type ParcelInput struct {
	Title       string  `json:"title" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	WeightKG    float64 `json:"weight_kg" binding:"required"`
	Description string  `json:"description"`
}

type CreateOrderRequest struct {
	Parcel      ParcelInput   `json:"parcel" binding:"required"`
	Pickup      LocationInput `json:"pickup" binding:"required"`
	Delivery    LocationInput `json:"delivery" binding:"required"`
	DroneID     uuid.UUID     `json:"drone_id" binding:"required"`
	PickupMode  string        `json:"pickup_mode" binding:"required"`
	ScheduledAt time.Time     `json:"scheduled_at" binding:"required"`
}

type UpdatePositionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CompleteOrderRequest struct {
	FinalPosition common.Location `json:"final_position" binding:"required"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

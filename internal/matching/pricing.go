package matching

import (
	"math"

	"skyparcel/internal/common"
	"skyparcel/internal/drone"
	domainerrors "skyparcel/internal/errors"
)

// Quote is the price breakdown for one drone/trip/pickup-mode combination.
type Quote struct {
	BaseFare     float64 `json:"base_fare"`
	DistanceFare float64 `json:"distance_fare"`
	PickupFee    float64 `json:"pickup_fee"`
	Total        float64 `json:"total"`
}

// Pricer computes quotes from the two platform constants. Neither depends on
// the drone; only the distance fare does.
type Pricer struct {
	BaseFare      float64
	HomePickupFee float64
}

func (p Pricer) Quote(d *drone.Drone, tripDistanceKM float64, mode common.PickupMode) (Quote, error) {
	if tripDistanceKM <= 0 {
		return Quote{}, domainerrors.NewValidation("trip distance must be greater than zero")
	}

	q := Quote{
		BaseFare:     p.BaseFare,
		DistanceFare: tripDistanceKM * d.RatePerKM,
	}
	if mode == common.PickupHome {
		q.PickupFee = p.HomePickupFee
	}
	q.Total = q.BaseFare + q.DistanceFare + q.PickupFee
	return q, nil
}

// EstimateMinutes returns the whole-minute flight estimate for a trip.
func EstimateMinutes(distanceKM, speedKMH float64) int {
	if speedKMH <= 0 {
		return 0
	}
	return int(math.Round(distanceKM / speedKMH * 60))
}

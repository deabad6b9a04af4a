package matching

import (
	"fmt"
	"sort"

	"skyparcel/internal/drone"
	domainerrors "skyparcel/internal/errors"
)

// Request describes the parcel a customer wants flown. It is transient input
// to the engine and never persisted.
type Request struct {
	Category       drone.Category
	WeightKG       float64
	TripDistanceKM float64
}

func (r Request) Validate() error {
	if !drone.ValidCategory(r.Category) {
		return domainerrors.NewValidation(fmt.Sprintf("unknown parcel category %q", r.Category))
	}
	if r.WeightKG <= 0 {
		return domainerrors.NewValidation("weight must be greater than zero")
	}
	if r.TripDistanceKM <= 0 {
		return domainerrors.NewValidation("trip distance must be greater than zero")
	}
	return nil
}

// Match is the engine's ranked recommendation. CategoryRelaxed marks a
// best-effort fallback where the drone can physically carry and reach the
// parcel but is not certified for its category.
type Match struct {
	Primary         *drone.Drone `json:"primary"`
	Alternatives    []*drone.Drone `json:"alternatives"`
	CategoryRelaxed bool         `json:"category_relaxed"`
	Message         string       `json:"message,omitempty"`
}

// Recommend filters the catalog against the request and ranks candidates by
// rate per km, cheapest first. The policy degrades in three tiers: a strict
// match on payload, range and category; a capability-only fallback that
// ignores category; and failure. Capability constraints are never relaxed.
func Recommend(req Request, catalog []*drone.Drone) (*Match, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	available := make([]*drone.Drone, 0, len(catalog))
	for _, d := range catalog {
		if d.IsAvailable() {
			available = append(available, d)
		}
	}
	if len(available) == 0 {
		return nil, domainerrors.NoDronesAvailable()
	}

	var strict, fallback []*drone.Drone
	for _, d := range available {
		if !d.CanCarry(req.WeightKG) || !d.CanReach(req.TripDistanceKM) {
			continue
		}
		fallback = append(fallback, d)
		if d.Supports(req.Category) {
			strict = append(strict, d)
		}
	}

	if len(strict) > 0 {
		ranked := rankByRate(strict)
		return &Match{
			Primary:      ranked[0],
			Alternatives: alternatives(ranked),
		}, nil
	}

	if len(fallback) > 0 {
		ranked := rankByRate(fallback)
		return &Match{
			Primary:         ranked[0],
			Alternatives:    alternatives(ranked),
			CategoryRelaxed: true,
			Message:         fmt.Sprintf("No exact match found for %s, but this drone can handle your package.", req.Category),
		}, nil
	}

	return nil, domainerrors.NoSuitableDrone(req.WeightKG, req.TripDistanceKM, string(req.Category))
}

// rankByRate sorts ascending by rate per km; ties keep catalog order.
func rankByRate(drones []*drone.Drone) []*drone.Drone {
	ranked := make([]*drone.Drone, len(drones))
	copy(ranked, drones)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RatePerKM < ranked[j].RatePerKM
	})
	return ranked
}

func alternatives(ranked []*drone.Drone) []*drone.Drone {
	if len(ranked) <= 1 {
		return []*drone.Drone{}
	}
	end := 3
	if len(ranked) < end {
		end = len(ranked)
	}
	return ranked[1:end]
}

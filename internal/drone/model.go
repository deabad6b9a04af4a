package drone

import (
	"time"

	domainerrors "skyparcel/internal/errors"
)

func (d *Drone) IsAvailable() bool {
	return d.Status == StatusAvailable
}

func (d *Drone) Supports(c Category) bool {
	for _, s := range d.Categories {
		if Category(s) == c {
			return true
		}
	}
	return false
}

func (d *Drone) CanCarry(weightKG float64) bool {
	return d.MaxWeightKG >= weightKG
}

func (d *Drone) CanReach(distanceKM float64) bool {
	return d.MaxRangeKM >= distanceKM
}

// Reserve takes the drone out of the catalog for the duration of a delivery.
func (d *Drone) Reserve() error {
	if d.Status != StatusAvailable {
		return domainerrors.DroneNotAvailable(d.ID.String())
	}
	d.Status = StatusInUse
	d.UpdatedAt = time.Now()
	return nil
}

// Release returns the drone to the catalog after a delivery ends.
func (d *Drone) Release() error {
	if d.Status != StatusInUse {
		return domainerrors.DroneInvalidTransition(string(d.Status), string(StatusAvailable))
	}
	d.Status = StatusAvailable
	d.UpdatedAt = time.Now()
	return nil
}

// SetOperationalStatus moves the drone between available and maintenance.
// A drone mid-delivery cannot be retargeted.
func (d *Drone) SetOperationalStatus(status Status) error {
	if status != StatusAvailable && status != StatusMaintenance {
		return domainerrors.NewValidation("status must be 'available' or 'maintenance'")
	}
	if d.Status == StatusInUse {
		return domainerrors.NewConflict("drone is mid-delivery")
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}

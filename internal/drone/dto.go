package drone

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusInUse       Status = "in-use"
	StatusMaintenance Status = "maintenance"
)

// Category is a parcel class a drone is certified to carry.
type Category string

const (
	CategoryDocuments   Category = "documents"
	CategoryElectronics Category = "electronics"
	CategoryFood        Category = "food"
	CategoryMedicines   Category = "medicines"
	CategoryFragile     Category = "fragile"
	CategoryHeavy       Category = "heavy"
)

var allCategories = map[Category]bool{
	CategoryDocuments:   true,
	CategoryElectronics: true,
	CategoryFood:        true,
	CategoryMedicines:   true,
	CategoryFragile:     true,
	CategoryHeavy:       true,
}

func ValidCategory(c Category) bool {
	return allCategories[c]
}

type Drone struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Model       string         `db:"model" json:"model"`
	MaxWeightKG float64        `db:"max_weight_kg" json:"max_weight_kg"`
	MaxRangeKM  float64        `db:"max_range_km" json:"max_range_km"`
	SpeedKMH    float64        `db:"speed_kmh" json:"speed_kmh"`
	BatteryLife string         `db:"battery_life" json:"battery_life"`
	Description string         `db:"description" json:"description"`
	RatePerKM   float64        `db:"rate_per_km" json:"rate_per_km"`
	Categories  pq.StringArray `db:"categories" json:"categories"`
	Status      Status         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

type ListDronesResponse struct {
	Drones []*Drone `json:"drones"`
}

package tracking

import (
	"time"

	"skyparcel/internal/common"
	"skyparcel/internal/order"
)

// PhaseStep is one scripted status transition. Offsets are absolute from
// simulation start, not relative to the previous step; they are presentation
// cadence, not derived from trip distance.
type PhaseStep struct {
	Offset       time.Duration
	Status       order.Status
	Message      string
	ETA          string
	StartsFlight bool
}

// Config carries the scripts and tick parameters for a tracking session.
type Config struct {
	Steps        int
	TickInterval time.Duration
	Home         []PhaseStep
	Station      []PhaseStep
}

func DefaultConfig() Config {
	return Config{
		Steps:        25,
		TickInterval: 2 * time.Second,
		Home: []PhaseStep{
			{Offset: 2 * time.Second, Status: order.StatusPickupEnroute, Message: "Drone heading to pickup location...", ETA: "5-8 minutes"},
			{Offset: 8 * time.Second, Status: order.StatusPickedUp, Message: "Package picked up! Heading to destination...", ETA: "3-6 minutes", StartsFlight: true},
			{Offset: 12 * time.Second, Status: order.StatusInTransit, Message: "Drone flying to your location!", ETA: "2-4 minutes"},
		},
		Station: []PhaseStep{
			{Offset: 1 * time.Second, Status: order.StatusAtStation, Message: "Package received at station...", ETA: "2-3 minutes"},
			{Offset: 4 * time.Second, Status: order.StatusPickedUp, Message: "Package loaded in drone!", ETA: "3-5 minutes"},
			{Offset: 7 * time.Second, Status: order.StatusInTransit, Message: "Drone starting delivery flight!", ETA: "2-4 minutes", StartsFlight: true},
		},
	}
}

func (c Config) script(mode common.PickupMode) []PhaseStep {
	if mode == common.PickupHome {
		return c.Home
	}
	return c.Station
}

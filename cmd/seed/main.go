package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/lib/pq"

	"skyparcel/config"
	"skyparcel/internal/drone"
	pg "skyparcel/internal/repo/postgres"
)

// The base fleet mirrors the launch catalog: one light courier, one mid-range
// workhorse and one heavy lifter, so every parcel category has at least one
// certified drone.
func baseFleet(now time.Time) []*drone.Drone {
	return []*drone.Drone{
		{
			ID:          uuid.New(),
			Name:        "SwiftCourier",
			Model:       "SC-100",
			MaxWeightKG: 2,
			MaxRangeKM:  15,
			SpeedKMH:    60,
			BatteryLife: "30 minutes",
			Description: "Light courier for documents and small medical deliveries.",
			RatePerKM:   8,
			Categories:  pq.StringArray{"documents", "medicines"},
			Status:      drone.StatusAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Name:        "CargoDrone Pro",
			Model:       "CD-500",
			MaxWeightKG: 5,
			MaxRangeKM:  25,
			SpeedKMH:    50,
			BatteryLife: "45 minutes",
			Description: "Mid-range workhorse for electronics, food and medicines.",
			RatePerKM:   12,
			Categories:  pq.StringArray{"electronics", "food", "medicines"},
			Status:      drone.StatusAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Name:        "HeavyLifter Max",
			Model:       "HL-900",
			MaxWeightKG: 10,
			MaxRangeKM:  30,
			SpeedKMH:    40,
			BatteryLife: "60 minutes",
			Description: "Heavy-duty carrier for bulky and fragile payloads.",
			RatePerKM:   18,
			Categories:  pq.StringArray{"heavy", "fragile", "electronics"},
			Status:      drone.StatusAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

var fake = faker.New()

func randomDrone(now time.Time) *drone.Drone {
	categories := []string{"documents", "electronics", "food", "medicines", "fragile", "heavy"}
	picked := pq.StringArray{}
	for _, c := range categories {
		if fake.Bool() {
			picked = append(picked, c)
		}
	}
	if len(picked) == 0 {
		picked = pq.StringArray{"documents"}
	}

	return &drone.Drone{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("%s %s", fake.Company().Name(), fake.Lorem().Word()),
		Model:       fmt.Sprintf("X-%d", fake.IntBetween(100, 999)),
		MaxWeightKG: float64(fake.IntBetween(1, 12)),
		MaxRangeKM:  float64(fake.IntBetween(10, 40)),
		SpeedKMH:    float64(fake.IntBetween(30, 80)),
		BatteryLife: fmt.Sprintf("%d minutes", fake.IntBetween(20, 90)),
		Description: fake.Lorem().Sentence(8),
		RatePerKM:   float64(fake.IntBetween(5, 25)),
		Categories:  picked,
		Status:      drone.StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func main() {
	extra := flag.Int("extra", 0, "number of randomized drones to add on top of the base fleet")
	force := flag.Bool("force", false, "seed even if drones already exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := pg.Connect(cfg.Postgres.DSN(), pg.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	if err := pg.RunMigrationsUp(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	ctx := context.Background()

	var existing int
	if err := db.GetContext(ctx, &existing, `SELECT COUNT(*) FROM drones`); err != nil {
		log.Fatalf("count drones: %v", err)
	}
	if existing > 0 && !*force {
		log.Printf("fleet already seeded (%d drones), use -force to add more", existing)
		return
	}

	repo := drone.NewRepository()
	now := time.Now()

	fleet := baseFleet(now)
	for i := 0; i < *extra; i++ {
		fleet = append(fleet, randomDrone(now))
	}

	for _, d := range fleet {
		if err := repo.Create(ctx, db, d); err != nil {
			log.Fatalf("seed drone %s: %v", d.Name, err)
		}
		log.Printf("seeded drone %s (%s) rate=%.0f/km categories=%v", d.Name, d.Model, d.RatePerKM, []string(d.Categories))
	}

	log.Printf("seeded %d drones", len(fleet))
}

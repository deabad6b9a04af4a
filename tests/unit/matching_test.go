package unit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"skyparcel/internal/drone"
	domainerrors "skyparcel/internal/errors"
	"skyparcel/internal/matching"
)

func testDrone(name string, maxWeight, maxRange, rate float64, categories ...string) *drone.Drone {
	return &drone.Drone{
		ID:          uuid.New(),
		Name:        name,
		MaxWeightKG: maxWeight,
		MaxRangeKM:  maxRange,
		SpeedKMH:    50,
		RatePerKM:   rate,
		Categories:  pq.StringArray(categories),
		Status:      drone.StatusAvailable,
	}
}

func testCatalog() []*drone.Drone {
	return []*drone.Drone{
		testDrone("SwiftCourier", 2, 15, 8, "documents", "medicines"),
		testDrone("CargoDrone Pro", 5, 25, 12, "electronics", "food", "medicines"),
		testDrone("HeavyLifter Max", 10, 30, 18, "heavy", "fragile", "electronics"),
	}
}

func TestRecommend_StrictMatch_CheapestFirst(t *testing.T) {
	req := matching.Request{Category: drone.CategoryMedicines, WeightKG: 1.5, TripDistanceKM: 10}

	match, err := matching.Recommend(req, testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if match.Primary.Name != "SwiftCourier" {
		t.Fatalf("expected SwiftCourier (cheapest certified), got %s", match.Primary.Name)
	}
	if match.CategoryRelaxed {
		t.Fatal("expected strict match, got relaxed")
	}
	if len(match.Alternatives) != 1 || match.Alternatives[0].Name != "CargoDrone Pro" {
		t.Fatalf("expected CargoDrone Pro as only alternative, got %+v", match.Alternatives)
	}
}

func TestRecommend_TwoDroneCatalog_StrictDocuments(t *testing.T) {
	catalog := []*drone.Drone{
		testDrone("DroneA", 2, 15, 8, "documents"),
		testDrone("DroneB", 5, 25, 12, "electronics"),
	}

	req := matching.Request{Category: drone.CategoryDocuments, WeightKG: 1, TripDistanceKM: 10}
	match, err := matching.Recommend(req, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Primary.Name != "DroneA" {
		t.Fatalf("expected DroneA, got %s", match.Primary.Name)
	}
	if len(match.Alternatives) != 0 {
		t.Fatalf("expected no alternatives, got %d", len(match.Alternatives))
	}
	if match.CategoryRelaxed {
		t.Fatal("expected strict match")
	}
}

func TestRecommend_TwoDroneCatalog_FoodFallsBackToCheapest(t *testing.T) {
	catalog := []*drone.Drone{
		testDrone("DroneA", 2, 15, 8, "documents"),
		testDrone("DroneB", 5, 25, 12, "electronics"),
	}

	// Nobody carries food; both can physically handle the parcel, so the
	// cheaper drone wins as a relaxed match.
	req := matching.Request{Category: drone.CategoryFood, WeightKG: 1, TripDistanceKM: 10}
	match, err := matching.Recommend(req, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match.CategoryRelaxed {
		t.Fatal("expected relaxed match")
	}
	if match.Primary.Name != "DroneA" {
		t.Fatalf("expected DroneA (cheaper), got %s", match.Primary.Name)
	}
	if len(match.Alternatives) != 1 || match.Alternatives[0].Name != "DroneB" {
		t.Fatalf("expected DroneB as alternative, got %+v", match.Alternatives)
	}
}

func TestRecommend_CapabilityFiltersBeforeCategory(t *testing.T) {
	// 4kg medicines: SwiftCourier is certified but too weak, CargoDrone wins.
	req := matching.Request{Category: drone.CategoryMedicines, WeightKG: 4, TripDistanceKM: 10}

	match, err := matching.Recommend(req, testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Primary.Name != "CargoDrone Pro" {
		t.Fatalf("expected CargoDrone Pro, got %s", match.Primary.Name)
	}
	if match.CategoryRelaxed {
		t.Fatal("expected strict match")
	}
}

func TestRecommend_RelaxedFallback(t *testing.T) {
	// 8kg documents: nobody is certified for documents at that weight, but
	// HeavyLifter can physically carry it.
	req := matching.Request{Category: drone.CategoryDocuments, WeightKG: 8, TripDistanceKM: 10}

	match, err := matching.Recommend(req, testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !match.CategoryRelaxed {
		t.Fatal("expected relaxed match flag")
	}
	if match.Primary.Name != "HeavyLifter Max" {
		t.Fatalf("expected HeavyLifter Max, got %s", match.Primary.Name)
	}
	if match.Message == "" {
		t.Fatal("expected explanatory message on relaxed match")
	}
}

func TestRecommend_NoSuitableDrone(t *testing.T) {
	req := matching.Request{Category: drone.CategoryHeavy, WeightKG: 50, TripDistanceKM: 10}

	_, err := matching.Recommend(req, testCatalog())
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := err.(*domainerrors.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if de.Code != domainerrors.ErrNoSuitableDrone {
		t.Fatalf("expected NO_SUITABLE_DRONE, got %s", de.Code)
	}
}

func TestRecommend_RangeExceeded(t *testing.T) {
	req := matching.Request{Category: drone.CategoryDocuments, WeightKG: 1, TripDistanceKM: 100}

	_, err := matching.Recommend(req, testCatalog())
	if err == nil {
		t.Fatal("expected error for out-of-range trip")
	}
	de := err.(*domainerrors.DomainError)
	if de.Code != domainerrors.ErrNoSuitableDrone {
		t.Fatalf("expected NO_SUITABLE_DRONE, got %s", de.Code)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	req := matching.Request{Category: drone.CategoryDocuments, WeightKG: 1, TripDistanceKM: 5}

	_, err := matching.Recommend(req, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	de := err.(*domainerrors.DomainError)
	if de.Code != domainerrors.ErrNoDronesAvailable {
		t.Fatalf("expected NO_DRONES_AVAILABLE, got %s", de.Code)
	}
}

func TestRecommend_SkipsNonAvailableDrones(t *testing.T) {
	catalog := testCatalog()
	catalog[0].Status = drone.StatusInUse

	req := matching.Request{Category: drone.CategoryMedicines, WeightKG: 1, TripDistanceKM: 10}
	match, err := matching.Recommend(req, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Primary.Name != "CargoDrone Pro" {
		t.Fatalf("expected CargoDrone Pro when SwiftCourier is in use, got %s", match.Primary.Name)
	}
}

func TestRecommend_AlternativesCappedAtTwo(t *testing.T) {
	catalog := append(testCatalog(),
		testDrone("Spare-1", 10, 40, 20, "documents"),
		testDrone("Spare-2", 10, 40, 22, "documents"),
	)

	req := matching.Request{Category: drone.CategoryDocuments, WeightKG: 1, TripDistanceKM: 10}
	match, err := matching.Recommend(req, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(match.Alternatives) != 2 {
		t.Fatalf("expected exactly 2 alternatives, got %d", len(match.Alternatives))
	}
}

func TestRecommend_RankingIsStable(t *testing.T) {
	twinA := testDrone("Twin-A", 5, 25, 12, "food")
	twinB := testDrone("Twin-B", 5, 25, 12, "food")
	catalog := []*drone.Drone{twinA, twinB}

	req := matching.Request{Category: drone.CategoryFood, WeightKG: 1, TripDistanceKM: 10}
	match, err := matching.Recommend(req, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Primary.Name != "Twin-A" {
		t.Fatalf("expected tie to keep catalog order, got %s first", match.Primary.Name)
	}
}

func TestRecommend_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		req  matching.Request
	}{
		{"unknown category", matching.Request{Category: "livestock", WeightKG: 1, TripDistanceKM: 5}},
		{"zero weight", matching.Request{Category: drone.CategoryFood, WeightKG: 0, TripDistanceKM: 5}},
		{"negative distance", matching.Request{Category: drone.CategoryFood, WeightKG: 1, TripDistanceKM: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matching.Recommend(tc.req, testCatalog())
			if err == nil {
				t.Fatal("expected error")
			}
			de := err.(*domainerrors.DomainError)
			if de.Code != domainerrors.ErrValidation {
				t.Fatalf("expected VALIDATION, got %s", de.Code)
			}
		})
	}
}

package mongo

import (
	"testing"

	"fleetbook/internal/conflicts/repository"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	want := map[string]bool{
		repository.BookingsCollection:  true,
		repository.BlackoutsCollection: true,
		repository.ResourcesCollection: true,
	}

	defs := Collections()
	if len(defs) != len(want) {
		t.Fatalf("got %d collections, want %d", len(defs), len(want))
	}
	for _, def := range defs {
		if !want[def.Name] {
			t.Errorf("unexpected collection %q", def.Name)
		}
		if len(def.Indexes) == 0 {
			t.Errorf("%s has no indexes", def.Name)
		}
		if _, ok := def.Validator["$jsonSchema"]; !ok {
			t.Errorf("%s validator has no $jsonSchema", def.Name)
		}
	}
}

func TestBookingsIndexesCoverEveryFinder(t *testing.T) {
	leading := map[string]bool{}
	for _, idx := range BookingsIndexes {
		keys := idx.Keys.(bson.D)
		leading[keys[0].Key] = true
		if keys[1].Key != "date" {
			t.Errorf("index on %s should be followed by date, got %s", keys[0].Key, keys[1].Key)
		}
	}
	for _, field := range []string{"boat_id", "coach_ids", "driver_ids"} {
		if !leading[field] {
			t.Errorf("no index leads with %s", field)
		}
	}
}

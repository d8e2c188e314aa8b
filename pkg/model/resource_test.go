package model

import "testing"

func TestNameLookup(t *testing.T) {
	names := NameLookup([]*Resource{
		{ID: 1, Kind: KindCoach, Name: "Dana"},
		{ID: 3, Kind: KindCoach, Name: "Avi"},
	})

	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	if names[1] != "Dana" || names[3] != "Avi" {
		t.Errorf("names = %v", names)
	}
	if _, ok := names[2]; ok {
		t.Error("unexpected entry for id 2")
	}
}

func TestNameLookup_Empty(t *testing.T) {
	if names := NameLookup(nil); len(names) != 0 {
		t.Errorf("names = %v", names)
	}
}

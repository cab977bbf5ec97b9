package models

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestStartsAtCombinesDateAndTime(t *testing.T) {
	event := Event{
		Date: datatypes.Date(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)),
		Time: "20:00",
	}

	got, err := event.StartsAt(time.UTC)
	if err != nil {
		t.Fatalf("StartsAt: %v", err)
	}
	want := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartsAt = %v, want %v", got, want)
	}
}

func TestStartsAtAcceptsSeconds(t *testing.T) {
	event := Event{
		Date: datatypes.Date(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)),
		Time: "20:00:30",
	}

	got, err := event.StartsAt(time.UTC)
	if err != nil {
		t.Fatalf("StartsAt: %v", err)
	}
	if got.Second() != 30 {
		t.Fatalf("seconds not preserved: %v", got)
	}
}

func TestStartsAtRejectsGarbage(t *testing.T) {
	event := Event{
		Date: datatypes.Date(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)),
		Time: "öğleden sonra",
	}
	if _, err := event.StartsAt(time.UTC); err == nil {
		t.Fatal("unparseable time must fail")
	}
}

func TestLocationOmitsEmptyParts(t *testing.T) {
	cases := []struct {
		name  string
		venue *Venue
		city  *City
		want  string
	}{
		{"both", &Venue{Name: "AKM"}, &City{Name: "İstanbul"}, "AKM, İstanbul"},
		{"venue only", &Venue{Name: "AKM"}, nil, "AKM"},
		{"city only", nil, &City{Name: "İstanbul"}, "İstanbul"},
		{"neither", nil, nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Event{Venue: tc.venue, City: tc.city}
			if got := e.Location(); got != tc.want {
				t.Fatalf("Location() = %q, want %q", got, tc.want)
			}
		})
	}
}

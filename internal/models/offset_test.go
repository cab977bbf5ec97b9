package models

import (
	"testing"
	"time"
)

func TestOffsetTableDurations(t *testing.T) {
	want := map[ReminderOffset]time.Duration{
		Offset2Hours: 2 * time.Hour,
		Offset1Day:   24 * time.Hour,
		Offset2Days:  48 * time.Hour,
		Offset3Days:  72 * time.Hour,
		Offset1Week:  7 * 24 * time.Hour,
	}

	if len(OffsetTable) != len(want) {
		t.Fatalf("OffsetTable has %d entries, want %d", len(OffsetTable), len(want))
	}
	for _, spec := range OffsetTable {
		if want[spec.Key] != spec.Duration {
			t.Errorf("%s duration = %v, want %v", spec.Key, spec.Duration, want[spec.Key])
		}
		if spec.Label == "" {
			t.Errorf("%s has no label", spec.Key)
		}
	}
}

func TestOffsetByKey(t *testing.T) {
	spec, ok := OffsetByKey(Offset1Day)
	if !ok || spec.Duration != 24*time.Hour || spec.Label != "1 gün" {
		t.Fatalf("OffsetByKey(Offset1Day) = %+v, %v", spec, ok)
	}
	if _, ok := OffsetByKey("reminder_5m"); ok {
		t.Fatal("unknown key must not resolve")
	}
}

func TestReminderEnabledMatchesFlags(t *testing.T) {
	p := Profile{Reminder1D: true, Reminder1W: true}

	enabled := map[ReminderOffset]bool{
		Offset2Hours: false,
		Offset1Day:   true,
		Offset2Days:  false,
		Offset3Days:  false,
		Offset1Week:  true,
	}
	for key, want := range enabled {
		if got := p.ReminderEnabled(key); got != want {
			t.Errorf("ReminderEnabled(%s) = %v, want %v", key, got, want)
		}
	}
	if p.ReminderEnabled("reminder_5m") {
		t.Error("unknown key must be treated as disabled")
	}
}

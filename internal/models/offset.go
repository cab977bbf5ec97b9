package models

import "time"

// ReminderOffset identifies one of the supported reminder lead times. The
// value doubles as the offset_type column in reminder logs and matches the
// corresponding preference flag on Profile.
type ReminderOffset string

const (
	Offset2Hours ReminderOffset = "reminder_2h"
	Offset1Day   ReminderOffset = "reminder_1d"
	Offset2Days  ReminderOffset = "reminder_2d"
	Offset3Days  ReminderOffset = "reminder_3d"
	Offset1Week  ReminderOffset = "reminder_1w"
)

// OffsetSpec couples a reminder offset with its lead time and the Turkish
// label used in email subjects ("1 gün sonra" etc.).
type OffsetSpec struct {
	Key      ReminderOffset
	Duration time.Duration
	Label    string
}

// OffsetTable is the single source of truth for the supported lead times.
// Adding an offset means adding an entry here plus a matching boolean column
// on Profile and a case in Profile.ReminderEnabled.
var OffsetTable = []OffsetSpec{
	{Offset2Hours, 2 * time.Hour, "2 saat"},
	{Offset1Day, 24 * time.Hour, "1 gün"},
	{Offset2Days, 48 * time.Hour, "2 gün"},
	{Offset3Days, 72 * time.Hour, "3 gün"},
	{Offset1Week, 7 * 24 * time.Hour, "1 hafta"},
}

// OffsetByKey returns the spec for the given key, or false when the key is
// not one of the five supported offsets.
func OffsetByKey(key ReminderOffset) (OffsetSpec, bool) {
	for _, spec := range OffsetTable {
		if spec.Key == key {
			return spec, true
		}
	}
	return OffsetSpec{}, false
}

package availability

import (
	"sort"

	"marketplace/models"
)

// Overlaps reports whether two validated windows intersect. Windows on different
// calendar days never overlap; touching windows (a.End == b.Start) do not overlap.
func Overlaps(a, b models.TimeWindow) bool {
	if a.Date != b.Date {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// activeFor keeps the reservations that can block resourceID. The store is expected to
// return active rows only, but the flag is checked again here.
func activeFor(resourceID string, existing []models.Reservation) []models.Reservation {
	out := make([]models.Reservation, 0, len(existing))
	for _, r := range existing {
		if !r.IsActive || r.ResourceID != resourceID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// conflicts returns every active reservation of resourceID overlapping candidate.
func conflicts(resourceID string, candidate models.TimeWindow, existing []models.Reservation) []models.Reservation {
	var hits []models.Reservation
	for _, r := range activeFor(resourceID, existing) {
		if Overlaps(r.Window, candidate) {
			hits = append(hits, r)
		}
	}
	return hits
}

// FreeWindows returns the gaps of date not covered by an active reservation of resourceID.
func FreeWindows(resourceID, date string, existing []models.Reservation) []models.TimeWindow {
	free := []models.TimeWindow{}
	cursor := 0
	for _, w := range BookedWindows(resourceID, date, existing) {
		if w.Start > cursor {
			free = append(free, models.TimeWindow{Date: date, Start: cursor, End: w.Start})
		}
		if w.End > cursor {
			cursor = w.End
		}
	}
	if cursor < models.MinutesPerDay {
		free = append(free, models.TimeWindow{Date: date, Start: cursor, End: models.MinutesPerDay})
	}
	return free
}

// BookedWindows returns the windows of active reservations of resourceID on date, sorted by start.
func BookedWindows(resourceID, date string, existing []models.Reservation) []models.TimeWindow {
	booked := []models.TimeWindow{}
	for _, r := range activeFor(resourceID, existing) {
		if r.Window.Date == date {
			booked = append(booked, r.Window)
		}
	}
	sort.Slice(booked, func(i, j int) bool { return booked[i].Start < booked[j].Start })
	return booked
}

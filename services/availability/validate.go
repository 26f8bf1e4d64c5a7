package availability

import (
	"marketplace/models"
)

// Rules are the variant-specific constraints applied by ValidateWindow.
type Rules struct {
	Policy   CapacityPolicy // nil skips the quantity bound
	Quantity int            // guests for BoundedGuestCount, available tickets for FixedTotalCapacity
	EndDate  string         // FixedTotalCapacity only; empty means a single-day event
}

// ValidateWindow checks a candidate before any overlap evaluation. The first failing rule wins:
// a canonical YYYY-MM-DD date, time range, then (events) date range, then the quantity bound.
func ValidateWindow(w models.TimeWindow, rules Rules) error {
	if _, err := models.ParseDate(w.Date); err != nil {
		if rules.Policy != nil && rules.Policy.Variant() == VariantEvent {
			return newValidationError(KindInvalidDateRange, "eventDate", "%v", err)
		}
		return newValidationError(KindInvalidTimeRange, "date", "%v", err)
	}
	if w.Start < 0 || w.End > models.MinutesPerDay {
		return newValidationError(KindInvalidTimeRange, "startTime",
			"time window %s-%s falls outside the day", models.FormatClock(w.Start), models.FormatClock(w.End))
	}
	if w.End <= w.Start {
		return newValidationError(KindInvalidTimeRange, "endTime", "end time must be after start time")
	}

	if rules.Policy != nil && rules.Policy.Variant() == VariantEvent && rules.EndDate != "" {
		if err := validateDateRange(w.Date, rules.EndDate); err != nil {
			return err
		}
	}

	if rules.Policy != nil {
		if err := rules.Policy.checkQuantity(rules.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func validateDateRange(eventDate, endDate string) *ValidationError {
	start, err := models.ParseDate(eventDate)
	if err != nil {
		return newValidationError(KindInvalidDateRange, "eventDate", "%v", err)
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		return newValidationError(KindInvalidDateRange, "endDate", "%v", err)
	}
	if end.Before(start) {
		return newValidationError(KindInvalidDateRange, "endDate",
			"end date must be greater than or equal to the event date")
	}
	return nil
}

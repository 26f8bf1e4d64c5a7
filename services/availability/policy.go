package availability

// Variant names the listing family a capacity policy belongs to.
type Variant string

const (
	VariantBooking Variant = "booking"
	VariantEvent   Variant = "event"
)

// CapacityPolicy is one of BoundedGuestCount or FixedTotalCapacity.
type CapacityPolicy interface {
	Variant() Variant
	checkQuantity(quantity int) *ValidationError
}

// BoundedGuestCount admits a guest count within [Min, Max].
type BoundedGuestCount struct {
	Min int
	Max int
}

func (BoundedGuestCount) Variant() Variant { return VariantBooking }

func (p BoundedGuestCount) checkQuantity(guests int) *ValidationError {
	if p.Min < 0 || p.Max < p.Min {
		return newValidationError(KindQuantityOutOfBounds, "maxGuests",
			"guest bounds [%d, %d] are not a valid range", p.Min, p.Max)
	}
	if guests < p.Min || guests > p.Max {
		return newValidationError(KindQuantityOutOfBounds, "guestsCount",
			"number of guests must be between %d and %d", p.Min, p.Max)
	}
	return nil
}

// FixedTotalCapacity admits an available-ticket count that never exceeds TotalCapacity.
type FixedTotalCapacity struct {
	TotalCapacity int
}

func (FixedTotalCapacity) Variant() Variant { return VariantEvent }

func (p FixedTotalCapacity) checkQuantity(available int) *ValidationError {
	if p.TotalCapacity < 0 {
		return newValidationError(KindQuantityOutOfBounds, "totalCapacity",
			"total capacity cannot be negative")
	}
	if available < 0 || available > p.TotalCapacity {
		return newValidationError(KindQuantityOutOfBounds, "availableTickets",
			"available tickets (%d) cannot exceed total capacity (%d)", available, p.TotalCapacity)
	}
	return nil
}

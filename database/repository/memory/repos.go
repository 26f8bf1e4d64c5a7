// File: database/repository/memory/repos.go
package memoryRepo

import (
	bookingRepo "marketplace/database/repository/booking"
	eventRepo "marketplace/database/repository/event"
	giftcardRepo "marketplace/database/repository/giftcard"
	vendorRepo "marketplace/database/repository/vendor"
)

var (
	_ bookingRepo.PartyBookingRepository = (*PartyBookingRepo)(nil)
	_ eventRepo.EventRepository          = (*EventRepo)(nil)
	_ giftcardRepo.GiftCardRepository    = (*GiftCardRepo)(nil)
	_ vendorRepo.VendorRepository        = (*VendorRepo)(nil)
)

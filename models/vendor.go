package models

import "time"

// Vendor is a business selling listings on the marketplace.
type Vendor struct {
	ID                  string    `bson:"id" json:"id"`
	UserID              string    `bson:"userId" json:"userId"`
	BusinessName        string    `bson:"businessName" json:"businessName"`
	Email               string    `bson:"email" json:"email"`
	Phone               string    `bson:"phone" json:"phone"`
	Address             string    `bson:"address" json:"address"`
	State               string    `bson:"state,omitempty" json:"state,omitempty"`
	Country             string    `bson:"country,omitempty" json:"country,omitempty"`
	GSTNumber           string    `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	BankAccountNumber   string    `bson:"bankAccountNumber,omitempty" json:"-"`
	BankIFSCCode        string    `bson:"bankIfscCode,omitempty" json:"-"`
	TokenHash           string    `bson:"tokenHash" json:"-"`
	IsApproved          bool      `bson:"isApproved" json:"isApproved"`
	EventEnabled        bool      `bson:"eventEnabled" json:"eventEnabled"`
	GiftCardEnabled     bool      `bson:"giftCardEnabled" json:"giftCardEnabled"`
	PartyBookingEnabled bool      `bson:"partyBookingEnabled" json:"partyBookingEnabled"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Allows reports whether the vendor's feature flags permit listings of type t.
func (v Vendor) Allows(t ItemType) bool {
	switch t {
	case ItemGiftCard, ItemGiftCardPromotion:
		return v.GiftCardEnabled
	case ItemPartyBooking:
		return v.PartyBookingEnabled
	case ItemEvent:
		return v.EventEnabled
	}
	return false
}

type VendorRegistrationRequest struct {
	UserID            string `json:"userId" binding:"required"`
	BusinessName      string `json:"businessName" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone" binding:"required"`
	Address           string `json:"address"`
	State             string `json:"state,omitempty"`
	Country           string `json:"country,omitempty"`
	GSTNumber         string `json:"gstNumber,omitempty"`
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	BankIFSCCode      string `json:"bankIfscCode,omitempty"`
}

// VendorSettingsRequest patches a vendor; nil fields are left unchanged.
type VendorSettingsRequest struct {
	BusinessName        *string `json:"businessName,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Address             *string `json:"address,omitempty"`
	EventEnabled        *bool   `json:"eventEnabled,omitempty"`
	GiftCardEnabled     *bool   `json:"giftCardEnabled,omitempty"`
	PartyBookingEnabled *bool   `json:"partyBookingEnabled,omitempty"`
}

// VendorDashboard groups every listing a vendor owns.
type VendorDashboard struct {
	Vendor     Vendor              `json:"vendor"`
	GiftCards  []GiftCard          `json:"giftCards"`
	Promotions []GiftCardPromotion `json:"promotions"`
	Bookings   []PartyBooking      `json:"bookings"`
	Events     []Event             `json:"events"`
}

package models

import (
	"strings"
	"time"
)

// ItemType names one kind of vendor listing.
type ItemType string

const (
	ItemGiftCard          ItemType = "giftcard"
	ItemGiftCardPromotion ItemType = "giftcardpromotion"
	ItemPartyBooking      ItemType = "partybooking"
	ItemEvent             ItemType = "event"
)

// ItemTypes lists every listing kind in dashboard order.
var ItemTypes = []ItemType{ItemGiftCard, ItemGiftCardPromotion, ItemPartyBooking, ItemEvent}

// ParseItemType matches s case-insensitively against the known item types.
func ParseItemType(s string) (ItemType, bool) {
	t := ItemType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ItemTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Reservable reports whether listings of this type occupy time windows.
func (t ItemType) Reservable() bool {
	return t == ItemPartyBooking || t == ItemEvent
}

// Item holds the fields shared by every vendor listing.
type Item struct {
	ID          string    `bson:"id" json:"id"`
	VendorID    string    `bson:"vendorId" json:"vendorId"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Slug        string    `bson:"slug" json:"slug"`
	Categories  []string  `bson:"categories,omitempty" json:"categories,omitempty"`
	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Conditions  string    `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Address     string    `bson:"address" json:"address"`
	Phone       string    `bson:"phone" json:"phone"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ItemFields is the client-supplied part of Item.
type ItemFields struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Conditions  string   `json:"conditions,omitempty"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
}

// ToItem copies the client fields into a new Item owned by vendorID.
func (f ItemFields) ToItem(vendorID string) Item {
	return Item{
		VendorID:    vendorID,
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Categories:  f.Categories,
		Tags:        f.Tags,
		Conditions:  f.Conditions,
		Address:     f.Address,
		Phone:       f.Phone,
		IsActive:    true,
	}
}

// ToggleResult reports the state of a listing after an activation change.
type ToggleResult struct {
	ItemType  ItemType      `json:"itemType"`
	ID        string        `json:"id"`
	IsActive  bool          `json:"isActive"`
	Conflicts []Reservation `json:"conflicts,omitempty"` // set when reactivation was refused
}

package models

import "time"

// GiftCard is a prepaid card sold by a vendor.
type GiftCard struct {
	Item        `bson:",inline"`
	BasePrice   float64 `bson:"basePrice" json:"basePrice"`
	TotalValue  float64 `bson:"totalValue" json:"totalValue"`
	Stock       int     `bson:"stock" json:"stock"`
	TaxIncluded bool    `bson:"taxIncluded" json:"taxIncluded"`
}

// GiftCardPromotion is a gift card sold at a promotional price for a limited period.
type GiftCardPromotion struct {
	GiftCard         `bson:",inline"`
	PromotionalPrice float64   `bson:"promotionalPrice" json:"promotionalPrice"`
	StartDate        time.Time `bson:"startDate" json:"startDate"`
	EndDate          time.Time `bson:"endDate" json:"endDate"`
}

type GiftCardRequest struct {
	ItemFields
	BasePrice   float64 `json:"basePrice"`
	TotalValue  float64 `json:"totalValue"`
	Stock       int     `json:"stock"`
	TaxIncluded bool    `json:"taxIncluded"`
}

type GiftCardPromotionRequest struct {
	GiftCardRequest
	PromotionalPrice float64   `json:"promotionalPrice"`
	StartDate        time.Time `json:"startDate" binding:"required"`
	EndDate          time.Time `json:"endDate" binding:"required"`
}

package models

// DeactivatePayload identifies a listing to switch off when its period ends.
type DeactivatePayload struct {
	ItemType ItemType `json:"itemType"`
	VendorID string   `json:"vendorId"`
	ItemID   string   `json:"itemId"`
}

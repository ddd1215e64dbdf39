package model

import "time"

// Provider is an organisation that donates food. Loaded once, never mutated.
type Provider struct {
	ID      int64  `json:"provider_id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // e.g. "Restaurant", "Grocery Store"
	Address string `json:"address"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// Receiver is an organisation or individual that claims food. Loaded once, never mutated.
type Receiver struct {
	ID      int64  `json:"receiver_id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // e.g. "NGO", "Shelter"
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// FoodListing is a food-donation offer.
// ProviderType and Location are copied from the provider when the listing is
// created and are not kept in sync afterwards.
type FoodListing struct {
	ID           int64     `json:"food_id" validate:"gt=0"`
	Name         string    `json:"food_name" validate:"required,notblank"`
	Quantity     int64     `json:"quantity" validate:"gte=1"`
	ExpiryDate   time.Time `json:"expiry_date" validate:"required"`
	ProviderID   int64     `json:"provider_id" validate:"gt=0"`
	ProviderType string    `json:"provider_type"`
	Location     string    `json:"location"`
	FoodType     FoodType  `json:"food_type" validate:"required,food_type"`
	MealType     MealType  `json:"meal_type" validate:"required,meal_type"`
}

// ListingUpdate holds the mutable fields of a FoodListing.
// Provider linkage is fixed at creation.
type ListingUpdate struct {
	Name       string    `json:"food_name" validate:"required,notblank"`
	Quantity   int64     `json:"quantity" validate:"gte=1"`
	ExpiryDate time.Time `json:"expiry_date" validate:"required"`
	FoodType   FoodType  `json:"food_type" validate:"required,food_type"`
	MealType   MealType  `json:"meal_type" validate:"required,meal_type"`
}

// Claim records a receiver taking (or asking for) a listing.
type Claim struct {
	ID         int64       `json:"claim_id" validate:"gt=0"`
	FoodID     int64       `json:"food_id" validate:"gt=0"`
	ReceiverID int64       `json:"receiver_id" validate:"gt=0"`
	Status     ClaimStatus `json:"status" validate:"required,claim_status"`
	Timestamp  time.Time   `json:"timestamp" validate:"required"`
}

// ListingDetail is a listing joined with its provider's name and contact.
type ListingDetail struct {
	FoodListing
	ProviderName    string `json:"provider_name"`
	ProviderContact string `json:"provider_contact"`
}

// ClaimDetail is a claim joined with the listing and receiver names.
type ClaimDetail struct {
	ClaimID      int64       `json:"claim_id"`
	FoodName     string      `json:"food_name"`
	ReceiverName string      `json:"receiver_name"`
	Status       ClaimStatus `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
}

// ListingFilter narrows FilterListings. Empty fields match everything.
type ListingFilter struct {
	City         string   `json:"city,omitempty"`
	ProviderType string   `json:"provider_type,omitempty"`
	FoodType     FoodType `json:"food_type,omitempty"`
	MealType     MealType `json:"meal_type,omitempty"`
}

// FilterOptions lists the distinct values present for each listing filter.
type FilterOptions struct {
	Locations     []string `json:"locations"`
	ProviderTypes []string `json:"provider_types"`
	FoodTypes     []string `json:"food_types"`
	MealTypes     []string `json:"meal_types"`
}

// Dataset is the full content of the four source tables.
type Dataset struct {
	Providers []Provider
	Receivers []Receiver
	Listings  []FoodListing
	Claims    []Claim
}

// DeleteResult reports what a cascading listing delete removed.
type DeleteResult struct {
	ListingDeleted bool  `json:"listing_deleted"`
	ClaimsDeleted  int64 `json:"claims_deleted"`
}

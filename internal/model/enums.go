package model

// FoodType classifies a listing's diet.
type FoodType string

const (
	FoodTypeVegetarian    FoodType = "Vegetarian"
	FoodTypeNonVegetarian FoodType = "Non-Vegetarian"
	FoodTypeVegan         FoodType = "Vegan"
)

// FoodTypes lists every FoodType in display order.
var FoodTypes = []FoodType{FoodTypeVegetarian, FoodTypeNonVegetarian, FoodTypeVegan}

// Valid reports whether t is a known food type.
func (t FoodType) Valid() bool {
	for _, v := range FoodTypes {
		if t == v {
			return true
		}
	}
	return false
}

// MealType is the meal a listing is intended for.
type MealType string

const (
	MealTypeBreakfast MealType = "Breakfast"
	MealTypeLunch     MealType = "Lunch"
	MealTypeDinner    MealType = "Dinner"
	MealTypeSnacks    MealType = "Snacks"
)

// MealTypes lists every MealType in display order.
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnacks}

func (t MealType) Valid() bool {
	for _, v := range MealTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ClaimStatus is chosen by the submitter and never changes afterwards.
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "Pending"
	ClaimStatusCompleted ClaimStatus = "Completed"
	ClaimStatusCancelled ClaimStatus = "Cancelled"
)

// ClaimStatuses lists every ClaimStatus in display order.
var ClaimStatuses = []ClaimStatus{ClaimStatusPending, ClaimStatusCompleted, ClaimStatusCancelled}

func (s ClaimStatus) Valid() bool {
	for _, v := range ClaimStatuses {
		if s == v {
			return true
		}
	}
	return false
}

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fwm-go/internal/fwm"
	"fwm-go/internal/model"
)

// newTestDB creates an in-memory database with the schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(MemoryPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func timestamp(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

// sampleDataset is a small store anchored around 2025-03-10.
func sampleDataset() *model.Dataset {
	return &model.Dataset{
		Providers: []model.Provider{
			{ID: 1, Name: "Alpha Bakery", Type: "Restaurant", Address: "1 Main St", City: "Springfield", Contact: "555-0001"},
			{ID: 2, Name: "Beta Grocers", Type: "Grocery Store", City: "Springfield", Contact: "555-0002"},
			{ID: 3, Name: "Gamma Market", Type: "Supermarket", City: "Shelbyville", Contact: "555-0003"},
		},
		Receivers: []model.Receiver{
			{ID: 1, Name: "Hope Shelter", Type: "Shelter", City: "Springfield", Contact: "r-1"},
			{ID: 2, Name: "Food Aid", Type: "NGO", City: "Shelbyville", Contact: "r-2"},
			{ID: 3, Name: "Open Kitchen", Type: "Charity", City: "Capital City", Contact: "r-3"},
		},
		Listings: []model.FoodListing{
			{ID: 1, Name: "Bread", Quantity: 10, ExpiryDate: date("2025-03-11"), ProviderID: 1, ProviderType: "Restaurant", Location: "Springfield", FoodType: model.FoodTypeVegetarian, MealType: model.MealTypeBreakfast},
			{ID: 2, Name: "Rice", Quantity: 20, ExpiryDate: date("2025-03-17"), ProviderID: 2, ProviderType: "Grocery Store", Location: "Springfield", FoodType: model.FoodTypeVegan, MealType: model.MealTypeLunch},
			{ID: 3, Name: "Soup", Quantity: 5, ExpiryDate: date("2025-03-10"), ProviderID: 3, ProviderType: "Supermarket", Location: "Shelbyville", FoodType: model.FoodTypeVegetarian, MealType: model.MealTypeDinner},
			{ID: 4, Name: "Bread", Quantity: 8, ExpiryDate: date("2025-03-18"), ProviderID: 3, ProviderType: "Supermarket", Location: "Shelbyville", FoodType: model.FoodTypeVegan, MealType: model.MealTypeSnacks},
			{ID: 5, Name: "Chicken", Quantity: 12, ExpiryDate: date("2025-03-12"), ProviderID: 1, ProviderType: "Restaurant", Location: "Springfield", FoodType: model.FoodTypeNonVegetarian, MealType: model.MealTypeDinner},
		},
		Claims: []model.Claim{
			{ID: 1, FoodID: 1, ReceiverID: 1, Status: model.ClaimStatusCompleted, Timestamp: timestamp("2025-03-01 10:00:00")},
			{ID: 2, FoodID: 2, ReceiverID: 1, Status: model.ClaimStatusCompleted, Timestamp: timestamp("2025-03-02 11:00:00")},
			{ID: 3, FoodID: 2, ReceiverID: 2, Status: model.ClaimStatusPending, Timestamp: timestamp("2025-03-03 12:00:00")},
			{ID: 4, FoodID: 5, ReceiverID: 2, Status: model.ClaimStatusCompleted, Timestamp: timestamp("2025-03-04 13:00:00")},
			{ID: 5, FoodID: 3, ReceiverID: 3, Status: model.ClaimStatusCancelled, Timestamp: timestamp("2025-03-05 14:00:00")},
		},
	}
}

func loadedDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db := newTestDB(t)
	if err := db.ReplaceAll(context.Background(), sampleDataset()); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	return db
}

func TestNewSQLiteDatabase_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fwm.db")
	ctx := context.Background()

	db, err := NewSQLiteDatabase(path)
	if err != nil {
		t.Fatalf("NewSQLiteDatabase() error = %v", err)
	}
	if err := db.ReplaceAll(ctx, sampleDataset()); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	db.Close()

	// Reopening runs migrations again and keeps the data.
	db, err = NewSQLiteDatabase(path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteDatabase() error = %v", err)
	}
	defer db.Close()

	listings, err := db.ListListings(ctx)
	if err != nil {
		t.Fatalf("ListListings() error = %v", err)
	}
	if len(listings) != 5 {
		t.Errorf("len(ListListings()) = %d, want 5", len(listings))
	}
}

func TestSQLiteDatabase_ReplaceAll(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips dates and timestamps", func(t *testing.T) {
		db := loadedDB(t)

		l, err := db.GetListing(ctx, 2)
		if err != nil {
			t.Fatalf("GetListing() error = %v", err)
		}
		if !l.ExpiryDate.Equal(date("2025-03-17")) {
			t.Errorf("ExpiryDate = %v, want 2025-03-17", l.ExpiryDate)
		}

		history, err := db.ClaimHistory(ctx)
		if err != nil {
			t.Fatalf("ClaimHistory() error = %v", err)
		}
		if !history[0].Timestamp.Equal(timestamp("2025-03-05 14:00:00")) {
			t.Errorf("Timestamp = %v, want 2025-03-05 14:00:00", history[0].Timestamp)
		}
	})

	t.Run("replaces previous content", func(t *testing.T) {
		db := loadedDB(t)

		ds := sampleDataset()
		ds.Listings = ds.Listings[:1]
		ds.Claims = nil
		if err := db.ReplaceAll(ctx, ds); err != nil {
			t.Fatalf("ReplaceAll() error = %v", err)
		}

		listings, _ := db.ListListings(ctx)
		if len(listings) != 1 {
			t.Errorf("len(ListListings()) = %d, want 1", len(listings))
		}
		maxClaim, _ := db.MaxClaimID(ctx)
		if maxClaim != 0 {
			t.Errorf("MaxClaimID() = %d, want 0", maxClaim)
		}
	})

	t.Run("failure keeps previous content", func(t *testing.T) {
		db := loadedDB(t)

		ds := sampleDataset()
		ds.Claims = append(ds.Claims, ds.Claims[0]) // duplicate claim_id
		err := db.ReplaceAll(ctx, ds)
		if !errors.Is(err, fwm.ErrIntegrity) {
			t.Fatalf("ReplaceAll() error = %v, want ErrIntegrity", err)
		}

		listings, _ := db.ListListings(ctx)
		if len(listings) != 5 {
			t.Errorf("len(ListListings()) = %d, want 5 after failed replace", len(listings))
		}
	})
}

func TestSQLiteDatabase_Lookups(t *testing.T) {
	ctx := context.Background()
	db := loadedDB(t)

	t.Run("GetProvider", func(t *testing.T) {
		p, err := db.GetProvider(ctx, 3)
		if err != nil {
			t.Fatalf("GetProvider() error = %v", err)
		}
		if p == nil || p.Name != "Gamma Market" {
			t.Errorf("GetProvider(3) = %+v, want Gamma Market", p)
		}

		p, err = db.GetProvider(ctx, 99)
		if err != nil {
			t.Fatalf("GetProvider() error = %v", err)
		}
		if p != nil {
			t.Errorf("GetProvider(99) = %+v, want nil", p)
		}
	})

	t.Run("GetReceiver", func(t *testing.T) {
		r, err := db.GetReceiver(ctx, 99)
		if err != nil {
			t.Fatalf("GetReceiver() error = %v", err)
		}
		if r != nil {
			t.Errorf("GetReceiver(99) = %+v, want nil", r)
		}
	})

	t.Run("ProviderCities", func(t *testing.T) {
		cities, err := db.ProviderCities(ctx)
		if err != nil {
			t.Fatalf("ProviderCities() error = %v", err)
		}
		want := []string{"Shelbyville", "Springfield"}
		if len(cities) != len(want) || cities[0] != want[0] || cities[1] != want[1] {
			t.Errorf("ProviderCities() = %v, want %v", cities, want)
		}
	})

	t.Run("FilterOptions", func(t *testing.T) {
		opts, err := db.FilterOptions(ctx)
		if err != nil {
			t.Fatalf("FilterOptions() error = %v", err)
		}
		if len(opts.Locations) != 2 {
			t.Errorf("Locations = %v, want 2 entries", opts.Locations)
		}
		if len(opts.ProviderTypes) != 3 {
			t.Errorf("ProviderTypes = %v, want 3 entries", opts.ProviderTypes)
		}
		if len(opts.MealTypes) != 4 {
			t.Errorf("MealTypes = %v, want 4 entries", opts.MealTypes)
		}
	})

	t.Run("ListReceivers", func(t *testing.T) {
		receivers, err := db.ListReceivers(ctx)
		if err != nil {
			t.Fatalf("ListReceivers() error = %v", err)
		}
		if len(receivers) != 3 || receivers[0].ID != 1 {
			t.Errorf("ListReceivers() = %v, want 3 ordered by id", receivers)
		}
	})
}

func TestSQLiteDatabase_FilterListings(t *testing.T) {
	ctx := context.Background()
	db := loadedDB(t)

	tests := []struct {
		name    string
		filter  model.ListingFilter
		wantIDs []int64
	}{
		{"no filter orders by expiry", model.ListingFilter{}, []int64{3, 1, 5, 2, 4}},
		{"city", model.ListingFilter{City: "Springfield"}, []int64{1, 5, 2}},
		{"city and meal type", model.ListingFilter{City: "Springfield", MealType: model.MealTypeDinner}, []int64{5}},
		{"provider type", model.ListingFilter{ProviderType: "Supermarket"}, []int64{3, 4}},
		{"food type", model.ListingFilter{FoodType: model.FoodTypeVegan}, []int64{2, 4}},
		{"no match", model.ListingFilter{City: "Nowhere"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FilterListings(ctx, tt.filter)
			if err != nil {
				t.Fatalf("FilterListings() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("FilterListings() returned %d rows, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("row %d id = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}

	t.Run("joins provider name and contact", func(t *testing.T) {
		got, err := db.FilterListings(ctx, model.ListingFilter{City: "Shelbyville"})
		if err != nil {
			t.Fatalf("FilterListings() error = %v", err)
		}
		if got[0].ProviderName != "Gamma Market" || got[0].ProviderContact != "555-0003" {
			t.Errorf("provider = %q/%q, want Gamma Market/555-0003", got[0].ProviderName, got[0].ProviderContact)
		}
	})

	t.Run("listing without provider is hidden", func(t *testing.T) {
		db := loadedDB(t)
		orphan := sampleDataset().Listings[0]
		orphan.ID = 7
		orphan.ProviderID = 99
		if err := db.InsertListing(ctx, &orphan); err != nil {
			t.Fatalf("InsertListing() error = %v", err)
		}

		got, err := db.FilterListings(ctx, model.ListingFilter{})
		if err != nil {
			t.Fatalf("FilterListings() error = %v", err)
		}
		for _, d := range got {
			if d.ID == 7 {
				t.Fatalf("FilterListings() returned listing 7 with missing provider 99")
			}
		}
		if len(got) != 5 {
			t.Errorf("FilterListings() returned %d rows, want 5", len(got))
		}
	})

	t.Run("value with quote is treated as data", func(t *testing.T) {
		got, err := db.FilterListings(ctx, model.ListingFilter{City: "x' OR '1'='1"})
		if err != nil {
			t.Fatalf("FilterListings() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("FilterListings() returned %d rows, want 0", len(got))
		}
	})
}

func TestSQLiteDatabase_InsertListing(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate id is an integrity error", func(t *testing.T) {
		db := loadedDB(t)

		l := sampleDataset().Listings[0]
		err := db.InsertListing(ctx, &l)
		if !errors.Is(err, fwm.ErrIntegrity) {
			t.Fatalf("InsertListing() error = %v, want ErrIntegrity", err)
		}
	})

	t.Run("new id is visible to reads", func(t *testing.T) {
		db := loadedDB(t)

		l := sampleDataset().Listings[0]
		l.ID = 6
		if err := db.InsertListing(ctx, &l); err != nil {
			t.Fatalf("InsertListing() error = %v", err)
		}
		maxID, err := db.MaxFoodID(ctx)
		if err != nil {
			t.Fatalf("MaxFoodID() error = %v", err)
		}
		if maxID != 6 {
			t.Errorf("MaxFoodID() = %d, want 6", maxID)
		}
	})
}

func TestSQLiteDatabase_UpdateListing(t *testing.T) {
	ctx := context.Background()
	db := loadedDB(t)

	u := &model.ListingUpdate{
		Name:       "Brown Bread",
		Quantity:   3,
		ExpiryDate: date("2025-04-01"),
		FoodType:   model.FoodTypeVegan,
		MealType:   model.MealTypeLunch,
	}

	t.Run("updates mutable fields only", func(t *testing.T) {
		if err := db.UpdateListing(ctx, 1, u); err != nil {
			t.Fatalf("UpdateListing() error = %v", err)
		}
		got, _ := db.GetListing(ctx, 1)
		if got.Name != "Brown Bread" || got.Quantity != 3 || !got.ExpiryDate.Equal(date("2025-04-01")) {
			t.Errorf("GetListing() = %+v, want updated fields", got)
		}
		if got.ProviderID != 1 || got.Location != "Springfield" {
			t.Errorf("provider linkage changed: %+v", got)
		}
	})

	t.Run("repeating the update succeeds", func(t *testing.T) {
		if err := db.UpdateListing(ctx, 1, u); err != nil {
			t.Fatalf("second UpdateListing() error = %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		err := db.UpdateListing(ctx, 99, u)
		if !errors.Is(err, fwm.ErrNotFound) {
			t.Fatalf("UpdateListing() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteDatabase_DeleteListing(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to claims", func(t *testing.T) {
		db := loadedDB(t)

		res, err := db.DeleteListing(ctx, 2)
		if err != nil {
			t.Fatalf("DeleteListing() error = %v", err)
		}
		if !res.ListingDeleted || res.ClaimsDeleted != 2 {
			t.Errorf("DeleteListing() = %+v, want listing deleted and 2 claims", res)
		}

		history, _ := db.ClaimHistory(ctx)
		for _, c := range history {
			if c.ClaimID == 2 || c.ClaimID == 3 {
				t.Errorf("claim %d survived the delete", c.ClaimID)
			}
		}
		if l, _ := db.GetListing(ctx, 2); l != nil {
			t.Errorf("GetListing(2) = %+v, want nil", l)
		}
	})

	t.Run("missing id is not an error", func(t *testing.T) {
		db := loadedDB(t)

		res, err := db.DeleteListing(ctx, 99)
		if err != nil {
			t.Fatalf("DeleteListing() error = %v", err)
		}
		if res.ListingDeleted || res.ClaimsDeleted != 0 {
			t.Errorf("DeleteListing() = %+v, want zero result", res)
		}
	})
}

func TestSQLiteDatabase_Claims(t *testing.T) {
	ctx := context.Background()

	t.Run("max id on empty store", func(t *testing.T) {
		db := newTestDB(t)

		id, err := db.MaxClaimID(ctx)
		if err != nil {
			t.Fatalf("MaxClaimID() error = %v", err)
		}
		if id != 0 {
			t.Errorf("MaxClaimID() = %d, want 0", id)
		}
	})

	t.Run("duplicate claim id", func(t *testing.T) {
		db := loadedDB(t)

		c := sampleDataset().Claims[0]
		if err := db.InsertClaim(ctx, &c); !errors.Is(err, fwm.ErrIntegrity) {
			t.Fatalf("InsertClaim() error = %v, want ErrIntegrity", err)
		}
	})

	t.Run("history is newest first with names", func(t *testing.T) {
		db := loadedDB(t)

		history, err := db.ClaimHistory(ctx)
		if err != nil {
			t.Fatalf("ClaimHistory() error = %v", err)
		}
		if len(history) != 5 {
			t.Fatalf("len(ClaimHistory()) = %d, want 5", len(history))
		}
		first := history[0]
		if first.ClaimID != 5 || first.FoodName != "Soup" || first.ReceiverName != "Open Kitchen" {
			t.Errorf("ClaimHistory()[0] = %+v, want claim 5 Soup/Open Kitchen", first)
		}
	})

	t.Run("claim on a missing listing still lists", func(t *testing.T) {
		db := loadedDB(t)

		c := &model.Claim{ID: 9, FoodID: 404, ReceiverID: 1, Status: model.ClaimStatusPending, Timestamp: timestamp("2025-03-09 08:00:00")}
		if err := db.InsertClaim(ctx, c); err != nil {
			t.Fatalf("InsertClaim() error = %v", err)
		}
		history, _ := db.ClaimHistory(ctx)
		if history[0].ClaimID != 9 || history[0].FoodName != "" {
			t.Errorf("ClaimHistory()[0] = %+v, want claim 9 with empty food name", history[0])
		}
	})
}

package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"fwm-go/internal/fwm"
	"fwm-go/internal/model"
)

// rowsOf flattens report rows into "v1|v2|..." strings in column order.
func rowsOf(r *model.Report) []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		s := ""
		for i, col := range r.Columns {
			if i > 0 {
				s += "|"
			}
			s += fmt.Sprint(row[col])
		}
		out = append(out, s)
	}
	return out
}

func equalRows(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRunReport(t *testing.T) {
	ctx := context.Background()
	db := loadedDB(t)
	today := date("2025-03-10")
	days := func(n int) *int { return &n }

	tests := []struct {
		name   model.ReportName
		params model.ReportParams
		want   []string
	}{
		{model.ReportProvidersReceiversPerCity, model.ReportParams{},
			[]string{"Springfield|2|1", "Shelbyville|1|1", "Capital City|0|1"}},
		{model.ReportContributionByType, model.ReportParams{},
			[]string{"Restaurant|22", "Grocery Store|20", "Supermarket|13"}},
		{model.ReportProviderContacts, model.ReportParams{City: "Springfield"},
			[]string{"Alpha Bakery|Restaurant|555-0001", "Beta Grocers|Grocery Store|555-0002"}},
		{model.ReportTopReceivers, model.ReportParams{},
			[]string{"Hope Shelter|30", "Food Aid|12"}},
		{model.ReportTotalFoodAvailable, model.ReportParams{},
			[]string{"55"}},
		{model.ReportCityMostListings, model.ReportParams{},
			[]string{"Springfield|3"}},
		{model.ReportCommonFoodNames, model.ReportParams{},
			[]string{"Bread|2", "Chicken|1", "Rice|1", "Soup|1"}},
		{model.ReportClaimsPerFood, model.ReportParams{},
			[]string{"Rice|2", "Bread|1", "Chicken|1", "Soup|1"}},
		{model.ReportProvidersSuccessful, model.ReportParams{},
			[]string{"Alpha Bakery|2", "Beta Grocers|1"}},
		{model.ReportClaimStatusPercentage, model.ReportParams{},
			[]string{"Completed|60", "Cancelled|20", "Pending|20"}},
		{model.ReportAvgClaimedPerReceiver, model.ReportParams{},
			[]string{"Hope Shelter|15", "Food Aid|12"}},
		{model.ReportMostClaimedMealType, model.ReportParams{},
			[]string{"Breakfast|1", "Dinner|1", "Lunch|1"}},
		{model.ReportDonatedByProvider, model.ReportParams{},
			[]string{"Alpha Bakery|22", "Beta Grocers|20", "Gamma Market|13"}},
		{model.ReportNearingExpiry, model.ReportParams{Days: days(7), Today: today},
			[]string{
				"1|Bread|10|2025-03-11|Springfield|1",
				"5|Chicken|12|2025-03-12|Springfield|1",
				"2|Rice|20|2025-03-17|Springfield|2",
			}},
		{model.ReportClaimsByReceiverType, model.ReportParams{},
			[]string{"NGO|2", "Shelter|2", "Charity|1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			report, err := db.RunReport(ctx, tt.name, tt.params)
			if err != nil {
				t.Fatalf("RunReport() error = %v", err)
			}
			if got := rowsOf(report); !equalRows(got, tt.want) {
				t.Errorf("RunReport() rows = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunReport_NearingExpiryWindow(t *testing.T) {
	ctx := context.Background()
	db := loadedDB(t)
	today := date("2025-03-10")

	tests := []struct {
		days    int
		wantIDs string
	}{
		{0, ""},
		{1, "1"},
		{8, "1,5,2,4"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d days", tt.days), func(t *testing.T) {
			days := tt.days
			report, err := db.RunReport(ctx, model.ReportNearingExpiry, model.ReportParams{Days: &days, Today: today})
			if err != nil {
				t.Fatalf("RunReport() error = %v", err)
			}
			ids := ""
			for i, row := range report.Rows {
				if i > 0 {
					ids += ","
				}
				ids += fmt.Sprint(row["food_id"])
			}
			if ids != tt.wantIDs {
				t.Errorf("food ids = %q, want %q", ids, tt.wantIDs)
			}
		})
	}
}

func TestRunReport_EmptyStore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	report, err := db.RunReport(ctx, model.ReportTotalFoodAvailable, model.ReportParams{})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	v, ok := report.Scalar()
	if !ok || v != int64(0) {
		t.Errorf("Scalar() = %v, %v; want 0, true", v, ok)
	}

	report, err = db.RunReport(ctx, model.ReportClaimStatusPercentage, model.ReportParams{})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	if report.Rows == nil || len(report.Rows) != 0 {
		t.Errorf("Rows = %v, want empty non-nil slice", report.Rows)
	}
}

func TestRunReport_UnknownName(t *testing.T) {
	db := newTestDB(t)

	_, err := db.RunReport(context.Background(), "no-such-report", model.ReportParams{})
	if !errors.Is(err, fwm.ErrNotFound) {
		t.Fatalf("RunReport() error = %v, want ErrNotFound", err)
	}
}

func TestRunReport_ReflectsMutations(t *testing.T) {
	ctx := context.Background()
	db := loadedDB(t)

	if _, err := db.DeleteListing(ctx, 2); err != nil {
		t.Fatalf("DeleteListing() error = %v", err)
	}

	report, err := db.RunReport(ctx, model.ReportTotalFoodAvailable, model.ReportParams{})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	if v, _ := report.Scalar(); v != int64(35) {
		t.Errorf("total_food_available = %v, want 35", v)
	}
}

func TestReportCatalog(t *testing.T) {
	db := newTestDB(t)

	catalog := db.ReportCatalog()
	if len(catalog) != 15 {
		t.Fatalf("len(ReportCatalog()) = %d, want 15", len(catalog))
	}
	if len(catalog) != len(reports) {
		t.Errorf("catalog has %d entries, definitions have %d", len(catalog), len(reports))
	}
	for _, info := range catalog {
		if info.Title == "" {
			t.Errorf("report %s has no title", info.Name)
		}
	}
	if catalog[0].Name != model.ReportProvidersReceiversPerCity {
		t.Errorf("catalog[0] = %s, want %s", catalog[0].Name, model.ReportProvidersReceiversPerCity)
	}
}

func TestRunReport_ClaimStatusPercentageTotal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ds := sampleDataset()
	ds.Claims = ds.Claims[:3] // two Completed, one Pending: thirds
	if err := db.ReplaceAll(ctx, ds); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	report, err := db.RunReport(ctx, model.ReportClaimStatusPercentage, model.ReportParams{})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	sum := 0.0
	for _, row := range report.Rows {
		v, ok := row["percentage"].(float64)
		if !ok {
			t.Fatalf("percentage = %T, want float64", row["percentage"])
		}
		sum += v
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestRunReport_ProvidersReceiversPerCityOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ds := &model.Dataset{
		Providers: []model.Provider{
			{ID: 1, Name: "P1", Type: "Restaurant", City: "CityA"},
			{ID: 2, Name: "P2", Type: "Restaurant", City: "CityB"},
		},
		Receivers: []model.Receiver{
			{ID: 1, Name: "R1", Type: "NGO", City: "CityA"},
		},
	}
	if err := db.ReplaceAll(ctx, ds); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	report, err := db.RunReport(ctx, model.ReportProvidersReceiversPerCity, model.ReportParams{})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	want := []string{"CityA|1|1", "CityB|1|0"}
	if got := rowsOf(report); !equalRows(got, want) {
		t.Errorf("RunReport() rows = %q, want %q", got, want)
	}
}

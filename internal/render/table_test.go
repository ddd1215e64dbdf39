package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fwm-go/internal/model"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"int64", int64(42), "42"},
		{"whole float", float64(15), "15"},
		{"percentage", 100.0 / 3, "33.33"},
		{"date", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), "2025-03-11"},
		{"timestamp", time.Date(2025, 3, 11, 8, 5, 9, 0, time.UTC), "2025-03-11 08:05:09"},
		{"zero time", time.Time{}, ""},
		{"string", "Bread", "Bread"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTable_WriteTSV(t *testing.T) {
	report := &model.Report{
		Name:    model.ReportContributionByType,
		Title:   "Contribution by provider type",
		Columns: []string{"provider_type", "total_quantity"},
		Rows: []model.Row{
			{"provider_type": "Restaurant", "total_quantity": int64(22)},
			{"provider_type": "Grocery\tStore", "total_quantity": int64(20)},
		},
	}

	var buf bytes.Buffer
	if err := Report(report).Write(&buf, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "provider_type\ttotal_quantity\nRestaurant\t22\nGrocery Store\t20\n"
	if got := buf.String(); got != want {
		t.Errorf("Write() =\n%q\nwant\n%q", got, want)
	}
}

func TestTable_WriteStyled(t *testing.T) {
	tbl := NewTable("Claims", "claim_id", "status")
	tbl.AddRow(int64(1), "Completed")

	var buf bytes.Buffer
	if err := tbl.Write(&buf, true); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"Claims", "claim_id", "Completed"} {
		if !strings.Contains(got, want) {
			t.Errorf("styled output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "\n") != 4 {
		t.Errorf("styled output has %d lines, want 4:\n%s", strings.Count(got, "\n"), got)
	}
}

func TestTable_WriteStyledEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTable("Claims", "claim_id").Write(&buf, true); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "(no rows)") {
		t.Errorf("empty table output = %q, want placeholder", buf.String())
	}
}

func TestCatalog(t *testing.T) {
	tbl := Catalog([]model.ReportInfo{
		{Name: model.ReportNearingExpiry, Title: "Listings nearing expiry", Params: []string{"days"}},
	})
	if len(tbl.Rows) != 1 || tbl.Rows[0][2] != "days" {
		t.Errorf("Catalog() rows = %v", tbl.Rows)
	}
}

package model

import "time"

// ReportName identifies an entry in the report catalog.
type ReportName string

const (
	ReportProvidersReceiversPerCity ReportName = "providers-receivers-per-city"
	ReportContributionByType        ReportName = "contribution-by-provider-type"
	ReportProviderContacts          ReportName = "provider-contacts"
	ReportTopReceivers              ReportName = "top-receivers"
	ReportTotalFoodAvailable        ReportName = "total-food-available"
	ReportCityMostListings          ReportName = "city-most-listings"
	ReportCommonFoodNames           ReportName = "common-food-names"
	ReportClaimsPerFood             ReportName = "claims-per-food"
	ReportProvidersSuccessful       ReportName = "providers-successful-claims"
	ReportClaimStatusPercentage     ReportName = "claim-status-percentage"
	ReportAvgClaimedPerReceiver     ReportName = "avg-claimed-per-receiver"
	ReportMostClaimedMealType       ReportName = "most-claimed-meal-type"
	ReportDonatedByProvider         ReportName = "donated-by-provider"
	ReportNearingExpiry             ReportName = "nearing-expiry"
	ReportClaimsByReceiverType      ReportName = "claims-by-receiver-type"
)

// ReportParams carries the optional parameter of a report.
// Only provider-contacts reads City and only nearing-expiry reads Days.
type ReportParams struct {
	City string `json:"city,omitempty"`
	Days *int   `json:"days,omitempty"`

	// Today anchors nearing-expiry. Set by the service from its clock.
	Today time.Time `json:"-"`
}

// ReportInfo describes a catalog entry.
type ReportInfo struct {
	Name   ReportName `json:"name"`
	Title  string     `json:"title"`
	Params []string   `json:"params,omitempty"`
}

// Row maps column name to value. Values are int64, float64, string, time.Time or nil.
type Row map[string]any

// Report is an ordered result set. Columns preserves the column order of Rows.
type Report struct {
	Name    ReportName `json:"name"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    []Row      `json:"rows"`
}

// Scalar returns the single value of a one-row, one-column report.
func (r *Report) Scalar() (any, bool) {
	if len(r.Rows) != 1 || len(r.Columns) != 1 {
		return nil, false
	}
	return r.Rows[0][r.Columns[0]], true
}

package render

import (
	"fwm-go/internal/fwm"
	"fwm-go/internal/model"
)

// Report lays out a report with its own column order.
func Report(r *model.Report) *Table {
	t := NewTable(r.Title, r.Columns...)
	for _, row := range r.Rows {
		values := make([]any, len(r.Columns))
		for i, col := range r.Columns {
			values[i] = row[col]
		}
		t.AddRow(values...)
	}
	return t
}

func Catalog(infos []model.ReportInfo) *Table {
	t := NewTable("Reports", "name", "title", "params")
	for _, info := range infos {
		params := ""
		for i, p := range info.Params {
			if i > 0 {
				params += ","
			}
			params += p
		}
		t.AddRow(string(info.Name), info.Title, params)
	}
	return t
}

func Listings(listings []*model.ListingDetail) *Table {
	t := NewTable("Food listings",
		"food_id", "food_name", "quantity", "expiry_date", "provider", "provider_type",
		"location", "food_type", "meal_type", "contact")
	for _, l := range listings {
		t.AddRow(l.ID, l.Name, l.Quantity, l.ExpiryDate, l.ProviderName, l.ProviderType,
			l.Location, string(l.FoodType), string(l.MealType), l.ProviderContact)
	}
	return t
}

// Listing prints one listing as a two-column field/value table.
func Listing(l *model.FoodListing) *Table {
	t := NewTable("Listing", "field", "value")
	t.AddRow("food_id", l.ID)
	t.AddRow("food_name", l.Name)
	t.AddRow("quantity", l.Quantity)
	t.AddRow("expiry_date", l.ExpiryDate)
	t.AddRow("provider_id", l.ProviderID)
	t.AddRow("provider_type", l.ProviderType)
	t.AddRow("location", l.Location)
	t.AddRow("food_type", string(l.FoodType))
	t.AddRow("meal_type", string(l.MealType))
	return t
}

func Claims(claims []*model.ClaimDetail) *Table {
	t := NewTable("Claims", "claim_id", "food_name", "receiver_name", "status", "timestamp")
	for _, c := range claims {
		t.AddRow(c.ClaimID, c.FoodName, c.ReceiverName, string(c.Status), c.Timestamp)
	}
	return t
}

func Providers(providers []*model.Provider) *Table {
	t := NewTable("Providers", "provider_id", "name", "type", "address", "city", "contact")
	for _, p := range providers {
		t.AddRow(p.ID, p.Name, p.Type, p.Address, p.City, p.Contact)
	}
	return t
}

func Receivers(receivers []*model.Receiver) *Table {
	t := NewTable("Receivers", "receiver_id", "name", "type", "city", "contact")
	for _, r := range receivers {
		t.AddRow(r.ID, r.Name, r.Type, r.City, r.Contact)
	}
	return t
}

func LoadSummary(s *fwm.LoadSummary) *Table {
	t := NewTable("Loaded "+s.LoadID, "table", "rows")
	t.AddRow(fwm.TableProviders, s.Providers)
	t.AddRow(fwm.TableReceivers, s.Receivers)
	t.AddRow(fwm.TableListings, s.Listings)
	t.AddRow(fwm.TableClaims, s.Claims)
	return t
}

package ingest

import (
	"errors"
	"fmt"
	"io"

	"fwm-go/internal/model"
)

// DecodeProviders reads the providers table.
// Columns: Provider_ID, Name, Type, City, Contact (Address optional).
func DecodeProviders(r io.Reader) ([]model.Provider, error) {
	t, err := newTable(r, "Provider_ID", "Name", "Type", "City", "Contact")
	if err != nil {
		return nil, err
	}
	_, hasAddress := t.index["address"]

	var out []model.Provider
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		p := model.Provider{
			Type:    rec.str("Type"),
			City:    rec.str("City"),
			Contact: rec.str("Contact"),
		}
		if p.ID, err = rec.integer("Provider_ID"); err != nil {
			return nil, err
		}
		if p.Name, err = rec.requiredStr("Name"); err != nil {
			return nil, err
		}
		if hasAddress {
			p.Address = rec.str("Address")
		}
		out = append(out, p)
	}
}

// DecodeReceivers reads the receivers table.
// Columns: Receiver_ID, Name, Type, City (Contact optional).
func DecodeReceivers(r io.Reader) ([]model.Receiver, error) {
	t, err := newTable(r, "Receiver_ID", "Name", "Type", "City")
	if err != nil {
		return nil, err
	}
	_, hasContact := t.index["contact"]

	var out []model.Receiver
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		rv := model.Receiver{
			Type: rec.str("Type"),
			City: rec.str("City"),
		}
		if rv.ID, err = rec.integer("Receiver_ID"); err != nil {
			return nil, err
		}
		if rv.Name, err = rec.requiredStr("Name"); err != nil {
			return nil, err
		}
		if hasContact {
			rv.Contact = rec.str("Contact")
		}
		out = append(out, rv)
	}
}

// DecodeListings reads the food_listings table. Expiry_Date is parsed with DateLayouts.
func DecodeListings(r io.Reader) ([]model.FoodListing, error) {
	t, err := newTable(r, "Food_ID", "Food_Name", "Quantity", "Expiry_Date",
		"Provider_ID", "Provider_Type", "Location", "Food_Type", "Meal_Type")
	if err != nil {
		return nil, err
	}

	var out []model.FoodListing
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		l := model.FoodListing{
			ProviderType: rec.str("Provider_Type"),
			Location:     rec.str("Location"),
			FoodType:     model.FoodType(rec.str("Food_Type")),
			MealType:     model.MealType(rec.str("Meal_Type")),
		}
		if l.ID, err = rec.integer("Food_ID"); err != nil {
			return nil, err
		}
		if l.Name, err = rec.requiredStr("Food_Name"); err != nil {
			return nil, err
		}
		if l.Quantity, err = rec.integer("Quantity"); err != nil {
			return nil, err
		}
		if l.Quantity < 1 {
			return nil, rec.errorf("Quantity", "%d is below 1", l.Quantity)
		}
		if l.ExpiryDate, err = rec.datetime("Expiry_Date", DateLayouts); err != nil {
			return nil, err
		}
		if l.ProviderID, err = rec.integer("Provider_ID"); err != nil {
			return nil, err
		}
		if !l.FoodType.Valid() {
			return nil, rec.errorf("Food_Type", "unknown food type %q", l.FoodType)
		}
		if !l.MealType.Valid() {
			return nil, rec.errorf("Meal_Type", "unknown meal type %q", l.MealType)
		}
		out = append(out, l)
	}
}

// DecodeClaims reads the claims table. Timestamp is parsed with TimestampLayouts.
func DecodeClaims(r io.Reader) ([]model.Claim, error) {
	t, err := newTable(r, "Claim_ID", "Food_ID", "Receiver_ID", "Status", "Timestamp")
	if err != nil {
		return nil, err
	}

	var out []model.Claim
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		c := model.Claim{Status: model.ClaimStatus(rec.str("Status"))}
		if c.ID, err = rec.integer("Claim_ID"); err != nil {
			return nil, err
		}
		if c.FoodID, err = rec.integer("Food_ID"); err != nil {
			return nil, err
		}
		if c.ReceiverID, err = rec.integer("Receiver_ID"); err != nil {
			return nil, err
		}
		if !c.Status.Valid() {
			return nil, rec.errorf("Status", "unknown claim status %q", c.Status)
		}
		if c.Timestamp, err = rec.datetime("Timestamp", TimestampLayouts); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
}

// DecodeTable dispatches on the table name and stores the result in ds.
func DecodeTable(table string, r io.Reader, ds *model.Dataset) error {
	var err error
	switch table {
	case "providers":
		ds.Providers, err = DecodeProviders(r)
	case "receivers":
		ds.Receivers, err = DecodeReceivers(r)
	case "food_listings":
		ds.Listings, err = DecodeListings(r)
	case "claims":
		ds.Claims, err = DecodeClaims(r)
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return err
}

package testutil

import (
	"testing"

	"fwm-go/internal/fwm"
	"fwm-go/internal/source"
)

// Sample CSV tables. With FixedClock as "today" (2025-03-10):
//   - listing 3 expires today, 1/5/2 within a week, 4 in eight days
//   - claims 1, 2, 4 are Completed, 3 Pending, 5 Cancelled
//   - total quantity is 55
const (
	ProvidersCSV = `Provider_ID,Name,Type,Address,City,Contact
1,Alpha Bakery,Restaurant,1 Main St,Springfield,555-0001
2,Beta Grocers,Grocery Store,,Springfield,555-0002
3,Gamma Market,Supermarket,9 Elm Rd,Shelbyville,555-0003
`
	ReceiversCSV = `Receiver_ID,Name,Type,City,Contact
1,Hope Shelter,Shelter,Springfield,r-1
2,Food Aid,NGO,Shelbyville,r-2
3,Open Kitchen,Charity,Capital City,r-3
`
	ListingsCSV = `Food_ID,Food_Name,Quantity,Expiry_Date,Provider_ID,Provider_Type,Location,Food_Type,Meal_Type
1,Bread,10,2025-03-11,1,Restaurant,Springfield,Vegetarian,Breakfast
2,Rice,20,2025-03-17,2,Grocery Store,Springfield,Vegan,Lunch
3,Soup,5,3/10/2025,3,Supermarket,Shelbyville,Vegetarian,Dinner
4,Bread,8,2025-03-18,3,Supermarket,Shelbyville,Vegan,Snacks
5,Chicken,12,2025-03-12,1,Restaurant,Springfield,Non-Vegetarian,Dinner
`
	ClaimsCSV = `Claim_ID,Food_ID,Receiver_ID,Status,Timestamp
1,1,1,Completed,2025-03-01 10:00:00
2,2,1,Completed,2025-03-02 11:00:00
3,2,2,Pending,3/3/2025 12:00
4,5,2,Completed,2025-03-04 13:00:00
5,3,3,Cancelled,2025-03-05T14:00:00
`
)

// SampleTables maps each table name to its sample CSV.
func SampleTables() map[string]string {
	return map[string]string{
		fwm.TableProviders: ProvidersCSV,
		fwm.TableReceivers: ReceiversCSV,
		fwm.TableListings:  ListingsCSV,
		fwm.TableClaims:    ClaimsCSV,
	}
}

// NewSampleSource returns a memory source holding the sample tables.
func NewSampleSource() *source.MemorySource {
	src := source.NewMemorySource()
	for table, data := range SampleTables() {
		src.Put(table, []byte(data))
	}
	return src
}

// NewTestService returns a service over a fresh in-memory store and the
// sample source, not yet loaded.
func NewTestService(t *testing.T) (*fwm.Service, *source.MemorySource, *StubClock) {
	t.Helper()

	src := NewSampleSource()
	clock := FixedClock()
	svc := fwm.NewService(NewTestDatabase(t), src, fwm.NewNopLogger(), clock, NewStubIDGenerator(), 0)
	return svc, src, clock
}

// NewLoadedService is NewTestService followed by a successful Load.
func NewLoadedService(t *testing.T) (*fwm.Service, *source.MemorySource, *StubClock) {
	t.Helper()

	svc, src, clock := NewTestService(t)
	if _, err := svc.Load(t.Context()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return svc, src, clock
}

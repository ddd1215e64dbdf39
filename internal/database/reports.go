package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fwm-go/internal/fwm"
	"fwm-go/internal/model"
)

// reportDef is one entry of the report catalog.
type reportDef struct {
	title   string
	params  []string
	columns []string
	query   func(p model.ReportParams) (string, []any)
}

// ranking is the shape shared by most reports: one key column and one
// aggregate, ordered by the aggregate descending with the key as tie-break.
type ranking struct {
	from    string // FROM clause including joins
	key     string // key expression
	keyCol  string
	groupBy string // defaults to key
	agg     string // aggregate expression
	aggCol  string
	where   string
	limit   int
}

func (r ranking) def(title string) reportDef {
	groupBy := r.groupBy
	if groupBy == "" {
		groupBy = r.key
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s AS %s, %s AS %s FROM %s", r.key, r.keyCol, r.agg, r.aggCol, r.from)
	if r.where != "" {
		fmt.Fprintf(&b, " WHERE %s", r.where)
	}
	fmt.Fprintf(&b, " GROUP BY %s ORDER BY %s DESC, %s ASC", groupBy, r.aggCol, r.keyCol)
	if groupBy != r.key {
		fmt.Fprintf(&b, ", %s ASC", groupBy)
	}
	if r.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", r.limit)
	}
	query := b.String()

	return reportDef{
		title:   title,
		columns: []string{r.keyCol, r.aggCol},
		query:   func(model.ReportParams) (string, []any) { return query, nil },
	}
}

func fixed(title string, columns []string, query string) reportDef {
	return reportDef{
		title:   title,
		columns: columns,
		query:   func(model.ReportParams) (string, []any) { return query, nil },
	}
}

const completed = "c.status = 'Completed'"

// reportOrder is the catalog's display order.
var reportOrder = []model.ReportName{
	model.ReportProvidersReceiversPerCity,
	model.ReportContributionByType,
	model.ReportProviderContacts,
	model.ReportTopReceivers,
	model.ReportTotalFoodAvailable,
	model.ReportCityMostListings,
	model.ReportCommonFoodNames,
	model.ReportClaimsPerFood,
	model.ReportProvidersSuccessful,
	model.ReportClaimStatusPercentage,
	model.ReportAvgClaimedPerReceiver,
	model.ReportMostClaimedMealType,
	model.ReportDonatedByProvider,
	model.ReportNearingExpiry,
	model.ReportClaimsByReceiverType,
}

var reports = map[model.ReportName]reportDef{
	model.ReportProvidersReceiversPerCity: fixed(
		"Providers and receivers per city",
		[]string{"city", "num_providers", "num_receivers"},
		`SELECT city, SUM(is_provider) AS num_providers, SUM(is_receiver) AS num_receivers
		 FROM (
		     SELECT city, 1 AS is_provider, 0 AS is_receiver FROM providers
		     UNION ALL
		     SELECT city, 0, 1 FROM receivers
		 )
		 GROUP BY city
		 ORDER BY num_providers DESC, num_receivers DESC, city ASC`),

	model.ReportContributionByType: ranking{
		from: "food_listings", key: "provider_type", keyCol: "provider_type",
		agg: "SUM(quantity)", aggCol: "total_quantity",
	}.def("Food contributed by provider type"),

	model.ReportProviderContacts: {
		title:   "Provider contacts in a city",
		params:  []string{"city"},
		columns: []string{"name", "type", "contact"},
		query: func(p model.ReportParams) (string, []any) {
			return `SELECT name, type, contact FROM providers WHERE city = ? ORDER BY name, provider_id`,
				[]any{p.City}
		},
	},

	model.ReportTopReceivers: ranking{
		from: "claims c JOIN food_listings f ON f.food_id = c.food_id JOIN receivers r ON r.receiver_id = c.receiver_id",
		key: "r.name", keyCol: "receiver_name", groupBy: "r.receiver_id",
		agg: "SUM(f.quantity)", aggCol: "total_claimed_quantity",
		where: completed,
	}.def("Receivers by completed claim quantity"),

	model.ReportTotalFoodAvailable: fixed(
		"Total food available",
		[]string{"total_food_available"},
		`SELECT COALESCE(SUM(quantity), 0) AS total_food_available FROM food_listings`),

	model.ReportCityMostListings: ranking{
		from: "food_listings", key: "location", keyCol: "location",
		agg: "COUNT(*)", aggCol: "num_listings", limit: 1,
	}.def("City with the most listings"),

	model.ReportCommonFoodNames: ranking{
		from: "food_listings", key: "food_name", keyCol: "food_name",
		agg: "COUNT(*)", aggCol: "num_listings", limit: 5,
	}.def("Most common food items"),

	model.ReportClaimsPerFood: ranking{
		from: "claims c JOIN food_listings f ON f.food_id = c.food_id",
		key: "f.food_name", keyCol: "food_name",
		agg: "COUNT(*)", aggCol: "num_claims",
	}.def("Claims per food item"),

	model.ReportProvidersSuccessful: ranking{
		from: "claims c JOIN food_listings f ON f.food_id = c.food_id JOIN providers p ON p.provider_id = f.provider_id",
		key: "p.name", keyCol: "provider_name", groupBy: "p.provider_id",
		agg: "COUNT(*)", aggCol: "successful_claims",
		where: completed,
	}.def("Providers by completed claims"),

	model.ReportClaimStatusPercentage: fixed(
		"Claim status percentage",
		[]string{"status", "percentage"},
		`SELECT status, 100.0 * COUNT(*) / (SELECT COUNT(*) FROM claims) AS percentage
		 FROM claims
		 GROUP BY status
		 ORDER BY percentage DESC, status ASC`),

	model.ReportAvgClaimedPerReceiver: ranking{
		from: "claims c JOIN food_listings f ON f.food_id = c.food_id JOIN receivers r ON r.receiver_id = c.receiver_id",
		key: "r.name", keyCol: "receiver_name", groupBy: "r.receiver_id",
		agg: "AVG(f.quantity)", aggCol: "avg_quantity_claimed",
		where: completed,
	}.def("Average quantity claimed per receiver"),

	model.ReportMostClaimedMealType: ranking{
		from: "claims c JOIN food_listings f ON f.food_id = c.food_id",
		key: "f.meal_type", keyCol: "meal_type",
		agg: "COUNT(*)", aggCol: "num_claims",
		where: completed,
	}.def("Most claimed meal types"),

	model.ReportDonatedByProvider: ranking{
		from: "food_listings f JOIN providers p ON p.provider_id = f.provider_id",
		key: "p.name", keyCol: "provider_name", groupBy: "p.provider_id",
		agg: "SUM(f.quantity)", aggCol: "total_donated_quantity",
	}.def("Quantity donated per provider"),

	model.ReportNearingExpiry: {
		title:   "Listings nearing expiry",
		params:  []string{"days"},
		columns: []string{"food_id", "food_name", "quantity", "expiry_date", "location", "provider_id"},
		query: func(p model.ReportParams) (string, []any) {
			days := 0
			if p.Days != nil {
				days = *p.Days
			}
			from := p.Today.Format(dateLayout)
			until := p.Today.AddDate(0, 0, days).Format(dateLayout)
			return `SELECT food_id, food_name, quantity, expiry_date, location, provider_id
				FROM food_listings
				WHERE expiry_date > ? AND expiry_date <= ?
				ORDER BY expiry_date, food_id`, []any{from, until}
		},
	},

	model.ReportClaimsByReceiverType: ranking{
		from: "claims c JOIN receivers r ON r.receiver_id = c.receiver_id",
		key: "r.type", keyCol: "receiver_type",
		agg: "COUNT(*)", aggCol: "num_claims",
	}.def("Claims by receiver type"),
}

func (s *SQLiteDatabase) ReportCatalog() []model.ReportInfo {
	catalog := make([]model.ReportInfo, 0, len(reportOrder))
	for _, name := range reportOrder {
		def := reports[name]
		catalog = append(catalog, model.ReportInfo{Name: name, Title: def.title, Params: def.params})
	}
	return catalog
}

func (s *SQLiteDatabase) RunReport(ctx context.Context, name model.ReportName, params model.ReportParams) (*model.Report, error) {
	def, ok := reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: report %q", fwm.ErrNotFound, name)
	}

	query, args := def.query(params)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	report := &model.Report{
		Name:    name,
		Title:   def.title,
		Columns: def.columns,
		Rows:    []model.Row{},
	}

	values := make([]any, len(def.columns))
	dest := make([]any, len(def.columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning: %w", err)
		}
		row := make(model.Row, len(def.columns))
		for i, col := range def.columns {
			row[col] = normalize(values[i])
		}
		report.Rows = append(report.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return report, nil
}

// normalize maps driver values onto the types documented on model.Row.
func normalize(v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return formatTime(v)
	default:
		return v
	}
}

package fwm

import (
	"context"
	"io"
)

// Table names of the four source datasets.
const (
	TableProviders = "providers"
	TableReceivers = "receivers"
	TableListings  = "food_listings"
	TableClaims    = "claims"
)

// Tables lists the source tables in load order.
var Tables = []string{TableProviders, TableReceivers, TableListings, TableClaims}

// Source opens the raw CSV content of a source table.
// Implementations exist for the local filesystem, S3, and memory (tests).
type Source interface {
	// Open returns a reader over the table's CSV. The caller closes it.
	Open(ctx context.Context, table string) (io.ReadCloser, error)

	// Describe returns a human-readable location for the table, for logs and errors.
	Describe(table string) string
}

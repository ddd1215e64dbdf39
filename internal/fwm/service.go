package fwm

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultExpiryWindowDays is the nearing-expiry horizon when none is configured.
const DefaultExpiryWindowDays = 7

// Service is the layer every UI (CLI, HTTP API) calls into. It owns the
// load/report/mutation/lookup operations over a single injected Database.
//
// The store is shared by all callers. Reads take the read lock, while loads,
// mutations and claim submission take the write lock, so a report always sees
// a consistent state and max+1 id allocation cannot race.
type Service struct {
	mu       sync.RWMutex
	database Database
	source   Source
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	validate *validator.Validate

	expiryWindowDays int
}

// NewService creates a Service with the provided dependencies.
// expiryWindowDays <= 0 selects DefaultExpiryWindowDays.
func NewService(database Database, source Source, logger Logger, clock Clock, idgen IDGenerator, expiryWindowDays int) *Service {
	if expiryWindowDays <= 0 {
		expiryWindowDays = DefaultExpiryWindowDays
	}
	return &Service{
		database:         database,
		source:           source,
		logger:           logger,
		clock:            clock,
		idgen:            idgen,
		validate:         newValidator(),
		expiryWindowDays: expiryWindowDays,
	}
}

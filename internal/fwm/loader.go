package fwm

import (
	"context"
	"fmt"

	"fwm-go/internal/ingest"
	"fwm-go/internal/model"
)

// LoadSummary reports the row counts of a successful load.
type LoadSummary struct {
	LoadID    string `json:"load_id"`
	Providers int    `json:"providers"`
	Receivers int    `json:"receivers"`
	Listings  int    `json:"food_listings"`
	Claims    int    `json:"claims"`
}

// Load reads all four source tables and replaces the store content wholesale.
// Every table is decoded before the store is touched, and the replacement is a
// single transaction, so a failed load leaves the previous content in place.
// All failures wrap ErrLoadFailure.
func (s *Service) Load(ctx context.Context) (*LoadSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadID := s.idgen.New()
	s.logger.Info("loading sources", "load_id", loadID)

	ds, err := s.readDataset(ctx)
	if err != nil {
		s.logger.Error("load failed", "load_id", loadID, "error", err)
		return nil, err
	}

	if err := s.database.ReplaceAll(ctx, ds); err != nil {
		s.logger.Error("load failed", "load_id", loadID, "error", err)
		return nil, fmt.Errorf("%w: replacing tables: %w", ErrLoadFailure, err)
	}

	summary := &LoadSummary{
		LoadID:    loadID,
		Providers: len(ds.Providers),
		Receivers: len(ds.Receivers),
		Listings:  len(ds.Listings),
		Claims:    len(ds.Claims),
	}
	s.logger.Info("sources loaded",
		"load_id", loadID,
		"providers", summary.Providers,
		"receivers", summary.Receivers,
		"food_listings", summary.Listings,
		"claims", summary.Claims,
	)
	return summary, nil
}

// readDataset opens and decodes every table.
func (s *Service) readDataset(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}
	for _, table := range Tables {
		if err := s.readTable(ctx, table, ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (s *Service) readTable(ctx context.Context, table string, ds *model.Dataset) error {
	s.logger.Debug("reading table", "table", table, "source", s.source.Describe(table))

	rc, err := s.source.Open(ctx, table)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrLoadFailure, s.source.Describe(table), err)
	}
	defer rc.Close()

	if err := ingest.DecodeTable(table, rc, ds); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrLoadFailure, s.source.Describe(table), err)
	}
	return nil
}

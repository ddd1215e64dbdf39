package fwm

import (
	"context"
	"fmt"
	"strings"

	"fwm-go/internal/model"
)

// Reports returns the report catalog in display order.
func (s *Service) Reports() []model.ReportInfo {
	return s.database.ReportCatalog()
}

// Report runs one catalog report against the live store.
// nearing-expiry defaults Days to the configured window; provider-contacts
// requires City.
func (s *Service) Report(ctx context.Context, name model.ReportName, params model.ReportParams) (*model.Report, error) {
	switch name {
	case model.ReportProviderContacts:
		params.City = strings.TrimSpace(params.City)
		if params.City == "" {
			return nil, fmt.Errorf("%w: report %s requires a city", ErrValidation, name)
		}
	case model.ReportNearingExpiry:
		if params.Days == nil {
			days := s.expiryWindowDays
			params.Days = &days
		}
		if *params.Days < 0 {
			return nil, fmt.Errorf("%w: days must not be negative, got %d", ErrValidation, *params.Days)
		}
	}
	params.Today = dateOf(s.clock.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	report, err := s.database.RunReport(ctx, name, params)
	if err != nil {
		return nil, fmt.Errorf("running report %s: %w", name, err)
	}
	return report, nil
}

// TotalFoodAvailable returns sum(quantity) over all listings, 0 when there are none.
func (s *Service) TotalFoodAvailable(ctx context.Context) (int64, error) {
	report, err := s.Report(ctx, model.ReportTotalFoodAvailable, model.ReportParams{})
	if err != nil {
		return 0, err
	}
	v, ok := report.Scalar()
	if !ok {
		return 0, fmt.Errorf("report %s returned %d rows", report.Name, len(report.Rows))
	}
	total, _ := v.(int64)
	return total, nil
}

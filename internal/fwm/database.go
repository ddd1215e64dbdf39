package fwm

import (
	"context"

	"fwm-go/internal/model"
)

// Database is the relational store behind the service.
// Lookups that miss return (nil, nil); mutations report ErrNotFound or
// ErrIntegrity wrapped with context.
type Database interface {
	// ReplaceAll swaps the content of all four relations in one transaction.
	ReplaceAll(ctx context.Context, ds *model.Dataset) error

	// Reference data

	ListProviders(ctx context.Context) ([]*model.Provider, error)
	GetProvider(ctx context.Context, id int64) (*model.Provider, error)
	ProviderCities(ctx context.Context) ([]string, error)
	ListReceivers(ctx context.Context) ([]*model.Receiver, error)
	GetReceiver(ctx context.Context, id int64) (*model.Receiver, error)

	// Listings

	// InsertListing fails with ErrIntegrity when the id is taken.
	InsertListing(ctx context.Context, l *model.FoodListing) error

	// UpdateListing fails with ErrNotFound when no listing has the id.
	UpdateListing(ctx context.Context, id int64, u *model.ListingUpdate) error

	// DeleteListing removes the listing's claims and then the listing, atomically.
	// A missing id is not an error.
	DeleteListing(ctx context.Context, id int64) (*model.DeleteResult, error)

	GetListing(ctx context.Context, id int64) (*model.FoodListing, error)
	ListListings(ctx context.Context) ([]*model.FoodListing, error)
	FilterListings(ctx context.Context, f model.ListingFilter) ([]*model.ListingDetail, error)
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
	MaxFoodID(ctx context.Context) (int64, error)

	// Claims

	// InsertClaim fails with ErrIntegrity when the id is taken.
	// It does not check that the referenced listing exists.
	InsertClaim(ctx context.Context, c *model.Claim) error
	MaxClaimID(ctx context.Context) (int64, error)
	ClaimHistory(ctx context.Context) ([]*model.ClaimDetail, error)

	// Reports

	RunReport(ctx context.Context, name model.ReportName, params model.ReportParams) (*model.Report, error)
	ReportCatalog() []model.ReportInfo

	Close() error
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fwm-go/internal/api"
	"fwm-go/internal/config"
	"fwm-go/internal/database"
	"fwm-go/internal/database/migrations"
	"fwm-go/internal/encryption"
	"fwm-go/internal/fwm"
	"fwm-go/internal/ingest"
	"fwm-go/internal/model"
	"fwm-go/internal/source"
)

// Options tune how NewFWMApp wires the application.
type Options struct {
	// Command names the CLI command being run, for the operation log.
	Command string

	// Verbose enables debug records.
	Verbose bool

	// Console receives log records in addition to the log file. Nil means file only.
	Console io.Writer

	// Passphrase is asked for the private key when sources are encrypted and
	// FWM_PASSPHRASE is not set.
	Passphrase func() (string, error)

	// Clock overrides the wall clock, for tests.
	Clock fwm.Clock
}

// FWMApp is the application layer between the CLI and fwm.Service.
// It constructs all dependencies from config, accepts raw CLI strings, and
// releases the store and log file on Close.
type FWMApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	source  fwm.Source
	service *fwm.Service
	logger  *slog.Logger
	op      *Operation
	clock   fwm.Clock
	logFile *os.File
}

// NewFWMApp creates a fully wired FWMApp from cfg. The caller must call Close.
func NewFWMApp(ctx context.Context, cfg *config.Config, opts Options) (*FWMApp, error) {
	clock := opts.Clock
	if clock == nil {
		clock = fwm.RealClock{}
	}
	op := NewOperation(opts.Command, clock.Now())

	level := slog.LevelInfo
	if opts.Verbose || cfg.Server.Debug {
		level = slog.LevelDebug
	}
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, level, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	decrypter, err := unlockSource(cfg, opts.Passphrase)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	src, err := source.NewSourceFromConfig(ctx, cfg.Source, decrypter)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating source: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}

	svc := fwm.NewService(db, src, &slogAdapter{l: logger}, clock, fwm.UUIDGenerator{}, cfg.Reports.ExpiryWindowDays)

	logger.Debug("command started", "command", op.Command, "database", db.Path(), "source", src.Describe(fwm.TableListings))

	return &FWMApp{
		cfg:     cfg,
		db:      db,
		source:  src,
		service: svc,
		logger:  logger,
		op:      op,
		clock:   clock,
		logFile: logFile,
	}, nil
}

// unlockSource returns the decrypter for an encrypted source, or nil.
func unlockSource(cfg *config.Config, ask func() (string, error)) (source.Decrypter, error) {
	if !cfg.Source.Encrypted {
		return nil, nil
	}

	passphrase := os.Getenv(EnvPassphrase)
	if passphrase == "" {
		if ask == nil {
			return nil, fmt.Errorf("encrypted source: set %s or run interactively", EnvPassphrase)
		}
		p, err := ask()
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		passphrase = p
	}

	d, err := encryption.NewKeyring(cfg.Encryption).Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking keys: %w", err)
	}
	return d, nil
}

func (a *FWMApp) Service() *fwm.Service { return a.service }

func (a *FWMApp) Config() *config.Config { return a.cfg }

// Logger returns the session logger in the service's interface.
func (a *FWMApp) Logger() fwm.Logger { return &slogAdapter{l: a.logger} }

// Load replaces the store content from the configured sources.
func (a *FWMApp) Load(ctx context.Context) (*fwm.LoadSummary, error) {
	summary, err := a.service.Load(ctx)
	return summary, a.op.Fail(err)
}

// Start runs the load every process begins with and fails with ErrLoadFailure
// unless all four sources load. An on-disk store is replaced by the load, so a
// process never serves rows a previous process left behind.
func (a *FWMApp) Start(ctx context.Context) (*fwm.LoadSummary, error) {
	summary, err := a.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial load: %w", err)
	}
	return summary, nil
}

// Report runs a report with parameters as typed on the command line.
// An empty days string selects the configured window.
func (a *FWMApp) Report(ctx context.Context, name, city, days string) (*model.Report, error) {
	params := model.ReportParams{City: city}
	if strings.TrimSpace(days) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(days))
		if err != nil {
			return nil, a.op.Fail(fmt.Errorf("%w: days %q is not an integer", fwm.ErrValidation, days))
		}
		params.Days = &n
	}
	report, err := a.service.Report(ctx, model.ReportName(name), params)
	return report, a.op.Fail(err)
}

// ListingInput is a listing as typed on the command line.
type ListingInput struct {
	ID         int64
	Name       string
	Quantity   int64
	ExpiryDate string
	ProviderID int64
	FoodType   string
	MealType   string
}

func (in ListingInput) expiry() (time.Time, error) {
	t, err := ingest.ParseTime(in.ExpiryDate, ingest.DateLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expiry date: %v", fwm.ErrValidation, err)
	}
	return t, nil
}

// CreateListing parses in and adds it for an existing provider.
func (a *FWMApp) CreateListing(ctx context.Context, in ListingInput) (*model.FoodListing, error) {
	expiry, err := in.expiry()
	if err != nil {
		return nil, a.op.Fail(err)
	}
	l, err := a.service.CreateListing(ctx, model.FoodListing{
		ID:         in.ID,
		Name:       in.Name,
		Quantity:   in.Quantity,
		ExpiryDate: expiry,
		ProviderID: in.ProviderID,
		FoodType:   model.FoodType(in.FoodType),
		MealType:   model.MealType(in.MealType),
	})
	return l, a.op.Fail(err)
}

// UpdateListing parses in and overwrites the mutable fields of listing id.
func (a *FWMApp) UpdateListing(ctx context.Context, id int64, in ListingInput) (*model.FoodListing, error) {
	expiry, err := in.expiry()
	if err != nil {
		return nil, a.op.Fail(err)
	}
	l, err := a.service.UpdateListing(ctx, id, model.ListingUpdate{
		Name:       in.Name,
		Quantity:   in.Quantity,
		ExpiryDate: expiry,
		FoodType:   model.FoodType(in.FoodType),
		MealType:   model.MealType(in.MealType),
	})
	return l, a.op.Fail(err)
}

func (a *FWMApp) DeleteListing(ctx context.Context, id int64) (*model.DeleteResult, error) {
	res, err := a.service.DeleteListing(ctx, id)
	return res, a.op.Fail(err)
}

func (a *FWMApp) SubmitClaim(ctx context.Context, foodID, receiverID int64, status string) (*model.Claim, error) {
	c, err := a.service.SubmitClaim(ctx, foodID, receiverID, model.ClaimStatus(status))
	return c, a.op.Fail(err)
}

// NewServer builds the HTTP API over this app's service.
func (a *FWMApp) NewServer() (*api.Server, error) {
	return api.NewServer(a.cfg.Server, a.service, a.Logger())
}

// DatabaseStatus reports the schema version of the store.
func (a *FWMApp) DatabaseStatus() (*migrations.Status, error) {
	return migrations.ReadStatus(a.db.DB())
}

// DatabaseSchema returns the CREATE statements of the store.
func (a *FWMApp) DatabaseSchema() (string, error) {
	return migrations.DumpSchema(a.db.DB())
}

// Close logs the outcome of the operation and releases the store and log file.
func (a *FWMApp) Close() error {
	var errs []error

	a.logger.Info("command finished",
		"command", a.op.Command,
		"status", a.op.Status,
		"duration", a.clock.Now().Sub(a.op.Started).Truncate(time.Millisecond),
	)

	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Fail records err against the running operation and returns it.
func (a *FWMApp) Fail(err error) error {
	return a.op.Fail(err)
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"fwm-go/internal/database/migrations"
	"fwm-go/internal/fwm"
	"fwm-go/internal/model"
)

// Text layouts for DATE and TIMESTAMP columns. go-sqlite3 parses both back
// into time.Time for columns declared with those types, and lexical order
// matches chronological order.
const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteDatabase implements fwm.Database on SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

var _ fwm.Database = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase opens the database at path (or MemoryPath) and migrates it
// to the latest schema.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection pool without
// touching the schema.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// DB exposes the underlying pool for schema tooling.
func (s *SQLiteDatabase) DB() *sql.DB {
	return s.db
}

func (s *SQLiteDatabase) Path() string {
	return s.path
}

func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// ReplaceAll

func (s *SQLiteDatabase) ReplaceAll(ctx context.Context, ds *model.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"claims", "food_listings", "receivers", "providers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i := range ds.Providers {
		p := &ds.Providers[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO providers (provider_id, name, type, address, city, contact) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Type, p.Address, p.City, p.Contact)
		if err != nil {
			return fmt.Errorf("inserting provider %d: %w", p.ID, mapError(err))
		}
	}

	for i := range ds.Receivers {
		r := &ds.Receivers[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO receivers (receiver_id, name, type, city, contact) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Type, r.City, r.Contact)
		if err != nil {
			return fmt.Errorf("inserting receiver %d: %w", r.ID, mapError(err))
		}
	}

	for i := range ds.Listings {
		if err := insertListing(ctx, tx, &ds.Listings[i]); err != nil {
			return err
		}
	}

	for i := range ds.Claims {
		if err := insertClaim(ctx, tx, &ds.Claims[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Reference data

const providerColumns = `provider_id, name, type, address, city, contact`

func scanProvider(row interface{ Scan(...any) error }) (*model.Provider, error) {
	var p model.Provider
	if err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Address, &p.City, &p.Contact); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteDatabase) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+providerColumns+` FROM providers ORDER BY provider_id`)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}
	defer rows.Close()

	var result []*model.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning provider: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *SQLiteDatabase) GetProvider(ctx context.Context, id int64) (*model.Provider, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM providers WHERE provider_id = ?`, id)
	p, err := scanProvider(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding provider: %w", err)
	}
	return p, nil
}

func (s *SQLiteDatabase) ProviderCities(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "providers", "city")
}

const receiverColumns = `receiver_id, name, type, city, contact`

func scanReceiver(row interface{ Scan(...any) error }) (*model.Receiver, error) {
	var r model.Receiver
	if err := row.Scan(&r.ID, &r.Name, &r.Type, &r.City, &r.Contact); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteDatabase) ListReceivers(ctx context.Context) ([]*model.Receiver, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+receiverColumns+` FROM receivers ORDER BY receiver_id`)
	if err != nil {
		return nil, fmt.Errorf("listing receivers: %w", err)
	}
	defer rows.Close()

	var result []*model.Receiver
	for rows.Next() {
		r, err := scanReceiver(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning receiver: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SQLiteDatabase) GetReceiver(ctx context.Context, id int64) (*model.Receiver, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+receiverColumns+` FROM receivers WHERE receiver_id = ?`, id)
	r, err := scanReceiver(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding receiver: %w", err)
	}
	return r, nil
}

// Listings

const listingColumns = `food_id, food_name, quantity, expiry_date, provider_id, provider_type, location, food_type, meal_type`

func scanListing(row interface{ Scan(...any) error }, extra ...any) (*model.FoodListing, error) {
	var l model.FoodListing
	dest := append([]any{
		&l.ID, &l.Name, &l.Quantity, &l.ExpiryDate, &l.ProviderID,
		&l.ProviderType, &l.Location, &l.FoodType, &l.MealType,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &l, nil
}

func insertListing(ctx context.Context, ex execer, l *model.FoodListing) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO food_listings (`+listingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Quantity, l.ExpiryDate.Format(dateLayout), l.ProviderID,
		l.ProviderType, l.Location, string(l.FoodType), string(l.MealType))
	if err != nil {
		return fmt.Errorf("inserting listing %d: %w", l.ID, mapError(err))
	}
	return nil
}

func (s *SQLiteDatabase) InsertListing(ctx context.Context, l *model.FoodListing) error {
	return insertListing(ctx, s.db, l)
}

func (s *SQLiteDatabase) UpdateListing(ctx context.Context, id int64, u *model.ListingUpdate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE food_listings
		 SET food_name = ?, quantity = ?, expiry_date = ?, food_type = ?, meal_type = ?
		 WHERE food_id = ?`,
		u.Name, u.Quantity, u.ExpiryDate.Format(dateLayout), string(u.FoodType), string(u.MealType), id)
	if err != nil {
		return fmt.Errorf("updating listing: %w", mapError(err))
	}

	// SQLite counts matched rows, so an unchanged update still reports 1.
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating listing: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: listing %d", fwm.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteListing(ctx context.Context, id int64) (*model.DeleteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	claims, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE food_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting claims: %w", err)
	}
	listings, err := tx.ExecContext(ctx, `DELETE FROM food_listings WHERE food_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting listing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	result := &model.DeleteResult{}
	if n, err := listings.RowsAffected(); err == nil {
		result.ListingDeleted = n > 0
	}
	if n, err := claims.RowsAffected(); err == nil {
		result.ClaimsDeleted = n
	}
	return result, nil
}

func (s *SQLiteDatabase) GetListing(ctx context.Context, id int64) (*model.FoodListing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM food_listings WHERE food_id = ?`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding listing: %w", err)
	}
	return l, nil
}

func (s *SQLiteDatabase) ListListings(ctx context.Context) ([]*model.FoodListing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM food_listings ORDER BY food_id`)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer rows.Close()

	var result []*model.FoodListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// FilterListings returns listings matching every non-empty filter field, joined
// with their provider. Listings whose provider row is missing are not returned.
func (s *SQLiteDatabase) FilterListings(ctx context.Context, f model.ListingFilter) ([]*model.ListingDetail, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v string) {
		if v != "" {
			where = append(where, clause)
			args = append(args, v)
		}
	}
	add("f.location = ?", f.City)
	add("f.provider_type = ?", f.ProviderType)
	add("f.food_type = ?", string(f.FoodType))
	add("f.meal_type = ?", string(f.MealType))

	query := `SELECT f.food_id, f.food_name, f.quantity, f.expiry_date, f.provider_id,
		f.provider_type, f.location, f.food_type, f.meal_type,
		p.name, p.contact
		FROM food_listings f
		JOIN providers p ON p.provider_id = f.provider_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY f.expiry_date, f.food_name, f.food_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering listings: %w", err)
	}
	defer rows.Close()

	var result []*model.ListingDetail
	for rows.Next() {
		var d model.ListingDetail
		l, err := scanListing(rows, &d.ProviderName, &d.ProviderContact)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		d.FoodListing = *l
		result = append(result, &d)
	}
	return result, rows.Err()
}

func (s *SQLiteDatabase) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var (
		opts model.FilterOptions
		err  error
	)
	if opts.Locations, err = s.distinct(ctx, "food_listings", "location"); err != nil {
		return nil, err
	}
	if opts.ProviderTypes, err = s.distinct(ctx, "food_listings", "provider_type"); err != nil {
		return nil, err
	}
	if opts.FoodTypes, err = s.distinct(ctx, "food_listings", "food_type"); err != nil {
		return nil, err
	}
	if opts.MealTypes, err = s.distinct(ctx, "food_listings", "meal_type"); err != nil {
		return nil, err
	}
	return &opts, nil
}

// distinct returns the sorted distinct values of a text column.
// table and column are never user input.
func (s *SQLiteDatabase) distinct(ctx context.Context, table, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT %[2]s FROM %[1]s ORDER BY %[2]s`, table, column))
	if err != nil {
		return nil, fmt.Errorf("reading distinct %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s.%s: %w", table, column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *SQLiteDatabase) MaxFoodID(ctx context.Context) (int64, error) {
	return s.maxID(ctx, "food_listings", "food_id")
}

// Claims

func insertClaim(ctx context.Context, ex execer, c *model.Claim) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO claims (claim_id, food_id, receiver_id, status, timestamp) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.FoodID, c.ReceiverID, string(c.Status), c.Timestamp.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("inserting claim %d: %w", c.ID, mapError(err))
	}
	return nil
}

func (s *SQLiteDatabase) InsertClaim(ctx context.Context, c *model.Claim) error {
	return insertClaim(ctx, s.db, c)
}

func (s *SQLiteDatabase) MaxClaimID(ctx context.Context) (int64, error) {
	return s.maxID(ctx, "claims", "claim_id")
}

func (s *SQLiteDatabase) maxID(ctx context.Context, table, column string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s`, column, table)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("reading max %s: %w", column, err)
	}
	return id, nil
}

func (s *SQLiteDatabase) ClaimHistory(ctx context.Context) ([]*model.ClaimDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.claim_id, COALESCE(f.food_name, ''), COALESCE(r.name, ''), c.status, c.timestamp
		FROM claims c
		LEFT JOIN food_listings f ON f.food_id = c.food_id
		LEFT JOIN receivers r ON r.receiver_id = c.receiver_id
		ORDER BY c.timestamp DESC, c.claim_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("reading claim history: %w", err)
	}
	defer rows.Close()

	var result []*model.ClaimDetail
	for rows.Next() {
		var d model.ClaimDetail
		if err := rows.Scan(&d.ClaimID, &d.FoodName, &d.ReceiverName, &d.Status, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		d.Timestamp = d.Timestamp.UTC()
		result = append(result, &d)
	}
	return result, rows.Err()
}

// mapError translates primary-key violations into fwm.ErrIntegrity.
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintRowID, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", fwm.ErrIntegrity, err)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %v", fwm.ErrValidation, err)
		}
	}
	return err
}

// formatTime renders a DATE or TIMESTAMP value read back from a report query.
func formatTime(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(timestampLayout)
}

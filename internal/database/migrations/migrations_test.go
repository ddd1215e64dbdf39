package migrations

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	for _, table := range []string{"providers", "receivers", "food_listings", "claims", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() error = %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}
	if err := CheckStatus(db); err != nil {
		t.Errorf("CheckStatus() after double migration error = %v", err)
	}
}

func TestCheckStatus(t *testing.T) {
	t.Run("fresh database needs migration", func(t *testing.T) {
		db := openTestDB(t)

		err := CheckStatus(db)
		if !errors.Is(err, ErrNoVersion) {
			t.Fatalf("CheckStatus() error = %v, want ErrNoVersion", err)
		}
	})

	t.Run("migrated database is current", func(t *testing.T) {
		db := openTestDB(t)
		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}

		st, err := ReadStatus(db)
		if err != nil {
			t.Fatalf("ReadStatus() error = %v", err)
		}
		if !st.Current() {
			t.Errorf("ReadStatus() = %+v, want current", st)
		}
		if st.Latest != 2 {
			t.Errorf("Latest = %d, want 2", st.Latest)
		}
	})
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v != 2 {
		t.Errorf("LatestVersion() = %d, want 2", v)
	}
}

func TestSchema_ListingQuantityCheck(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	_, err := db.Exec(`INSERT INTO food_listings
		(food_id, food_name, quantity, expiry_date, provider_id, provider_type, location, food_type, meal_type)
		VALUES (1, 'Bread', 0, '2025-03-01', 1, 'Restaurant', 'Springfield', 'Vegan', 'Lunch')`)
	if err == nil {
		t.Error("expected CHECK violation for quantity 0, insert succeeded")
	}
}

func TestSchema_ClaimIDUnique(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	insert := "INSERT INTO claims (claim_id, food_id, receiver_id, status, timestamp) VALUES (7, 1, 1, 'Pending', '2025-03-01 10:00:00')"
	if _, err := db.Exec(insert); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	if _, err := db.Exec(insert); err == nil {
		t.Error("expected primary key violation for duplicate claim_id, insert succeeded")
	}
}

func TestDumpSchema(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	schema, err := DumpSchema(db)
	if err != nil {
		t.Fatalf("DumpSchema() error = %v", err)
	}

	for _, want := range []string{"CREATE TABLE claims", "CREATE TABLE food_listings", "CREATE INDEX idx_claims_food_id"} {
		if !strings.Contains(schema, want) {
			t.Errorf("DumpSchema() missing %q", want)
		}
	}
	if strings.Contains(schema, "schema_migrations") {
		t.Error("DumpSchema() includes schema_migrations")
	}
	if strings.Index(schema, "CREATE INDEX") < strings.Index(schema, "CREATE TABLE providers") {
		t.Error("DumpSchema() lists indexes before tables")
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

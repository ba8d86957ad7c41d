package testutil

import (
	"car_rental/internal/domain/model"
	"car_rental/internal/platform/database"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

// OpenInMemoryDB opens a migrated in-memory SQLite database private to the
// test and closes it on cleanup.
func OpenInMemoryDB(t *testing.T) *bun.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// OpenFileDB opens a migrated SQLite database file in a temporary directory
// with the regular connection pool, so concurrent transactions really
// contend for the database lock.
func OpenFileDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+t.TempDir()+"/app.db")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// InsertUser stores a user with an unusable password hash.
func InsertUser(t *testing.T, db *bun.DB, username, role string) *model.User {
	t.Helper()
	u := &model.User{Username: username, HashedPassword: "-", Role: role, CreatedAt: time.Now().UTC()}
	if _, err := db.NewInsert().Model(u).Exec(context.Background()); err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
	return u
}

func InsertCar(t *testing.T, db *bun.DB, brand, carModel string) *model.Car {
	t.Helper()
	c := &model.Car{Brand: brand, Model: carModel, Slug: strings.ToLower(brand + "-" + carModel), CreatedAt: time.Now().UTC()}
	if _, err := db.NewInsert().Model(c).Exec(context.Background()); err != nil {
		t.Fatalf("insert car %s %s: %v", brand, carModel, err)
	}
	return c
}

// AssertCarInvariant fails the test if any car has is_rented out of step
// with rented_by.
func AssertCarInvariant(t *testing.T, db *bun.DB) {
	t.Helper()
	var cars []model.Car
	if err := db.NewSelect().Model(&cars).Scan(context.Background()); err != nil {
		t.Fatalf("list cars: %v", err)
	}
	for _, c := range cars {
		if c.IsRented != (c.RentedBy != nil) {
			t.Fatalf("car %d: is_rented=%t rented_by=%v", c.ID, c.IsRented, c.RentedBy)
		}
	}
}

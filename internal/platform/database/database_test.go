package database

import (
	"car_rental/internal/domain/model"
	"context"
	"testing"
	"time"
)

func TestSQLiteDSN(t *testing.T) {
	const extra = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	cases := map[string]string{
		"cars.db":                         "cars.db?" + extra,
		"file:x?mode=memory&cache=shared": "file:x?mode=memory&cache=shared&" + extra,
		"cars.db?_pragma=foreign_keys(0)": "cars.db?_pragma=foreign_keys(0)&_pragma=busy_timeout(5000)&_txlock=immediate",
		"cars.db?_txlock=exclusive":       "cars.db?_txlock=exclusive&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}
	for in, want := range cases {
		if got := sqliteDSN(in); got != want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestMigrate_IdempotentAndEnforcesOpenRentalIndex(t *testing.T) {
	db, err := Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	user := &model.User{Username: "alice", HashedPassword: "x", Role: model.RoleUser, CreatedAt: time.Now()}
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	car := &model.Car{Brand: "Toyota", Model: "Corolla", Slug: "toyota-corolla", CreatedAt: time.Now()}
	if _, err := db.NewInsert().Model(car).Exec(ctx); err != nil {
		t.Fatalf("insert car: %v", err)
	}

	open := &model.Rental{UserID: user.ID, CarID: car.ID, RentalDate: time.Now()}
	if _, err := db.NewInsert().Model(open).Exec(ctx); err != nil {
		t.Fatalf("insert first rental: %v", err)
	}
	second := &model.Rental{UserID: user.ID, CarID: car.ID, RentalDate: time.Now()}
	if _, err := db.NewInsert().Model(second).Exec(ctx); err == nil {
		t.Fatalf("second open rental for the same car was accepted")
	}

	returned := time.Now()
	closed := &model.Rental{UserID: user.ID, CarID: car.ID, RentalDate: time.Now(), ReturnDate: &returned}
	if _, err := db.NewInsert().Model(closed).Exec(ctx); err != nil {
		t.Fatalf("closed rentals must not collide with the open one: %v", err)
	}
}

func TestMigrate_DeletingCarCascadesRentals(t *testing.T) {
	db, err := Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	user := &model.User{Username: "bob", HashedPassword: "x", Role: model.RoleUser, CreatedAt: time.Now()}
	car := &model.Car{Brand: "VW", Model: "Golf", Slug: "vw-golf", CreatedAt: time.Now()}
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.NewInsert().Model(car).Exec(ctx); err != nil {
		t.Fatalf("insert car: %v", err)
	}
	if _, err := db.NewInsert().Model(&model.Rental{UserID: user.ID, CarID: car.ID, RentalDate: time.Now()}).Exec(ctx); err != nil {
		t.Fatalf("insert rental: %v", err)
	}

	if _, err := db.NewDelete().Model((*model.Car)(nil)).Where("id = ?", car.ID).Exec(ctx); err != nil {
		t.Fatalf("delete car: %v", err)
	}
	n, err := db.NewSelect().Model((*model.Rental)(nil)).Where("car_id = ?", car.ID).Count(ctx)
	if err != nil {
		t.Fatalf("count rentals: %v", err)
	}
	if n != 0 {
		t.Fatalf("rentals left after car delete: %d", n)
	}
}

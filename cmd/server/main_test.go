package main

import (
	"car_rental/internal/domain/model"
	"car_rental/internal/platform/database"
	"context"
	"testing"
)

func TestMigrateCommand_CreatesSchemaAndSeedAdmin(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEED_ADMIN_USERNAME", "boss")
	t.Setenv("SEED_ADMIN_PASSWORD", "s3cret!")

	// A file database survives the connection being closed by the command.
	dsn := "file:" + t.TempDir() + "/cars.db"
	for i := 0; i < 2; i++ {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"migrate", "--db-driver", "sqlite", "--db-dsn", dsn, "--log-level", "warn"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}

	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var users []model.User
	if err := db.NewSelect().Model(&users).Scan(context.Background()); err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Username != "boss" || !users[0].IsAdmin() {
		t.Fatalf("unexpected users after two migrations: %+v", users)
	}
}

func TestRootCommand_RejectsBadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "--db-driver", "oracle"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "migrate"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %s not registered: %v", name, err)
		}
	}
}

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"example.com/wellplan/internal/config"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (default: search for db/postgres/migrations upwards)")
	steps := flag.Int("steps", 0, "apply N migrations instead of all (negative rolls back)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	path := *dir
	if path == "" {
		path = findMigrations()
	}
	if path == "" {
		log.Fatal("migrations directory not found")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.New("file://"+abs, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("init migrate: %v", err)
	}
	defer m.Close()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case cmd == "down":
		err = m.Down()
	case cmd == "up":
		err = m.Up()
	default:
		log.Fatalf("unknown command %q (want up or down)", cmd)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration %s failed: %v", cmd, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Fatalf("read version: %v", verr)
	}
	log.Printf("migration %s complete (version=%d dirty=%t)", cmd, version, dirty)
}

// findMigrations walks up from the working directory looking for the migrations folder.
func findMigrations() string {
	current, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < 6; i++ {
		candidate := filepath.Join(current, "db", "postgres", "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}

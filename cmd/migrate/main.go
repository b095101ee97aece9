package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dvloznov/transaction-ingest/internal/config"
)

// Migration is a single versioned DDL file.
type Migration struct {
	Version  int
	Name     string
	SQL      string
	Checksum string
}

var (
	configPath    = flag.String("config", "config.yaml", "path to the YAML config file")
	appliedBy     = flag.String("applied-by", "migrate-cli", "name recorded against applied migrations")
	migrationsDir = flag.String("migrations", "migrations/postgres", "path to the migrations directory")
)

var migrationPattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	conn, err := pgx.Connect(ctx, cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer conn.Close(ctx)

	log.Printf("Connected to PostgreSQL database: %s", cfg.Database.Name)

	if err := ensureSchemaMigrationsTable(ctx, conn); err != nil {
		log.Fatalf("Failed to ensure schema_migrations table: %v", err)
	}

	migrations, err := readMigrations()
	if err != nil {
		log.Fatalf("Failed to read migrations: %v", err)
	}
	log.Printf("Found %d migration files", len(migrations))

	appliedVersions, err := getAppliedVersions(ctx, conn)
	if err != nil {
		log.Fatalf("Failed to get applied migrations: %v", err)
	}
	log.Printf("Found %d already applied migrations", len(appliedVersions))

	appliedCount := 0
	for _, migration := range migrations {
		if appliedVersions[migration.Version] {
			log.Printf("  [SKIP] %04d_%s (already applied)", migration.Version, migration.Name)
			continue
		}

		log.Printf("  [RUN]  %04d_%s", migration.Version, migration.Name)
		if err := applyMigration(ctx, conn, migration); err != nil {
			log.Fatalf("Failed to apply migration %04d_%s: %v", migration.Version, migration.Name, err)
		}
		log.Printf("  [OK]   %04d_%s", migration.Version, migration.Name)
		appliedCount++
	}

	if appliedCount == 0 {
		log.Println("No new migrations to apply. Database is up to date.")
	} else {
		log.Printf("Successfully applied %d migration(s)", appliedCount)
	}
}

func ensureSchemaMigrationsTable(ctx context.Context, conn *pgx.Conn) error {
	const sql = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL,
			checksum   TEXT,
			applied_by TEXT
		)
	`
	if _, err := conn.Exec(ctx, sql); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	return nil
}

// readMigrations loads all NNNN_name.sql files from the migrations directory,
// ordered by version.
func readMigrations() ([]Migration, error) {
	dir := *migrationsDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		// Allow running from cmd/migrate during development.
		dir = filepath.Join("../..", *migrationsDir)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("migrations directory not found: %s", *migrationsDir)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		matches := migrationPattern.FindStringSubmatch(file.Name())
		if matches == nil {
			log.Printf("Skipping file with invalid format: %s", file.Name())
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			log.Printf("Skipping file with invalid version: %s", file.Name())
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version:  version,
			Name:     matches[2],
			SQL:      string(content),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
		})
	}

	sort.Slice(migrations, func(a, b int) bool {
		return migrations[a].Version < migrations[b].Version
	})
	return migrations, nil
}

func getAppliedVersions(ctx context.Context, conn *pgx.Conn) (map[int]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("querying schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// applyMigration executes the DDL and records it in the ledger within one
// transaction, so a half-applied migration never shows up as applied.
func applyMigration(ctx context.Context, conn *pgx.Conn, migration Migration) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, migration.SQL); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}

	const record = `
		INSERT INTO schema_migrations (version, name, applied_at, checksum, applied_by)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, record, migration.Version, migration.Name, time.Now(), migration.Checksum, *appliedBy); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	return tx.Commit(ctx)
}

// Package postgres holds the shared leaderboard table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/migration"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/migrations"
)

// VersionTable tracks leaderboard migrations separately from anything else
// living in the shared database.
const VersionTable = "potd_schema_version"

type LeaderboardStore struct {
	connStr string
	db      *sql.DB
}

func New(connStr string) *LeaderboardStore {
	return &LeaderboardStore{
		connStr: withSearchPath(connStr, constants.AppName),
	}
}

func (s *LeaderboardStore) open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool parameters to avoid connection exhaustion
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *LeaderboardStore) runner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		panic(fmt.Sprintf("postgres migrations missing from build: %v", err))
	}
	return migration.NewRunner(s.db, subFS, migration.DriverPostgres).WithVersionTable(VersionTable)
}

// Init connects, creates the schema and applies pending migrations.
func (s *LeaderboardStore) Init(ctx context.Context) error {
	if err := s.open(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load connects and checks the schema version without migrating.
func (s *LeaderboardStore) Load(ctx context.Context) error {
	if err := s.open(ctx); err != nil {
		return err
	}
	current, err := s.runner().GetCurrentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return fmt.Errorf("leaderboard schema missing, run '%s migrate'", constants.AppName)
	}
	return s.runner().ValidateVersion()
}

// Migrate applies pending leaderboard migrations.
func (s *LeaderboardStore) Migrate() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("leaderboard not connected")
	}
	return s.runner().ApplyMigrations(func(msg string) {
		logger.Info(msg, "store", "leaderboard")
	})
}

func (s *LeaderboardStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Get returns the entry for handle, or nil when the handle has never synced.
func (s *LeaderboardStore) Get(ctx context.Context, handle string) (*models.LeaderboardEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("leaderboard not connected")
	}

	var e models.LeaderboardEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT handle, current_streak, max_streak, last_updated
		FROM leaderboard WHERE handle = $1
	`, handle).Scan(&e.Handle, &e.CurrentStreak, &e.MaxStreak, &e.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard entry: %w", err)
	}
	return &e, nil
}

// Upsert writes entry, replacing any previous row for the handle.
func (s *LeaderboardStore) Upsert(ctx context.Context, entry models.LeaderboardEntry) error {
	if s.db == nil {
		return fmt.Errorf("leaderboard not connected")
	}
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (handle, current_streak, max_streak, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (handle) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			max_streak = EXCLUDED.max_streak,
			last_updated = EXCLUDED.last_updated
	`, entry.Handle, entry.CurrentStreak, entry.MaxStreak, entry.LastUpdated.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry: %w", err)
	}
	return nil
}

// Top lists the n best entries by max streak.
func (s *LeaderboardStore) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("leaderboard not connected")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT handle, current_streak, max_streak, last_updated
		FROM leaderboard
		ORDER BY max_streak DESC, current_streak DESC, handle ASC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Handle, &e.CurrentStreak, &e.MaxStreak, &e.LastUpdated); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *LeaderboardStore) GetConfigPath() string {
	// Return a non-sensitive identifier instead of the full connection string
	return "postgresql://" + Describe(s.connStr)
}

// SchemaVersion reports the applied and the latest known leaderboard schema
// version.
func (s *LeaderboardStore) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("leaderboard not connected")
	}
	r := s.runner()
	if current, err = r.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	latest, err = r.GetLatestVersion()
	return current, latest, err
}

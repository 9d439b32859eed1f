package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BuddyApator/Energie-Buddy/pkg/models"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		display_name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		value REAL NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_readings_user ON readings(user_id);
	CREATE INDEX IF NOT EXISTS idx_readings_recorded_at ON readings(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_readings_published ON readings(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReading appends a reading row. The append is a single statement, so
// it either lands whole or not at all. The assigned row id is written back.
func (db *DB) InsertReading(ctx context.Context, reading *models.Reading) error {
	query := `
	INSERT INTO readings (user_id, recorded_at, value, created_at)
	VALUES (?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(timeLayout)
	res, err := db.conn.ExecContext(ctx, query,
		reading.UserID, reading.RecordedAt.Format(timeLayout), reading.Value, createdAt)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	reading.ID = int(id)

	return nil
}

// ListReadings retrieves all readings for a user in insertion order. An empty
// ledger yields an empty slice and no error; an error always means the store
// call itself failed.
func (db *DB) ListReadings(ctx context.Context, userID string) ([]models.Reading, error) {
	query := `
	SELECT id, user_id, recorded_at, value, published
	FROM readings
	WHERE user_id = ?
	ORDER BY id ASC
	`

	return db.queryReadings(ctx, query, userID)
}

// ListUnpublishedReadings retrieves a user's readings not yet pushed to the
// home-automation side, in insertion order.
func (db *DB) ListUnpublishedReadings(ctx context.Context, userID string) ([]models.Reading, error) {
	query := `
	SELECT id, user_id, recorded_at, value, published
	FROM readings
	WHERE user_id = ? AND published = 0
	ORDER BY id ASC
	`

	return db.queryReadings(ctx, query, userID)
}

func (db *DB) queryReadings(ctx context.Context, query string, args ...any) ([]models.Reading, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	results := []models.Reading{}
	for rows.Next() {
		var r models.Reading
		var recordedAt string
		var published int

		if err := rows.Scan(&r.ID, &r.UserID, &recordedAt, &r.Value, &published); err != nil {
			return nil, fmt.Errorf("scanning reading row: %w", err)
		}

		var err error
		r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}
		r.Published = published != 0

		results = append(results, r)
	}

	return results, rows.Err()
}

// MarkPublished marks a reading as published
func (db *DB) MarkPublished(ctx context.Context, id int) error {
	query := `UPDATE readings SET published = 1 WHERE id = ?`
	_, err := db.conn.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("marking reading as published: %w", err)
	}
	return nil
}

// InsertUser appends a user row.
func (db *DB) InsertUser(ctx context.Context, user *models.User) error {
	query := `
	INSERT INTO users (id, password, display_name, created_at)
	VALUES (?, ?, ?, ?)
	`

	_, err := db.conn.ExecContext(ctx, query,
		user.ID, user.Password, user.DisplayName, user.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by identifier. The lookup is a case-sensitive
// exact match on the id as stored. Returns nil without error when absent.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
	SELECT id, password, display_name, created_at
	FROM users
	WHERE id = ?
	`

	row := db.conn.QueryRowContext(ctx, query, id)

	var user models.User
	var createdAt string

	err := row.Scan(&user.ID, &user.Password, &user.DisplayName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &user, nil
}

// ListUsers retrieves all users in registration order.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
	SELECT id, password, display_name, created_at
	FROM users
	ORDER BY created_at ASC
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	results := []models.User{}
	for rows.Next() {
		var user models.User
		var createdAt string

		if err := rows.Scan(&user.ID, &user.Password, &user.DisplayName, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}

		user.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		results = append(results, user)
	}

	return results, rows.Err()
}

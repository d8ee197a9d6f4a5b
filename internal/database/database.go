package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row targeted by an update or delete does
// not exist.
var ErrNotFound = errors.New("not found")

// Project is a project generated by ezinit.
type Project struct {
	ID        int64
	Name      string
	Language  string
	Path      string
	CreatedAt time.Time
}

// Database defines the interface for ezinit persistence
type Database interface {
	// GetUsageCounts returns the number of generated projects per language
	GetUsageCounts() (map[string]int, error)

	// IncUsageCount increments the usage count of a language
	IncUsageCount(language string) error

	// GetOverrides returns the overridden template files of a language, keyed by path
	GetOverrides(language string) (map[string]string, error)

	// SetOverride creates or replaces the override of a template file
	SetOverride(language, path, content string) error

	// DeleteOverride removes the override of a template file
	DeleteOverride(language, path string) error

	// RecordProject stores a generated project
	RecordProject(project *Project) error

	// ListProjects returns the generated projects, newest first
	ListProjects() ([]*Project, error)

	// Close closes the database connection
	Close() error
}

// SQLiteDatabase implements the Database interface using SQLite
type SQLiteDatabase struct {
	db *sql.DB
}

// NewSQLiteDatabase creates a new SQLite database connection
func NewSQLiteDatabase(dbPath string) (*SQLiteDatabase, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	sqliteDB := &SQLiteDatabase{db: db}

	// Initialize the database schema
	if err := sqliteDB.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return sqliteDB, nil
}

// initSchema creates the tables if they don't exist
func (s *SQLiteDatabase) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS template_usage (
		language TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS overrides (
		language TEXT NOT NULL,
		path TEXT NOT NULL,
		content TEXT NOT NULL,
		PRIMARY KEY (language, path)
	);
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		language TEXT NOT NULL,
		path TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

	_, err := s.db.Exec(query)
	return err
}

// GetUsageCounts returns the number of generated projects per language
func (s *SQLiteDatabase) GetUsageCounts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT language, count FROM template_usage")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var language string
		var count int
		if err := rows.Scan(&language, &count); err != nil {
			return nil, err
		}
		counts[language] = count
	}

	return counts, rows.Err()
}

// IncUsageCount increments the usage count of a language
func (s *SQLiteDatabase) IncUsageCount(language string) error {
	query := `
	INSERT INTO template_usage (language, count) VALUES (?, 1)
	ON CONFLICT(language) DO UPDATE SET count = count + 1`

	_, err := s.db.Exec(query, language)
	return err
}

// GetOverrides returns the overridden template files of a language, keyed by path
func (s *SQLiteDatabase) GetOverrides(language string) (map[string]string, error) {
	rows, err := s.db.Query("SELECT path, content FROM overrides WHERE language = ?", language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]string)
	for rows.Next() {
		var path, content string
		if err := rows.Scan(&path, &content); err != nil {
			return nil, err
		}
		overrides[path] = content
	}

	return overrides, rows.Err()
}

// SetOverride creates or replaces the override of a template file
func (s *SQLiteDatabase) SetOverride(language, path, content string) error {
	query := `
	INSERT INTO overrides (language, path, content) VALUES (?, ?, ?)
	ON CONFLICT(language, path) DO UPDATE SET content = excluded.content`

	_, err := s.db.Exec(query, language, path, content)
	return err
}

// DeleteOverride removes the override of a template file
func (s *SQLiteDatabase) DeleteOverride(language, path string) error {
	result, err := s.db.Exec("DELETE FROM overrides WHERE language = ? AND path = ?", language, path)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("override %s/%s: %w", language, path, ErrNotFound)
	}

	return nil
}

// RecordProject stores a generated project and sets its ID. A zero
// CreatedAt is set to the current time.
func (s *SQLiteDatabase) RecordProject(project *Project) error {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	query := "INSERT INTO projects (name, language, path, created_at) VALUES (?, ?, ?, ?)"
	result, err := s.db.Exec(query, project.Name, project.Language, project.Path, project.CreatedAt.Unix())
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id

	return nil
}

// ListProjects returns the generated projects, newest first
func (s *SQLiteDatabase) ListProjects() ([]*Project, error) {
	query := "SELECT id, name, language, path, created_at FROM projects ORDER BY created_at DESC, id DESC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Language, &p.Path, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// Close closes the database connection
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

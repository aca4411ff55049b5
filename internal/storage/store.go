// Package storage persists screened resumes in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a lookup names a resume that is not stored.
var ErrNotFound = errors.New("resume not found")

const schema = `
CREATE TABLE IF NOT EXISTS resumes (
    resume_id        TEXT PRIMARY KEY,
    name             TEXT,
    email            TEXT,
    phone            TEXT,
    category         TEXT,
    experience_years DOUBLE PRECISION,
    skills           TEXT,
    raw_text         TEXT,
    drive_id         TEXT,
    item_id          TEXT UNIQUE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Store wraps the resumes table.
type Store struct {
	db *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the resumes table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create resumes table: %w", err)
	}
	return nil
}

// SaveResume inserts a resume, replacing any previous row for the same drive
// item so that re-ingesting a file updates it in place.
func (s *Store) SaveResume(ctx context.Context, resume *Resume) error {
	query := `INSERT INTO resumes (resume_id, name, email, phone, category, experience_years, skills, raw_text, drive_id, item_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              ON CONFLICT (item_id) DO UPDATE
                SET name = EXCLUDED.name,
                    email = EXCLUDED.email,
                    phone = EXCLUDED.phone,
                    category = EXCLUDED.category,
                    experience_years = EXCLUDED.experience_years,
                    skills = EXCLUDED.skills,
                    raw_text = EXCLUDED.raw_text,
                    drive_id = EXCLUDED.drive_id`

	_, err := s.db.ExecContext(ctx, query,
		resume.ID,
		resume.Name,
		resume.Email,
		resume.Phone,
		resume.Category,
		resume.ExperienceYears,
		strings.Join(resume.Skills, ", "),
		resume.RawText,
		resume.DriveID,
		nullable(resume.ItemID),
	)
	if err != nil {
		return fmt.Errorf("save resume %s: %w", resume.ID, err)
	}
	return nil
}

// ResumeExists reports whether a drive item has already been ingested.
func (s *Store) ResumeExists(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM resumes WHERE item_id = $1)`
	if err := s.db.QueryRowContext(ctx, query, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check resume %s: %w", itemID, err)
	}
	return exists, nil
}

// ResumeLocation returns the drive coordinates and candidate name of a stored
// resume. Resumes uploaded directly over the API have empty coordinates.
func (s *Store) ResumeLocation(ctx context.Context, resumeID string) (driveID, itemID, name string, err error) {
	query := `SELECT COALESCE(drive_id, ''), COALESCE(item_id, ''), COALESCE(name, '') FROM resumes WHERE resume_id = $1`
	err = s.db.QueryRowContext(ctx, query, resumeID).Scan(&driveID, &itemID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", "", ErrNotFound
	}
	if err != nil {
		return "", "", "", fmt.Errorf("locate resume %s: %w", resumeID, err)
	}
	return driveID, itemID, name, nil
}

// Shortlist returns stored resumes in the given category whose experience
// falls within [minExp, maxExp].
func (s *Store) Shortlist(ctx context.Context, category string, minExp, maxExp float64) ([]*Resume, error) {
	query := `SELECT resume_id, name, email, phone, category, experience_years, skills, raw_text, drive_id, COALESCE(item_id, ''), created_at
              FROM resumes
              WHERE category = $1
                AND experience_years BETWEEN $2 AND $3`

	rows, err := s.db.QueryContext(ctx, query, category, minExp, maxExp)
	if err != nil {
		return nil, fmt.Errorf("query shortlist: %w", err)
	}
	defer rows.Close()

	var resumes []*Resume
	for rows.Next() {
		r := &Resume{}
		var skills string
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.Category,
			&r.ExperienceYears, &skills, &r.RawText, &r.DriveID, &r.ItemID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resume row: %w", err)
		}
		r.Skills = splitAndTrim(skills)
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

// nullable maps an empty item id to NULL so local uploads without a drive
// item do not collide on the unique constraint.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

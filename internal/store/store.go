// Package store is the relational persistence gateway for interview data.
//
// It uses SQLite through database/sql and keeps the GDPR bookkeeping the
// conversation layer is not concerned with: consent timestamps, retention
// deadlines, anonymization and the right to erasure.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgagi/screener/internal/interview"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// defaultRetentionDays is how long personal data is kept before it becomes
// eligible for anonymization.
const defaultRetentionDays = 365

// ErrNotFound is returned when no candidate matches the given external id.
var ErrNotFound = errors.New("candidate not found")

// Candidate is a stored candidate record.
type Candidate struct {
	CandidateID      string
	Name             string
	Email            string
	Phone            string
	Experience       string
	Position         string
	Location         string
	TechStack        string
	ConsentGiven     bool
	ConsentTimestamp string
	RetentionDays    int
	AnonymizeAfter   string
	CreatedAt        string
}

// Store is the SQLite-backed persistence gateway.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens (or creates) the database at path and runs migrations.
func New(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, logger: log}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS candidates (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			candidate_id      TEXT    NOT NULL UNIQUE,
			name              TEXT    NOT NULL,
			email             TEXT    NOT NULL,
			phone             TEXT    NOT NULL,
			experience_years  TEXT,
			desired_position  TEXT,
			location          TEXT,
			tech_stack        TEXT,
			consent_given     INTEGER NOT NULL DEFAULT 0,
			consent_timestamp TEXT,
			retention_days    INTEGER NOT NULL DEFAULT 365,
			anonymize_after   TEXT,
			created_at        TEXT    NOT NULL,
			updated_at        TEXT
		);

		CREATE TABLE IF NOT EXISTS responses (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			candidate_id INTEGER NOT NULL,
			technology   TEXT,
			question     TEXT    NOT NULL,
			answer       TEXT    NOT NULL,
			created_at   TEXT    NOT NULL,
			FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_responses_candidate ON responses(candidate_id);
		CREATE INDEX IF NOT EXISTS idx_candidates_deadline ON candidates(anonymize_after);
	`

	_, err := s.db.Exec(schema)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateCandidate inserts a new candidate record and returns its random
// external identifier. Consent is timestamped only when given; the
// anonymization deadline defaults to one year out either way.
func (s *Store) CreateCandidate(ctx context.Context, fields interview.CandidateFields, consentGiven bool) (string, error) {
	candidateID := uuid.NewString()
	created := now()

	var consentTimestamp any
	if consentGiven {
		consentTimestamp = created
	}

	deadline := time.Now().UTC().AddDate(1, 0, 0).Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (
			candidate_id, name, email, phone,
			experience_years, desired_position, location, tech_stack,
			consent_given, consent_timestamp, retention_days, anonymize_after, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		candidateID, fields.Name, fields.Email, fields.Phone,
		fields.Experience, fields.Position, fields.Location, fields.TechStack,
		consentGiven, consentTimestamp, defaultRetentionDays, deadline, created,
	)
	if err != nil {
		return "", fmt.Errorf("store: create candidate: %w", err)
	}

	s.logger.Debug("candidate record created", zap.String("candidate_id", candidateID))

	return candidateID, nil
}

// StoreResponses records the full set of question/answer pairs for a
// candidate in one transaction. An unknown candidate id is an error.
func (s *Store) StoreResponses(ctx context.Context, candidateID string, responses map[string][]interview.QA) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var internalID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM candidates WHERE candidate_id = ?`, candidateID,
	).Scan(&internalID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: candidate %s: %w", candidateID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store: lookup candidate: %w", err)
	}

	created := now()
	for tech, pairs := range responses {
		for _, qa := range pairs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO responses (candidate_id, technology, question, answer, created_at)
				VALUES (?, ?, ?, ?, ?)`,
				internalID, tech, qa.Question, qa.Answer, created,
			); err != nil {
				return fmt.Errorf("store: insert response: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}

	return nil
}

// GetCandidate fetches a candidate record by external id.
func (s *Store) GetCandidate(ctx context.Context, candidateID string) (*Candidate, error) {
	var (
		c                Candidate
		consentTimestamp sql.NullString
		anonymizeAfter   sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT candidate_id, name, email, phone,
			COALESCE(experience_years, ''), COALESCE(desired_position, ''),
			COALESCE(location, ''), COALESCE(tech_stack, ''),
			consent_given, consent_timestamp, retention_days, anonymize_after, created_at
		FROM candidates WHERE candidate_id = ?`, candidateID,
	).Scan(
		&c.CandidateID, &c.Name, &c.Email, &c.Phone,
		&c.Experience, &c.Position, &c.Location, &c.TechStack,
		&c.ConsentGiven, &consentTimestamp, &c.RetentionDays, &anonymizeAfter, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: candidate %s: %w", candidateID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get candidate: %w", err)
	}

	c.ConsentTimestamp = consentTimestamp.String
	c.AnonymizeAfter = anonymizeAfter.String

	return &c, nil
}

// Responses returns the stored question/answer pairs for a candidate,
// grouped by technology.
func (s *Store) Responses(ctx context.Context, candidateID string) (map[string][]interview.QA, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.technology, r.question, r.answer
		FROM responses r
		JOIN candidates c ON c.id = r.candidate_id
		WHERE c.candidate_id = ?
		ORDER BY r.id`, candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query responses: %w", err)
	}
	defer rows.Close()

	responses := make(map[string][]interview.QA)
	for rows.Next() {
		var (
			tech sql.NullString
			qa   interview.QA
		)
		if err := rows.Scan(&tech, &qa.Question, &qa.Answer); err != nil {
			return nil, fmt.Errorf("store: scan response: %w", err)
		}
		responses[tech.String] = append(responses[tech.String], qa)
	}

	return responses, rows.Err()
}

// UpdateConsent changes a candidate's consent status. Not reachable from
// the conversation layer; exposed for out-of-band data-protection requests.
func (s *Store) UpdateConsent(ctx context.Context, candidateID string, consentGiven bool) (bool, error) {
	var consentTimestamp any
	if consentGiven {
		consentTimestamp = now()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE candidates
		SET consent_given = ?, consent_timestamp = ?, updated_at = ?
		WHERE candidate_id = ?`,
		consentGiven, consentTimestamp, now(), candidateID,
	)
	if err != nil {
		return false, fmt.Errorf("store: update consent: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: update consent: %w", err)
	}

	return affected > 0, nil
}

// AnonymizeExpired overwrites the personal fields of every candidate past
// its retention deadline, keeping the non-identifying columns for
// analytics. Running it again on the same rows leaves them unchanged.
func (s *Store) AnonymizeExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidates
		SET name = 'Anonymized User ' || id,
			email = 'anonymized' || id || '@example.com',
			phone = '0000000000',
			updated_at = ?
		WHERE anonymize_after <= ?`,
		now(), now(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: anonymize expired: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: anonymize expired: %w", err)
	}

	if affected > 0 {
		s.logger.Info("anonymized expired candidate records", zap.Int64("count", affected))
	}

	return int(affected), nil
}

// DeleteCandidate removes a candidate and, via the cascade, all stored
// responses (right to erasure). It reports whether a record was removed.
func (s *Store) DeleteCandidate(ctx context.Context, candidateID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM candidates WHERE candidate_id = ?`, candidateID,
	)
	if err != nil {
		return false, fmt.Errorf("store: delete candidate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: delete candidate: %w", err)
	}

	return affected > 0, nil
}

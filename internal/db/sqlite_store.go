package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/ahpsurvey/internal/api"
)

type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite file at path.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000&_foreign_keys=on", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, logger: slog.Default().With("component", "sqlite_store")}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		s.logger.Error("sqlite store: "+prefix, "err", err)
	}
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// timeLayout has a fixed-width fraction so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		slog.Default().Warn("sqlite store: parse time", "value", v, "err", err)
		return time.Time{}
	}
	return t
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON leaves out untouched on empty or malformed input; the store keeps
// serving the rest of the row.
func (s *SQLiteStore) decodeJSON(ns sql.NullString, out any, what string) {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return
	}
	if err := json.Unmarshal([]byte(ns.String), out); err != nil {
		s.logErr("decode "+what, err)
	}
}

func (s *SQLiteStore) AddParticipant(p *api.Participant) error {
	if p == nil || p.ID == "" {
		return errors.New("participant id required")
	}
	_, err := s.db.Exec(`
INSERT INTO participants (id, name, email, organization, position, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    organization = excluded.organization,
    position = excluded.position`,
		p.ID, p.Name, toNullString(p.Email), toNullString(p.Organization), toNullString(p.Position), formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

const participantColumns = `id, name, email, organization, position, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (*api.Participant, error) {
	var (
		p                    api.Participant
		email, org, position sql.NullString
		createdAt            string
	)
	if err := row.Scan(&p.ID, &p.Name, &email, &org, &position, &createdAt); err != nil {
		return nil, err
	}
	p.Email = email.String
	p.Organization = org.String
	p.Position = position.String
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func (s *SQLiteStore) GetParticipant(id string) *api.Participant {
	row := s.db.QueryRow(`SELECT `+participantColumns+` FROM participants WHERE id = ?`, id)
	p, err := scanParticipant(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("get participant", err)
		}
		return nil
	}
	return p
}

func (s *SQLiteStore) ListParticipants() []*api.Participant {
	rows, err := s.db.Query(`SELECT ` + participantColumns + ` FROM participants ORDER BY created_at, id`)
	if err != nil {
		s.logErr("list participants", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			s.logErr("scan participant", err)
			continue
		}
		out = append(out, p)
	}
	s.logErr("iterate participants", rows.Err())
	return out
}

func (s *SQLiteStore) UpsertResponse(r *api.Response) error {
	if r == nil || r.ParticipantID == "" || r.Section == "" {
		return errors.New("response participant and section required")
	}
	var judgments sql.NullString
	if len(r.Judgments) > 0 {
		enc, err := encodeJSON(r.Judgments)
		if err != nil {
			return fmt.Errorf("encode judgments: %w", err)
		}
		judgments = sql.NullString{String: enc, Valid: true}
	}
	matrix, err := encodeJSON(r.Matrix)
	if err != nil {
		return fmt.Errorf("encode matrix: %w", err)
	}
	weights, err := encodeJSON(r.Weights)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	_, err = s.db.Exec(`
INSERT INTO responses (id, participant_id, section, judgments, matrix, weights, lambda_max, ci, cr, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(participant_id, section) DO UPDATE SET
    id = excluded.id,
    judgments = excluded.judgments,
    matrix = excluded.matrix,
    weights = excluded.weights,
    lambda_max = excluded.lambda_max,
    ci = excluded.ci,
    cr = excluded.cr,
    created_at = excluded.created_at`,
		r.ID, r.ParticipantID, r.Section, judgments, matrix, weights, r.LambdaMax, r.CI, r.CR, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListResponses(participantID string) []*api.Response {
	query := `SELECT id, participant_id, section, judgments, matrix, weights, lambda_max, ci, cr, created_at FROM responses`
	var args []any
	if participantID != "" {
		query += ` WHERE participant_id = ?`
		args = append(args, participantID)
	}
	query += ` ORDER BY created_at, id`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.logErr("list responses", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Response
	for rows.Next() {
		var (
			r                          api.Response
			judgments, matrix, weights sql.NullString
			createdAt                  string
		)
		if err := rows.Scan(&r.ID, &r.ParticipantID, &r.Section, &judgments, &matrix, &weights, &r.LambdaMax, &r.CI, &r.CR, &createdAt); err != nil {
			s.logErr("scan response", err)
			continue
		}
		s.decodeJSON(judgments, &r.Judgments, "judgments")
		s.decodeJSON(matrix, &r.Matrix, "matrix")
		s.decodeJSON(weights, &r.Weights, "weights")
		r.CreatedAt = parseTime(createdAt)
		out = append(out, &r)
	}
	s.logErr("iterate responses", rows.Err())
	return out
}

func (s *SQLiteStore) CountResponses() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		s.logErr("count responses", err)
		return 0
	}
	return n
}

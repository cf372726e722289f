package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	token      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	task_id    TEXT NOT NULL,
	position   INTEGER NOT NULL,
	task       TEXT NOT NULL,
	score      TEXT,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session_id, task_id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_session_position ON tasks(session_id, position);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	settingWeights    = "weights"
	settingHourlyRate = "hourly_rate"
)

// SQLiteStore is the local, single-file session backend.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// A single connection keeps the per-connection pragmas in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *Session) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}
	prepareNewSession(sess, count, s.now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		sess.ID.String(), sess.Name, sess.Token.String(), formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess := &Session{ID: id}
	var token, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, token, created_at, updated_at FROM sessions WHERE id = ?`, id.String(),
	).Scan(&sess.Name, &token, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.Token, _ = uuid.Parse(token)
	sess.CreatedAt = parseTime(createdAt)
	sess.UpdatedAt = parseTime(updatedAt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT task, score FROM tasks WHERE session_id = ? ORDER BY position ASC`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sess.Tasks = []scoring.Task{}
	sess.Scores = map[string]scoring.TaskScore{}
	for rows.Next() {
		var taskJSON string
		var scoreJSON sql.NullString
		if err := rows.Scan(&taskJSON, &scoreJSON); err != nil {
			return nil, err
		}
		var task scoring.Task
		if err := json.Unmarshal([]byte(taskJSON), &task); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		sess.Tasks = append(sess.Tasks, task)
		if scoreJSON.Valid {
			var score scoring.TaskScore
			if err := json.Unmarshal([]byte(scoreJSON.String), &score); err != nil {
				return nil, fmt.Errorf("decode score: %w", err)
			}
			sess.Scores[task.ID] = score
		}
	}
	return sess, rows.Err()
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*SessionMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, COUNT(t.task_id)
		FROM sessions s LEFT JOIN tasks t ON t.session_id = s.id
		GROUP BY s.id, s.name, s.created_at
		ORDER BY s.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SessionMeta
	for rows.Next() {
		m := &SessionMeta{}
		var id, createdAt string
		if err := rows.Scan(&id, &m.Name, &createdAt, &m.TaskCount); err != nil {
			return nil, err
		}
		m.ID, _ = uuid.Parse(id)
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RenameSession(ctx context.Context, id uuid.UUID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?`,
		name, formatTime(s.now()), id.String())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE session_id = ?`, id.String()); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) ClearSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := formatTime(s.now())
	res, err := tx.ExecContext(ctx, `
		UPDATE sessions SET token = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		uuid.New().String(), now, now, id.String())
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE session_id = ?`, id.String()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, id)
}

func (s *SQLiteStore) ResetIfStale(ctx context.Context, id uuid.UUID, cutoff time.Time) (*Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var createdAt string
	var tasks int
	err = tx.QueryRowContext(ctx, `
		SELECT s.created_at, (SELECT COUNT(*) FROM tasks t WHERE t.session_id = s.id)
		FROM sessions s WHERE s.id = ?`, id.String(),
	).Scan(&createdAt, &tasks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tasks > 0 || parseTime(createdAt).After(cutoff) {
		return nil, nil
	}

	now := formatTime(s.now())
	if _, err := tx.ExecContext(ctx, `
		UPDATE sessions SET token = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		uuid.New().String(), now, now, id.String()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, id)
}

func (s *SQLiteStore) SaveTask(ctx context.Context, sessionID uuid.UUID, task scoring.Task, score scoring.TaskScore) error {
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := formatTime(s.now())
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID.String())
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (session_id, task_id, position, task, score, updated_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE session_id = ?), ?, ?, ?)
		ON CONFLICT (session_id, task_id) DO UPDATE SET
			task = excluded.task,
			score = excluded.score,
			updated_at = excluded.updated_at`,
		sessionID.String(), task.ID, sessionID.String(), string(taskJSON), string(scoreJSON), now,
	)
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, sessionID uuid.UUID, taskID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM tasks WHERE session_id = ? AND task_id = ?`, sessionID.String(), taskID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStore) UpdateScoreInsight(ctx context.Context, sessionID uuid.UUID, taskID string, in Insight) error {
	var scoreJSON sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT score FROM tasks WHERE session_id = ? AND task_id = ?`, sessionID.String(), taskID,
	).Scan(&scoreJSON)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !scoreJSON.Valid) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var score scoring.TaskScore
	if err := json.Unmarshal([]byte(scoreJSON.String), &score); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	updated, err := json.Marshal(ApplyInsight(score, in))
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET score = ?, updated_at = ? WHERE session_id = ? AND task_id = ?`,
		string(updated), formatTime(s.now()), sessionID.String(), taskID)
	return err
}

func (s *SQLiteStore) GetSettings(ctx context.Context) (*Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := &Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		if err := decodeSetting(settings, key, []byte(value)); err != nil {
			return nil, err
		}
	}
	return settings, rows.Err()
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *Settings) error {
	values, err := encodeSettings(settings)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range values {
		if value == nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, string(value)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// encodeSettings maps each setting key to its JSON value, or nil when unset.
func encodeSettings(s *Settings) (map[string][]byte, error) {
	out := map[string][]byte{settingWeights: nil, settingHourlyRate: nil}
	if s.Weights != nil {
		b, err := json.Marshal(s.Weights)
		if err != nil {
			return nil, fmt.Errorf("encode weights: %w", err)
		}
		out[settingWeights] = b
	}
	if s.HourlyRate != nil {
		b, err := json.Marshal(*s.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("encode hourly rate: %w", err)
		}
		out[settingHourlyRate] = b
	}
	return out, nil
}

func decodeSetting(s *Settings, key string, value []byte) error {
	switch key {
	case settingWeights:
		var w scoring.WeightSet
		if err := json.Unmarshal(value, &w); err != nil {
			return fmt.Errorf("decode weights: %w", err)
		}
		s.Weights = &w
	case settingHourlyRate:
		var r float64
		if err := json.Unmarshal(value, &r); err != nil {
			return fmt.Errorf("decode hourly rate: %w", err)
		}
		s.HourlyRate = &r
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS readiness_sessions (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	token      UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS readiness_tasks (
	session_id    UUID NOT NULL REFERENCES readiness_sessions(id) ON DELETE CASCADE,
	task_id       TEXT NOT NULL,
	position      INTEGER NOT NULL,
	name          TEXT NOT NULL,
	department    TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	frequency     TEXT NOT NULL,
	time_per_task INTEGER NOT NULL,
	inputs        TEXT[] NOT NULL DEFAULT '{}',
	outputs       TEXT[] NOT NULL DEFAULT '{}',
	score         JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (session_id, task_id)
);

CREATE TABLE IF NOT EXISTS readiness_settings (
	key   TEXT PRIMARY KEY,
	value JSONB NOT NULL
);
`

// PostgresStore is the shared, remote session backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *Session) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM readiness_sessions`).Scan(&count); err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}
	prepareNewSession(sess, count, time.Now())

	return s.pool.QueryRow(ctx, `
		INSERT INTO readiness_sessions (id, name, token)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		sess.ID, sess.Name, sess.Token,
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
}

func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess := &Session{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, token, created_at, updated_at
		FROM readiness_sessions WHERE id = $1`, id,
	).Scan(&sess.ID, &sess.Name, &sess.Token, &sess.CreatedAt, &sess.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT task_id, name, department, description, frequency, time_per_task, inputs, outputs, score
		FROM readiness_tasks WHERE session_id = $1
		ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sess.Tasks = []scoring.Task{}
	sess.Scores = map[string]scoring.TaskScore{}
	for rows.Next() {
		var t scoring.Task
		var frequency string
		var scoreJSON []byte
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Department, &t.Description, &frequency, &t.TimePerTask,
			&t.Inputs, &t.Outputs, &scoreJSON,
		); err != nil {
			return nil, err
		}
		t.Frequency = scoring.Frequency(frequency)
		sess.Tasks = append(sess.Tasks, t)
		if scoreJSON != nil {
			var score scoring.TaskScore
			if err := json.Unmarshal(scoreJSON, &score); err != nil {
				return nil, fmt.Errorf("decode score: %w", err)
			}
			sess.Scores[t.ID] = score
		}
	}
	return sess, rows.Err()
}

func (s *PostgresStore) ListSessions(ctx context.Context) ([]*SessionMeta, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.name, s.created_at, COUNT(t.task_id)
		FROM readiness_sessions s
		LEFT JOIN readiness_tasks t ON t.session_id = s.id
		GROUP BY s.id, s.name, s.created_at
		ORDER BY s.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SessionMeta
	for rows.Next() {
		m := &SessionMeta{}
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.TaskCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RenameSession(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE readiness_sessions SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	return requireRows(tag)
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM readiness_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRows(tag)
}

func (s *PostgresStore) ClearSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE readiness_sessions SET token = $2, created_at = now(), updated_at = now()
		WHERE id = $1`, id, uuid.New())
	if err != nil {
		return nil, err
	}
	if err := requireRows(tag); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM readiness_tasks WHERE session_id = $1`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, id)
}

func (s *PostgresStore) ResetIfStale(ctx context.Context, id uuid.UUID, cutoff time.Time) (*Session, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE readiness_sessions SET token = $2, created_at = now(), updated_at = now()
		WHERE id = $1 AND created_at <= $3
			AND NOT EXISTS (SELECT 1 FROM readiness_tasks WHERE session_id = $1)`,
		id, uuid.New(), cutoff)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM readiness_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, nil
	}
	return s.GetSession(ctx, id)
}

func (s *PostgresStore) SaveTask(ctx context.Context, sessionID uuid.UUID, task scoring.Task, score scoring.TaskScore) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	inputs, outputs := task.Inputs, task.Outputs
	if inputs == nil {
		inputs = []string{}
	}
	if outputs == nil {
		outputs = []string{}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE readiness_sessions SET updated_at = now() WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	if err := requireRows(tag); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO readiness_tasks (session_id, task_id, position,
			name, department, description, frequency, time_per_task, inputs, outputs, score)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM readiness_tasks WHERE session_id = $1),
			$3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id, task_id) DO UPDATE SET
			name = EXCLUDED.name, department = EXCLUDED.department,
			description = EXCLUDED.description, frequency = EXCLUDED.frequency,
			time_per_task = EXCLUDED.time_per_task,
			inputs = EXCLUDED.inputs, outputs = EXCLUDED.outputs,
			score = EXCLUDED.score, updated_at = now()`,
		sessionID, task.ID,
		task.Name, task.Department, task.Description, string(task.Frequency), task.TimePerTask,
		inputs, outputs, scoreJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) DeleteTask(ctx context.Context, sessionID uuid.UUID, taskID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM readiness_tasks WHERE session_id = $1 AND task_id = $2`, sessionID, taskID)
	if err != nil {
		return err
	}
	return requireRows(tag)
}

func (s *PostgresStore) UpdateScoreInsight(ctx context.Context, sessionID uuid.UUID, taskID string, in Insight) error {
	var scoreJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT score FROM readiness_tasks WHERE session_id = $1 AND task_id = $2`, sessionID, taskID,
	).Scan(&scoreJSON)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && scoreJSON == nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var score scoring.TaskScore
	if err := json.Unmarshal(scoreJSON, &score); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	updated, err := json.Marshal(ApplyInsight(score, in))
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE readiness_tasks SET score = $3, updated_at = now()
		WHERE session_id = $1 AND task_id = $2`, sessionID, taskID, updated)
	return err
}

func (s *PostgresStore) GetSettings(ctx context.Context) (*Settings, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM readiness_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := &Settings{}
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		if err := decodeSetting(settings, key, value); err != nil {
			return nil, err
		}
	}
	return settings, rows.Err()
}

func (s *PostgresStore) SaveSettings(ctx context.Context, settings *Settings) error {
	values, err := encodeSettings(settings)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for key, value := range values {
		if value == nil {
			if _, err := tx.Exec(ctx, `DELETE FROM readiness_settings WHERE key = $1`, key); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO readiness_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func requireRows(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package guided

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/clarus/pkg/query"
	"github.com/JaimeStill/clarus/pkg/repository"
)

type postgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore returns a Store over the guided_sessions table. The schema
// is created by the migrations package.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) Store {
	return &postgresStore{
		db:     db,
		logger: logger.With("store", "postgres"),
	}
}

func (r *postgresStore) Create(ctx context.Context, s *Session) (uuid.UUID, error) {
	id, err := newID()
	if err != nil {
		return uuid.Nil, err
	}

	answers, tasks, warnings, err := documentColumns(s.Answers, s.Tasks, s.Warnings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode session: %w", err)
	}

	q := `
		INSERT INTO guided_sessions (
			id, workflow_id, current_step_id, answers, is_complete,
			tasks, warnings, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	args := []any{
		id, s.WorkflowID, s.CurrentStepID, answers, s.IsComplete,
		tasks, warnings, s.Version, s.CreatedAt, s.UpdatedAt,
	}

	created, err := repository.QueryOne(ctx, r.db, q, args, func(sc repository.Scanner) (uuid.UUID, error) {
		var id uuid.UUID
		err := sc.Scan(&id)
		return id, err
	})
	if err != nil {
		return uuid.Nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return created, nil
}

func (r *postgresStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	q, args := query.NewBuilder(sessionProjection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *postgresStore) Patch(ctx context.Context, id uuid.UUID, version int, p Patch) error {
	answers, tasks, warnings, err := documentColumns(p.Answers, p.Tasks, p.Warnings)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		q := `
			UPDATE guided_sessions
			SET current_step_id = $3, answers = $4, is_complete = $5,
				tasks = $6, warnings = $7, updated_at = $8, version = version + 1
			WHERE id = $1 AND version = $2`

		err := repository.ExecExpectOne(ctx, tx, q,
			id, version, p.CurrentStepID, answers, p.IsComplete,
			tasks, warnings, p.UpdatedAt,
		)
		if !errors.Is(err, sql.ErrNoRows) {
			return struct{}{}, err
		}

		var exists bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM guided_sessions WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return struct{}{}, err
		}
		if !exists {
			return struct{}{}, ErrNotFound
		}
		return struct{}{}, ErrVersionMismatch
	})
	return err
}

func (r *postgresStore) List(ctx context.Context) ([]Session, error) {
	q, args := query.NewBuilder(sessionProjection, historySort...).Build()

	sessions, err := repository.QueryMany(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return sessions, nil
}

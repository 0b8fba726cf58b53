package guided

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/clarus/internal/catalog"
	"github.com/JaimeStill/clarus/internal/metrics"
)

type engine struct {
	catalog *catalog.Catalog
	store   Store
	deriver *Deriver
	metrics *metrics.Metrics
	logger  *slog.Logger
	strict  bool
	now     func() time.Time
}

// Option configures the engine.
type Option func(*engine)

// WithDeriver replaces the reference rule set.
func WithDeriver(d *Deriver) Option {
	return func(e *engine) {
		e.deriver = d
	}
}

// WithMetrics records session activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *engine) {
		e.metrics = m
	}
}

// WithStrictAnswers validates answers against the step type before storing them.
func WithStrictAnswers(strict bool) Option {
	return func(e *engine) {
		e.strict = strict
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

// New creates the guided workflow engine over cat and store.
func New(cat *catalog.Catalog, store Store, logger *slog.Logger, opts ...Option) System {
	e := &engine{
		catalog: cat,
		store:   store,
		deriver: NewDeriver(),
		logger:  logger.With("system", "guided"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *engine) Workflows() []catalog.Summary {
	return e.catalog.List()
}

func (e *engine) Workflow(id string) (catalog.Workflow, error) {
	return e.catalog.Workflow(id)
}

func (e *engine) Step(workflowID, stepID string) (catalog.Step, error) {
	return e.catalog.Step(workflowID, stepID)
}

func (e *engine) Start(ctx context.Context, workflowID string) (*Session, error) {
	w, err := e.catalog.Workflow(workflowID)
	if err != nil {
		return nil, err
	}

	first, ok := w.First()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no steps", catalog.ErrWorkflowNotFound, workflowID)
	}

	now := e.timestamp()
	stepID := first.ID
	sess := &Session{
		WorkflowID:    w.ID,
		CurrentStepID: &stepID,
		Answers:       map[string]string{},
		Tasks:         []Task{},
		Warnings:      []string{},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := e.store.Create(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	e.logger.Info("session started", "id", id, "workflow", w.ID)
	e.metrics.SessionStarted(w.ID)

	return e.find(ctx, id)
}

func (e *engine) Answer(ctx context.Context, sessionID uuid.UUID, answer string) (*Session, error) {
	sess, err := e.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.IsComplete || sess.CurrentStepID == nil {
		e.metrics.AnswerRecorded(sess.WorkflowID, "complete")
		return nil, fmt.Errorf("%w: %s", ErrSessionComplete, sessionID)
	}

	w, err := e.catalog.Workflow(sess.WorkflowID)
	if err != nil {
		return nil, err
	}

	step, ok := w.Step(*sess.CurrentStepID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", catalog.ErrStepNotFound, w.ID, *sess.CurrentStepID)
	}

	if e.strict {
		if err := validateAnswer(step, answer); err != nil {
			e.metrics.AnswerRecorded(w.ID, "invalid")
			return nil, err
		}
	}

	answers := make(map[string]string, len(sess.Answers)+1)
	for k, v := range sess.Answers {
		answers[k] = v
	}
	answers[step.ID] = answer

	patch := Patch{
		CurrentStepID: nil,
		Answers:       answers,
		Tasks:         sess.Tasks,
		Warnings:      sess.Warnings,
		UpdatedAt:     e.timestamp(),
	}

	if step.Terminal() {
		patch.IsComplete = true
		patch.Tasks, patch.Warnings = e.deriver.Derive(w.ID, answers)
	} else {
		next := step.Next
		patch.CurrentStepID = &next
	}

	if err := e.store.Patch(ctx, sessionID, sess.Version, patch); err != nil {
		switch {
		case errors.Is(err, ErrVersionMismatch):
			e.metrics.AnswerRecorded(w.ID, "conflict")
			return nil, fmt.Errorf("%w: %s", ErrConflict, sessionID)
		case errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		default:
			return nil, fmt.Errorf("patch session: %w", err)
		}
	}

	if patch.IsComplete {
		e.logger.Info("session completed",
			"id", sessionID,
			"workflow", w.ID,
			"tasks", len(patch.Tasks),
			"warnings", len(patch.Warnings),
		)
		e.metrics.AnswerRecorded(w.ID, "completed")
		e.metrics.SessionCompleted(w.ID)
	} else {
		e.logger.Debug("session advanced", "id", sessionID, "step", *patch.CurrentStepID)
		e.metrics.AnswerRecorded(w.ID, "advanced")
	}

	return e.find(ctx, sessionID)
}

func (e *engine) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	return e.find(ctx, id)
}

func (e *engine) History(ctx context.Context) ([]Session, error) {
	sessions, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	for i := range sessions {
		normalize(&sessions[i])
	}
	return sessions, nil
}

func (e *engine) find(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	normalize(sess)
	return sess, nil
}

// timestamp truncates to microseconds so every store round-trips it exactly.
func (e *engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

package guided

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/clarus/internal/catalog"
)

// System defines the guided workflow operations.
// Implementations must be safe for concurrent use.
type System interface {
	// Workflows returns every catalog workflow in definition order.
	Workflows() []catalog.Summary

	// Workflow returns a full workflow definition.
	// Returns catalog.ErrWorkflowNotFound if the id is unknown.
	Workflow(id string) (catalog.Workflow, error)

	// Step returns one step of a workflow.
	// Returns catalog.ErrWorkflowNotFound or catalog.ErrStepNotFound.
	Step(workflowID, stepID string) (catalog.Step, error)

	// Start creates a session positioned at the workflow's first step.
	// Returns catalog.ErrWorkflowNotFound if the workflow does not exist.
	Start(ctx context.Context, workflowID string) (*Session, error)

	// Answer records an answer for the current step and advances the session,
	// deriving tasks and warnings when the terminal step is answered.
	// Returns ErrSessionNotFound, ErrSessionComplete, ErrConflict, or ErrInvalidAnswer.
	Answer(ctx context.Context, sessionID uuid.UUID, answer string) (*Session, error)

	// Find retrieves a session by id.
	// Returns ErrSessionNotFound if it does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Session, error)

	// History returns all sessions, most recently created first.
	History(ctx context.Context) ([]Session, error)
}

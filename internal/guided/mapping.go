package guided

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/clarus/pkg/query"
	"github.com/JaimeStill/clarus/pkg/repository"
)

var sessionProjection = query.
	NewProjectionMap("public", "guided_sessions", "s").
	Project("id", "ID").
	Project("workflow_id", "WorkflowID").
	Project("current_step_id", "CurrentStepID").
	Project("answers", "Answers").
	Project("is_complete", "IsComplete").
	Project("tasks", "Tasks").
	Project("warnings", "Warnings").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var historySort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID", Descending: true},
}

func scanSession(s repository.Scanner) (Session, error) {
	var (
		sess     Session
		step     sql.NullString
		answers  []byte
		tasks    []byte
		warnings []byte
	)

	err := s.Scan(
		&sess.ID, &sess.WorkflowID, &step, &answers, &sess.IsComplete,
		&tasks, &warnings, &sess.Version, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		return Session{}, err
	}

	if step.Valid {
		sess.CurrentStepID = &step.String
	}
	if err := unmarshalColumns(&sess, answers, tasks, warnings); err != nil {
		return Session{}, err
	}
	normalize(&sess)
	return sess, nil
}

func unmarshalColumns(sess *Session, answers, tasks, warnings []byte) error {
	if err := json.Unmarshal(answers, &sess.Answers); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(tasks, &sess.Tasks); err != nil {
		return fmt.Errorf("decode tasks: %w", err)
	}
	if err := json.Unmarshal(warnings, &sess.Warnings); err != nil {
		return fmt.Errorf("decode warnings: %w", err)
	}
	return nil
}

// documentColumns encodes the JSONB columns of a session.
func documentColumns(answers map[string]string, tasks []Task, warnings []string) ([]byte, []byte, []byte, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	if warnings == nil {
		warnings = []string{}
	}

	a, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err := json.Marshal(tasks)
	if err != nil {
		return nil, nil, nil, err
	}
	w, err := json.Marshal(warnings)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, t, w, nil
}

package guided

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Task is a follow-up action derived from a completed session.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
}

// Session is one run through a workflow. CurrentStepID is nil once the
// session is complete. Version increases by one on every successful patch.
type Session struct {
	ID            uuid.UUID         `json:"id"`
	WorkflowID    string            `json:"workflow_id"`
	CurrentStepID *string           `json:"current_step_id"`
	Answers       map[string]string `json:"answers"`
	IsComplete    bool              `json:"is_complete"`
	Tasks         []Task            `json:"tasks"`
	Warnings      []string          `json:"warnings"`
	Version       int               `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Patch carries the mutable session fields written by an answer submission.
type Patch struct {
	CurrentStepID *string
	Answers       map[string]string
	IsComplete    bool
	Tasks         []Task
	Warnings      []string
	UpdatedAt     time.Time
}

// Apply writes p onto s and bumps the version.
func (s *Session) Apply(p Patch) {
	s.CurrentStepID = cloneString(p.CurrentStepID)
	s.Answers = maps.Clone(p.Answers)
	s.IsComplete = p.IsComplete
	s.Tasks = cloneTasks(p.Tasks)
	s.Warnings = slices.Clone(p.Warnings)
	s.UpdatedAt = p.UpdatedAt
	s.Version++
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	s.CurrentStepID = cloneString(s.CurrentStepID)
	s.Answers = maps.Clone(s.Answers)
	s.Tasks = cloneTasks(s.Tasks)
	s.Warnings = slices.Clone(s.Warnings)
	return s
}

// StartCommand is the request body for starting a session.
type StartCommand struct {
	WorkflowID string `json:"workflow_id"`
}

// AnswerCommand is the request body for submitting an answer.
type AnswerCommand struct {
	Answer string `json:"answer"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.DueDate = cloneString(t.DueDate)
		out[i] = t
	}
	return out
}

func normalize(s *Session) {
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Warnings == nil {
		s.Warnings = []string{}
	}
}

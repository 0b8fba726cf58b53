package catalog

import "slices"

// StepType is the declared input kind of a step.
type StepType string

const (
	StepText  StepType = "text"
	StepDate  StepType = "date"
	StepRadio StepType = "radio"
)

// Valid reports whether t is one of the supported step kinds.
func (t StepType) Valid() bool {
	switch t {
	case StepText, StepDate, StepRadio:
		return true
	default:
		return false
	}
}

// Step is a single question within a workflow. Next is empty on the terminal step.
type Step struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Question string   `json:"question" yaml:"question"`
	Type     StepType `json:"type" yaml:"type"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Next     string   `json:"next,omitempty" yaml:"next,omitempty"`
}

// Terminal reports whether the step ends the workflow.
func (s Step) Terminal() bool {
	return s.Next == ""
}

func (s Step) clone() Step {
	s.Options = slices.Clone(s.Options)
	return s
}

// Workflow is an immutable, ordered sequence of steps.
type Workflow struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Steps       []Step `json:"steps" yaml:"steps"`
}

// Summary is a workflow stripped of its steps.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Summary returns the workflow without step detail.
func (w Workflow) Summary() Summary {
	return Summary{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
	}
}

// First returns the entry step.
func (w Workflow) First() (Step, bool) {
	if len(w.Steps) == 0 {
		return Step{}, false
	}
	return w.Steps[0].clone(), true
}

// Step finds a step by exact id.
func (w Workflow) Step(id string) (Step, bool) {
	for _, s := range w.Steps {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return Step{}, false
}

func (w Workflow) clone() Workflow {
	steps := make([]Step, len(w.Steps))
	for i, s := range w.Steps {
		steps[i] = s.clone()
	}
	w.Steps = steps
	return w
}

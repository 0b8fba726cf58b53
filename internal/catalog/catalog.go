// Package catalog holds the immutable registry of guided workflow definitions.
//
// A Catalog is built once at startup from YAML (the embedded workflows.yaml
// unless a file is configured) and validated as a whole: ids are unique, every
// next pointer resolves inside its workflow, and the chain from the first step
// ends at a terminal step without revisiting a step. Lookups return copies, so
// callers can never mutate the registry.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed workflows.yaml
var defaultWorkflows []byte

// Catalog is a read-only, ordered set of workflows.
type Catalog struct {
	workflows []Workflow
	index     map[string]int
}

type document struct {
	Workflows []Workflow `yaml:"workflows"`
}

// New validates workflows and builds a catalog preserving their order.
func New(workflows ...Workflow) (*Catalog, error) {
	c := &Catalog{
		workflows: make([]Workflow, 0, len(workflows)),
		index:     make(map[string]int, len(workflows)),
	}

	for _, w := range workflows {
		if err := validateWorkflow(w); err != nil {
			return nil, err
		}
		if _, exists := c.index[w.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate workflow id %q", ErrInvalidCatalog, w.ID)
		}
		c.index[w.ID] = len(c.workflows)
		c.workflows = append(c.workflows, w.clone())
	}

	return c, nil
}

// Load parses a YAML document with a top-level workflows list.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Workflows...)
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default loads the embedded reference catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultWorkflows))
}

// List returns every workflow in definition order without step detail.
func (c *Catalog) List() []Summary {
	out := make([]Summary, len(c.workflows))
	for i, w := range c.workflows {
		out[i] = w.Summary()
	}
	return out
}

// Workflow looks up a workflow by exact id.
func (c *Catalog) Workflow(id string) (Workflow, error) {
	i, ok := c.index[id]
	if !ok {
		return Workflow{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	return c.workflows[i].clone(), nil
}

// Step looks up a step inside a workflow.
func (c *Catalog) Step(workflowID, stepID string) (Step, error) {
	i, ok := c.index[workflowID]
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
	}
	step, ok := c.workflows[i].Step(stepID)
	if !ok {
		return Step{}, fmt.Errorf("%w: %s/%s", ErrStepNotFound, workflowID, stepID)
	}
	return step, nil
}

// Len returns the number of workflows.
func (c *Catalog) Len() int {
	return len(c.workflows)
}

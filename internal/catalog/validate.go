package catalog

import "fmt"

func validateWorkflow(w Workflow) error {
	if w.ID == "" {
		return fmt.Errorf("%w: workflow id required", ErrInvalidCatalog)
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("%w: workflow %q has no steps", ErrInvalidCatalog, w.ID)
	}

	ids := make(map[string]struct{}, len(w.Steps))
	for _, s := range w.Steps {
		if err := validateStep(w.ID, s); err != nil {
			return err
		}
		if _, dup := ids[s.ID]; dup {
			return fmt.Errorf("%w: workflow %q has duplicate step %q", ErrInvalidCatalog, w.ID, s.ID)
		}
		ids[s.ID] = struct{}{}
	}

	for _, s := range w.Steps {
		if s.Next == "" {
			continue
		}
		if _, ok := ids[s.Next]; !ok {
			return fmt.Errorf("%w: step %s/%s points to unknown step %q", ErrInvalidCatalog, w.ID, s.ID, s.Next)
		}
	}

	return validateChain(w)
}

func validateStep(workflowID string, s Step) error {
	if s.ID == "" {
		return fmt.Errorf("%w: workflow %q has a step without id", ErrInvalidCatalog, workflowID)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("%w: step %s/%s has unsupported type %q", ErrInvalidCatalog, workflowID, s.ID, s.Type)
	}
	if s.Type == StepRadio && len(s.Options) == 0 {
		return fmt.Errorf("%w: radio step %s/%s has no options", ErrInvalidCatalog, workflowID, s.ID)
	}
	if s.Type != StepRadio && len(s.Options) > 0 {
		return fmt.Errorf("%w: step %s/%s declares options but is not a radio step", ErrInvalidCatalog, workflowID, s.ID)
	}
	return nil
}

// validateChain walks next pointers from the first step and fails on a
// revisit or when a step is never reached.
func validateChain(w Workflow) error {
	next := make(map[string]string, len(w.Steps))
	for _, s := range w.Steps {
		next[s.ID] = s.Next
	}

	seen := make(map[string]struct{}, len(w.Steps))
	for id := w.Steps[0].ID; id != ""; id = next[id] {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: workflow %q has a cycle at step %q", ErrInvalidCatalog, w.ID, id)
		}
		seen[id] = struct{}{}
	}

	for _, s := range w.Steps {
		if _, ok := seen[s.ID]; !ok {
			return fmt.Errorf("%w: step %s/%s is unreachable from %q", ErrInvalidCatalog, w.ID, s.ID, w.Steps[0].ID)
		}
	}
	return nil
}

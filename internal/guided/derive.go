package guided

import "strings"

// Rule derives tasks and warnings for one workflow from its answers.
type Rule func(answers map[string]string) (tasks []Task, warnings []string)

// Deriver maps completed answer sets to tasks and warnings. Workflows without
// a rule, and rules that emit no task, receive the general guidance task.
type Deriver struct {
	rules map[string]Rule
}

var fallbackTask = Task{
	ID:          "t-general-1",
	Title:       "Review official guidance",
	Description: "Verify details on the Swedish Migration Agency site.",
}

// NewDeriver returns a deriver loaded with the renewal and change_employer rules.
func NewDeriver() *Deriver {
	d := &Deriver{rules: map[string]Rule{}}
	d.Register("renewal", renewalRule)
	d.Register("change_employer", changeEmployerRule)
	return d
}

// Register adds or replaces the rule for workflowID.
func (d *Deriver) Register(workflowID string, rule Rule) {
	d.rules[workflowID] = rule
}

// Derive runs the workflow rule. The returned slices are never nil.
func (d *Deriver) Derive(workflowID string, answers map[string]string) ([]Task, []string) {
	tasks := []Task{}
	warnings := []string{}

	if rule, ok := d.rules[workflowID]; ok {
		t, w := rule(answers)
		tasks = append(tasks, t...)
		warnings = append(warnings, w...)
	}

	if len(tasks) == 0 {
		tasks = append(tasks, fallbackTask)
	}
	return tasks, warnings
}

func renewalRule(answers map[string]string) ([]Task, []string) {
	var tasks []Task
	var warnings []string

	if expiry := answers["expiry_date"]; expiry != "" {
		due := expiry
		tasks = append(tasks, Task{
			ID:          "t-renewal-1",
			Title:       "Prepare renewal application",
			Description: "Draft the renewal package before " + expiry + ".",
			DueDate:     &due,
		})
	}

	if strings.Contains(answers["employment_status"], "No") {
		warnings = append(warnings, "Switching employers may require a new permit application.")
	}

	return tasks, warnings
}

func changeEmployerRule(answers map[string]string) ([]Task, []string) {
	if answers["permit_duration"] == "Less than 24 months" {
		task := Task{
			ID:          "t-change-1",
			Title:       "Start a new permit application",
			Description: "Begin the application before starting the new role.",
		}
		return []Task{task}, []string{"Changing employers within 24 months requires a new application."}
	}

	task := Task{
		ID:          "t-change-2",
		Title:       "Confirm role alignment",
		Description: "Check if your new role matches the existing permit scope.",
	}
	return []Task{task}, nil
}

package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/catalog"
)

func loadDefault(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestDefault_ListOrder(t *testing.T) {
	c := loadDefault(t)

	list := c.List()
	require.Len(t, list, 2)

	assert.Equal(t, catalog.Summary{
		ID:          "renewal",
		Title:       "Work Permit Renewal",
		Description: "Prepare the basics for extending your Swedish work permit.",
	}, list[0])
	assert.Equal(t, catalog.Summary{
		ID:          "change_employer",
		Title:       "Change Employer",
		Description: "Check what you need when moving to a new employer.",
	}, list[1])
}

func TestDefault_StepGraphs(t *testing.T) {
	c := loadDefault(t)

	tests := []struct {
		workflow string
		chain    []string
	}{
		{"renewal", []string{"expiry_date", "employment_status", "supporting_docs"}},
		{"change_employer", []string{"permit_duration", "new_role"}},
	}

	for _, tt := range tests {
		t.Run(tt.workflow, func(t *testing.T) {
			w, err := c.Workflow(tt.workflow)
			require.NoError(t, err)

			step, ok := w.First()
			require.True(t, ok)

			var got []string
			for {
				got = append(got, step.ID)
				if step.Terminal() {
					break
				}
				step, ok = w.Step(step.Next)
				require.True(t, ok)
			}
			assert.Equal(t, tt.chain, got)
		})
	}
}

func TestDefault_StepContent(t *testing.T) {
	c := loadDefault(t)

	step, err := c.Step("renewal", "employment_status")
	require.NoError(t, err)
	assert.Equal(t, catalog.StepRadio, step.Type)
	assert.Equal(t, "Employment Status", step.Title)
	assert.Equal(t, "Are you staying with the same employer?", step.Question)
	assert.Equal(t, []string{"Yes, same employer", "No, switching employers"}, step.Options)

	step, err = c.Step("renewal", "expiry_date")
	require.NoError(t, err)
	assert.Equal(t, catalog.StepDate, step.Type)
	assert.Empty(t, step.Options)

	step, err = c.Step("change_employer", "permit_duration")
	require.NoError(t, err)
	assert.Equal(t, []string{"Less than 24 months", "24 months or more"}, step.Options)
}

func TestStep_NotFound(t *testing.T) {
	c := loadDefault(t)

	_, err := c.Step("renewal", "new_role")
	assert.ErrorIs(t, err, catalog.ErrStepNotFound)

	_, err = c.Step("renewal", "")
	assert.ErrorIs(t, err, catalog.ErrStepNotFound)

	_, err = c.Step("unknown", "expiry_date")
	assert.ErrorIs(t, err, catalog.ErrWorkflowNotFound)
}

func TestWorkflow_ExactMatch(t *testing.T) {
	c := loadDefault(t)

	_, err := c.Workflow("renew")
	assert.ErrorIs(t, err, catalog.ErrWorkflowNotFound)

	_, err = c.Workflow("RENEWAL")
	assert.ErrorIs(t, err, catalog.ErrWorkflowNotFound)
}

func TestLookups_ReturnCopies(t *testing.T) {
	c := loadDefault(t)

	w, err := c.Workflow("renewal")
	require.NoError(t, err)
	w.Steps[1].Options[0] = "mutated"
	w.Steps = w.Steps[:1]

	again, err := c.Workflow("renewal")
	require.NoError(t, err)
	assert.Len(t, again.Steps, 3)
	assert.Equal(t, "Yes, same employer", again.Steps[1].Options[0])
}

func TestNew_Validation(t *testing.T) {
	text := func(id, next string) catalog.Step {
		return catalog.Step{ID: id, Title: id, Question: id, Type: catalog.StepText, Next: next}
	}

	tests := []struct {
		name      string
		workflows []catalog.Workflow
		contains  string
	}{
		{
			name:      "missing id",
			workflows: []catalog.Workflow{{Steps: []catalog.Step{text("a", "")}}},
			contains:  "workflow id required",
		},
		{
			name:      "no steps",
			workflows: []catalog.Workflow{{ID: "w"}},
			contains:  "has no steps",
		},
		{
			name: "duplicate workflow",
			workflows: []catalog.Workflow{
				{ID: "w", Steps: []catalog.Step{text("a", "")}},
				{ID: "w", Steps: []catalog.Step{text("a", "")}},
			},
			contains: "duplicate workflow id",
		},
		{
			name:      "duplicate step",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{text("a", "a2"), text("a", "")}}},
			contains:  "duplicate step",
		},
		{
			name:      "dangling next",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{text("a", "missing")}}},
			contains:  "unknown step",
		},
		{
			name:      "cycle",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{text("a", "b"), text("b", "a")}}},
			contains:  "cycle",
		},
		{
			name:      "self loop",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{text("a", "a")}}},
			contains:  "cycle",
		},
		{
			name:      "orphan step",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{text("a", "b"), text("b", ""), text("c", "")}}},
			contains:  "step w/c is unreachable",
		},
		{
			name:      "orphan branch into chain",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{text("a", ""), text("b", "a")}}},
			contains:  "step w/b is unreachable",
		},
		{
			name: "radio without options",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{
				{ID: "a", Type: catalog.StepRadio},
			}}},
			contains: "no options",
		},
		{
			name: "options on text step",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{
				{ID: "a", Type: catalog.StepText, Options: []string{"x"}},
			}}},
			contains: "not a radio step",
		},
		{
			name: "unknown type",
			workflows: []catalog.Workflow{{ID: "w", Steps: []catalog.Step{
				{ID: "a", Type: "number"},
			}}},
			contains: "unsupported type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New(tt.workflows...)
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	doc := `
workflows:
  - id: visa
    title: Visitor Visa
    description: Short stay checks.
    steps:
      - id: purpose
        title: Purpose
        question: Why are you visiting?
        type: text
`
	c, err := catalog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	step, err := c.Step("visa", "purpose")
	require.NoError(t, err)
	assert.True(t, step.Terminal())
}

func TestLoad_UnknownField(t *testing.T) {
	doc := `
workflows:
  - id: visa
    label: nope
    steps: []
`
	_, err := catalog.Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := catalog.LoadFile("does-not-exist.yaml")
	assert.Error(t, err)
}

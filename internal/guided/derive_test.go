package guided_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/guided"
)

func TestDerive_Renewal(t *testing.T) {
	d := guided.NewDeriver()

	tasks, warnings := d.Derive("renewal", map[string]string{
		"expiry_date":       "2025-06-01",
		"employment_status": "No, switching employers",
		"supporting_docs":   "passport",
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, "t-renewal-1", tasks[0].ID)
	assert.Equal(t, "Prepare renewal application", tasks[0].Title)
	assert.Equal(t, "Draft the renewal package before 2025-06-01.", tasks[0].Description)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2025-06-01", *tasks[0].DueDate)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "new permit application")
}

func TestDerive_RenewalSameEmployer(t *testing.T) {
	tasks, warnings := guided.NewDeriver().Derive("renewal", map[string]string{
		"expiry_date":       "2026-01-15",
		"employment_status": "Yes, same employer",
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, "t-renewal-1", tasks[0].ID)
	assert.Empty(t, warnings)
	assert.NotNil(t, warnings)
}

func TestDerive_RenewalWithoutExpiryFallsBack(t *testing.T) {
	tasks, warnings := guided.NewDeriver().Derive("renewal", map[string]string{
		"expiry_date":       "",
		"employment_status": "No",
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, "t-general-1", tasks[0].ID)
	assert.Nil(t, tasks[0].DueDate)
	assert.Equal(t, []string{"Switching employers may require a new permit application."}, warnings)
}

func TestDerive_ChangeEmployer(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		taskID   string
		warnings []string
	}{
		{
			name:     "under 24 months",
			duration: "Less than 24 months",
			taskID:   "t-change-1",
			warnings: []string{"Changing employers within 24 months requires a new application."},
		},
		{
			name:     "24 months or more",
			duration: "24 months or more",
			taskID:   "t-change-2",
			warnings: []string{},
		},
		{
			name:     "unanswered",
			duration: "",
			taskID:   "t-change-2",
			warnings: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, warnings := guided.NewDeriver().Derive("change_employer", map[string]string{
				"permit_duration": tt.duration,
				"new_role":        "Engineer",
			})

			require.Len(t, tasks, 1)
			assert.Equal(t, tt.taskID, tasks[0].ID)
			assert.Equal(t, tt.warnings, warnings)
		})
	}
}

func TestDerive_UnknownWorkflowFallback(t *testing.T) {
	tasks, warnings := guided.NewDeriver().Derive("job_loss", nil)

	require.Len(t, tasks, 1)
	assert.Equal(t, "t-general-1", tasks[0].ID)
	assert.Equal(t, "Review official guidance", tasks[0].Title)
	assert.Equal(t, "Verify details on the Swedish Migration Agency site.", tasks[0].Description)
	assert.Empty(t, warnings)
}

func TestDeriver_Register(t *testing.T) {
	d := guided.NewDeriver()
	d.Register("job_loss", func(answers map[string]string) ([]guided.Task, []string) {
		return nil, []string{"You have three months to find new employment."}
	})

	tasks, warnings := d.Derive("job_loss", map[string]string{})

	require.Len(t, tasks, 1)
	assert.Equal(t, "t-general-1", tasks[0].ID)
	assert.Equal(t, []string{"You have three months to find new employment."}, warnings)
}

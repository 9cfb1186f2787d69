package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleActivity() Activity {
	return Activity{
		ID:                   "analytics.kpi.calculate-score",
		DisplayName:          "Calculate KPI Score",
		Description:          "Scores one KPI metric family for a worker",
		Category:             "analytics",
		Version:              "1.0.0",
		TaskType:             "calculate-kpi-score",
		ImplementationStatus: "completed",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"metric"},
		},
		OutputSchema: map[string]interface{}{"type": "object"},
		ErrorCodes:   []string{"INVALID_METRIC_FAMILY"},
		Timeout:      "10s",
		Retries:      0,
		Workflows:    []string{"weekly-performance-report"},
		Tags:         []string{"kpi"},
	}
}

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version:    "1.0.0",
		Activities: []Activity{sampleActivity()},
	}
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")

	require.NoError(t, SaveRegistry(sampleRegistry(), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, loaded.Activities, 1)
	assert.Equal(t, "analytics.kpi.calculate-score", loaded.Activities[0].ID)
	assert.NotEmpty(t, loaded.LastUpdated)
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindByTaskType(t *testing.T) {
	reg := sampleRegistry()

	activity, ok := reg.FindByTaskType("calculate-kpi-score")
	require.True(t, ok)
	assert.Equal(t, "analytics.kpi.calculate-score", activity.ID)

	_, ok = reg.FindByTaskType("mystery-task")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampleRegistry().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ActivityRegistry)
	}{
		{"empty registry", func(r *ActivityRegistry) { r.Activities = nil }},
		{"bad naming", func(r *ActivityRegistry) { r.Activities[0].ID = "CalculateScore" }},
		{"missing display name", func(r *ActivityRegistry) { r.Activities[0].DisplayName = "" }},
		{"missing task type", func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }},
		{"missing category", func(r *ActivityRegistry) { r.Activities[0].Category = "" }},
		{"unknown status", func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done-ish" }},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "ten seconds" }},
		{
			"duplicate id",
			func(r *ActivityRegistry) { r.Activities = append(r.Activities, r.Activities[0]) },
		},
		{
			"invalid input schema",
			func(r *ActivityRegistry) {
				r.Activities[0].InputSchema = map[string]interface{}{"type": 42}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			tt.mutate(reg)
			assert.Error(t, reg.Validate())
		})
	}
}

// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_DeclaresRentalWorkers(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"evaluate-rental-application",
		"suggest-budget",
		"check-document-readiness",
		"record-evaluation",
		"index-evaluation",
		"notify-renter",
	} {
		activity, ok := reg.FindByTaskType(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, activity.InputSchema, taskType)
		assert.Equal(t, StatusCompleted, activity.ImplementationStatus)
	}

	_, ok := reg.FindByTaskType("validate-subscription")
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")

	reg := &ActivityRegistry{Version: "1.0.0"}
	require.NoError(t, reg.Add(Activity{
		ID:          "rental.budget.suggest",
		DisplayName: "Suggest Budget",
		Category:    "rental",
		TaskType:    "suggest-budget",
		Timeout:     "5s",
	}))
	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.LastUpdated)
	require.Len(t, loaded.Activities, 1)

	activity, ok := loaded.FindByID("rental.budget.suggest")
	require.True(t, ok)
	assert.Equal(t, "suggest-budget", activity.TaskType)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	reg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 6)
}

func TestActivityRegistry_Validate(t *testing.T) {
	valid := Activity{ID: "rental.budget.suggest", DisplayName: "Suggest", Category: "rental", TaskType: "suggest-budget"}

	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{name: "empty", activities: nil, wantErr: "no activities"},
		{
			name:       "duplicate id",
			activities: []Activity{valid, valid},
			wantErr:    "duplicate activity ID",
		},
		{
			name: "duplicate task type",
			activities: []Activity{valid, func() Activity {
				a := valid
				a.ID = "rental.budget.other"
				return a
			}()},
			wantErr: "duplicate task type",
		},
		{
			name: "missing task type",
			activities: []Activity{func() Activity {
				a := valid
				a.TaskType = ""
				return a
			}()},
			wantErr: "TaskType",
		},
		{
			name: "bad timeout",
			activities: []Activity{func() Activity {
				a := valid
				a.Timeout = "ten seconds"
				return a
			}()},
			wantErr: "invalid timeout",
		},
		{
			name: "unknown status",
			activities: []Activity{func() Activity {
				a := valid
				a.ImplementationStatus = "shipped"
				return a
			}()},
			wantErr: "implementation status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: tt.activities}
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// internal/workers/rental/check-document-readiness/handler_test.go
package checkdocumentreadiness

import (
	"context"
	"testing"
	"time"

	"rentcheck-workers/internal/common/camunda/camundatest"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/validation"
	"rentcheck-workers/internal/scoring"
	"rentcheck-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return NewHandler(&Config{Timeout: 5 * time.Second}, validator, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "worker with everything",
			input: &Input{
				RenterType:        "worker",
				Documents:         []string{"payslip", "bank_statement", "id_copy"},
				RequiredDocuments: []string{"id_copy"},
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Ready)
				assert.Equal(t, scoring.RenterWorker, output.RenterType)
				assert.Equal(t, []string{"bank_statement", "payslip"}, output.ClusterDocuments)
				assert.Empty(t, output.MissingRequired)
				assert.Empty(t, output.MissingCluster)
				assert.True(t, output.HasAlternativeProof)
			},
		},
		{
			name: "student missing listing and cluster documents",
			input: &Input{
				RenterType:        " Student ",
				Documents:         []string{"Proof_Of_Registration"},
				RequiredDocuments: []string{"id_copy", "guarantor_letter"},
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.False(t, output.Ready)
				assert.Equal(t, scoring.RenterStudent, output.RenterType)
				assert.Equal(t, []string{"guarantor_letter", "id_copy"}, output.MissingRequired)
				assert.Equal(t, []string{"guarantor_letter", "proof_of_bursary"}, output.MissingCluster)
				assert.True(t, output.HasAlternativeProof)
			},
		},
		{
			name: "recent grad alias without documents",
			input: &Input{
				RenterType: "recent_grad",
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Ready)
				assert.Equal(t, scoring.RenterNewProfessional, output.RenterType)
				assert.Equal(t, []string{"employment_contract", "guarantor_letter"}, output.MissingCluster)
				assert.False(t, output.HasAlternativeProof)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := createTestHandler(t).Execute(context.Background(), tt.input)
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Handle(t *testing.T) {
	handler := createTestHandler(t)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, map[string]interface{}{
		"renterType":        "worker",
		"documents":         []string{"payslip"},
		"requiredDocuments": []string{"bank_statement"},
	}))

	var output map[string]interface{}
	client.CompletedVariables(t, &output)
	assert.Equal(t, false, output["ready"])
	assert.Equal(t, "worker", output["renterType"])
	assert.Equal(t, []interface{}{"bank_statement"}, output["missingRequired"])
	assert.Equal(t, []interface{}{"bank_statement"}, output["missingCluster"])
}

func TestHandler_Handle_InvalidInput(t *testing.T) {
	handler := createTestHandler(t)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, map[string]interface{}{
		"documents": "payslip",
	}))

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INVALID_INPUT", client.Thrown()[0].ErrorCode)
	assert.Empty(t, client.Completed())
}

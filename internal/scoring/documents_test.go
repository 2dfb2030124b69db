// internal/scoring/documents_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDocuments(t *testing.T) {
	tests := []struct {
		name       string
		renterType string
		renterDocs []string
		required   []string
		expected   DocumentReadiness
	}{
		{
			name:       "worker with everything",
			renterType: "worker",
			renterDocs: []string{"payslip", "bank_statement"},
			required:   []string{"payslip"},
			expected: DocumentReadiness{
				RenterType:          RenterWorker,
				ClusterDocuments:    []string{"bank_statement", "payslip"},
				MissingRequired:     []string{},
				MissingCluster:      []string{},
				HasAlternativeProof: true,
			},
		},
		{
			name:       "student normalizes tags",
			renterType: " STUDENT ",
			renterDocs: []string{" Proof_Of_Registration ", ""},
			required:   []string{"ID_DOCUMENT", "proof_of_registration", "id_document"},
			expected: DocumentReadiness{
				RenterType:          RenterStudent,
				ClusterDocuments:    []string{"guarantor_letter", "proof_of_bursary", "proof_of_registration"},
				MissingRequired:     []string{"id_document"},
				MissingCluster:      []string{"guarantor_letter", "proof_of_bursary"},
				HasAlternativeProof: true,
			},
		},
		{
			name:       "recent grad with nothing",
			renterType: "recent_grad",
			renterDocs: nil,
			required:   []string{"reference_letter", "credit_report"},
			expected: DocumentReadiness{
				RenterType:          RenterNewProfessional,
				ClusterDocuments:    []string{"employment_contract", "guarantor_letter"},
				MissingRequired:     []string{"credit_report", "reference_letter"},
				MissingCluster:      []string{"employment_contract", "guarantor_letter"},
				HasAlternativeProof: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckDocuments(tt.renterType, tt.renterDocs, tt.required))
		})
	}
}

func TestDocumentClustersFor_ReturnsCopy(t *testing.T) {
	docs := DocumentClustersFor("worker")
	docs[0] = "tampered"

	assert.Equal(t, []string{"bank_statement", "payslip"}, DocumentClustersFor("worker"))

	all := DocumentClusters()
	assert.Len(t, all, len(RenterTypes()))
	all[RenterStudent] = nil
	assert.NotEmpty(t, DocumentClusters()[RenterStudent])
}

func TestParseRenterType(t *testing.T) {
	tests := map[string]RenterType{
		"worker":           RenterWorker,
		"New_Professional": RenterNewProfessional,
		"recent_grad":      RenterNewProfessional,
		" student ":        RenterStudent,
		"":                 RenterWorker,
		"retired":          RenterWorker,
	}

	for raw, expected := range tests {
		assert.Equal(t, expected, ParseRenterType(raw), "input %q", raw)
	}
}

func TestParseDemandLevel(t *testing.T) {
	tests := map[string]DemandLevel{
		"low":     DemandLow,
		" HIGH ":  DemandHigh,
		"Medium":  DemandMedium,
		"":        DemandMedium,
		"extreme": DemandMedium,
	}

	for raw, expected := range tests {
		assert.Equal(t, expected, ParseDemandLevel(raw), "input %q", raw)
	}
}

// internal/scoring/tables.go
package scoring

import "sort"

// Document tags referenced by the rules.
const (
	DocBankStatement          = "bank_statement"
	DocPayslip                = "payslip"
	DocEmploymentContract     = "employment_contract"
	DocGuarantorLetter        = "guarantor_letter"
	DocGuarantorPayslip       = "guarantor_payslip"
	DocGuarantorBankStatement = "guarantor_bank_statement"
	DocProofOfRegistration    = "proof_of_registration"
	DocProofOfBursary         = "proof_of_bursary"
	DocBursaryLetter          = "bursary_letter"
)

const (
	baseScore = 100
	minScore  = 0
	maxScore  = 100

	highConfidenceThreshold   = 75
	mediumConfidenceThreshold = 55

	maxReasons = 8
	maxActions = 5

	// Budget band percentages.
	conservativePercent = 25
	recommendedPercent  = 30
	upperLimitPercent   = 35

	// Rent-to-income ratio used when there is no income to compare against.
	noIncomeRatio = 999.0
)

// Score adjustments, calibrated against the 100 point base.
const (
	bursaryCoversRentBonus = 10

	ratioOver40Penalty = -70
	ratioOver35Penalty = -50
	ratioOver30Penalty = -30
	withinBandBonus    = 5

	missingRegistrationPenalty    = -15
	missingGuarantorDocsPenalty   = -25
	missingGuarantorIncomePenalty = -15

	missingRequiredOnePenalty  = -15
	missingRequiredTwoPenalty  = -25
	missingRequiredManyPenalty = -30

	workerMissingPayslipPenalty         = -20
	workerMissingBankWithPayslipPenalty = -25
	workerMissingBankNoPayslipPenalty   = -35

	contractBonus                     = 8
	guarantorLetterBonus              = 5
	professionalMissingBankContract   = -4
	professionalMissingBankNoContract = -10
	professionalMissingPayContract    = -3
	professionalMissingPayNoContract  = -8

	studentMissingGuarantorBankPenalty = -8

	highDemandPenalty = -10
	lowDemandBonus    = 5

	highFeeThreshold     = 800
	moderateFeeThreshold = 500
)

var documentClusters = map[RenterType][]string{
	RenterWorker:          {DocBankStatement, DocPayslip},
	RenterNewProfessional: {DocEmploymentContract, DocGuarantorLetter},
	RenterStudent:         {DocProofOfRegistration, DocProofOfBursary, DocGuarantorLetter},
}

var guarantorDocuments = []string{DocGuarantorLetter, DocGuarantorPayslip, DocGuarantorBankStatement}

// DocumentClustersFor returns the soft-signal documents for a renter type, sorted.
// The returned slice is a copy.
func DocumentClustersFor(renterType string) []string {
	docs := documentClusters[ParseRenterType(renterType)]
	out := make([]string, len(docs))
	copy(out, docs)
	sort.Strings(out)
	return out
}

// DocumentClusters returns a copy of the full renter type to cluster table.
func DocumentClusters() map[RenterType][]string {
	out := make(map[RenterType][]string, len(documentClusters))
	for rt := range documentClusters {
		out[rt] = DocumentClustersFor(string(rt))
	}
	return out
}

// Classify maps a final score to its verdict and confidence.
func Classify(score int) (Verdict, Confidence) {
	switch {
	case score >= highConfidenceThreshold:
		return VerdictWorthApplying, ConfidenceHigh
	case score >= mediumConfidenceThreshold:
		return VerdictBorderline, ConfidenceMedium
	default:
		return VerdictNotWorthIt, ConfidenceLow
	}
}

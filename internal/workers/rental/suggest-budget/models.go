// internal/workers/rental/suggest-budget/models.go
package suggestbudget

import "rentcheck-workers/internal/scoring"

type Input struct {
	MonthlyIncome          int    `json:"monthlyIncome"`
	RenterType             string `json:"renterType,omitempty"`
	IsBursaryStudent       bool   `json:"isBursaryStudent,omitempty"`
	GuarantorMonthlyIncome int    `json:"guarantorMonthlyIncome,omitempty"`
}

type Output struct {
	BudgetBands     scoring.BudgetBands `json:"budgetBands"`
	IncomeSource    string              `json:"incomeSource"`
	EffectiveIncome int                 `json:"effectiveIncome"`
}

// Income sources
const (
	IncomeSourceRenter    = "renter"
	IncomeSourceGuarantor = "guarantor"
)

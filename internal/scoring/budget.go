// internal/scoring/budget.go
package scoring

// SuggestBudget derives the three rent bands from a monthly income.
// Negative income is treated as zero.
func SuggestBudget(income int) BudgetBands {
	income = nonNegative(income)
	return BudgetBands{
		Conservative: income * conservativePercent / 100,
		Recommended:  income * recommendedPercent / 100,
		UpperLimit:   income * upperLimitPercent / 100,
	}
}

// EffectiveIncome is the income affordability is measured against. Non-bursary
// students with a guarantor are assessed on the guarantor's income.
func EffectiveIncome(renter RenterProfile) int {
	rt := ParseRenterType(renter.RenterType)
	guarantor := nonNegative(renter.GuarantorMonthlyIncome)
	if rt == RenterStudent && !renter.IsBursaryStudent && guarantor > 0 {
		return guarantor
	}
	return nonNegative(renter.MonthlyIncome)
}

// requiredGuarantorIncome is the smallest guarantor income that keeps the
// shortfall within the recommended 30% band: ceil(shortfall / 0.30).
func requiredGuarantorIncome(shortfall int) int {
	if shortfall <= 0 {
		return 0
	}
	return (shortfall*100 + recommendedPercent - 1) / recommendedPercent
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

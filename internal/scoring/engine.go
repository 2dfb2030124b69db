// internal/scoring/engine.go
package scoring

import (
	"fmt"
	"strings"
)

// evaluation is the normalized view of one renter/listing pair.
type evaluation struct {
	renterType        RenterType
	demand            DemandLevel
	renterDocs        docSet
	requiredDocs      docSet
	income            int
	guarantorIncome   int
	effectiveIncome   int
	statedBudget      int
	rent              int
	deposit           int
	fee               int
	isStudent         bool
	bursaryStudent    bool
	nonBursaryStudent bool
	bands             BudgetBands
}

func normalize(renter RenterProfile, listing ListingProfile) *evaluation {
	rt := ParseRenterType(renter.RenterType)
	isStudent := rt == RenterStudent
	ev := &evaluation{
		renterType:        rt,
		demand:            ParseDemandLevel(listing.AreaDemand),
		renterDocs:        newDocSet(renter.Documents),
		requiredDocs:      newDocSet(listing.RequiredDocuments),
		income:            nonNegative(renter.MonthlyIncome),
		guarantorIncome:   nonNegative(renter.GuarantorMonthlyIncome),
		statedBudget:      nonNegative(renter.StatedBudget),
		rent:              nonNegative(listing.Rent),
		deposit:           nonNegative(listing.Deposit),
		fee:               nonNegative(listing.ApplicationFee),
		isStudent:         isStudent,
		bursaryStudent:    isStudent && renter.IsBursaryStudent,
		nonBursaryStudent: isStudent && !renter.IsBursaryStudent,
	}
	ev.effectiveIncome = EffectiveIncome(renter)
	ev.bands = SuggestBudget(ev.effectiveIncome)
	return ev
}

// accumulator carries the running score and its explanation through the rules.
type accumulator struct {
	score        int
	reasons      []string
	actions      []string
	breakdown    []RuleApplication
	contactAgent bool
}

func (a *accumulator) apply(title string, delta int, details string) {
	before := a.score
	a.score += delta
	a.breakdown = append(a.breakdown, RuleApplication{
		Title:       title,
		Delta:       delta,
		ScoreBefore: before,
		ScoreAfter:  a.score,
		Details:     details,
	})
}

func (a *accumulator) reason(format string, args ...interface{}) {
	a.reasons = append(a.reasons, fmt.Sprintf(format, args...))
}

func (a *accumulator) action(format string, args ...interface{}) {
	a.actions = append(a.actions, fmt.Sprintf(format, args...))
}

// Evaluate scores a renter against a listing. It never fails: malformed input is
// normalized to safe defaults.
func Evaluate(renter RenterProfile, listing ListingProfile) (ScoreResult, BudgetBands) {
	ev := normalize(renter, listing)
	acc := &accumulator{}

	acc.apply("Base score", baseScore, "")

	applyAffordability(acc, ev)
	penalized := applyStudentDocuments(acc, ev)
	applyListingDocuments(acc, ev, penalized)
	applyRenterTypeDocuments(acc, ev, penalized)
	applyDemand(acc, ev)
	applyCosts(acc, ev)

	if clamped := clamp(acc.score, minScore, maxScore); clamped != acc.score {
		acc.apply("Clamp to 0-100", clamped-acc.score, "")
	}

	verdict, confidence := Classify(acc.score)
	acc.apply("Verdict", 0, fmt.Sprintf("%s / %s", verdict, confidence))

	polishActions(acc, ev, confidence)

	return ScoreResult{
		Score:      acc.score,
		Verdict:    verdict,
		Confidence: confidence,
		Reasons:    dedupe(acc.reasons, maxReasons),
		Actions:    dedupe(acc.actions, maxActions),
		Breakdown:  acc.breakdown,
	}, ev.bands
}

// EvaluateFields is Evaluate over primitive arguments.
func EvaluateFields(
	renterType string,
	monthlyIncome int,
	renterDocs []string,
	rent, deposit, applicationFee int,
	requiredDocuments []string,
	areaDemand string,
	guarantorMonthlyIncome int,
	isBursaryStudent bool,
) (ScoreResult, BudgetBands) {
	return Evaluate(
		RenterProfile{
			RenterType:             renterType,
			MonthlyIncome:          monthlyIncome,
			Documents:              renterDocs,
			IsBursaryStudent:       isBursaryStudent,
			GuarantorMonthlyIncome: guarantorMonthlyIncome,
		},
		ListingProfile{
			Rent:              rent,
			Deposit:           deposit,
			ApplicationFee:    applicationFee,
			RequiredDocuments: requiredDocuments,
			AreaDemand:        areaDemand,
		},
	)
}

func applyAffordability(acc *accumulator, ev *evaluation) {
	if ev.bursaryStudent && ev.income >= ev.rent {
		acc.apply("Bursary covers rent", bursaryCoversRentBonus,
			fmt.Sprintf("support %d, rent %d", ev.income, ev.rent))
		acc.reason("Bursary support covers rent in full")
		return
	}

	ratio := noIncomeRatio
	if ev.effectiveIncome > 0 {
		ratio = float64(ev.rent) / float64(ev.effectiveIncome) * 100
	}
	details := fmt.Sprintf("rent %d, income %d, ratio %.1f%%", ev.rent, ev.effectiveIncome, ratio)

	switch {
	case ratio > 40:
		acc.apply("Rent over 40% of income", ratioOver40Penalty, details)
		if ev.effectiveIncome > 0 {
			acc.reason("Rent is %.1f%% of income, over 40%% (high affordability risk)", ratio)
		} else {
			acc.reason("No income to measure rent against, over 40%% affordability risk assumed")
		}
	case ratio > 35:
		acc.apply("Rent over 35% of income", ratioOver35Penalty, details)
		acc.reason("Rent is %.1f%% of income, over 35%% (stretched budget)", ratio)
	case ratio > 30:
		acc.apply("Rent over 30% of income", ratioOver30Penalty, details)
		acc.reason("Rent is %.1f%% of income, above the recommended 30%%", ratio)
	default:
		acc.apply("Rent within recommended band", withinBandBonus, details)
		acc.reason("Rent is %.1f%% of income, within the recommended 30%%", ratio)
	}

	if ev.bursaryStudent && ev.income < ev.rent {
		shortfall := ev.rent - ev.income
		acc.reason("Bursary leaves a monthly shortfall of %d against rent", shortfall)
		acc.action("Add a guarantor earning at least %d per month to cover the shortfall", requiredGuarantorIncome(shortfall))
		acc.contactAgent = true
	}
}

// applyStudentDocuments returns the set of tags it penalized so later stages
// do not penalize them again.
func applyStudentDocuments(acc *accumulator, ev *evaluation) docSet {
	penalized := make(docSet)
	if !ev.isStudent {
		return penalized
	}

	if !ev.bursaryStudent && (ev.renterDocs.has(DocBursaryLetter) || ev.renterDocs.has(DocProofOfBursary)) {
		acc.reason("Bursary document provided but bursary status not selected, assessed as non-bursary")
	}

	if !ev.renterDocs.has(DocProofOfRegistration) {
		acc.apply("Missing proof of registration", missingRegistrationPenalty, DocProofOfRegistration)
		acc.reason("Proof of registration not provided")
		acc.action("Upload proof of registration or ask the agent about conditional approval")
		acc.contactAgent = true
	}

	if !ev.nonBursaryStudent {
		return penalized
	}

	if missing := ev.renterDocs.missingFrom(guarantorDocuments); len(missing) > 0 {
		joined := strings.Join(missing, ", ")
		acc.apply("Missing guarantor documents", missingGuarantorDocsPenalty, joined)
		acc.reason("Guarantor documents missing: %s", joined)
		acc.action("Provide your guarantor's letter, payslip and bank statement")
		acc.contactAgent = true
		penalized.add(missing...)
	}

	if ev.guarantorIncome <= 0 {
		acc.apply("Missing guarantor income", missingGuarantorIncomePenalty, "")
		acc.reason("Guarantor income not provided")
		acc.action("Add your guarantor's monthly income")
		acc.contactAgent = true
	}
	return penalized
}

func applyListingDocuments(acc *accumulator, ev *evaluation, penalized docSet) {
	missing := ev.requiredDocs.minus(ev.renterDocs)
	if len(missing) == 0 {
		return
	}

	delta := missingRequiredManyPenalty
	switch len(missing) {
	case 1:
		delta = missingRequiredOnePenalty
	case 2:
		delta = missingRequiredTwoPenalty
	}

	joined := strings.Join(missing, ", ")
	acc.apply("Missing listing documents", delta, joined)
	acc.reason("Listing requires documents you have not provided: %s", joined)
	if ev.renterDocs.hasAnyClusterProof() {
		acc.reason("Alternative proof is available for some missing documents")
	}
	acc.action("Gather the missing documents: %s", joined)
	acc.contactAgent = true
	penalized.add(missing...)
}

func applyRenterTypeDocuments(acc *accumulator, ev *evaluation, penalized docSet) {
	missing := func(tag string) bool {
		return !ev.renterDocs.has(tag) && !penalized.has(tag)
	}
	hasPayslip := ev.renterDocs.has(DocPayslip)

	switch ev.renterType {
	case RenterWorker:
		if missing(DocPayslip) {
			acc.apply("Missing payslip", workerMissingPayslipPenalty, DocPayslip)
			acc.reason("No payslip provided")
			acc.action("Upload your latest payslip")
			acc.contactAgent = true
		}
		if missing(DocBankStatement) {
			delta := workerMissingBankNoPayslipPenalty
			if hasPayslip {
				delta = workerMissingBankWithPayslipPenalty
				acc.reason("No bank statement provided")
			} else {
				acc.reason("No bank statement and no payslip provided")
			}
			acc.apply("Missing bank statement", delta, DocBankStatement)
			acc.action("Upload a recent three-month bank statement")
			acc.contactAgent = true
		}

	case RenterNewProfessional:
		hasContract := ev.renterDocs.has(DocEmploymentContract)
		if hasContract {
			acc.apply("Employment contract", contractBonus, DocEmploymentContract)
			acc.reason("Employment contract strengthens the application")
		}
		if ev.renterDocs.has(DocGuarantorLetter) {
			acc.apply("Guarantor letter", guarantorLetterBonus, DocGuarantorLetter)
			acc.reason("Guarantor letter strengthens the application")
		}
		if missing(DocBankStatement) {
			delta := professionalMissingBankNoContract
			if hasContract {
				delta = professionalMissingBankContract
			}
			acc.apply("Missing bank statement", delta, DocBankStatement)
			acc.reason("No bank statement provided yet")
			acc.action("Upload a bank statement once your first salary is paid in")
			acc.contactAgent = true
		}
		if missing(DocPayslip) {
			delta := professionalMissingPayNoContract
			if hasContract {
				delta = professionalMissingPayContract
			}
			acc.apply("Missing payslip", delta, DocPayslip)
			acc.reason("No payslip provided yet")
			if !hasContract {
				acc.action("Upload your employment contract as proof of income")
			}
			acc.contactAgent = true
		}

	case RenterStudent:
		if ev.nonBursaryStudent && missing(DocGuarantorBankStatement) {
			acc.apply("Missing guarantor bank statement", studentMissingGuarantorBankPenalty, DocGuarantorBankStatement)
			acc.reason("No guarantor bank statement provided")
			acc.action("Ask your guarantor for a recent bank statement")
			acc.contactAgent = true
		}
	}
}

func applyDemand(acc *accumulator, ev *evaluation) {
	switch ev.demand {
	case DemandHigh:
		acc.apply("High demand area", highDemandPenalty, string(ev.demand))
		acc.reason("High demand area increases competition")
	case DemandLow:
		acc.apply("Low demand area", lowDemandBonus, string(ev.demand))
		acc.reason("Low demand area, less competition for this listing")
	}
}

// applyCosts explains fees and upfront cost. It never changes the score.
func applyCosts(acc *accumulator, ev *evaluation) {
	switch {
	case ev.fee >= highFeeThreshold:
		acc.reason("Application fee of %d is high", ev.fee)
	case ev.fee >= moderateFeeThreshold:
		acc.reason("Application fee of %d is moderate", ev.fee)
	}

	upfront := ev.rent + ev.deposit + ev.fee
	if ev.effectiveIncome > 0 && upfront > ev.effectiveIncome {
		acc.reason("Upfront cost of %d (rent, deposit and fee) exceeds monthly income", upfront)
		acc.action("Plan savings for the %d upfront cost before applying", upfront)
	}

	if ev.statedBudget > 0 && ev.rent > ev.statedBudget {
		acc.reason("Rent exceeds your stated budget of %d", ev.statedBudget)
	}
}

func polishActions(acc *accumulator, ev *evaluation, confidence Confidence) {
	switch confidence {
	case ConfidenceHigh:
		acc.actions = append([]string{"Apply: this listing is a strong match for your profile"}, acc.actions...)
	case ConfidenceMedium:
		acc.action("Strengthen the application with a guarantor")
		if ev.rent > ev.bands.Recommended {
			acc.action("Consider house-sharing or a roommate to bring rent within %d", ev.bands.Recommended)
		}
		acc.action("Improve your documents or affordability before applying")
	case ConfidenceLow:
		acc.action("Avoid this listing unless affordability or documents improve")
	}

	if acc.contactAgent && confidence != ConfidenceHigh {
		acc.action("Contact the agent before paying any fees")
	}
}

// dedupe drops case-insensitive duplicates keeping first-seen order, then caps.
func dedupe(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

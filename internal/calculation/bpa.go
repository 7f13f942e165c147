package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/domain"
	"github.com/maplepay/paycan/internal/taxparams"
)

// Basic personal amounts are, in three jurisdictions, a function of income
// rather than a constant: Manitoba's phases out entirely at high income,
// Nova Scotia adds a supplement that phases out at low income, and Yukon
// mirrors the federal phase-out formula. The tax calculators expect the
// claim amount supplied by the caller to already reflect the right tier;
// these helpers exist so callers (a TD1 form front-end, the CLI) can derive
// it before invoking the calculators.

// BasicPersonalAmount returns the jurisdiction's BPA for an employee with
// the given annual income on the given pay date.
func BasicPersonalAmount(params *taxparams.TaxYearParameters, jurisdiction domain.Jurisdiction, annualIncome decimal.Decimal, payDate time.Time) (decimal.Decimal, error) {
	edition, err := params.ResolveEdition(payDate)
	if err != nil {
		return decimal.Zero, err
	}
	jp, err := edition.Jurisdiction(jurisdiction)
	if err != nil {
		return decimal.Zero, err
	}

	switch {
	case jp.BPASupplement != nil:
		return supplementBPA(jp.BasicPersonalAmount, jp.BPASupplement, annualIncome), nil
	case jp.BPAPhaseOut != nil:
		return phaseOutBPA(jp.BasicPersonalAmount, jp.BPAPhaseOut, annualIncome), nil
	default:
		return jp.BasicPersonalAmount, nil
	}
}

// FederalBasicPersonalAmount returns the federal BPA for the given annual
// income on the given pay date, applying the high-income phase-out.
func FederalBasicPersonalAmount(params *taxparams.TaxYearParameters, annualIncome decimal.Decimal, payDate time.Time) (decimal.Decimal, error) {
	edition, err := params.ResolveEdition(payDate)
	if err != nil {
		return decimal.Zero, err
	}
	fed := &edition.Federal
	if fed.BPAPhaseOut == nil {
		return fed.BasicPersonalAmount, nil
	}
	return phaseOutBPA(fed.BasicPersonalAmount, fed.BPAPhaseOut, annualIncome), nil
}

// phaseOutBPA reduces the full amount linearly from its value at the
// phase-out start down to the floor at the end.
func phaseOutBPA(full decimal.Decimal, po *taxparams.BPAPhaseOut, annualIncome decimal.Decimal) decimal.Decimal {
	if annualIncome.LessThanOrEqual(po.Start) {
		return full
	}
	if annualIncome.GreaterThanOrEqual(po.End) {
		return po.Floor
	}
	fraction := annualIncome.Sub(po.Start).Div(po.End.Sub(po.Start))
	return full.Sub(full.Sub(po.Floor).Mul(fraction)).Round(2)
}

// supplementBPA adds the full supplement below the threshold and phases it
// out at the rule's rate above it.
func supplementBPA(base decimal.Decimal, sup *taxparams.BPASupplement, annualIncome decimal.Decimal) decimal.Decimal {
	supplement := sup.Amount
	over := annualIncome.Sub(sup.Threshold)
	if over.GreaterThan(decimal.Zero) {
		supplement = supplement.Sub(over.Mul(sup.PhaseOutRate))
	}
	if supplement.LessThan(decimal.Zero) {
		supplement = decimal.Zero
	}
	return base.Add(supplement).Round(2)
}

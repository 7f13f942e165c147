package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/domain"
	"github.com/maplepay/paycan/internal/taxparams"
)

// ProvincialTaxCalculator computes provincial/territorial tax per period.
// The base formula mirrors the federal one; jurisdiction-specific overlays
// (surtax, health premium, tax reduction, supplemental credit) are folded in
// after the base tax, each a pure function of the base tax and/or annual
// income.
type ProvincialTaxCalculator struct {
	params *taxparams.TaxYearParameters
}

// NewProvincialTaxCalculator creates a provincial calculator over a year
// snapshot.
func NewProvincialTaxCalculator(params *taxparams.TaxYearParameters) *ProvincialTaxCalculator {
	return &ProvincialTaxCalculator{params: params}
}

// ProvincialTaxInput carries the annualized income (factor A, shared with
// the federal calculation), the provincial claim amount, and the period's
// already-computed CPP/EI contributions for the credit step.
type ProvincialTaxInput struct {
	Jurisdiction   domain.Jurisdiction
	AnnualIncome   decimal.Decimal
	ClaimAmount    decimal.Decimal
	CPPPerPeriod   decimal.Decimal
	EIPerPeriod    decimal.Decimal
	PeriodsPerYear decimal.Decimal
	PayDate        time.Time
}

// ProvincialTaxResult reports the annual and per-period tax with the
// jurisdiction-rule breakdown.
type ProvincialTaxResult struct {
	AnnualTax     decimal.Decimal
	TaxPerPeriod  decimal.Decimal
	BaseTax       decimal.Decimal
	Surtax        decimal.Decimal
	HealthPremium decimal.Decimal
	TaxReduction  decimal.Decimal
	K5PCredit     decimal.Decimal
}

// Calculate computes the jurisdiction's tax for the period. An unrecognized
// jurisdiction code is rejected, never defaulted.
func (p *ProvincialTaxCalculator) Calculate(in ProvincialTaxInput) (ProvincialTaxResult, error) {
	edition, err := p.params.ResolveEdition(in.PayDate)
	if err != nil {
		return ProvincialTaxResult{}, err
	}
	jp, err := edition.Jurisdiction(in.Jurisdiction)
	if err != nil {
		return ProvincialTaxResult{}, err
	}

	bracket, _ := taxparams.SelectBracket(jp.Brackets, in.AnnualIncome)
	basicTax := in.AnnualIncome.Mul(bracket.Rate).Sub(bracket.Constant)

	lowest := jp.LowestRate()
	k1p := lowest.Mul(in.ClaimAmount)
	k2p := lowest.Mul(annualContributionCredit(edition, in.CPPPerPeriod, in.EIPerPeriod, in.PeriodsPerYear))

	baseTax := basicTax.Sub(k1p).Sub(k2p)
	if baseTax.LessThan(decimal.Zero) {
		baseTax = decimal.Zero
	}

	var res ProvincialTaxResult
	if jp.SupplementalCredit != nil {
		credit := supplementalCreditAmount(jp.SupplementalCredit, in.AnnualIncome)
		res.K5PCredit = decimal.Min(credit, baseTax)
		baseTax = baseTax.Sub(res.K5PCredit)
	}
	res.BaseTax = baseTax
	res.Surtax = surtaxAmount(jp.Surtax, baseTax)
	res.HealthPremium = healthPremiumAmount(jp.HealthPremium, in.AnnualIncome)
	if jp.TaxReduction != nil {
		res.TaxReduction = taxReductionAmount(jp.TaxReduction, baseTax, in.AnnualIncome)
	}

	annualTax := baseTax.Add(res.Surtax).Add(res.HealthPremium).Sub(res.TaxReduction)
	if annualTax.LessThan(decimal.Zero) {
		annualTax = decimal.Zero
	}
	res.AnnualTax = annualTax
	res.TaxPerPeriod = annualTax.Div(in.PeriodsPerYear).Round(2)
	return res, nil
}

// surtaxAmount applies each tier's rate to the basic tax above its
// threshold. Tiers stack: Ontario charges 20% of tax over the first
// threshold plus a further 36% of tax over the second.
func surtaxAmount(tiers []taxparams.SurtaxTier, baseTax decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, tier := range tiers {
		over := baseTax.Sub(tier.Threshold)
		if over.GreaterThan(decimal.Zero) {
			total = total.Add(over.Mul(tier.Rate))
		}
	}
	return total
}

// healthPremiumAmount maps annual income onto the stepped premium schedule:
// the highest band whose floor the income exceeds sets the base, phase-in
// rate, and cap.
func healthPremiumAmount(bands []taxparams.HealthPremiumBand, annualIncome decimal.Decimal) decimal.Decimal {
	var active *taxparams.HealthPremiumBand
	for i := range bands {
		if annualIncome.GreaterThan(bands[i].IncomeOver) {
			active = &bands[i]
		}
	}
	if active == nil {
		return decimal.Zero
	}
	premium := active.Base.Add(annualIncome.Sub(active.IncomeOver).Mul(active.Rate))
	return decimal.Min(premium, active.Cap)
}

// taxReductionAmount computes the low-income reduction: full value below the
// threshold, phased out linearly above it, and never more than the tax owed.
func taxReductionAmount(tr *taxparams.TaxReduction, baseTax, annualIncome decimal.Decimal) decimal.Decimal {
	reduction := tr.Maximum
	over := annualIncome.Sub(tr.Threshold)
	if over.GreaterThan(decimal.Zero) {
		reduction = reduction.Sub(over.Mul(tr.PhaseOutRate))
	}
	if reduction.LessThan(decimal.Zero) {
		reduction = decimal.Zero
	}
	return decimal.Min(reduction, baseTax)
}

// supplementalCreditAmount computes the ratio-driven credit on annual income
// up to the rule's cap.
func supplementalCreditAmount(sc *taxparams.SupplementalCredit, annualIncome decimal.Decimal) decimal.Decimal {
	return sc.Ratio.Mul(decimal.Min(annualIncome, sc.IncomeCap))
}

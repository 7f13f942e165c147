package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/taxparams"
)

// FederalTaxCalculator computes federal income tax per period using the CRA
// annualized method. The edition (and with it the lowest rate and bracket
// set) is resolved from the pay date on every call, so calculations on
// either side of a mid-year rate change can run in the same batch.
type FederalTaxCalculator struct {
	params *taxparams.TaxYearParameters
}

// NewFederalTaxCalculator creates a federal calculator over a year snapshot.
func NewFederalTaxCalculator(params *taxparams.TaxYearParameters) *FederalTaxCalculator {
	return &FederalTaxCalculator{params: params}
}

// FederalTaxInput carries one period's amounts. CPPPerPeriod is the base
// contribution only; CPP2PerPeriod is deducted from taxable income instead
// of earning a credit.
type FederalTaxInput struct {
	GrossPerPeriod decimal.Decimal
	RRSPPerPeriod  decimal.Decimal
	UnionDues      decimal.Decimal
	OtherPretax    decimal.Decimal
	CPP2PerPeriod  decimal.Decimal
	ClaimAmount    decimal.Decimal
	CPPPerPeriod   decimal.Decimal
	EIPerPeriod    decimal.Decimal
	PeriodsPerYear decimal.Decimal
	PayDate        time.Time
}

// FederalTaxResult reports the annualized income, the period tax, and the
// bracket that applied.
type FederalTaxResult struct {
	AnnualTaxableIncome decimal.Decimal
	AnnualTax           decimal.Decimal
	TaxPerPeriod        decimal.Decimal
	BracketRate         decimal.Decimal
	BracketIndex        int
}

// Calculate runs the A/K1/K2/K4 formula: annualize taxable income, look up
// the bracket, subtract the personal, CPP/EI, and employment credits, floor
// at zero, and divide back down to the period.
func (f *FederalTaxCalculator) Calculate(in FederalTaxInput) (FederalTaxResult, error) {
	edition, err := f.params.ResolveEdition(in.PayDate)
	if err != nil {
		return FederalTaxResult{}, err
	}
	fed := &edition.Federal

	// Factor A: annual taxable income.
	taxablePerPeriod := in.GrossPerPeriod.
		Sub(in.RRSPPerPeriod).
		Sub(in.UnionDues).
		Sub(in.OtherPretax).
		Sub(in.CPP2PerPeriod)
	annualIncome := taxablePerPeriod.Mul(in.PeriodsPerYear)
	if annualIncome.LessThan(decimal.Zero) {
		annualIncome = decimal.Zero
	}

	bracket, idx := taxparams.SelectBracket(fed.Brackets, annualIncome)
	basicTax := annualIncome.Mul(bracket.Rate).Sub(bracket.Constant)

	lowest := fed.LowestRate()
	k1 := lowest.Mul(in.ClaimAmount)
	k2 := lowest.Mul(annualContributionCredit(edition, in.CPPPerPeriod, in.EIPerPeriod, in.PeriodsPerYear))
	k4 := lowest.Mul(decimal.Min(annualIncome, fed.EmploymentCredit))

	annualTax := basicTax.Sub(k1).Sub(k2).Sub(k4)
	if annualTax.LessThan(decimal.Zero) {
		annualTax = decimal.Zero
	}

	return FederalTaxResult{
		AnnualTaxableIncome: annualIncome,
		AnnualTax:           annualTax,
		TaxPerPeriod:        annualTax.Div(in.PeriodsPerYear).Round(2),
		BracketRate:         bracket.Rate,
		BracketIndex:        idx,
	}, nil
}

// annualContributionCredit is the K2/K2P base: the annualized employee CPP
// (base tier) and EI premiums, each capped at its published annual maximum.
func annualContributionCredit(edition *taxparams.Edition, cppPerPeriod, eiPerPeriod, periods decimal.Decimal) decimal.Decimal {
	cppAnnual := decimal.Min(cppPerPeriod.Mul(periods), edition.CPP.MaxBaseContribution())
	eiAnnual := decimal.Min(eiPerPeriod.Mul(periods), edition.EI.MaxAnnualPremium())
	return cppAnnual.Add(eiAnnual)
}

package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/domain"
	"github.com/maplepay/paycan/internal/taxparams"
)

// PayrollEngine orchestrates one employee's deduction calculation for one
// pay period: it derives the pensionable, insurable, and taxable earnings
// bases, invokes each calculator, aggregates gross to net, and rolls the
// year-to-date totals forward. Every invocation is a pure function of its
// inputs and the immutable parameter snapshot, so independent employees can
// be calculated concurrently.
type PayrollEngine struct {
	params  *taxparams.TaxYearParameters
	federal *FederalTaxCalculator
	prov    *ProvincialTaxCalculator
}

// NewPayrollEngine creates an engine over a loaded parameter snapshot.
func NewPayrollEngine(params *taxparams.TaxYearParameters) *PayrollEngine {
	return &PayrollEngine{
		params:  params,
		federal: NewFederalTaxCalculator(params),
		prov:    NewProvincialTaxCalculator(params),
	}
}

// Params exposes the engine's parameter snapshot.
func (e *PayrollEngine) Params() *taxparams.TaxYearParameters {
	return e.params
}

// CalculatePayroll computes one period's deductions and net pay. The first
// error from validation or any sub-calculator is returned with no partial
// result; boundary conditions (zero gross, YTD at ceiling) are valid inputs
// that produce zero amounts, not errors.
func (e *PayrollEngine) CalculatePayroll(in *domain.PayPeriodInput, ytd *domain.YtdState) (*domain.PeriodResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := ytd.Validate(); err != nil {
		return nil, err
	}
	periods, err := in.Frequency.PeriodsPerYear()
	if err != nil {
		return nil, err
	}
	edition, err := e.params.ResolveEdition(in.PayDate)
	if err != nil {
		return nil, err
	}

	gross := in.GrossPay()
	// CPP includes taxable benefits in its base; EI does not.
	pensionable := gross.Add(in.TaxableBenefits)
	insurable := gross

	cpp := NewCPPCalculator(edition.CPP).Calculate(CPPInput{
		PensionableEarnings: pensionable,
		PeriodsPerYear:      periods,
		YtdPensionable:      ytd.PensionableEarnings,
		YtdCPP:              ytd.CPP,
		YtdCPP2:             ytd.CPP2,
		CPPExempt:           in.CPPExempt,
		CPP2Exempt:          in.CPP2Exempt,
	})

	ei := NewEICalculator(edition.EI).Calculate(insurable, ytd.EI, in.EIExempt)

	fed, err := e.federal.Calculate(FederalTaxInput{
		GrossPerPeriod: gross,
		RRSPPerPeriod:  in.RRSPContribution,
		UnionDues:      in.UnionDues,
		OtherPretax:    in.OtherPretax,
		CPP2PerPeriod:  cpp.CPP2,
		ClaimAmount:    in.FederalClaim,
		CPPPerPeriod:   cpp.BaseCPP,
		EIPerPeriod:    ei.Employee,
		PeriodsPerYear: periods,
		PayDate:        in.PayDate,
	})
	if err != nil {
		return nil, err
	}

	prov, err := e.prov.Calculate(ProvincialTaxInput{
		Jurisdiction:   in.Jurisdiction,
		AnnualIncome:   fed.AnnualTaxableIncome,
		ClaimAmount:    in.ProvincialClaim,
		CPPPerPeriod:   cpp.BaseCPP,
		EIPerPeriod:    ei.Employee,
		PeriodsPerYear: periods,
		PayDate:        in.PayDate,
	})
	if err != nil {
		return nil, err
	}

	pretax := in.RRSPContribution.Add(in.UnionDues).Add(in.OtherPretax)
	totalDeductions := cpp.BaseCPP.Add(cpp.CPP2).
		Add(ei.Employee).
		Add(fed.TaxPerPeriod).
		Add(prov.TaxPerPeriod).
		Add(pretax).
		Add(in.PostTaxDeductions)
	netPay := gross.Sub(totalDeductions)

	updated := domain.YtdState{
		Gross:               ytd.Gross.Add(gross),
		PensionableEarnings: ytd.PensionableEarnings.Add(pensionable),
		InsurableEarnings:   ytd.InsurableEarnings.Add(insurable),
		CPP:                 ytd.CPP.Add(cpp.BaseCPP),
		CPP2:                ytd.CPP2.Add(cpp.CPP2),
		EI:                  ytd.EI.Add(ei.Employee),
		FederalTax:          ytd.FederalTax.Add(fed.TaxPerPeriod),
		ProvincialTax:       ytd.ProvincialTax.Add(prov.TaxPerPeriod),
		NetPay:              ytd.NetPay.Add(netPay),
	}

	return &domain.PeriodResult{
		EmployeeID:          in.EmployeeID,
		PayDate:             in.PayDate,
		GrossPay:            gross,
		PensionableEarnings: pensionable,
		InsurableEarnings:   insurable,
		AnnualTaxableIncome: fed.AnnualTaxableIncome,
		CPPBase:             cpp.BaseCPP,
		CPP2:                cpp.CPP2,
		EmployerCPP:         cpp.EmployerCPP,
		EI:                  ei.Employee,
		EmployerEI:          ei.Employer,
		FederalTax:          fed.TaxPerPeriod,
		ProvincialTax:       prov.TaxPerPeriod,
		Provincial: domain.ProvincialBreakdown{
			BaseTax:       prov.BaseTax.Round(2),
			Surtax:        prov.Surtax.Round(2),
			HealthPremium: prov.HealthPremium.Round(2),
			TaxReduction:  prov.TaxReduction.Round(2),
			K5PCredit:     prov.K5PCredit.Round(2),
		},
		PretaxDeductions:  pretax,
		PostTaxDeductions: in.PostTaxDeductions,
		TotalDeductions:   totalDeductions,
		NetPay:            netPay,
		UpdatedYtd:        updated,
	}, nil
}

// ZeroYtd is the empty year-to-date state at the start of a calendar year.
func ZeroYtd() domain.YtdState {
	return domain.YtdState{
		Gross:               decimal.Zero,
		PensionableEarnings: decimal.Zero,
		InsurableEarnings:   decimal.Zero,
		CPP:                 decimal.Zero,
		CPP2:                decimal.Zero,
		EI:                  decimal.Zero,
		FederalTax:          decimal.Zero,
		ProvincialTax:       decimal.Zero,
		NetPay:              decimal.Zero,
	}
}

package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/taxparams"
)

// EICalculator computes employee and employer EI premiums for one period.
type EICalculator struct {
	params taxparams.EIParams
}

// NewEICalculator creates an EI calculator for one edition's parameters.
func NewEICalculator(params taxparams.EIParams) *EICalculator {
	return &EICalculator{params: params}
}

// EIResult holds the premiums for one period.
type EIResult struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// Calculate computes the employee premium on insurable earnings, clamped to
// the remaining room under the annual maximum, and the employer premium as
// the statutory multiple of the actual (post-clamp) employee premium.
func (e *EICalculator) Calculate(insurableEarnings, ytdEI decimal.Decimal, eiExempt bool) EIResult {
	if eiExempt {
		return EIResult{}
	}

	tentative := insurableEarnings.Mul(e.params.EmployeeRate).Round(2)
	room := e.params.MaxAnnualPremium().Sub(ytdEI)
	if room.LessThan(decimal.Zero) {
		room = decimal.Zero
	}
	employee := decimal.Min(tentative, room)

	return EIResult{
		Employee: employee,
		Employer: employee.Mul(e.params.EmployerMultiplier).Round(2),
	}
}

package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/taxparams"
)

// CPPCalculator computes base CPP and second-additional (CPP2) contributions
// for one pay period.
type CPPCalculator struct {
	params taxparams.CPPParams
}

// NewCPPCalculator creates a CPP calculator for one edition's parameters.
func NewCPPCalculator(params taxparams.CPPParams) *CPPCalculator {
	return &CPPCalculator{params: params}
}

// CPPResult holds the employee contributions for one period plus the
// employer match.
type CPPResult struct {
	BaseCPP     decimal.Decimal
	CPP2        decimal.Decimal
	EmployerCPP decimal.Decimal
}

// CPPInput carries one period's pensionable earnings and the year-to-date
// position the ceilings are checked against.
type CPPInput struct {
	PensionableEarnings decimal.Decimal
	PeriodsPerYear      decimal.Decimal
	YtdPensionable      decimal.Decimal
	YtdCPP              decimal.Decimal
	YtdCPP2             decimal.Decimal
	CPPExempt           bool
	CPP2Exempt          bool
}

// Calculate computes the period's contributions. Base CPP applies the
// prorated basic exemption and is clamped to the remaining room under the
// annual base maximum; CPP2 applies only to the pensionable band between
// YMPE and YAMPE, tracked against the YTD pensionable position, with its own
// independent ceiling. The employer matches both tiers 1:1.
func (c *CPPCalculator) Calculate(in CPPInput) CPPResult {
	var res CPPResult

	if !in.CPPExempt {
		perPeriodExemption := c.params.BasicExemption.Div(in.PeriodsPerYear)
		contributory := in.PensionableEarnings.Sub(perPeriodExemption)
		if contributory.LessThan(decimal.Zero) {
			contributory = decimal.Zero
		}
		tentative := contributory.Mul(c.params.BaseRate).Round(2)
		room := c.params.MaxBaseContribution().Sub(in.YtdCPP)
		if room.LessThan(decimal.Zero) {
			room = decimal.Zero
		}
		res.BaseCPP = decimal.Min(tentative, room)
	}

	if !in.CPPExempt && !in.CPP2Exempt {
		res.CPP2 = c.calculateCPP2(in)
	}

	res.EmployerCPP = res.BaseCPP.Add(res.CPP2)
	return res
}

// calculateCPP2 derives the period's second-additional contribution from
// how much of the YMPE-to-YAMPE band this period's earnings newly occupy.
func (c *CPPCalculator) calculateCPP2(in CPPInput) decimal.Decimal {
	bandWidth := c.params.YAMPE.Sub(c.params.YMPE)
	priorInBand := clampBand(in.YtdPensionable.Sub(c.params.YMPE), bandWidth)
	newInBand := clampBand(in.YtdPensionable.Add(in.PensionableEarnings).Sub(c.params.YMPE), bandWidth)

	tentative := newInBand.Sub(priorInBand).Mul(c.params.AdditionalRate).Round(2)
	room := c.params.MaxAdditionalContribution().Sub(in.YtdCPP2)
	if room.LessThan(decimal.Zero) {
		room = decimal.Zero
	}
	return decimal.Min(tentative, room)
}

func clampBand(v, width decimal.Decimal) decimal.Decimal {
	if v.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return decimal.Min(v, width)
}

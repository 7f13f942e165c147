// Package taxparams holds the versioned tax-table snapshot the deduction
// engine consumes: federal and provincial brackets, basic personal amounts,
// CPP/EI rates and ceilings, and the jurisdiction-specific rule constants.
// A snapshot is immutable after loading and safe for concurrent reads.
package taxparams

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/domain"
)

// Bracket is one row of a progressive rate table. Constant is the cumulative
// tax adjustment (factor K/KP in the CRA formulas) derived from the rows
// below it, so annual tax at income A in this bracket is A*Rate - Constant.
type Bracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
	Constant  decimal.Decimal `yaml:"-" json:"constant"`
}

// BPAPhaseOut describes a basic personal amount that declines linearly from
// its full value at Start down to Floor at End. Used federally, for Yukon
// (which mirrors the federal formula) and for Manitoba (Floor zero).
type BPAPhaseOut struct {
	Floor decimal.Decimal `yaml:"floor" json:"floor"`
	Start decimal.Decimal `yaml:"start" json:"start"`
	End   decimal.Decimal `yaml:"end" json:"end"`
}

// BPASupplement describes Nova Scotia's additional basic personal amount:
// the full Amount applies up to Threshold and phases out at PhaseOutRate on
// income above it.
type BPASupplement struct {
	Amount       decimal.Decimal `yaml:"amount" json:"amount"`
	Threshold    decimal.Decimal `yaml:"threshold" json:"threshold"`
	PhaseOutRate decimal.Decimal `yaml:"phase_out_rate" json:"phase_out_rate"`
}

// SurtaxTier adds Rate of the basic provincial tax above Threshold.
type SurtaxTier struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// HealthPremiumBand is one step of Ontario's health premium schedule: for
// annual income above IncomeOver the premium is Base plus Rate of the excess,
// capped at Cap.
type HealthPremiumBand struct {
	IncomeOver decimal.Decimal `yaml:"income_over" json:"income_over"`
	Base       decimal.Decimal `yaml:"base" json:"base"`
	Rate       decimal.Decimal `yaml:"rate" json:"rate"`
	Cap        decimal.Decimal `yaml:"cap" json:"cap"`
}

// TaxReduction describes British Columbia's low-income reduction: a credit
// of up to Maximum, phased out at PhaseOutRate on income above Threshold.
type TaxReduction struct {
	Maximum      decimal.Decimal `yaml:"maximum" json:"maximum"`
	Threshold    decimal.Decimal `yaml:"threshold" json:"threshold"`
	PhaseOutRate decimal.Decimal `yaml:"phase_out_rate" json:"phase_out_rate"`
}

// SupplementalCredit describes Alberta's K5P credit: Ratio applied to annual
// taxable income up to IncomeCap, subtracted from tax owed.
type SupplementalCredit struct {
	Ratio     decimal.Decimal `yaml:"ratio" json:"ratio"`
	IncomeCap decimal.Decimal `yaml:"income_cap" json:"income_cap"`
}

// FederalParams carries the federal side of one edition.
type FederalParams struct {
	BasicPersonalAmount decimal.Decimal `yaml:"basic_personal_amount" json:"basic_personal_amount"`
	BPAPhaseOut         *BPAPhaseOut    `yaml:"bpa_phase_out,omitempty" json:"bpa_phase_out,omitempty"`
	EmploymentCredit    decimal.Decimal `yaml:"employment_credit" json:"employment_credit"`
	Brackets            []Bracket       `yaml:"brackets" json:"brackets"`
}

// LowestRate is the rate of the first federal bracket, used for every
// federal credit factor (K1, K2, K4).
func (f *FederalParams) LowestRate() decimal.Decimal {
	return f.Brackets[0].Rate
}

// JurisdictionParams carries one province/territory's rate table and any
// special-rule constants that apply to it. Pointers are nil for
// jurisdictions the rule does not apply to.
type JurisdictionParams struct {
	BasicPersonalAmount decimal.Decimal     `yaml:"basic_personal_amount" json:"basic_personal_amount"`
	Brackets            []Bracket           `yaml:"brackets" json:"brackets"`
	BPAPhaseOut         *BPAPhaseOut        `yaml:"bpa_phase_out,omitempty" json:"bpa_phase_out,omitempty"`
	BPASupplement       *BPASupplement      `yaml:"bpa_supplement,omitempty" json:"bpa_supplement,omitempty"`
	Surtax              []SurtaxTier        `yaml:"surtax,omitempty" json:"surtax,omitempty"`
	HealthPremium       []HealthPremiumBand `yaml:"health_premium,omitempty" json:"health_premium,omitempty"`
	TaxReduction        *TaxReduction       `yaml:"tax_reduction,omitempty" json:"tax_reduction,omitempty"`
	SupplementalCredit  *SupplementalCredit `yaml:"supplemental_credit,omitempty" json:"supplemental_credit,omitempty"`
}

// LowestRate is the rate of the jurisdiction's first bracket.
func (j *JurisdictionParams) LowestRate() decimal.Decimal {
	return j.Brackets[0].Rate
}

// CPPParams carries the CPP rates and ceilings for one edition.
type CPPParams struct {
	YMPE           decimal.Decimal `yaml:"ympe" json:"ympe"`
	YAMPE          decimal.Decimal `yaml:"yampe" json:"yampe"`
	BasicExemption decimal.Decimal `yaml:"basic_exemption" json:"basic_exemption"`
	BaseRate       decimal.Decimal `yaml:"base_rate" json:"base_rate"`
	AdditionalRate decimal.Decimal `yaml:"additional_rate" json:"additional_rate"`
}

// MaxBaseContribution is the annual employee maximum for base CPP.
func (c *CPPParams) MaxBaseContribution() decimal.Decimal {
	return c.YMPE.Sub(c.BasicExemption).Mul(c.BaseRate).Round(2)
}

// MaxAdditionalContribution is the annual employee maximum for CPP2.
func (c *CPPParams) MaxAdditionalContribution() decimal.Decimal {
	return c.YAMPE.Sub(c.YMPE).Mul(c.AdditionalRate).Round(2)
}

// EIParams carries the EI rate and ceiling for one edition.
type EIParams struct {
	MaxInsurableEarnings decimal.Decimal `yaml:"max_insurable_earnings" json:"max_insurable_earnings"`
	EmployeeRate         decimal.Decimal `yaml:"employee_rate" json:"employee_rate"`
	EmployerMultiplier   decimal.Decimal `yaml:"employer_multiplier" json:"employer_multiplier"`
}

// MaxAnnualPremium is the annual employee maximum EI premium.
func (e *EIParams) MaxAnnualPremium() decimal.Decimal {
	return e.MaxInsurableEarnings.Mul(e.EmployeeRate).Round(2)
}

// Edition is one T4127 publication: a complete, internally consistent set of
// parameters effective for pay dates on or after EffectiveDate.
type Edition struct {
	Name          string                                     `yaml:"edition" json:"edition"`
	EffectiveDate time.Time                                  `yaml:"effective_date" json:"effective_date"`
	Federal       FederalParams                              `yaml:"federal" json:"federal"`
	CPP           CPPParams                                  `yaml:"cpp" json:"cpp"`
	EI            EIParams                                   `yaml:"ei" json:"ei"`
	Jurisdictions map[domain.Jurisdiction]JurisdictionParams `yaml:"jurisdictions" json:"jurisdictions"`
}

// Jurisdiction returns the parameter block for j, or an InvalidInputError if
// the jurisdiction is not one the edition carries.
func (e *Edition) Jurisdiction(j domain.Jurisdiction) (JurisdictionParams, error) {
	p, ok := e.Jurisdictions[j]
	if !ok {
		return JurisdictionParams{}, domain.NewInvalidInputError("jurisdiction", "unsupported province code: "+string(j))
	}
	return p, nil
}

// TaxYearParameters is the immutable snapshot for one calendar year,
// holding every edition published for it in ascending effective-date order.
type TaxYearParameters struct {
	Year     int       `yaml:"year" json:"year"`
	Editions []Edition `yaml:"editions" json:"editions"`
}

// ResolveEdition picks the edition in effect on payDate: the latest edition
// whose effective date is on or before it. A pay date outside the loaded
// year, or before the first edition, has no parameters.
func (p *TaxYearParameters) ResolveEdition(payDate time.Time) (*Edition, error) {
	if payDate.Year() != p.Year {
		return nil, domain.NewMissingParametersError(p.Year, payDate)
	}
	var resolved *Edition
	for i := range p.Editions {
		ed := &p.Editions[i]
		if !ed.EffectiveDate.After(payDate) {
			resolved = ed
		}
	}
	if resolved == nil {
		return nil, domain.NewMissingParametersError(p.Year, payDate)
	}
	return resolved, nil
}

// SelectBracket returns the row whose threshold is the highest one not
// exceeding income, with its index. Brackets start at zero so income >= 0
// always lands somewhere.
func SelectBracket(brackets []Bracket, income decimal.Decimal) (Bracket, int) {
	idx := 0
	for i, b := range brackets {
		if b.Threshold.GreaterThan(income) {
			break
		}
		idx = i
	}
	return brackets[idx], idx
}

// deriveConstants fills in the cumulative-tax constant of each bracket from
// the thresholds and rates: K(0) = 0 and
// K(i) = K(i-1) + threshold(i) * (rate(i) - rate(i-1)).
func deriveConstants(brackets []Bracket) {
	for i := range brackets {
		if i == 0 {
			brackets[i].Constant = decimal.Zero
			continue
		}
		step := brackets[i].Threshold.Mul(brackets[i].Rate.Sub(brackets[i-1].Rate))
		brackets[i].Constant = brackets[i-1].Constant.Add(step)
	}
}

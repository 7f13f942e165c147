package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction is a two-letter province/territory of employment code.
type Jurisdiction string

const (
	Alberta              Jurisdiction = "AB"
	BritishColumbia      Jurisdiction = "BC"
	Manitoba             Jurisdiction = "MB"
	NewBrunswick         Jurisdiction = "NB"
	NewfoundlandLabrador Jurisdiction = "NL"
	NovaScotia           Jurisdiction = "NS"
	NorthwestTerritories Jurisdiction = "NT"
	Nunavut              Jurisdiction = "NU"
	Ontario              Jurisdiction = "ON"
	PrinceEdwardIsland   Jurisdiction = "PE"
	Saskatchewan         Jurisdiction = "SK"
	Yukon                Jurisdiction = "YT"
)

// Jurisdictions lists every supported province and territory in code order.
// Quebec runs its own deduction system and is deliberately absent.
func Jurisdictions() []Jurisdiction {
	return []Jurisdiction{
		Alberta, BritishColumbia, Manitoba, NewBrunswick,
		NewfoundlandLabrador, NovaScotia, NorthwestTerritories, Nunavut,
		Ontario, PrinceEdwardIsland, Saskatchewan, Yukon,
	}
}

// Valid reports whether j is one of the supported jurisdictions.
func (j Jurisdiction) Valid() bool {
	for _, known := range Jurisdictions() {
		if j == known {
			return true
		}
	}
	return false
}

// PayFrequency identifies how often an employee is paid. Each frequency
// implies a fixed periods-per-year divisor used for annualization.
type PayFrequency string

const (
	Weekly      PayFrequency = "weekly"
	BiWeekly    PayFrequency = "biweekly"
	SemiMonthly PayFrequency = "semimonthly"
	Monthly     PayFrequency = "monthly"
)

var periodsPerYear = map[PayFrequency]int64{
	Weekly:      52,
	BiWeekly:    26,
	SemiMonthly: 24,
	Monthly:     12,
}

// PeriodsPerYear returns the annualization divisor for the frequency,
// or an InvalidInputError for an unsupported value.
func (f PayFrequency) PeriodsPerYear() (decimal.Decimal, error) {
	p, ok := periodsPerYear[f]
	if !ok {
		return decimal.Zero, NewInvalidInputError("pay_frequency", "unsupported pay frequency: "+string(f))
	}
	return decimal.NewFromInt(p), nil
}

// Valid reports whether f is one of the four supported frequencies.
func (f PayFrequency) Valid() bool {
	_, ok := periodsPerYear[f]
	return ok
}

// PayPeriodInput describes one employee's pay for a single period.
type PayPeriodInput struct {
	EmployeeID   string       `yaml:"employee_id" json:"employee_id"`
	Jurisdiction Jurisdiction `yaml:"jurisdiction" json:"jurisdiction"`
	Frequency    PayFrequency `yaml:"pay_frequency" json:"pay_frequency"`
	PayDate      time.Time    `yaml:"pay_date" json:"pay_date"`

	RegularPay      decimal.Decimal `yaml:"regular_pay" json:"regular_pay"`
	OvertimePay     decimal.Decimal `yaml:"overtime_pay" json:"overtime_pay"`
	BonusPay        decimal.Decimal `yaml:"bonus_pay" json:"bonus_pay"`
	TaxableBenefits decimal.Decimal `yaml:"taxable_benefits" json:"taxable_benefits"`

	RRSPContribution  decimal.Decimal `yaml:"rrsp_contribution" json:"rrsp_contribution"`
	UnionDues         decimal.Decimal `yaml:"union_dues" json:"union_dues"`
	OtherPretax       decimal.Decimal `yaml:"other_pretax" json:"other_pretax"`
	PostTaxDeductions decimal.Decimal `yaml:"post_tax_deductions" json:"post_tax_deductions"`

	FederalClaim    decimal.Decimal `yaml:"federal_claim" json:"federal_claim"`
	ProvincialClaim decimal.Decimal `yaml:"provincial_claim" json:"provincial_claim"`

	CPPExempt  bool `yaml:"cpp_exempt" json:"cpp_exempt"`
	CPP2Exempt bool `yaml:"cpp2_exempt" json:"cpp2_exempt"`
	EIExempt   bool `yaml:"ei_exempt" json:"ei_exempt"`
}

// GrossPay is the sum of the cash earnings components for the period.
// Taxable benefits are not cash and are excluded here; they enter the
// pensionable and taxable bases separately.
func (in *PayPeriodInput) GrossPay() decimal.Decimal {
	return in.RegularPay.Add(in.OvertimePay).Add(in.BonusPay)
}

// Validate checks the input against the engine's preconditions. Monetary
// fields must be non-negative; jurisdiction and frequency must be supported.
func (in *PayPeriodInput) Validate() error {
	if !in.Jurisdiction.Valid() {
		return NewInvalidInputError("jurisdiction", "unsupported province code: "+string(in.Jurisdiction))
	}
	if !in.Frequency.Valid() {
		return NewInvalidInputError("pay_frequency", "unsupported pay frequency: "+string(in.Frequency))
	}
	if in.PayDate.IsZero() {
		return NewInvalidInputError("pay_date", "pay date is required")
	}
	monetary := []struct {
		name  string
		value decimal.Decimal
	}{
		{"regular_pay", in.RegularPay},
		{"overtime_pay", in.OvertimePay},
		{"bonus_pay", in.BonusPay},
		{"taxable_benefits", in.TaxableBenefits},
		{"rrsp_contribution", in.RRSPContribution},
		{"union_dues", in.UnionDues},
		{"other_pretax", in.OtherPretax},
		{"post_tax_deductions", in.PostTaxDeductions},
		{"federal_claim", in.FederalClaim},
		{"provincial_claim", in.ProvincialClaim},
	}
	for _, m := range monetary {
		if m.value.LessThan(decimal.Zero) {
			return NewInvalidInputError(m.name, m.name+" cannot be negative")
		}
	}
	return nil
}

// YtdState carries an employee's cumulative year-to-date totals. One
// instance exists per employee per calendar year; the caller persists it
// between periods. Ceiling-bound fields (CPP, CPP2, EI) never exceed the
// annual maximums because the calculators clamp each period's contribution
// to the remaining room.
type YtdState struct {
	Gross               decimal.Decimal `yaml:"gross" json:"gross"`
	PensionableEarnings decimal.Decimal `yaml:"pensionable_earnings" json:"pensionable_earnings"`
	InsurableEarnings   decimal.Decimal `yaml:"insurable_earnings" json:"insurable_earnings"`
	CPP                 decimal.Decimal `yaml:"cpp" json:"cpp"`
	CPP2                decimal.Decimal `yaml:"cpp2" json:"cpp2"`
	EI                  decimal.Decimal `yaml:"ei" json:"ei"`
	FederalTax          decimal.Decimal `yaml:"federal_tax" json:"federal_tax"`
	ProvincialTax       decimal.Decimal `yaml:"provincial_tax" json:"provincial_tax"`
	NetPay              decimal.Decimal `yaml:"net_pay" json:"net_pay"`
}

// Validate checks that no cumulative total is negative.
func (y *YtdState) Validate() error {
	monetary := []struct {
		name  string
		value decimal.Decimal
	}{
		{"ytd_gross", y.Gross},
		{"ytd_pensionable_earnings", y.PensionableEarnings},
		{"ytd_insurable_earnings", y.InsurableEarnings},
		{"ytd_cpp", y.CPP},
		{"ytd_cpp2", y.CPP2},
		{"ytd_ei", y.EI},
		{"ytd_federal_tax", y.FederalTax},
		{"ytd_provincial_tax", y.ProvincialTax},
		{"ytd_net_pay", y.NetPay},
	}
	for _, m := range monetary {
		if m.value.LessThan(decimal.Zero) {
			return NewInvalidInputError(m.name, m.name+" cannot be negative")
		}
	}
	return nil
}

// ProvincialBreakdown itemizes the components of the provincial tax amount.
type ProvincialBreakdown struct {
	BaseTax       decimal.Decimal `yaml:"base_tax" json:"base_tax"`
	Surtax        decimal.Decimal `yaml:"surtax" json:"surtax"`
	HealthPremium decimal.Decimal `yaml:"health_premium" json:"health_premium"`
	TaxReduction  decimal.Decimal `yaml:"tax_reduction" json:"tax_reduction"`
	K5PCredit     decimal.Decimal `yaml:"k5p_credit" json:"k5p_credit"`
}

// EmployeeRecord pairs one employee's period input with the year-to-date
// state carried forward from the previous period.
type EmployeeRecord struct {
	Input PayPeriodInput `yaml:"input" json:"input"`
	Ytd   YtdState       `yaml:"ytd" json:"ytd"`
}

// PeriodResult is the outcome of one period's calculation. It is computed
// fresh on every call and immutable once returned; UpdatedYtd is the new
// baseline the caller persists for the next period.
type PeriodResult struct {
	EmployeeID string    `yaml:"employee_id" json:"employee_id"`
	PayDate    time.Time `yaml:"pay_date" json:"pay_date"`

	GrossPay            decimal.Decimal `yaml:"gross_pay" json:"gross_pay"`
	PensionableEarnings decimal.Decimal `yaml:"pensionable_earnings" json:"pensionable_earnings"`
	InsurableEarnings   decimal.Decimal `yaml:"insurable_earnings" json:"insurable_earnings"`
	AnnualTaxableIncome decimal.Decimal `yaml:"annual_taxable_income" json:"annual_taxable_income"`

	CPPBase     decimal.Decimal `yaml:"cpp_base" json:"cpp_base"`
	CPP2        decimal.Decimal `yaml:"cpp2" json:"cpp2"`
	EmployerCPP decimal.Decimal `yaml:"employer_cpp" json:"employer_cpp"`
	EI          decimal.Decimal `yaml:"ei" json:"ei"`
	EmployerEI  decimal.Decimal `yaml:"employer_ei" json:"employer_ei"`

	FederalTax    decimal.Decimal     `yaml:"federal_tax" json:"federal_tax"`
	ProvincialTax decimal.Decimal     `yaml:"provincial_tax" json:"provincial_tax"`
	Provincial    ProvincialBreakdown `yaml:"provincial_breakdown" json:"provincial_breakdown"`

	PretaxDeductions  decimal.Decimal `yaml:"pretax_deductions" json:"pretax_deductions"`
	PostTaxDeductions decimal.Decimal `yaml:"post_tax_deductions" json:"post_tax_deductions"`
	TotalDeductions   decimal.Decimal `yaml:"total_deductions" json:"total_deductions"`
	NetPay            decimal.Decimal `yaml:"net_pay" json:"net_pay"`

	UpdatedYtd YtdState `yaml:"updated_ytd" json:"updated_ytd"`
}

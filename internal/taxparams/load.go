package taxparams

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/maplepay/paycan/internal/domain"
)

//go:embed data/params_2025.yaml
var embedded2025 []byte

// Default returns the bundled parameter snapshot for the 2025 tax year.
func Default() (*TaxYearParameters, error) {
	return Parse(embedded2025)
}

// LoadFile loads and validates a parameter snapshot from a YAML file.
func LoadFile(filename string) (*TaxYearParameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	params, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return params, nil
}

// Parse unmarshals a snapshot, validates it, and derives the cumulative
// bracket constants for every rate table.
func Parse(data []byte) (*TaxYearParameters, error) {
	var params TaxYearParameters
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&params); err != nil {
		return nil, fmt.Errorf("tax parameter validation failed: %w", err)
	}
	for i := range params.Editions {
		ed := &params.Editions[i]
		deriveConstants(ed.Federal.Brackets)
		for code, jp := range ed.Jurisdictions {
			deriveConstants(jp.Brackets)
			ed.Jurisdictions[code] = jp
		}
	}
	return &params, nil
}

func validate(params *TaxYearParameters) error {
	if params.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	if len(params.Editions) == 0 {
		return fmt.Errorf("at least one edition is required")
	}
	for i := range params.Editions {
		ed := &params.Editions[i]
		if err := validateEdition(ed, params.Year); err != nil {
			return fmt.Errorf("edition %q: %w", ed.Name, err)
		}
		if i > 0 && !params.Editions[i-1].EffectiveDate.Before(ed.EffectiveDate) {
			return fmt.Errorf("edition %q: effective dates must be strictly ascending", ed.Name)
		}
	}
	return nil
}

func validateEdition(ed *Edition, year int) error {
	if ed.Name == "" {
		return fmt.Errorf("edition name is required")
	}
	if ed.EffectiveDate.IsZero() {
		return fmt.Errorf("effective date is required")
	}
	if ed.EffectiveDate.Year() != year {
		return fmt.Errorf("effective date %s is outside year %d", ed.EffectiveDate.Format("2006-01-02"), year)
	}

	if ed.Federal.BasicPersonalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("federal basic personal amount must be positive")
	}
	if ed.Federal.EmploymentCredit.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("federal employment credit must be positive")
	}
	if err := validateBrackets(ed.Federal.Brackets); err != nil {
		return fmt.Errorf("federal brackets: %w", err)
	}
	if ed.Federal.BPAPhaseOut != nil {
		if err := validatePhaseOut(ed.Federal.BPAPhaseOut); err != nil {
			return fmt.Errorf("federal bpa phase-out: %w", err)
		}
	}

	if err := validateCPP(&ed.CPP); err != nil {
		return fmt.Errorf("cpp: %w", err)
	}
	if err := validateEI(&ed.EI); err != nil {
		return fmt.Errorf("ei: %w", err)
	}

	for _, code := range domain.Jurisdictions() {
		jp, ok := ed.Jurisdictions[code]
		if !ok {
			return fmt.Errorf("jurisdiction %s is missing", code)
		}
		if err := validateJurisdiction(&jp); err != nil {
			return fmt.Errorf("jurisdiction %s: %w", code, err)
		}
	}
	for code := range ed.Jurisdictions {
		if !code.Valid() {
			return fmt.Errorf("unsupported jurisdiction %s in table", code)
		}
	}
	return nil
}

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("at least one bracket is required")
	}
	if !brackets[0].Threshold.IsZero() {
		return fmt.Errorf("first threshold must be 0, got %s", brackets[0].Threshold)
	}
	for i, b := range brackets {
		if b.Rate.LessThanOrEqual(decimal.Zero) || b.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate must be between 0 and 1, got %s", i, b.Rate)
		}
		if i == 0 {
			continue
		}
		if !brackets[i-1].Threshold.LessThan(b.Threshold) {
			return fmt.Errorf("bracket %d: thresholds must be strictly ascending", i)
		}
		if !brackets[i-1].Rate.LessThan(b.Rate) {
			return fmt.Errorf("bracket %d: rates must be strictly ascending", i)
		}
	}
	return nil
}

func validatePhaseOut(po *BPAPhaseOut) error {
	if po.Floor.LessThan(decimal.Zero) {
		return fmt.Errorf("floor cannot be negative")
	}
	if !po.Start.LessThan(po.End) {
		return fmt.Errorf("phase-out start must be below end")
	}
	return nil
}

func validateCPP(c *CPPParams) error {
	if c.YMPE.LessThanOrEqual(c.BasicExemption) {
		return fmt.Errorf("YMPE must exceed the basic exemption")
	}
	if c.YAMPE.LessThanOrEqual(c.YMPE) {
		return fmt.Errorf("YAMPE must exceed YMPE")
	}
	if c.BaseRate.LessThanOrEqual(decimal.Zero) || c.AdditionalRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("contribution rates must be positive")
	}
	return nil
}

func validateEI(e *EIParams) error {
	if e.MaxInsurableEarnings.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("maximum insurable earnings must be positive")
	}
	if e.EmployeeRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("employee rate must be positive")
	}
	if e.EmployerMultiplier.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("employer multiplier must be positive")
	}
	return nil
}

func validateJurisdiction(jp *JurisdictionParams) error {
	if jp.BasicPersonalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("basic personal amount must be positive")
	}
	if err := validateBrackets(jp.Brackets); err != nil {
		return fmt.Errorf("brackets: %w", err)
	}
	if jp.BPAPhaseOut != nil {
		if err := validatePhaseOut(jp.BPAPhaseOut); err != nil {
			return fmt.Errorf("bpa phase-out: %w", err)
		}
	}
	if jp.BPASupplement != nil {
		if jp.BPASupplement.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("bpa supplement amount must be positive")
		}
		if jp.BPASupplement.PhaseOutRate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("bpa supplement phase-out rate must be positive")
		}
	}
	for i, tier := range jp.Surtax {
		if tier.Rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("surtax tier %d: rate must be positive", i)
		}
		if i > 0 && !jp.Surtax[i-1].Threshold.LessThan(tier.Threshold) {
			return fmt.Errorf("surtax tier %d: thresholds must be ascending", i)
		}
	}
	for i, band := range jp.HealthPremium {
		if band.Cap.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("health premium band %d: cap must be positive", i)
		}
		if i > 0 && !jp.HealthPremium[i-1].IncomeOver.LessThan(band.IncomeOver) {
			return fmt.Errorf("health premium band %d: income steps must be ascending", i)
		}
	}
	if jp.TaxReduction != nil {
		if jp.TaxReduction.Maximum.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("tax reduction maximum must be positive")
		}
		if jp.TaxReduction.PhaseOutRate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("tax reduction phase-out rate must be positive")
		}
	}
	if jp.SupplementalCredit != nil {
		if jp.SupplementalCredit.Ratio.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("supplemental credit ratio must be positive")
		}
		if jp.SupplementalCredit.IncomeCap.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("supplemental credit income cap must be positive")
		}
	}
	return nil
}

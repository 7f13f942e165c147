package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplepay/paycan/internal/domain"
)

func ontarioBiweekly() domain.PayPeriodInput {
	return domain.PayPeriodInput{
		EmployeeID:      "E-1001",
		Jurisdiction:    domain.Ontario,
		Frequency:       domain.BiWeekly,
		PayDate:         date(2025, 7, 18),
		RegularPay:      decimal.NewFromFloat(2307.69),
		FederalClaim:    decimal.NewFromInt(16129),
		ProvincialClaim: decimal.NewFromInt(12747),
	}
}

func TestCalculatePayrollOntarioBiweekly(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	in := ontarioBiweekly()
	ytd := ZeroYtd()
	res, err := engine.CalculatePayroll(&in, &ytd)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  decimal.Decimal
		want decimal.Decimal
	}{
		{"gross", res.GrossPay, decimal.NewFromFloat(2307.69)},
		{"cpp base", res.CPPBase, decimal.NewFromFloat(129.30)},
		{"cpp2", res.CPP2, decimal.Zero},
		{"employer cpp", res.EmployerCPP, decimal.NewFromFloat(129.30)},
		{"ei", res.EI, decimal.NewFromFloat(37.85)},
		{"employer ei", res.EmployerEI, decimal.NewFromFloat(52.99)},
		{"federal tax", res.FederalTax, decimal.NewFromFloat(211.47)},
		{"provincial tax", res.ProvincialTax, decimal.NewFromFloat(117.63)},
		{"net pay", res.NetPay, decimal.NewFromFloat(1811.44)},
	}
	for _, c := range checks {
		assert.True(t, c.got.Equal(c.want), "%s: expected %s, got %s", c.name, c.want, c.got)
	}

	assert.True(t, res.UpdatedYtd.Gross.Equal(res.GrossPay))
	assert.True(t, res.UpdatedYtd.CPP.Equal(res.CPPBase))
	assert.True(t, res.UpdatedYtd.EI.Equal(res.EI))
	assert.True(t, res.UpdatedYtd.NetPay.Equal(res.NetPay))
}

func TestCalculatePayrollEditionAffectsFederalTax(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	in := ontarioBiweekly()
	in.PayDate = date(2025, 5, 16)
	ytd := ZeroYtd()
	res, err := engine.CalculatePayroll(&in, &ytd)
	require.NoError(t, err)

	assert.True(t, res.FederalTax.Equal(decimal.NewFromFloat(225.10)),
		"expected 225.10 before the rate change, got %s", res.FederalTax)
}

func TestCalculatePayrollNetPayIdentity(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	in := ontarioBiweekly()
	in.OvertimePay = decimal.NewFromFloat(412.50)
	in.BonusPay = decimal.NewFromInt(500)
	in.TaxableBenefits = decimal.NewFromInt(75)
	in.RRSPContribution = decimal.NewFromInt(200)
	in.UnionDues = decimal.NewFromFloat(23.40)
	in.PostTaxDeductions = decimal.NewFromInt(50)

	ytd := ZeroYtd()
	res, err := engine.CalculatePayroll(&in, &ytd)
	require.NoError(t, err)

	sum := res.CPPBase.Add(res.CPP2).
		Add(res.EI).
		Add(res.FederalTax).
		Add(res.ProvincialTax).
		Add(res.PretaxDeductions).
		Add(res.PostTaxDeductions)
	assert.True(t, res.TotalDeductions.Equal(sum),
		"deductions %s should equal component sum %s", res.TotalDeductions, sum)
	assert.True(t, res.NetPay.Equal(res.GrossPay.Sub(res.TotalDeductions)),
		"net %s should equal gross minus deductions", res.NetPay)

	// Benefits enter the pensionable base but not cash gross.
	assert.True(t, res.GrossPay.Equal(decimal.NewFromFloat(3220.19)))
	assert.True(t, res.PensionableEarnings.Equal(decimal.NewFromFloat(3295.19)))
	assert.True(t, res.InsurableEarnings.Equal(res.GrossPay))
}

func TestCalculatePayrollZeroGross(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	in := ontarioBiweekly()
	in.RegularPay = decimal.Zero
	ytd := ZeroYtd()
	res, err := engine.CalculatePayroll(&in, &ytd)
	require.NoError(t, err)

	assert.True(t, res.CPPBase.IsZero())
	assert.True(t, res.EI.IsZero())
	assert.True(t, res.FederalTax.IsZero())
	assert.True(t, res.ProvincialTax.IsZero())
	assert.True(t, res.NetPay.IsZero())
}

func TestCalculatePayrollExemptions(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	in := ontarioBiweekly()
	in.CPPExempt = true
	in.EIExempt = true
	ytd := ZeroYtd()
	res, err := engine.CalculatePayroll(&in, &ytd)
	require.NoError(t, err)

	assert.True(t, res.CPPBase.IsZero())
	assert.True(t, res.CPP2.IsZero())
	assert.True(t, res.EmployerCPP.IsZero())
	assert.True(t, res.EI.IsZero())
	assert.True(t, res.EmployerEI.IsZero())
	// With no contribution credit the tax is higher than the contributing case.
	assert.True(t, res.FederalTax.GreaterThan(decimal.NewFromFloat(211.47)))
}

func TestCalculatePayrollYtdCeilings(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	in := ontarioBiweekly()
	in.RegularPay = decimal.NewFromInt(4000) // 104,000 annually, past both CPP ceilings
	ytd := ZeroYtd()

	prev := ZeroYtd()
	for period := 0; period < 26; period++ {
		res, err := engine.CalculatePayroll(&in, &ytd)
		require.NoError(t, err, "period %d", period)
		ytd = res.UpdatedYtd

		assert.True(t, ytd.CPP.GreaterThanOrEqual(prev.CPP), "period %d: ytd cpp decreased", period)
		assert.True(t, ytd.EI.GreaterThanOrEqual(prev.EI), "period %d: ytd ei decreased", period)
		prev = ytd
	}

	assert.True(t, ytd.CPP.Equal(decimal.NewFromFloat(4034.10)),
		"expected ytd cpp exactly at the ceiling, got %s", ytd.CPP)
	assert.True(t, ytd.CPP2.Equal(decimal.NewFromFloat(396.00)),
		"expected ytd cpp2 exactly at the ceiling, got %s", ytd.CPP2)
	assert.True(t, ytd.EI.Equal(decimal.NewFromFloat(1077.48)),
		"expected ytd ei exactly at the ceiling, got %s", ytd.EI)
}

func TestCalculatePayrollRejectsBadInput(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	t.Run("negative earnings", func(t *testing.T) {
		in := ontarioBiweekly()
		in.RegularPay = decimal.NewFromInt(-100)
		ytd := ZeroYtd()
		_, err := engine.CalculatePayroll(&in, &ytd)
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "regular_pay", invalid.Field)
	})

	t.Run("unsupported jurisdiction", func(t *testing.T) {
		in := ontarioBiweekly()
		in.Jurisdiction = "QC"
		ytd := ZeroYtd()
		_, err := engine.CalculatePayroll(&in, &ytd)
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("negative ytd", func(t *testing.T) {
		in := ontarioBiweekly()
		ytd := ZeroYtd()
		ytd.CPP = decimal.NewFromInt(-1)
		_, err := engine.CalculatePayroll(&in, &ytd)
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("no parameters for the pay year", func(t *testing.T) {
		in := ontarioBiweekly()
		in.PayDate = date(2024, 7, 18)
		ytd := ZeroYtd()
		_, err := engine.CalculatePayroll(&in, &ytd)
		var missing *domain.MissingParametersError
		require.ErrorAs(t, err, &missing)
	})
}

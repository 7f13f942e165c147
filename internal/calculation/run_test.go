package calculation

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplepay/paycan/internal/domain"
)

func TestCalculateRunPreservesOrder(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	var records []domain.EmployeeRecord
	for i := 0; i < 40; i++ {
		in := ontarioBiweekly()
		in.EmployeeID = fmt.Sprintf("E-%04d", i)
		in.RegularPay = decimal.NewFromInt(int64(2000 + i*10))
		records = append(records, domain.EmployeeRecord{Input: in, Ytd: ZeroYtd()})
	}

	outcomes := engine.CalculateRun(records)
	require.Len(t, outcomes, len(records))
	for i, o := range outcomes {
		assert.Equal(t, records[i].Input.EmployeeID, o.EmployeeID, "outcome %d out of order", i)
		require.NoError(t, o.Err, "employee %s", o.EmployeeID)
		assert.True(t, o.Result.GrossPay.Equal(records[i].Input.RegularPay))
	}
}

func TestCalculateRunPartialFailure(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	good := ontarioBiweekly()
	good.EmployeeID = "E-OK"
	bad := ontarioBiweekly()
	bad.EmployeeID = "E-BAD"
	bad.Jurisdiction = "QC"

	outcomes := engine.CalculateRun([]domain.EmployeeRecord{
		{Input: good, Ytd: ZeroYtd()},
		{Input: bad, Ytd: ZeroYtd()},
	})
	require.Len(t, outcomes, 2)

	require.NoError(t, outcomes[0].Err)
	assert.NotNil(t, outcomes[0].Result)
	require.Error(t, outcomes[1].Err)
	assert.Nil(t, outcomes[1].Result)

	totals := Totals(outcomes)
	assert.Equal(t, 1, totals.Employees)
	assert.Equal(t, 1, totals.Failed)
}

func TestTotals(t *testing.T) {
	engine := NewPayrollEngine(params2025(t))

	first := ontarioBiweekly()
	first.EmployeeID = "E-1"
	second := ontarioBiweekly()
	second.EmployeeID = "E-2"
	second.RegularPay = decimal.NewFromInt(3000)

	outcomes := engine.CalculateRun([]domain.EmployeeRecord{
		{Input: first, Ytd: ZeroYtd()},
		{Input: second, Ytd: ZeroYtd()},
	})
	for _, o := range outcomes {
		require.NoError(t, o.Err)
	}

	totals := Totals(outcomes)
	assert.Equal(t, 2, totals.Employees)
	assert.Equal(t, 0, totals.Failed)

	a, b := outcomes[0].Result, outcomes[1].Result
	assert.True(t, totals.GrossPay.Equal(a.GrossPay.Add(b.GrossPay)))
	assert.True(t, totals.EmployeeCPP.Equal(a.CPPBase.Add(a.CPP2).Add(b.CPPBase).Add(b.CPP2)))
	assert.True(t, totals.EmployerEI.Equal(a.EmployerEI.Add(b.EmployerEI)))
	assert.True(t, totals.NetPay.Equal(a.NetPay.Add(b.NetPay)))

	wantRemit := totals.EmployeeCPP.Add(totals.EmployerCPP).
		Add(totals.EmployeeEI).Add(totals.EmployerEI).
		Add(totals.FederalTax).Add(totals.ProvincialTax)
	assert.True(t, totals.TotalRemittance.Equal(wantRemit),
		"remittance %s should equal %s", totals.TotalRemittance, wantRemit)
}

func TestTotalsEmptyRun(t *testing.T) {
	totals := Totals(nil)
	assert.Equal(t, 0, totals.Employees)
	assert.True(t, totals.GrossPay.IsZero())
	assert.True(t, totals.TotalRemittance.IsZero())
}

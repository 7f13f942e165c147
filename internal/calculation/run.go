package calculation

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/domain"
)

// EmployeeOutcome is one employee's result in a pay run. Exactly one of
// Result and Err is set; one employee's rejected input does not abort the
// others.
type EmployeeOutcome struct {
	EmployeeID string
	Result     *domain.PeriodResult
	Err        error
}

// RunTotals aggregates the employer's remittance position across a run.
// Employer-side amounts never affect any employee's net pay.
type RunTotals struct {
	Employees       int             `json:"employees"`
	Failed          int             `json:"failed"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	EmployeeCPP     decimal.Decimal `json:"employee_cpp"`
	EmployerCPP     decimal.Decimal `json:"employer_cpp"`
	EmployeeEI      decimal.Decimal `json:"employee_ei"`
	EmployerEI      decimal.Decimal `json:"employer_ei"`
	FederalTax      decimal.Decimal `json:"federal_tax"`
	ProvincialTax   decimal.Decimal `json:"provincial_tax"`
	NetPay          decimal.Decimal `json:"net_pay"`
	TotalRemittance decimal.Decimal `json:"total_remittance"`
}

// CalculateRun computes every employee's period concurrently. Calculations
// share only the immutable parameter snapshot, so they fan out without any
// locking; outcomes preserve the input order.
func (e *PayrollEngine) CalculateRun(records []domain.EmployeeRecord) []EmployeeOutcome {
	outcomes := make([]EmployeeOutcome, len(records))

	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rec := &records[idx]
			result, err := e.CalculatePayroll(&rec.Input, &rec.Ytd)
			outcomes[idx] = EmployeeOutcome{
				EmployeeID: rec.Input.EmployeeID,
				Result:     result,
				Err:        err,
			}
		}(i)
	}
	wg.Wait()

	return outcomes
}

// Totals sums the successful outcomes of a run. The remittance total is the
// amount owed to the CRA: both CPP shares, both EI shares, and the income
// tax withheld.
func Totals(outcomes []EmployeeOutcome) RunTotals {
	t := RunTotals{
		GrossPay:        decimal.Zero,
		EmployeeCPP:     decimal.Zero,
		EmployerCPP:     decimal.Zero,
		EmployeeEI:      decimal.Zero,
		EmployerEI:      decimal.Zero,
		FederalTax:      decimal.Zero,
		ProvincialTax:   decimal.Zero,
		NetPay:          decimal.Zero,
		TotalRemittance: decimal.Zero,
	}
	for _, o := range outcomes {
		if o.Err != nil {
			t.Failed++
			continue
		}
		r := o.Result
		t.Employees++
		t.GrossPay = t.GrossPay.Add(r.GrossPay)
		t.EmployeeCPP = t.EmployeeCPP.Add(r.CPPBase).Add(r.CPP2)
		t.EmployerCPP = t.EmployerCPP.Add(r.EmployerCPP)
		t.EmployeeEI = t.EmployeeEI.Add(r.EI)
		t.EmployerEI = t.EmployerEI.Add(r.EmployerEI)
		t.FederalTax = t.FederalTax.Add(r.FederalTax)
		t.ProvincialTax = t.ProvincialTax.Add(r.ProvincialTax)
		t.NetPay = t.NetPay.Add(r.NetPay)
	}
	t.TotalRemittance = t.EmployeeCPP.Add(t.EmployerCPP).
		Add(t.EmployeeEI).Add(t.EmployerEI).
		Add(t.FederalTax).Add(t.ProvincialTax)
	return t
}

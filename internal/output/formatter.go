// Package output renders pay-run results for the CLI.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycan/internal/calculation"
)

// Formatter renders a run's outcomes and totals to bytes.
type Formatter interface {
	Format(outcomes []calculation.EmployeeOutcome, totals calculation.RunTotals) ([]byte, error)
}

// GetFormatterByName returns the formatter for a --format value, or nil for
// an unknown name.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "console":
		return &ConsoleFormatter{}
	case "json":
		return &JSONFormatter{}
	default:
		return nil
	}
}

// FormatCurrency formats a decimal as currency.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// ConsoleFormatter renders an aligned per-employee table with a remittance
// footer.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Format(outcomes []calculation.EmployeeOutcome, totals calculation.RunTotals) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "EMPLOYEE\tGROSS\tCPP\tCPP2\tEI\tFED TAX\tPROV TAX\tNET PAY")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\tERROR: %v\t\t\t\t\t\t\n", o.EmployeeID, o.Err)
			continue
		}
		r := o.Result
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.EmployeeID,
			FormatCurrency(r.GrossPay),
			FormatCurrency(r.CPPBase),
			FormatCurrency(r.CPP2),
			FormatCurrency(r.EI),
			FormatCurrency(r.FederalTax),
			FormatCurrency(r.ProvincialTax),
			FormatCurrency(r.NetPay),
		)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "Employees calculated: %d", totals.Employees)
	if totals.Failed > 0 {
		fmt.Fprintf(&buf, " (%d failed)", totals.Failed)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "Total gross pay:      %s\n", FormatCurrency(totals.GrossPay))
	fmt.Fprintf(&buf, "Total net pay:        %s\n", FormatCurrency(totals.NetPay))
	fmt.Fprintf(&buf, "Employer CPP:         %s\n", FormatCurrency(totals.EmployerCPP))
	fmt.Fprintf(&buf, "Employer EI:          %s\n", FormatCurrency(totals.EmployerEI))
	fmt.Fprintf(&buf, "CRA remittance:       %s\n", FormatCurrency(totals.TotalRemittance))
	return buf.Bytes(), nil
}

// JSONFormatter renders the run as an indented JSON document.
type JSONFormatter struct{}

type jsonOutcome struct {
	EmployeeID string      `json:"employee_id"`
	Error      string      `json:"error,omitempty"`
	Result     interface{} `json:"result,omitempty"`
}

type jsonRun struct {
	Results []jsonOutcome         `json:"results"`
	Totals  calculation.RunTotals `json:"totals"`
}

func (f *JSONFormatter) Format(outcomes []calculation.EmployeeOutcome, totals calculation.RunTotals) ([]byte, error) {
	doc := jsonRun{Results: make([]jsonOutcome, 0, len(outcomes)), Totals: totals}
	for _, o := range outcomes {
		jo := jsonOutcome{EmployeeID: o.EmployeeID}
		if o.Err != nil {
			jo.Error = o.Err.Error()
		} else {
			jo.Result = o.Result
		}
		doc.Results = append(doc.Results, jo)
	}
	return json.MarshalIndent(doc, "", "  ")
}

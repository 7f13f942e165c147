package output

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplepay/paycan/internal/calculation"
	"github.com/maplepay/paycan/internal/domain"
)

func sampleOutcomes() ([]calculation.EmployeeOutcome, calculation.RunTotals) {
	ok := calculation.EmployeeOutcome{
		EmployeeID: "E-1001",
		Result: &domain.PeriodResult{
			EmployeeID:    "E-1001",
			GrossPay:      decimal.NewFromFloat(2307.69),
			CPPBase:       decimal.NewFromFloat(129.30),
			EI:            decimal.NewFromFloat(37.85),
			FederalTax:    decimal.NewFromFloat(211.47),
			ProvincialTax: decimal.NewFromFloat(117.63),
			NetPay:        decimal.NewFromFloat(1811.44),
		},
	}
	failed := calculation.EmployeeOutcome{
		EmployeeID: "E-1002",
		Err:        errors.New("unsupported province code: QC"),
	}
	totals := calculation.Totals([]calculation.EmployeeOutcome{ok, failed})
	return []calculation.EmployeeOutcome{ok, failed}, totals
}

func TestGetFormatterByName(t *testing.T) {
	assert.IsType(t, &ConsoleFormatter{}, GetFormatterByName("console"))
	assert.IsType(t, &JSONFormatter{}, GetFormatterByName("json"))
	assert.Nil(t, GetFormatterByName("csv"))
	assert.Nil(t, GetFormatterByName(""))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1811.44", FormatCurrency(decimal.NewFromFloat(1811.44)))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$2307.69", FormatCurrency(decimal.NewFromFloat(2307.69)))
}

func TestConsoleFormatter(t *testing.T) {
	outcomes, totals := sampleOutcomes()
	out, err := (&ConsoleFormatter{}).Format(outcomes, totals)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "E-1001")
	assert.Contains(t, text, "$1811.44")
	assert.Contains(t, text, "ERROR: unsupported province code: QC")
	assert.Contains(t, text, "Employees calculated: 1 (1 failed)")
	assert.Contains(t, text, "CRA remittance:")
}

func TestJSONFormatter(t *testing.T) {
	outcomes, totals := sampleOutcomes()
	out, err := (&JSONFormatter{}).Format(outcomes, totals)
	require.NoError(t, err)

	var doc struct {
		Results []struct {
			EmployeeID string          `json:"employee_id"`
			Error      string          `json:"error"`
			Result     json.RawMessage `json:"result"`
		} `json:"results"`
		Totals struct {
			Employees int    `json:"employees"`
			Failed    int    `json:"failed"`
			NetPay    string `json:"net_pay"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	require.Len(t, doc.Results, 2)
	assert.Equal(t, "E-1001", doc.Results[0].EmployeeID)
	assert.NotEmpty(t, doc.Results[0].Result)
	assert.Empty(t, doc.Results[0].Error)
	assert.Equal(t, "unsupported province code: QC", doc.Results[1].Error)
	assert.Empty(t, doc.Results[1].Result)

	assert.Equal(t, 1, doc.Totals.Employees)
	assert.Equal(t, 1, doc.Totals.Failed)
	assert.Equal(t, "1811.44", doc.Totals.NetPay)
}

// Package config parses and validates pay-run input files: the company
// block, the employees' period inputs, and their carried-forward
// year-to-date states.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maplepay/paycan/internal/domain"
)

// Company identifies the employer on a pay run.
type Company struct {
	Name       string `yaml:"name" json:"name"`
	CRAAccount string `yaml:"cra_account" json:"cra_account"`
}

// EmployeeEntry is one employee's slice of a pay-run file: the period input
// inline plus their year-to-date snapshot.
type EmployeeEntry struct {
	domain.PayPeriodInput `yaml:",inline"`
	Ytd                   domain.YtdState `yaml:"ytd"`
}

// PayRun is a parsed pay-run input file. A run-level pay date applies to
// every employee that does not set its own.
type PayRun struct {
	Company   Company         `yaml:"company"`
	PayDate   time.Time       `yaml:"pay_date"`
	Employees []EmployeeEntry `yaml:"employees"`
}

// Records converts the run into the engine's per-employee records.
func (pr *PayRun) Records() []domain.EmployeeRecord {
	records := make([]domain.EmployeeRecord, len(pr.Employees))
	for i, e := range pr.Employees {
		records[i] = domain.EmployeeRecord{Input: e.PayPeriodInput, Ytd: e.Ytd}
	}
	return records
}

// InputParser handles parsing of pay-run input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a pay run from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*PayRun, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var run PayRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePayRun(&run); err != nil {
		return nil, fmt.Errorf("pay run validation failed: %w", err)
	}

	return &run, nil
}

// ValidatePayRun validates the loaded run and fills in the run-level pay
// date on employees that omit their own.
func (ip *InputParser) ValidatePayRun(run *PayRun) error {
	if run.Company.Name == "" {
		return fmt.Errorf("company name is required")
	}
	if len(run.Employees) == 0 {
		return fmt.Errorf("no employees provided")
	}

	seen := make(map[string]bool, len(run.Employees))
	for i := range run.Employees {
		emp := &run.Employees[i]
		if emp.PayDate.IsZero() {
			emp.PayDate = run.PayDate
		}
		if err := ip.validateEmployee(emp); err != nil {
			return fmt.Errorf("employee %d (%s) validation failed: %w", i, emp.EmployeeID, err)
		}
		if seen[emp.EmployeeID] {
			return fmt.Errorf("duplicate employee id: %s", emp.EmployeeID)
		}
		seen[emp.EmployeeID] = true
	}
	return nil
}

// validateEmployee validates a single employee entry.
func (ip *InputParser) validateEmployee(emp *EmployeeEntry) error {
	if emp.EmployeeID == "" {
		return fmt.Errorf("employee id is required")
	}
	if err := emp.PayPeriodInput.Validate(); err != nil {
		return err
	}
	if err := emp.Ytd.Validate(); err != nil {
		return err
	}
	return nil
}

package domain

import (
	"fmt"
	"time"
)

// InvalidInputError rejects a calculation before any amounts are computed:
// a negative monetary field, an unsupported jurisdiction or frequency, or a
// missing pay date. It is never retried and no partial result accompanies it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func NewInvalidInputError(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

// MissingParametersError indicates the supplied tax-parameter snapshot has no
// edition covering the requested pay date. The engine never falls back to a
// different year's rates.
type MissingParametersError struct {
	Year    int
	PayDate time.Time
}

func NewMissingParametersError(year int, payDate time.Time) *MissingParametersError {
	return &MissingParametersError{Year: year, PayDate: payDate}
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("no tax parameters for pay date %s (loaded year %d)",
		e.PayDate.Format("2006-01-02"), e.Year)
}

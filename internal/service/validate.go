package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrValidation}, args...)...)
}

// normalizeCurrency upper-cases a currency code and checks it is three letters.
func normalizeCurrency(field, code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", invalid("%s must be a 3-letter currency code", field)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", invalid("%s must be a 3-letter currency code", field)
		}
	}
	return c, nil
}

func checkTimeZone(tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return invalid("time_zone %q is not a known IANA zone", tz)
	}
	return nil
}

// checkOrder fails when both ends are set and end is before start.
func checkOrder(startField string, start *time.Time, endField string, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid("%s must not be before %s", endField, startField)
	}
	return nil
}

func checkAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid("%s must not be negative", field)
	}
	return nil
}

// dateOnly truncates t to its calendar date at UTC midnight.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

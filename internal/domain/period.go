package domain

import (
	"strings"
	"time"
)

type Period string

const (
	Period1M  Period = "1M"
	Period3M  Period = "3M"
	Period6M  Period = "6M"
	PeriodYTD Period = "YTD"
	Period1Y  Period = "1Y"
	Period3Y  Period = "3Y"

	DefaultPeriod = Period3M
)

var periodAliases = map[string]Period{
	"1M":  Period1M,
	"1MO": Period1M,
	"3M":  Period3M,
	"3MO": Period3M,
	"6M":  Period6M,
	"6MO": Period6M,
	"YTD": PeriodYTD,
	"1Y":  Period1Y,
	"3Y":  Period3Y,
}

// ParsePeriod accepts the canonical tokens case-insensitively plus the
// legacy "1mo"-style spellings. Empty input selects DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultPeriod, nil
	}
	p, ok := periodAliases[s]
	if !ok {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

// Since is the first calendar day covered by p when observed at now.
func (p Period) Since(now time.Time) time.Time {
	today := Day(now)
	switch p {
	case Period1M:
		return today.AddDate(0, -1, 0)
	case Period6M:
		return today.AddDate(0, -6, 0)
	case PeriodYTD:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case Period1Y:
		return today.AddDate(-1, 0, 0)
	case Period3Y:
		return today.AddDate(-3, 0, 0)
	default:
		return today.AddDate(0, -3, 0)
	}
}

// Points is the number of daily points a synthetic series for p carries.
func (p Period) Points(now time.Time) int {
	switch p {
	case Period1M:
		return 30
	case Period6M:
		return 180
	case PeriodYTD:
		today := Day(now)
		n := int(today.Sub(p.Since(now)).Hours()/24) + 1
		if n < 1 {
			n = 1
		}
		return n
	case Period1Y:
		return 365
	case Period3Y:
		return 1095
	default:
		return 90
	}
}

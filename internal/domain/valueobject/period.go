// Package valueobject defines immutable domain value types.
package valueobject

import (
	"fmt"
	"time"

	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// PeriodKind represents the granularity of a period descriptor.
type PeriodKind string

const (
	PeriodKindMonth   PeriodKind = "month"
	PeriodKindQuarter PeriodKind = "quarter"
	PeriodKindYear    PeriodKind = "year"
)

// Period identifies one summary window, e.g. "2024-01", "2024-Q1" or "2024".
type Period struct {
	Kind PeriodKind
	Year int

	// Month is set for month periods, Quarter (1-4) for quarter periods.
	Month   time.Month
	Quarter int
}

// ParsePeriod parses a period descriptor string.
// Accepted forms: "2006-01" (month), "2006-Q1" (quarter), "2006" (year).
func ParsePeriod(s string) (Period, error) {
	var year, month, quarter int

	switch {
	case len(s) == 7 && s[4] == '-' && s[5] == 'Q':
		if _, err := fmt.Sscanf(s, "%4d-Q%1d", &year, &quarter); err == nil && quarter >= 1 && quarter <= 4 {
			return Period{Kind: PeriodKindQuarter, Year: year, Quarter: quarter}, nil
		}
	case len(s) == 7 && s[4] == '-':
		if _, err := fmt.Sscanf(s, "%4d-%2d", &year, &month); err == nil && month >= 1 && month <= 12 {
			return Period{Kind: PeriodKindMonth, Year: year, Month: time.Month(month)}, nil
		}
	case len(s) == 4:
		if _, err := fmt.Sscanf(s, "%4d", &year); err == nil {
			return Period{Kind: PeriodKindYear, Year: year}, nil
		}
	}

	return Period{}, domainerror.NewStatisticsError(
		domainerror.ErrCodeInvalidPeriod,
		fmt.Sprintf("cannot parse period descriptor %q", s),
		domainerror.ErrInvalidPeriod,
	)
}

// String returns the canonical descriptor for the period.
func (p Period) String() string {
	switch p.Kind {
	case PeriodKindQuarter:
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Quarter)
	case PeriodKindYear:
		return fmt.Sprintf("%04d", p.Year)
	default:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	}
}

// Bounds returns the inclusive first and last calendar dates of the period.
func (p Period) Bounds() (start, end time.Time) {
	switch p.Kind {
	case PeriodKindQuarter:
		start = time.Date(p.Year, time.Month((p.Quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 3, -1)
	case PeriodKindYear:
		start = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, -1)
	default:
		start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	}
	return start, end
}

// Previous returns the immediately preceding period of equal length.
func (p Period) Previous() Period {
	switch p.Kind {
	case PeriodKindQuarter:
		if p.Quarter == 1 {
			return Period{Kind: PeriodKindQuarter, Year: p.Year - 1, Quarter: 4}
		}
		return Period{Kind: PeriodKindQuarter, Year: p.Year, Quarter: p.Quarter - 1}
	case PeriodKindYear:
		return Period{Kind: PeriodKindYear, Year: p.Year - 1}
	default:
		if p.Month == time.January {
			return Period{Kind: PeriodKindMonth, Year: p.Year - 1, Month: time.December}
		}
		return Period{Kind: PeriodKindMonth, Year: p.Year, Month: p.Month - 1}
	}
}

// Next returns the immediately following period of equal length.
func (p Period) Next() Period {
	switch p.Kind {
	case PeriodKindQuarter:
		if p.Quarter == 4 {
			return Period{Kind: PeriodKindQuarter, Year: p.Year + 1, Quarter: 1}
		}
		return Period{Kind: PeriodKindQuarter, Year: p.Year, Quarter: p.Quarter + 1}
	case PeriodKindYear:
		return Period{Kind: PeriodKindYear, Year: p.Year + 1}
	default:
		if p.Month == time.December {
			return Period{Kind: PeriodKindMonth, Year: p.Year + 1, Month: time.January}
		}
		return Period{Kind: PeriodKindMonth, Year: p.Year, Month: p.Month + 1}
	}
}

// PeriodsForDate returns every period descriptor containing the given date:
// its month, its quarter and its year.
func PeriodsForDate(date time.Time) []Period {
	quarter := (int(date.Month())-1)/3 + 1
	return []Period{
		{Kind: PeriodKindMonth, Year: date.Year(), Month: date.Month()},
		{Kind: PeriodKindQuarter, Year: date.Year(), Quarter: quarter},
		{Kind: PeriodKindYear, Year: date.Year()},
	}
}

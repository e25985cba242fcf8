// Package budget contains budget monitoring use cases.
package budget

import (
	"time"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// CurrentWindow returns the period-aligned window containing asOf for the
// given budget period. Windows align to calendar boundaries: weekly windows
// run Monday through Sunday, monthly windows span the calendar month, yearly
// windows the calendar year. Both bounds are inclusive dates.
func CurrentWindow(period entity.BudgetPeriod, asOf time.Time) (start, end time.Time) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case entity.BudgetPeriodDaily:
		start = day
		end = day
	case entity.BudgetPeriodWeekly:
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday is 7
		}
		start = day.AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 6)
	case entity.BudgetPeriodYearly:
		start = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, -1)
	default: // Monthly
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	}
	return start, end
}

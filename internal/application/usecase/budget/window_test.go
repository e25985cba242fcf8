// Package budget contains budget monitoring use cases.
package budget

import (
	"testing"
	"time"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentWindow(t *testing.T) {
	t.Run("daily window is a single day", func(t *testing.T) {
		start, end := CurrentWindow(entity.BudgetPeriodDaily, date(2024, time.March, 15))
		if !start.Equal(date(2024, time.March, 15)) || !end.Equal(date(2024, time.March, 15)) {
			t.Errorf("expected [2024-03-15, 2024-03-15], got [%v, %v]", start, end)
		}
	})

	t.Run("weekly window runs Monday through Sunday", func(t *testing.T) {
		// 2024-03-15 is a Friday.
		start, end := CurrentWindow(entity.BudgetPeriodWeekly, date(2024, time.March, 15))
		if !start.Equal(date(2024, time.March, 11)) {
			t.Errorf("expected start 2024-03-11, got %v", start)
		}
		if !end.Equal(date(2024, time.March, 17)) {
			t.Errorf("expected end 2024-03-17, got %v", end)
		}
	})

	t.Run("weekly window on a Sunday stays in its week", func(t *testing.T) {
		// 2024-03-17 is a Sunday; the window must not roll into the next week.
		start, end := CurrentWindow(entity.BudgetPeriodWeekly, date(2024, time.March, 17))
		if !start.Equal(date(2024, time.March, 11)) {
			t.Errorf("expected start 2024-03-11, got %v", start)
		}
		if !end.Equal(date(2024, time.March, 17)) {
			t.Errorf("expected end 2024-03-17, got %v", end)
		}
	})

	t.Run("monthly window spans the calendar month", func(t *testing.T) {
		start, end := CurrentWindow(entity.BudgetPeriodMonthly, date(2024, time.February, 10))
		if !start.Equal(date(2024, time.February, 1)) {
			t.Errorf("expected start 2024-02-01, got %v", start)
		}
		if !end.Equal(date(2024, time.February, 29)) { // Leap year
			t.Errorf("expected end 2024-02-29, got %v", end)
		}
	})

	t.Run("yearly window spans the calendar year", func(t *testing.T) {
		start, end := CurrentWindow(entity.BudgetPeriodYearly, date(2024, time.July, 4))
		if !start.Equal(date(2024, time.January, 1)) {
			t.Errorf("expected start 2024-01-01, got %v", start)
		}
		if !end.Equal(date(2024, time.December, 31)) {
			t.Errorf("expected end 2024-12-31, got %v", end)
		}
	})
}

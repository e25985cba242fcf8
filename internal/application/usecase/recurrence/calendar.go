// Package recurrence contains recurring rule materialization use cases.
package recurrence

import (
	"time"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// NextOccurrence computes the first occurrence of the rule strictly after the
// given date. It is a pure function: deterministic, no side effects. Malformed
// intervals (< 1) are treated as 1 so the cursor always moves forward.
func NextOccurrence(rule *entity.RecurringRule, after time.Time) time.Time {
	after = dateOf(after)
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch rule.Frequency {
	case entity.FrequencyDaily:
		next = after.AddDate(0, 0, interval)
	case entity.FrequencyWeekly:
		next = nextWeekly(rule, after, interval)
	case entity.FrequencyMonthly:
		next = nextMonthly(rule, after, interval)
	case entity.FrequencyYearly:
		next = nextYearly(rule, after, interval)
	default:
		// Unknown frequency never reaches the engine (rejected at rule
		// creation); fall back to daily so the cursor cannot stall.
		next = after.AddDate(0, 0, 1)
	}

	// Forward-progress guard: the engine must never stall on a cursor.
	for !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekly finds the next date after `after` on the rule's weekday, aligned
// to every `interval` weeks measured from the start date's week.
func nextWeekly(rule *entity.RecurringRule, after time.Time, interval int) time.Time {
	weekday := rule.StartDate.Weekday()
	if rule.DayOfWeek != nil {
		weekday = *rule.DayOfWeek
	}

	next := after.AddDate(0, 0, 1)
	for next.Weekday() != weekday {
		next = next.AddDate(0, 0, 1)
	}

	if interval > 1 {
		anchor := weekStart(rule.StartDate)
		weeksSince := int(next.Sub(anchor).Hours() / (24 * 7))
		if rem := weeksSince % interval; rem != 0 {
			next = next.AddDate(0, 0, (interval-rem)*7)
		}
	}
	return next
}

// nextMonthly adds interval months to the month of `after` and clamps the
// rule's day-of-month to the resulting month's length (day 31 in February
// becomes the last day of February).
func nextMonthly(rule *entity.RecurringRule, after time.Time, interval int) time.Time {
	first := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, time.UTC)
	first = first.AddDate(0, interval, 0)
	return occurrenceInMonth(rule, first.Year(), first.Month())
}

// nextYearly adds interval years, fixing the rule's month-of-year and clamping
// day-of-month (Feb 29 becomes Feb 28 in non-leap years).
func nextYearly(rule *entity.RecurringRule, after time.Time, interval int) time.Time {
	return occurrenceInMonth(rule, after.Year()+interval, yearlyMonth(rule))
}

// occurrenceInMonth places the rule's day-of-month inside the given month,
// clamped to the month's length. A missing day falls back to the start date's.
func occurrenceInMonth(rule *entity.RecurringRule, year int, month time.Month) time.Time {
	day := rule.DayOfMonth
	if day < 1 {
		day = rule.StartDate.Day()
	}
	return time.Date(year, month, clampDay(day, year, month), 0, 0, 0, 0, time.UTC)
}

// yearlyMonth returns the month a yearly rule fires in, falling back to the
// start date's month.
func yearlyMonth(rule *entity.RecurringRule) time.Month {
	month := rule.MonthOfYear
	if month < time.January || month > time.December {
		month = rule.StartDate.Month()
	}
	return month
}

// clampDay limits day to the number of days in the given month.
func clampDay(day, year int, month time.Month) int {
	last := lastDayOfMonth(year, month)
	if day > last {
		return last
	}
	return day
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// weekStart returns the Monday of the week containing the given date.
func weekStart(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7
	}
	return time.Date(date.Year(), date.Month(), date.Day()-(weekday-1), 0, 0, 0, 0, time.UTC)
}

// dateOf drops the time-of-day component in UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

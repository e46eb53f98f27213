// Package streak computes habit streaks from per-day completion flags.
//
// Every function here is pure: the reference day ("today") is always passed in,
// so results depend only on the arguments.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
)

// Toggle flips the completion of day on h and returns the updated habit.
// A day seen for the first time is recorded as completed. The streak is
// recomputed against today and LastCompleted is set to day whatever the
// resulting flag is. h itself is left untouched.
func Toggle(h models.Habit, day, today string) models.Habit {
	completions := make([]models.Completion, len(h.CompletedDates), len(h.CompletedDates)+1)
	copy(completions, h.CompletedDates)

	found := false
	for i := range completions {
		if completions[i].Date == day {
			completions[i].Completed = !completions[i].Completed
			found = true
			break
		}
	}
	if !found {
		completions = append(completions, models.Completion{Date: day, Completed: true})
	}

	h.CompletedDates = completions
	h.Streak = Current(completions, today)
	h.LastCompleted = day
	return h
}

// Current returns the length of the live streak ending at the most recent
// completed day. The most recent completion must be today or yesterday, and
// each earlier completion must sit within StreakGapToleranceDays of the next.
func Current(completions []models.Completion, today string) int {
	days := completedDays(completions)
	if len(days) == 0 {
		return 0
	}

	ref, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0
	}

	last := days[len(days)-1]
	if age := daysApart(last, ref); age != 0 && age != 1 {
		return 0
	}

	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if daysApart(days[i], days[i+1]) > constants.StreakGapToleranceDays {
			break
		}
		streak++
	}
	return streak
}

// Longest returns the longest run of completions under the same gap
// tolerance as Current, without requiring the run to be recent.
func Longest(completions []models.Completion) int {
	days := completedDays(completions)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysApart(days[i-1], days[i]) <= constants.StreakGapToleranceDays {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate returns the fraction of the last period days (today
// included) that were completed.
func CompletionRate(completions []models.Completion, today string, period int) float64 {
	if period <= 0 {
		return 0
	}
	ref, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0
	}

	count := 0
	for _, d := range completedDays(completions) {
		age := daysApart(d, ref)
		if age >= 0 && age < period {
			count++
		}
	}
	return float64(count) / float64(period)
}

// IsCompleted reports whether h is marked completed on day.
func IsCompleted(h models.Habit, day string) bool {
	for _, c := range h.CompletedDates {
		if c.Date == day {
			return c.Completed
		}
	}
	return false
}

// completedDays returns the distinct completed days in ascending order.
// Entries with a malformed date are skipped.
func completedDays(completions []models.Completion) []time.Time {
	days := make([]time.Time, 0, len(completions))
	seen := make(map[string]bool, len(completions))
	for _, c := range completions {
		if !c.Completed || seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		t, err := time.Parse(constants.DateFormat, c.Date)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// daysApart returns b - a in whole calendar days. Both are UTC midnights.
func daysApart(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

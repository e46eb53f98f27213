package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat identifies a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// StreakGapToleranceDays is the largest distance, in calendar days, between two
	// completions that still counts as one unbroken streak.
	StreakGapToleranceDays = 2
)

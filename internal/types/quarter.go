package types

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Quarter identifies a Gregorian calendar quarter.
// Q1 is Jan-Mar, Q2 Apr-Jun, Q3 Jul-Sep and Q4 Oct-Dec.
type Quarter struct {
	Year    int
	Quarter int
}

// QuarterOf returns the quarter containing date.
func QuarterOf(date civil.Date) Quarter {
	return Quarter{
		Year:    date.Year,
		Quarter: (int(date.Month)-1)/3 + 1,
	}
}

// End returns the last calendar day of the quarter, the key used for quarterly observations.
func (q Quarter) End() civil.Date {
	lastMonth := time.Month(q.Quarter * 3)
	// day 0 of the following month normalizes to the last day of lastMonth
	return civil.DateOf(time.Date(q.Year, lastMonth+1, 0, 0, 0, 0, 0, time.UTC))
}

// String returns the quarter in "2020Q1" form.
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Quarter)
}

// QuartersSpanned counts the distinct quarters between the quarters of start and end, inclusive.
// It returns 0 when end precedes start.
func QuartersSpanned(start, end civil.Date) int {
	if end.Before(start) {
		return 0
	}

	first := QuarterOf(start)
	last := QuarterOf(end)

	return (last.Year-first.Year)*4 + (last.Quarter - first.Quarter) + 1
}

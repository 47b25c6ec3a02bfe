package temporal

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// rule is an anchored pattern and the function turning its submatches into a date.
// today is midnight of the reference date.
type rule struct {
	re      *regexp.Regexp
	resolve func(m []string, today time.Time) (time.Time, error)
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15, "sixteen": 16,
}

// maxOffsetDays bounds relative offsets so arithmetic on dates cannot overflow.
const maxOffsetDays = 3660

var (
	weekdayAlt = alternation(weekdays)
	monthAlt   = alternation(months)
	numberAlt  = `\d{1,4}|` + alternation(numberWords)
)

func (r *Resolver) buildRules() []rule {
	return []rule{
		{
			re: anchored(`today|now|right now|currently|tonight|this (morning|afternoon|evening)`),
			resolve: func(_ []string, today time.Time) (time.Time, error) {
				return today, nil
			},
		},
		{
			re:      anchored(`tomorrow|tmrw`),
			resolve: offset(1),
		},
		{
			re:      anchored(`(the )?day after tomorrow`),
			resolve: offset(2),
		},
		{
			re:      anchored(`yesterday`),
			resolve: offset(-1),
		},
		{
			re:      anchored(`in (` + numberAlt + `) (day|days|week|weeks)`),
			resolve: relativeOffset,
		},
		{
			re:      anchored(`(` + numberAlt + `) (day|days|week|weeks) from (now|today)`),
			resolve: relativeOffset,
		},
		{
			re: anchored(`next (` + weekdayAlt + `)`),
			resolve: func(m []string, today time.Time) (time.Time, error) {
				return nextWeekday(today, weekdays[m[1]]), nil
			},
		},
		{
			re: anchored(`(this )?(` + weekdayAlt + `)`),
			resolve: func(m []string, today time.Time) (time.Time, error) {
				return upcomingWeekday(today, weekdays[m[2]]), nil
			},
		},
		{
			re: anchored(`(this |the |this coming )?weekend`),
			resolve: func(_ []string, today time.Time) (time.Time, error) {
				return upcomingWeekday(today, r.opts.Weekend.Day()), nil
			},
		},
		{
			re: anchored(`next weekend`),
			resolve: func(_ []string, today time.Time) (time.Time, error) {
				return upcomingWeekday(today, r.opts.Weekend.Day()).AddDate(0, 0, 7), nil
			},
		},
		{
			re: anchored(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`),
			resolve: func(m []string, today time.Time) (time.Time, error) {
				return calendarDate(today, atoi(m[1]), atoi(m[2]), atoi(m[3]))
			},
		},
		{
			re: anchored(`((` + weekdayAlt + `) )?(` + monthAlt + `) (\d{1,2})( (\d{4}))?`),
			resolve: func(m []string, today time.Time) (time.Time, error) {
				return monthDay(today, m[2], months[m[3]], atoi(m[4]), m[6])
			},
		},
		{
			re: anchored(`((` + weekdayAlt + `) )?(the )?(\d{1,2}) (of )?(` + monthAlt + `)( (\d{4}))?`),
			resolve: func(m []string, today time.Time) (time.Time, error) {
				return monthDay(today, m[2], months[m[6]], atoi(m[4]), m[8])
			},
		},
	}
}

func offset(days int) func([]string, time.Time) (time.Time, error) {
	return func(_ []string, today time.Time) (time.Time, error) {
		return today.AddDate(0, 0, days), nil
	}
}

func relativeOffset(m []string, today time.Time) (time.Time, error) {
	n, ok := numberWords[m[1]]
	if !ok {
		n = atoi(m[1])
	}
	if strings.HasPrefix(m[2], "week") {
		n *= 7
	}
	if n > maxOffsetDays {
		return time.Time{}, fmt.Errorf("offset of %d days is out of range", n)
	}
	return today.AddDate(0, 0, n), nil
}

// nextWeekday returns the first day strictly after today that falls on wd.
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

// upcomingWeekday returns the first day on or after today that falls on wd.
func upcomingWeekday(today time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, days)
}

// calendarDate builds a date and rejects components time.Date would normalize
// (month 13, February 30).
func calendarDate(today time.Time, year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d does not exist", month)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d is not a calendar date", year, month, day)
	}
	return d, nil
}

var errWeekdayMismatch = errors.New("weekday does not match the date")

// monthDay resolves a month and day, with an optional year. Without a year the next
// occurrence on or after today is used. A leading weekday must agree with the date.
func monthDay(today time.Time, weekday string, month time.Month, day int, year string) (time.Time, error) {
	var (
		d   time.Time
		err error
	)
	if year != "" {
		d, err = calendarDate(today, atoi(year), int(month), day)
	} else {
		d, err = nextOccurrence(today, month, day)
	}
	if err != nil {
		return time.Time{}, err
	}
	if weekday != "" && weekdays[weekday] != d.Weekday() {
		return time.Time{}, fmt.Errorf("%w: %s is a %s", errWeekdayMismatch, d.Format("2006-01-02"), d.Weekday())
	}
	return d, nil
}

// nextOccurrence finds the first year, starting with today's, in which month/day exists
// and is not before today. Only February 29 needs more than two years.
func nextOccurrence(today time.Time, month time.Month, day int) (time.Time, error) {
	for y := today.Year(); y <= today.Year()+8; y++ {
		d, err := calendarDate(today, y, int(month), day)
		if err != nil {
			if month == time.February && day == 29 {
				continue
			}
			return time.Time{}, err
		}
		if !d.Before(today) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("no upcoming %s %d", month, day)
}

func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)$`)
}

// alternation builds a regexp alternation of the map keys, longest first so that
// "tues" wins over "tue".
func alternation[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return strings.Join(keys, "|")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Package temporal resolves free-text date expressions to calendar dates.
//
// Resolution is a pure function of the expression and an explicit reference instant:
// the package never reads the clock, never touches the network and never guesses.
// Anything it does not recognise exactly is reported as an Unparseable
// [weathercall.TemporalError].
//
// Recognised forms (case-insensitive, surrounding punctuation ignored):
//
//	today, now, tonight, this morning
//	tomorrow, the day after tomorrow, yesterday
//	in 3 days, in a week, in two weeks, 5 days from now
//	monday, this friday          nearest occurrence on or after the reference date
//	next monday                  nearest occurrence strictly after the reference date
//	this weekend, next weekend   see [WeekendPolicy]
//	2025-06-20, 2025/06/20
//	june 20, 20 june, jun 20th 2025, june 20, 2025
//
// A trailing part of day or clock time ("tomorrow morning", "next friday at 3pm") is
// accepted and ignored; forecasts are daily.
package temporal

import (
	"regexp"
	"strings"
	"time"

	"github.com/rickchristie/weathercall"
)

// WeekendPolicy selects the day "this weekend" resolves to.
type WeekendPolicy int

const (
	// WeekendSaturday resolves "this weekend" to the upcoming Saturday.
	WeekendSaturday WeekendPolicy = iota

	// WeekendSunday resolves "this weekend" to the upcoming Sunday.
	WeekendSunday
)

// Day returns the weekday the policy stands for.
func (p WeekendPolicy) Day() time.Weekday {
	if p == WeekendSunday {
		return time.Sunday
	}
	return time.Saturday
}

// ParseWeekendPolicy parses "saturday" or "sunday". The empty string is Saturday.
func ParseWeekendPolicy(s string) (WeekendPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "saturday", "sat":
		return WeekendSaturday, true
	case "sunday", "sun":
		return WeekendSunday, true
	}
	return WeekendSaturday, false
}

// Options configures a Resolver. The zero value is ready to use.
type Options struct {
	Weekend WeekendPolicy
}

// Resolver resolves temporal expressions. It is immutable and safe for concurrent use.
type Resolver struct {
	opts  Options
	rules []rule
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	r := &Resolver{opts: opts}
	r.rules = r.buildRules()
	return r
}

var defaultResolver = New(Options{})

// Resolve resolves expr against ref with the default options.
func Resolve(expr string, ref time.Time) (weathercall.ResolvedDate, error) {
	return defaultResolver.Resolve(expr, ref)
}

// Resolve maps expr to a calendar date relative to ref. The returned date is midnight of
// the resolved day in ref's location. It does not check the forecast horizon.
func (r *Resolver) Resolve(expr string, ref time.Time) (weathercall.ResolvedDate, error) {
	text := normalize(expr)
	if text == "" {
		return weathercall.ResolvedDate{}, unparseable(expr, "empty expression")
	}

	today := weathercall.Midnight(ref)
	for _, candidate := range candidates(text) {
		for _, rl := range r.rules {
			m := rl.re.FindStringSubmatch(candidate)
			if m == nil {
				continue
			}
			date, err := rl.resolve(m, today)
			if err != nil {
				return weathercall.ResolvedDate{}, unparseable(expr, err.Error())
			}
			return weathercall.ResolvedDate{Date: date, Expression: expr}, nil
		}
	}

	return weathercall.ResolvedDate{}, unparseable(expr, "unrecognized expression")
}

func unparseable(expr, reason string) *weathercall.TemporalError {
	return &weathercall.TemporalError{
		Kind:       weathercall.TemporalUnparseable,
		Expression: expr,
		Reason:     reason,
	}
}

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	ordinalRe = regexp.MustCompile(`\b(\d{1,2})(st|nd|rd|th)\b`)
	prefixRe  = regexp.MustCompile(`^(on|for|by|at) `)

	// Part-of-day and clock-time suffixes, stripped when something remains in front.
	timeSuffixRe = regexp.MustCompile(
		`( (in the|during the|at|around|by))? (morning|afternoon|evening|night|noon|midday|midnight|` +
			`\d{1,2}(:\d{2})? ?(am|pm)|\d{1,2}:\d{2})$`,
	)
)

// normalize lowercases, collapses whitespace and strips punctuation that carries no
// meaning for date resolution.
func normalize(expr string) string {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.Trim(s, ".?!,;:\"'`")
	s = strings.ReplaceAll(s, ",", " ")
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = prefixRe.ReplaceAllString(s, "")
	return s
}

// candidates returns the normalized text followed by the text with a time-of-day
// suffix removed, if any.
func candidates(text string) []string {
	out := []string{text}
	if loc := timeSuffixRe.FindStringIndex(text); loc != nil && loc[0] > 0 {
		out = append(out, strings.TrimSpace(text[:loc[0]]))
	}
	return out
}

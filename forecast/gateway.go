// Package forecast fetches daily forecasts for a place name and a resolved date.
//
// The Gateway geocodes the name, checks the date against the provider's horizon and
// requests the daily figures, translating every failure into a
// [weathercall.GatewayError] with a distinct kind. It never retries and never caches.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/weathercall"
)

// Provider is the external geocoding and forecast service.
type Provider interface {
	// Geocode returns candidate places for name, best match first. An empty slice
	// with a nil error means no match.
	Geocode(ctx context.Context, name string) ([]weathercall.GeoLocation, error)

	// Daily returns the daily figures for loc on date (midnight, any location).
	Daily(ctx context.Context, loc weathercall.GeoLocation, date time.Time) (*Daily, error)
}

// Daily is a provider's daily forecast. Nil fields were not returned by the provider.
type Daily struct {
	Date string

	MaxTemp       *float64
	MinTemp       *float64
	Precipitation *float64

	TempUnit          string
	PrecipitationUnit string
}

// Horizon is the window of dates the provider can forecast, in days relative to today.
// A date is inside when -PastDays <= offset < ForecastDays.
type Horizon struct {
	PastDays     int
	ForecastDays int
}

// DefaultHorizon matches Open-Meteo's 16-day forecast without past days.
var DefaultHorizon = Horizon{PastDays: 0, ForecastDays: 16}

// Contains reports whether date is forecastable when the current date is today.
func (h Horizon) Contains(today, date time.Time) bool {
	offset := weathercall.DaysBetween(today, date)
	return offset >= -h.PastDays && offset < h.ForecastDays
}

// Options configures a Gateway.
type Options struct {
	// Horizon defaults to DefaultHorizon when ForecastDays is zero.
	Horizon Horizon

	// Clock supplies "today" for the horizon check and for unresolved dates.
	// Defaults to the system clock.
	Clock weathercall.TimeProvider
}

// Gateway is the single callable forecast capability. It holds no per-query state and
// is safe for concurrent use.
type Gateway struct {
	provider Provider
	horizon  Horizon
	clock    weathercall.TimeProvider
}

// New creates a Gateway over provider.
func New(provider Provider, opts Options) *Gateway {
	if opts.Horizon.ForecastDays == 0 {
		opts.Horizon = DefaultHorizon
	}
	if opts.Clock == nil {
		opts.Clock = weathercall.NewDefaultTimeProvider()
	}
	return &Gateway{
		provider: provider,
		horizon:  opts.Horizon,
		clock:    opts.Clock,
	}
}

// Horizon returns the configured forecast window.
func (g *Gateway) Horizon() Horizon {
	return g.horizon
}

// Fetch returns the forecast for location on date. A zero date means today.
//
// Multiple geocoding candidates are not an error: the first-ranked one is used and
// reported in the result.
func (g *Gateway) Fetch(
	ctx context.Context,
	location string,
	date weathercall.ResolvedDate,
) (*weathercall.ForecastResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, &weathercall.GatewayError{
			Kind:   weathercall.GatewayLocationNotFound,
			Detail: "empty location",
		}
	}

	today := weathercall.Midnight(g.clock.Now())
	day := today
	if !date.IsZero() {
		day = date.Date
	}
	dayStr := day.Format(weathercall.DateLayout)

	candidates, err := g.provider.Geocode(ctx, location)
	if err != nil {
		return nil, unavailable(location, dayStr, "geocoding failed", err)
	}
	if len(candidates) == 0 {
		return nil, &weathercall.GatewayError{
			Kind:     weathercall.GatewayLocationNotFound,
			Location: location,
			Date:     dayStr,
		}
	}
	place := candidates[0]

	if !g.horizon.Contains(today, day) {
		return nil, &weathercall.GatewayError{
			Kind:     weathercall.GatewayHorizonExceeded,
			Location: location,
			Date:     dayStr,
			Detail: fmt.Sprintf(
				"%d days from %s; forecasts cover %d past and %d upcoming days",
				weathercall.DaysBetween(today, day),
				today.Format(weathercall.DateLayout),
				g.horizon.PastDays,
				g.horizon.ForecastDays,
			),
		}
	}

	daily, err := g.provider.Daily(ctx, place, day)
	if err != nil {
		var gerr *weathercall.GatewayError
		if errors.As(err, &gerr) {
			return nil, gerr
		}
		return nil, unavailable(location, dayStr, "forecast request failed", err)
	}

	return assemble(place, dayStr, daily)
}

// assemble converts provider figures into a result, refusing to fill any gap.
func assemble(place weathercall.GeoLocation, day string, d *Daily) (*weathercall.ForecastResult, error) {
	if d == nil {
		return nil, incomplete(place.Name, day, "no daily forecast returned")
	}
	if d.Date != "" && d.Date != day {
		return nil, incomplete(place.Name, day, fmt.Sprintf("provider returned %s", d.Date))
	}

	var missing []string
	if d.MaxTemp == nil {
		missing = append(missing, "max_temp")
	}
	if d.MinTemp == nil {
		missing = append(missing, "min_temp")
	}
	if d.Precipitation == nil {
		missing = append(missing, "precipitation")
	}
	if d.TempUnit == "" && (d.MaxTemp != nil || d.MinTemp != nil) {
		missing = append(missing, "temperature unit")
	}
	if d.PrecipitationUnit == "" && d.Precipitation != nil {
		missing = append(missing, "precipitation unit")
	}
	if len(missing) > 0 {
		return nil, incomplete(place.Name, day, "missing "+strings.Join(missing, ", "))
	}

	return &weathercall.ForecastResult{
		Location:      place,
		Date:          day,
		MaxTemp:       weathercall.Measurement{Value: *d.MaxTemp, Unit: d.TempUnit},
		MinTemp:       weathercall.Measurement{Value: *d.MinTemp, Unit: d.TempUnit},
		Precipitation: weathercall.Measurement{Value: *d.Precipitation, Unit: d.PrecipitationUnit},
	}, nil
}

func unavailable(location, day, detail string, err error) *weathercall.GatewayError {
	return &weathercall.GatewayError{
		Kind:     weathercall.GatewayProviderUnavailable,
		Location: location,
		Date:     day,
		Detail:   detail,
		Err:      err,
	}
}

func incomplete(location, day, detail string) *weathercall.GatewayError {
	return &weathercall.GatewayError{
		Kind:     weathercall.GatewayIncompleteData,
		Location: location,
		Date:     day,
		Detail:   detail,
	}
}

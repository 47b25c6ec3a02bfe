package forecast_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/forecast"
	"github.com/rickchristie/weathercall/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 7, 10, 0, 0, 0, time.UTC)

func resolved(y int, m time.Month, d int) weathercall.ResolvedDate {
	return weathercall.ResolvedDate{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func newGateway(p forecast.Provider) *forecast.Gateway {
	return forecast.New(p, forecast.Options{Clock: weathercall.NewMockTimeProvider(now)})
}

func f64(v float64) *float64 { return &v }

func TestGateway_Fetch(t *testing.T) {
	type input struct {
		provider func() *tt.FakeProvider
		location string
		date     weathercall.ResolvedDate
	}

	type expected struct {
		sentinel error
		kind     weathercall.GatewayErrorKind
		result   *weathercall.ForecastResult

		dailyCalls int
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "resolved date succeeds",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().
						WithPlace("London", tt.London).
						WithForecast("London", "2025-05-08", 18.2, 9.1, 0.4)
				},
				location: "London",
				date:     resolved(2025, 5, 8),
			},
			expected: expected{
				result: &weathercall.ForecastResult{
					Location:      tt.London,
					Date:          "2025-05-08",
					MaxTemp:       weathercall.Measurement{Value: 18.2, Unit: "°C"},
					MinTemp:       weathercall.Measurement{Value: 9.1, Unit: "°C"},
					Precipitation: weathercall.Measurement{Value: 0.4, Unit: "mm"},
				},
				dailyCalls: 1,
			},
		},
		{
			name: "zero date means today",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().
						WithPlace("London", tt.London).
						WithForecast("London", "2025-05-07", 20, 11, 0)
				},
				location: "London",
			},
			expected: expected{
				result: &weathercall.ForecastResult{
					Location:      tt.London,
					Date:          "2025-05-07",
					MaxTemp:       weathercall.Measurement{Value: 20, Unit: "°C"},
					MinTemp:       weathercall.Measurement{Value: 11, Unit: "°C"},
					Precipitation: weathercall.Measurement{Value: 0, Unit: "mm"},
				},
				dailyCalls: 1,
			},
		},
		{
			name: "multiple candidates picks the first",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().
						WithPlace("London", tt.London, tt.LondonOntario).
						WithForecast("London", "2025-05-08", 18.2, 9.1, 0.4)
				},
				location: "London",
				date:     resolved(2025, 5, 8),
			},
			expected: expected{
				result: &weathercall.ForecastResult{
					Location:      tt.London,
					Date:          "2025-05-08",
					MaxTemp:       weathercall.Measurement{Value: 18.2, Unit: "°C"},
					MinTemp:       weathercall.Measurement{Value: 9.1, Unit: "°C"},
					Precipitation: weathercall.Measurement{Value: 0.4, Unit: "mm"},
				},
				dailyCalls: 1,
			},
		},
		{
			name: "no candidates is location not found",
			input: input{
				provider: tt.NewFakeProvider,
				location: "Nonexistent Place",
			},
			expected: expected{
				sentinel: weathercall.ErrLocationNotFound,
				kind:     weathercall.GatewayLocationNotFound,
			},
		},
		{
			name: "blank location is location not found",
			input: input{
				provider: tt.NewFakeProvider,
				location: "   ",
			},
			expected: expected{
				sentinel: weathercall.ErrLocationNotFound,
				kind:     weathercall.GatewayLocationNotFound,
			},
		},
		{
			name: "45 days out exceeds horizon",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().WithPlace("New Delhi", tt.NewDelhi)
				},
				location: "New Delhi",
				date:     resolved(2025, 6, 21),
			},
			expected: expected{
				sentinel: weathercall.ErrHorizonExceeded,
				kind:     weathercall.GatewayHorizonExceeded,
			},
		},
		{
			name: "last day inside horizon",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().
						WithPlace("New Delhi", tt.NewDelhi).
						WithForecast("New Delhi", "2025-05-22", 41, 29, 0)
				},
				location: "New Delhi",
				date:     resolved(2025, 5, 22),
			},
			expected: expected{
				result: &weathercall.ForecastResult{
					Location:      tt.NewDelhi,
					Date:          "2025-05-22",
					MaxTemp:       weathercall.Measurement{Value: 41, Unit: "°C"},
					MinTemp:       weathercall.Measurement{Value: 29, Unit: "°C"},
					Precipitation: weathercall.Measurement{Value: 0, Unit: "mm"},
				},
				dailyCalls: 1,
			},
		},
		{
			name: "first day past horizon",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().WithPlace("New Delhi", tt.NewDelhi)
				},
				location: "New Delhi",
				date:     resolved(2025, 5, 23),
			},
			expected: expected{
				sentinel: weathercall.ErrHorizonExceeded,
				kind:     weathercall.GatewayHorizonExceeded,
			},
		},
		{
			name: "past date exceeds horizon",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().WithPlace("London", tt.London)
				},
				location: "London",
				date:     resolved(2025, 5, 6),
			},
			expected: expected{
				sentinel: weathercall.ErrHorizonExceeded,
				kind:     weathercall.GatewayHorizonExceeded,
			},
		},
		{
			name: "geocoding failure is provider unavailable",
			input: input{
				provider: func() *tt.FakeProvider {
					p := tt.NewFakeProvider()
					p.GeocodeErr = errors.New("dial tcp: i/o timeout")
					return p
				},
				location: "London",
			},
			expected: expected{
				sentinel: weathercall.ErrProviderUnavailable,
				kind:     weathercall.GatewayProviderUnavailable,
			},
		},
		{
			name: "forecast failure is provider unavailable",
			input: input{
				provider: func() *tt.FakeProvider {
					p := tt.NewFakeProvider().WithPlace("London", tt.London)
					p.DailyErr = errors.New("503 Service Unavailable")
					return p
				},
				location: "London",
			},
			expected: expected{
				sentinel:   weathercall.ErrProviderUnavailable,
				kind:       weathercall.GatewayProviderUnavailable,
				dailyCalls: 1,
			},
		},
		{
			name: "typed provider error is passed through",
			input: input{
				provider: func() *tt.FakeProvider {
					p := tt.NewFakeProvider().WithPlace("London", tt.London)
					p.DailyErr = &weathercall.GatewayError{Kind: weathercall.GatewayIncompleteData}
					return p
				},
				location: "London",
			},
			expected: expected{
				sentinel:   weathercall.ErrIncompleteData,
				kind:       weathercall.GatewayIncompleteData,
				dailyCalls: 1,
			},
		},
		{
			name: "missing daily is incomplete",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().WithPlace("London", tt.London)
				},
				location: "London",
			},
			expected: expected{
				sentinel:   weathercall.ErrIncompleteData,
				kind:       weathercall.GatewayIncompleteData,
				dailyCalls: 1,
			},
		},
		{
			name: "missing field is incomplete, never defaulted",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().
						WithPlace("London", tt.London).
						WithDaily("London", "2025-05-07", &forecast.Daily{
							Date:              "2025-05-07",
							MaxTemp:           f64(19),
							MinTemp:           f64(8),
							TempUnit:          "°C",
							PrecipitationUnit: "mm",
						})
				},
				location: "London",
			},
			expected: expected{
				sentinel:   weathercall.ErrIncompleteData,
				kind:       weathercall.GatewayIncompleteData,
				dailyCalls: 1,
			},
		},
		{
			name: "missing unit is incomplete",
			input: input{
				provider: func() *tt.FakeProvider {
					return tt.NewFakeProvider().
						WithPlace("London", tt.London).
						WithDaily("London", "2025-05-07", &forecast.Daily{
							Date:              "2025-05-07",
							MaxTemp:           f64(19),
							MinTemp:           f64(8),
							Precipitation:     f64(1.2),
							PrecipitationUnit: "mm",
						})
				},
				location: "London",
			},
			expected: expected{
				sentinel:   weathercall.ErrIncompleteData,
				kind:       weathercall.GatewayIncompleteData,
				dailyCalls: 1,
			},
		},
		{
			name: "provider answering a different date is incomplete",
			input: input{
				provider: func() *tt.FakeProvider {
					d := &forecast.Daily{
						Date:              "2025-05-09",
						MaxTemp:           f64(19),
						MinTemp:           f64(8),
						Precipitation:     f64(0),
						TempUnit:          "°C",
						PrecipitationUnit: "mm",
					}
					return tt.NewFakeProvider().WithPlace("London", tt.London).WithDaily("London", "2025-05-08", d)
				},
				location: "London",
				date:     resolved(2025, 5, 8),
			},
			expected: expected{
				sentinel:   weathercall.ErrIncompleteData,
				kind:       weathercall.GatewayIncompleteData,
				dailyCalls: 1,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := tc.input.provider()
			got, err := newGateway(provider).Fetch(context.Background(), tc.input.location, tc.input.date)

			assert.Len(t, provider.DailyCalls, tc.expected.dailyCalls)

			if tc.expected.sentinel != nil {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.True(t, errors.Is(err, tc.expected.sentinel), "got %v", err)

				var gerr *weathercall.GatewayError
				require.ErrorAs(t, err, &gerr)
				assert.Equal(t, tc.expected.kind, gerr.Kind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected.result, got)
		})
	}
}

func TestGateway_HorizonCheckedAfterGeocoding(t *testing.T) {
	provider := tt.NewFakeProvider()

	_, err := newGateway(provider).Fetch(context.Background(), "Nowhere", resolved(2025, 9, 1))

	assert.True(t, errors.Is(err, weathercall.ErrLocationNotFound))
	assert.Equal(t, []string{"Nowhere"}, provider.GeocodeCalls)
}

func TestHorizon_Contains(t *testing.T) {
	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		horizon forecast.Horizon
		date    time.Time
		want    bool
	}{
		{name: "today", horizon: forecast.DefaultHorizon, date: today, want: true},
		{name: "day 15", horizon: forecast.DefaultHorizon, date: today.AddDate(0, 0, 15), want: true},
		{name: "day 16", horizon: forecast.DefaultHorizon, date: today.AddDate(0, 0, 16), want: false},
		{name: "yesterday", horizon: forecast.DefaultHorizon, date: today.AddDate(0, 0, -1), want: false},
		{name: "yesterday with past days", horizon: forecast.Horizon{PastDays: 2, ForecastDays: 7}, date: today.AddDate(0, 0, -1), want: true},
		{name: "seven day window", horizon: forecast.Horizon{ForecastDays: 7}, date: today.AddDate(0, 0, 7), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.horizon.Contains(today, tc.date))
		})
	}
}

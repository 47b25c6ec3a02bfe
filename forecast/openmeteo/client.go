// Package openmeteo implements forecast.Provider over the public Open-Meteo geocoding
// and forecast APIs. No API key is required.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/forecast"
)

const (
	// DefaultGeocodeURL is the Open-Meteo geocoding search endpoint.
	DefaultGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"

	// DefaultForecastURL is the Open-Meteo forecast endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DailyVariables are the daily series requested for every forecast.
	DailyVariables = "temperature_2m_max,temperature_2m_min,precipitation_sum"

	defaultTimeout    = 10 * time.Second
	defaultCandidates = 5
	maxBodyBytes      = 1 << 20
)

// Options configures a Client. Zero values select the public endpoints.
type Options struct {
	GeocodeURL  string
	ForecastURL string

	// Language is passed to the geocoder. Defaults to "en".
	Language string

	// Candidates is the number of geocoding results requested. Defaults to 5.
	Candidates int

	// Timeout bounds each request when HTTPClient is nil. Defaults to 10s.
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client talks to Open-Meteo.
type Client struct {
	geocodeURL  string
	forecastURL string
	language    string
	candidates  int
	http        *http.Client
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.GeocodeURL == "" {
		opts.GeocodeURL = DefaultGeocodeURL
	}
	if opts.ForecastURL == "" {
		opts.ForecastURL = DefaultForecastURL
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Candidates <= 0 {
		opts.Candidates = defaultCandidates
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		geocodeURL:  opts.GeocodeURL,
		forecastURL: opts.ForecastURL,
		language:    opts.Language,
		candidates:  opts.Candidates,
		http:        opts.HTTPClient,
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Admin1    string  `json:"admin1"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

type forecastResponse struct {
	DailyUnits struct {
		TemperatureMax string `json:"temperature_2m_max"`
		TemperatureMin string `json:"temperature_2m_min"`
		Precipitation  string `json:"precipitation_sum"`
	} `json:"daily_units"`
	Daily struct {
		Time           []string   `json:"time"`
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
		Precipitation  []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// apiError is the body Open-Meteo returns for rejected requests.
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// Geocode implements forecast.Provider. Results keep the geocoder's ranking.
func (c *Client) Geocode(ctx context.Context, name string) ([]weathercall.GeoLocation, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", strconv.Itoa(c.candidates))
	q.Set("language", c.language)
	q.Set("format", "json")

	var resp geocodeResponse
	if err := c.get(ctx, c.geocodeURL, q, &resp); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", name, err)
	}

	locations := make([]weathercall.GeoLocation, 0, len(resp.Results))
	for _, r := range resp.Results {
		locations = append(locations, weathercall.GeoLocation{
			Name:      r.Name,
			Region:    r.Admin1,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Timezone:  r.Timezone,
		})
	}
	return locations, nil
}

// Daily implements forecast.Provider. The date is interpreted in the location's own
// timezone. Null or absent series values are left nil.
func (c *Client) Daily(
	ctx context.Context,
	loc weathercall.GeoLocation,
	date time.Time,
) (*forecast.Daily, error) {
	day := date.Format(weathercall.DateLayout)

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("daily", DailyVariables)
	q.Set("timezone", "auto")
	q.Set("start_date", day)
	q.Set("end_date", day)

	var resp forecastResponse
	if err := c.get(ctx, c.forecastURL, q, &resp); err != nil {
		return nil, fmt.Errorf("forecast %s on %s: %w", loc.Name, day, err)
	}

	d := &forecast.Daily{
		MaxTemp:           first(resp.Daily.TemperatureMax),
		MinTemp:           first(resp.Daily.TemperatureMin),
		Precipitation:     first(resp.Daily.Precipitation),
		TempUnit:          resp.DailyUnits.TemperatureMax,
		PrecipitationUnit: resp.DailyUnits.Precipitation,
	}
	if len(resp.Daily.Time) > 0 {
		d.Date = resp.Daily.Time[0]
	}
	if resp.DailyUnits.TemperatureMin != resp.DailyUnits.TemperatureMax {
		// Mixed temperature units cannot share one unit label.
		d.TempUnit = ""
	}
	return d, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error {
		return fmt.Errorf("open-meteo: %s (status %d)", apiErr.Reason, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("open-meteo: unexpected status %s", resp.Status)
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func first(values []*float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

var _ forecast.Provider = (*Client)(nil)

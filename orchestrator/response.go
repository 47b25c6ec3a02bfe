package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rickchristie/weathercall"
)

type successPayload struct {
	Status         string                  `json:"status"`
	Location       string                  `json:"location"`
	Latitude       float64                 `json:"latitude"`
	Longitude      float64                 `json:"longitude"`
	Date           string                  `json:"date"`
	RelativeDate   string                  `json:"relative_date"`
	MaxTemperature weathercall.Measurement `json:"max_temperature"`
	MinTemperature weathercall.Measurement `json:"min_temperature"`
	Precipitation  weathercall.Measurement `json:"precipitation"`
}

type failurePayload struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// successResponse packages a forecast. ref is the query's reference instant.
func successResponse(callID string, fc *weathercall.ForecastResult, ref time.Time) weathercall.ToolResponse {
	relative := ""
	if day, err := time.ParseInLocation(weathercall.DateLayout, fc.Date, ref.Location()); err == nil {
		relative = weathercall.RelativeDate(ref, day)
	}
	content := mustJSON(successPayload{
		Status:         "ok",
		Location:       fc.Location.DisplayName(),
		Latitude:       fc.Location.Latitude,
		Longitude:      fc.Location.Longitude,
		Date:           fc.Date,
		RelativeDate:   relative,
		MaxTemperature: fc.MaxTemp,
		MinTemperature: fc.MinTemp,
		Precipitation:  fc.Precipitation,
	})
	return weathercall.ToolResponse{
		CallID:  callID,
		Name:    weathercall.CapabilityName,
		Content: content,
	}
}

// failureResponse packages a recovered failure. Only user-safe text is included; the
// provider-level cause stays in err for logs.
func failureResponse(callID, name string, err error) weathercall.ToolResponse {
	code := weathercall.ErrorCode(err)
	return weathercall.ToolResponse{
		CallID: callID,
		Name:   name,
		Content: mustJSON(failurePayload{
			Status:  "error",
			Error:   code,
			Message: userMessage(code, err),
		}),
		Failed: true,
		Code:   code,
	}
}

func unsupportedResponse(callID, name string) weathercall.ToolResponse {
	return weathercall.ToolResponse{
		CallID: callID,
		Name:   name,
		Content: mustJSON(failurePayload{
			Status:  "error",
			Error:   weathercall.CodeUnsupportedCall,
			Message: fmt.Sprintf("%q is not available; only one get_weather call is answered per question.", name),
		}),
		Failed: true,
		Code:   weathercall.CodeUnsupportedCall,
	}
}

func userMessage(code string, err error) string {
	var (
		terr *weathercall.TemporalError
		gerr *weathercall.GatewayError
	)
	if !errors.As(err, &terr) {
		terr = &weathercall.TemporalError{}
	}
	if !errors.As(err, &gerr) {
		gerr = &weathercall.GatewayError{}
	}

	switch code {
	case weathercall.CodeUnparseableDate:
		return fmt.Sprintf("The date %q could not be understood as a calendar date.", terr.Expression)
	case weathercall.CodeLocationNotFound:
		if gerr.Location == "" {
			return "No location was given."
		}
		return fmt.Sprintf("No place named %q could be found.", gerr.Location)
	case weathercall.CodeHorizonExceeded:
		return fmt.Sprintf("No forecast is available for %s. Forecasts only cover a limited "+
			"number of upcoming days.", gerr.Date)
	case weathercall.CodeIncompleteData:
		return fmt.Sprintf("The forecast for %s on %s is incomplete.", gerr.Location, gerr.Date)
	case weathercall.CodeProviderUnavailable:
		return "The weather service is currently unavailable."
	case weathercall.CodeInvalidArguments:
		return "The request arguments were invalid. A location is required and only " +
			"location and datetime_expression may be given."
	}
	return "The forecast could not be retrieved."
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// The payload types only hold strings and numbers.
		panic(err)
	}
	return string(b)
}

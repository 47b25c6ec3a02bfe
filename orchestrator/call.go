package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rickchristie/weathercall"
	"github.com/rickchristie/weathercall/schema"
	"github.com/tmc/langchaingo/llms"
)

// checkCalls rejects call sets that cannot be answered one-to-one.
func (x *exchange) checkCalls(calls []llms.ToolCall) error {
	seen := make(map[string]bool, len(calls))
	for i, call := range calls {
		if call.ID == "" {
			return &weathercall.ProtocolError{
				Kind:   weathercall.ProtocolUnmatchedToolCall,
				Reason: fmt.Sprintf("call %d has no identifier", i),
			}
		}
		if seen[call.ID] {
			return &weathercall.ProtocolError{
				Kind:   weathercall.ProtocolUnmatchedToolCall,
				CallID: call.ID,
				Reason: "duplicate call identifier",
			}
		}
		seen[call.ID] = true
	}
	return nil
}

// executeCalls answers every call in order. The first get_weather call is executed;
// every other call receives an unsupported_call response.
func (x *exchange) executeCalls(ctx context.Context, calls []llms.ToolCall) ([]weathercall.ToolResponse, error) {
	responses := make([]weathercall.ToolResponse, 0, len(calls))
	executed := false

	for _, call := range calls {
		req := toRequest(call)

		if executed || req.Name != weathercall.CapabilityName {
			x.o.hooks.FireBeforeToolCall(ctx, x.query, weathercall.BeforeToolCallEvent{Request: req})
			resp := unsupportedResponse(req.ID, req.Name)
			x.o.hooks.FireAfterToolCall(ctx, x.query, weathercall.AfterToolCallEvent{
				Request:  req,
				Response: resp,
			})
			responses = append(responses, resp)
			continue
		}

		executed = true
		resp, err := x.execute(ctx, req)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if len(responses) != len(calls) {
		return nil, &weathercall.ProtocolError{
			Kind:   weathercall.ProtocolUnmatchedToolCall,
			Reason: fmt.Sprintf("%d calls, %d responses", len(calls), len(responses)),
		}
	}
	return responses, nil
}

// execute runs one get_weather call. Resolver and gateway failures become a failure
// response; only a fault that leaves no response to send returns an error.
func (x *exchange) execute(ctx context.Context, req weathercall.ToolCallRequest) (resp weathercall.ToolResponse, err error) {
	x.o.hooks.FireBeforeToolCall(ctx, x.query, weathercall.BeforeToolCallEvent{Request: req})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = &weathercall.ProtocolError{
				Kind:   weathercall.ProtocolUnmatchedToolCall,
				CallID: req.ID,
				Reason: fmt.Sprintf("panic while executing call: %v", r),
			}
		}
	}()

	var (
		date     weathercall.ResolvedDate
		forecast *weathercall.ForecastResult
		failure  error
	)

	args, failure := decodeArgs(x.o.argSchema, req.RawArguments)
	if failure == nil {
		req.Args = args
		date, forecast, failure = fetch(ctx, x.o.resolver, x.o.gateway, *args, x.query.ReceivedAt)
	}
	resp = respond(req.ID, req.Name, forecast, failure, x.query.ReceivedAt)

	x.result.ToolCall = &req
	x.result.ResolvedDate = date
	x.result.Forecast = forecast

	x.o.hooks.FireAfterToolCall(ctx, x.query, weathercall.AfterToolCallEvent{
		Request:      req,
		Response:     resp,
		ResolvedDate: date,
		Forecast:     forecast,
		Duration:     time.Since(start),
		Error:        failure,
	})
	return resp, nil
}

// fetch resolves the date relative to ref and fetches the forecast. A blank expression
// means the reference date.
func fetch(
	ctx context.Context,
	resolver Resolver,
	gateway Gateway,
	args weathercall.WeatherArgs,
	ref time.Time,
) (weathercall.ResolvedDate, *weathercall.ForecastResult, error) {
	date := weathercall.ResolvedDate{Date: weathercall.Midnight(ref)}
	if expr := strings.TrimSpace(args.DatetimeExpression); expr != "" {
		var err error
		if date, err = resolver.Resolve(expr, ref); err != nil {
			return weathercall.ResolvedDate{}, nil, err
		}
	}
	forecast, err := gateway.Fetch(ctx, args.Location, date)
	if err != nil {
		return date, nil, err
	}
	return date, forecast, nil
}

func respond(
	callID, name string,
	forecast *weathercall.ForecastResult,
	failure error,
	ref time.Time,
) weathercall.ToolResponse {
	if failure != nil {
		return failureResponse(callID, name, failure)
	}
	return successResponse(callID, forecast, ref)
}

// Outcome is the result of a get_weather call made outside a model exchange.
type Outcome struct {
	Response     weathercall.ToolResponse
	ResolvedDate weathercall.ResolvedDate
	Forecast     *weathercall.ForecastResult

	// Err is the failure packaged into Response. It may carry provider detail and
	// belongs in logs only.
	Err error
}

// Execute answers one get_weather call exactly as an exchange would, for callers that
// drive the capability directly. ref is the reference instant for date resolution.
func Execute(
	ctx context.Context,
	resolver Resolver,
	gateway Gateway,
	callID string,
	args weathercall.WeatherArgs,
	ref time.Time,
) Outcome {
	args.Location = strings.TrimSpace(args.Location)
	args.DatetimeExpression = strings.TrimSpace(args.DatetimeExpression)

	date, forecast, err := fetch(ctx, resolver, gateway, args, ref)
	return Outcome{
		Response:     respond(callID, weathercall.CapabilityName, forecast, err, ref),
		ResolvedDate: date,
		Forecast:     forecast,
		Err:          err,
	}
}

func toRequest(call llms.ToolCall) weathercall.ToolCallRequest {
	req := weathercall.ToolCallRequest{ID: call.ID}
	if call.FunctionCall != nil {
		req.Name = call.FunctionCall.Name
		req.RawArguments = call.FunctionCall.Arguments
	}
	return req
}

// decodeArgs validates raw against the argument schema, then decodes it.
func decodeArgs(s *schema.Schema, raw string) (*weathercall.WeatherArgs, error) {
	data, err := s.ValidateJSON(raw)
	if err != nil {
		return nil, &weathercall.ArgumentError{Raw: raw, Err: err}
	}

	var args weathercall.WeatherArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &args,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, &weathercall.ArgumentError{Raw: raw, Err: err}
	}
	if err := dec.Decode(data); err != nil {
		return nil, &weathercall.ArgumentError{Raw: raw, Err: err}
	}

	args.Location = strings.TrimSpace(args.Location)
	args.DatetimeExpression = strings.TrimSpace(args.DatetimeExpression)
	return &args, nil
}

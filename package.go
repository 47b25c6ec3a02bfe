// Package weathercall answers natural-language weather questions through a single
// tool-calling round with a language model.
//
// For each utterance the model decides whether to request the get_weather capability.
// When it does, the temporal expression in the call is resolved to a calendar date,
// the forecast is fetched through the gateway, and the structured result is handed back
// so the model can phrase the final answer.
//
// # Quick Start
//
//	llm, _ := openai.New(openai.WithToken(apiKey), openai.WithModel("gpt-4.1-mini"))
//	model := models.NewLCGWrapper(llm).WithModelName("gpt-4.1-mini")
//
//	gateway := forecast.New(openmeteo.New(openmeteo.Options{}), forecast.Options{})
//	resolver := temporal.New(temporal.Options{})
//
//	orch := orchestrator.New(model, resolver, gateway, orchestrator.Options{})
//	result := orch.Ask(ctx, "What's the weather in London tomorrow?")
//	if result.Err != nil {
//	    return result.Err
//	}
//	fmt.Println(result.Answer)
//
// # Packages
//
//   - [github.com/rickchristie/weathercall/temporal]: resolves "tomorrow", "next Monday",
//     "2025-06-20" and similar expressions against an explicit reference instant.
//   - [github.com/rickchristie/weathercall/forecast]: geocodes, applies the forecast
//     horizon and fetches daily figures from a Provider.
//   - [github.com/rickchristie/weathercall/orchestrator]: the per-query state machine.
//   - [github.com/rickchristie/weathercall/hooks]: lifecycle hooks (logging, metrics).
//
// No state is shared between queries. An Orchestrator may serve concurrent queries.
package weathercall

package tools

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
)

// Register defines the direct-call tools with Genkit. Tools are registered
// unconditionally; which of them a given turn may use is decided later by
// the capability resolver, so registration stays independent of credential
// and connection state.
func Register(g *genkit.Genkit, h *Handler) {
	genkit.DefineTool(
		g,
		capability.ToolGetWeather,
		"Get current weather conditions for a city: temperature, condition, "+
			"humidity, and wind. Use whenever the user asks about weather.",
		func(ctx *ai.ToolContext, input WeatherInput) (Result, error) {
			return h.GetWeather(ctx, input), nil
		},
	)

	genkit.DefineTool(
		g,
		capability.ToolGetAirQuality,
		"Get the current air quality index (AQI) for a city with its health "+
			"category. Use when the user asks about air quality, pollution, or smog.",
		func(ctx *ai.ToolContext, input AirQualityInput) (Result, error) {
			return h.GetAirQuality(ctx, input), nil
		},
	)

	genkit.DefineTool(
		g,
		capability.ToolSearchWeb,
		"Search the web and return the top results as titles, URLs, and "+
			"snippets. Use for current events or anything outside your knowledge.",
		func(ctx *ai.ToolContext, input SearchInput) (Result, error) {
			return h.SearchWeb(ctx, input), nil
		},
	)

	genkit.DefineTool(
		g,
		capability.ToolFetchPage,
		"Download a web page and extract its readable text content. Use to "+
			"read an article or documentation page the user points you at.",
		func(ctx *ai.ToolContext, input FetchPageInput) (Result, error) {
			return h.FetchPage(ctx, input), nil
		},
	)
}

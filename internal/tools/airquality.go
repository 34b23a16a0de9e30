package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// AirQualityInput is the model-facing input schema for the getAirQuality
// tool.
type AirQualityInput struct {
	City string `json:"city" jsonschema_description:"City name, e.g. 'Bangkok'"`
}

// aqiResponse mirrors the WAQI feed response. The API reports failures
// in-band with status "error", so a 200 does not mean success.
type aqiResponse struct {
	Status string `json:"status"`
	Data   struct {
		AQI  int `json:"aqi"`
		City struct {
			Name string `json:"name"`
		} `json:"city"`
		Dominent string `json:"dominentpol"`
	} `json:"data"`
}

// aqiCategory translates a numeric AQI onto the standard bands.
func aqiCategory(aqi int) string {
	switch {
	case aqi <= 50:
		return "good"
	case aqi <= 100:
		return "moderate"
	case aqi <= 150:
		return "unhealthy for sensitive groups"
	case aqi <= 200:
		return "unhealthy"
	case aqi <= 300:
		return "very unhealthy"
	default:
		return "hazardous"
	}
}

// GetAirQuality fetches the current air quality index for a city from the
// World Air Quality Index feed.
func (h *Handler) GetAirQuality(ctx context.Context, in AirQualityInput) Result {
	city := strings.TrimSpace(in.City)
	if city == "" {
		return Failure(ErrCodeValidation, "A city is required. Ask the user which city they mean.", "")
	}
	if !h.airQuality.Configured() {
		return Failure(ErrCodeAuth,
			"Air quality lookups are not configured. Set AIR_QUALITY_API_TOKEN to enable them.", "")
	}

	endpoint := fmt.Sprintf("%s/%s/?token=%s",
		strings.TrimSuffix(h.airQuality.BaseURL, "/"),
		url.PathEscape(city),
		url.QueryEscape(h.airQuality.APIToken))

	var resp aqiResponse
	if err := h.getJSON(ctx, endpoint, h.airQuality.TimeoutMs, &resp); err != nil {
		h.logger.Warn("air quality lookup failed", "city", city, "error", err)
		return classifyFetchError(err, "air quality",
			fmt.Sprintf("I couldn't find an air quality station for %q.", city))
	}

	// WAQI signals unknown stations and bad tokens in the body.
	if resp.Status != "ok" {
		return Failure(ErrCodeNotFound,
			fmt.Sprintf("I couldn't find an air quality station for %q.", city),
			resp.Status)
	}

	aqi := resp.Data.AQI
	msg := fmt.Sprintf("Air quality in %s: AQI %d (%s)", resp.Data.City.Name, aqi, aqiCategory(aqi))

	return Success(msg, map[string]any{
		"station":            resp.Data.City.Name,
		"aqi":                aqi,
		"category":           aqiCategory(aqi),
		"dominant_pollutant": resp.Data.Dominent,
	})
}

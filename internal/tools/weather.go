package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// WeatherInput is the model-facing input schema for the getWeather tool.
type WeatherInput struct {
	Location string `json:"location" jsonschema_description:"City name, e.g. 'Bangkok' or 'Paris'"`
}

// weatherResponse mirrors the fields we use from WeatherAPI's
// /current.json endpoint.
type weatherResponse struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		TempF     float64 `json:"temp_f"`
		FeelsC    float64 `json:"feelslike_c"`
		Humidity  int     `json:"humidity"`
		WindKph   float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// GetWeather fetches current conditions for a location. Missing
// configuration and upstream failures are reported through the Result
// envelope, never as a Go error.
func (h *Handler) GetWeather(ctx context.Context, in WeatherInput) Result {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return Failure(ErrCodeValidation, "A location is required. Ask the user which city they mean.", "")
	}
	if !h.weather.Configured() {
		return Failure(ErrCodeAuth,
			"Weather lookups are not configured. Set WEATHER_API_KEY to enable them.", "")
	}

	endpoint := fmt.Sprintf("%s/current.json?key=%s&q=%s&aqi=no",
		strings.TrimSuffix(h.weather.BaseURL, "/"),
		url.QueryEscape(h.weather.APIKey),
		url.QueryEscape(location))

	var resp weatherResponse
	if err := h.getJSON(ctx, endpoint, h.weather.TimeoutMs, &resp); err != nil {
		h.logger.Warn("weather lookup failed", "location", location, "error", err)
		return classifyWeatherError(err, location)
	}

	msg := fmt.Sprintf("%s, %s: %s, %.1f°C (feels like %.1f°C), humidity %d%%, wind %.0f km/h",
		resp.Location.Name, resp.Location.Country,
		resp.Current.Condition.Text,
		resp.Current.TempC, resp.Current.FeelsC,
		resp.Current.Humidity, resp.Current.WindKph)

	return Success(msg, map[string]any{
		"location":    resp.Location.Name,
		"region":      resp.Location.Region,
		"country":     resp.Location.Country,
		"temp_c":      resp.Current.TempC,
		"temp_f":      resp.Current.TempF,
		"feelslike_c": resp.Current.FeelsC,
		"condition":   resp.Current.Condition.Text,
		"humidity":    resp.Current.Humidity,
		"wind_kph":    resp.Current.WindKph,
	})
}

// classifyWeatherError special-cases WeatherAPI's no-match response,
// which arrives as a 400 with error code 1006 rather than a 404.
func classifyWeatherError(err error, location string) Result {
	notFound := fmt.Sprintf("I couldn't find a location matching %q. Try a larger nearby city.", location)
	if he := asHTTPError(err); he != nil &&
		he.statusCode == http.StatusBadRequest &&
		strings.Contains(he.body, "1006") {
		return Failure(ErrCodeNotFound, notFound, he.body)
	}
	return classifyFetchError(err, "weather", notFound)
}

package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
)

func newTestHandler(weatherURL, aqiURL, searchURL string) *Handler {
	cfg := &config.Config{
		Weather: config.WeatherConfig{
			BaseURL:   weatherURL,
			APIKey:    "test-key",
			TimeoutMs: 2000,
		},
		AirQuality: config.AirQualityConfig{
			BaseURL:   aqiURL,
			APIToken:  "test-token",
			TimeoutMs: 2000,
		},
		Search: config.SearchConfig{
			BaseURL:    searchURL,
			MaxResults: 3,
			TimeoutMs:  2000,
		},
	}
	return NewHandler(cfg, log.NewNop())
}

func TestGetWeatherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Bangkok" {
			t.Errorf("q = %q, want %q", got, "Bangkok")
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want %q", got, "test-key")
		}
		w.Write([]byte(`{
			"location": {"name": "Bangkok", "region": "", "country": "Thailand"},
			"current": {
				"temp_c": 32.5, "temp_f": 90.5, "feelslike_c": 38.0,
				"humidity": 70, "wind_kph": 11.0,
				"condition": {"text": "Partly cloudy"}
			}
		}`))
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL, "", "")
	res := h.GetWeather(context.Background(), WeatherInput{Location: "Bangkok"})

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success (message: %s)", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "Bangkok") || !strings.Contains(res.Message, "Partly cloudy") {
		t.Errorf("Message = %q, missing location or condition", res.Message)
	}
	if res.Data["temp_c"] != 32.5 {
		t.Errorf("Data[temp_c] = %v, want 32.5", res.Data["temp_c"])
	}
}

func TestGetWeatherErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantCode   string
		wantInMsg  string
	}{
		{
			name:       "unknown location",
			statusCode: http.StatusNotFound,
			body:       `{"error": {"code": 1006, "message": "No matching location found."}}`,
			wantCode:   ErrCodeNotFound,
			wantInMsg:  "couldn't find a location",
		},
		{
			name:       "unknown location via 400",
			statusCode: http.StatusBadRequest,
			body:       `{"error": {"code": 1006, "message": "No matching location found."}}`,
			wantCode:   ErrCodeNotFound,
			wantInMsg:  "couldn't find a location",
		},
		{
			name:       "bad credential",
			statusCode: http.StatusUnauthorized,
			body:       `{"error": {"code": 2006, "message": "API key is invalid."}}`,
			wantCode:   ErrCodeAuth,
			wantInMsg:  "credential",
		},
		{
			name:       "upstream failure carries raw message",
			statusCode: http.StatusInternalServerError,
			body:       `{"error": {"message": "internal application error"}}`,
			wantCode:   ErrCodeUpstream,
			wantInMsg:  "internal application error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			h := newTestHandler(srv.URL, "", "")
			res := h.GetWeather(context.Background(), WeatherInput{Location: "Nowhereville"})

			if res.Status != StatusError {
				t.Fatalf("Status = %q, want error", res.Status)
			}
			if res.Error == nil {
				t.Fatal("Error is nil")
			}
			if res.Error.Code != tt.wantCode {
				t.Errorf("Error.Code = %q, want %q", res.Error.Code, tt.wantCode)
			}
			if !strings.Contains(res.Message, tt.wantInMsg) {
				t.Errorf("Message = %q, want it to contain %q", res.Message, tt.wantInMsg)
			}
		})
	}
}

func TestGetWeatherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL, "", "")
	h.weather.TimeoutMs = 50

	res := h.GetWeather(context.Background(), WeatherInput{Location: "Bangkok"})

	if res.Status != StatusError {
		t.Fatalf("Status = %q, want error", res.Status)
	}
	if res.Error.Code != ErrCodeNetwork {
		t.Errorf("Error.Code = %q, want %q", res.Error.Code, ErrCodeNetwork)
	}
}

func TestGetWeatherUnreachableHost(t *testing.T) {
	// A closed port: connection refused is a network error, not upstream.
	h := newTestHandler("http://127.0.0.1:1", "", "")

	res := h.GetWeather(context.Background(), WeatherInput{Location: "Bangkok"})

	if res.Status != StatusError {
		t.Fatalf("Status = %q, want error", res.Status)
	}
	if res.Error.Code != ErrCodeNetwork {
		t.Errorf("Error.Code = %q, want %q", res.Error.Code, ErrCodeNetwork)
	}
}

func TestGetWeatherUnconfigured(t *testing.T) {
	h := newTestHandler("http://example.invalid", "", "")
	h.weather.APIKey = ""

	res := h.GetWeather(context.Background(), WeatherInput{Location: "Bangkok"})

	if res.Status != StatusError {
		t.Fatalf("Status = %q, want error", res.Status)
	}
	if !strings.Contains(res.Message, "WEATHER_API_KEY") {
		t.Errorf("Message = %q, want mention of the missing variable", res.Message)
	}
}

func TestGetWeatherEmptyLocation(t *testing.T) {
	h := newTestHandler("http://example.invalid", "", "")

	res := h.GetWeather(context.Background(), WeatherInput{Location: "   "})

	if res.Status != StatusError || res.Error.Code != ErrCodeValidation {
		t.Fatalf("got status %q code %v, want validation error", res.Status, res.Error)
	}
}

func TestGetAirQuality(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantOK    bool
		wantInMsg string
	}{
		{
			name:      "station found",
			body:      `{"status": "ok", "data": {"aqi": 154, "city": {"name": "Chiang Mai"}, "dominentpol": "pm25"}}`,
			wantOK:    true,
			wantInMsg: "AQI 154",
		},
		{
			name:      "unknown station reported in-band",
			body:      `{"status": "error", "data": null}`,
			wantOK:    false,
			wantInMsg: "couldn't find an air quality station",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			h := newTestHandler("", srv.URL, "")
			res := h.GetAirQuality(context.Background(), AirQualityInput{City: "Chiang Mai"})

			if got := res.Status == StatusSuccess; got != tt.wantOK {
				t.Fatalf("success = %v, want %v (message: %s)", got, tt.wantOK, res.Message)
			}
			if !strings.Contains(res.Message, tt.wantInMsg) {
				t.Errorf("Message = %q, want it to contain %q", res.Message, tt.wantInMsg)
			}
		})
	}
}

func TestAQICategory(t *testing.T) {
	tests := []struct {
		aqi  int
		want string
	}{
		{0, "good"},
		{50, "good"},
		{51, "moderate"},
		{150, "unhealthy for sensitive groups"},
		{151, "unhealthy"},
		{250, "very unhealthy"},
		{400, "hazardous"},
	}
	for _, tt := range tests {
		if got := aqiCategory(tt.aqi); got != tt.want {
			t.Errorf("aqiCategory(%d) = %q, want %q", tt.aqi, got, tt.want)
		}
	}
}

func TestSearchWeb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		w.Write([]byte(`{"results": [
			{"title": "First", "url": "https://a.example", "content": "aaa"},
			{"title": "Second", "url": "https://b.example", "content": "bbb"},
			{"title": "Third", "url": "https://c.example", "content": "ccc"},
			{"title": "Fourth", "url": "https://d.example", "content": "ddd"}
		]}`))
	}))
	defer srv.Close()

	h := newTestHandler("", "", srv.URL)
	res := h.SearchWeb(context.Background(), SearchInput{Query: "go generics"})

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success (message: %s)", res.Status, res.Message)
	}
	results, ok := res.Data["results"].([]map[string]any)
	if !ok {
		t.Fatalf("Data[results] has type %T", res.Data["results"])
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3 (max_results cap)", len(results))
	}
	if !strings.Contains(res.Message, "First") {
		t.Errorf("Message = %q, want first result title", res.Message)
	}
}

func TestSearchWebNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	h := newTestHandler("", "", srv.URL)
	res := h.SearchWeb(context.Background(), SearchInput{Query: "xyzzy"})

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success for empty result set", res.Status)
	}
	if !strings.Contains(res.Message, "No results") {
		t.Errorf("Message = %q, want no-results phrasing", res.Message)
	}
}

func TestSearchWebUnconfigured(t *testing.T) {
	h := newTestHandler("", "", "")

	res := h.SearchWeb(context.Background(), SearchInput{Query: "anything"})

	if res.Status != StatusError || res.Error.Code != ErrCodeAuth {
		t.Fatalf("got status %q error %v, want auth error", res.Status, res.Error)
	}
}

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!DOCTYPE html>
<html><head><title>Streaming Guide</title></head>
<body>
<nav>skip me</nav>
<article>
<h1>Streaming responses</h1>
<p>Call the run method with stream enabled to receive incremental events
as the model produces them. Each event carries a delta you can forward
to the client as soon as it arrives, which keeps perceived latency low
for long generations.</p>
<p>Remember to flush the transport after every delta.</p>
</article>
<script>console.log("noise")</script>
</body></html>`))
	}))
	defer srv.Close()

	h := newTestHandler("", "", "")
	allowLoopback(h)
	res := h.FetchPage(context.Background(), FetchPageInput{URL: srv.URL + "/guide"})

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success (message: %s)", res.Status, res.Message)
	}
	text, _ := res.Data["text"].(string)
	if !strings.Contains(text, "stream enabled") {
		t.Errorf("extracted text missing article body: %q", text)
	}
	if strings.Contains(text, "console.log") {
		t.Errorf("extracted text includes script content: %q", text)
	}
}

// allowLoopback disables the SSRF guard so tests can fetch from httptest
// servers on 127.0.0.1.
func allowLoopback(h *Handler) {
	h.guard = nil
	h.fetchClient = nil
}

func TestFetchPageBlocksInternalTargets(t *testing.T) {
	h := newTestHandler("", "", "")

	for _, raw := range []string{
		"http://169.254.169.254/latest/meta-data",
		"http://localhost:8080/admin",
		"http://192.168.1.1/router",
	} {
		res := h.FetchPage(context.Background(), FetchPageInput{URL: raw})
		if res.Status != StatusError || res.Error.Code != ErrCodeValidation {
			t.Errorf("FetchPage(%q) = %v %v, want validation error", raw, res.Status, res.Error)
		}
	}
}

func TestFetchPageRejectsNonHTTP(t *testing.T) {
	h := newTestHandler("", "", "")

	for _, raw := range []string{"", "ftp://example.com/file", "file:///etc/passwd", "not a url"} {
		res := h.FetchPage(context.Background(), FetchPageInput{URL: raw})
		if res.Status != StatusError || res.Error.Code != ErrCodeValidation {
			t.Errorf("FetchPage(%q) = %v, want validation error", raw, res.Status)
		}
	}
}

func TestFetchPageNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	h := newTestHandler("", "", "")
	allowLoopback(h)
	res := h.FetchPage(context.Background(), FetchPageInput{URL: srv.URL + "/missing"})

	if res.Status != StatusError {
		t.Fatalf("Status = %q, want error", res.Status)
	}
	if res.Error.Code != ErrCodeNotFound {
		t.Errorf("Error.Code = %q, want %q", res.Error.Code, ErrCodeNotFound)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{"short string untouched", "héllo", 10, "héllo"},
		{"ascii boundary", "hello", 3, "hel"},
		{"cut inside two-byte rune backs up", "aé", 2, "a"},
		{"cut at rune start", "日本語", 3, "日"},
		{"cut inside three-byte rune backs up", "日本語", 4, "日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.s, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/security"
)

// maxResponseBytes caps how much of an upstream body we read. Weather and
// search APIs return small JSON payloads; anything bigger is misbehaving.
const maxResponseBytes = 4 << 20

// Handler owns the HTTP clients and per-service configuration for the
// direct-call tools. One Handler is shared by all tool functions; it is
// safe for concurrent use.
type Handler struct {
	client     *http.Client
	weather    config.WeatherConfig
	airQuality config.AirQualityConfig
	search     config.SearchConfig
	logger     log.Logger

	// fetchPage follows model-supplied URLs, so its client and guard
	// block private and metadata targets. The operator-configured API
	// endpoints use the plain client.
	guard       *security.URLGuard
	fetchClient *http.Client
}

// NewHandler creates a Handler from the loaded configuration.
func NewHandler(cfg *config.Config, logger log.Logger) *Handler {
	if logger == nil {
		logger = log.NewNop()
	}
	guard := security.NewURLGuard()
	return &Handler{
		client:      &http.Client{Timeout: 30 * time.Second},
		weather:     cfg.Weather,
		airQuality:  cfg.AirQuality,
		search:      cfg.Search,
		logger:      logger,
		guard:       guard,
		fetchClient: guard.Client(30 * time.Second),
	}
}

// httpError is an upstream HTTP failure carrying the status code and the
// raw response body so callers can map it onto the Result envelope.
type httpError struct {
	statusCode int
	body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.statusCode, e.body)
}

// getJSON performs a GET with a per-call timeout and decodes the JSON
// response into out. Non-2xx responses come back as *httpError; transport
// failures and timeouts come back as-is for classification by the caller.
func (h *Handler) getJSON(ctx context.Context, rawURL string, timeoutMs int, out any) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{statusCode: resp.StatusCode, body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// asHTTPError unwraps err to an *httpError, or returns nil.
func asHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// isNetworkError reports whether err is a transport-level failure or a
// timeout, as opposed to an HTTP response with an error status.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// classifyFetchError maps an upstream failure onto the Result envelope
// using the shared contract for direct HTTP tools:
//
//	404              -> "not found" with the caller's notFound message
//	401, 403         -> invalid or missing credential
//	timeout/transport -> fetch error
//	anything else    -> generic failure carrying the raw upstream message
func classifyFetchError(err error, service, notFound string) Result {
	var he *httpError
	if errors.As(err, &he) {
		switch he.statusCode {
		case http.StatusNotFound:
			return Failure(ErrCodeNotFound, notFound, he.body)
		case http.StatusUnauthorized, http.StatusForbidden:
			return Failure(ErrCodeAuth,
				fmt.Sprintf("The %s service rejected the configured credential. Check the API key.", service),
				he.body)
		default:
			return Failure(ErrCodeUpstream,
				fmt.Sprintf("The %s service returned an error: %s", service, he.body),
				he.body)
		}
	}
	if isNetworkError(err) {
		return Failure(ErrCodeNetwork,
			fmt.Sprintf("Could not reach the %s service. It may be down or the network may be unavailable.", service),
			err.Error())
	}
	return Failure(ErrCodeInternal,
		fmt.Sprintf("The %s lookup failed: %s", service, err.Error()),
		err.Error())
}

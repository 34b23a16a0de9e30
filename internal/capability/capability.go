// Package capability derives what the assistant can currently do from
// provider state and configured credentials, and turns that into the
// instruction text and tool list handed to the model runtime.
//
// Two gating rules coexist, inherited from the original design:
//   - MCP-backed domains (documentation) are available iff a backing
//     provider is currently connected.
//   - Direct-HTTP domains (weather, air quality, web search) are available
//     iff their credential or base URL is configured; no liveness probe is
//     made, so a configured-but-down API still counts as available until a
//     call fails.
//
// The resolver is pure: every call re-reads the registry, nothing is cached.
package capability

// Capability domain names. These are the logical groupings the instruction
// templates and tool tables key on, not provider names: one domain may be
// backed by several providers.
const (
	DomainWeather       = "weather"
	DomainAirQuality    = "air_quality"
	DomainWebSearch     = "web_search"
	DomainDocumentation = "documentation"
)

// Set is the boolean availability map computed on demand. It is derived
// state: never stored, rebuilt whenever instructions are.
type Set struct {
	Weather       bool
	AirQuality    bool
	WebSearch     bool
	Documentation bool
}

// Enabled reports availability for a domain name. Unknown domains are
// never available.
func (s Set) Enabled(domain string) bool {
	switch domain {
	case DomainWeather:
		return s.Weather
	case DomainAirQuality:
		return s.AirQuality
	case DomainWebSearch:
		return s.WebSearch
	case DomainDocumentation:
		return s.Documentation
	default:
		return false
	}
}

// Any reports whether at least one capability is available.
func (s Set) Any() bool {
	return s.Weather || s.AirQuality || s.WebSearch || s.Documentation
}

// Credentials carries the configured secrets and endpoints that gate the
// direct-HTTP domains. Presence is the whole check; values are never used
// here beyond an emptiness test.
type Credentials struct {
	WeatherAPIKey   string
	AirQualityToken string
	SearchBaseURL   string
}

// registryView is the slice of the provider registry the resolver needs.
// Satisfied by *provider.Registry.
type registryView interface {
	DomainConnected(domain string) bool
}

// Resolve computes the availability set from the registry snapshot and the
// configured credentials at call time.
func Resolve(reg registryView, creds Credentials) Set {
	set := Set{
		Weather:    creds.WeatherAPIKey != "",
		AirQuality: creds.AirQualityToken != "",
		WebSearch:  creds.SearchBaseURL != "",
	}
	if reg != nil {
		set.Documentation = reg.DomainConnected(DomainDocumentation)
	}
	return set
}

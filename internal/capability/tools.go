package capability

// Direct-tool names as registered with the runtime. Single source of truth
// for the domain → tool mapping; the tools package registers under exactly
// these names and a test cross-checks the two.
const (
	ToolGetWeather    = "getWeather"
	ToolGetAirQuality = "getAirQuality"
	ToolSearchWeb     = "searchWeb"
	ToolFetchPage     = "fetchPage"
)

// toolTable maps each direct domain to its tool names in declaration order.
// MCP-backed domains deliberately contribute nothing here: their tools are
// enumerated by the MCP host itself, not by this system.
var toolTable = []struct {
	domain string
	names  []string
}{
	{DomainWeather, []string{ToolGetWeather}},
	{DomainAirQuality, []string{ToolGetAirQuality}},
	{DomainWebSearch, []string{ToolSearchWeb, ToolFetchPage}},
}

// SelectToolNames returns the direct-tool names for every available domain,
// in stable declaration order. The order is not semantically significant to
// the runtime; stability just keeps logs and tests deterministic.
func SelectToolNames(set Set) []string {
	var names []string
	for _, row := range toolTable {
		if set.Enabled(row.domain) {
			names = append(names, row.names...)
		}
	}
	return names
}

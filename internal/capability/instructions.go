package capability

import "strings"

// Variant selects the base persona for instruction building. Variants exist
// for developer ergonomics (running a narrowed agent while iterating on one
// capability); they do not change gating, only which guidance blocks are
// considered relevant.
type Variant string

const (
	// VariantGeneral is the full assistant persona.
	VariantGeneral Variant = "general"

	// VariantWeatherOnly narrows guidance to the weather domain.
	VariantWeatherOnly Variant = "weather"

	// VariantChatOnly includes no domain guidance at all.
	VariantChatOnly Variant = "chat"
)

// MaxHistoryTail bounds how many prior-turn entries BuildInstructions
// appends verbatim.
const MaxHistoryTail = 6

const basePersona = `You are a friendly, concise voice assistant. Answer in short,
spoken-style sentences. When a tool can answer the user's question, call it
instead of guessing. If a requested capability is unavailable, say so briefly
and offer what you can do instead.`

const weatherOnlyPersona = `You are a weather assistant. You only answer questions about
current weather conditions. Politely decline anything else.`

const chatOnlyPersona = `You are a friendly, concise voice assistant. You currently have
no external tools; answer from general knowledge and say so when freshness
matters.`

// guidance is the declarative domain → instruction-block table. Iterated in
// declaration order so output is deterministic; nothing else in the build
// path branches on capability state.
var guidance = []struct {
	domain string
	block  string
}{
	{
		domain: DomainWeather,
		block: `Weather: use the getWeather tool for current conditions.
Call it whenever the user names a place and asks about weather, e.g.
"what's it like in Bangkok right now". Report temperature and conditions
in one sentence.`,
	},
	{
		domain: DomainAirQuality,
		block: `Air quality: use the getAirQuality tool for AQI readings.
Trigger on questions like "is the air bad in Chiang Mai today". Mention
the AQI number and a plain-language rating.`,
	},
	{
		domain: DomainWebSearch,
		block: `Web search: use the searchWeb tool for fresh facts you may be
out of date on (news, prices, schedules). Summarize the top results;
never read URLs aloud. Use fetchPage to read a specific article or
documentation page in full.`,
	},
	{
		domain: DomainDocumentation,
		block: `Documentation: documentation lookup tools are connected. Use
them when the user asks about a library or API, e.g. "how do I stream
responses with the agents SDK". Quote the docs rather than recalling
from memory.`,
	},
}

// relevantDomains returns which guidance blocks a variant considers.
func (v Variant) relevantDomains() map[string]bool {
	switch v {
	case VariantWeatherOnly:
		return map[string]bool{DomainWeather: true}
	case VariantChatOnly:
		return map[string]bool{}
	default:
		return map[string]bool{
			DomainWeather:       true,
			DomainAirQuality:    true,
			DomainWebSearch:     true,
			DomainDocumentation: true,
		}
	}
}

func (v Variant) persona() string {
	switch v {
	case VariantWeatherOnly:
		return weatherOnlyPersona
	case VariantChatOnly:
		return chatOnlyPersona
	default:
		return basePersona
	}
}

// BuildInstructions assembles the system instruction text for the agent
// runtime: base persona, one guidance block per available-and-relevant
// domain in fixed order, then a bounded tail of prior-turn history verbatim.
//
// Pure string assembly. Identical inputs produce byte-identical output; no
// timestamps, no randomness.
func BuildInstructions(set Set, variant Variant, history []string) string {
	var b strings.Builder
	b.WriteString(variant.persona())

	relevant := variant.relevantDomains()
	for _, g := range guidance {
		if relevant[g.domain] && set.Enabled(g.domain) {
			b.WriteString("\n\n")
			b.WriteString(g.block)
		}
	}

	if len(history) > 0 {
		tail := history
		if len(tail) > MaxHistoryTail {
			tail = tail[len(tail)-MaxHistoryTail:]
		}
		b.WriteString("\n\nRecent conversation:")
		for _, line := range tail {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}

	return b.String()
}

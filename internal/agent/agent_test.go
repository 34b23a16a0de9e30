package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/provider"
)

func TestNewValidation(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, ErrNilGenkit) {
		t.Errorf("New(empty) error = %v, want ErrNilGenkit", err)
	}
}

func TestExecuteRejectsEmptyInput(t *testing.T) {
	// Validation happens before any runtime access, so a nil Genkit
	// pointer inside the struct is fine here.
	a := &Agent{}

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := a.Execute(context.Background(), input, nil); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Execute(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestCapabilitiesFollowRegistryState(t *testing.T) {
	reg := provider.NewRegistry()
	cfg := provider.Config{
		Name:    "docs",
		Domain:  capability.DomainDocumentation,
		Command: "npx",
	}
	if err := reg.Register(cfg); err != nil {
		t.Fatal(err)
	}

	a := &Agent{
		registry: reg,
		creds:    capability.Credentials{WeatherAPIKey: "k"},
	}

	set := a.Capabilities()
	if !set.Weather {
		t.Error("Weather = false with credential present")
	}
	if set.Documentation {
		t.Error("Documentation = true before connection")
	}

	if err := reg.SetConnected("docs", true, ""); err != nil {
		t.Fatal(err)
	}
	if set = a.Capabilities(); !set.Documentation {
		t.Error("Documentation = false after connection")
	}
}

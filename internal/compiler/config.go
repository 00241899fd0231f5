package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/owl-lang/owlc/internal/diagnostic"
)

// ConfigFile is the project configuration file name, looked up in the
// working directory.
const ConfigFile = "owl.yaml"

// Config represents the top-level owl.yaml configuration.
type Config struct {
	// Output is the default output path for build, when -o is not given.
	Output string `yaml:"output,omitempty"`

	// Python is the interpreter used by run. Defaults to "python3".
	Python string `yaml:"python,omitempty"`

	// DisabledWarnings lists warning codes (e.g. "W0101") that are
	// dropped from reports. Error codes cannot be disabled.
	DisabledWarnings []string `yaml:"disabled_warnings,omitempty"`
}

// LoadConfig reads and parses an owl.yaml file. A missing file is not
// an error: it returns an empty config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// FilterDiagnostics drops disabled warnings from a diagnostic set.
// Errors always pass through.
func (c *Config) FilterDiagnostics(diags *diagnostic.Diagnostics) *diagnostic.Diagnostics {
	if c == nil || len(c.DisabledWarnings) == 0 {
		return diags
	}

	disabled := make(map[diagnostic.Code]bool, len(c.DisabledWarnings))
	for _, code := range c.DisabledWarnings {
		disabled[diagnostic.Code(code)] = true
	}

	out := diagnostic.New()
	for _, d := range diags.All() {
		if d.Severity == diagnostic.Warning && disabled[d.Code] {
			continue
		}
		out.Add(d)
	}
	return out
}

package config

import "time"

// Config is the on-disk configuration. Zero values mean "not set" and leave
// the lower layer in place when configs are merged.
type Config struct {
	RefreshInterval time.Duration                `yaml:"refreshInterval,omitempty"`
	ProbeTimeout    time.Duration                `yaml:"probeTimeout,omitempty"`
	MaxWorkers      int                          `yaml:"maxWorkers,omitempty"`
	ProjectRoot     string                       `yaml:"projectRoot,omitempty"`
	Android         AndroidConfig                `yaml:"android,omitempty"`
	JavaVersion     string                       `yaml:"javaVersion,omitempty"`
	Ports           []int                        `yaml:"ports,omitempty"`
	Projects        []ProjectConfig              `yaml:"projects,omitempty"`
	MinFreeGB       uint64                       `yaml:"minFreeGB,omitempty"`
	Remediations    map[string]RemediationConfig `yaml:"remediations,omitempty"`
}

type AndroidConfig struct {
	Home       string `yaml:"home,omitempty"`
	Platform   string `yaml:"platform,omitempty"`
	BuildTools string `yaml:"buildTools,omitempty"`
}

type ProjectConfig struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// RemediationConfig overrides or adds the fix offered for a row label.
// Command is a shell-style string, e.g. `brew install --cask zulu@17`.
type RemediationConfig struct {
	Description string `yaml:"description"`
	Command     string `yaml:"command,omitempty"`
}

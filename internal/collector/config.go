package collector

import (
	"fmt"
	"time"
)

// Project is a checkout the Projects section expects under ProjectRoot.
type Project struct {
	Label string
	Path  string
}

// CollectorConfig contains configurable parameters for the probe collector.
// Use DefaultCollectorConfig() to get sensible defaults, then override as needed.
type CollectorConfig struct {
	// Scheduling
	ProbeTimeout    time.Duration // Deadline for each probe (default: 3s)
	RefreshInterval time.Duration // Pause between the end of one refresh and the next (default: 2s)
	MaxWorkers      int           // Probes allowed to run at once (default: 8)

	// Locations
	ProjectRoot string    // Repository root the project paths are relative to (default: ".")
	AndroidHome string    // Overrides $ANDROID_HOME when set
	Projects    []Project // Checkouts expected under ProjectRoot

	// Toolchain expectations
	AndroidPlatform string // SDK platform package (default: "android-34")
	BuildTools      string // Build tools version (default: "34.0.0")
	JavaVersion     string // JDK version passed to java_home (default: "17")

	Ports     []int  // Dev stack ports (default: 3000, 3001, 3100)
	MinFreeGB uint64 // Disk free space below which the disk row warns (default: 5)
}

// DefaultCollectorConfig returns a CollectorConfig with sensible defaults.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		ProbeTimeout:    3 * time.Second,
		RefreshInterval: 2 * time.Second,
		MaxWorkers:      8,

		ProjectRoot: ".",
		Projects: []Project{
			{Label: "shopper-lab", Path: "frontend/nativescript/shopper-lab"},
			{Label: "brand-lab", Path: "frontend/nativescript/brand-lab"},
		},

		AndroidPlatform: "android-34",
		BuildTools:      "34.0.0",
		JavaVersion:     "17",

		Ports:     []int{3000, 3001, 3100},
		MinFreeGB: 5,
	}
}

// WithProbeTimeout returns a copy of the config with a modified probe timeout.
func (c CollectorConfig) WithProbeTimeout(d time.Duration) CollectorConfig {
	c.ProbeTimeout = d
	return c
}

// WithRefreshInterval returns a copy of the config with a modified refresh interval.
func (c CollectorConfig) WithRefreshInterval(d time.Duration) CollectorConfig {
	c.RefreshInterval = d
	return c
}

// WithMaxWorkers returns a copy of the config with a modified worker limit.
func (c CollectorConfig) WithMaxWorkers(n int) CollectorConfig {
	c.MaxWorkers = n
	return c
}

// WithProjectRoot returns a copy of the config rooted at dir.
func (c CollectorConfig) WithProjectRoot(dir string) CollectorConfig {
	c.ProjectRoot = dir
	return c
}

// WithAndroidHome returns a copy of the config with an explicit SDK location.
func (c CollectorConfig) WithAndroidHome(dir string) CollectorConfig {
	c.AndroidHome = dir
	return c
}

// WithPorts returns a copy of the config checking the given ports.
func (c CollectorConfig) WithPorts(ports ...int) CollectorConfig {
	c.Ports = append([]int(nil), ports...)
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c CollectorConfig) Validate() error {
	if c.ProbeTimeout <= 0 {
		return &ConfigError{Field: "ProbeTimeout", Message: "must be positive"}
	}
	if c.RefreshInterval <= 0 {
		return &ConfigError{Field: "RefreshInterval", Message: "must be positive"}
	}
	if c.MaxWorkers <= 0 {
		return &ConfigError{Field: "MaxWorkers", Message: "must be positive"}
	}
	if c.ProjectRoot == "" {
		return &ConfigError{Field: "ProjectRoot", Message: "must not be empty"}
	}
	for _, p := range c.Ports {
		if p <= 0 || p > 65535 {
			return &ConfigError{Field: "Ports", Message: fmt.Sprintf("%d is out of range", p)}
		}
	}
	for _, p := range c.Projects {
		if p.Label == "" || p.Path == "" {
			return &ConfigError{Field: "Projects", Message: "entries need a label and a path"}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

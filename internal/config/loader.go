package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"labdoctor/internal/collector"
	"labdoctor/internal/engine"
	"labdoctor/pkg/logging"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/labdoctor"
	projectConfigDir = ".labdoctor"
	configFileName   = "config.yaml"
)

// LoadError reports a config file that exists but could not be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Default returns the built-in configuration.
func Default() Config {
	d := collector.DefaultCollectorConfig()
	cfg := Config{
		RefreshInterval: d.RefreshInterval,
		ProbeTimeout:    d.ProbeTimeout,
		MaxWorkers:      d.MaxWorkers,
		ProjectRoot:     d.ProjectRoot,
		Android: AndroidConfig{
			Platform:   d.AndroidPlatform,
			BuildTools: d.BuildTools,
		},
		JavaVersion: d.JavaVersion,
		Ports:       d.Ports,
		MinFreeGB:   d.MinFreeGB,
	}
	for _, p := range d.Projects {
		cfg.Projects = append(cfg.Projects, ProjectConfig{Label: p.Label, Path: p.Path})
	}
	return cfg
}

// Load layers the default, user and project configuration, then the file
// given on the command line. Missing files are skipped; an explicitPath
// that does not exist is an error.
func Load(explicitPath string) (Config, error) {
	cfg := Default()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine user config path: %v", err)
	} else if cfg, err = mergeFileIfExists(cfg, userConfigPath); err != nil {
		return Config{}, err
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine project config path: %v", err)
	} else if cfg, err = mergeFileIfExists(cfg, projectConfigPath); err != nil {
		return Config{}, err
	}

	if explicitPath != "" {
		overlay, err := loadConfigFromFile(explicitPath)
		if err != nil {
			return Config{}, &LoadError{Path: explicitPath, Err: err}
		}
		cfg = mergeConfigs(cfg, overlay)
	}

	return cfg, nil
}

func mergeFileIfExists(base Config, path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, &LoadError{Path: path, Err: err}
	}
	logging.Debug("Config", "Loaded %s", path)
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.RefreshInterval != 0 {
		merged.RefreshInterval = overlay.RefreshInterval
	}
	if overlay.ProbeTimeout != 0 {
		merged.ProbeTimeout = overlay.ProbeTimeout
	}
	if overlay.MaxWorkers != 0 {
		merged.MaxWorkers = overlay.MaxWorkers
	}
	if overlay.ProjectRoot != "" {
		merged.ProjectRoot = overlay.ProjectRoot
	}
	if overlay.Android.Home != "" {
		merged.Android.Home = overlay.Android.Home
	}
	if overlay.Android.Platform != "" {
		merged.Android.Platform = overlay.Android.Platform
	}
	if overlay.Android.BuildTools != "" {
		merged.Android.BuildTools = overlay.Android.BuildTools
	}
	if overlay.JavaVersion != "" {
		merged.JavaVersion = overlay.JavaVersion
	}
	if overlay.MinFreeGB != 0 {
		merged.MinFreeGB = overlay.MinFreeGB
	}

	// Lists replace rather than append so a project can narrow the checks
	if overlay.Ports != nil {
		merged.Ports = overlay.Ports
	}
	if overlay.Projects != nil {
		merged.Projects = overlay.Projects
	}

	if len(overlay.Remediations) > 0 {
		rems := make(map[string]RemediationConfig, len(base.Remediations)+len(overlay.Remediations))
		for k, v := range base.Remediations {
			rems[k] = v
		}
		for k, v := range overlay.Remediations {
			rems[k] = v
		}
		merged.Remediations = rems
	}

	return merged
}

// CollectorConfig converts the file settings into collector settings.
func (c Config) CollectorConfig() collector.CollectorConfig {
	cc := collector.DefaultCollectorConfig()
	cc.RefreshInterval = c.RefreshInterval
	cc.ProbeTimeout = c.ProbeTimeout
	cc.MaxWorkers = c.MaxWorkers
	cc.ProjectRoot = c.ProjectRoot
	cc.AndroidHome = c.Android.Home
	cc.AndroidPlatform = c.Android.Platform
	cc.BuildTools = c.Android.BuildTools
	cc.JavaVersion = c.JavaVersion
	cc.Ports = append([]int(nil), c.Ports...)
	cc.MinFreeGB = c.MinFreeGB
	cc.Projects = nil
	for _, p := range c.Projects {
		cc.Projects = append(cc.Projects, collector.Project{Label: p.Label, Path: p.Path})
	}
	return cc
}

// RemediationOverrides parses the configured remediations.
func (c Config) RemediationOverrides() (engine.Remediations, error) {
	out := make(engine.Remediations, len(c.Remediations))
	for label, rc := range c.Remediations {
		var command []string
		if rc.Command != "" {
			parts, err := shlex.Split(rc.Command)
			if err != nil {
				return nil, fmt.Errorf("remediation %q: parse command %q: %w", label, rc.Command, err)
			}
			command = parts
		}
		out[label] = engine.Remediation{Description: rc.Description, Command: command}
	}
	return out, nil
}

package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"labdoctor/internal/collector/probes"
	"labdoctor/internal/health"
)

// Section titles of the default registry, in display order.
const (
	SectionSystem   = "System"
	SectionAndroid  = "Android"
	SectionIOS      = "iOS"
	SectionPorts    = "Ports"
	SectionProjects = "Projects"
)

// Entry places a probe in a named section.
type Entry struct {
	Section string
	Probe   probes.Probe
}

// Registry is an ordered list of probes grouped into sections. Sections
// appear in the order their first probe was added; rows keep insertion order.
type Registry struct {
	entries []Entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Add(section string, ps ...probes.Probe) *Registry {
	for _, p := range ps {
		r.entries = append(r.entries, Entry{Section: section, Probe: p})
	}
	return r
}

func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Sections returns the section titles in display order.
func (r *Registry) Sections() []string {
	var titles []string
	seen := make(map[string]bool)
	for _, e := range r.entries {
		if !seen[e.Section] {
			seen[e.Section] = true
			titles = append(titles, e.Section)
		}
	}
	return titles
}

// Env is the part of the process environment the default registry reads.
type Env struct {
	LookupEnv   func(string) (string, bool)
	UserHomeDir func() (string, error)
	GOOS        string
}

func OSEnv() Env {
	return Env{
		LookupEnv:   os.LookupEnv,
		UserHomeDir: os.UserHomeDir,
		GOOS:        runtime.GOOS,
	}
}

// DefaultRegistry builds the standard lab checks. It fails only when the
// Android SDK location or the project root cannot be resolved at all.
func DefaultRegistry(cfg CollectorConfig, env Env) (*Registry, error) {
	androidHome, err := ResolveAndroidHome(cfg, env)
	if err != nil {
		return nil, &CollectionError{Op: "resolve ANDROID_HOME", Err: err}
	}
	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, &CollectionError{Op: "resolve project root", Err: err}
	}

	reg := NewRegistry()

	reg.Add(SectionSystem,
		probes.NewHostProbe(),
		probes.NewCommandProbe("node", "node", "-v"),
		probes.NewCommandProbe("npm", "npm", "-v"),
		probes.NewCommandProbe("java", "/usr/libexec/java_home", "-v", cfg.JavaVersion).
			OnFailure(health.StateWarn, fmt.Sprintf("Java %s not detected", cfg.JavaVersion)),
		probes.NewCommandProbe("docker", "docker", "info", "--format", "{{.ServerVersion}}").
			OnFailure(health.StateWarn, "daemon not running"),
		probes.NewDiskProbe(root, cfg.MinFreeGB),
	)

	platform := "platforms;" + cfg.AndroidPlatform
	buildTools := "build-tools;" + cfg.BuildTools
	reg.Add(SectionAndroid,
		probes.NewPathProbe("ANDROID_HOME", androidHome).
			OnMissing(health.StateFail, "missing: "+androidHome),
		probes.NewPathProbe("sdkmanager", SDKManagerPath(androidHome)).
			OnFound("found").OnMissing(health.StateWarn, "missing"),
		sdkPackage("platform-tools", filepath.Join(androidHome, "platform-tools")),
		sdkPackage(platform, filepath.Join(androidHome, "platforms", cfg.AndroidPlatform)),
		sdkPackage(buildTools, filepath.Join(androidHome, "build-tools", cfg.BuildTools)),
		probes.NewCommandProbe("adb", "adb", "version").
			WithParser(probes.ParseADBVersion).
			OnFailure(health.StateWarn, "adb unavailable"),
		probes.NewDeviceProbe("adb devices", probes.ParseADBDevices, "adb", "devices", "-l"),
	)

	reg.Add(SectionIOS,
		probes.NewCommandProbe("xcode-select", "xcode-select", "-p").
			OnFailure(health.StateWarn, "not configured"),
		probes.NewCommandProbe("cocoapods", "pod", "--version").
			OnFailure(health.StateWarn, "not installed"),
		probes.NewDeviceProbe("simulators", probes.ParseBootedSimulators, "xcrun", "simctl", "list", "devices", "booted"),
	)

	for _, port := range cfg.Ports {
		reg.Add(SectionPorts, probes.NewPortProbe(port))
	}

	for _, p := range cfg.Projects {
		reg.Add(SectionProjects, probes.NewPathProbe(p.Label, filepath.Join(root, p.Path)))
	}

	return reg, nil
}

func sdkPackage(label, path string) probes.Probe {
	return probes.NewPathProbe(label, path).
		OnFound("installed").
		OnMissing(health.StateWarn, "missing")
}

// SDKManagerPath is where the command-line tools install sdkmanager.
func SDKManagerPath(androidHome string) string {
	return filepath.Join(androidHome, "cmdline-tools", "latest", "bin", "sdkmanager")
}

// ResolveAndroidHome picks the SDK location: the configured one, then
// $ANDROID_HOME, then the Android Studio default under the home directory.
func ResolveAndroidHome(cfg CollectorConfig, env Env) (string, error) {
	if cfg.AndroidHome != "" {
		return cfg.AndroidHome, nil
	}
	if v, ok := env.LookupEnv("ANDROID_HOME"); ok && v != "" {
		return v, nil
	}
	home, err := env.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("ANDROID_HOME is unset and the home directory is unknown: %w", err)
	}
	if env.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Android", "sdk"), nil
	}
	return filepath.Join(home, "Android", "Sdk"), nil
}

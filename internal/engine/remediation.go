package engine

import (
	"fmt"

	"labdoctor/internal/collector"
)

// Remediation is the suggested fix for an unhealthy row. Command is
// optional; without it the description is the whole advice.
type Remediation struct {
	Description string
	Command     []string
}

// Remediations maps a row label to its remediation.
type Remediations map[string]Remediation

// Merge returns a copy of r with every entry of overrides applied on top.
func (r Remediations) Merge(overrides Remediations) Remediations {
	out := make(Remediations, len(r)+len(overrides))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// DefaultRemediations returns the built-in fixes for the default registry.
// androidHome is the SDK location the registry checks, as returned by
// collector.ResolveAndroidHome; when it is empty sdkmanager is looked up on
// PATH.
func DefaultRemediations(cfg collector.CollectorConfig, androidHome string) Remediations {
	sdkmanager := "sdkmanager"
	if androidHome != "" {
		sdkmanager = collector.SDKManagerPath(androidHome)
	}
	platform := "platforms;" + cfg.AndroidPlatform
	buildTools := "build-tools;" + cfg.BuildTools

	r := Remediations{
		"node": {
			Description: "Install Node.js with Homebrew",
			Command:     []string{"brew", "install", "node"},
		},
		"npm": {
			Description: "npm ships with Node.js; reinstall it with Homebrew",
			Command:     []string{"brew", "install", "node"},
		},
		"java": {
			Description: fmt.Sprintf("Install JDK %s (Zulu) with Homebrew", cfg.JavaVersion),
			Command:     []string{"brew", "install", "--cask", "zulu@" + cfg.JavaVersion},
		},
		"docker": {
			Description: "Start Docker Desktop",
			Command:     []string{"open", "-a", "Docker"},
		},
		"disk": {
			Description: "Free disk space: clear Xcode DerivedData and unused emulator images",
		},
		"ANDROID_HOME": {
			Description: "Install Android Studio, then export ANDROID_HOME to the SDK path",
			Command:     []string{"brew", "install", "--cask", "android-studio"},
		},
		"sdkmanager": {
			Description: "Install the Android command-line tools",
			Command:     []string{"brew", "install", "--cask", "android-commandlinetools"},
		},
		"platform-tools": {
			Description: "Install Android platform-tools with sdkmanager",
			Command:     []string{sdkmanager, "platform-tools"},
		},
		platform: {
			Description: fmt.Sprintf("Install the %s SDK platform with sdkmanager", cfg.AndroidPlatform),
			Command:     []string{sdkmanager, platform},
		},
		buildTools: {
			Description: fmt.Sprintf("Install build-tools %s with sdkmanager", cfg.BuildTools),
			Command:     []string{sdkmanager, buildTools},
		},
		"adb": {
			Description: "adb ships with platform-tools; install them with sdkmanager",
			Command:     []string{sdkmanager, "platform-tools"},
		},
		"adb devices": {
			Description: "Start an emulator from Android Studio or connect a device with USB debugging enabled",
		},
		"xcode-select": {
			Description: "Install the Xcode command line tools",
			Command:     []string{"xcode-select", "--install"},
		},
		"cocoapods": {
			Description: "Install CocoaPods with Homebrew",
			Command:     []string{"brew", "install", "cocoapods"},
		},
		"simulators": {
			Description: "Open Simulator to boot an iOS device",
			Command:     []string{"open", "-a", "Simulator"},
		},
	}

	for _, port := range cfg.Ports {
		r[fmt.Sprintf("port:%d", port)] = Remediation{
			Description: "Start the dev stack (backend, shopper and brand servers)",
			Command:     []string{"node", "scripts/dev-stack.mjs"},
		}
	}
	for _, p := range cfg.Projects {
		r[p.Label] = Remediation{
			Description: fmt.Sprintf("Check out the lab sources so that %s exists under the project root", p.Path),
		}
	}
	return r
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdoctor/internal/collector"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "labdoctor", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	for _, name := range []string{"config", "project-root"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	for _, name := range []string{"interval", "timeout", "log-file", "log-level"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"version", "probes"} {
		assert.True(t, found[name], "missing subcommand %s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("0.4.0")
	var buf bytes.Buffer
	c := newVersionCmd()
	c.SetOut(&buf)
	c.Run(c, nil)
	assert.Equal(t, "labdoctor version 0.4.0\n", buf.String())
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{Use: "test", Version: "1.0.0"}
	testCmd.SetVersionTemplate(`{{printf "labdoctor version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())
	assert.Equal(t, "labdoctor version 1.0.0\n", buf.String())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSettingsFlagsOverrideFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
refreshInterval: 5s
probeTimeout: 1s
ports: [4000]
remediations:
  java:
    description: Install Temurin 17
    command: brew install --cask temurin@17
`)

	cc, rems, err := loadSettings(rootOptions{configPath: path, interval: 3 * time.Second, projectRoot: "/srv/lab"})
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cc.RefreshInterval)
	assert.Equal(t, time.Second, cc.ProbeTimeout)
	assert.Equal(t, "/srv/lab", cc.ProjectRoot)
	assert.Equal(t, []int{4000}, cc.Ports)

	assert.Equal(t, []string{"brew", "install", "--cask", "temurin@17"}, rems["java"].Command)
	assert.Contains(t, rems, "docker", "defaults survive the merge")
}

func TestLoadSettingsPointsSDKFixesAtResolvedSDK(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	sdk := t.TempDir()
	t.Setenv("ANDROID_HOME", sdk)

	_, rems, err := loadSettings(rootOptions{configPath: writeConfig(t, "ports: [3000]\n")})
	require.NoError(t, err)

	want := filepath.Join(sdk, "cmdline-tools", "latest", "bin", "sdkmanager")
	assert.Equal(t, []string{want, "platform-tools"}, rems["platform-tools"].Command)
	assert.Equal(t, want, rems["build-tools;34.0.0"].Command[0])
}

func TestLoadSettingsRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "ports: [70000]\n")

	_, _, err := loadSettings(rootOptions{configPath: path})
	var cfgErr *collector.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Ports", cfgErr.Field)
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, _, err := loadSettings(rootOptions{configPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestProbesCommandListsRegistry(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANDROID_HOME", t.TempDir())
	opts = rootOptions{configPath: writeConfig(t, "ports: [3000]\n")}
	t.Cleanup(func() { opts = rootOptions{} })

	var out bytes.Buffer
	c := newProbesCmd()
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	require.NoError(t, c.RunE(c, nil))

	text := out.String()
	for _, want := range []string{"System", "Android", "iOS", "Ports", "Projects", "port:3000", "node scripts/dev-stack.mjs"} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "\033[", "no color when not writing to a terminal")
}

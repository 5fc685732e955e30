package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/jo-hoe/appicon/internal/config"
	"github.com/jo-hoe/appicon/internal/source"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1024 1024">
  <rect x="112" y="112" width="800" height="800" rx="160" fill="#3b82f6"/>
</svg>`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func customConfig(sourcePath, outputDir string, extra string) string {
	return fmt.Sprintf(`source:
  path: %q
targets:
  - name: extra
    preset: custom
    outputDir: %q
    entries:
      - id: small
        size: 48
        path: icon_48.png
      - id: medium
        size: 72
        path: nested/icon_72.png
%s`, sourcePath, outputDir, extra)
}

func TestRun_CustomTarget(t *testing.T) {
	dir := t.TempDir()
	svgPath := writeFixture(t, dir, "logo.svg", testSVG)
	out := filepath.Join(dir, "out")
	configPath := writeFixture(t, dir, "config.yaml", customConfig(svgPath, out, ""))

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", configPath, "--workers", "2"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Expected no error, got %v\nstderr: %s", err, stderr.String())
	}
	if code := exitCodeFor(err); code != ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", ExitSuccess, code)
	}

	for path, size := range map[string]int{"icon_48.png": 48, "nested/icon_72.png": 72} {
		f, err := os.Open(filepath.Join(out, path))
		if err != nil {
			t.Fatalf("Expected %s to exist: %v", path, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("Failed to decode %s: %v", path, err)
		}
		if cfg.Width != size || cfg.Height != size {
			t.Errorf("Expected %s to be %dx%d, got %dx%d", path, size, size, cfg.Width, cfg.Height)
		}
	}

	if !strings.Contains(stdout.String(), "2 generated, 0 failed") {
		t.Errorf("Expected summary in report, got:\n%s", stdout.String())
	}
}

func TestRun_WithProcessors(t *testing.T) {
	dir := t.TempDir()
	svgPath := writeFixture(t, dir, "logo.svg", testSVG)
	out := filepath.Join(dir, "out")
	processors := `    processors:
      - name: InsetCommand
        percent: 10
      - name: FlattenCommand
        background: "#0f172a"
`
	configPath := writeFixture(t, dir, "config.yaml", customConfig(svgPath, out, processors))

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-c", configPath}, &stdout, &stderr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := os.Open(filepath.Join(out, "icon_48.png"))
	if err != nil {
		t.Fatalf("Expected output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if r>>8 != 0x0f || g>>8 != 0x17 || b>>8 != 0x2a || a != 0xffff {
		t.Errorf("Expected opaque #0f172a corner, got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestRun_SourceOverride(t *testing.T) {
	dir := t.TempDir()
	svgPath := writeFixture(t, dir, "logo.svg", testSVG)
	out := filepath.Join(dir, "out")
	configPath := writeFixture(t, dir, "config.yaml", customConfig(filepath.Join(dir, "missing.svg"), out, ""))

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-c", configPath, "-s", svgPath}, &stdout, &stderr); err != nil {
		t.Fatalf("Expected source override to succeed, got %v", err)
	}
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	configPath := writeFixture(t, dir, "config.yaml", customConfig(filepath.Join(dir, "missing.svg"), out, ""))

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", configPath}, &stdout, &stderr)
	if !errors.Is(err, source.ErrMissingSource) {
		t.Fatalf("Expected ErrMissingSource, got %v", err)
	}
	if code := exitCodeFor(err); code != ExitMissingSource {
		t.Errorf("Expected exit code %d, got %d", ExitMissingSource, code)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("Expected no output to be written")
	}
}

func TestRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	svgPath := writeFixture(t, dir, "logo.svg", testSVG)
	out := filepath.Join(dir, "out")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatalf("Failed to create out: %v", err)
	}
	// Blocks the nested entry's directory
	writeFixture(t, out, "nested", "not a directory")
	configPath := writeFixture(t, dir, "config.yaml", customConfig(svgPath, out, ""))

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", configPath}, &stdout, &stderr)
	if !errors.Is(err, ErrAssetsFailed) {
		t.Fatalf("Expected ErrAssetsFailed, got %v", err)
	}
	if code := exitCodeFor(err); code != ExitPartial {
		t.Errorf("Expected exit code %d, got %d", ExitPartial, code)
	}
	if _, err := os.Stat(filepath.Join(out, "icon_48.png")); err != nil {
		t.Errorf("Expected the other entry to be written: %v", err)
	}
	if !strings.Contains(stdout.String(), "1 generated, 1 failed") {
		t.Errorf("Expected partial summary, got:\n%s", stdout.String())
	}

	stdout.Reset()
	err = run([]string{"-c", configPath, "--allow-partial"}, &stdout, &stderr)
	if err != nil {
		t.Errorf("Expected --allow-partial to succeed, got %v", err)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	svgPath := writeFixture(t, dir, "logo.svg", testSVG)
	unknownProcessor := writeFixture(t, dir, "unknown.yaml", customConfig(svgPath, dir, `    processors:
      - name: SharpenCommand
`))
	invalid := writeFixture(t, dir, "invalid.yaml", "targets: []\n")
	notSVG := writeFixture(t, dir, "broken.svg", "<svg")
	brokenSource := writeFixture(t, dir, "broken.yaml", customConfig(notSVG, dir, ""))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown flag", args: []string{"--bogus"}, want: ExitUsage},
		{name: "positional argument", args: []string{"logo.svg"}, want: ExitUsage},
		{name: "negative workers", args: []string{"-w", "-2"}, want: ExitUsage},
		{name: "bad log level", args: []string{"-c", invalid, "--log-level", "loud"}, want: ExitUsage},
		{name: "missing config file", args: []string{"-c", filepath.Join(dir, "nope.yaml")}, want: ExitUsage},
		{name: "invalid config", args: []string{"-c", invalid}, want: ExitUsage},
		{name: "unknown processor", args: []string{"-c", unknownProcessor}, want: ExitUsage},
		{name: "unparsable source", args: []string{"-c", brokenSource}, want: ExitUsage},
		{name: "help", args: []string{"--help"}, want: ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if tt.want == ExitSuccess && !errors.Is(err, flag.ErrHelp) {
				t.Fatalf("Expected ErrHelp, got %v", err)
			}
			if tt.want != ExitSuccess && err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if code := exitCodeFor(err); code != tt.want {
				t.Errorf("Expected exit code %d, got %d (%v)", tt.want, code, err)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("CONFIG_PATH", "")
	if got := getConfigPath(""); got != "" {
		t.Errorf("Expected no config path, got %s", got)
	}

	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	local := writeFixture(t, filepath.Join(dir, "config"), "config.yaml", "")
	if got := getConfigPath(""); got != local {
		t.Errorf("Expected %s, got %s", local, got)
	}

	t.Setenv("CONFIG_PATH", "/etc/appicon.yaml")
	if got := getConfigPath(""); got != "/etc/appicon.yaml" {
		t.Errorf("Expected CONFIG_PATH to win, got %s", got)
	}

	if got := getConfigPath("explicit.yaml"); got != "explicit.yaml" {
		t.Errorf("Expected flag to win, got %s", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	flags, err := parseFlags([]string{"--workers", "3", "--allow-partial"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Source.Path != config.DefaultSourcePath {
		t.Errorf("Expected default source, got %s", cfg.Source.Path)
	}
	if cfg.Workers != 3 || !cfg.AllowPartial {
		t.Errorf("Expected flag overrides, got workers=%d allowPartial=%v", cfg.Workers, cfg.AllowPartial)
	}
	if len(cfg.Targets) != 2 {
		t.Errorf("Expected Android and iOS targets, got %d", len(cfg.Targets))
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

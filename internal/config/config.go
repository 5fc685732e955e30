package config

import (
	"errors"
	"fmt"
	"os"

	// Concrete processors register themselves with the default registry
	_ "github.com/jo-hoe/appicon/internal/commands"
	"github.com/jo-hoe/appicon/internal/commandstructure"
	"github.com/jo-hoe/appicon/internal/common"
	"github.com/jo-hoe/appicon/internal/sizetable"
	"github.com/jo-hoe/appicon/internal/source"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigParse is returned when the file cannot be read or is not valid YAML.
	ErrConfigParse = errors.New("failed to parse config")
	// ErrConfigInvalid is returned when the parsed config fails validation.
	ErrConfigInvalid = errors.New("invalid config")
)

// ProcessorConfig represents a generic processor configuration
type ProcessorConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}

// ProceduralConfig selects a built-in placeholder design instead of a file.
type ProceduralConfig struct {
	Design string `yaml:"design" validate:"required,oneof=trend chart"`
	Mode   string `yaml:"mode" validate:"omitempty,oneof=full foreground"`
}

// SourceConfig names the artwork. Exactly one of Path and Procedural is set.
type SourceConfig struct {
	Path       string            `yaml:"path"`
	Procedural *ProceduralConfig `yaml:"procedural"`
}

// EntryConfig is one explicit output of a custom target.
type EntryConfig struct {
	ID   string `yaml:"id" validate:"required"`
	Size int    `yaml:"size" validate:"gt=0"`
	Path string `yaml:"path" validate:"required"`
}

// TargetConfig is one size table written below OutputDir.
type TargetConfig struct {
	Name       string            `yaml:"name" validate:"required"`
	Preset     string            `yaml:"preset" validate:"required,oneof=android-mipmap ios-appiconset sized custom"`
	OutputDir  string            `yaml:"outputDir" validate:"required"`
	FileName   string            `yaml:"fileName"`
	Entries    []EntryConfig     `yaml:"entries" validate:"dive"`
	Processors []ProcessorConfig `yaml:"processors"`
}

type Config struct {
	Source       SourceConfig   `yaml:"source"`
	Workers      int            `yaml:"workers" validate:"gte=0"`
	AllowPartial bool           `yaml:"allowPartial"`
	Targets      []TargetConfig `yaml:"targets" validate:"required,min=1,dive"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfigParse, configPath, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates YAML configuration data.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate runs the struct tag checks followed by the cross-field rules.
func (c *Config) Validate() error {
	gv := &common.GenericValidator{}
	if err := gv.Validate(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	if err := validateSource(c.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	if err := validateTargets(c.Targets); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	return nil
}

func validateSource(src SourceConfig) error {
	if src.Path == "" && src.Procedural == nil {
		return fmt.Errorf("source needs either a path or a procedural design")
	}
	if src.Path != "" && src.Procedural != nil {
		return fmt.Errorf("source path %s and procedural design are mutually exclusive", src.Path)
	}
	return nil
}

func validateTargets(targets []TargetConfig) error {
	seenNames := make(map[string]bool)

	for i, target := range targets {
		if seenNames[target.Name] {
			return fmt.Errorf("duplicate target name: %s", target.Name)
		}
		seenNames[target.Name] = true

		if target.Preset == sizetable.PresetCustom && len(target.Entries) == 0 {
			return fmt.Errorf("target %s at index %d uses the custom preset without entries", target.Name, i)
		}
		if target.Preset != sizetable.PresetCustom && len(target.Entries) > 0 {
			return fmt.Errorf("target %s at index %d lists entries for preset %s", target.Name, i, target.Preset)
		}

		if err := validateProcessors(target.Processors); err != nil {
			return fmt.Errorf("target %s: %w", target.Name, err)
		}
	}

	return nil
}

// validateProcessors ensures every processor names a registered command
func validateProcessors(processors []ProcessorConfig) error {
	registry := commandstructure.DefaultRegistry
	for i, proc := range processors {
		if proc.Name == "" {
			return fmt.Errorf("processor at index %d has empty name", i)
		}
		if !registry.IsRegistered(proc.Name) {
			return fmt.Errorf("unknown processor %q at index %d, expected one of %v",
				proc.Name, i, registry.GetRegisteredNames())
		}
	}
	return nil
}

// LoadSource resolves the configured source. A missing file wraps source.ErrMissingSource.
func (s SourceConfig) LoadSource() (source.Source, error) {
	if s.Procedural != nil {
		src, err := source.NewProceduralSource(s.Procedural.Design, source.Mode(s.Procedural.Mode))
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return source.Load(s.Path)
}

// Table builds the de-duplicated size table of the target.
func (t TargetConfig) Table() (sizetable.Table, error) {
	if t.Preset == sizetable.PresetCustom {
		table := make(sizetable.Table, 0, len(t.Entries))
		for _, e := range t.Entries {
			table = append(table, sizetable.Entry{ID: e.ID, Size: e.Size, Path: e.Path})
		}
		return table.Dedupe(), nil
	}

	table, err := sizetable.ForPreset(t.Preset, t.FileName)
	if err != nil {
		return nil, err
	}
	return table.Dedupe(), nil
}

// Pipeline creates the post-processing commands of the target from registry.
func (t TargetConfig) Pipeline(registry *commandstructure.CommandRegistry) (*commandstructure.CommandInvoker, error) {
	configs := make([]commandstructure.CommandConfig, 0, len(t.Processors))
	for _, proc := range t.Processors {
		params := make(map[string]any, len(proc.Params))
		for k, v := range proc.Params {
			params[k] = v
		}
		configs = append(configs, commandstructure.CommandConfig{Name: proc.Name, Params: params})
	}

	invoker, err := commandstructure.NewCommandInvokerFromConfigs(registry, configs)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", t.Name, err)
	}
	return invoker, nil
}

package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed builtin_presets.yaml
var builtinPresetsYAML []byte

var BuiltinPresets map[string]Preset

func init() {
	var config struct {
		Presets map[string]Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(builtinPresetsYAML, &config); err != nil {
		panic("failed to parse builtin presets: " + err.Error())
	}
	BuiltinPresets = config.Presets
}

// Config is the launcher's preset configuration. Presets name whitelist
// path sets for recurring build steps so invocations don't have to
// repeat -allow flags.
type Config struct {
	Defaults    Defaults          `yaml:"defaults"`
	Presets     map[string]Preset `yaml:"presets"`
	AutoPresets []AutoPresetRule  `yaml:"auto-presets"`
}

type Defaults struct {
	Presets []string `yaml:"presets"`
}

// Preset is a named set of whitelist entries. Paths may reference
// environment variables; they are expanded when the preset is applied.
type Preset struct {
	Extends []string `yaml:"extends,omitempty"`
	Hide    bool     `yaml:"hide,omitempty"`
	Paths   []string `yaml:"paths,omitempty"`
}

type AutoPresetRule struct {
	Command        string   `yaml:"command,omitempty"`
	CommandPattern string   `yaml:"command-pattern,omitempty"`
	Presets        []string `yaml:"presets"`
}

func userConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

func loadConfig(configPath string) (*Config, error) {
	paths := []string{}

	if configPath != "" {
		paths = append(paths, configPath)
	} else {
		configDir, err := userConfigDir()
		if err == nil {
			paths = append(paths, filepath.Join(configDir, "hdist-jail", "presets.yaml"))
			paths = append(paths, filepath.Join(configDir, "hdist-jail", "presets.yml"))
		}
	}

	for _, path := range paths {
		config, err := loadConfigFromFile(path)
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading config from %s: %w", path, err)
		}
	}

	return &Config{Presets: make(map[string]Preset)}, nil
}

func loadConfigFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) GetPreset(name string) (Preset, bool) {
	if strings.HasPrefix(name, "builtin:") {
		builtinName := strings.TrimPrefix(name, "builtin:")
		preset, ok := BuiltinPresets[builtinName]
		return preset, ok
	}
	preset, ok := c.Presets[name]
	return preset, ok
}

// ResolvePreset resolves a preset with its transitive extends chain
// merged in, parents first.
func (c *Config) ResolvePreset(name string, visited map[string]bool) (*Preset, error) {
	if visited == nil {
		visited = make(map[string]bool)
	}

	if visited[name] {
		return nil, fmt.Errorf("circular preset reference detected: %s", name)
	}
	visited[name] = true

	preset, ok := c.GetPreset(name)
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}

	if len(preset.Extends) == 0 {
		return &preset, nil
	}

	merged := &Preset{}

	for _, parentName := range preset.Extends {
		parent, err := c.ResolvePreset(parentName, visited)
		if err != nil {
			return nil, fmt.Errorf("resolving parent preset %s: %w", parentName, err)
		}
		mergePresets(merged, parent)
	}

	mergePresets(merged, &preset)

	return merged, nil
}

func mergePresets(dst, src *Preset) {
	dst.Paths = append(dst.Paths, src.Paths...)
	dst.Hide = dst.Hide || src.Hide
}

func (c *Config) ListPresets() []string {
	presets := make([]string, 0, len(c.Presets)+len(BuiltinPresets))
	for name := range BuiltinPresets {
		presets = append(presets, "builtin:"+name)
	}
	for name := range c.Presets {
		presets = append(presets, name)
	}
	return presets
}

// GetAutoPresets returns the preset names that should be automatically
// applied for the given command.
func (c *Config) GetAutoPresets(command string) ([]string, error) {
	var presets []string

	baseCommand := filepath.Base(command)

	for _, rule := range c.AutoPresets {
		matched := false

		if rule.Command != "" && rule.Command == baseCommand {
			matched = true
		}

		if !matched && rule.CommandPattern != "" {
			re, err := regexp.Compile(rule.CommandPattern)
			if err != nil {
				return nil, fmt.Errorf(
					"invalid regex pattern in auto-preset: %s: %w",
					rule.CommandPattern,
					err,
				)
			}
			if re.MatchString(baseCommand) {
				matched = true
			}
		}

		if matched {
			presets = append(presets, rule.Presets...)
		}
	}

	return presets, nil
}

// ProcessPreset expands environment variable references in a preset's
// paths. Expansion never runs a shell, so preset files cannot execute
// commands.
func (p *Preset) ProcessPreset() (*Preset, error) {
	processed := &Preset{
		Hide:  p.Hide,
		Paths: make([]string, 0, len(p.Paths)),
	}
	for _, path := range p.Paths {
		processed.Paths = append(processed.Paths, os.ExpandEnv(path))
	}
	return processed, nil
}

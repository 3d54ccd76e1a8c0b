package jailjs

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// RuntimeConfig is the subset of Engine construction knobs an embedder may
// want to keep in a config file alongside their deployment rather than
// hard-coded, e.g. a per-environment operation ceiling.
type RuntimeConfig struct {
	MaxOps int `toml:"max_ops" yaml:"max_ops"`
}

// LoadRuntimeConfigTOML reads a RuntimeConfig from a TOML file, the format
// used for the interpreter's own runtime tuning knobs.
func LoadRuntimeConfigTOML(path string) (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CapabilityManifest describes the named host values a deployment wants to
// expose to script, loaded from YAML so the set of capabilities can be
// reviewed and changed without a recompile. Values here are declarative
// placeholders (strings/numbers/bools) for whatever the manifest
// documents; function-valued capabilities still need to be registered in
// Go via Engine.RegisterGlobal, since YAML cannot encode a callback.
type CapabilityManifest struct {
	Globals map[string]any `yaml:"globals"`
}

// LoadCapabilityManifest reads a CapabilityManifest from a YAML file.
func LoadCapabilityManifest(path string) (*CapabilityManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m CapabilityManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Options returns the functional Option set derived from cfg, ready to pass
// to New.
func (cfg *RuntimeConfig) Options() []Option {
	if cfg == nil {
		return nil
	}
	var opts []Option
	if cfg.MaxOps != 0 {
		opts = append(opts, WithMaxOps(cfg.MaxOps))
	}
	return opts
}

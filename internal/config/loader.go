package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osReadFile = os.ReadFile

// Sentinel errors for configuration problems. All of them are fatal to
// the run; callers match with errors.Is.
var (
	ErrUnknownComponent  = errors.New("unknown component")
	ErrUnknownType       = errors.New("unknown component type")
	ErrSelfDependency    = errors.New("component depends on itself")
	ErrDuplicateName     = errors.New("duplicate component name")
	ErrMissingImage      = errors.New("image not specified")
	ErrMissingCommand    = errors.New("command not specified")
	ErrMissingContainers = errors.New("pod declares no containers")
)

const maxBaseDepth = 16

// Load reads a config file, resolves its base-config chain and validates
// the resulting component graph. Components defined in the loaded file
// replace same-named components from the base.
func Load(path string) (Config, error) {
	cfg, err := load(path, 0)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func load(path string, depth int) (Config, error) {
	if depth >= maxBaseDepth {
		return Config{}, fmt.Errorf("base config chain too deep at %s", path)
	}

	data, err := osReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Base == "" {
		return cfg, nil
	}

	// Base paths are resolved relative to the config that names them.
	basePath := cfg.Base
	if !filepath.IsAbs(basePath) {
		basePath = filepath.Join(filepath.Dir(path), basePath)
	}
	baseCfg, err := load(basePath, depth+1)
	if err != nil {
		return Config{}, err
	}
	return mergeConfigs(baseCfg, cfg), nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Overlay
// components replace base components with the same name; global settings
// are overridden field by field where the overlay sets them.
func mergeConfigs(base, overlay Config) Config {
	merged := base
	merged.Name = overlay.Name

	for _, comp := range overlay.Components {
		replaced := false
		for i := range merged.Components {
			if merged.Components[i].Name == comp.Name {
				merged.Components[i] = comp
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Components = append(merged.Components, comp)
		}
	}

	if len(overlay.Reset) > 0 {
		merged.Reset = overlay.Reset
	}

	if len(overlay.Global.Scripts) > 0 {
		merged.Global.Scripts = overlay.Global.Scripts
	}
	if overlay.Global.Delay != "" {
		merged.Global.Delay = overlay.Global.Delay
	}
	if overlay.Global.Repeat != 0 {
		merged.Global.Repeat = overlay.Global.Repeat
	}
	if overlay.Global.Filter != "" {
		merged.Global.Filter = overlay.Global.Filter
	}
	if overlay.Global.Skip != "" {
		merged.Global.Skip = overlay.Global.Skip
	}
	if overlay.Global.RuntimeDir != "" {
		merged.Global.RuntimeDir = overlay.Global.RuntimeDir
	}
	merged.Global.KeepRunning = merged.Global.KeepRunning || overlay.Global.KeepRunning
	merged.Global.ResetOnce = merged.Global.ResetOnce || overlay.Global.ResetOnce

	return merged
}

// Validate checks the component graph eagerly: names are unique, every
// dependency references a declared component, no component depends on
// itself, types are known and type-specific required fields are present.
// Dependency cycles are not detected here; they surface as a CycleError
// from the environment when start order cannot make progress.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Components))
	for _, comp := range c.Components {
		if seen[comp.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, comp.Name)
		}
		seen[comp.Name] = true
	}

	for _, comp := range c.Components {
		for _, dep := range comp.Dependencies {
			if dep == comp.Name {
				return fmt.Errorf("%w: %s", ErrSelfDependency, comp.Name)
			}
			if !seen[dep] {
				return fmt.Errorf("%w: %s (dependency of %s)", ErrUnknownComponent, dep, comp.Name)
			}
		}

		switch comp.Type {
		case TypeContainer:
			if comp.Image == "" {
				return fmt.Errorf("%w: component %s", ErrMissingImage, comp.Name)
			}
		case TypePod:
			if len(comp.Containers) == 0 {
				return fmt.Errorf("%w: component %s", ErrMissingContainers, comp.Name)
			}
			for _, ctr := range comp.Containers {
				if ctr.Image == "" {
					return fmt.Errorf("%w: container %s in pod %s", ErrMissingImage, ctr.Name, comp.Name)
				}
			}
		case TypeProcess:
			if len(comp.Command) == 0 {
				return fmt.Errorf("%w: component %s", ErrMissingCommand, comp.Name)
			}
		default:
			return fmt.Errorf("%w: %q (component %s)", ErrUnknownType, comp.Type, comp.Name)
		}
	}

	return nil
}

package config

// ComponentType defines how a component is launched and stopped.
type ComponentType string

const (
	// TypeContainer is a single isolated container.
	TypeContainer ComponentType = "container"
	// TypePod is a group of containers sharing one network namespace.
	TypePod ComponentType = "pod"
	// TypeProcess is a bare child process of samctl itself.
	TypeProcess ComponentType = "process"
)

// Config is the top-level configuration structure for samctl.
// A config may name a base config which is loaded first; components and
// global settings defined here override the base by name.
type Config struct {
	Name       string      `yaml:"name"`
	Base       string      `yaml:"base,omitempty"`
	Components []Component `yaml:"components,omitempty"`
	Reset      []string    `yaml:"reset,omitempty"`
	Global     Global      `yaml:"global,omitempty"`
}

// Global holds run-wide settings. Every field can be overridden from the
// command line.
type Global struct {
	Scripts     []string `yaml:"scripts,omitempty"`
	KeepRunning bool     `yaml:"keep_running,omitempty"`
	Delay       string   `yaml:"delay,omitempty"`  // duration string, e.g. "5s"
	Repeat      uint64   `yaml:"repeat,omitempty"` // 0 means once
	Filter      string   `yaml:"filter,omitempty"`
	Skip        string   `yaml:"skip,omitempty"`
	ResetOnce   bool     `yaml:"reset_once,omitempty"`
	RuntimeDir  string   `yaml:"runtime_dir,omitempty"` // pid/log files for process components
}

// Component declares one named unit of the test environment.
// Immutable after load.
type Component struct {
	Name           string        `yaml:"name"`
	Type           ComponentType `yaml:"type"`
	Dependencies   []string      `yaml:"dependencies,omitempty"`
	StartByDefault bool          `yaml:"start_by_default,omitempty"`

	// Container and pod fields
	Ports       []Port   `yaml:"ports,omitempty"`
	Network     string   `yaml:"network,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	Entrypoint  string   `yaml:"entrypoint,omitempty"`
	Environment []string `yaml:"environment,omitempty"`
	Volumes     []Volume `yaml:"volumes,omitempty"`

	// Command is the container command for containers, argv for processes.
	Command []string `yaml:"command,omitempty"`

	// Containers are the sub-containers of a pod, started in order.
	Containers []Container `yaml:"containers,omitempty"`
}

// Container is a sub-container owned by a pod component.
type Container struct {
	Name        string   `yaml:"name"`
	Image       string   `yaml:"image"`
	Command     []string `yaml:"command,omitempty"`
	Entrypoint  string   `yaml:"entrypoint,omitempty"`
	Environment []string `yaml:"environment,omitempty"`
	Volumes     []Volume `yaml:"volumes,omitempty"`
	Network     string   `yaml:"network,omitempty"`
}

// Port maps a host port to a container port.
type Port struct {
	Host      uint16 `yaml:"host"`
	Container uint16 `yaml:"container"`
}

// Volume mounts a host path into a container.
type Volume struct {
	Host      string `yaml:"host"`
	Container string `yaml:"container"`
}

// GetComponent returns the component with the given name, or nil.
func (c *Config) GetComponent(name string) *Component {
	for i := range c.Components {
		if c.Components[i].Name == name {
			return &c.Components[i]
		}
	}
	return nil
}

// DefaultComponents returns the names of all components marked
// start_by_default, in declaration order.
func (c *Config) DefaultComponents() []string {
	var names []string
	for _, comp := range c.Components {
		if comp.StartByDefault {
			names = append(names, comp.Name)
		}
	}
	return names
}

// Dependents returns the names of all components that list name as a
// direct dependency.
func (c *Config) Dependents(name string) []string {
	var names []string
	for _, comp := range c.Components {
		for _, dep := range comp.Dependencies {
			if dep == name {
				names = append(names, comp.Name)
				break
			}
		}
	}
	return names
}

package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type Dependency struct {
	Name      string   `yaml:"name" json:"name"`
	Version   string   `yaml:"version" json:"version,omitempty"`
	DependsOn []string `yaml:"depends_on" json:"depends_on,omitempty"`
	Build     Command  `yaml:"build" json:"build"`
	Release   Release  `yaml:"release" json:"release"`
}

// Release locates a prebuilt binary archive on a hosting service.
type Release struct {
	Repo         string `yaml:"repo" json:"repo,omitempty"`
	AssetPattern string `yaml:"asset_pattern" json:"asset_pattern,omitempty"`
}

type Tools struct {
	Otool Command `yaml:"otool" json:"otool"`
}

type Config struct {
	Platforms    []string     `yaml:"platforms" json:"platforms,omitempty"`
	SearchPaths  []string     `yaml:"search_paths" json:"search_paths,omitempty"`
	Tools        Tools        `yaml:"tools" json:"tools"`
	Dependencies []Dependency `yaml:"dependencies" json:"dependencies,omitempty"`
}

type Command struct {
	Command string            `yaml:"command" json:"command"`
	Env     map[string]string `yaml:"env" json:"env,omitempty"`
}

// EnvList returns Env as KEY=VALUE pairs sorted by key.
func (c Command) EnvList() []string {
	if len(c.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}

func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		c.Command = value.Value
		c.Env = nil
		return nil
	case yaml.MappingNode:
		var aux struct {
			Command string            `yaml:"command"`
			Env     map[string]string `yaml:"env"`
		}
		if err := value.Decode(&aux); err != nil {
			return err
		}
		c.Command = aux.Command
		c.Env = aux.Env
		return nil
	default:
		return fmt.Errorf("invalid command node kind: %d", value.Kind)
	}
}

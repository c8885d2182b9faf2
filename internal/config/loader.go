package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var current Config

func Get() Config { return current }

func LoadFromFiles(files []string) (Config, error) {
	return LoadDefaultsAndFiles(nil, files)
}

func LoadDefaultsAndFiles(defaultsYAML []byte, files []string) (Config, error) {
	var base Config
	if len(defaultsYAML) > 0 {
		if err := yaml.Unmarshal(defaultsYAML, &base); err != nil {
			return Config{}, fmt.Errorf("defaults: %w", err)
		}
	}
	merged := base
	seen := map[string]string{}
	for _, d := range base.Dependencies {
		seen[d.Name] = "defaults"
	}
	for _, f := range sortedYAML(files) {
		b, err := os.ReadFile(f)
		if err != nil {
			return Config{}, err
		}
		var part Config
		if err := yaml.Unmarshal(b, &part); err != nil {
			return Config{}, fmt.Errorf("%s: %w", f, err)
		}
		if err := checkDepDuplicatesWithFiles(seen, part, f); err != nil {
			return Config{}, err
		}
		merged = mergeConfig(merged, part)
	}
	if err := ValidateNoDuplicates(merged); err != nil {
		return Config{}, err
	}
	current = merged
	return merged, nil
}

func ValidateNoDuplicates(cfg Config) error {
	d := map[string]struct{}{}
	for _, v := range cfg.Dependencies {
		if _, ok := d[v.Name]; ok {
			return fmt.Errorf("duplicate dependency name: %s", v.Name)
		}
		d[v.Name] = struct{}{}
	}
	return nil
}

func sortedYAML(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		lf := strings.ToLower(f)
		if strings.HasSuffix(lf, ".yaml") || strings.HasSuffix(lf, ".yml") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func mergeConfig(base, overlay Config) Config {
	out := base
	out.Platforms = appendUnique(base.Platforms, overlay.Platforms)
	out.SearchPaths = append(append([]string{}, base.SearchPaths...), overlay.SearchPaths...)
	out.Tools.Otool = mergeCommand(base.Tools.Otool, overlay.Tools.Otool)

	deps := make([]Dependency, 0, len(base.Dependencies)+len(overlay.Dependencies))
	deps = append(deps, base.Dependencies...)
	deps = append(deps, overlay.Dependencies...)
	out.Dependencies = deps
	return out
}

func appendUnique(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := map[string]struct{}{}
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func mergeCommand(a, b Command) Command {
	out := a
	if b.Command != "" {
		out.Command = b.Command
	}
	if len(b.Env) > 0 {
		env := make(map[string]string, len(a.Env)+len(b.Env))
		for k, v := range a.Env {
			env[k] = v
		}
		for k, v := range b.Env {
			env[k] = v
		}
		out.Env = env
	}
	return out
}

func checkDepDuplicatesWithFiles(seen map[string]string, part Config, file string) error {
	local := map[string]struct{}{}
	for _, d := range part.Dependencies {
		if _, ok := local[d.Name]; ok {
			return fmt.Errorf("duplicate dependency '%s' found in %s", d.Name, file)
		}
		local[d.Name] = struct{}{}
	}
	for _, d := range part.Dependencies {
		if prev, ok := seen[d.Name]; ok {
			return fmt.Errorf("duplicate dependency '%s' found in %s and %s", d.Name, prev, file)
		}
	}
	for _, d := range part.Dependencies {
		seen[d.Name] = file
	}
	return nil
}

// Package manifest loads and resolves the packages.yaml manifest that drives
// both provisioning stages. The manifest is pure data: it is loaded once per
// stage invocation and never mutated by the tooling.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// PackageGroup is one category's package identifiers. A category can be a
// plain list (applies everywhere) or an object with per-OS lists.
type PackageGroup struct {
	Common  []string `yaml:"common"`
	Windows []string `yaml:"windows"`
	MacOS   []string `yaml:"macos"`
}

// UnmarshalYAML accepts either form:
//
//	core: [git, ripgrep]
//
//	core:
//	  common: [git]
//	  windows: [7zip]
//	  macos: [coreutils]
func (g *PackageGroup) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&g.Common)
	}
	type plain PackageGroup
	return value.Decode((*plain)(g))
}

// PackageCategory pairs a category name with its packages. Categories keep
// manifest order because install order follows insertion order.
type PackageCategory struct {
	Name  string
	Group PackageGroup
}

// Packages is the ordered set of package categories.
type Packages []PackageCategory

// UnmarshalYAML decodes the `packages` mapping while preserving key order,
// which a map[string]PackageGroup would lose.
func (p *Packages) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("packages: expected a mapping, got %s", value.Tag)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var group PackageGroup
		if err := value.Content[i+1].Decode(&group); err != nil {
			return fmt.Errorf("packages.%s: %w", value.Content[i].Value, err)
		}
		*p = append(*p, PackageCategory{Name: value.Content[i].Value, Group: group})
	}
	return nil
}

// Manifest is the parsed packages.yaml. Recognized top-level keys:
// buckets (per-platform repository lists), packages (categories),
// mise_tools (tool@version strings), bun_global and uv_tools (global
// package identifiers).
type Manifest struct {
	Buckets   map[string][]string `yaml:"buckets"`
	Packages  Packages            `yaml:"packages"`
	MiseTools []string            `yaml:"mise_tools"`
	BunGlobal []string            `yaml:"bun_global"`
	UvTools   []string            `yaml:"uv_tools"`
}

// Load reads and parses the manifest at path. Any failure here is fatal to
// the calling stage: downstream steps assume a valid manifest.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// OSKey maps a GOOS value onto the manifest's platform keys.
func OSKey(goos string) string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}

// BucketsFor returns the package-manager buckets/taps for the given GOOS.
func (m *Manifest) BucketsFor(goos string) []string {
	return m.Buckets[OSKey(goos)]
}

// InstallPlan flattens the package categories into the ordered install list
// for the given GOOS. Every identifier appears at most once even if it is
// listed in several categories; the first occurrence wins.
func (m *Manifest) InstallPlan(goos string) []string {
	osKey := OSKey(goos)
	seen := make(map[string]bool)
	var plan []string

	add := func(pkgs []string) {
		for _, p := range pkgs {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			plan = append(plan, p)
		}
	}

	for _, cat := range m.Packages {
		add(cat.Group.Common)
		switch osKey {
		case "windows":
			add(cat.Group.Windows)
		case "macos":
			add(cat.Group.MacOS)
		}
	}
	return plan
}

// CommandName derives the invocable command from a global package
// identifier: the final path segment after any scope separator, so
// "@anthropic-ai/claude-code" installs the command "claude-code".
func CommandName(pkg string) string {
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		return pkg[i+1:]
	}
	return pkg
}

// ToolSpec is one mise-managed tool with its requested version.
type ToolSpec struct {
	Name    string
	Version string
}

// String renders the spec back into mise's name@version form.
func (t ToolSpec) String() string {
	return t.Name + "@" + t.Version
}

// ParseToolSpec splits a "name@version" entry from mise_tools. A missing
// version means "latest". Explicit versions must be (loose) semver so typos
// like "node@lts!" fail at manifest load rather than inside mise.
func ParseToolSpec(spec string) (ToolSpec, error) {
	name, version, _ := strings.Cut(spec, "@")
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)
	if name == "" {
		return ToolSpec{}, fmt.Errorf("invalid tool spec %q: empty tool name", spec)
	}
	if version == "" {
		version = "latest"
	}
	if version != "latest" {
		if _, err := semver.NewVersion(version); err != nil {
			return ToolSpec{}, fmt.Errorf("invalid tool spec %q: %w", spec, err)
		}
	}
	return ToolSpec{Name: name, Version: version}, nil
}

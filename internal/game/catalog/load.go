// Package catalog loads class and boss content from YAML and resolves it into
// fight-ready combat characters.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlFiles returns the sorted *.yaml and *.yml paths directly inside dir.
//
// Precondition: dir must be a readable directory.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// decodeFile strictly decodes the YAML document at path into out; unknown
// fields are errors so typos in content never silently drop data.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}

// LoadClasses reads every YAML file in dir as a ClassDef.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the validated classes sorted by file name, or the first error.
func LoadClasses(dir string) ([]*ClassDef, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]*ClassDef, 0, len(paths))
	for _, path := range paths {
		var def ClassDef
		if err := decodeFile(path, &def); err != nil {
			return nil, err
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, &def)
	}
	return out, nil
}

// LoadBosses reads every YAML file in dir as a BossDef.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the validated bosses sorted by file name, or the first error.
func LoadBosses(dir string) ([]*BossDef, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]*BossDef, 0, len(paths))
	for _, path := range paths {
		var def BossDef
		if err := decodeFile(path, &def); err != nil {
			return nil, err
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, &def)
	}
	return out, nil
}

// Load reads classes and bosses and returns a populated Registry.
//
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate, or if two definitions share an id.
func Load(classesDir, bossesDir string) (*Registry, error) {
	classes, err := LoadClasses(classesDir)
	if err != nil {
		return nil, err
	}
	bosses, err := LoadBosses(bossesDir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, c := range classes {
		if err := reg.RegisterClass(c); err != nil {
			return nil, err
		}
	}
	for _, b := range bosses {
		if err := reg.RegisterBoss(b); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

package city

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a single city document. ".json" files are decoded as JSON,
// anything else as YAML.
func Load(path string) (*City, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read city file: %w", err)
	}

	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Documents may omit the name; the file slug stands in for it.
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	c.Prepare()
	return c, nil
}

// Parse decodes a city document. ext selects the format (".json" or YAML).
func Parse(data []byte, ext string) (*City, error) {
	var c City
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse city JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse city YAML: %w", err)
		}
	}
	c.Prepare()
	return &c, nil
}

// Directory is a set of city documents keyed by lower-cased name and slug.
type Directory struct {
	cities map[string]*City
	order  []string
}

// LoadDir loads every .json, .yaml and .yml file in dir. Files that fail to
// parse are reported together; the cities that did load are still returned.
func LoadDir(dir string) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cities directory: %w", err)
	}

	d := &Directory{cities: make(map[string]*City)}
	var failed []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		c, err := Load(path)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		d.Add(c, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}

	if len(failed) > 0 {
		return d, fmt.Errorf("failed to load %d city file(s): %s", len(failed), strings.Join(failed, "; "))
	}
	return d, nil
}

// NewDirectory builds a directory from already loaded cities.
func NewDirectory(cities ...*City) *Directory {
	d := &Directory{cities: make(map[string]*City)}
	for _, c := range cities {
		d.Add(c)
	}
	return d
}

// Add registers c under its name, its display name and any aliases.
func (d *Directory) Add(c *City, aliases ...string) {
	if c == nil {
		return
	}
	keys := append([]string{c.Name, c.DisplayName}, aliases...)
	added := false
	for _, k := range keys {
		k = normalizeKey(k)
		if k == "" {
			continue
		}
		if _, exists := d.cities[k]; exists {
			continue
		}
		d.cities[k] = c
		added = true
	}
	if added {
		d.order = append(d.order, c.Name)
	}
}

// Get finds a city by name, display name or file slug, ignoring case.
func (d *Directory) Get(name string) (*City, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.cities[normalizeKey(name)]
	return c, ok
}

// Names returns the loaded city names, sorted.
func (d *Directory) Names() []string {
	if d == nil {
		return nil
	}
	names := append([]string(nil), d.order...)
	sort.Strings(names)
	return names
}

// Len returns the number of cities.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

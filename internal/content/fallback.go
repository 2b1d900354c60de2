package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// AnyCategory is the fallback pool section shared by every category.
const AnyCategory = "*"

//go:embed fallback.yaml
var fallbackYAML []byte

// Pool holds generic tables keyed by category then table name.
type Pool map[string]map[string][]string

var (
	fallbackPool Pool
	fallbackOnce sync.Once
)

// ParsePool parses a pool from YAML.
func ParsePool(data []byte) (Pool, error) {
	var pool Pool
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse fallback tables: %w", err)
	}
	return pool, nil
}

// Fallback returns the process-wide built-in pool. It is read-only.
func Fallback() Pool {
	fallbackOnce.Do(func() {
		pool, err := ParsePool(fallbackYAML)
		if err != nil {
			// The embedded file is part of the binary; a parse failure is a build defect.
			panic(err)
		}
		fallbackPool = pool
	})
	return fallbackPool
}

// Lookup returns the table for category, falling back to the shared "*"
// section. The returned slice must not be modified.
func (p Pool) Lookup(category, name string) []string {
	if list := p[category][name]; len(list) > 0 {
		return list
	}
	return p[AnyCategory][name]
}

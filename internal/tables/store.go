package tables

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/hexforge/internal/dice"
	"github.com/lawnchairsociety/hexforge/internal/logger"
)

// MemoryStore is an in-memory Store keyed by language, category and table.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]map[string][]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]map[string][]string)}
}

// Put replaces a table.
func (s *MemoryStore) Put(category, name, language string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	language = CanonicalLanguage(language)
	if s.tables[language] == nil {
		s.tables[language] = make(map[string]map[string][]string)
	}
	if s.tables[language][category] == nil {
		s.tables[language][category] = make(map[string][]string)
	}
	s.tables[language][category][name] = append([]string(nil), values...)
}

// Table returns the table for language, or for its base language when the
// exact language has none.
func (s *MemoryStore) Table(category, name, language string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	language = CanonicalLanguage(language)
	if list := s.tables[language][category][name]; len(list) > 0 {
		return append([]string(nil), list...), nil
	}
	if base := BaseLanguage(language); base != "" {
		if list := s.tables[base][category][name]; len(list) > 0 {
			return append([]string(nil), list...), nil
		}
	}
	return nil, nil
}

// Row is one flattened table value, used for bulk import.
type Row struct {
	Language string `db:"language"`
	Category string `db:"category"`
	Name     string `db:"name"`
	Position int    `db:"position"`
	Value    string `db:"value"`
}

// Rows returns every stored value as import rows, ordered deterministically.
func (s *MemoryStore) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []Row
	for lang, cats := range s.tables {
		for cat, names := range cats {
			for name, values := range names {
				for i, v := range values {
					rows = append(rows, Row{Language: lang, Category: cat, Name: name, Position: i, Value: v})
				}
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Position < b.Position
	})
	return rows
}

// tablesFile is the YAML layout of a global tables file:
//
//	tables:
//	  en:
//	    market:
//	      goods:
//	        - Salt
//	        - {name: Silk, price: 12, currency: gp}
type tablesFile struct {
	Tables map[string]map[string]map[string][]any `yaml:"tables"`
}

// LoadFile reads a YAML tables file into a MemoryStore.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses YAML tables into a MemoryStore. Structured entries are
// rendered to text at load time.
func ParseFile(data []byte) (*MemoryStore, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tables YAML: %w", err)
	}

	store := NewMemoryStore()
	for lang, cats := range f.Tables {
		for cat, names := range cats {
			for name, values := range names {
				list := make([]string, 0, len(values))
				for _, v := range values {
					s, ok := renderAny(v)
					if !ok {
						continue
					}
					if bad := dice.Malformed(s); len(bad) > 0 {
						logger.Warning("Table entry has dice tokens that will not roll",
							"language", lang, "category", cat, "table", name, "tokens", bad)
					}
					list = append(list, s)
				}
				store.Put(cat, name, lang, list)
			}
		}
	}
	return store, nil
}

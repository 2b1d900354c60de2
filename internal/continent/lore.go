package continent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/hexforge/internal/content"
)

// LoreEntry is an authored override for one hex. Locked entries are
// returned verbatim; unlocked ones only lend their name and description.
type LoreEntry struct {
	Locked  bool           `yaml:"locked" json:"locked"`
	Content content.Record `yaml:"content" json:"content"`
}

// Lore maps hex codes to authored entries.
type Lore map[string]LoreEntry

// loreFile is the YAML layout of a lore file:
//
//	hexes:
//	  "1613":
//	    locked: true
//	    content:
//	      type: settlement
//	      name: Port Vesh
type loreFile struct {
	Hexes Lore `yaml:"hexes"`
}

// LoadLore reads a lore file. A missing file yields an empty table.
func LoadLore(path string) (Lore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Lore{}, nil
		}
		return nil, fmt.Errorf("failed to read lore file: %w", err)
	}
	return ParseLore(data)
}

// ParseLore parses lore YAML. Hex codes are trimmed.
func ParseLore(data []byte) (Lore, error) {
	var f loreFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lore YAML: %w", err)
	}

	lore := make(Lore, len(f.Hexes))
	for code, entry := range f.Hexes {
		entry.Content.Normalize()
		lore[strings.TrimSpace(code)] = entry
	}
	return lore, nil
}

// Get returns the entry for a hex code.
func (l Lore) Get(code string) (LoreEntry, bool) {
	e, ok := l[code]
	return e, ok
}

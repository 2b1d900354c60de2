// Package content defines generated content records, their categories and
// the built-in fallback tables used when no authored data exists.
package content

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one generated bundle of descriptive fields for a cell or hex.
// Type discriminates the category; collections are never nil once
// Normalize has run.
type Record struct {
	Type            Category          `json:"type" yaml:"type"`
	Name            string            `json:"name" yaml:"name"`
	Description     string            `json:"description" yaml:"description"`
	Encounter       string            `json:"encounter" yaml:"encounter"`
	Atmosphere      string            `json:"atmosphere" yaml:"atmosphere"`
	RandomTable     []string          `json:"random_table" yaml:"random_table"`
	NotableFeatures []string          `json:"notable_features" yaml:"notable_features"`
	Threats         []string          `json:"threats" yaml:"threats"`
	Treasures       []string          `json:"treasures" yaml:"treasures"`
	NPCs            []string          `json:"npcs" yaml:"npcs"`
	Details         map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
	Locked          bool              `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// Empty texts for blank matrix cells.
const (
	EmptyName        = "Empty"
	EmptyDescription = "Open ground with nothing of note."
	EmptyEncounter   = "Nothing stirs here."
	EmptyAtmosphere  = "Still"
)

// NewEmpty returns the placeholder record for a blank cell.
func NewEmpty() Record {
	r := Record{
		Type:        CategoryEmpty,
		Name:        EmptyName,
		Description: EmptyDescription,
		Encounter:   EmptyEncounter,
		Atmosphere:  EmptyAtmosphere,
	}
	r.Normalize()
	return r
}

// Normalize replaces nil collections with empty ones.
func (r *Record) Normalize() {
	if r.RandomTable == nil {
		r.RandomTable = []string{}
	}
	if r.NotableFeatures == nil {
		r.NotableFeatures = []string{}
	}
	if r.Threats == nil {
		r.Threats = []string{}
	}
	if r.Treasures == nil {
		r.Treasures = []string{}
	}
	if r.NPCs == nil {
		r.NPCs = []string{}
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	c := r
	c.RandomTable = cloneStrings(r.RandomTable)
	c.NotableFeatures = cloneStrings(r.NotableFeatures)
	c.Threats = cloneStrings(r.Threats)
	c.Treasures = cloneStrings(r.Treasures)
	c.NPCs = cloneStrings(r.NPCs)
	if r.Details != nil {
		c.Details = make(map[string]string, len(r.Details))
		for k, v := range r.Details {
			c.Details[k] = v
		}
	}
	c.Normalize()
	return c
}

// SetDetail records a category-specific key/value pair.
func (r *Record) SetDetail(key, value string) {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Details[key] = value
}

// Markdown renders the record as a markdown section.
func (r Record) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", r.Name)
	fmt.Fprintf(&b, "*%s*", r.Type.Title())
	if r.Locked {
		b.WriteString(" (locked)")
	}
	b.WriteString("\n\n")

	if r.Description != "" {
		b.WriteString(r.Description + "\n\n")
	}
	if r.Atmosphere != "" {
		fmt.Fprintf(&b, "**Atmosphere:** %s\n\n", r.Atmosphere)
	}
	if r.Encounter != "" {
		fmt.Fprintf(&b, "**Encounter:** %s\n\n", r.Encounter)
	}

	writeList(&b, "Notable Features", r.NotableFeatures)
	writeList(&b, "Threats", r.Threats)
	writeList(&b, "Treasures", r.Treasures)
	writeList(&b, "NPCs", r.NPCs)

	if len(r.Details) > 0 {
		keys := make([]string, 0, len(r.Details))
		for k := range r.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("### Details\n\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s:** %s\n", k, r.Details[k])
		}
		b.WriteString("\n")
	}

	if len(r.RandomTable) > 0 {
		b.WriteString("### Random Table (2d6)\n\n")
		for _, row := range r.RandomTable {
			fmt.Fprintf(&b, "- %s\n", row)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Text renders the record as plain text for terminals.
func (r Record) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s]\n", r.Name, r.Type)
	for _, f := range []struct{ label, value string }{
		{"Description", r.Description},
		{"Atmosphere", r.Atmosphere},
		{"Encounter", r.Encounter},
	} {
		if f.value != "" {
			fmt.Fprintf(&b, "  %-12s %s\n", f.label+":", f.value)
		}
	}
	for _, l := range []struct {
		label string
		items []string
	}{
		{"Features", r.NotableFeatures},
		{"Threats", r.Threats},
		{"Treasures", r.Treasures},
		{"NPCs", r.NPCs},
	} {
		if len(l.items) > 0 {
			fmt.Fprintf(&b, "  %-12s %s\n", l.label+":", strings.Join(l.items, "; "))
		}
	}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %-12s %s\n", k+":", r.Details[k])
	}
	for _, row := range r.RandomTable {
		fmt.Fprintf(&b, "    %s\n", row)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Package help provides session help text loading and lookup from YAML.
package help

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed help.yaml
var defaultHelp []byte

// Topic represents a single help topic with aliases and text.
type Topic struct {
	Aliases []string `yaml:"aliases"`
	Text    string   `yaml:"text"`
}

// helpData represents the structure of a help file.
type helpData struct {
	Topics  map[string]Topic `yaml:"topics"`
	General string           `yaml:"general_help"`
}

// Help provides help text lookup. It is read-only after loading.
type Help struct {
	data        helpData
	aliasLookup map[string]string // alias -> topic name
}

// Default returns the built-in help.
func Default() *Help {
	h, err := Parse(defaultHelp)
	if err != nil {
		panic(fmt.Sprintf("help: built-in help.yaml: %v", err))
	}
	return h
}

// Load loads help data from a YAML file.
func Load(path string) (*Help, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read help file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Help from YAML. Topic names are always their own alias.
func Parse(data []byte) (*Help, error) {
	var hd helpData
	if err := yaml.Unmarshal(data, &hd); err != nil {
		return nil, fmt.Errorf("failed to parse help file: %w", err)
	}

	h := &Help{data: hd, aliasLookup: make(map[string]string)}
	for name, topic := range hd.Topics {
		h.aliasLookup[strings.ToLower(name)] = name
		for _, alias := range topic.Aliases {
			h.aliasLookup[strings.ToLower(alias)] = name
		}
	}
	return h, nil
}

// Topic returns help text for a topic or alias, or "" when unknown.
func (h *Help) Topic(topic string) string {
	name, ok := h.aliasLookup[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return ""
	}
	return strings.TrimSpace(h.data.Topics[name].Text)
}

// Topics returns the topic names in order.
func (h *Help) Topics() []string {
	names := make([]string, 0, len(h.data.Topics))
	for name := range h.data.Topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// General returns the general help text.
func (h *Help) General() string {
	return strings.TrimSpace(h.data.General)
}

// Text returns help for a topic, or general help if topic is empty.
func (h *Help) Text(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return h.General()
	}
	text := h.Topic(topic)
	if text == "" {
		return fmt.Sprintf("No help available for '%s'.\nType 'help' for a list of commands.", topic)
	}
	return text
}

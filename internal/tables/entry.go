package tables

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Entry is a structured table row, e.g. a price list item.
type Entry struct {
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Currency string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// String renders the entry as "Name (price currency)".
func (e Entry) String() string {
	if e.Price == 0 {
		return e.Name
	}
	price := strconv.FormatFloat(e.Price, 'f', -1, 64)
	if e.Currency == "" {
		return fmt.Sprintf("%s (%s)", e.Name, price)
	}
	return fmt.Sprintf("%s (%s %s)", e.Name, price, e.Currency)
}

// RenderValue turns a stored table value into display text. Plain strings
// pass through; JSON objects with a name are rendered as an Entry.
func RenderValue(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return raw
	}
	var e Entry
	if err := json.Unmarshal([]byte(trimmed), &e); err != nil || e.Name == "" {
		return raw
	}
	return e.String()
}

// renderAny renders a decoded YAML value (string, number or mapping).
func renderAny(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case int, int64, float64, bool:
		return fmt.Sprint(val), true
	case map[string]any:
		e := Entry{}
		if name, ok := val["name"].(string); ok {
			e.Name = name
		}
		switch p := val["price"].(type) {
		case int:
			e.Price = float64(p)
		case float64:
			e.Price = p
		}
		if cur, ok := val["currency"].(string); ok {
			e.Currency = cur
		}
		if e.Name == "" {
			return "", false
		}
		return e.String(), true
	}
	return "", false
}

package tables

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

// CanonicalLanguage normalises a language code to its BCP 47 form, e.g.
// "EN" -> "en", "pt_br" -> "pt-BR". Unparseable codes are lower-cased and
// passed through; the code is an opaque selector, not a logic input.
func CanonicalLanguage(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return tag.String()
}

// BaseLanguage returns the base language of code, e.g. "pt-BR" -> "pt".
// It returns "" when code has no more general form.
func BaseLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	if b := base.String(); b != tag.String() {
		return b
	}
	return ""
}

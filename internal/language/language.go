package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Parse accepts a BCP 47 tag or an ISO 639 two- or three-letter code.
func Parse(code string) (language.Tag, error) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return language.Und, fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("language %q: %w", code, err)
	}
	return tag, nil
}

// Canonical returns the canonical BCP 47 form used in dc:language and
// xml:lang attributes (e.g. "EN_gb" becomes "en-GB").
func Canonical(code string) (string, error) {
	tag, err := Parse(code)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

// ToISO2 returns the ISO 639-1 base language, or "" when code does not parse
// or has no two-letter form.
func ToISO2(code string) string {
	tag, err := Parse(code)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	if s := base.String(); len(s) == 2 {
		return s
	}
	return ""
}

// ToISO3 returns the ISO 639-2 code, or "und" when code does not parse.
func ToISO3(code string) string {
	tag, err := Parse(code)
	if err != nil {
		return "und"
	}
	base, _ := tag.Base()
	return base.ISO3()
}

// DisplayName returns the English name of the language.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	tag, err := Parse(code)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

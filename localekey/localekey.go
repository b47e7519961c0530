// Package localekey parses locale identifiers such as "en", "en_GB",
// "zh_Hant" and "zh_Hant_TW" into language, script and country fields.
//
// Classification is purely positional and length-based:
//
//   - part 0 is always the language code (e.g. "en", "zh").
//   - with two parts, a second part of 4+ characters is a script
//     ("zh_Hant"), anything shorter is a country ("en_GB").
//   - with three parts, the longer of the two extra parts is the script
//     and the shorter the country ("zh_Hant_TW", "sr_RS_Cyrl").
//
// Keys are immutable value types; Raw always holds the identifier as it
// appeared in the input.
package localekey

import (
	"fmt"
	"strings"
)

// Key is a decomposed locale identifier.
type Key struct {
	// Language is the base language code (part 0, e.g. "en").
	Language string
	// Script is the script code if present (e.g. "Hant"), else "".
	Script string
	// Country is the country/region code if present (e.g. "GB"), else "".
	Country string
	// Raw is the identifier exactly as supplied (e.g. "zh_Hant_TW").
	Raw string
}

// MalformedLocaleError reports a locale identifier that does not follow
// the 1–3 part underscore grammar.
type MalformedLocaleError struct {
	// Raw is the offending identifier.
	Raw string
	// Reason describes what rule was violated.
	Reason string
}

func (e *MalformedLocaleError) Error() string {
	return fmt.Sprintf("malformed locale identifier %q: %s", e.Raw, e.Reason)
}

// Parse decomposes a locale identifier into a Key.
//
// Returns a *MalformedLocaleError when the identifier is empty, has more
// than three underscore-separated parts, or has three parts whose two
// qualifiers are the same length (script vs country cannot be told apart).
func Parse(raw string) (Key, error) {
	if raw == "" {
		return Key{}, &MalformedLocaleError{Raw: raw, Reason: "empty identifier"}
	}

	parts := strings.Split(raw, "_")
	for _, p := range parts {
		if p == "" {
			return Key{}, &MalformedLocaleError{Raw: raw, Reason: "empty part"}
		}
	}

	k := Key{Language: parts[0], Raw: raw}

	switch len(parts) {
	case 1:
		// Bare language.
	case 2:
		if len(parts[1]) >= 4 {
			k.Script = parts[1]
		} else {
			k.Country = parts[1]
		}
	case 3:
		switch {
		case len(parts[1]) > len(parts[2]):
			k.Script, k.Country = parts[1], parts[2]
		case len(parts[2]) > len(parts[1]):
			k.Script, k.Country = parts[2], parts[1]
		default:
			return Key{}, &MalformedLocaleError{
				Raw:    raw,
				Reason: "script and country qualifiers have equal length",
			}
		}
	default:
		return Key{}, &MalformedLocaleError{
			Raw:    raw,
			Reason: fmt.Sprintf("expected 1-3 parts, got %d", len(parts)),
		}
	}

	return k, nil
}

// MustParse is Parse for identifiers known to be well-formed (literals in
// tests, generated lookups). Panics on error.
func MustParse(raw string) Key {
	k, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// IsRoot reports whether the key is a bare language (no script, no country).
func (k Key) IsRoot() bool {
	return k.Script == "" && k.Country == ""
}

// Specificity counts the qualifiers present (0 for a bare language,
// 1 for script-only or country-only, 2 for script+country).
func (k Key) Specificity() int {
	n := 0
	if k.Script != "" {
		n++
	}
	if k.Country != "" {
		n++
	}
	return n
}

// String returns the raw identifier.
func (k Key) String() string {
	return k.Raw
}

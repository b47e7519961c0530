// Package bundle holds the in-memory resource model shared by the loader,
// validator, hierarchy builder and emitter: per-locale resource bundles,
// per-key attribute metadata, and the build context threading both through
// a generation pass.
package bundle

import (
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Resource values and attributes
// ---------------------------------------------------------------------------

// Bundle maps resource keys to their string values for one locale.
type Bundle map[string]string

// AttrType is the declared kind of a resource value. The vocabulary is
// closed; anything else is an UnsupportedAttributeValueError at load time.
type AttrType string

const (
	// AttrString is a plain string resource.
	AttrString AttrType = "string"
	// AttrTemplate is a string with named substitution parameters.
	AttrTemplate AttrType = "template"
	// AttrPlural is a string with language-dependent plural forms.
	AttrPlural AttrType = "plural"
	// AttrList is an ordered list of strings.
	AttrList AttrType = "list"
)

// attrTypes is the accepted vocabulary in diagnostic order.
var attrTypes = []AttrType{AttrString, AttrTemplate, AttrPlural, AttrList}

// ParseAttrType validates a declared attribute type against the vocabulary.
func ParseAttrType(s string) (AttrType, error) {
	for _, t := range attrTypes {
		if string(t) == s {
			return t, nil
		}
	}
	accepted := make([]string, len(attrTypes))
	for i, t := range attrTypes {
		accepted[i] = string(t)
	}
	return "", &UnsupportedAttributeValueError{Value: s, Accepted: accepted}
}

// Attr is the metadata attached to a resource key. It is sourced from the
// baseline language only and shared read-only across all locales.
type Attr struct {
	// Type is the value kind from the closed vocabulary.
	Type AttrType
	// Params are substitution parameter names, in declaration order.
	Params []string
}

// Attrs maps resource keys to their metadata for one locale.
type Attrs map[string]Attr

// ---------------------------------------------------------------------------
// Build context
// ---------------------------------------------------------------------------

// Set is the full loaded input of one generation pass: every locale's
// resources and attributes plus the designated baseline language. It is
// built once by the loader and threaded read-only through the pipeline.
type Set struct {
	// Baseline is the reference locale identifier (a bare language).
	Baseline string
	// Resources maps locale identifier to its resource bundle.
	Resources map[string]Bundle
	// Attributes maps locale identifier to its attribute map. Only the
	// baseline's entry is authoritative; others may be empty.
	Attributes map[string]Attrs
}

// NewSet creates an empty Set with the given baseline language.
func NewSet(baseline string) *Set {
	return &Set{
		Baseline:   baseline,
		Resources:  make(map[string]Bundle),
		Attributes: make(map[string]Attrs),
	}
}

// Add registers one locale's resources and attributes.
func (s *Set) Add(locale string, res Bundle, attrs Attrs) {
	s.Resources[locale] = res
	if attrs != nil {
		s.Attributes[locale] = attrs
	}
}

// Locales returns all locale identifiers, sorted lexicographically so that
// every downstream traversal is reproducible.
func (s *Set) Locales() []string {
	locales := make([]string, 0, len(s.Resources))
	for l := range s.Resources {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// BaselineAttrs returns the baseline language's attribute map, or nil if
// the baseline was not loaded.
func (s *Set) BaselineAttrs() Attrs {
	return s.Attributes[s.Baseline]
}

// Keys returns the sorted resource keys of one locale.
func (s *Set) Keys(locale string) []string {
	b := s.Resources[locale]
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// UnsupportedAttributeValueError reports an attribute value outside the
// controlled vocabulary.
type UnsupportedAttributeValueError struct {
	// Value is the offending declared value.
	Value string
	// Accepted lists the known vocabulary for diagnostics.
	Accepted []string
}

func (e *UnsupportedAttributeValueError) Error() string {
	return fmt.Sprintf("unsupported attribute value %q (accepted: %s)",
		e.Value, strings.Join(e.Accepted, ", "))
}

// MissingBaselineKeyError reports a resource key used by some locale that
// has no entry in the baseline language's attribute map. The baseline is
// assumed complete; this is an invariant violation, not a recoverable case.
type MissingBaselineKeyError struct {
	// Key is the resource key with no baseline entry.
	Key string
	// Locale is the locale that referenced the key.
	Locale string
	// Baseline is the baseline language identifier.
	Baseline string
}

func (e *MissingBaselineKeyError) Error() string {
	return fmt.Sprintf("locale %s uses key %q which is missing from baseline %s",
		e.Locale, e.Key, e.Baseline)
}

// Package resolve synthesizes the per-language resolution tables: for each
// language known to the hierarchy, a small decision structure that maps a
// runtime (script, country) pair to the most specific locale present in
// the data.
//
// The table is plain data rather than inlined control flow, so the
// specificity policy can be tested on its own and the emitter can render
// the same structure as generated dispatch code.
package resolve

import (
	"sort"

	"github.com/minios-linux/locgen/hierarchy"
	"github.com/minios-linux/locgen/localekey"
)

// CountryArm maps one country code to its locale.
type CountryArm struct {
	Country string
	Target  localekey.Key
}

// ScriptArm is the decision branch for one script code. Once a script arm
// matches, resolution commits to it: the result is either one of its
// country arms or its script-level target, never a later branch.
type ScriptArm struct {
	Script string
	// Countries are the country arms recorded under (language, script).
	Countries []CountryArm
	// Target is the script-level result when no country arm matches:
	// the explicit language+script locale, or a stand-in when absent.
	Target localekey.Key
	// Synthetic is true when Target is a stand-in (the first locale in
	// sorted order carrying the script) rather than an explicit bundle.
	Synthetic bool
}

// Table is the resolution structure for a single language. A language
// match is the caller's precondition; Resolve only weighs script and
// country.
type Table struct {
	Language string
	// Single short-circuits every lookup when the language has exactly
	// one locale in the data.
	Single *localekey.Key
	// Scripts are the script branches, in sorted script order.
	Scripts []ScriptArm
	// Countries are the language-wide country arms consulted when no
	// script branch matched, in sorted country order.
	Countries []CountryArm
	// Default is the language's fallback result, normally the bare
	// language locale.
	Default localekey.Key
}

// Resolve picks the locale for a (script, country) pair. It never fails:
// an unmatched lookup lands on the language default.
func (t *Table) Resolve(script, country string) localekey.Key {
	if t.Single != nil {
		return *t.Single
	}

	if script != "" {
		for i := range t.Scripts {
			arm := &t.Scripts[i]
			if arm.Script != script {
				continue
			}
			if country != "" {
				for _, c := range arm.Countries {
					if c.Country == country {
						return c.Target
					}
				}
			}
			return arm.Target
		}
	}

	if country != "" {
		for _, c := range t.Countries {
			if c.Country == country {
				return c.Target
			}
		}
	}

	return t.Default
}

// BuildTable synthesizes the resolution table for one language of the
// forest.
func BuildTable(f *hierarchy.Forest, lang string) Table {
	locales := f.Locales(lang)
	t := Table{Language: lang}

	// The language default is the bare-language locale; if the data has
	// no bare bundle for this language, the first locale in sorted order
	// stands in so resolution stays total.
	t.Default = locales[0]
	for _, key := range locales {
		if key.IsRoot() {
			t.Default = key
			break
		}
	}

	if len(locales) == 1 {
		single := locales[0]
		t.Single = &single
		return t
	}

	for _, script := range f.Scripts(lang) {
		arm := ScriptArm{Script: script}

		// Match on parsed fields rather than a reconstructed identifier:
		// three-part raws may order script and country either way.
		for _, country := range f.Countries(lang, script) {
			for _, key := range locales {
				if key.Script == script && key.Country == country {
					arm.Countries = append(arm.Countries, CountryArm{
						Country: country,
						Target:  key,
					})
					break
				}
			}
		}

		if n, ok := f.Lookup(lang + "_" + script); ok {
			arm.Target = n.Key
		} else {
			// No explicit script-level bundle: stand in with the first
			// discovered locale carrying the script. Imprecise but
			// total; callers tolerate regional text here.
			for _, key := range locales {
				if key.Script == script {
					arm.Target = key
					arm.Synthetic = true
					break
				}
			}
		}

		t.Scripts = append(t.Scripts, arm)
	}

	// Language-wide country arms, regardless of script. When two locales
	// share a country under different scripts, sorted order decides.
	seen := make(map[string]bool)
	for _, key := range locales {
		if key.Country == "" || seen[key.Country] {
			continue
		}
		seen[key.Country] = true
		t.Countries = append(t.Countries, CountryArm{Country: key.Country, Target: key})
	}
	sort.Slice(t.Countries, func(i, j int) bool {
		return t.Countries[i].Country < t.Countries[j].Country
	})

	return t
}

// Resolver holds one table per language.
type Resolver map[string]Table

// New builds tables for every language in the forest.
func New(f *hierarchy.Forest) Resolver {
	r := make(Resolver, len(f.Languages()))
	for _, lang := range f.Languages() {
		r[lang] = BuildTable(f, lang)
	}
	return r
}

// Resolve picks the best locale for a full (language, script, country)
// triple. The second result is false when the language itself is unknown;
// for known languages a locale is always returned.
func (r Resolver) Resolve(lang, script, country string) (localekey.Key, bool) {
	t, ok := r[lang]
	if !ok {
		return localekey.Key{}, false
	}
	return t.Resolve(script, country), true
}

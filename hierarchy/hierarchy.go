// Package hierarchy builds the locale fallback forest: one tree per
// language, each node a locale present in the data, each non-root node
// pointing at the less specific locale it inherits from, and each node
// carrying only the resource values that differ from its parent.
//
// Nodes live in a flat arena and reference their parent by index, so the
// structure stays data-driven and the emitter resolves inheritance with an
// explicit chain walk rather than any host-language subtyping.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/minios-linux/locgen/bundle"
	"github.com/minios-linux/locgen/localekey"
)

// NoParent marks a root node's parent index.
const NoParent = -1

// Node is one locale in the fallback forest.
type Node struct {
	// Key is the parsed locale identifier.
	Key localekey.Key
	// Parent is the arena index of the fallback parent, or NoParent.
	Parent int
	// Own is the locale's complete resource bundle as loaded.
	Own bundle.Bundle
	// Overrides is the minimal subset of Own that differs from the
	// parent's bundle. For roots it equals Own.
	Overrides map[string]string
}

// Forest is the computed hierarchy over one full locale set.
type Forest struct {
	// Nodes is the arena, sorted by raw locale identifier.
	Nodes []Node

	index     map[string]int
	languages []string
	byLang    map[string][]localekey.Key     // language -> keys, sorted by raw
	scripts   map[string][]string            // language -> sorted script codes
	countries map[string]map[string][]string // language -> script -> sorted countries
}

// Build parses every locale identifier in the set, groups the keys by
// language and script, assigns fallback parents and computes override sets.
//
// All groupings are sorted lexicographically, so output is byte-for-byte
// reproducible for a fixed input set. A malformed identifier or a key
// missing from the baseline attribute map aborts with no partial result.
func Build(set *bundle.Set) (*Forest, error) {
	f := &Forest{
		index:     make(map[string]int),
		byLang:    make(map[string][]localekey.Key),
		scripts:   make(map[string][]string),
		countries: make(map[string]map[string][]string),
	}

	// Parse and group. set.Locales() is sorted, so per-language key lists
	// come out in lexicographic raw order without further sorting.
	scriptSets := make(map[string]map[string]bool)
	countrySets := make(map[string]map[string]map[string]bool)
	for _, raw := range set.Locales() {
		key, err := localekey.Parse(raw)
		if err != nil {
			return nil, err
		}

		lang := key.Language
		f.byLang[lang] = append(f.byLang[lang], key)

		if key.Script != "" {
			if scriptSets[lang] == nil {
				scriptSets[lang] = make(map[string]bool)
			}
			scriptSets[lang][key.Script] = true
		}
		if key.Script != "" && key.Country != "" {
			if countrySets[lang] == nil {
				countrySets[lang] = make(map[string]map[string]bool)
			}
			if countrySets[lang][key.Script] == nil {
				countrySets[lang][key.Script] = make(map[string]bool)
			}
			countrySets[lang][key.Script][key.Country] = true
		}

		f.index[raw] = len(f.Nodes)
		f.Nodes = append(f.Nodes, Node{
			Key:    key,
			Parent: NoParent,
			Own:    set.Resources[raw],
		})
	}

	for lang := range f.byLang {
		f.languages = append(f.languages, lang)
	}
	sort.Strings(f.languages)

	for lang, codes := range scriptSets {
		f.scripts[lang] = sortedKeys(codes)
	}
	for lang, perScript := range countrySets {
		f.countries[lang] = make(map[string][]string, len(perScript))
		for script, codes := range perScript {
			f.countries[lang][script] = sortedKeys(codes)
		}
	}

	// Assign parents, then diff each node against its parent's raw bundle.
	for i := range f.Nodes {
		f.Nodes[i].Parent = f.selectParent(f.Nodes[i].Key)
	}
	baseAttrs := set.BaselineAttrs()
	for i := range f.Nodes {
		overrides, err := f.computeOverrides(i, baseAttrs, set.Baseline)
		if err != nil {
			return nil, err
		}
		f.Nodes[i].Overrides = overrides
	}

	return f, nil
}

// selectParent picks the fallback parent index for a key, or NoParent.
//
// Priority: an explicit language+script locale for script+country keys;
// the bare language otherwise, except that country-only keys under a
// language with recorded scripts first try the language+script whose
// script code occurs textually in the identifier.
func (f *Forest) selectParent(key localekey.Key) int {
	if key.IsRoot() {
		return NoParent
	}

	lang := key.Language
	if key.Script != "" && key.Country != "" {
		if i, ok := f.index[lang+"_"+key.Script]; ok {
			return i
		}
		return f.indexOf(lang)
	}
	if key.Script != "" {
		// Script-only locales always hang off the bare language.
		return f.indexOf(lang)
	}

	// Country only. With no recorded scripts the bare language is the
	// parent; with scripts, prefer the language+script whose code appears
	// in the identifier (a script embedded positionally rather than
	// parsed out), falling back to the bare language when none matches.
	for _, script := range f.scripts[lang] {
		if !strings.Contains(key.Raw, script) {
			continue
		}
		cand := lang + "_" + script
		if cand == key.Raw {
			// A short script code can spell the same identifier as the
			// country form; never let a node parent itself.
			continue
		}
		if i, ok := f.index[cand]; ok {
			return i
		}
	}
	return f.indexOf(lang)
}

// computeOverrides diffs node i against its parent's own (non-reduced)
// bundle. A key is kept iff the parent lacks it or holds a different
// value. Roots keep their full bundle.
func (f *Forest) computeOverrides(i int, baseAttrs bundle.Attrs, baseline string) (map[string]string, error) {
	node := &f.Nodes[i]
	overrides := make(map[string]string, len(node.Own))

	var parentOwn bundle.Bundle
	if node.Parent != NoParent {
		parentOwn = f.Nodes[node.Parent].Own
	}

	for k, v := range node.Own {
		if _, ok := baseAttrs[k]; !ok {
			return nil, &bundle.MissingBaselineKeyError{
				Key:      k,
				Locale:   node.Key.Raw,
				Baseline: baseline,
			}
		}
		if parentOwn != nil {
			if pv, ok := parentOwn[k]; ok && pv == v {
				continue
			}
		}
		overrides[k] = v
	}

	return overrides, nil
}

func (f *Forest) indexOf(raw string) int {
	if i, ok := f.index[raw]; ok {
		return i
	}
	return NoParent
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Languages returns all language codes in sorted order.
func (f *Forest) Languages() []string {
	return f.languages
}

// Locales returns the language's locale keys sorted by raw identifier.
func (f *Forest) Locales(lang string) []localekey.Key {
	return f.byLang[lang]
}

// Scripts returns the script codes recorded for a language, sorted.
func (f *Forest) Scripts(lang string) []string {
	return f.scripts[lang]
}

// Countries returns the country codes recorded under (language, script),
// sorted. Empty when no locale carries both that script and a country.
func (f *Forest) Countries(lang, script string) []string {
	return f.countries[lang][script]
}

// Lookup returns the node for a raw locale identifier.
func (f *Forest) Lookup(raw string) (*Node, bool) {
	i, ok := f.index[raw]
	if !ok {
		return nil, false
	}
	return &f.Nodes[i], true
}

// ParentOf returns the node's fallback parent, or nil for roots.
func (f *Forest) ParentOf(n *Node) *Node {
	if n.Parent == NoParent {
		return nil
	}
	return &f.Nodes[n.Parent]
}

// Chain returns the fallback chain for a locale, most specific first,
// ending at the root of its tree.
func (f *Forest) Chain(raw string) []localekey.Key {
	var chain []localekey.Key
	i, ok := f.index[raw]
	for ok && i != NoParent {
		chain = append(chain, f.Nodes[i].Key)
		i = f.Nodes[i].Parent
		ok = true
	}
	return chain
}

// Value resolves a resource key for a locale by walking the fallback
// chain, mirroring what consumers of the emitted artifact do at runtime.
func (f *Forest) Value(raw, key string) (string, bool) {
	i, ok := f.index[raw]
	for ok && i != NoParent {
		if v, present := f.Nodes[i].Overrides[key]; present {
			return v, true
		}
		i = f.Nodes[i].Parent
	}
	return "", false
}

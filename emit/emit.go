// Package emit renders the computed hierarchy and resolution tables into
// an artifact: a self-contained generated Go source file, or a JSON
// description for inspection. The emitter only walks the structures the
// core produced; it takes no part in parent selection or resolution.
//
// Output is deterministic: languages, locales and resource keys are
// emitted in sorted order, so the same input set always produces the same
// bytes.
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/locgen/hierarchy"
	"github.com/minios-linux/locgen/resolve"
)

// Options controls the Go renderer.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
}

// header is the first line of every generated Go file, in the form the
// Go toolchain recognizes for generated code.
const header = "// Code generated by locgen. DO NOT EDIT.\n"

// ---------------------------------------------------------------------------
// Go source renderer
// ---------------------------------------------------------------------------

// Go renders the forest and resolver as a compilable Go source file with
// per-locale override maps, parent links, a Lookup dispatcher mirroring
// the resolution tables, and a Value accessor walking the fallback chain.
func Go(f *hierarchy.Forest, r resolve.Resolver, opts Options) []byte {
	pkg := opts.Package
	if pkg == "" {
		pkg = "locales"
	}

	var b bytes.Buffer
	b.WriteString(header)
	fmt.Fprintf(&b, "\npackage %s\n", pkg)

	writeLanguages(&b, f)
	writeParents(&b, f)
	writeOverrides(&b, f)
	writeLookup(&b, f, r)
	writeValue(&b)

	return b.Bytes()
}

func writeLanguages(b *bytes.Buffer, f *hierarchy.Forest) {
	b.WriteString("\n// Languages lists the supported language codes.\nvar Languages = []string{")
	for i, lang := range f.Languages() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(lang))
	}
	b.WriteString("}\n")
}

func writeParents(b *bytes.Buffer, f *hierarchy.Forest) {
	b.WriteString("\n// parents maps each locale to its fallback parent; roots are absent.\n")
	b.WriteString("var parents = map[string]string{\n")
	for i := range f.Nodes {
		n := &f.Nodes[i]
		p := f.ParentOf(n)
		if p == nil {
			continue
		}
		fmt.Fprintf(b, "\t%s: %s,\n", strconv.Quote(n.Key.Raw), strconv.Quote(p.Key.Raw))
	}
	b.WriteString("}\n")
}

func writeOverrides(b *bytes.Buffer, f *hierarchy.Forest) {
	b.WriteString("\n// overrides holds each locale's own values: the full bundle for\n")
	b.WriteString("// roots, and only the values differing from the parent elsewhere.\n")
	b.WriteString("var overrides = map[string]map[string]string{\n")
	for i := range f.Nodes {
		n := &f.Nodes[i]
		if name := languageName(n.Key.Language); name != "" {
			fmt.Fprintf(b, "\t%s: { // %s\n", strconv.Quote(n.Key.Raw), name)
		} else {
			fmt.Fprintf(b, "\t%s: {\n", strconv.Quote(n.Key.Raw))
		}
		keys := make([]string, 0, len(n.Overrides))
		for k := range n.Overrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "\t\t%s: %s,\n", strconv.Quote(k), strconv.Quote(n.Overrides[k]))
		}
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n")
}

func writeLookup(b *bytes.Buffer, f *hierarchy.Forest, r resolve.Resolver) {
	b.WriteString("\n// Lookup returns the best matching locale for a language, script and\n")
	b.WriteString("// country, or \"\" when the language is unknown.\n")
	b.WriteString("func Lookup(lang, script, country string) string {\n")
	b.WriteString("\tswitch lang {\n")

	for _, lang := range f.Languages() {
		t := r[lang]
		if name := languageName(lang); name != "" {
			fmt.Fprintf(b, "\tcase %s: // %s\n", strconv.Quote(lang), name)
		} else {
			fmt.Fprintf(b, "\tcase %s:\n", strconv.Quote(lang))
		}
		writeTable(b, &t)
	}

	b.WriteString("\t}\n\treturn \"\"\n}\n")
}

// writeTable renders one language's decision structure as nested switches,
// preserving the table's branch order.
func writeTable(b *bytes.Buffer, t *resolve.Table) {
	if t.Single != nil {
		fmt.Fprintf(b, "\t\treturn %s\n", strconv.Quote(t.Single.Raw))
		return
	}

	if len(t.Scripts) > 0 {
		b.WriteString("\t\tswitch script {\n")
		for _, arm := range t.Scripts {
			fmt.Fprintf(b, "\t\tcase %s:\n", strconv.Quote(arm.Script))
			if len(arm.Countries) > 0 {
				b.WriteString("\t\t\tswitch country {\n")
				for _, c := range arm.Countries {
					fmt.Fprintf(b, "\t\t\tcase %s:\n\t\t\t\treturn %s\n",
						strconv.Quote(c.Country), strconv.Quote(c.Target.Raw))
				}
				b.WriteString("\t\t\t}\n")
			}
			if arm.Synthetic {
				fmt.Fprintf(b, "\t\t\treturn %s // no explicit %s_%s bundle\n",
					strconv.Quote(arm.Target.Raw), t.Language, arm.Script)
			} else {
				fmt.Fprintf(b, "\t\t\treturn %s\n", strconv.Quote(arm.Target.Raw))
			}
		}
		b.WriteString("\t\t}\n")
	}

	if len(t.Countries) > 0 {
		b.WriteString("\t\tswitch country {\n")
		for _, c := range t.Countries {
			fmt.Fprintf(b, "\t\tcase %s:\n\t\t\treturn %s\n",
				strconv.Quote(c.Country), strconv.Quote(c.Target.Raw))
		}
		b.WriteString("\t\t}\n")
	}

	fmt.Fprintf(b, "\t\treturn %s\n", strconv.Quote(t.Default.Raw))
}

func writeValue(b *bytes.Buffer) {
	b.WriteString(`
// Value resolves a resource key for a locale by walking the fallback
// chain until some ancestor carries the key.
func Value(locale, key string) (string, bool) {
	for locale != "" {
		if v, ok := overrides[locale][key]; ok {
			return v, true
		}
		locale = parents[locale]
	}
	return "", false
}
`)
}

// languageName returns the English display name for a language code, or
// "" when the code is not a valid BCP 47 tag.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}

// ---------------------------------------------------------------------------
// JSON renderer
// ---------------------------------------------------------------------------

// localeDoc is one locale in the JSON description.
type localeDoc struct {
	Locale    string            `json:"locale"`
	Parent    string            `json:"parent,omitempty"`
	Overrides map[string]string `json:"overrides"`
}

type countryDoc struct {
	Country string `json:"country"`
	Target  string `json:"target"`
}

type scriptDoc struct {
	Script    string       `json:"script"`
	Countries []countryDoc `json:"countries,omitempty"`
	Target    string       `json:"target"`
	Synthetic bool         `json:"synthetic,omitempty"`
}

type tableDoc struct {
	Language  string       `json:"language"`
	Single    string       `json:"single,omitempty"`
	Scripts   []scriptDoc  `json:"scripts,omitempty"`
	Countries []countryDoc `json:"countries,omitempty"`
	Default   string       `json:"default"`
}

type doc struct {
	Languages []string    `json:"languages"`
	Locales   []localeDoc `json:"locales"`
	Tables    []tableDoc  `json:"tables"`
}

// JSON renders the forest and resolver as an indented JSON description,
// useful for inspecting the computed hierarchy without generating code.
func JSON(f *hierarchy.Forest, r resolve.Resolver) ([]byte, error) {
	d := doc{Languages: f.Languages()}

	for i := range f.Nodes {
		n := &f.Nodes[i]
		ld := localeDoc{Locale: n.Key.Raw, Overrides: n.Overrides}
		if p := f.ParentOf(n); p != nil {
			ld.Parent = p.Key.Raw
		}
		d.Locales = append(d.Locales, ld)
	}

	for _, lang := range f.Languages() {
		t := r[lang]
		td := tableDoc{Language: lang, Default: t.Default.Raw}
		if t.Single != nil {
			td.Single = t.Single.Raw
		}
		for _, arm := range t.Scripts {
			sd := scriptDoc{Script: arm.Script, Target: arm.Target.Raw, Synthetic: arm.Synthetic}
			for _, c := range arm.Countries {
				sd.Countries = append(sd.Countries, countryDoc{Country: c.Country, Target: c.Target.Raw})
			}
			td.Scripts = append(td.Scripts, sd)
		}
		for _, c := range t.Countries {
			td.Countries = append(td.Countries, countryDoc{Country: c.Country, Target: c.Target.Raw})
		}
		d.Tables = append(d.Tables, td)
	}

	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling description: %w", err)
	}
	return append(out, '\n'), nil
}

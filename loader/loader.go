// Package loader reads per-locale resource files from a directory and
// produces the build context consumed by the generation pipeline.
//
// Two file formats are supported, selected by extension:
//
//   - <locale>.json — a flat JSON object. Keys starting with "@" attach
//     attribute metadata to the matching resource key:
//
//     {
//         "greeting": "Hello, {name}!",
//         "@greeting": { "type": "template", "params": ["name"] }
//     }
//
//   - <locale>.yaml / <locale>.yml — a flat mapping of resource keys to
//     string values, with an optional "_attributes" block:
//
//     greeting: "Hello, {name}!"
//     _attributes:
//       greeting:
//         type: template
//         params: [name]
//
// The file stem is the locale identifier and must satisfy the underscore
// grammar; a malformed identifier aborts the whole load. Attribute type
// values outside the known vocabulary abort as well. Resource values must
// be strings in both formats.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/locgen/bundle"
	"github.com/minios-linux/locgen/localekey"
)

// LoadDir reads every locale file in dir and returns the assembled Set.
// baseline names the reference locale; it does not have to be loaded
// first, but downstream validation requires it to be present.
func LoadDir(dir, baseline string) (*bundle.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading locale directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	set := bundle.NewSet(baseline)
	for _, name := range names {
		locale := strings.TrimSuffix(name, filepath.Ext(name))
		if _, err := localekey.Parse(locale); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var res bundle.Bundle
		var attrs bundle.Attrs
		if filepath.Ext(name) == ".json" {
			res, attrs, err = ParseJSON(data)
		} else {
			res, attrs, err = ParseYAML(data)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		set.Add(locale, res, attrs)
	}

	return set, nil
}

// ---------------------------------------------------------------------------
// JSON format
// ---------------------------------------------------------------------------

// rawAttr is the on-disk shape of an "@key" metadata entry.
type rawAttr struct {
	Type   string   `json:"type" yaml:"type"`
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParseJSON parses a flat JSON locale file into resources and attributes.
// Decoding walks the object token by token so the "@" metadata convention
// can be applied without an intermediate map of any-typed values.
func ParseJSON(data []byte) (bundle.Bundle, bundle.Attrs, error) {
	res := make(bundle.Bundle)
	var attrs bundle.Attrs

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("parsing JSON: expected '{', got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("parsing JSON key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("parsing JSON: expected string key, got %T", keyTok)
		}

		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return nil, nil, fmt.Errorf("parsing value for %q: %w", key, err)
		}

		if strings.HasPrefix(key, "@") {
			var ra rawAttr
			if err := json.Unmarshal(rawVal, &ra); err != nil {
				return nil, nil, fmt.Errorf("parsing metadata for %q: %w", key, err)
			}
			attr, err := makeAttr(ra)
			if err != nil {
				return nil, nil, fmt.Errorf("metadata for %q: %w", key, err)
			}
			if attrs == nil {
				attrs = make(bundle.Attrs)
			}
			attrs[strings.TrimPrefix(key, "@")] = attr
			continue
		}

		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil {
			return nil, nil, fmt.Errorf("value for %q must be a string", key)
		}
		res[key] = s
	}

	return res, attrs, nil
}

// ---------------------------------------------------------------------------
// YAML format
// ---------------------------------------------------------------------------

// ParseYAML parses a flat YAML locale file into resources and attributes.
func ParseYAML(data []byte) (bundle.Bundle, bundle.Attrs, error) {
	var doc struct {
		Attributes map[string]rawAttr `yaml:"_attributes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing YAML: %w", err)
	}

	var flat map[string]yaml.Node
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, nil, fmt.Errorf("parsing YAML: %w", err)
	}

	res := make(bundle.Bundle)
	for key, node := range flat {
		if key == "_attributes" {
			continue
		}
		if node.Kind != yaml.ScalarNode {
			return nil, nil, fmt.Errorf("value for %q must be a string", key)
		}
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, nil, fmt.Errorf("value for %q must be a string", key)
		}
		res[key] = s
	}

	var attrs bundle.Attrs
	if len(doc.Attributes) > 0 {
		attrs = make(bundle.Attrs, len(doc.Attributes))
		for key, ra := range doc.Attributes {
			attr, err := makeAttr(ra)
			if err != nil {
				return nil, nil, fmt.Errorf("metadata for %q: %w", key, err)
			}
			attrs[key] = attr
		}
	}

	return res, attrs, nil
}

func makeAttr(ra rawAttr) (bundle.Attr, error) {
	// An omitted type means a plain string resource.
	if ra.Type == "" {
		return bundle.Attr{Type: bundle.AttrString, Params: ra.Params}, nil
	}
	at, err := bundle.ParseAttrType(ra.Type)
	if err != nil {
		return bundle.Attr{}, err
	}
	return bundle.Attr{Type: at, Params: ra.Params}, nil
}

package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/minios-linux/locgen/bundle"
	"github.com/minios-linux/locgen/hierarchy"
	"github.com/minios-linux/locgen/resolve"
)

func buildFixture(t *testing.T) (*hierarchy.Forest, resolve.Resolver) {
	t.Helper()
	set := bundle.NewSet("en")
	bundles := map[string]bundle.Bundle{
		"en":         {"greeting": "Hello", "ok": "OK"},
		"en_GB":      {"greeting": "Hello", "ok": "Right"},
		"zh":         {"greeting": "你好", "ok": "好"},
		"zh_Hant":    {"greeting": "你好", "ok": "好"},
		"zh_Hant_TW": {"greeting": "你好", "ok": "確定"},
	}
	attrs := make(bundle.Attrs)
	for _, b := range bundles {
		for k := range b {
			attrs[k] = bundle.Attr{Type: bundle.AttrString}
		}
	}
	for locale, b := range bundles {
		set.Add(locale, b, nil)
	}
	set.Attributes["en"] = attrs

	f, err := hierarchy.Build(set)
	if err != nil {
		t.Fatal(err)
	}
	return f, resolve.New(f)
}

func TestGo_Structure(t *testing.T) {
	f, r := buildFixture(t)
	out := string(Go(f, r, Options{Package: "msg"}))

	for _, want := range []string{
		"// Code generated by locgen. DO NOT EDIT.",
		"package msg",
		`var Languages = []string{"en", "zh"}`,
		`"zh_Hant_TW": "zh_Hant",`,
		`"en_GB": "en",`,
		"func Lookup(lang, script, country string) string {",
		`case "zh": // Chinese`,
		`case "Hant":`,
		`case "TW":`,
		`return "zh_Hant_TW"`,
		"func Value(locale, key string) (string, bool) {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated output missing %q", want)
		}
	}
}

func TestGo_OverridesAreMinimal(t *testing.T) {
	f, r := buildFixture(t)
	out := string(Go(f, r, Options{}))

	// zh_Hant differs from zh in nothing, so its map must be empty.
	if !strings.Contains(out, "\t\"zh_Hant\": { // Chinese\n\t},\n") {
		t.Errorf("zh_Hant override block not empty:\n%s", out)
	}
	// zh_Hant_TW only overrides "ok".
	if !strings.Contains(out, "\t\"zh_Hant_TW\": { // Chinese\n\t\t\"ok\": \"確定\",\n\t},\n") {
		t.Errorf("zh_Hant_TW override block wrong:\n%s", out)
	}
}

func TestGo_DefaultPackageName(t *testing.T) {
	f, r := buildFixture(t)
	out := string(Go(f, r, Options{}))
	if !strings.Contains(out, "package locales") {
		t.Error("default package clause missing")
	}
}

func TestGo_Deterministic(t *testing.T) {
	f, r := buildFixture(t)
	a := Go(f, r, Options{Package: "msg"})
	b := Go(f, r, Options{Package: "msg"})
	if !bytes.Equal(a, b) {
		t.Error("repeated renders differ")
	}

	// A fresh build from the same input must also match byte for byte.
	f2, r2 := buildFixture(t)
	c := Go(f2, r2, Options{Package: "msg"})
	if !bytes.Equal(a, c) {
		t.Error("renders from independent builds differ")
	}
}

func TestJSON(t *testing.T) {
	f, r := buildFixture(t)
	out, err := JSON(f, r)
	if err != nil {
		t.Fatal(err)
	}

	var d struct {
		Languages []string `json:"languages"`
		Locales   []struct {
			Locale string `json:"locale"`
			Parent string `json:"parent"`
		} `json:"locales"`
		Tables []struct {
			Language string `json:"language"`
			Default  string `json:"default"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(out, &d); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(d.Languages) != 2 || d.Languages[0] != "en" {
		t.Errorf("languages = %v", d.Languages)
	}
	if len(d.Locales) != 5 {
		t.Errorf("locales = %d, want 5", len(d.Locales))
	}
	for _, l := range d.Locales {
		if l.Locale == "zh_Hant_TW" && l.Parent != "zh_Hant" {
			t.Errorf("zh_Hant_TW parent = %q", l.Parent)
		}
	}
	if len(d.Tables) != 2 || d.Tables[1].Default != "zh" {
		t.Errorf("tables = %+v", d.Tables)
	}
}

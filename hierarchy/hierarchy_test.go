package hierarchy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/minios-linux/locgen/bundle"
)

// newSet builds a Set with baseline "en" whose attribute map covers every
// key appearing in any of the given bundles.
func newSet(t *testing.T, bundles map[string]bundle.Bundle) *bundle.Set {
	t.Helper()
	set := bundle.NewSet("en")
	attrs := make(bundle.Attrs)
	for locale, b := range bundles {
		for k := range b {
			attrs[k] = bundle.Attr{Type: bundle.AttrString}
		}
		set.Add(locale, b, nil)
	}
	set.Attributes["en"] = attrs
	return set
}

func sampleBundles() map[string]bundle.Bundle {
	return map[string]bundle.Bundle{
		"en":         {"greeting": "Hello", "farewell": "Goodbye", "ok": "OK"},
		"en_GB":      {"greeting": "Hello", "farewell": "Cheerio", "ok": "OK"},
		"zh":         {"greeting": "你好", "farewell": "再见", "ok": "好"},
		"zh_Hant":    {"greeting": "你好", "farewell": "再見", "ok": "好"},
		"zh_Hant_TW": {"greeting": "你好", "farewell": "再見", "ok": "確定"},
	}
}

func TestBuild_Parents(t *testing.T) {
	f, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}

	wantParents := map[string]string{
		"en":         "",
		"en_GB":      "en",
		"zh":         "",
		"zh_Hant":    "zh",
		"zh_Hant_TW": "zh_Hant",
	}
	for raw, wantParent := range wantParents {
		n, ok := f.Lookup(raw)
		if !ok {
			t.Fatalf("Lookup(%q): not found", raw)
		}
		p := f.ParentOf(n)
		if wantParent == "" {
			if p != nil {
				t.Errorf("%s: parent = %s, want none", raw, p.Key.Raw)
			}
			continue
		}
		if p == nil || p.Key.Raw != wantParent {
			t.Errorf("%s: parent = %v, want %s", raw, p, wantParent)
		}
	}
}

func TestBuild_ParentSpecificityDecreases(t *testing.T) {
	f, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Nodes {
		n := &f.Nodes[i]
		p := f.ParentOf(n)
		if p == nil {
			continue
		}
		if p.Key.Specificity() >= n.Key.Specificity() {
			t.Errorf("%s -> %s: parent specificity %d not below child %d",
				n.Key.Raw, p.Key.Raw, p.Key.Specificity(), n.Key.Specificity())
		}
	}
}

func TestBuild_ChainsTerminate(t *testing.T) {
	f, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Nodes {
		chain := f.Chain(f.Nodes[i].Key.Raw)
		if len(chain) == 0 || len(chain) > 3 {
			t.Errorf("%s: chain length %d", f.Nodes[i].Key.Raw, len(chain))
		}
		if last := chain[len(chain)-1]; !last.IsRoot() {
			t.Errorf("%s: chain ends at %s, not a root", f.Nodes[i].Key.Raw, last.Raw)
		}
	}
}

func TestBuild_OverrideMinimality(t *testing.T) {
	f, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}

	// zh_Hant_TW only changes "ok" relative to zh_Hant.
	n, _ := f.Lookup("zh_Hant_TW")
	want := map[string]string{"ok": "確定"}
	if !reflect.DeepEqual(n.Overrides, want) {
		t.Errorf("zh_Hant_TW overrides = %v, want %v", n.Overrides, want)
	}

	// zh_Hant changes only "farewell" relative to zh.
	n, _ = f.Lookup("zh_Hant")
	want = map[string]string{"farewell": "再見"}
	if !reflect.DeepEqual(n.Overrides, want) {
		t.Errorf("zh_Hant overrides = %v, want %v", n.Overrides, want)
	}

	// Roots carry their full bundle.
	n, _ = f.Lookup("en")
	if len(n.Overrides) != 3 {
		t.Errorf("en overrides = %v, want full bundle", n.Overrides)
	}
}

func TestBuild_OverrideIncludesKeysAbsentFromParent(t *testing.T) {
	bundles := sampleBundles()
	bundles["en_GB"]["lift"] = "Lift"
	bundles["en"]["lift"] = "Elevator"
	delete(bundles["en_GB"], "ok")

	f, err := Build(newSet(t, bundles))
	if err != nil {
		t.Fatal(err)
	}
	n, _ := f.Lookup("en_GB")
	want := map[string]string{"farewell": "Cheerio", "lift": "Lift"}
	if !reflect.DeepEqual(n.Overrides, want) {
		t.Errorf("en_GB overrides = %v, want %v", n.Overrides, want)
	}
}

func TestBuild_CountryOnlyWithScriptsFallsToLanguage(t *testing.T) {
	bundles := map[string]bundle.Bundle{
		"en":      {"greeting": "Hello"},
		"sr":      {"greeting": "Zdravo"},
		"sr_Cyrl": {"greeting": "Здраво"},
		"sr_ME":   {"greeting": "Zdravo"},
	}
	f, err := Build(newSet(t, bundles))
	if err != nil {
		t.Fatal(err)
	}
	n, _ := f.Lookup("sr_ME")
	p := f.ParentOf(n)
	if p == nil || p.Key.Raw != "sr" {
		t.Errorf("sr_ME parent = %v, want sr", p)
	}
}

func TestBuild_ScriptCountryWithoutScriptBundle(t *testing.T) {
	bundles := map[string]bundle.Bundle{
		"en":         {"greeting": "Hello"},
		"zh":         {"greeting": "你好"},
		"zh_Hant_TW": {"greeting": "你好"},
	}
	f, err := Build(newSet(t, bundles))
	if err != nil {
		t.Fatal(err)
	}
	n, _ := f.Lookup("zh_Hant_TW")
	p := f.ParentOf(n)
	if p == nil || p.Key.Raw != "zh" {
		t.Errorf("zh_Hant_TW parent = %v, want zh (no zh_Hant in data)", p)
	}
}

func TestBuild_Groupings(t *testing.T) {
	f, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}

	if got := f.Languages(); !reflect.DeepEqual(got, []string{"en", "zh"}) {
		t.Errorf("Languages() = %v", got)
	}
	if got := f.Scripts("zh"); !reflect.DeepEqual(got, []string{"Hant"}) {
		t.Errorf("Scripts(zh) = %v", got)
	}
	if got := f.Scripts("en"); len(got) != 0 {
		t.Errorf("Scripts(en) = %v, want none", got)
	}
	if got := f.Countries("zh", "Hant"); !reflect.DeepEqual(got, []string{"TW"}) {
		t.Errorf("Countries(zh, Hant) = %v", got)
	}
}

func TestBuild_MissingBaselineKey(t *testing.T) {
	set := newSet(t, sampleBundles())
	delete(set.Attributes["en"], "ok")

	_, err := Build(set)
	if err == nil {
		t.Fatal("expected MissingBaselineKeyError")
	}
	var mErr *bundle.MissingBaselineKeyError
	if !errors.As(err, &mErr) {
		t.Fatalf("error type %T, want *MissingBaselineKeyError", err)
	}
	if mErr.Key != "ok" {
		t.Errorf("Key = %q, want %q", mErr.Key, "ok")
	}
}

func TestBuild_MalformedLocaleAborts(t *testing.T) {
	set := newSet(t, sampleBundles())
	set.Add("zh_ab_cd", bundle.Bundle{"greeting": "x"}, nil)

	if _, err := Build(set); err == nil {
		t.Fatal("expected error for malformed locale identifier")
	}
}

func TestBuild_ValueWalksChain(t *testing.T) {
	f, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}

	// "greeting" is not overridden below zh, so every descendant
	// resolves it through the chain.
	for _, raw := range []string{"zh", "zh_Hant", "zh_Hant_TW"} {
		v, ok := f.Value(raw, "greeting")
		if !ok || v != "你好" {
			t.Errorf("Value(%s, greeting) = %q, %v", raw, v, ok)
		}
	}
	v, ok := f.Value("zh_Hant_TW", "ok")
	if !ok || v != "確定" {
		t.Errorf("Value(zh_Hant_TW, ok) = %q, %v", v, ok)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(newSet(t, sampleBundles()))
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Nodes) != len(b.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(a.Nodes), len(b.Nodes))
	}
	for i := range a.Nodes {
		if a.Nodes[i].Key != b.Nodes[i].Key || a.Nodes[i].Parent != b.Nodes[i].Parent {
			t.Errorf("node %d differs between runs", i)
		}
		if !reflect.DeepEqual(a.Nodes[i].Overrides, b.Nodes[i].Overrides) {
			t.Errorf("node %d overrides differ between runs", i)
		}
	}
}

package genlock

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(lf.Inputs) != 0 || lf.Output != "" {
		t.Errorf("fresh lock file not empty: %+v", lf)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	lf.Record(map[string]string{"en.json": "abc"}, "out123")
	if err := lf.Save(); err != nil {
		t.Fatal(err)
	}

	again, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if again.Inputs["en.json"] != "abc" || again.Output != "out123" {
		t.Errorf("reloaded = %+v", again)
	}
}

func TestUpToDate(t *testing.T) {
	lf, _ := Load(t.TempDir())
	inputs := map[string]string{"en.json": "a", "de.yaml": "b"}
	lf.Record(inputs, "out")

	if !lf.UpToDate(inputs, "out") {
		t.Error("expected up to date")
	}
	if lf.UpToDate(inputs, "other") {
		t.Error("output hash change should invalidate")
	}
	if lf.UpToDate(map[string]string{"en.json": "a"}, "out") {
		t.Error("removed input should invalidate")
	}
	if lf.UpToDate(map[string]string{"en.json": "a", "de.yaml": "x"}, "out") {
		t.Error("changed input should invalidate")
	}
}

func TestUpToDate_NeverFreshWithoutOutput(t *testing.T) {
	lf, _ := Load(t.TempDir())
	if lf.UpToDate(map[string]string{}, "") {
		t.Error("empty lock file must not be up to date")
	}
}

func TestStaleInputs(t *testing.T) {
	lf, _ := Load(t.TempDir())
	lf.Record(map[string]string{"en.json": "a", "de.yaml": "b", "fr.yaml": "c"}, "out")

	current := map[string]string{
		"en.json": "a",   // unchanged
		"de.yaml": "bb",  // changed
		"it.yaml": "new", // added
		// fr.yaml removed
	}
	want := []string{"de.yaml", "fr.yaml", "it.yaml"}
	if got := lf.StaleInputs(current); !reflect.DeepEqual(got, want) {
		t.Errorf("StaleInputs() = %v, want %v", got, want)
	}
}

func TestHashDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"en.json":   `{"a": "x"}`,
		"de.yaml":   "a: y\n",
		"notes.txt": "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	hashes, err := HashDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(hashes) != 2 {
		t.Errorf("hashes = %v, want en.json and de.yaml only", hashes)
	}
	if hashes["en.json"] != Hash([]byte(`{"a": "x"}`)) {
		t.Errorf("en.json hash mismatch")
	}
}

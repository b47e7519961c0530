// Package genlock implements locgen.lock — a lock file that records MD5
// checksums of the locale input files and the generated artifact. It lets
// the generate command skip work when nothing changed and lets status
// report which inputs drifted since the last generation.
//
// The lock file is stored alongside .locgen.yaml as locgen.lock.
package genlock

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "locgen.lock"

// Version is the lock file format version.
const Version = 1

// LockFile represents the locgen.lock file structure.
type LockFile struct {
	Version int `yaml:"version"`
	// Inputs maps locale file names (relative to the locales dir) to
	// the MD5 of their content at the last successful generation.
	Inputs map[string]string `yaml:"inputs"`
	// Output is the MD5 of the generated artifact.
	Output string `yaml:"output,omitempty"`

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{
		Version: Version,
		Inputs:  make(map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path

	if lf.Inputs == nil {
		lf.Inputs = make(map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// Hash computes the MD5 hex digest of file content.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// HashDir hashes every locale file in a directory, keyed by file name.
// Only the extensions the loader accepts are included.
func HashDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	hashes := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		hashes[e.Name()] = Hash(data)
	}
	return hashes, nil
}

// UpToDate reports whether the recorded state matches the current input
// hashes and output hash. An empty recorded output never counts as fresh.
func (lf *LockFile) UpToDate(inputs map[string]string, output string) bool {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.Output == "" || lf.Output != output {
		return false
	}
	if len(lf.Inputs) != len(inputs) {
		return false
	}
	for name, h := range inputs {
		if lf.Inputs[name] != h {
			return false
		}
	}
	return true
}

// StaleInputs returns the sorted names of inputs that are new, changed or
// removed relative to the recorded state.
func (lf *LockFile) StaleInputs(current map[string]string) []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	stale := make(map[string]bool)
	for name, h := range current {
		if lf.Inputs[name] != h {
			stale[name] = true
		}
	}
	for name := range lf.Inputs {
		if _, ok := current[name]; !ok {
			stale[name] = true
		}
	}

	names := make([]string, 0, len(stale))
	for name := range stale {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record replaces the stored state after a successful generation.
func (lf *LockFile) Record(inputs map[string]string, output string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	lf.Inputs = make(map[string]string, len(inputs))
	for name, h := range inputs {
		lf.Inputs[name] = h
	}
	lf.Output = output
}

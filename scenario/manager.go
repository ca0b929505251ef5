package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manager handles save/load of named scenarios under a base directory
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the path for a scenario file
func (m *Manager) FilePath(name string) string {
	return filepath.Join(m.basePath, name+".toml")
}

// Exists checks if a scenario file exists
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.FilePath(name))
	return err == nil
}

// Save writes a scenario to disk
func (m *Manager) Save(name string, f File) error {
	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return err
	}

	data, err := Encode(f)
	if err != nil {
		return err
	}

	return os.WriteFile(m.FilePath(name), data, 0644)
}

// Load reads and validates a scenario from disk
func (m *Manager) Load(name string) (File, error) {
	data, err := os.ReadFile(m.FilePath(name))
	if err != nil {
		return File{}, err
	}
	return Decode(data)
}

// List returns saved scenario names in sorted order
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// Encode serializes a scenario as TOML
func Encode(f File) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a TOML scenario; unknown keys are rejected
func Decode(data []byte) (File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, fmt.Errorf("decode scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("decode scenario: unknown key %q", undecoded[0].String())
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

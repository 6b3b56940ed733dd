package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env is an isolated set of XDG directories for one test
type Env struct {
	Root       string
	ConfigHome string
	StateHome  string
}

// IsolatedEnv redirects XDG_CONFIG_HOME and XDG_STATE_HOME to a temporary
// directory and disables colors. Everything is restored when the test ends.
func IsolatedEnv(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	env := &Env{
		Root:       root,
		ConfigHome: filepath.Join(root, "config"),
		StateHome:  filepath.Join(root, "state"),
	}

	t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	t.Setenv("NO_COLOR", "1")
	return env
}

// AppConfigPath returns the default config file location inside the env
func (e *Env) AppConfigPath(app, name string) string {
	return filepath.Join(e.ConfigHome, app, name)
}

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// ReadFile reads the content of a file.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	return string(content)
}

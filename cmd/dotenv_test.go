package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

// The serve command reads SCHEMAGENIUS_ADDR through the environment; main
// populates it from a .env file when one exists. These tests pin the loading
// semantics that setup relies on.
func TestDotenvLoading(t *testing.T) {
	chdir := func(t *testing.T, dir string) {
		t.Helper()
		orig, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		t.Cleanup(func() { os.Chdir(orig) })
	}

	t.Run("LoadsAddr", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SCHEMAGENIUS_ADDR=:9090\n"), 0644); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		chdir(t, dir)
		t.Setenv("SCHEMAGENIUS_ADDR", "")
		os.Unsetenv("SCHEMAGENIUS_ADDR")

		if err := godotenv.Load(); err != nil {
			t.Fatalf("godotenv.Load() error = %v", err)
		}
		if got := os.Getenv("SCHEMAGENIUS_ADDR"); got != ":9090" {
			t.Errorf("SCHEMAGENIUS_ADDR = %q, want :9090", got)
		}
	})

	t.Run("MissingFileErrors", func(t *testing.T) {
		chdir(t, t.TempDir())
		if err := godotenv.Load(); err == nil {
			t.Error("godotenv.Load() error = nil for a missing .env file")
		}
	})

	t.Run("EnvironmentWins", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SCHEMAGENIUS_ADDR=:1111\n"), 0644); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		chdir(t, dir)
		t.Setenv("SCHEMAGENIUS_ADDR", ":2222")

		if err := godotenv.Load(); err != nil {
			t.Fatalf("godotenv.Load() error = %v", err)
		}
		if got := os.Getenv("SCHEMAGENIUS_ADDR"); got != ":2222" {
			t.Errorf("SCHEMAGENIUS_ADDR = %q, want existing value :2222", got)
		}
	})
}

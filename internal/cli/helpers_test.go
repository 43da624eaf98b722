package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const shippedCatalog = "../../catalog/questions.yaml"

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// writeConfig writes a config pointing at the shipped catalog.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	catalog, err := filepath.Abs(shippedCatalog)
	if err != nil {
		t.Fatalf("abs catalog: %v", err)
	}
	body := "version: 1\ncatalog:\n  path: " + catalog + "\n" + extra
	return writeFile(t, filepath.Join(t.TempDir(), "probgen.yml"), body)
}

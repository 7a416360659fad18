package adapter

import (
	"os"
	"path/filepath"
	"testing"

	m "scopemv.dev/pkg/scopemv/internal/model"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o750); err != nil {
		t.Fatalf("failed to mkdir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "widget.src"), "scope App;\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "child.src"), "scope App.Nested;\n")

		var visited []string
		err := adapter.Walk(m.Path(root), false, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if containsPath(visited, filepath.Join(nestedDir, "child.src")) {
			t.Fatalf("Walk() unexpectedly visited nested file when recursive is false")
		}

		if !containsPath(visited, filepath.Join(root, "widget.src")) {
			t.Fatalf("Walk() did not visit top-level file")
		}
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "widget.src"), "scope App;\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "child.src")
		writeTestFile(t, child, "scope App.Nested;\n")

		var visited []string
		err := adapter.Walk(m.Path(root), true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file when recursive")
		}
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "widget.src")
	content := "scope App;\n\nclass Widget\n{\n}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_WriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "widget.src")
	content := []byte("scope App;\n")

	if err := adapter.WriteFile(m.Path(path), content, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}

	if string(got) != string(content) {
		t.Fatalf("WriteFile() wrote %q, want %q", string(got), string(content))
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "widget.src")
	writeTestFile(t, path, "scope App;\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func TestLocalSourceFSAdapter_RelPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := filepath.Join("Assets", "Scripts")
	target := filepath.Join(base, "Core", "widget.src")

	rel, err := adapter.RelPath(m.Path(base), m.Path(target))
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if rel != m.Path(filepath.Join("Core", "widget.src")) {
		t.Fatalf("RelPath() = %s, want Core/widget.src", rel)
	}
}

func TestLocalSourceFSAdapter_JoinPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	got := adapter.JoinPath("Assets", "Scripts", "widget.src")
	if got != m.Path(filepath.Join("Assets", "Scripts", "widget.src")) {
		t.Fatalf("JoinPath() = %s", got)
	}
}

package bundle

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupSource(t *testing.T) string {
	t.Helper()

	src := t.TempDir()
	files := map[string]string{
		"app.py":                          "print('app')",
		"data_loader.py":                  "print('loader')",
		"stock_indicator.py":              "print('indicator')",
		"requirements.txt":                "flask\n",
		"README.md":                       "# readme",
		"templates/index.html":            "<html></html>",
		"static/style.css":                "body {}",
		"templates/__pycache__/x.pyc":     "bytecode",
		"static/cached.pyc":               "bytecode",
	}
	for name, content := range files {
		path := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return src
}

func TestBuild_StagingContents(t *testing.T) {
	src := setupSource(t)
	out := t.TempDir()

	b := NewBuilder(Config{SourceDir: src, OutputDir: out})
	artifact, err := b.Build(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Полезная нагрузка и скрипты на месте
	for _, name := range []string{"app.py", "requirements.txt", "start.bat", "start.ps1", "config.py", "templates/index.html"} {
		if _, err := os.Stat(filepath.Join(artifact.StagingDir, filepath.FromSlash(name))); err != nil {
			t.Errorf("staging missing %s: %v", name, err)
		}
	}

	// Служебные директории созданы
	for _, dir := range []string{"logs", "data"} {
		info, err := os.Stat(filepath.Join(artifact.StagingDir, dir))
		if err != nil || !info.IsDir() {
			t.Errorf("staging missing dir %s", dir)
		}
	}
}

func TestBuild_ExcludesBytecode(t *testing.T) {
	src := setupSource(t)
	out := t.TempDir()

	b := NewBuilder(Config{SourceDir: src, OutputDir: out})
	artifact, err := b.Build(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(artifact.StagingDir, "templates", "__pycache__")); !os.IsNotExist(err) {
		t.Error("__pycache__ must be excluded")
	}
	if _, err := os.Stat(filepath.Join(artifact.StagingDir, "static", "cached.pyc")); !os.IsNotExist(err) {
		t.Error("*.pyc must be excluded")
	}
}

func TestBuild_ArchiveNameAndContents(t *testing.T) {
	src := setupSource(t)
	out := t.TempDir()

	b := NewBuilder(Config{SourceDir: src, OutputDir: out})
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	artifact, err := b.Build(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(artifact.ArchivePath, "stock-analysis-windows-20240601-123045.zip") {
		t.Errorf("unexpected archive name: %s", artifact.ArchivePath)
	}

	r, err := zip.OpenReader(artifact.ArchivePath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	names := make(map[string]bool, len(r.File))
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{"app.py", "start.bat", "config.py", "templates/index.html"} {
		if !names[want] {
			t.Errorf("archive missing %s", want)
		}
	}
	if artifact.FileCount != len(r.File) {
		t.Errorf("FileCount %d != archive entries %d", artifact.FileCount, len(r.File))
	}
}

func TestBuild_MissingItemsSkipped(t *testing.T) {
	// Только app.py; остальное из DefaultIncludes отсутствует
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "app.py"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(Config{SourceDir: src, OutputDir: t.TempDir()})
	if _, err := b.Build(time.Now()); err != nil {
		t.Fatalf("missing payload items must not fail the build: %v", err)
	}
}

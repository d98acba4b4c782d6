package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownload_WritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "tool.zip")
	f := NewFetcher(nil, nil)

	if err := f.Download(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(data) != "archive-bytes" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestDownload_SkipsExistingFile(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "tool.zip")
	if err := os.WriteFile(dest, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(nil, nil)
	if err := f.Download(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 0 {
		t.Errorf("existing file must short-circuit the fetch, got %d requests", hits)
	}
}

func TestDownload_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "tool.zip")
	f := NewFetcher(nil, nil)

	if err := f.Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed download must not leave a file at dest")
	}
}

// buildZip собирает zip в памяти из карты имя → содержимое.
func buildZip(t *testing.T, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "test.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractZip(t *testing.T) {
	src := buildZip(t, map[string]string{
		"nssm-2.24/README.txt":     "readme",
		"nssm-2.24/win32/nssm.exe": "exe32",
		"nssm-2.24/win64/nssm.exe": "exe64",
	})

	dest := t.TempDir()
	if err := ExtractZip(src, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "nssm-2.24", "win64", "nssm.exe"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "exe64" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestExtractZip_RejectsEscapingEntry(t *testing.T) {
	src := buildZip(t, map[string]string{
		"../evil.txt": "nope",
	})

	if err := ExtractZip(src, t.TempDir()); err == nil {
		t.Fatal("zip-slip entry must be rejected")
	}
}

func TestFindFile_PrefersDir(t *testing.T) {
	src := buildZip(t, map[string]string{
		"nssm-2.24/win32/nssm.exe": "exe32",
		"nssm-2.24/win64/nssm.exe": "exe64",
	})
	dest := t.TempDir()
	if err := ExtractZip(src, dest); err != nil {
		t.Fatal(err)
	}

	path, err := FindFile(dest, "nssm.exe", "win64")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(filepath.Dir(path)) != "win64" {
		t.Errorf("expected win64 binary, got %s", path)
	}
}

func TestFindFile_NotFound(t *testing.T) {
	if _, err := FindFile(t.TempDir(), "nssm.exe", "win64"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

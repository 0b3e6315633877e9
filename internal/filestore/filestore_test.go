package filestore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewDisk(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	ctx := context.Background()

	url, err := disk.Save(ctx, ".jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, URLPrefix) || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url %q", url)
	}

	path := filepath.Join(disk.Dir, strings.TrimPrefix(url, URLPrefix))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("unexpected content %q", data)
	}

	entries, _ := os.ReadDir(disk.Dir)
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}

	if err := disk.Delete(ctx, url); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected file to be gone, got %v", err)
	}

	// Deleting twice is fine.
	if err := disk.Delete(ctx, url); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestDiskDeleteRejectsForeignURLs(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	for _, url := range []string{
		"https://example.com/a.jpg",
		"/uploads/",
		"/uploads/../secret",
		"/uploads/sub/a.jpg",
		"/uploads/.upload-123",
	} {
		if err := disk.Delete(context.Background(), url); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Delete(%q): expected ErrInvalidURL, got %v", url, err)
		}
	}
}

func TestDiskHandler(t *testing.T) {
	disk, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	url, err := disk.Save(context.Background(), ".jpg", []byte("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+URLPrefix, disk.Handler())
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + url)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "hello" {
		t.Errorf("expected 200 hello, got %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(server.URL + URLPrefix)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for directory listing, got %d", resp.StatusCode)
	}
}

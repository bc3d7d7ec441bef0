package reload

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

func TestUniquePathsFiltersDuplicatesAndEmptyValues(t *testing.T) {
	paths := []string{"", "/tmp/a", "/tmp/b", "/tmp/a", "\t", "/tmp/c", "/tmp/b"}
	got := uniquePaths(paths)
	want := []string{"/tmp/a", "/tmp/b", "\t", "/tmp/c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("uniquePaths() = %v, want %v", got, want)
	}
}

func TestWatcherUpdateIncludesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	docFile := filepath.Join(dir, "plant.json")
	overrideFile := filepath.Join(dir, "catalog.json")

	writeFile(t, docFile, "{}")
	writeFile(t, overrideFile, "{}")

	var watcher Watcher
	if err := watcher.Update(docFile, overrideFile); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(watcher.files) != 2 {
		t.Fatalf("expected 2 tracked files, got %d", len(watcher.files))
	}
	if _, ok := watcher.files[docFile]; !ok {
		t.Fatalf("document file %s not tracked", docFile)
	}
	if _, ok := watcher.files[overrideFile]; !ok {
		t.Fatalf("override file %s not tracked", overrideFile)
	}
}

func TestWatcherUpdateSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")

	var watcher Watcher
	if err := watcher.Update(missing); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(watcher.files) != 0 {
		t.Fatalf("expected 0 tracked files, got %d", len(watcher.files))
	}
}

func TestWatcherCheckDetectsChangesAndRemovals(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.json")
	fileB := filepath.Join(dir, "b.json")
	writeFile(t, fileA, "first")
	writeFile(t, fileB, "second")

	watcher, err := NewWatcher(fileA, fileB)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if changed, err := watcher.Check(); err != nil {
		t.Fatalf("Check() error = %v", err)
	} else if len(changed) != 0 {
		t.Fatalf("expected no changes on first check, got %v", changed)
	}

	time.Sleep(10 * time.Millisecond)
	writeFile(t, fileA, "first-UPDATED")
	if err := os.Remove(fileB); err != nil {
		t.Fatalf("Remove(%s) error = %v", fileB, err)
	}

	changed, err := watcher.Check()
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	sort.Strings(changed)
	expected := []string{fileA, fileB}
	sort.Strings(expected)
	if !reflect.DeepEqual(changed, expected) {
		t.Fatalf("Check() = %v, want %v", changed, expected)
	}
}

func TestWatcherHandlesNilReceiver(t *testing.T) {
	var watcher *Watcher
	if err := watcher.Update("whatever.json"); err != nil {
		t.Fatalf("nil watcher Update() error = %v", err)
	}
	if changed, err := watcher.Check(); err != nil {
		t.Fatalf("nil watcher Check() error = %v", err)
	} else if changed != nil {
		t.Fatalf("expected nil slice from nil watcher, got %v", changed)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

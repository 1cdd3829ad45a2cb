package collapse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToggle(t *testing.T) {
	s := NewStore(NewMemoryBackend())

	if s.IsCollapsed("section:1") {
		t.Fatal("fresh store reports a collapsed key")
	}
	if err := s.Toggle("section:1"); err != nil {
		t.Fatal(err)
	}
	if !s.IsCollapsed("section:1") {
		t.Error("key not collapsed after toggle")
	}
	if err := s.Toggle("section:1"); err != nil {
		t.Fatal(err)
	}
	if s.IsCollapsed("section:1") {
		t.Error("key still collapsed after second toggle")
	}
}

func TestExpandAndCollapseAll(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	keys := []string{"section:1", "section:2", "group:status-completed"}

	if err := s.CollapseAll(keys); err != nil {
		t.Fatal(err)
	}
	for _, k := range keys {
		if !s.IsCollapsed(k) {
			t.Errorf("%q not collapsed after CollapseAll", k)
		}
	}
	if s.IsCollapsed("section:3") {
		t.Error("CollapseAll collapsed a key it was not given")
	}

	if err := s.ExpandAll(); err != nil {
		t.Fatal(err)
	}
	for _, k := range keys {
		if s.IsCollapsed(k) {
			t.Errorf("%q still collapsed after ExpandAll", k)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	backend := NewMemoryBackend()

	s := NewStore(backend)
	if err := s.Toggle("section:7"); err != nil {
		t.Fatal(err)
	}

	// Simulated reload: a fresh store over the same backend.
	reloaded := NewStore(backend)
	if !reloaded.IsCollapsed("section:7") {
		t.Error("collapsed key lost across reload")
	}
	if reloaded.IsCollapsed("section:8") {
		t.Error("reload invented a collapsed key")
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "collapsed.json")
	backend, err := NewFileBackend(path)
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore(backend)
	if err := s.Toggle("block:3"); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle("section:9"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewStore(backend)
	for _, k := range []string{"block:3", "section:9"} {
		if !reloaded.IsCollapsed(k) {
			t.Errorf("%q lost across file reload", k)
		}
	}
}

func TestFileBackendMissingFileDefaultsToExpanded(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "collapsed.json"))
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore(backend)
	if s.IsCollapsed("anything") {
		t.Error("missing state file produced a collapsed key")
	}
}

func TestFileBackendCorruptStateDefaultsToExpanded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collapsed.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	backend, err := NewFileBackend(path)
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore(backend)
	if s.IsCollapsed("anything") {
		t.Error("corrupt state file produced a collapsed key")
	}

	// The store must remain usable: the next toggle rewrites the file.
	if err := s.Toggle("section:1"); err != nil {
		t.Fatal(err)
	}
	if !NewStore(backend).IsCollapsed("section:1") {
		t.Error("toggle after corrupt load did not persist")
	}
}

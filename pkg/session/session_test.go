package session_test

import (
	"testing"

	"github.com/mallo-web/mallo/pkg/session"
)

func TestNew(t *testing.T) {
	s := session.New("abc")
	if s.ID != "abc" {
		t.Errorf("ID = %q, want %q", s.ID, "abc")
	}
	if s.IsDirty() {
		t.Error("new session should start clean")
	}
	if !s.IsNew() {
		t.Error("New() session should report IsNew")
	}
}

func TestFromValues_CopiesValues(t *testing.T) {
	stored := map[string]any{"k": "v"}
	s := session.FromValues("abc", stored)

	if s.IsNew() {
		t.Error("loaded session should not report IsNew")
	}

	s.Set("k", "changed")
	if stored["k"] != "v" {
		t.Error("mutating the working copy leaked into the stored map")
	}
}

func TestDirtyTracking(t *testing.T) {
	s := session.FromValues("abc", map[string]any{"k": "v"})

	if s.IsDirty() {
		t.Fatal("loaded session should start clean")
	}

	t.Run("set marks dirty", func(t *testing.T) {
		s := session.FromValues("abc", nil)
		s.Set("k", 1)
		if !s.IsDirty() {
			t.Error("Set should mark the session dirty")
		}
	})

	t.Run("delete existing key marks dirty", func(t *testing.T) {
		s := session.FromValues("abc", map[string]any{"k": "v"})
		s.Delete("k")
		if !s.IsDirty() {
			t.Error("Delete of an existing key should mark the session dirty")
		}
	})

	t.Run("delete missing key stays clean", func(t *testing.T) {
		s := session.FromValues("abc", map[string]any{"k": "v"})
		s.Delete("missing")
		if s.IsDirty() {
			t.Error("Delete of a missing key should not mark the session dirty")
		}
	})

	t.Run("read stays clean", func(t *testing.T) {
		s := session.FromValues("abc", map[string]any{"k": "v"})
		if _, ok := s.Get("k"); !ok {
			t.Fatal("Get returned no value")
		}
		if s.IsDirty() {
			t.Error("Get should not mark the session dirty")
		}
	})

	t.Run("clear dirty", func(t *testing.T) {
		s := session.New("abc")
		s.Set("k", 1)
		s.ClearDirty()
		if s.IsDirty() {
			t.Error("ClearDirty should reset the flag")
		}
	})
}

func TestSnapshot(t *testing.T) {
	s := session.New("abc")
	s.Set("k", "v")

	snap := s.Snapshot()
	if snap["k"] != "v" {
		t.Fatalf("Snapshot()[k] = %v", snap["k"])
	}

	snap["k"] = "changed"
	if v, _ := s.Get("k"); v != "v" {
		t.Error("mutating the snapshot leaked into the session")
	}
}

func TestTypedHelpers(t *testing.T) {
	s := session.New("abc")
	s.Set("theme", "dark")
	s.Set("count", 3)

	v, err := session.Value[string](s, "theme")
	if err != nil || v != "dark" {
		t.Errorf("Value[string] = %q, %v", v, err)
	}

	if _, err := session.Value[int](s, "theme"); err == nil {
		t.Error("Value with wrong type should error")
	}

	if _, err := session.Value[string](s, "missing"); err != session.ErrNotFound {
		t.Errorf("Value on missing key error = %v, want ErrNotFound", err)
	}

	if got := session.ValueOr(s, "missing", "light"); got != "light" {
		t.Errorf("ValueOr = %q, want default", got)
	}
	if got := session.ValueOr[string](nil, "theme", "light"); got != "light" {
		t.Errorf("ValueOr on nil session = %q, want default", got)
	}
	if got := session.ValueOr(s, "count", 0); got != 3 {
		t.Errorf("ValueOr = %d, want 3", got)
	}
}

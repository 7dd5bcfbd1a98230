package store

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	// Verify the database file doesn't exist yet
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	// Both tables should exist and be queryable.
	for _, table := range []string{"settings", "profiles"} {
		if _, err := s.DB().Exec("SELECT COUNT(*) FROM " + table); err != nil {
			t.Errorf("table %s missing after migrations: %v", table, err)
		}
	}
}

func TestSettingsRepository_SetGet(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if err := settings.Set("cursor_mode", "relative"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := settings.Get("cursor_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "relative" {
		t.Errorf("Get() = %q, want %q", got, "relative")
	}

	// Overwriting replaces the value.
	if err := settings.Set("cursor_mode", "absolute"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, _ = settings.Get("cursor_mode")
	if got != "absolute" {
		t.Errorf("Get() after overwrite = %q, want %q", got, "absolute")
	}
}

func TestSettingsRepository_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Settings().Get("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsRepository_All(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	settings.Set("a", "1")
	settings.Set("b", "2")

	all, err := settings.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 || all["a"] != "1" || all["b"] != "2" {
		t.Errorf("All() = %v", all)
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	settings.Set("doomed", "x")
	if err := settings.Delete("doomed"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := settings.Get("doomed"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := settings.Delete("never-existed"); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	profiles := s.Profiles()

	p := &Profile{
		Name:            "desk setup",
		CursorMode:      "absolute",
		MirrorX:         true,
		BaseSensitivity: 1.4,
		InRatio:         0.35,
		OutRatio:        0.55,
		BaselineFloorCm: 3.0,
		SmoothAlpha:     0.4,
	}
	if err := profiles.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create() should assign a UUID")
	}

	got, err := profiles.GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "desk setup" || got.BaseSensitivity != 1.4 || !got.MirrorX {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestProfileRepository_Create_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	profiles := s.Profiles()

	if err := profiles.Create(&Profile{Name: "laptop", CursorMode: "absolute"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := profiles.Create(&Profile{Name: "laptop", CursorMode: "relative"}); err == nil {
		t.Fatal("expected unique constraint violation for duplicate name")
	}
}

func TestProfileRepository_List(t *testing.T) {
	s := newTestStore(t)
	profiles := s.Profiles()

	profiles.Create(&Profile{Name: "b", CursorMode: "absolute"})
	profiles.Create(&Profile{Name: "a", CursorMode: "relative"})

	list, err := profiles.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d profiles, want 2", len(list))
	}
	if list[0].Name != "a" || list[1].Name != "b" {
		t.Errorf("List() not ordered by name: %s, %s", list[0].Name, list[1].Name)
	}
}

func TestProfileRepository_Update(t *testing.T) {
	s := newTestStore(t)
	profiles := s.Profiles()

	p := &Profile{Name: "tune me", CursorMode: "absolute", BaseSensitivity: 1.0}
	profiles.Create(p)

	p.BaseSensitivity = 2.5
	p.CursorMode = "relative"
	if err := profiles.Update(p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := profiles.GetByID(p.ID)
	if got.BaseSensitivity != 2.5 || got.CursorMode != "relative" {
		t.Errorf("Update() not persisted: %+v", got)
	}
}

func TestProfileRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Profiles().Update(&Profile{ID: "missing", Name: "ghost"})
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	profiles := s.Profiles()

	p := &Profile{Name: "doomed", CursorMode: "absolute"}
	profiles.Create(p)

	if err := profiles.Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := profiles.GetByID(p.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := profiles.Delete(p.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestProfileRepository_SetActive(t *testing.T) {
	s := newTestStore(t)
	profiles := s.Profiles()

	a := &Profile{Name: "a", CursorMode: "absolute"}
	b := &Profile{Name: "b", CursorMode: "relative"}
	profiles.Create(a)
	profiles.Create(b)

	if _, err := profiles.GetActive(); err != ErrNotFound {
		t.Fatalf("expected no active profile, got %v", err)
	}

	if err := profiles.SetActive(a.ID); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	active, err := profiles.GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if active.ID != a.ID {
		t.Errorf("active = %s, want %s", active.ID, a.ID)
	}

	// Switching deactivates the previous one.
	if err := profiles.SetActive(b.ID); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	active, _ = profiles.GetActive()
	if active.ID != b.ID {
		t.Errorf("active = %s, want %s", active.ID, b.ID)
	}

	gotA, _ := profiles.GetByID(a.ID)
	if gotA.Active {
		t.Error("previous active profile should be deactivated")
	}

	if err := profiles.SetActive("missing"); err != ErrNotFound {
		t.Errorf("SetActive on missing id: expected ErrNotFound, got %v", err)
	}
}

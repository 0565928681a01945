package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Migrations
// ============================================================

func TestMigrateSetsVersion(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != currentVersion {
		t.Errorf("user_version = %d, want %d", version, currentVersion)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdeck.db")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetRoleRate("Translator", 9.50); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: migrations must not reset anything.
	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	rates, err := s.RoleRateMap()
	if err != nil {
		t.Fatal(err)
	}
	if rates["Translator"] != 9.50 {
		t.Errorf("edited rate lost on reopen: %v", rates["Translator"])
	}
}

func TestSeededRoleRates(t *testing.T) {
	s := newTestStore(t)

	rates, err := s.RoleRateMap()
	if err != nil {
		t.Fatal(err)
	}
	if rates["Translator"] != 8.00 {
		t.Errorf("Translator rate = %v, want 8.00", rates["Translator"])
	}
	if rates["Sound Engineer"] != 6.00 {
		t.Errorf("Sound Engineer rate = %v, want 6.00", rates["Sound Engineer"])
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("export_dir", "/tmp/reports"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("export_dir")
	if err != nil {
		t.Fatal(err)
	}
	if v != "/tmp/reports" {
		t.Errorf("export_dir = %q", v)
	}

	// Upsert overwrites.
	s.SetSetting("export_dir", "/home/x")
	v, _ = s.GetSetting("export_dir")
	if v != "/home/x" {
		t.Errorf("after upsert = %q", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting("no_such_key"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestGetAllSettingsSeeded(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}

	found := map[string]string{}
	for _, st := range settings {
		found[st.Key] = st.Value
	}
	if _, ok := found["export_dir"]; !ok {
		t.Error("export_dir not seeded")
	}
	if found["default_sort"] != "completed" {
		t.Errorf("default_sort = %q, want completed", found["default_sort"])
	}
}

// ============================================================
// Role rates
// ============================================================

func TestSetRoleRateUpsert(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetRoleRate("Translator", 10.00); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRoleRate("Narrator", 7.25); err != nil {
		t.Fatal(err)
	}

	rates, _ := s.RoleRateMap()
	if rates["Translator"] != 10.00 {
		t.Errorf("Translator = %v, want 10.00", rates["Translator"])
	}
	if rates["Narrator"] != 7.25 {
		t.Errorf("Narrator = %v, want 7.25", rates["Narrator"])
	}
}

func TestSetRoleRateRejectsNonPositive(t *testing.T) {
	s := newTestStore(t)

	for _, rate := range []float64{0, -1, -0.01} {
		if err := s.SetRoleRate("Translator", rate); err == nil {
			t.Errorf("rate %v should be rejected", rate)
		}
	}

	// Seeded value untouched.
	rates, _ := s.RoleRateMap()
	if rates["Translator"] != 8.00 {
		t.Errorf("Translator = %v after rejected writes, want 8.00", rates["Translator"])
	}
}

func TestListRoleRatesOrdered(t *testing.T) {
	s := newTestStore(t)
	s.SetRoleRate("Animator", 5.50)

	rates, err := s.ListRoleRates()
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(rates))
	}
	if rates[0].Role != "Animator" || rates[1].Role != "Sound Engineer" || rates[2].Role != "Translator" {
		t.Errorf("order wrong: %+v", rates)
	}
}

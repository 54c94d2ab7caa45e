package configstore

import (
	"testing"
)

func TestGetCreatesDefaults(t *testing.T) {
	s := NewMemoryStore()

	cfg := s.Get("octo/widgets")
	if cfg.Owner != "octo" || cfg.Name != "widgets" {
		t.Fatalf("owner/name = %s/%s, want octo/widgets", cfg.Owner, cfg.Name)
	}
	if cfg.GracePeriodDays != 7 || cfg.MaxNudges != 3 || !cfg.AutoReleaseEnabled {
		t.Errorf("defaults wrong: %+v", cfg)
	}

	// Same pointer on the second lookup.
	if s.Get("octo/widgets") != cfg {
		t.Error("Get did not return the cached config")
	}
}

func TestSetOverrides(t *testing.T) {
	s := NewMemoryStore()

	cfg := s.Get("octo/widgets")
	cfg.GracePeriodDays = 14
	s.Set(cfg)

	if got := s.Get("octo/widgets"); got.GracePeriodDays != 14 {
		t.Errorf("GracePeriodDays = %d, want 14", got.GracePeriodDays)
	}
}

func TestAll(t *testing.T) {
	s := NewMemoryStore()
	s.Get("octo/widgets")
	s.Get("octo/gadgets")

	if got := len(s.All()); got != 2 {
		t.Errorf("len(All()) = %d, want 2", got)
	}
}

package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantworks/cerebro/model"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
strategy: smacross
cash: 50000
commission: 0.002
output: json
top: 5
`)
	p, err := NewService().Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.Strategy != "smacross" || p.Cash != 50000 || p.Commission != 0.002 {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.Output != "json" || p.Top != 5 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := NewService().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected an error for a missing explicit profile")
	}
}

func TestLoadMalformedProfile(t *testing.T) {
	path := writeProfile(t, "cash: [not a number\n")
	if _, err := NewService().Load(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestApplyRespectsExplicitFlags(t *testing.T) {
	p := &Profile{Strategy: "rsirevert", Cash: 50000, Output: "json"}
	flags := &model.Flags{Strategy: "smacross", Cash: 100000, Output: "table"}

	set := map[string]bool{"strategy": true}
	NewService().Apply(p, flags, func(name string) bool { return set[name] })

	if flags.Strategy != "smacross" {
		t.Error("explicit flag must win over the profile")
	}
	if flags.Cash != 50000 {
		t.Errorf("profile cash must apply, got %v", flags.Cash)
	}
	if flags.Output != "json" {
		t.Errorf("profile output must apply, got %v", flags.Output)
	}
}

func TestApplyNilProfile(t *testing.T) {
	flags := &model.Flags{Cash: 100000}
	NewService().Apply(nil, flags, func(string) bool { return false })
	if flags.Cash != 100000 {
		t.Error("nil profile must not touch flags")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nstehr/vimy/vimy-sim/model"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "balance.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
turn:
  duration: 30
economy:
  cadence: batched
ai:
  strategy: economic
  scores:
    infantry: "Aggression * UnitRatio * 0.5"
costs:
  tank:
    currency: 1
    oil: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Turn.Duration != 30 {
		t.Errorf("turn.duration = %v, want 30", cfg.Turn.Duration)
	}
	if cfg.Economy.Cadence != CadenceBatched {
		t.Errorf("cadence = %q, want batched", cfg.Economy.Cadence)
	}
	if cfg.Economy.BatchInterval != 0.5 {
		t.Errorf("batch_interval default lost: %v", cfg.Economy.BatchInterval)
	}
	if cfg.AI.Strategy != "economic" || cfg.AI.Difficulty != "normal" {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if cfg.AI.Scores["infantry"] == "" {
		t.Error("score override not loaded")
	}
	if cfg.Start.Human.Currency != 10 {
		t.Errorf("start.human default lost: %+v", cfg.Start.Human)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if got := cat[model.Tank].Cost; got != (model.Resources{Currency: 1, Oil: 2}) {
		t.Errorf("tank cost = %+v", got)
	}
	if got := cat[model.Infantry].Cost; got != model.DefaultCatalog()[model.Infantry].Cost {
		t.Errorf("infantry cost changed: %+v", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero turn", "turn:\n  duration: 0\n", "turn.duration"},
		{"bad cadence", "economy:\n  cadence: hourly\n", "economy.cadence"},
		{"negative preset", "start:\n  human:\n    wood: -1\n", "start.human"},
		{"unknown cost item", "costs:\n  battleship:\n    currency: 1\n", "unknown item"},
		{"no towers", "towers:\n  per_side: 0\n", "towers.per_side"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

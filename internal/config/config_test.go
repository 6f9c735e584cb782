package config

import (
	"os"
	"path/filepath"
	"testing"

	"cloudalign-core/align"
	"cloudalign-core/engine"
)

func TestDefaultsValid(t *testing.T) {
	d := Defaults()
	if err := Validate(d); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	ec, err := d.Engine()
	if err != nil {
		t.Fatal(err)
	}
	if ec != engine.DefaultConfig() {
		t.Fatalf("defaults drifted from engine defaults:\n%+v\n%+v", ec, engine.DefaultConfig())
	}
}

func TestLoadJSONKeepsDefaults(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(fn, []byte(`{"tolerance": 4, "mode": "posterior", "bias_correction": false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadJSON(fn, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tolerance != 4 || cfg.Mode != "posterior" || cfg.BiasCorrection {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MaxEvalue != Defaults().MaxEvalue || cfg.FlankModel != "length" {
		t.Fatalf("absent keys lost their defaults: %+v", cfg)
	}
	ec, err := cfg.Engine()
	if err != nil || ec.Method != align.Posterior || ec.Band.Tolerance != 4 {
		t.Fatalf("engine config %+v %v", ec, err)
	}
}

func TestLoadJSONRejectsUnknown(t *testing.T) {
	if _, err := LoadJSON("", []byte(`{"tolerence": 4}`)); err == nil {
		t.Fatal("typo key accepted")
	}
	if _, err := LoadJSON("", nil); err == nil {
		t.Fatal("empty source accepted")
	}
}

func TestMergeOnlySetKeys(t *testing.T) {
	base := Defaults()
	base.Tolerance = 7
	over := Config{Tolerance: 2, MaxEvalue: 0, Threads: 3}
	got := Merge(base, over, map[string]bool{"max-evalue": true, "threads": true})
	if got.Tolerance != 7 {
		t.Fatalf("unset key overridden: %d", got.Tolerance)
	}
	if got.MaxEvalue != 0 || got.Threads != 3 {
		t.Fatalf("set keys not applied: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.Tolerance = -1 },
		func(c *Config) { c.TrimThreshold = 1.5 },
		func(c *Config) { c.Mode = "greedy" },
		func(c *Config) { c.FlankModel = "hmmer" },
		func(c *Config) { c.ProfileMode = "global" },
		func(c *Config) { c.Threads = -2 },
	}
	for i, mut := range bad {
		c := Defaults()
		mut(&c)
		if err := Validate(c); err == nil {
			t.Fatalf("case %d: invalid config accepted", i)
		}
	}
}

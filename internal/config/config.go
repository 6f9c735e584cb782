// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cloudalign-core/align"
	"cloudalign-core/band"
	"cloudalign-core/engine"
	"cloudalign-core/profile"
	"cloudalign/internal/jsonutil"
)

// Config is the tunable surface shared by the JSON config file and flags.
// JSON keys are snake_case; the matching flags use dashes.
type Config struct {
	Tolerance      int     `json:"tolerance"`
	MinSeedScore   float64 `json:"min_seed_score"`
	MinCells       int     `json:"min_cells"`
	TrimThreshold  float64 `json:"trim_threshold"`
	Mode           string  `json:"mode"`
	MinScore       float64 `json:"min_score"`
	MaxEvalue      float64 `json:"max_evalue"`
	MaxCells       int     `json:"max_cells"`
	FlankModel     string  `json:"flank_model"`
	BiasCorrection bool    `json:"bias_correction"`
	DBSize         float64 `json:"db_size"`
	Threads        int     `json:"threads"`
	ProfileMode    string  `json:"profile_mode"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	ec := engine.DefaultConfig()
	return Config{
		Tolerance:      ec.Band.Tolerance,
		MinSeedScore:   ec.Band.MinSeedScore,
		MinCells:       ec.Band.MinCells,
		TrimThreshold:  ec.TrimThreshold,
		Mode:           ec.Method.String(),
		MinScore:       ec.MinScore,
		MaxEvalue:      ec.MaxEvalue,
		MaxCells:       ec.MaxCells,
		FlankModel:     ec.FlankModel.String(),
		BiasCorrection: ec.BiasCorrection,
		DBSize:         ec.DBSize,
		Threads:        0,
		ProfileMode:    profile.Local.String(),
	}
}

// LoadJSON reads a config file over Defaults (keys absent from the file keep
// their default). Unknown keys are rejected.
func LoadJSON(path string, raw []byte) (Config, error) {
	cfg := Defaults()
	src := path
	switch {
	case len(raw) > 0:
		if src == "" {
			src = "config"
		}
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		raw = data
	default:
		return cfg, errors.New("no config source provided")
	}
	if err := jsonutil.DecodeStrict(raw, src, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge returns base with every key named in set taken from over. Keys may
// be given as flag names (dashes) or JSON keys (underscores).
func Merge(base, over Config, set map[string]bool) Config {
	out := base
	has := func(key string) bool {
		return set[key] || set[strings.ReplaceAll(key, "_", "-")]
	}
	if has("tolerance") {
		out.Tolerance = over.Tolerance
	}
	if has("min_seed_score") {
		out.MinSeedScore = over.MinSeedScore
	}
	if has("min_cells") {
		out.MinCells = over.MinCells
	}
	if has("trim_threshold") {
		out.TrimThreshold = over.TrimThreshold
	}
	if has("mode") {
		out.Mode = strings.TrimSpace(over.Mode)
	}
	if has("min_score") {
		out.MinScore = over.MinScore
	}
	if has("max_evalue") {
		out.MaxEvalue = over.MaxEvalue
	}
	if has("max_cells") {
		out.MaxCells = over.MaxCells
	}
	if has("flank_model") {
		out.FlankModel = strings.TrimSpace(over.FlankModel)
	}
	if has("bias_correction") {
		out.BiasCorrection = over.BiasCorrection
	}
	if has("db_size") {
		out.DBSize = over.DBSize
	}
	if has("threads") {
		out.Threads = over.Threads
	}
	if has("profile_mode") {
		out.ProfileMode = strings.TrimSpace(over.ProfileMode)
	}
	return out
}

// Validate checks ranges and enumerations.
func Validate(cfg Config) error {
	switch {
	case cfg.Tolerance < 0:
		return errors.New("config: tolerance must be >= 0")
	case cfg.MinCells < 0:
		return errors.New("config: min_cells must be >= 0")
	case cfg.TrimThreshold < 0 || cfg.TrimThreshold > 1:
		return errors.New("config: trim_threshold must be within [0, 1]")
	case cfg.MaxEvalue < 0:
		return errors.New("config: max_evalue must be >= 0")
	case cfg.MaxCells < 0:
		return errors.New("config: max_cells must be >= 0")
	case cfg.DBSize < 0:
		return errors.New("config: db_size must be >= 0")
	case cfg.Threads < 0:
		return errors.New("config: threads must be >= 0")
	}
	if _, err := align.ParseMethod(cfg.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := engine.ParseFlankModel(cfg.FlankModel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := profile.ParseMode(cfg.ProfileMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Engine converts a validated Config to engine settings.
func (c Config) Engine() (engine.Config, error) {
	if err := Validate(c); err != nil {
		return engine.Config{}, err
	}
	m, _ := align.ParseMethod(c.Mode)
	fm, _ := engine.ParseFlankModel(c.FlankModel)
	return engine.Config{
		Band: band.Params{
			Tolerance:    c.Tolerance,
			MinSeedScore: c.MinSeedScore,
			MinCells:     c.MinCells,
		},
		TrimThreshold:  c.TrimThreshold,
		Method:         m,
		MinScore:       c.MinScore,
		MaxEvalue:      c.MaxEvalue,
		MaxCells:       c.MaxCells,
		FlankModel:     fm,
		BiasCorrection: c.BiasCorrection,
		DBSize:         c.DBSize,
	}, nil
}

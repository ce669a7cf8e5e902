package workouts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opencode-ai/rounds/internal/models"
	"github.com/opencode-ai/rounds/internal/sequence"
)

func writePreset(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadPreset(t *testing.T) {
	dir := t.TempDir()
	path := writePreset(t, dir, "short.yaml", `name: short
description: Short intervals
mode: intervals
prepare: 5s
work: 45s
rest: 15s
rounds: 3
tags: [Quick]
`)

	preset, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if preset.Source != path {
		t.Fatalf("expected source %q, got %q", path, preset.Source)
	}
	if !preset.HasTag("quick") {
		t.Fatalf("expected normalized tag, got %v", preset.Tags)
	}

	def, err := preset.Definition(10)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if def.Name != "short" || def.PrepareSeconds != 5 {
		t.Fatalf("unexpected definition header: %+v", def)
	}
	if def.TotalRepeats() != 3 || def.WorkSeconds() != 135 || def.RestSeconds() != 45 {
		t.Fatalf("unexpected totals: repeats=%d work=%d rest=%d", def.TotalRepeats(), def.WorkSeconds(), def.RestSeconds())
	}
}

func TestLoadCustomPreset(t *testing.T) {
	dir := t.TempDir()
	path := writePreset(t, dir, "custom.yaml", `name: ladder
blocks:
  - repeat: 2
    steps:
      - {kind: Work, duration: 10s}
      - {kind: rest, duration: 5s}
  - steps:
      - {kind: work, duration: 1m}
`)

	preset, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if preset.Mode != ModeCustom {
		t.Fatalf("expected mode to default to custom, got %q", preset.Mode)
	}
	if preset.Blocks[1].Repeat != 1 {
		t.Fatalf("expected missing repeat to default to 1, got %d", preset.Blocks[1].Repeat)
	}

	def, err := preset.Definition(0)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	seq := sequence.Build(def)
	if seq.Len() != 6 {
		t.Fatalf("expected 6 steps, got %d", seq.Len())
	}
	if seq.TotalRounds() != 3 {
		t.Fatalf("expected 3 rounds, got %d", seq.TotalRounds())
	}
	if got := seq.Step(5).DurationSeconds; got != 60 {
		t.Fatalf("expected final step of 60s, got %d", got)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	cases := map[string]string{
		"missing name":   "mode: emom\nwork: 1m\nrounds: 3\n",
		"unknown mode":   "name: x\nmode: yoga\nwork: 1m\n",
		"bad duration":   "name: x\nmode: emom\nwork: soon\nrounds: 3\n",
		"missing rounds": "name: x\nmode: intervals\nwork: 20s\nrest: 10s\n",
		"missing work":   "name: x\nmode: emom\nrounds: 3\n",
		"bad kind":       "name: x\nblocks:\n  - steps:\n      - {kind: sprint, duration: 10s}\n",
		"prepare kind":   "name: x\nblocks:\n  - steps:\n      - {kind: prepare, duration: 10s}\n",
		"negative":       "name: x\nmode: for-time\nwork: -5s\n",
		"mixed shape":    "name: x\nmode: emom\nwork: 1m\nrounds: 2\nblocks:\n  - steps:\n      - {kind: work, duration: 10s}\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writePreset(t, t.TempDir(), "bad.yaml", body)
			if _, err := LoadPreset(path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadPresetsFromDir(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "b.yaml", "name: beta\nmode: for-time\nwork: 5m\n")
	writePreset(t, dir, "a.yml", "name: alpha\nmode: emom\nwork: 1m\nrounds: 5\n")
	writePreset(t, dir, "notes.txt", "not a preset")

	presets, err := LoadPresetsFromDir(dir)
	if err != nil {
		t.Fatalf("LoadPresetsFromDir: %v", err)
	}
	if len(presets) != 2 || presets[0].Name != "alpha" || presets[1].Name != "beta" {
		t.Fatalf("unexpected presets: %+v", presets)
	}

	missing, err := LoadPresetsFromDir(filepath.Join(dir, "missing"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected no presets for missing dir, got %v, %v", missing, err)
	}
}

func TestLoadBuiltinPresets(t *testing.T) {
	presets, err := LoadBuiltinPresets()
	if err != nil {
		t.Fatalf("LoadBuiltinPresets: %v", err)
	}
	if len(presets) == 0 {
		t.Fatal("expected builtin presets")
	}

	for _, preset := range presets {
		if preset.Source != "builtin" {
			t.Fatalf("expected builtin source, got %q", preset.Source)
		}
		def, err := preset.Definition(models.DefaultPrepareSeconds)
		if err != nil {
			t.Fatalf("builtin %s: %v", preset.Name, err)
		}
		if seq := sequence.Build(def); seq.TimedSeconds() == 0 {
			t.Fatalf("builtin %s cannot be started", preset.Name)
		}
	}

	tabata, err := FindPreset(presets, "TABATA")
	if err != nil {
		t.Fatalf("FindPreset: %v", err)
	}
	def, _ := tabata.Definition(10)
	if def.TotalSeconds() != 10+8*30 {
		t.Fatalf("unexpected tabata length %d", def.TotalSeconds())
	}
}

func TestSearchPathPrecedence(t *testing.T) {
	project := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	projectPresets := filepath.Join(project, ".rounds", "presets")
	if err := os.MkdirAll(projectPresets, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writePreset(t, projectPresets, "tabata.yaml", "name: tabata\nmode: intervals\nwork: 30s\nrest: 15s\nrounds: 4\n")

	extra := t.TempDir()
	writePreset(t, extra, "mine.yaml", "name: mine\nmode: for-time\nwork: 12m\n")

	presets, err := LoadPresetsFromSearchPaths(project, extra)
	if err != nil {
		t.Fatalf("LoadPresetsFromSearchPaths: %v", err)
	}

	tabata, err := FindPreset(presets, "tabata")
	if err != nil {
		t.Fatalf("FindPreset: %v", err)
	}
	if tabata.Source == "builtin" || tabata.Rounds != 4 {
		t.Fatalf("expected project preset to shadow builtin, got %+v", tabata)
	}
	if _, err := FindPreset(presets, "mine"); err != nil {
		t.Fatalf("expected extra dir preset: %v", err)
	}
	if _, err := FindPreset(presets, "emom-10"); err != nil {
		t.Fatalf("expected builtins to remain: %v", err)
	}

	_, err = FindPreset(presets, "nope")
	if !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestFilterPresets(t *testing.T) {
	presets := []*Preset{
		{Name: "a", Tags: []string{"hiit", "short"}},
		{Name: "b", Tags: []string{"strength"}},
		{Name: "c", Tags: []string{"short"}},
		{Name: "d"},
	}

	tests := []struct {
		name     string
		tags     []string
		expected int
	}{
		{"no filter", nil, 4},
		{"single tag", []string{"short"}, 2},
		{"case insensitive", []string{"HIIT"}, 1},
		{"any of several", []string{"hiit", "strength"}, 2},
		{"no match", []string{"yoga"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterPresets(presets, tt.tags); len(got) != tt.expected {
				t.Errorf("FilterPresets() = %d presets, want %d", len(got), tt.expected)
			}
		})
	}
}

func TestModes(t *testing.T) {
	forTime := ForTime(12 * time.Minute)
	if forTime.TotalRepeats() != 1 || forTime.WorkSeconds() != 720 {
		t.Fatalf("unexpected for-time: %+v", forTime)
	}

	emom := EMOM(time.Minute, 10)
	if emom.TotalRepeats() != 10 || emom.RestSeconds() != 0 {
		t.Fatalf("unexpected emom: %+v", emom)
	}

	intervals := Intervals(20*time.Second, 0, 4)
	if len(intervals.Rounds[0].Steps) != 1 {
		t.Fatalf("expected zero rest to be dropped, got %+v", intervals.Rounds[0].Steps)
	}

	if _, err := Build(ModeCustom, Params{}); err == nil {
		t.Fatal("expected custom mode to require blocks")
	}

	for _, alias := range []string{"AMRAP", "fortime", "tabata", "Custom"} {
		if _, err := ParseMode(alias); err != nil {
			t.Fatalf("ParseMode(%q): %v", alias, err)
		}
	}
	if _, err := ParseMode("yoga"); err == nil {
		t.Fatal("expected unknown mode error")
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(1500 * time.Millisecond); got != 2 {
		t.Fatalf("expected rounding to 2, got %d", got)
	}
	if got := Seconds(90 * time.Second); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
}

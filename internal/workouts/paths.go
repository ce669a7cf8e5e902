package workouts

import (
	"os"
	"path/filepath"
)

// PresetSearchPaths returns preset search directories in precedence order.
func PresetSearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".rounds", "presets"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "rounds", "presets"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "rounds", "presets"))
	return paths
}

// LoadPresetsFromSearchPaths loads presets with first-hit precedence:
// extraDirs first, then the search paths, then the built-ins.
func LoadPresetsFromSearchPaths(projectDir string, extraDirs ...string) ([]*Preset, error) {
	paths := append(append([]string{}, extraDirs...), PresetSearchPaths(projectDir)...)
	seen := make(map[string]*Preset)
	order := make([]string, 0)

	add := func(presets []*Preset) {
		for _, preset := range presets {
			if _, exists := seen[preset.Name]; exists {
				continue
			}
			seen[preset.Name] = preset
			order = append(order, preset.Name)
		}
	}

	for _, path := range paths {
		presets, err := LoadPresetsFromDir(path)
		if err != nil {
			return nil, err
		}
		add(presets)
	}

	builtins, err := LoadBuiltinPresets()
	if err != nil {
		return nil, err
	}
	add(builtins)

	resolved := make([]*Preset, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}

	return resolved, nil
}

package workouts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/rounds/internal/models"
)

// ErrPresetNotFound is returned when no preset matches a name.
var ErrPresetNotFound = errors.New("preset not found")

// LoadPreset reads a single preset from disk.
func LoadPreset(path string) (*Preset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("preset path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", path, err)
	}

	preset, err := parsePreset(data)
	if err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	preset.Source = path
	return preset, nil
}

// LoadPresetsFromDir loads all presets from a directory. A missing
// directory yields no presets.
func LoadPresetsFromDir(dir string) ([]*Preset, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Preset{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Preset{}, nil
		}
		return nil, fmt.Errorf("read presets dir %s: %w", dir, err)
	}

	presets := make([]*Preset, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		preset, err := LoadPreset(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Name < presets[j].Name
	})

	return presets, nil
}

// FindPreset returns the preset named name, ignoring case.
func FindPreset(presets []*Preset, name string) (*Preset, error) {
	name = strings.TrimSpace(name)
	for _, preset := range presets {
		if strings.EqualFold(preset.Name, name) {
			return preset, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
}

// FilterPresets returns the presets carrying any of tags.
func FilterPresets(presets []*Preset, tags []string) []*Preset {
	if len(tags) == 0 {
		return presets
	}

	filtered := make([]*Preset, 0, len(presets))
	for _, preset := range presets {
		for _, tag := range tags {
			if preset.HasTag(tag) {
				filtered = append(filtered, preset)
				break
			}
		}
	}
	return filtered
}

func parsePreset(data []byte) (*Preset, error) {
	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, err
	}

	preset.Name = strings.TrimSpace(preset.Name)
	if preset.Name == "" {
		return nil, fmt.Errorf("preset name is required")
	}
	preset.Description = strings.TrimSpace(preset.Description)

	mode := ModeCustom
	if strings.TrimSpace(string(preset.Mode)) != "" {
		parsed, err := ParseMode(string(preset.Mode))
		if err != nil {
			return nil, err
		}
		mode = parsed
	}
	preset.Mode = mode

	for i := range preset.Tags {
		preset.Tags[i] = strings.ToLower(strings.TrimSpace(preset.Tags[i]))
	}

	if err := normalizeShape(&preset); err != nil {
		return nil, err
	}

	def, err := preset.Definition(models.DefaultPrepareSeconds)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &preset, nil
}

func normalizeShape(preset *Preset) error {
	switch preset.Mode {
	case ModeCustom:
		if len(preset.Blocks) == 0 {
			return fmt.Errorf("custom preset blocks are required")
		}
		if preset.Work != "" || preset.Rest != "" {
			return fmt.Errorf("custom preset uses blocks, not work/rest")
		}
		for i := range preset.Blocks {
			block := &preset.Blocks[i]
			if block.Repeat == 0 {
				block.Repeat = 1
			}
			if len(block.Steps) == 0 {
				return fmt.Errorf("block %d: steps are required", i+1)
			}
			for j := range block.Steps {
				step := &block.Steps[j]
				kind, err := models.ParseStepKind(string(step.Kind))
				if err != nil {
					return fmt.Errorf("block %d step %d: %w", i+1, j+1, err)
				}
				step.Kind = kind
				step.Duration = strings.TrimSpace(step.Duration)
				if step.Duration == "" {
					return fmt.Errorf("block %d step %d: duration is required", i+1, j+1)
				}
			}
		}

	default:
		if len(preset.Blocks) > 0 {
			return fmt.Errorf("%s preset does not take blocks", preset.Mode)
		}
		preset.Work = strings.TrimSpace(preset.Work)
		preset.Rest = strings.TrimSpace(preset.Rest)
		if preset.Work == "" {
			return fmt.Errorf("%s preset work duration is required", preset.Mode)
		}
		if preset.Mode == ModeForTime {
			preset.Rounds = 1
		} else if preset.Rounds <= 0 {
			return fmt.Errorf("%s preset rounds must be greater than 0", preset.Mode)
		}
	}
	preset.Prepare = strings.TrimSpace(preset.Prepare)
	return nil
}

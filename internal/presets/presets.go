package presets

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named bundle of default synthesis parameter values applied
// to a request before dispatch. Presets live on the serving side only so
// every client sees the same catalog.
type Preset struct {
	Name         string  `json:"name" yaml:"name"`
	Description  string  `json:"description,omitempty" yaml:"description,omitempty"`
	VoiceName    string  `json:"voice_name" yaml:"voice_name"`
	LanguageCode string  `json:"language_code" yaml:"language_code"`
	SpeakingRate float64 `json:"speaking_rate" yaml:"speaking_rate"`
	Pitch        float64 `json:"pitch" yaml:"pitch"`
}

//go:embed presets.yaml
var defaultPresets []byte

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// Load reads the preset catalog from path, falling back to the embedded
// defaults when path is empty.
func Load(path string) ([]Preset, error) {
	data := defaultPresets
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read presets file: %w", err)
		}
		data = b
	}

	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}
	if len(f.Presets) == 0 {
		return nil, fmt.Errorf("presets file defines no presets")
	}
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
	}
	return f.Presets, nil
}

// ByName finds a preset by name.
func ByName(list []Preset, name string) (Preset, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

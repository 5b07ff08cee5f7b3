package presets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	list, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded defaults: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("embedded defaults should define presets")
	}

	for i, p := range list {
		if p.Name == "" {
			t.Errorf("preset[%d] has no name", i)
		}
		if p.VoiceName == "" {
			t.Errorf("preset[%d] has no voice_name", i)
		}
		if p.LanguageCode == "" {
			t.Errorf("preset[%d] has no language_code", i)
		}
		if p.SpeakingRate < 0.5 || p.SpeakingRate > 2.0 {
			t.Errorf("preset[%d] speaking_rate %f out of the request bounds", i, p.SpeakingRate)
		}
		if p.Pitch < -10.0 || p.Pitch > 10.0 {
			t.Errorf("preset[%d] pitch %f out of the request bounds", i, p.Pitch)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	content := `presets:
  - name: custom
    voice_name: en-GB-Neural2-A
    language_code: en-GB
    speaking_rate: 1.1
    pitch: 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d presets, want 1", len(list))
	}
	if list[0].Name != "custom" || list[0].VoiceName != "en-GB-Neural2-A" {
		t.Errorf("unexpected preset: %+v", list[0])
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("Load of missing file should fail")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("presets: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load of invalid yaml should fail")
		}
	})

	t.Run("empty preset list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, []byte("presets: []"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load of empty preset list should fail")
		}
	})

	t.Run("unnamed preset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "unnamed.yaml")
		content := "presets:\n  - voice_name: en-US-Neural2-A\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load of unnamed preset should fail")
		}
	})
}

func TestByName(t *testing.T) {
	list, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	p, ok := ByName(list, "narration")
	if !ok {
		t.Fatal("narration preset should exist in defaults")
	}
	if p.VoiceName == "" {
		t.Error("found preset should carry a voice name")
	}

	if _, ok := ByName(list, "nope"); ok {
		t.Error("ByName of unknown preset should report not found")
	}
}

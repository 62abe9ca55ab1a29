package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dylan-ru/screen-dimmer/models"
)

func TestLoadMissingCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := NewSettingsStore(path)

	got := store.Load()
	if !reflect.DeepEqual(got, models.DefaultSettings()) {
		t.Fatalf("Load() = %+v want defaults", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults were not written: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	b := 35
	cases := []models.Settings{
		models.DefaultSettings(),
		{Brightness: 0, Color: models.Color{R: 51, G: 25}, AutoStart: true, MaxAlpha: 0.75},
		{
			Brightness: 100,
			Color:      models.Color{B: 38},
			MaxAlpha:   0.9,
			Monitors: models.MonitorProfiles{
				"HDMI-1": {Brightness: &b},
				"eDP-1":  {Disabled: true},
			},
		},
	}
	for i, want := range cases {
		if err := store.Save(want); err != nil {
			t.Fatalf("case %d: Save: %v", i, err)
		}
		got := store.Load()
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("case %d: Load() = %+v want %+v", i, got, want)
		}
	}
}

func TestLoadMalformedYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"garbage":    "{{{ not yaml",
		"scalar":     "just some text",
		"bad color":  "brightness: 50\ncolor: chartreuse\n",
		"bad number": "brightness: lots\n",
		"short hex":  "brightness: 40\ncolor: \"#12345\"\n",
		"long hex":   "brightness: 40\ncolor: \"#1234567\"\n",
		"non-hex":    "brightness: 40\ncolor: \"#12345g\"\n",
	} {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		got := NewSettingsStore(path).Load()
		if !reflect.DeepEqual(got, models.DefaultSettings()) {
			t.Fatalf("%s: Load() = %+v want defaults", name, got)
		}
		data, _ := os.ReadFile(path)
		if string(data) != body {
			t.Fatalf("%s: malformed file was overwritten", name)
		}
	}
}

func TestLoadClampsAndFillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	body := "brightness: 250\ncolor: [0, 300, -1]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got := NewSettingsStore(path).Load()
	if got.Brightness != 100 {
		t.Fatalf("Brightness = %d want 100", got.Brightness)
	}
	if got.Color != (models.Color{G: 255}) {
		t.Fatalf("Color = %v want #00ff00", got.Color)
	}
	if got.MaxAlpha != models.DefaultMaxAlpha {
		t.Fatalf("MaxAlpha = %v want default", got.MaxAlpha)
	}
}

func TestSaveFailsOnUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewSettingsStore(filepath.Join(blocker, "settings.yaml"))
	if err := store.Save(models.DefaultSettings()); err == nil {
		t.Fatalf("Save into a path under a regular file succeeded")
	}
}

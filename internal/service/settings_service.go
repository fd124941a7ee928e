package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
	"focustimer/internal/validation"
)

var ErrPresetNotFound = errors.New("preset not found")

// SettingsService owns the current settings and notifies subscribers after
// every accepted change.
type SettingsService struct {
	store  KeyValueStore
	logger *slog.Logger

	mu          sync.RWMutex
	settings    model.Settings
	presets     []model.TimerPreset
	subscribers []func(model.Settings)
}

func NewSettingsService(store KeyValueStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:    store,
		logger:   logger,
		settings: model.DefaultSettings(),
		presets:  model.BuiltinPresets(),
	}
}

// Load reads stored settings over the defaults. Unreadable or invalid
// settings leave the defaults in place.
func (s *SettingsService) Load(ctx context.Context) model.Settings {
	loaded := model.DefaultSettings()
	found, err := readJSON(ctx, s.store, KeySettings, &loaded)
	switch {
	case err != nil:
		s.logger.Warn("load settings, using defaults", "error", err)
		loaded = model.DefaultSettings()
	case !found:
	default:
		if verr := validation.ValidateSettings(loaded); verr != nil {
			s.logger.Warn("stored settings invalid, using defaults", "error", verr)
			loaded = model.DefaultSettings()
		}
	}

	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
	return loaded
}

func (s *SettingsService) Current() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Subscribe registers fn to run after every successful update.
func (s *SettingsService) Subscribe(fn func(model.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Update validates every field of patch and applies all of them, or none.
func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	if err := validation.ValidatePatch(patch); err != nil {
		return s.Current(), err
	}

	s.mu.Lock()
	updated := patch.Apply(s.settings)
	s.settings = updated
	subscribers := append([]func(model.Settings){}, s.subscribers...)
	s.mu.Unlock()

	if err := writeJSON(ctx, s.store, KeySettings, updated); err != nil {
		s.logger.Error("persist settings", "error", err)
	}
	for _, fn := range subscribers {
		fn(updated)
	}
	return updated, nil
}

func (s *SettingsService) Reset(ctx context.Context) (model.Settings, error) {
	return s.Update(ctx, validation.PatchFrom(model.DefaultSettings()))
}

// LoadPresets adds presets from a YAML file to the built-in catalog. A
// preset whose id matches a built-in replaces it.
func (s *SettingsService) LoadPresets(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read presets file: %w", err)
	}

	var file struct {
		Presets []model.TimerPreset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse presets file: %w", err)
	}

	catalog := model.BuiltinPresets()
	for _, preset := range file.Presets {
		if preset.ID == "" {
			return apperrors.Validation("id", "preset id is required")
		}
		if err := validation.ValidatePatch(preset.Patch()); err != nil {
			return fmt.Errorf("preset %s: %w", preset.ID, err)
		}
		if preset.Name == "" {
			preset.Name = preset.ID
		}
		replaced := false
		for i := range catalog {
			if catalog[i].ID == preset.ID {
				catalog[i] = preset
				replaced = true
			}
		}
		if !replaced {
			catalog = append(catalog, preset)
		}
	}

	s.mu.Lock()
	s.presets = catalog
	s.mu.Unlock()
	return nil
}

func (s *SettingsService) Presets() []model.TimerPreset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TimerPreset{}, s.presets...)
}

func (s *SettingsService) ApplyPreset(ctx context.Context, id string) (model.Settings, error) {
	for _, preset := range s.Presets() {
		if preset.ID == id {
			return s.Update(ctx, preset.Patch())
		}
	}
	return s.Current(), fmt.Errorf("%w: %s", ErrPresetNotFound, id)
}

// Export renders the current settings as indented JSON.
func (s *SettingsService) Export() ([]byte, error) {
	return json.MarshalIndent(s.Current(), "", "  ")
}

// Import applies a settings JSON document. Fields missing from the document
// keep their current values.
func (s *SettingsService) Import(ctx context.Context, document []byte) (model.Settings, error) {
	var patch model.SettingsPatch
	decoder := json.NewDecoder(bytes.NewReader(document))
	if err := decoder.Decode(&patch); err != nil {
		return s.Current(), apperrors.Validation("settings", "invalid settings document: "+err.Error())
	}
	return s.Update(ctx, patch)
}

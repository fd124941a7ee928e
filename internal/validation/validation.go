// Package validation checks user-supplied settings and labels before they
// reach the timer.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
)

const (
	MinFocusDuration     = 1
	MaxFocusDuration     = 120
	MinBreakDuration     = 1
	MaxBreakDuration     = 60
	MinLongBreakInterval = 2
	MaxLongBreakInterval = 10
	MinVolume            = 0
	MaxVolume            = 100
	MinFontSize          = 50
	MaxFontSize          = 200
	MaxTaskLabelLength   = 100
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

func ValidateFocusDuration(minutes int) (int, error) {
	return inRange("focusDuration", minutes, MinFocusDuration, MaxFocusDuration)
}

func ValidateShortBreakDuration(minutes int) (int, error) {
	return inRange("shortBreakDuration", minutes, MinBreakDuration, MaxBreakDuration)
}

func ValidateLongBreakDuration(minutes int) (int, error) {
	return inRange("longBreakDuration", minutes, MinBreakDuration, MaxBreakDuration)
}

func ValidateLongBreakInterval(sessions int) (int, error) {
	return inRange("longBreakInterval", sessions, MinLongBreakInterval, MaxLongBreakInterval)
}

func ValidateVolume(field string, volume int) (int, error) {
	return inRange(field, volume, MinVolume, MaxVolume)
}

func ValidateFontSize(percent int) (int, error) {
	return inRange("fontSize", percent, MinFontSize, MaxFontSize)
}

// WholeNumber converts a numeric input such as a JSON number into an int,
// rejecting fractions.
func WholeNumber(field string, value float64) (int, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, apperrors.Validation(field, fmt.Sprintf("%s must be a whole number", field))
	}
	return int(value), nil
}

// SanitizeTaskLabel strips markup, trims whitespace and truncates to
// MaxTaskLabelLength characters.
func SanitizeTaskLabel(label string) string {
	cleaned := strings.TrimSpace(markupTag.ReplaceAllString(label, ""))
	if utf8.RuneCountInString(cleaned) <= MaxTaskLabelLength {
		return cleaned
	}
	runes := []rune(cleaned)
	return string(runes[:MaxTaskLabelLength])
}

// ValidatePatch checks every present field and returns the first violation.
// A nil result means the whole patch may be applied.
func ValidatePatch(p model.SettingsPatch) error {
	checks := []struct {
		value *int
		check func(int) (int, error)
	}{
		{p.FocusDuration, ValidateFocusDuration},
		{p.ShortBreakDuration, ValidateShortBreakDuration},
		{p.LongBreakDuration, ValidateLongBreakDuration},
		{p.LongBreakInterval, ValidateLongBreakInterval},
		{p.NotificationVolume, func(v int) (int, error) { return ValidateVolume("notificationVolume", v) }},
		{p.AmbientVolume, func(v int) (int, error) { return ValidateVolume("ambientVolume", v) }},
		{p.FontSize, ValidateFontSize},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if _, err := c.check(*c.value); err != nil {
			return err
		}
	}

	if p.TimerMode != nil && !p.TimerMode.Valid() {
		return apperrors.Validation("timerMode", fmt.Sprintf("unknown timer mode %q", string(*p.TimerMode)))
	}
	if p.NotificationSound != nil && !p.NotificationSound.Valid() {
		return apperrors.Validation("notificationSound", fmt.Sprintf("unknown notification sound %q", string(*p.NotificationSound)))
	}
	if p.AmbientSound != nil && !p.AmbientSound.Valid() {
		return apperrors.Validation("ambientSound", fmt.Sprintf("unknown ambient sound %q", string(*p.AmbientSound)))
	}
	if p.Theme != nil && !p.Theme.Valid() {
		return apperrors.Validation("theme", fmt.Sprintf("unknown theme %q", string(*p.Theme)))
	}
	return nil
}

// ValidateSettings checks a complete settings value, e.g. one read back from
// storage or an import.
func ValidateSettings(s model.Settings) error {
	return ValidatePatch(PatchFrom(s))
}

// PatchFrom turns a full settings value into a patch that sets every field.
func PatchFrom(s model.Settings) model.SettingsPatch {
	return model.SettingsPatch{
		FocusDuration:              &s.FocusDuration,
		ShortBreakDuration:         &s.ShortBreakDuration,
		LongBreakDuration:          &s.LongBreakDuration,
		LongBreakInterval:          &s.LongBreakInterval,
		TimerMode:                  &s.TimerMode,
		AutoStartBreaks:            &s.AutoStartBreaks,
		AutoStartPomodoros:         &s.AutoStartPomodoros,
		NotificationSound:          &s.NotificationSound,
		NotificationVolume:         &s.NotificationVolume,
		EnableVibration:            &s.EnableVibration,
		EnableDesktopNotifications: &s.EnableDesktopNotifications,
		AmbientSound:               &s.AmbientSound,
		AmbientVolume:              &s.AmbientVolume,
		Theme:                      &s.Theme,
		Show24HourFormat:           &s.Show24HourFormat,
		ShowMilliseconds:           &s.ShowMilliseconds,
		HighContrast:               &s.HighContrast,
		FontSize:                   &s.FontSize,
		ReduceMotion:               &s.ReduceMotion,
	}
}

func inRange(field string, value, min, max int) (int, error) {
	if value < min || value > max {
		return 0, apperrors.Validation(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
	return value, nil
}

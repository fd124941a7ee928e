package validation

import (
	"strings"
	"testing"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
)

func TestValidateFocusDuration(t *testing.T) {
	for _, bad := range []int{0, 121, -5} {
		if _, err := ValidateFocusDuration(bad); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("ValidateFocusDuration(%d) err=%v, want validation error", bad, err)
		}
	}

	got, err := ValidateFocusDuration(25)
	if err != nil {
		t.Fatalf("ValidateFocusDuration(25) err=%v", err)
	}
	if got != 25 {
		t.Fatalf("ValidateFocusDuration(25) = %d, want 25", got)
	}

	for _, edge := range []int{1, 120} {
		if _, err := ValidateFocusDuration(edge); err != nil {
			t.Fatalf("ValidateFocusDuration(%d) err=%v", edge, err)
		}
	}
}

func TestBreakAndIntervalLimits(t *testing.T) {
	if _, err := ValidateShortBreakDuration(61); err == nil {
		t.Fatal("short break of 61 minutes accepted")
	}
	if _, err := ValidateLongBreakDuration(60); err != nil {
		t.Fatalf("long break of 60 minutes rejected: %v", err)
	}
	if _, err := ValidateLongBreakInterval(1); err == nil {
		t.Fatal("interval of 1 accepted")
	}
	if _, err := ValidateLongBreakInterval(10); err != nil {
		t.Fatalf("interval of 10 rejected: %v", err)
	}
}

func TestWholeNumber(t *testing.T) {
	if _, err := WholeNumber("focusDuration", 25.5); err == nil {
		t.Fatal("fractional minutes accepted")
	}
	got, err := WholeNumber("focusDuration", 30)
	if err != nil || got != 30 {
		t.Fatalf("WholeNumber(30) = %d, %v", got, err)
	}
}

func TestSanitizeTaskLabel(t *testing.T) {
	if got := SanitizeTaskLabel("  <b>Write</b> report <script>x</script> "); got != "Write report x" {
		t.Fatalf("SanitizeTaskLabel() = %q", got)
	}

	long := strings.Repeat("é", 150)
	if got := SanitizeTaskLabel(long); len([]rune(got)) != MaxTaskLabelLength {
		t.Fatalf("expected %d runes, got %d", MaxTaskLabelLength, len([]rune(got)))
	}
}

func TestValidatePatchReportsField(t *testing.T) {
	focus := 30
	volume := 101
	err := ValidatePatch(model.SettingsPatch{FocusDuration: &focus, AmbientVolume: &volume})

	var appErr *apperrors.AppError
	if !asAppError(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Field != "ambientVolume" {
		t.Fatalf("field = %q, want ambientVolume", appErr.Field)
	}

	theme := model.Theme("neon")
	if err := ValidatePatch(model.SettingsPatch{Theme: &theme}); err == nil {
		t.Fatal("unknown theme accepted")
	}

	if err := ValidateSettings(model.DefaultSettings()); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
}

func asAppError(err error, target **apperrors.AppError) bool {
	appErr, ok := err.(*apperrors.AppError)
	if ok {
		*target = appErr
	}
	return ok
}

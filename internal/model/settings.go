package model

type TimerMode string

const (
	TimerModeCountdown TimerMode = "countdown"
	TimerModeCountup   TimerMode = "countup"
)

func (m TimerMode) Valid() bool {
	switch m {
	case TimerModeCountdown, TimerModeCountup:
		return true
	}
	return false
}

type NotificationSound string

const (
	SoundBell  NotificationSound = "bell"
	SoundChime NotificationSound = "chime"
	SoundDing  NotificationSound = "ding"
	SoundGong  NotificationSound = "gong"
	SoundNone  NotificationSound = "none"
)

func (s NotificationSound) Valid() bool {
	switch s {
	case SoundBell, SoundChime, SoundDing, SoundGong, SoundNone:
		return true
	}
	return false
}

type AmbientSound string

const (
	AmbientNone       AmbientSound = "none"
	AmbientRain       AmbientSound = "rain"
	AmbientOcean      AmbientSound = "ocean"
	AmbientForest     AmbientSound = "forest"
	AmbientCafe       AmbientSound = "cafe"
	AmbientWhiteNoise AmbientSound = "white_noise"
)

func (s AmbientSound) Valid() bool {
	switch s {
	case AmbientNone, AmbientRain, AmbientOcean, AmbientForest, AmbientCafe, AmbientWhiteNoise:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Settings are the user preferences. Durations are whole minutes.
type Settings struct {
	FocusDuration      int       `json:"focusDuration"`
	ShortBreakDuration int       `json:"shortBreakDuration"`
	LongBreakDuration  int       `json:"longBreakDuration"`
	LongBreakInterval  int       `json:"longBreakInterval"`
	TimerMode          TimerMode `json:"timerMode"`
	AutoStartBreaks    bool      `json:"autoStartBreaks"`
	AutoStartPomodoros bool      `json:"autoStartPomodoros"`

	NotificationSound          NotificationSound `json:"notificationSound"`
	NotificationVolume         int               `json:"notificationVolume"`
	EnableVibration            bool              `json:"enableVibration"`
	EnableDesktopNotifications bool              `json:"enableDesktopNotifications"`

	AmbientSound  AmbientSound `json:"ambientSound"`
	AmbientVolume int          `json:"ambientVolume"`

	Theme            Theme `json:"theme"`
	Show24HourFormat bool  `json:"show24HourFormat"`
	ShowMilliseconds bool  `json:"showMilliseconds"`

	HighContrast bool `json:"highContrast"`
	FontSize     int  `json:"fontSize"`
	ReduceMotion bool `json:"reduceMotion"`
}

func DefaultSettings() Settings {
	return Settings{
		FocusDuration:              25,
		ShortBreakDuration:         5,
		LongBreakDuration:          10,
		LongBreakInterval:          4,
		TimerMode:                  TimerModeCountdown,
		NotificationSound:          SoundBell,
		NotificationVolume:         80,
		EnableVibration:            true,
		EnableDesktopNotifications: true,
		AmbientSound:               AmbientNone,
		AmbientVolume:              50,
		Theme:                      ThemeDark,
		Show24HourFormat:           true,
		FontSize:                   100,
	}
}

// DurationSeconds returns the configured length of a session type.
func (s Settings) DurationSeconds(sessionType SessionType) int {
	switch sessionType {
	case SessionShortBreak:
		return s.ShortBreakDuration * 60
	case SessionLongBreak:
		return s.LongBreakDuration * 60
	default:
		return s.FocusDuration * 60
	}
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	FocusDuration      *int       `json:"focusDuration,omitempty" yaml:"focusDuration,omitempty"`
	ShortBreakDuration *int       `json:"shortBreakDuration,omitempty" yaml:"shortBreakDuration,omitempty"`
	LongBreakDuration  *int       `json:"longBreakDuration,omitempty" yaml:"longBreakDuration,omitempty"`
	LongBreakInterval  *int       `json:"longBreakInterval,omitempty" yaml:"longBreakInterval,omitempty"`
	TimerMode          *TimerMode `json:"timerMode,omitempty" yaml:"timerMode,omitempty"`
	AutoStartBreaks    *bool      `json:"autoStartBreaks,omitempty" yaml:"autoStartBreaks,omitempty"`
	AutoStartPomodoros *bool      `json:"autoStartPomodoros,omitempty" yaml:"autoStartPomodoros,omitempty"`

	NotificationSound          *NotificationSound `json:"notificationSound,omitempty" yaml:"notificationSound,omitempty"`
	NotificationVolume         *int               `json:"notificationVolume,omitempty" yaml:"notificationVolume,omitempty"`
	EnableVibration            *bool              `json:"enableVibration,omitempty" yaml:"enableVibration,omitempty"`
	EnableDesktopNotifications *bool              `json:"enableDesktopNotifications,omitempty" yaml:"enableDesktopNotifications,omitempty"`

	AmbientSound  *AmbientSound `json:"ambientSound,omitempty" yaml:"ambientSound,omitempty"`
	AmbientVolume *int          `json:"ambientVolume,omitempty" yaml:"ambientVolume,omitempty"`

	Theme            *Theme `json:"theme,omitempty" yaml:"theme,omitempty"`
	Show24HourFormat *bool  `json:"show24HourFormat,omitempty" yaml:"show24HourFormat,omitempty"`
	ShowMilliseconds *bool  `json:"showMilliseconds,omitempty" yaml:"showMilliseconds,omitempty"`

	HighContrast *bool `json:"highContrast,omitempty" yaml:"highContrast,omitempty"`
	FontSize     *int  `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	ReduceMotion *bool `json:"reduceMotion,omitempty" yaml:"reduceMotion,omitempty"`
}

// Apply returns a copy of s with every non-nil field of p applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	setInt(&s.FocusDuration, p.FocusDuration)
	setInt(&s.ShortBreakDuration, p.ShortBreakDuration)
	setInt(&s.LongBreakDuration, p.LongBreakDuration)
	setInt(&s.LongBreakInterval, p.LongBreakInterval)
	if p.TimerMode != nil {
		s.TimerMode = *p.TimerMode
	}
	setBool(&s.AutoStartBreaks, p.AutoStartBreaks)
	setBool(&s.AutoStartPomodoros, p.AutoStartPomodoros)
	if p.NotificationSound != nil {
		s.NotificationSound = *p.NotificationSound
	}
	setInt(&s.NotificationVolume, p.NotificationVolume)
	setBool(&s.EnableVibration, p.EnableVibration)
	setBool(&s.EnableDesktopNotifications, p.EnableDesktopNotifications)
	if p.AmbientSound != nil {
		s.AmbientSound = *p.AmbientSound
	}
	setInt(&s.AmbientVolume, p.AmbientVolume)
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	setBool(&s.Show24HourFormat, p.Show24HourFormat)
	setBool(&s.ShowMilliseconds, p.ShowMilliseconds)
	setBool(&s.HighContrast, p.HighContrast)
	setInt(&s.FontSize, p.FontSize)
	setBool(&s.ReduceMotion, p.ReduceMotion)
	return s
}

func (p SettingsPatch) Empty() bool {
	return p == SettingsPatch{}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// TimerPreset is a named set of durations that can be applied in one step.
type TimerPreset struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Icon               string `json:"icon,omitempty" yaml:"icon,omitempty"`
	FocusDuration      int    `json:"focusDuration" yaml:"focusDuration"`
	ShortBreakDuration int    `json:"shortBreakDuration" yaml:"shortBreakDuration"`
	LongBreakDuration  int    `json:"longBreakDuration" yaml:"longBreakDuration"`
	LongBreakInterval  int    `json:"longBreakInterval" yaml:"longBreakInterval"`
}

func (p TimerPreset) Patch() SettingsPatch {
	focus, short, long, interval := p.FocusDuration, p.ShortBreakDuration, p.LongBreakDuration, p.LongBreakInterval
	return SettingsPatch{
		FocusDuration:      &focus,
		ShortBreakDuration: &short,
		LongBreakDuration:  &long,
		LongBreakInterval:  &interval,
	}
}

func BuiltinPresets() []TimerPreset {
	return []TimerPreset{
		{ID: "classic", Name: "Classic Pomodoro", Icon: "🍅", FocusDuration: 25, ShortBreakDuration: 5, LongBreakDuration: 10, LongBreakInterval: 4},
		{ID: "extended", Name: "Extended Focus", Icon: "🎯", FocusDuration: 50, ShortBreakDuration: 10, LongBreakDuration: 20, LongBreakInterval: 4},
		{ID: "short", Name: "Short Sprints", Icon: "⚡", FocusDuration: 15, ShortBreakDuration: 3, LongBreakDuration: 8, LongBreakInterval: 4},
		{ID: "custom", Name: "Custom", Icon: "⚙️", FocusDuration: 25, ShortBreakDuration: 5, LongBreakDuration: 10, LongBreakInterval: 4},
	}
}

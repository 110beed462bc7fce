package state

// SettingsState holds user preferences persisted to the local store.
// Loaded gates the first render: the UI must not flash defaults before
// the persisted values are seeded.
type SettingsState struct {
	IsDarkMode     bool
	Is12h          bool
	HideRemoved    bool
	ShowOwnRemoved bool
	Timezone       string

	Loaded bool
}

// DefaultSettings are used when nothing is persisted yet.
func DefaultSettings() SettingsState {
	return SettingsState{
		IsDarkMode:     true,
		Is12h:          false,
		HideRemoved:    true,
		ShowOwnRemoved: true,
		Timezone:       "UTC",
	}
}

// Settings actions. SettingsLoaded seeds the slice from the local
// store at startup; the toggles and SetTimezone are persisted back by
// the settings saga watcher.
var (
	SettingsLoaded       = NewEvent[SettingsState]("settings/loaded")
	ToggleDarkMode       = NewEvent[struct{}]("settings/toggleDarkMode")
	Toggle12h            = NewEvent[struct{}]("settings/toggle12h")
	ToggleHideRemoved    = NewEvent[struct{}]("settings/toggleHideRemoved")
	ToggleShowOwnRemoved = NewEvent[struct{}]("settings/toggleShowOwnRemoved")
	SetTimezone          = NewEvent[string]("settings/setTimezone")
)

var settingsReducer = func() *Reducer[SettingsState] {
	b := NewBuilder(DefaultSettings())

	HandleEvent(b, SettingsLoaded, func(_ SettingsState, p SettingsState) SettingsState {
		p.Loaded = true
		return p
	})
	HandleEvent(b, ToggleDarkMode, func(s SettingsState, _ struct{}) SettingsState {
		s.IsDarkMode = !s.IsDarkMode
		return s
	})
	HandleEvent(b, Toggle12h, func(s SettingsState, _ struct{}) SettingsState {
		s.Is12h = !s.Is12h
		return s
	})
	HandleEvent(b, ToggleHideRemoved, func(s SettingsState, _ struct{}) SettingsState {
		s.HideRemoved = !s.HideRemoved
		return s
	})
	HandleEvent(b, ToggleShowOwnRemoved, func(s SettingsState, _ struct{}) SettingsState {
		s.ShowOwnRemoved = !s.ShowOwnRemoved
		return s
	})
	HandleEvent(b, SetTimezone, func(s SettingsState, tz string) SettingsState {
		s.Timezone = tz
		return s
	})

	return b.MustBuild()
}()

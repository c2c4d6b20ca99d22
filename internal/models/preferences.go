package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences are per-session UI settings handed to every view explicitly
type Preferences struct {
	Theme     Theme `json:"theme"`
	ShowIntro bool  `json:"show_intro"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, ShowIntro: true}
}

package domain

type Language string

const (
	LanguageEnglish    Language = "English"
	LanguageVietnamese Language = "Vietnamese"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the stored theme, or dark for anything unrecognized.
func ParseTheme(value string) Theme {
	if Theme(value) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

package config

// Dashboard themes. The value is applied as the class of <html> and <body>.
const (
	LightTheme = "light-theme"
	DarkTheme  = "dark-theme"

	DefaultTheme = LightTheme
)

// Themes lists every theme a cookie may select.
var Themes = []string{LightTheme, DarkTheme}

const (
	LightThemeIcon = `<i class="fas fa-sun"></i>`
	DarkThemeIcon  = `<i class="fas fa-moon"></i>`
)

// ThemeIcons maps a theme to the icon that represents it on the toggle.
var ThemeIcons = map[string]string{
	LightTheme: LightThemeIcon,
	DarkTheme:  DarkThemeIcon,
}

// Chroma styles used when the config file names none.
const (
	DefaultDarkSyntaxTheme  = "gruvbox"
	DefaultLightSyntaxTheme = "catppuccin-latte"
)

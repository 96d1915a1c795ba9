package storystream

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Title      int // Header text
	Selected   int // Selected stream in the picker
	Story      int // Story text
	Connected  int // Open connection indicator
	Connecting int // Pending connection indicator
	Error      int // Disconnected indicator and error messages
	Muted      int // Help line, unselected streams
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Title:      6,
		Selected:   5,
		Story:      -1,
		Connected:  2,
		Connecting: 3,
		Error:      1,
		Muted:      8,
	}
}

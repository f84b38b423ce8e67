package platform

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	// CursorPosition returns the pointer location in global display
	// coordinates (origin top-left of the main display).
	CursorPosition() (Point, error)
	MoveMouse(x, y int) error
	Click(x, y int, button MouseButton, count int) error
	KeyCombo(keys []string) error
}

// Clipboard reads and writes the system pasteboard as plain text.
type Clipboard interface {
	GetText() (string, error)
	SetText(text string) error
}

// Screen describes and captures the main display.
type Screen interface {
	MainScreen() (ScreenInfo, error)
	// Capture returns a PNG of the whole main display.
	Capture() ([]byte, error)
}

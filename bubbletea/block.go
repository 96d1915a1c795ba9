package bubbletea

// Block is a renderable region of the screen. View takes a width parameter
// so the root model controls layout and blocks are testable in isolation.
type Block interface {
	View(width int) string
}

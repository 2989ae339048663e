package app

// SpecialKey enumerates the non-printable keys named in spec.md §6's
// input protocol.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyEsc
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// KeyPress is the logical input event the frontend decodes raw
// terminal events into before handing them to Core.HandleEvent.
type KeyPress struct {
	Code    rune // the printable scalar, or 0 when Special is set
	Special SpecialKey
	Ctrl    bool
	Alt     bool
	Shift   bool
}

// FrontendEvent is the sum type Core.HandleEvent consumes. Only
// KeyPress is modeled here: resize/paste/focus events are rendering-
// adjacent concerns the CORE does not define per spec.md §1's
// Non-goals.
type FrontendEvent struct {
	Key KeyPress
}

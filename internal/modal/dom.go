package modal

// Element is the minimal surface of a rendered control the controller
// drives. Implementations bridge to a real DOM node; tests use fakes.
type Element interface {
	Focus()
	Hidden() bool
	SetHidden(hidden bool)
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	Value() string
	SetValue(value string)
	Checked() bool
	SetChecked(checked bool)
	SetText(text string)
	SetDisabled(disabled bool)
	ToggleClass(name string, on bool)
}

// Document abstracts the page surrounding the modal: who holds focus and
// the body scroll lock.
type Document interface {
	ActiveElement() Element
	BodyOverflow() string
	SetBodyOverflow(value string)
}

// KeyEvent is a keyboard event fed to the controller. PreventDefault marks
// the browser default as suppressed; tests assert on DefaultPrevented.
type KeyEvent struct {
	Key   string
	Shift bool

	prevented bool
}

// PreventDefault suppresses the default behavior for this event.
func (e *KeyEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *KeyEvent) DefaultPrevented() bool {
	return e.prevented
}

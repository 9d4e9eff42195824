package modal

// Fake DOM used to drive the controller with synthetic events.

type fakeDocument struct {
	active   Element
	overflow string
}

func (d *fakeDocument) ActiveElement() Element       { return d.active }
func (d *fakeDocument) BodyOverflow() string         { return d.overflow }
func (d *fakeDocument) SetBodyOverflow(value string) { d.overflow = value }

type fakeElement struct {
	doc *fakeDocument

	id       string
	hidden   bool
	value    string
	checked  bool
	text     string
	disabled bool
	attrs    map[string]string
	classes  map[string]bool
}

func newFakeElement(doc *fakeDocument, id string) *fakeElement {
	return &fakeElement{
		doc:     doc,
		id:      id,
		attrs:   make(map[string]string),
		classes: make(map[string]bool),
	}
}

func (e *fakeElement) Focus() {
	if e.doc != nil {
		e.doc.active = e
	}
}

func (e *fakeElement) Hidden() bool          { return e.hidden }
func (e *fakeElement) SetHidden(hidden bool) { e.hidden = hidden }

func (e *fakeElement) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) SetAttribute(name, value string) { e.attrs[name] = value }
func (e *fakeElement) RemoveAttribute(name string)     { delete(e.attrs, name) }

func (e *fakeElement) Value() string             { return e.value }
func (e *fakeElement) SetValue(value string)     { e.value = value }
func (e *fakeElement) Checked() bool             { return e.checked }
func (e *fakeElement) SetChecked(checked bool)   { e.checked = checked }
func (e *fakeElement) SetText(text string)       { e.text = text }
func (e *fakeElement) SetDisabled(disabled bool) { e.disabled = disabled }
func (e *fakeElement) ToggleClass(name string, on bool) {
	if on {
		e.classes[name] = true
	} else {
		delete(e.classes, name)
	}
}

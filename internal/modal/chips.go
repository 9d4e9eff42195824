package modal

// ChipOption is one choice control within a chip group.
type ChipOption struct {
	Value   string
	Element Element
}

// ChipGroup binds a set of mutually exclusive choice controls to a single
// hidden value. Clicking the active chip clears the group; clicking any
// other chip makes it the sole active one.
type ChipGroup struct {
	Name   string
	Hidden Element
	Chips  []ChipOption

	initialized bool
}

// Init synchronizes the chip UI from any pre-existing hidden value. It is
// idempotent: repeated calls do not rebind or change state.
func (g *ChipGroup) Init() {
	if g.initialized {
		return
	}
	g.setActive(g.Hidden.Value())
	g.initialized = true
}

// Toggle handles a click on the chip with the given value.
func (g *ChipGroup) Toggle(value string) {
	if g.Hidden.Value() == value {
		g.setActive("")
		return
	}
	g.setActive(value)
}

// Value returns the group's current hidden value.
func (g *ChipGroup) Value() string {
	return g.Hidden.Value()
}

// Reset clears the group's value and chip UI.
func (g *ChipGroup) Reset() {
	g.setActive("")
}

func (g *ChipGroup) setActive(value string) {
	g.Hidden.SetValue(value)
	for _, chip := range g.Chips {
		active := chip.Value == value && value != ""
		chip.Element.ToggleClass("is-active", active)
		if active {
			chip.Element.SetAttribute("aria-pressed", "true")
		} else {
			chip.Element.SetAttribute("aria-pressed", "false")
		}
	}
}

package modal

import (
	"context"
	"strings"

	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/pkg/logging"
)

// State enumerates the controller's lifecycle.
type State int

const (
	// StateClosed means the modal is not visible.
	StateClosed State = iota
	// StateIdle means the modal is open and awaiting input.
	StateIdle
	// StateSubmitting means a round trip to the lead endpoint is in flight.
	StateSubmitting
	// StateError means the last submit attempt failed and errors are shown.
	StateError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateIdle:
		return "open-idle"
	case StateSubmitting:
		return "open-submitting"
	case StateError:
		return "open-error"
	default:
		return "unknown"
	}
}

const (
	defaultSubmitLabel = "Absenden"
	busySubmitLabel    = "Sende…"

	msgFillRequired = "Bitte fülle die Pflichtfelder aus."
	msgRetry        = "Das hat leider nicht geklappt. Bitte versuche es nochmal."
)

// Elements names every control the controller owns.
type Elements struct {
	Modal   Element
	Dialog  Element
	AppRoot Element

	NameInput    Element
	EmailInput   Element
	ConsentInput Element
	SubmitButton Element

	GeneralError Element
	// FieldErrors maps field names (name, email, marketing_consent) to
	// their inline error elements.
	FieldErrors map[string]Element

	Toast        Element
	ToastDismiss Element
}

// Config holds the controller's dependencies.
type Config struct {
	Document Document
	Elements Elements
	Client   LeadClient
	Logger   *logging.Logger

	// Focusables returns the currently focusable elements inside the
	// dialog, in tab order. Recomputed on every trapped key event.
	Focusables func() []Element

	// ChipGroups binds the optional segment / revenue range choices.
	ChipGroups []*ChipGroup

	// SubmitLabel is the submit control's resting label.
	SubmitLabel string
}

// Controller owns the signup modal: visibility, accessibility semantics,
// chip selection, local validation and the submission lifecycle. All
// interaction state lives on the instance; there are no package-level
// flags, so independent instances coexist and tests drive it with
// synthetic events.
type Controller struct {
	doc        Document
	els        Elements
	client     LeadClient
	logger     *logging.Logger
	focusables func() []Element
	chips      []*ChipGroup

	state        State
	opener       Element
	submitLabel  string
	toastVisible bool

	// Scroll locks for the modal and the toast are tracked separately so
	// closing one never prematurely unlocks the other.
	modalPrevOverflow string
	toastPrevOverflow string
}

// NewController creates a modal controller
func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	label := cfg.SubmitLabel
	if label == "" {
		label = defaultSubmitLabel
	}
	focusables := cfg.Focusables
	if focusables == nil {
		focusables = func() []Element { return nil }
	}
	return &Controller{
		doc:         cfg.Document,
		els:         cfg.Elements,
		client:      cfg.Client,
		logger:      logger,
		focusables:  focusables,
		chips:       cfg.ChipGroups,
		state:       StateClosed,
		submitLabel: label,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// ToastVisible reports whether the success notification is showing.
func (c *Controller) ToastVisible() bool {
	return c.toastVisible
}

// Open makes the modal visible, hides the page behind it from assistive
// technology, locks background scroll, initializes chip groups and resets
// error/loading UI. trigger (may be nil) is recorded so focus can be
// restored on Close.
func (c *Controller) Open(trigger Element) {
	if trigger != nil {
		c.opener = trigger
	} else {
		c.opener = c.doc.ActiveElement()
	}

	c.els.Modal.SetHidden(false)
	if c.els.AppRoot != nil {
		c.els.AppRoot.SetAttribute("aria-hidden", "true")
	}

	if c.state == StateClosed {
		c.modalPrevOverflow = c.doc.BodyOverflow()
		c.doc.SetBodyOverflow("hidden")
	}

	for _, g := range c.chips {
		g.Init()
	}
	c.clearUIState()
	c.state = StateIdle

	if c.els.NameInput != nil {
		c.els.NameInput.Focus()
	}
}

// Close clears error/loading UI but preserves user-entered values, hides
// the modal, restores page visibility and scroll, and returns focus to the
// element recorded by Open. Idempotent.
func (c *Controller) Close() {
	if c.state == StateClosed {
		return
	}

	c.clearUIState()

	c.els.Modal.SetHidden(true)
	if c.els.AppRoot != nil {
		c.els.AppRoot.RemoveAttribute("aria-hidden")
	}
	c.doc.SetBodyOverflow(c.modalPrevOverflow)
	c.state = StateClosed

	opener := c.opener
	c.opener = nil
	if opener != nil {
		opener.Focus()
	}
}

// HandleKeydown routes a key event while the modal is open: Escape closes,
// Tab cycles focus inside the dialog. Events arriving while closed are
// ignored.
func (c *Controller) HandleKeydown(e *KeyEvent) {
	if c.state == StateClosed {
		return
	}

	if e.Key == "Escape" {
		e.PreventDefault()
		c.Close()
		return
	}

	if e.Key == "Tab" {
		c.trapFocus(e)
	}
}

// trapFocus confines Tab cycling to the focusable set inside the dialog.
// The set is recomputed on each event; an empty set suppresses the event
// entirely.
func (c *Controller) trapFocus(e *KeyEvent) {
	focusables := c.focusables()
	if len(focusables) == 0 {
		e.PreventDefault()
		return
	}

	first := focusables[0]
	last := focusables[len(focusables)-1]
	active := c.doc.ActiveElement()

	if e.Shift {
		if active == first || active == c.els.Dialog {
			e.PreventDefault()
			last.Focus()
		}
		return
	}

	if active == last {
		e.PreventDefault()
		first.Focus()
	}
}

// ToggleChip handles a click on a chip in the named group.
func (c *Controller) ToggleChip(group, value string) {
	for _, g := range c.chips {
		if g.Name == group {
			g.Toggle(value)
			return
		}
	}
}

// Submit runs one submit attempt: local validation, then the round trip to
// the lead endpoint. Re-entry while a request is in flight is a no-op.
func (c *Controller) Submit(ctx context.Context) {
	if c.state == StateSubmitting {
		return
	}

	c.clearUIState()

	sub := c.readForm()

	if fields := c.validateLocally(sub); len(fields) > 0 {
		for _, field := range fields {
			c.showFieldError(field)
		}
		c.setGeneralError(msgFillRequired)
		c.state = StateError
		return
	}

	c.state = StateSubmitting
	c.els.SubmitButton.SetDisabled(true)
	c.els.SubmitButton.SetText(busySubmitLabel)

	res := c.client.SubmitLead(ctx, sub)
	if res.Err == nil && res.OK {
		c.resetFormValues()
		c.clearUIState()
		c.state = StateIdle
		c.Close()
		c.showToast()
		return
	}

	// Failure: stay open, keep values, leave submitting state.
	c.state = StateError
	c.els.SubmitButton.SetDisabled(false)
	c.els.SubmitButton.SetText(c.submitLabel)

	message := msgRetry
	if res.Response != nil {
		for field := range res.Response.FieldErrors {
			c.showFieldError(field)
		}
		if res.Response.Message != "" {
			message = res.Response.Message
		}
	}
	c.setGeneralError(message)
}

// DismissToast hides the success notification and releases its scroll lock.
func (c *Controller) DismissToast() {
	if !c.toastVisible {
		return
	}
	if c.els.Toast != nil {
		c.els.Toast.SetHidden(true)
	}
	c.doc.SetBodyOverflow(c.toastPrevOverflow)
	c.toastVisible = false
}

func (c *Controller) showToast() {
	if c.els.Toast == nil {
		return
	}
	c.els.Toast.SetHidden(false)
	c.toastPrevOverflow = c.doc.BodyOverflow()
	c.doc.SetBodyOverflow("hidden")
	c.toastVisible = true

	if c.els.ToastDismiss != nil {
		c.els.ToastDismiss.Focus()
	}
}

func (c *Controller) readForm() leads.Submission {
	sub := leads.Submission{
		Name:             strings.TrimSpace(c.els.NameInput.Value()),
		Email:            strings.TrimSpace(c.els.EmailInput.Value()),
		MarketingConsent: c.els.ConsentInput.Checked(),
	}
	for _, g := range c.chips {
		switch g.Name {
		case "segment":
			sub.Segment = strings.TrimSpace(g.Value())
		case "revenue_range":
			sub.RevenueRange = strings.TrimSpace(g.Value())
		}
	}
	return sub
}

// validateLocally checks only what the client is responsible for; the
// endpoint re-derives everything.
func (c *Controller) validateLocally(sub leads.Submission) []string {
	var fields []string
	if sub.Name == "" {
		fields = append(fields, "name")
	}
	if sub.Email == "" || !leads.ValidEmail(sub.Email) {
		fields = append(fields, "email")
	}
	if !sub.MarketingConsent {
		fields = append(fields, "marketing_consent")
	}
	return fields
}

// clearUIState hides all error messaging and restores the submit control.
// User-entered values are untouched.
func (c *Controller) clearUIState() {
	c.setGeneralError("")
	for _, el := range c.els.FieldErrors {
		el.SetHidden(true)
	}
	c.els.SubmitButton.SetDisabled(false)
	c.els.SubmitButton.SetText(c.submitLabel)
}

func (c *Controller) resetFormValues() {
	c.els.NameInput.SetValue("")
	c.els.EmailInput.SetValue("")
	c.els.ConsentInput.SetChecked(false)
	for _, g := range c.chips {
		g.Reset()
	}
}

func (c *Controller) showFieldError(field string) {
	if el, ok := c.els.FieldErrors[field]; ok {
		el.SetHidden(false)
	}
}

func (c *Controller) setGeneralError(message string) {
	el := c.els.GeneralError
	if el == nil {
		return
	}
	if message == "" {
		el.SetHidden(true)
		return
	}
	el.SetText(message)
	el.SetHidden(false)
}

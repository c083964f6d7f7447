package builder

import "fmt"

// Layer is one finished step of a composed burger.
type Layer struct {
	Step      StepID `json:"step"`
	StepLabel string `json:"step_label"`
	Option    Option `json:"option"`
}

// ComposedBurger is the result of confirming every step of the wizard.
type ComposedBurger struct {
	Layers   []Layer `json:"layers"`
	Subtotal Money   `json:"subtotal"`
}

// Wizard walks the catalog steps in order, holding one selection per step.
// It is not safe for concurrent use; each session owns its own wizard.
type Wizard struct {
	catalog   Catalog
	current   int
	selection Selection
	ready     bool
}

func NewWizard(c Catalog) *Wizard {
	return &Wizard{
		catalog:   c,
		selection: make(Selection),
	}
}

// Index is the 0-based position of the current step.
func (w *Wizard) Index() int {
	return w.current
}

func (w *Wizard) Current() Step {
	return w.catalog.Steps[w.current]
}

// Ready reports whether the last step was confirmed.
func (w *Wizard) Ready() bool {
	return w.ready
}

func (w *Wizard) Selection() Selection {
	return w.selection.Clone()
}

// Subtotal prices the current (possibly partial) selection.
func (w *Wizard) Subtotal() Money {
	total, err := w.catalog.PriceOf(w.selection, nil)
	if err != nil {
		// selections are validated on entry
		return 0
	}
	return total
}

// SelectOption records the choice for a step, replacing any earlier choice.
func (w *Wizard) SelectOption(stepID StepID, optionID string) error {
	step, _, ok := w.catalog.Step(stepID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	if _, ok := step.Option(optionID); !ok {
		return fmt.Errorf("%w: %s/%s", ErrInvalidOption, stepID, optionID)
	}
	w.selection[stepID] = optionID
	return nil
}

// Advance confirms the current step. On the last step it returns the composed
// burger and the wizard becomes ready; otherwise it returns nil.
func (w *Wizard) Advance() (*ComposedBurger, error) {
	if w.ready {
		return nil, ErrWizardComplete
	}
	step := w.Current()
	if _, ok := w.selection[step.ID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteStep, step.ID)
	}
	if w.current < len(w.catalog.Steps)-1 {
		w.current++
		return nil, nil
	}
	burger, err := w.compose()
	if err != nil {
		return nil, err
	}
	w.ready = true
	return burger, nil
}

// Retreat moves back one step, keeping recorded selections. It returns false
// when already at the first step.
func (w *Wizard) Retreat() bool {
	if w.ready {
		w.ready = false
		return true
	}
	if w.current == 0 {
		return false
	}
	w.current--
	return true
}

// Reset clears the wizard for the next burger.
func (w *Wizard) Reset() {
	w.current = 0
	w.ready = false
	w.selection = make(Selection)
}

func (w *Wizard) compose() (*ComposedBurger, error) {
	layers := make([]Layer, 0, len(w.catalog.Steps))
	for _, step := range w.catalog.Steps {
		opt, ok := step.Option(w.selection[step.ID])
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteStep, step.ID)
		}
		layers = append(layers, Layer{Step: step.ID, StepLabel: step.Label, Option: opt})
	}
	subtotal, err := w.catalog.PriceOf(w.selection, nil)
	if err != nil {
		return nil, err
	}
	return &ComposedBurger{Layers: layers, Subtotal: subtotal}, nil
}

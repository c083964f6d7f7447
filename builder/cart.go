package builder

import "fmt"

// Cart holds composed burgers in insertion order plus the chosen combo extras.
type Cart struct {
	catalog Catalog
	burgers []ComposedBurger
	extras  []ComboExtra
	total   Money
}

func NewCart(c Catalog) *Cart {
	return &Cart{catalog: c}
}

// AddBurger appends the burger. Identical burgers are kept as separate entries.
func (c *Cart) AddBurger(b ComposedBurger) {
	c.burgers = append(c.burgers, b)
	c.recompute()
}

func (c *Cart) RemoveBurger(index int) error {
	if index < 0 || index >= len(c.burgers) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.burgers = append(c.burgers[:index], c.burgers[index+1:]...)
	c.recompute()
	return nil
}

// ToggleExtra adds the extra when absent and removes it when present.
// It reports whether the extra is in the cart afterwards.
func (c *Cart) ToggleExtra(extraID string) (bool, error) {
	for i, e := range c.extras {
		if e.ID == extraID {
			c.extras = append(c.extras[:i], c.extras[i+1:]...)
			c.recompute()
			return false, nil
		}
	}
	extra, ok := c.catalog.Extra(extraID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownExtra, extraID)
	}
	c.extras = append(c.extras, extra)
	c.recompute()
	return true, nil
}

func (c *Cart) HasExtra(extraID string) bool {
	for _, e := range c.extras {
		if e.ID == extraID {
			return true
		}
	}
	return false
}

func (c *Cart) Total() Money {
	return c.total
}

func (c *Cart) Burgers() []ComposedBurger {
	out := make([]ComposedBurger, len(c.burgers))
	copy(out, c.burgers)
	return out
}

func (c *Cart) Extras() []ComboExtra {
	out := make([]ComboExtra, len(c.extras))
	copy(out, c.extras)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.burgers) == 0 && len(c.extras) == 0
}

// Clear empties the cart, e.g. after a successful checkout.
func (c *Cart) Clear() {
	c.burgers = nil
	c.extras = nil
	c.total = 0
}

func (c *Cart) recompute() {
	var total Money
	for _, b := range c.burgers {
		total += b.Subtotal
	}
	for _, e := range c.extras {
		total += e.Price
	}
	c.total = total
}

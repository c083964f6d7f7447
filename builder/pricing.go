package builder

import "fmt"

// Selection maps a step to the id of the option chosen for it.
type Selection map[StepID]string

func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// PriceOf sums the base price, the declared price of every selected option and
// the price of every extra. The selection may be partial.
func (c Catalog) PriceOf(sel Selection, extraIDs []string) (Money, error) {
	total := c.BasePrice
	for stepID, optionID := range sel {
		step, _, ok := c.Step(stepID)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
		}
		opt, ok := step.Option(optionID)
		if !ok {
			return 0, fmt.Errorf("%w: %s/%s", ErrInvalidOption, stepID, optionID)
		}
		total += opt.Price
	}
	for _, id := range extraIDs {
		extra, ok := c.Extra(id)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownExtra, id)
		}
		total += extra.Price
	}
	return total, nil
}

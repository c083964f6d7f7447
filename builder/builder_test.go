package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallCatalog is the three-step catalog used by the checkout examples.
func smallCatalog() Catalog {
	return Catalog{
		Steps: []Step{
			newStep(StepBread,
				Option{ID: "brioche", Name: "Brioche", Price: 0},
				Option{ID: "australiano", Name: "Australiano", Price: 200},
			),
			newStep(StepProtein,
				Option{ID: "blend", Name: "Blend", Price: 800},
				Option{ID: "frango", Name: "Frango", Price: 700},
			),
			newStep(StepCheese,
				Option{ID: "cheddar", Name: "Cheddar", Price: 300},
			),
		},
		Extras: []ComboExtra{
			{ID: "batata", Name: "Batata frita", Price: 500},
			{ID: "refrigerante", Name: "Refrigerante", Price: 600},
		},
	}
}

func buildBurger(t *testing.T, c Catalog, sel Selection) ComposedBurger {
	t.Helper()
	w := NewWizard(c)
	var burger *ComposedBurger
	for _, step := range c.Steps {
		require.NoError(t, w.SelectOption(step.ID, sel[step.ID]))
		b, err := w.Advance()
		require.NoError(t, err)
		burger = b
	}
	require.NotNil(t, burger)
	return *burger
}

func TestPriceOf(t *testing.T) {
	c := smallCatalog()

	tests := []struct {
		name    string
		sel     Selection
		extras  []string
		want    Money
		wantErr error
	}{
		{name: "empty", sel: Selection{}, want: 0},
		{name: "partial", sel: Selection{StepProtein: "blend"}, want: 800},
		{name: "full with extras", sel: Selection{StepBread: "australiano", StepProtein: "frango", StepCheese: "cheddar"}, extras: []string{"batata"}, want: 1700},
		{name: "option from another step", sel: Selection{StepBread: "cheddar"}, wantErr: ErrInvalidOption},
		{name: "unknown step", sel: Selection{StepSauce: "barbecue"}, wantErr: ErrUnknownStep},
		{name: "unknown extra", sel: Selection{}, extras: []string{"sorvete"}, wantErr: ErrUnknownExtra},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.PriceOf(tt.sel, tt.extras)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceOfIncludesBasePrice(t *testing.T) {
	c := smallCatalog()
	c.BasePrice = 150
	got, err := c.PriceOf(Selection{StepProtein: "blend"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Money(950), got)
}

func TestWizardSubtotalMatchesDeclaredPrices(t *testing.T) {
	c := DefaultCatalog()
	// every combination of first and last option per step
	for _, pick := range []int{0, -1} {
		sel := Selection{}
		var want Money
		for _, step := range c.Steps {
			i := pick
			if i < 0 {
				i = len(step.Options) - 1
			}
			sel[step.ID] = step.Options[i].ID
			want += step.Options[i].Price
		}
		burger := buildBurger(t, c, sel)
		assert.Equal(t, want, burger.Subtotal)
		assert.Len(t, burger.Layers, len(c.Steps))
		for i, layer := range burger.Layers {
			assert.Equal(t, c.Steps[i].ID, layer.Step)
		}
	}
}

func TestWizardAdvanceRequiresSelection(t *testing.T) {
	w := NewWizard(smallCatalog())

	_, err := w.Advance()
	assert.ErrorIs(t, err, ErrIncompleteStep)
	assert.Equal(t, 0, w.Index())

	require.NoError(t, w.SelectOption(StepBread, "brioche"))
	b, err := w.Advance()
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 1, w.Index())

	// a selection for a later step does not satisfy the current one
	require.NoError(t, w.SelectOption(StepCheese, "cheddar"))
	_, err = w.Advance()
	assert.ErrorIs(t, err, ErrIncompleteStep)
	assert.Equal(t, 1, w.Index())
}

func TestWizardSelectOption(t *testing.T) {
	w := NewWizard(smallCatalog())

	err := w.SelectOption(StepBread, "blend")
	assert.True(t, errors.Is(err, ErrInvalidOption))

	err = w.SelectOption("dessert", "brownie")
	assert.True(t, errors.Is(err, ErrUnknownStep))

	require.NoError(t, w.SelectOption(StepBread, "brioche"))
	require.NoError(t, w.SelectOption(StepBread, "australiano"))
	assert.Equal(t, "australiano", w.Selection()[StepBread])
	assert.Equal(t, Money(200), w.Subtotal())
}

func TestWizardRetreat(t *testing.T) {
	w := NewWizard(smallCatalog())
	assert.False(t, w.Retreat())

	require.NoError(t, w.SelectOption(StepBread, "australiano"))
	_, err := w.Advance()
	require.NoError(t, err)

	assert.True(t, w.Retreat())
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, "australiano", w.Selection()[StepBread])
	assert.False(t, w.Retreat())
}

func TestWizardCompleteAndReset(t *testing.T) {
	c := smallCatalog()
	w := NewWizard(c)
	for _, sel := range []struct {
		step StepID
		opt  string
	}{{StepBread, "brioche"}, {StepProtein, "blend"}, {StepCheese, "cheddar"}} {
		require.NoError(t, w.SelectOption(sel.step, sel.opt))
		_, err := w.Advance()
		require.NoError(t, err)
	}
	assert.True(t, w.Ready())

	_, err := w.Advance()
	assert.ErrorIs(t, err, ErrWizardComplete)

	// back from the ready state lands on the last step
	assert.True(t, w.Retreat())
	assert.False(t, w.Ready())
	assert.Equal(t, 2, w.Index())

	w.Reset()
	assert.Equal(t, 0, w.Index())
	assert.Empty(t, w.Selection())
}

func TestCartTotals(t *testing.T) {
	c := smallCatalog()
	cart := NewCart(c)
	b1 := buildBurger(t, c, Selection{StepBread: "brioche", StepProtein: "blend", StepCheese: "cheddar"})
	b2 := buildBurger(t, c, Selection{StepBread: "australiano", StepProtein: "frango", StepCheese: "cheddar"})

	cart.AddBurger(b1)
	cart.AddBurger(b2)
	assert.Equal(t, b1.Subtotal+b2.Subtotal, cart.Total())

	require.NoError(t, cart.RemoveBurger(0))
	assert.Equal(t, b2.Subtotal, cart.Total())
	assert.Equal(t, []ComposedBurger{b2}, cart.Burgers())

	err := cart.RemoveBurger(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	err = cart.RemoveBurger(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCartDuplicateBurgersAreDistinct(t *testing.T) {
	c := smallCatalog()
	cart := NewCart(c)
	b := buildBurger(t, c, Selection{StepBread: "brioche", StepProtein: "blend", StepCheese: "cheddar"})
	cart.AddBurger(b)
	cart.AddBurger(b)
	assert.Len(t, cart.Burgers(), 2)
	assert.Equal(t, 2*b.Subtotal, cart.Total())
}

func TestCartToggleExtraTwiceRestoresState(t *testing.T) {
	c := smallCatalog()
	cart := NewCart(c)
	cart.AddBurger(buildBurger(t, c, Selection{StepBread: "brioche", StepProtein: "blend", StepCheese: "cheddar"}))
	before := cart.Total()

	added, err := cart.ToggleExtra("refrigerante")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, cart.HasExtra("refrigerante"))
	assert.Equal(t, before+600, cart.Total())

	added, err = cart.ToggleExtra("refrigerante")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, cart.Extras())
	assert.Equal(t, before, cart.Total())

	_, err = cart.ToggleExtra("sorvete")
	assert.ErrorIs(t, err, ErrUnknownExtra)
}

func TestCartClear(t *testing.T) {
	c := smallCatalog()
	cart := NewCart(c)
	cart.AddBurger(buildBurger(t, c, Selection{StepBread: "brioche", StepProtein: "blend", StepCheese: "cheddar"}))
	_, err := cart.ToggleExtra("batata")
	require.NoError(t, err)

	cart.Clear()
	assert.True(t, cart.Empty())
	assert.Equal(t, Money(0), cart.Total())
}

func TestCheckoutScenario(t *testing.T) {
	c := smallCatalog()
	burger := buildBurger(t, c, Selection{StepBread: "brioche", StepProtein: "blend", StepCheese: "cheddar"})
	assert.Equal(t, Money(1100), burger.Subtotal)

	cart := NewCart(c)
	cart.AddBurger(burger)
	assert.Equal(t, Money(1100), cart.Total())

	_, err := cart.ToggleExtra("batata")
	require.NoError(t, err)
	assert.Equal(t, Money(1600), cart.Total())
	assert.Equal(t, "R$ 16,00", cart.Total().String())
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "R$ 0,00", Money(0).String())
	assert.Equal(t, "R$ 2,50", Money(250).String())
	assert.Equal(t, "-R$ 1,05", Money(-105).String())
	assert.Equal(t, 12.5, Money(1250).Reais())
}

// Package builder holds the burger builder: the static step catalog, pricing,
// the step-by-step assembly wizard and the cart. Nothing here performs I/O.
package builder

import "fmt"

// Money is an amount in centavos.
type Money int64

// Reais returns the amount in whole currency units.
func (m Money) Reais() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, v/100, v%100)
}

type StepID string

const (
	StepBread      StepID = "bread"
	StepProtein    StepID = "protein"
	StepCheese     StepID = "cheese"
	StepSauce      StepID = "sauce"
	StepVegetables StepID = "vegetables"
	StepExtras     StepID = "extras"
	StepSpecial    StepID = "special"
)

// StepOrder is the fixed wizard sequence.
var StepOrder = []StepID{
	StepBread,
	StepProtein,
	StepCheese,
	StepSauce,
	StepVegetables,
	StepExtras,
	StepSpecial,
}

// Option is one selectable ingredient. Price is the option's absolute price,
// not a delta from another option.
type Option struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Image string `json:"image,omitempty"`
}

type Step struct {
	ID       StepID   `json:"id"`
	Label    string   `json:"label"`
	Subtitle string   `json:"subtitle"`
	Options  []Option `json:"options"`
}

// Option looks up one of the step's options by id.
func (s Step) Option(id string) (Option, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// ComboExtra is an item added to the order next to the burgers (fries, drinks...).
type ComboExtra struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Image string `json:"image,omitempty"`
}

type Catalog struct {
	BasePrice Money        `json:"base_price"`
	Steps     []Step       `json:"steps"`
	Extras    []ComboExtra `json:"extras"`
}

// Step returns the step and its position in the wizard.
func (c Catalog) Step(id StepID) (Step, int, bool) {
	for i, s := range c.Steps {
		if s.ID == id {
			return s, i, true
		}
	}
	return Step{}, -1, false
}

func (c Catalog) Extra(id string) (ComboExtra, bool) {
	for _, e := range c.Extras {
		if e.ID == id {
			return e, true
		}
	}
	return ComboExtra{}, false
}

// StepLabels returns label and subtitle for the well-known steps.
func StepLabels(id StepID) (label, subtitle string) {
	switch id {
	case StepBread:
		return "Pão", "Escolha a base do seu burger"
	case StepProtein:
		return "Carne", "O coração do burger"
	case StepCheese:
		return "Queijo", "Derretido na chapa"
	case StepSauce:
		return "Molho", "Feito na casa"
	case StepVegetables:
		return "Vegetais", "Frescor e crocância"
	case StepExtras:
		return "Adicionais", "Para quem quer mais"
	case StepSpecial:
		return "Especial", "O toque final"
	}
	return string(id), ""
}

func newStep(id StepID, options ...Option) Step {
	label, subtitle := StepLabels(id)
	return Step{ID: id, Label: label, Subtitle: subtitle, Options: options}
}

// DefaultCatalog is the built-in catalog, used when persistence is not
// configured or holds no ingredients.
func DefaultCatalog() Catalog {
	return Catalog{
		Steps: []Step{
			newStep(StepBread,
				Option{ID: "brioche", Name: "Brioche", Price: 0, Image: "/img/pao-brioche.png"},
				Option{ID: "australiano", Name: "Australiano", Price: 200, Image: "/img/pao-australiano.png"},
				Option{ID: "integral", Name: "Integral", Price: 100, Image: "/img/pao-integral.png"},
			),
			newStep(StepProtein,
				Option{ID: "blend", Name: "Blend bovino 160g", Price: 800, Image: "/img/carne-blend.png"},
				Option{ID: "frango", Name: "Frango crispy", Price: 700, Image: "/img/carne-frango.png"},
				Option{ID: "veggie", Name: "Burger de grão-de-bico", Price: 900, Image: "/img/carne-veggie.png"},
			),
			newStep(StepCheese,
				Option{ID: "cheddar", Name: "Cheddar", Price: 300, Image: "/img/queijo-cheddar.png"},
				Option{ID: "mussarela", Name: "Mussarela", Price: 250},
				Option{ID: "sem-queijo", Name: "Sem queijo", Price: 0},
			),
			newStep(StepSauce,
				Option{ID: "maionese-casa", Name: "Maionese da casa", Price: 0},
				Option{ID: "barbecue", Name: "Barbecue", Price: 150},
				Option{ID: "sriracha", Name: "Sriracha", Price: 200},
			),
			newStep(StepVegetables,
				Option{ID: "alface-tomate", Name: "Alface e tomate", Price: 0},
				Option{ID: "cebola-caramelizada", Name: "Cebola caramelizada", Price: 200},
				Option{ID: "picles", Name: "Picles", Price: 100},
			),
			newStep(StepExtras,
				Option{ID: "sem-adicional", Name: "Sem adicional", Price: 0},
				Option{ID: "bacon", Name: "Bacon", Price: 400},
				Option{ID: "ovo", Name: "Ovo", Price: 200},
			),
			newStep(StepSpecial,
				Option{ID: "tradicional", Name: "Tradicional", Price: 0},
				Option{ID: "duplo", Name: "Duplo smash", Price: 1000},
			),
		},
		Extras: []ComboExtra{
			{ID: "batata", Name: "Batata frita", Price: 500, Image: "/img/combo-batata.png"},
			{ID: "refrigerante", Name: "Refrigerante lata", Price: 600, Image: "/img/combo-refri.png"},
			{ID: "milkshake", Name: "Milkshake", Price: 1200},
			{ID: "brownie", Name: "Brownie", Price: 800},
		},
	}
}

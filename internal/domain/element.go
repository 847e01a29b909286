package domain

// Element is one of the five elements every stem and branch maps to.
type Element string

const (
	ElementWood  Element = "wood"
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
	ElementMetal Element = "metal"
	ElementWater Element = "water"
)

// AllElements returns the five elements in canonical order.
func AllElements() []Element {
	return []Element{ElementWood, ElementFire, ElementEarth, ElementMetal, ElementWater}
}

// Korean returns the hangul name used in user-facing messages.
func (e Element) Korean() string {
	switch e {
	case ElementWood:
		return "목(木)"
	case ElementFire:
		return "화(火)"
	case ElementEarth:
		return "토(土)"
	case ElementMetal:
		return "금(金)"
	case ElementWater:
		return "수(水)"
	default:
		return string(e)
	}
}

// ElementDistribution is a five-value percentage distribution.
// A fully computed distribution sums to 100 within rounding tolerance;
// the all-zero value is the explicit "not computable" sentinel.
type ElementDistribution struct {
	Wood  float64 `json:"oheng_wood"`
	Fire  float64 `json:"oheng_fire"`
	Earth float64 `json:"oheng_earth"`
	Metal float64 `json:"oheng_metal"`
	Water float64 `json:"oheng_water"`
}

// Get returns the percentage of a single element.
func (d ElementDistribution) Get(e Element) float64 {
	switch e {
	case ElementWood:
		return d.Wood
	case ElementFire:
		return d.Fire
	case ElementEarth:
		return d.Earth
	case ElementMetal:
		return d.Metal
	case ElementWater:
		return d.Water
	default:
		return 0
	}
}

// Add adds score points to a single element.
func (d *ElementDistribution) Add(e Element, score float64) {
	switch e {
	case ElementWood:
		d.Wood += score
	case ElementFire:
		d.Fire += score
	case ElementEarth:
		d.Earth += score
	case ElementMetal:
		d.Metal += score
	case ElementWater:
		d.Water += score
	}
}

// Sum returns the total of the five values.
func (d ElementDistribution) Sum() float64 {
	return d.Wood + d.Fire + d.Earth + d.Metal + d.Water
}

// IsZero reports whether the distribution is the all-zero sentinel.
func (d ElementDistribution) IsZero() bool {
	return d.Wood == 0 && d.Fire == 0 && d.Earth == 0 && d.Metal == 0 && d.Water == 0
}

// OhengType labels a distribution shape.
type OhengType string

const (
	OhengBalanced  OhengType = "balanced"
	OhengDeficient OhengType = "deficient"
	OhengSkewed    OhengType = "skewed"
)

// OhengClassification is the derived view of a distribution. It is a pure
// function of its input and is never stored independently of it.
type OhengClassification struct {
	Type    OhengType `json:"type"`
	Lacking []Element `json:"lacking"`
	Strong  []Element `json:"strong"`
	Control []Element `json:"control"`
}

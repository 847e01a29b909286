package saju

import "github.com/bap-pick/bab-back/internal/domain"

// Classification thresholds, in percentage points.
const (
	deficientBelow = 5.0
	balancedSpread = 10.0
	floatTolerance = 1e-9
)

// Classify labels a distribution shape. It is a pure function of its input:
// a deficiency anywhere wins over overall balance, then a tight spread reads
// as balanced, everything else as skewed. Ties at the extremes are all kept,
// in canonical element order.
func Classify(d domain.ElementDistribution) domain.OhengClassification {
	min, max := d.Get(domain.ElementWood), d.Get(domain.ElementWood)
	for _, e := range domain.AllElements() {
		v := d.Get(e)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var atMin, atMax []domain.Element
	for _, e := range domain.AllElements() {
		v := d.Get(e)
		if approxEqual(v, min) {
			atMin = append(atMin, e)
		}
		if approxEqual(v, max) {
			atMax = append(atMax, e)
		}
	}

	strong := atMax
	control := controlsFor(strong)

	switch {
	case min < deficientBelow:
		return domain.OhengClassification{
			Type:    domain.OhengDeficient,
			Lacking: atMin,
			Strong:  strong,
			Control: control,
		}
	case max-min <= balancedSpread+floatTolerance:
		return domain.OhengClassification{
			Type:    domain.OhengBalanced,
			Lacking: nil,
			Strong:  strong,
			Control: control,
		}
	default:
		return domain.OhengClassification{
			Type:    domain.OhengSkewed,
			Lacking: atMin,
			Strong:  strong,
			Control: control,
		}
	}
}

// controlsFor maps each strong element to its destructive-cycle counter,
// deduplicated, preserving canonical order.
func controlsFor(strong []domain.Element) []domain.Element {
	seen := make(map[domain.Element]bool, len(strong))
	var out []domain.Element
	for _, e := range strong {
		c := ControlElement(e)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func approxEqual(a, b float64) bool {
	diff := a - b
	return diff < floatTolerance && diff > -floatTolerance
}

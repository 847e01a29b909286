package saju

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bap-pick/bab-back/internal/domain"
)

func TestHeadlineAndAdvice(t *testing.T) {
	balanced := domain.OhengClassification{Type: domain.OhengBalanced}
	assert.Equal(t, "오행이 안정적인 균형형", Headline(balanced))
	assert.Contains(t, Advice(balanced), "활력")

	deficient := domain.OhengClassification{
		Type:    domain.OhengDeficient,
		Lacking: []domain.Element{domain.ElementWood},
		Strong:  []domain.Element{domain.ElementFire},
		Control: []domain.Element{domain.ElementWater},
	}
	assert.Contains(t, Headline(deficient), "목(木)")
	assert.Contains(t, Advice(deficient), "목(木) 기운을 채우면")

	skewed := domain.OhengClassification{
		Type:    domain.OhengSkewed,
		Lacking: []domain.Element{domain.ElementWater},
		Strong:  []domain.Element{domain.ElementEarth},
		Control: []domain.Element{domain.ElementWood},
	}
	assert.Contains(t, Headline(skewed), "수(水) 기운이 부족하고")
	assert.Contains(t, Advice(skewed), "토(土) 기운을 억제")
}

func TestRecommendedElements(t *testing.T) {
	assert.Nil(t, RecommendedElements(domain.OhengClassification{Type: domain.OhengBalanced}))

	cls := domain.OhengClassification{
		Type:    domain.OhengSkewed,
		Lacking: []domain.Element{domain.ElementWater},
		Strong:  []domain.Element{domain.ElementEarth},
		Control: []domain.Element{domain.ElementWood},
	}
	assert.Equal(t, []domain.Element{domain.ElementWater, domain.ElementWood}, RecommendedElements(cls))

	// Overlapping lacking/control entries collapse.
	overlap := domain.OhengClassification{
		Type:    domain.OhengDeficient,
		Lacking: []domain.Element{domain.ElementWater},
		Control: []domain.Element{domain.ElementWater},
	}
	assert.Equal(t, []domain.Element{domain.ElementWater}, RecommendedElements(overlap))
}

func TestElementFoods_AllElementsCovered(t *testing.T) {
	for _, e := range domain.AllElements() {
		assert.NotEmpty(t, ElementFoods(e), "no foods for %s", e)
	}
}

package saju

import (
	"fmt"
	"strings"

	"github.com/bap-pick/bab-back/internal/domain"
)

// User-facing hangul labels for the distribution shapes.
func KoreanType(t domain.OhengType) string {
	switch t {
	case domain.OhengBalanced:
		return "균형형"
	case domain.OhengDeficient:
		return "무형"
	case domain.OhengSkewed:
		return "치우침형"
	default:
		return string(t)
	}
}

// elementFoods are example dishes that carry each element's energy, used to
// seed menu suggestions.
var elementFoods = map[domain.Element][]string{
	domain.ElementWood:  {"비빔밥", "채소 샐러드", "쌈밥"},
	domain.ElementFire:  {"닭볶음탕", "양념 치킨", "매운 볶음 요리"},
	domain.ElementEarth: {"곰탕", "돈까스", "백반 세트"},
	domain.ElementMetal: {"순대국", "칼국수", "맑은 생선탕"},
	domain.ElementWater: {"해물탕", "물회", "미역국"},
}

// ElementFoods returns example dishes for an element.
func ElementFoods(e domain.Element) []string {
	return elementFoods[e]
}

// RecommendedElements picks the elements whose foods rebalance the reading:
// fill what is lacking, then subdue what is strong. A balanced reading has
// no direction, any cuisine works.
func RecommendedElements(cls domain.OhengClassification) []domain.Element {
	if cls.Type == domain.OhengBalanced {
		return nil
	}
	seen := make(map[domain.Element]bool)
	var out []domain.Element
	for _, e := range cls.Lacking {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	for _, e := range cls.Control {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// Headline is the one-line summary of today's distribution shape.
func Headline(cls domain.OhengClassification) string {
	switch cls.Type {
	case domain.OhengBalanced:
		return "오행이 안정적인 균형형"
	case domain.OhengDeficient:
		return fmt.Sprintf("%s 기운이 거의 없는 무형", joinKorean(cls.Lacking))
	default:
		return fmt.Sprintf("%s 기운이 부족하고 %s 기운이 강해요!",
			joinKorean(cls.Lacking), joinKorean(cls.Strong))
	}
}

// Advice is the food-direction paragraph below the headline.
func Advice(cls domain.OhengClassification) string {
	switch cls.Type {
	case domain.OhengBalanced:
		return "안정적인 기운을 유지하며, 오늘은 기분 전환이 될 만한 음식으로 활력을 더해보세요!"
	case domain.OhengDeficient:
		lacking := joinKorean(cls.Lacking)
		return fmt.Sprintf("%s 기운이 0에 가까워요. 따라서 %s 기운을 채우면 좋아요. %s 기운의 음식을 찾아보세요!",
			lacking, lacking, lacking)
	default:
		lacking := joinKorean(cls.Lacking)
		msg := fmt.Sprintf("%s 기운을 채우면 좋아요. %s 기운의 음식을 찾아보세요!", lacking, lacking)
		if len(cls.Strong) > 0 && len(cls.Control) > 0 {
			strong := joinKorean(cls.Strong)
			control := joinKorean(cls.Control)
			msg += fmt.Sprintf(" 또한 과다한 %s 기운을 제어하면 좋아요. %s 기운의 음식으로 %s 기운을 억제하여 균형을 맞춰보세요!",
				strong, control, strong)
		}
		return msg
	}
}

func joinKorean(elems []domain.Element) string {
	names := make([]string, 0, len(elems))
	for _, e := range elems {
		names = append(names, e.Korean())
	}
	return strings.Join(names, ", ")
}

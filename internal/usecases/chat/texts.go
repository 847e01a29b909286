package chat

import (
	"fmt"
	"strings"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/service"
	"github.com/bap-pick/bab-back/internal/usecases/saju"
)

// All user-facing copy of the flow controller lives here. Everything is
// polite-form Korean.

func analysisText(reading *service.DailyReading) string {
	cls := reading.Classification
	return fmt.Sprintf(
		"오늘의 운세에 맞춰 행운의 맛집을 추천해드리는 '밥픽'입니다! 🍀\n\n"+
			"오늘 당신의 오행 타입은 '%s'이에요.\n"+
			"✨ %s\n"+
			"💡 %s",
		saju.KoreanType(cls.Type), saju.Headline(cls), saju.Advice(cls))
}

const analysisUnavailableText = "오늘의 운세를 불러오지 못했어요. 잠시 후 다시 말을 걸어주세요! 🙏"

func menuSuggestionText(foods []string) string {
	return fmt.Sprintf("오늘의 기운과 어울리는 메뉴를 골라봤어요!\n%s\n이 중에 끌리는 메뉴가 있나요? 🍚",
		bulletList(foods))
}

func alternativeSuggestionText(foods []string) string {
	return fmt.Sprintf("그럼 이런 메뉴는 어떠세요?\n%s\n마음에 드는 메뉴를 말씀해주세요!",
		bulletList(foods))
}

const noAlternativesText = "추천드릴 만한 다른 메뉴가 떠오르지 않네요. 먹고 싶은 메뉴를 직접 말씀해주셔도 좋아요!"

func askLocationText(menu string) string {
	return fmt.Sprintf("'%s' 좋은 선택이에요! 👍 어디 근처에서 찾아드릴까요? 위치를 보내주시면 주변 맛집을 찾아볼게요. 📍", menu)
}

const locationReminderText = "위치를 보내주시면 바로 맛집을 찾아드릴게요! 📍"

const locationWithoutMenuText = "먼저 먹고 싶은 메뉴를 골라주세요! 메뉴를 정하면 근처 맛집을 찾아드릴게요. 🍽️"

func resultsLeadText(menu string) string {
	return fmt.Sprintf("근처의 '%s' 맛집을 찾았어요! 🍽️", menu)
}

func resultsListText(candidates []domain.RestaurantCandidate) string {
	lines := make([]string, 0, len(candidates))
	for i, c := range candidates {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) · %.1fkm · 리뷰 %d개",
			i+1, c.Name, c.Category, c.DistanceKm, c.ReviewCount))
	}
	return strings.Join(lines, "\n")
}

const resultsClosingText = "마음에 드는 곳이 있나요? 다른 메뉴가 궁금하시면 언제든 말씀해주세요! 😊"

func noResultsText(menu string) string {
	return fmt.Sprintf("아쉽게도 근처에서 '%s' 맛집을 찾지 못했어요. 😢 다른 메뉴를 골라볼까요?", menu)
}

func reasonText(reading *service.DailyReading) string {
	return fmt.Sprintf("%s\n오늘(%s일) 기준으로 당신의 기운은 '%s' 관계예요. %s",
		saju.Headline(reading.Classification),
		string(reading.DaySky)+string(reading.DayGround),
		reading.Relation,
		saju.Advice(reading.Classification))
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

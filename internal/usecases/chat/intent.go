package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/bap-pick/bab-back/internal/domain"
)

// intentKind is the coarse classification of a user turn while the room
// awaits a menu choice.
type intentKind int

const (
	intentChat intentKind = iota
	intentSelect
	intentReject
	intentReason
	intentFilter
)

type intent struct {
	kind  intentKind
	value string // selected menu or filter phrase
}

// Sentinel tokens the classifier prompt asks the model to lead with. The
// parser accepts nothing else; unparseable output falls back to heuristics.
const (
	tokenSelect = "SELECT:"
	tokenReject = "REJECT"
	tokenReason = "REASON"
	tokenFilter = "FILTER:"
	tokenChat   = "CHAT"
)

func classifierPrompt(history string, suggested []string, userMessage string) string {
	return fmt.Sprintf(
		"너는 음식 추천 챗봇의 의도 분류기야. 사용자의 마지막 메시지를 아래 규칙으로 분류해.\n"+
			"반드시 첫 줄에 다음 중 하나로만 답해:\n"+
			"SELECT: <메뉴이름> - 사용자가 특정 메뉴를 골랐을 때\n"+
			"REJECT - 제안한 메뉴가 마음에 들지 않아 다른 메뉴를 원할 때\n"+
			"REASON - 왜 이 메뉴를 추천했는지 이유를 물을 때\n"+
			"FILTER: <조건> - 가격, 거리, 분위기 같은 조건을 걸 때\n"+
			"CHAT - 그 외 일반 대화\n\n"+
			"제안했던 메뉴: %s\n\n"+
			"최근 대화:\n%s\n"+
			"사용자 메시지: %s",
		strings.Join(suggested, ", "), history, userMessage)
}

// classifyIntent asks the model for a sentinel-tagged classification and
// falls back to keyword heuristics when the model is down or off-script.
func (s *Service) classifyIntent(ctx context.Context, history string, suggested []string, text string) intent {
	raw, err := s.LLM.Generate(ctx, classifierPrompt(history, suggested, text))
	if err != nil {
		s.Log.Warn("intent classifier unavailable, using heuristics", "error", err)
		return heuristicIntent(text, suggested)
	}
	if parsed, ok := parseIntent(raw); ok {
		return parsed
	}
	s.Log.Warn("intent classifier went off-script, using heuristics", "output", firstLine(raw))
	return heuristicIntent(text, suggested)
}

// parseIntent reads the sentinel token off the first line of model output.
func parseIntent(raw string) (intent, bool) {
	line := strings.TrimSpace(firstLine(raw))
	switch {
	case strings.HasPrefix(line, tokenSelect):
		menu := strings.TrimSpace(strings.TrimPrefix(line, tokenSelect))
		if menu == "" {
			return intent{}, false
		}
		return intent{kind: intentSelect, value: menu}, true
	case strings.HasPrefix(line, tokenFilter):
		cond := strings.TrimSpace(strings.TrimPrefix(line, tokenFilter))
		if cond == "" {
			return intent{}, false
		}
		return intent{kind: intentFilter, value: cond}, true
	case line == tokenReject:
		return intent{kind: intentReject}, true
	case line == tokenReason:
		return intent{kind: intentReason}, true
	case line == tokenChat:
		return intent{kind: intentChat}, true
	default:
		return intent{}, false
	}
}

// heuristicIntent is the deterministic fallback: a literal mention of a
// suggested menu wins, then reason and rejection keywords.
func heuristicIntent(text string, suggested []string) intent {
	compact := strings.Join(strings.Fields(text), "")
	for _, menu := range suggested {
		if menu != "" && strings.Contains(compact, strings.Join(strings.Fields(menu), "")) {
			return intent{kind: intentSelect, value: menu}
		}
	}
	for _, kw := range []string{"왜", "이유", "어째서"} {
		if strings.Contains(text, kw) {
			return intent{kind: intentReason}
		}
	}
	for _, kw := range []string{"싫", "별로", "다른 거", "다른거", "다른 메뉴", "말고"} {
		if strings.Contains(text, kw) {
			return intent{kind: intentReject}
		}
	}
	return intent{kind: intentChat}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// freeChatPrompt keeps off-topic turns anchored to food recommendation.
func freeChatPrompt(history, userMessage string) string {
	return "너는 음식 추천 전용 챗봇이야. " +
		"사용자의 질문이 음식, 맛집, 요리, 재료, 식단, 음식문화 등과 관련된 경우에만 답해. " +
		"그 외의 주제는 언급하지 말고, 답변할 때는 항상 음식 추천으로 자연스럽게 전환해줘. " +
		"모든 답변은 존댓말을 써. 답변은 짧고 친근하게 해.\n\n" +
		history +
		"사용자 질문: " + userMessage
}

// buildHistory flattens recent turns into the prompt transcript format.
func buildHistory(messages []domain.ChatMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		role := "봇"
		if msg.Role == "user" {
			role = "사용자"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

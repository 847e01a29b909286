package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/service"
	"github.com/bap-pick/bab-back/internal/usecases/saju"
)

// OpenRoom creates or reopens a room. Direct rooms are greeted with today's
// analysis and menu suggestions; group rooms open without a reply.
func (s *Service) OpenRoom(ctx context.Context, uid string, roomID int64, isGroup bool) (*domain.BotReply, error) {
	unlock := s.locks.acquire(roomID)
	defer unlock()

	room, err := s.RoomRepo.GetByID(ctx, roomID)
	if domain.IsNotFound(err) {
		room = &domain.ConversationRoom{
			ID:       roomID,
			OwnerUID: uid,
			IsGroup:  isGroup,
			State:    domain.StateGreeting,
		}
		if err := s.RoomRepo.Create(ctx, room); err != nil {
			return nil, fmt.Errorf("create room %d: %w", roomID, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("load room %d: %w", roomID, err)
	}

	// Group rooms stay silent until the bot is mentioned; the greeting goes
	// out on the first mentioned turn instead.
	if room.IsGroup {
		return nil, nil
	}

	return s.sendAnalysis(ctx, uid, room)
}

// HandleUserMessage runs one user turn through the room's state machine.
// In group rooms turns without a bot mention are ignored entirely: nothing
// is persisted and the reply is nil.
func (s *Service) HandleUserMessage(ctx context.Context, uid string, roomID int64, text string, mentioned bool) (*domain.BotReply, error) {
	unlock := s.locks.acquire(roomID)
	defer unlock()

	// The room must be loaded inside the critical section so the turn acts
	// on the state the previous turn committed, not a stale snapshot.
	room, err := s.RoomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %d: %w", roomID, err)
	}
	if room.IsGroup && !mentioned {
		return nil, nil
	}

	if err := s.persistUserMessage(ctx, roomID, text); err != nil {
		return nil, err
	}

	switch room.State {
	case domain.StateGreeting:
		// First real turn before any greeting was sent: lead with the
		// analysis as if the room had just been opened.
		return s.sendAnalysis(ctx, uid, room)
	case domain.StateAwaitingLocation:
		return s.reply(ctx, room, domain.SingleReply(room.ID, locationReminderText))
	default:
		return s.handleChoiceTurn(ctx, uid, room, text)
	}
}

// HandleLocation resolves a location signal into a recommendation bundle.
func (s *Service) HandleLocation(ctx context.Context, uid string, roomID int64, loc domain.LocationSignal) (*domain.BotReply, error) {
	unlock := s.locks.acquire(roomID)
	defer unlock()

	room, err := s.RoomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %d: %w", roomID, err)
	}

	if room.State != domain.StateAwaitingLocation {
		return s.reply(ctx, room, domain.SingleReply(room.ID, locationWithoutMenuText))
	}
	if room.SelectedMenu == nil {
		return s.reply(ctx, room, domain.SingleReply(room.ID, locationWithoutMenuText))
	}
	menu := *room.SelectedMenu

	candidates, err := s.Matcher.MatchByDish(ctx, menu, loc.Longitude, loc.Latitude, searchRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("match %q: %w", menu, err)
	}

	if len(candidates) == 0 {
		// A genuine empty result: drop the selection and loop back.
		if err := s.RoomRepo.UpdateFlow(ctx, room.ID, domain.StateAwaitingChoice, nil, room.LastFoods); err != nil {
			return nil, fmt.Errorf("update room %d: %w", room.ID, err)
		}
		room.State = domain.StateAwaitingChoice
		room.SelectedMenu = nil
		return s.reply(ctx, room, domain.SingleReply(room.ID, noResultsText(menu)))
	}

	// Results go out as one atomic bundle: lead-in, list, closing prompt.
	bundle := bundleReply(room.ID,
		resultsLeadText(menu),
		resultsListText(candidates),
		resultsClosingText,
	)
	bundle.Restaurants = candidates

	// The selection is consumed by a completed search: clear it so the room
	// loops back cleanly instead of keeping a stale menu around.
	if err := s.RoomRepo.UpdateFlow(ctx, room.ID, domain.StateResultsSent, nil, room.LastFoods); err != nil {
		return nil, fmt.Errorf("update room %d: %w", room.ID, err)
	}
	room.State = domain.StateResultsSent
	room.SelectedMenu = nil

	return s.reply(ctx, room, bundle)
}

// sendAnalysis emits the greeting bundle and moves the room to awaiting a
// menu choice. A failed reading degrades to a retry message instead of an
// error so the room stays usable.
func (s *Service) sendAnalysis(ctx context.Context, uid string, room *domain.ConversationRoom) (*domain.BotReply, error) {
	user, err := s.UserRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", uid, err)
	}

	reading, err := s.Saju.TodayReading(ctx, user, time.Now())
	if err != nil {
		s.Log.Error("daily reading failed", "uid", uid, "error", err)
		return s.reply(ctx, room, domain.SingleReply(room.ID, analysisUnavailableText))
	}

	suggestions := suggestMenus(reading, nil)
	bundle := bundleReply(room.ID,
		analysisText(reading),
		menuSuggestionText(suggestions),
	)

	if err := s.RoomRepo.UpdateFlow(ctx, room.ID, domain.StateAwaitingChoice, nil, suggestions); err != nil {
		return nil, fmt.Errorf("update room %d: %w", room.ID, err)
	}
	room.State = domain.StateAwaitingChoice
	room.SelectedMenu = nil
	room.LastFoods = suggestions

	return s.reply(ctx, room, bundle)
}

// handleChoiceTurn classifies a turn while the room waits for a menu choice
// and dispatches on the intent.
func (s *Service) handleChoiceTurn(ctx context.Context, uid string, room *domain.ConversationRoom, text string) (*domain.BotReply, error) {
	recent, err := s.MessageRepo.ListRecent(ctx, room.ID, historyLimit)
	if err != nil {
		s.Log.Warn("history unavailable", "room_id", room.ID, "error", err)
	}
	history := buildHistory(recent)

	it := s.classifyIntent(ctx, history, room.LastFoods, text)

	switch it.kind {
	case intentSelect:
		menu := it.value
		if err := s.RoomRepo.UpdateFlow(ctx, room.ID, domain.StateAwaitingLocation, &menu, room.LastFoods); err != nil {
			return nil, fmt.Errorf("update room %d: %w", room.ID, err)
		}
		room.State = domain.StateAwaitingLocation
		room.SelectedMenu = &menu
		return s.reply(ctx, room, domain.SingleReply(room.ID, askLocationText(menu)))

	case intentReject:
		return s.suggestAlternatives(ctx, uid, room)

	case intentReason:
		user, err := s.UserRepo.GetByUID(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("load user %s: %w", uid, err)
		}
		reading, err := s.Saju.TodayReading(ctx, user, time.Now())
		if err != nil {
			s.Log.Error("daily reading failed", "uid", uid, "error", err)
			return s.reply(ctx, room, domain.SingleReply(room.ID, analysisUnavailableText))
		}
		return s.reply(ctx, room, domain.SingleReply(room.ID, reasonText(reading)))

	default: // intentFilter, intentChat
		answer, err := s.LLM.Generate(ctx, freeChatPrompt(history, text))
		if err != nil {
			s.Log.Warn("free chat generation failed", "room_id", room.ID, "error", err)
			answer = analysisUnavailableText
		}
		return s.reply(ctx, room, domain.SingleReply(room.ID, answer))
	}
}

// suggestAlternatives replaces the last suggestion batch with fresh menus,
// excluding everything suggested before so a rejection never repeats.
func (s *Service) suggestAlternatives(ctx context.Context, uid string, room *domain.ConversationRoom) (*domain.BotReply, error) {
	user, err := s.UserRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", uid, err)
	}
	reading, err := s.Saju.TodayReading(ctx, user, time.Now())
	if err != nil {
		s.Log.Error("daily reading failed", "uid", uid, "error", err)
		return s.reply(ctx, room, domain.SingleReply(room.ID, analysisUnavailableText))
	}

	alts := suggestMenus(reading, room.LastFoods)
	if len(alts) == 0 {
		return s.reply(ctx, room, domain.SingleReply(room.ID, noAlternativesText))
	}

	if err := s.RoomRepo.UpdateFlow(ctx, room.ID, domain.StateAwaitingChoice, nil, alts); err != nil {
		return nil, fmt.Errorf("update room %d: %w", room.ID, err)
	}
	room.State = domain.StateAwaitingChoice
	room.SelectedMenu = nil
	room.LastFoods = alts

	return s.reply(ctx, room, domain.SingleReply(room.ID, alternativeSuggestionText(alts)))
}

// suggestedBatchSize bounds one round of menu suggestions.
const suggestedBatchSize = 3

// suggestMenus picks dishes carrying the elements today's reading calls
// for, skipping anything in exclude. A balanced reading draws from every
// element.
func suggestMenus(reading *service.DailyReading, exclude []string) []string {
	elements := saju.RecommendedElements(reading.Classification)
	if len(elements) == 0 {
		elements = domain.AllElements()
	}

	excluded := make(map[string]bool, len(exclude))
	for _, f := range exclude {
		excluded[f] = true
	}

	maxRounds := 0
	for _, e := range elements {
		if l := len(saju.ElementFoods(e)); l > maxRounds {
			maxRounds = l
		}
	}

	var out []string
	// Round-robin across elements so one element does not dominate the batch.
	for round := 0; round < maxRounds && len(out) < suggestedBatchSize; round++ {
		for _, e := range elements {
			foods := saju.ElementFoods(e)
			if round >= len(foods) {
				continue
			}
			food := foods[round]
			if excluded[food] {
				continue
			}
			excluded[food] = true
			out = append(out, food)
			if len(out) == suggestedBatchSize {
				break
			}
		}
	}
	return out
}

func bundleReply(roomID int64, texts ...string) *domain.BotReply {
	reply := &domain.BotReply{}
	now := time.Now()
	for _, text := range texts {
		reply.Messages = append(reply.Messages, domain.ChatMessage{
			ID:        uuid.New(),
			RoomID:    roomID,
			Role:      "assistant",
			Content:   text,
			CreatedAt: now,
		})
	}
	return reply
}

func (s *Service) persistUserMessage(ctx context.Context, roomID int64, text string) error {
	msg := &domain.ChatMessage{
		ID:        uuid.New(),
		RoomID:    roomID,
		Role:      "user",
		Content:   text,
		CreatedAt: time.Now(),
	}
	if err := s.MessageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("persist user message: %w", err)
	}
	return nil
}

// reply persists every message of a bundle and advances the room's
// last-message pointer to the final one.
func (s *Service) reply(ctx context.Context, room *domain.ConversationRoom, bundle *domain.BotReply) (*domain.BotReply, error) {
	for i := range bundle.Messages {
		if err := s.MessageRepo.Create(ctx, &bundle.Messages[i]); err != nil {
			return nil, fmt.Errorf("persist bot message: %w", err)
		}
	}
	if last := bundle.Last(); last != nil {
		if err := s.RoomRepo.SetLastMessage(ctx, room.ID, last.ID); err != nil {
			s.Log.Warn("failed to advance last-message pointer", "room_id", room.ID, "error", err)
		}
		room.LastMessageID = &last.ID
	}
	return bundle, nil
}

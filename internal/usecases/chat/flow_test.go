package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bap-pick/bab-back/internal/domain"
)

func existingRoom(state domain.RoomState) *domain.ConversationRoom {
	return &domain.ConversationRoom{
		ID:       10,
		OwnerUID: "uid-1",
		State:    state,
	}
}

func TestOpenRoom_CreatesRoomAndSendsAnalysis(t *testing.T) {
	f := newFixture(newFakeRoomRepo())

	reply, err := f.svc.OpenRoom(context.Background(), "uid-1", 10, false)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 2)
	assert.Contains(t, reply.Messages[0].Content, "밥픽")
	assert.Contains(t, reply.Messages[0].Content, "치우침형")
	assert.Contains(t, reply.Messages[1].Content, "메뉴")

	room := f.rooms.rooms[10]
	assert.Equal(t, domain.StateAwaitingChoice, room.State)
	assert.NotEmpty(t, room.LastFoods)
	require.NotNil(t, room.LastMessageID)
	assert.Equal(t, reply.Last().ID, *room.LastMessageID)
}

func TestOpenRoom_ReadingFailureDegradesGracefully(t *testing.T) {
	f := newFixture(newFakeRoomRepo())
	f.saju.reading = nil
	f.saju.err = errors.New("almanac offline")

	reply, err := f.svc.OpenRoom(context.Background(), "uid-1", 10, false)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 1)
	assert.Equal(t, analysisUnavailableText, reply.Messages[0].Content)
	assert.Equal(t, domain.StateGreeting, f.rooms.rooms[10].State)
}

func TestOpenRoom_GroupRoomOpensSilently(t *testing.T) {
	f := newFixture(newFakeRoomRepo())

	reply, err := f.svc.OpenRoom(context.Background(), "uid-1", 10, true)
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Empty(t, f.messages.messages)

	room := f.rooms.rooms[10]
	require.NotNil(t, room)
	assert.True(t, room.IsGroup)
	assert.Equal(t, domain.StateGreeting, room.State)

	// The greeting goes out on the first mentioned turn instead.
	reply, err = f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "@밥픽 안녕", true)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 2)
	assert.Contains(t, reply.Messages[0].Content, "밥픽")
	assert.Equal(t, domain.StateAwaitingChoice, room.State)
}

func TestHandleUserMessage_SelectMovesToAwaitingLocation(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	room.LastFoods = []string{"비빔밥", "해물탕"}
	f := newFixture(newFakeRoomRepo(room))
	f.llm.response = "SELECT: 해물탕"

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "해물탕 먹을래요", false)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0].Content, "해물탕")
	assert.Contains(t, reply.Messages[0].Content, "위치")

	assert.Equal(t, domain.StateAwaitingLocation, room.State)
	require.NotNil(t, room.SelectedMenu)
	assert.Equal(t, "해물탕", *room.SelectedMenu)
}

func TestHandleUserMessage_RejectReplacesSuggestions(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	room.LastFoods = []string{"해물탕", "물회", "비빔밥"}
	f := newFixture(newFakeRoomRepo(room))
	f.llm.response = "REJECT"

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "다른 거 없어요?", false)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 1)

	// The new batch replaces the old one and repeats nothing from it.
	assert.NotEmpty(t, room.LastFoods)
	for _, food := range room.LastFoods {
		assert.NotContains(t, []string{"해물탕", "물회", "비빔밥"}, food)
	}
	assert.Nil(t, room.SelectedMenu)
	assert.Equal(t, domain.StateAwaitingChoice, room.State)
}

func TestHandleUserMessage_ReasonExplainsReading(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	f := newFixture(newFakeRoomRepo(room))
	f.llm.response = "REASON"

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "왜 이런 메뉴예요?", false)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0].Content, "비견")
}

func TestHandleUserMessage_GroupWithoutMentionIsIgnored(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	room.IsGroup = true
	f := newFixture(newFakeRoomRepo(room))

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "잡담", false)
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Empty(t, f.messages.messages, "gated turns must not be persisted")
}

func TestHandleUserMessage_GroupWithMentionIsHandled(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	room.IsGroup = true
	room.LastFoods = []string{"비빔밥"}
	f := newFixture(newFakeRoomRepo(room))
	f.llm.response = "SELECT: 비빔밥"

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "@밥픽 비빔밥", true)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, domain.StateAwaitingLocation, room.State)
}

func TestHandleUserMessage_WhileAwaitingLocation(t *testing.T) {
	menu := "비빔밥"
	room := existingRoom(domain.StateAwaitingLocation)
	room.SelectedMenu = &menu
	f := newFixture(newFakeRoomRepo(room))

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "아무 말", false)
	require.NoError(t, err)
	assert.Equal(t, locationReminderText, reply.Messages[0].Content)
	assert.Equal(t, domain.StateAwaitingLocation, room.State)
}

func TestHandleUserMessage_ReadsRoomOnlyUnderRoomLock(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	f := newFixture(newFakeRoomRepo(room))

	release := f.svc.locks.acquire(10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "잡담", false)
	}()

	// While another turn holds the room, this turn must not have read it
	// yet: a pre-lock snapshot could roll back state the holder is about
	// to commit, e.g. a reject racing a select.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, f.rooms.loads())

	release()
	<-done
	assert.Equal(t, 1, f.rooms.loads())
}

func TestHandleLocation_ReadsRoomOnlyUnderRoomLock(t *testing.T) {
	menu := "김치찌개"
	room := existingRoom(domain.StateAwaitingLocation)
	room.SelectedMenu = &menu
	f := newFixture(newFakeRoomRepo(room))

	release := f.svc.locks.acquire(10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.svc.HandleLocation(context.Background(), "uid-1", 10, domain.LocationSignal{
			Kind: domain.LocationCurrent, Latitude: 37.5, Longitude: 127.0,
		})
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, f.rooms.loads())

	release()
	<-done
	assert.Equal(t, 1, f.rooms.loads())
}

func TestHandleUserMessage_LLMDownFallsBackToHeuristics(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	room.LastFoods = []string{"김치찌개"}
	f := newFixture(newFakeRoomRepo(room))
	f.llm.err = errors.New("llm timeout")

	reply, err := f.svc.HandleUserMessage(context.Background(), "uid-1", 10, "김치찌개로 할게요", false)
	require.NoError(t, err)
	assert.Contains(t, reply.Messages[0].Content, "김치찌개")
	assert.Equal(t, domain.StateAwaitingLocation, room.State)
}

func TestHandleLocation_SendsResultBundle(t *testing.T) {
	menu := "김치찌개"
	room := existingRoom(domain.StateAwaitingLocation)
	room.SelectedMenu = &menu
	f := newFixture(newFakeRoomRepo(room))
	f.matcher.candidates = []domain.RestaurantCandidate{
		{ID: 1, Name: "찌개명가", Category: "한식", DistanceKm: 0.3, ReviewCount: 120},
		{ID: 2, Name: "백반집", Category: "한식", DistanceKm: 0.7, ReviewCount: 40},
	}

	reply, err := f.svc.HandleLocation(context.Background(), "uid-1", 10, domain.LocationSignal{
		Kind: domain.LocationCurrent, Latitude: 37.5, Longitude: 127.0,
	})
	require.NoError(t, err)
	require.Len(t, reply.Messages, 3)
	assert.Contains(t, reply.Messages[0].Content, "김치찌개")
	assert.Contains(t, reply.Messages[1].Content, "찌개명가")
	assert.Equal(t, resultsClosingText, reply.Messages[2].Content)
	assert.Len(t, reply.Restaurants, 2)

	assert.Equal(t, "김치찌개", f.matcher.lastDish)
	assert.Equal(t, domain.StateResultsSent, room.State)
	assert.Nil(t, room.SelectedMenu, "a completed search consumes the selection")
	require.NotNil(t, room.LastMessageID)
	assert.Equal(t, reply.Last().ID, *room.LastMessageID)
}

func TestHandleLocation_EmptyResultClearsSelection(t *testing.T) {
	menu := "트러플파스타"
	room := existingRoom(domain.StateAwaitingLocation)
	room.SelectedMenu = &menu
	f := newFixture(newFakeRoomRepo(room))

	reply, err := f.svc.HandleLocation(context.Background(), "uid-1", 10, domain.LocationSignal{
		Kind: domain.LocationManual, Latitude: 37.5, Longitude: 127.0,
	})
	require.NoError(t, err)
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0].Content, "찾지 못했어요")

	assert.Nil(t, room.SelectedMenu)
	assert.Equal(t, domain.StateAwaitingChoice, room.State)
}

func TestHandleLocation_MatcherFailureIsAnError(t *testing.T) {
	menu := "김치찌개"
	room := existingRoom(domain.StateAwaitingLocation)
	room.SelectedMenu = &menu
	f := newFixture(newFakeRoomRepo(room))
	f.matcher.err = errors.New("geo index down")

	_, err := f.svc.HandleLocation(context.Background(), "uid-1", 10, domain.LocationSignal{
		Kind: domain.LocationCurrent, Latitude: 37.5, Longitude: 127.0,
	})
	assert.Error(t, err, "an infrastructure failure must not read as an empty result")
	assert.Equal(t, domain.StateAwaitingLocation, room.State)
}

func TestHandleLocation_WithoutSelection(t *testing.T) {
	room := existingRoom(domain.StateAwaitingChoice)
	f := newFixture(newFakeRoomRepo(room))

	reply, err := f.svc.HandleLocation(context.Background(), "uid-1", 10, domain.LocationSignal{
		Kind: domain.LocationSaved, Latitude: 37.5, Longitude: 127.0,
	})
	require.NoError(t, err)
	assert.Equal(t, locationWithoutMenuText, reply.Messages[0].Content)
	assert.Equal(t, 0, f.matcher.calls)
}

func TestSuggestMenus_ExcludesAndRoundRobins(t *testing.T) {
	reading := skewedReading()

	first := suggestMenus(reading, nil)
	require.Len(t, first, 3)

	second := suggestMenus(reading, first)
	assert.NotEmpty(t, second)
	for _, food := range second {
		assert.NotContains(t, first, food)
	}
}

func TestSuggestMenus_BalancedDrawsFromAllElements(t *testing.T) {
	reading := skewedReading()
	reading.Classification = domain.OhengClassification{Type: domain.OhengBalanced}

	got := suggestMenus(reading, nil)
	assert.Len(t, got, 3)
}

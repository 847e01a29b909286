package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/service"
)

type fakeRoomRepo struct {
	mu       sync.Mutex
	rooms    map[int64]*domain.ConversationRoom
	getCalls int
}

func newFakeRoomRepo(rooms ...*domain.ConversationRoom) *fakeRoomRepo {
	f := &fakeRoomRepo{rooms: map[int64]*domain.ConversationRoom{}}
	for _, r := range rooms {
		f.rooms[r.ID] = r
	}
	return f
}

func (f *fakeRoomRepo) GetByID(_ context.Context, roomID int64) (*domain.ConversationRoom, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()

	r, ok := f.rooms[roomID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// loads reports how many times a room was read, for tests that pin down
// where in a turn the read happens.
func (f *fakeRoomRepo) loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeRoomRepo) Create(_ context.Context, room *domain.ConversationRoom) error {
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) UpdateFlow(_ context.Context, roomID int64, state domain.RoomState, selectedMenu *string, lastFoods []string) error {
	r := f.rooms[roomID]
	r.State = state
	r.SelectedMenu = selectedMenu
	r.LastFoods = lastFoods
	return nil
}

func (f *fakeRoomRepo) SetLastMessage(_ context.Context, roomID int64, messageID uuid.UUID) error {
	r := f.rooms[roomID]
	r.LastMessageID = &messageID
	return nil
}

type fakeMessageRepo struct {
	messages []domain.ChatMessage
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListRecent(_ context.Context, roomID int64, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeUserRepo struct {
	user *domain.User
}

func (f *fakeUserRepo) GetByUID(_ context.Context, uid string) (*domain.User, error) {
	if f.user == nil || f.user.UID != uid {
		return nil, domain.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) UpdateBaseline(context.Context, *domain.User, domain.ElementDistribution, domain.Stem, domain.Branch) error {
	return nil
}

type fakeSaju struct {
	reading *service.DailyReading
	err     error
}

func (f *fakeSaju) ResolvePillars(context.Context, domain.BirthProfile) (domain.Pillars, error) {
	return domain.Pillars{}, nil
}

func (f *fakeSaju) BaselineFor(context.Context, *domain.User) (domain.ElementDistribution, domain.Stem, error) {
	return domain.ElementDistribution{}, "", nil
}

func (f *fakeSaju) TodayReading(context.Context, *domain.User, time.Time) (*service.DailyReading, error) {
	return f.reading, f.err
}

type fakeMatcher struct {
	candidates []domain.RestaurantCandidate
	err        error
	lastDish   string
	calls      int
}

func (f *fakeMatcher) MatchByDish(_ context.Context, dish string, _, _, _ float64) ([]domain.RestaurantCandidate, error) {
	f.calls++
	f.lastDish = dish
	return f.candidates, f.err
}

func (f *fakeMatcher) Nearby(context.Context, float64, float64, float64, int) ([]domain.RestaurantCandidate, error) {
	return f.candidates, f.err
}

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func skewedReading() *service.DailyReading {
	return &service.DailyReading{
		Distribution: domain.ElementDistribution{
			Wood: 5, Fire: 35, Earth: 20, Metal: 20, Water: 20,
		},
		Classification: domain.OhengClassification{
			Type:    domain.OhengSkewed,
			Lacking: []domain.Element{domain.ElementWood},
			Strong:  []domain.Element{domain.ElementFire},
			Control: []domain.Element{domain.ElementWater},
		},
		Relation:  "비견",
		DaySky:    "갑",
		DayGround: "자",
	}
}

func testUser() *domain.User {
	return &domain.User{ID: 1, UID: "uid-1", Nickname: "테스터"}
}

type chatFixture struct {
	svc      *Service
	rooms    *fakeRoomRepo
	messages *fakeMessageRepo
	matcher  *fakeMatcher
	llm      *fakeLLM
	saju     *fakeSaju
}

func newFixture(rooms *fakeRoomRepo) *chatFixture {
	f := &chatFixture{
		rooms:    rooms,
		messages: &fakeMessageRepo{},
		matcher:  &fakeMatcher{},
		llm:      &fakeLLM{response: "CHAT"},
		saju:     &fakeSaju{reading: skewedReading()},
	}
	f.svc = New(f.rooms, f.messages, &fakeUserRepo{user: testUser()}, f.saju, f.matcher, f.llm, slog.Default())
	return f
}

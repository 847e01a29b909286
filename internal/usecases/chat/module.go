package chat

import (
	"log/slog"

	"github.com/bap-pick/bab-back/internal/ports/llm"
	"github.com/bap-pick/bab-back/internal/ports/repository"
	"github.com/bap-pick/bab-back/internal/ports/service"
)

// Search radius and history window of the conversation flow.
const (
	searchRadiusKm = 2.0
	historyLimit   = 10
)

// Service drives the per-room conversation flow. All mutations of a room's
// flow state go through the per-room lock, so concurrent messages in one
// room are processed strictly one at a time.
type Service struct {
	RoomRepo    repository.IRoomRepo
	MessageRepo repository.IMessageRepo
	UserRepo    repository.IUserRepo
	Saju        service.ISajuService
	Matcher     service.IRestaurantMatcher
	LLM         llm.IGenerator
	Log         *slog.Logger

	locks *roomLocks
}

// New creates the conversation service.
func New(
	roomRepo repository.IRoomRepo,
	messageRepo repository.IMessageRepo,
	userRepo repository.IUserRepo,
	sajuService service.ISajuService,
	matcher service.IRestaurantMatcher,
	generator llm.IGenerator,
	log *slog.Logger,
) *Service {
	return &Service{
		RoomRepo:    roomRepo,
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
		Saju:        sajuService,
		Matcher:     matcher,
		LLM:         generator,
		Log:         log,
		locks:       newRoomLocks(),
	}
}

package repository

import (
	"context"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/google/uuid"
)

// IRoomRepo persists conversation room state so the service can run multiple
// instances and survive restarts without losing conversation state.
type IRoomRepo interface {
	GetByID(ctx context.Context, roomID int64) (*domain.ConversationRoom, error)
	Create(ctx context.Context, room *domain.ConversationRoom) error
	// UpdateFlow writes the state label, selected menu and the last
	// recommendation batch in one statement.
	UpdateFlow(ctx context.Context, roomID int64, state domain.RoomState, selectedMenu *string, lastFoods []string) error
	SetLastMessage(ctx context.Context, roomID int64, messageID uuid.UUID) error
}

// IMessageRepo persists chat turns.
type IMessageRepo interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	// ListRecent returns the most recent messages of a room in
	// chronological order.
	ListRecent(ctx context.Context, roomID int64, limit int) ([]domain.ChatMessage, error)
}

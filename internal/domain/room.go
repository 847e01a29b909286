package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoomState is the conversation flow state of a chat room. There is no
// terminal state: after results the room loops back to awaiting a choice.
type RoomState string

const (
	StateGreeting         RoomState = "greeting"
	StateAwaitingChoice   RoomState = "awaiting_choice"
	StateAwaitingLocation RoomState = "awaiting_location"
	StateResultsSent      RoomState = "results_sent"
)

// ConversationRoom is the durable per-room record. SelectedMenu and
// LastFoods are mutated only by the flow controller, never reconstructed
// from message history.
type ConversationRoom struct {
	ID            int64     `db:"id"`
	OwnerUID      string    `db:"owner_uid"`
	IsGroup       bool      `db:"is_group"`
	State         RoomState `db:"state"`
	SelectedMenu  *string   `db:"selected_menu"`
	LastFoods     []string
	LastMessageID *uuid.UUID `db:"last_message_id"`
	CreatedAt     time.Time  `db:"created_at"`
}

// ChatMessage is one turn in a room, user or bot.
type ChatMessage struct {
	ID        uuid.UUID `db:"id"`
	RoomID    int64     `db:"room_id"`
	Role      string    `db:"role"` // "user" | "assistant"
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// LocationKind tags how the coordinates in a location signal were obtained.
type LocationKind string

const (
	LocationSaved   LocationKind = "saved"
	LocationCurrent LocationKind = "current"
	LocationManual  LocationKind = "manual"
)

// LocationSignal is the structured location message a client sends after the
// bot asks where to search. Coordinates are always explicit.
type LocationSignal struct {
	Kind      LocationKind `json:"kind"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
}

// BotReply is a chat reply payload: a single text, or an ordered bundle of
// messages emitted atomically (lead-in, candidate list, closing prompt).
type BotReply struct {
	Messages    []ChatMessage
	Restaurants []RestaurantCandidate
}

// Single builds a one-message reply for a room.
func SingleReply(roomID int64, text string) *BotReply {
	return &BotReply{
		Messages: []ChatMessage{{
			ID:        uuid.New(),
			RoomID:    roomID,
			Role:      "assistant",
			Content:   text,
			CreatedAt: time.Now(),
		}},
	}
}

// Last returns the final message of the bundle, which is what the room's
// last-message pointer advances to.
func (r *BotReply) Last() *ChatMessage {
	if r == nil || len(r.Messages) == 0 {
		return nil
	}
	return &r.Messages[len(r.Messages)-1]
}

package chat

import (
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
)

// OpenRoomRequest opens (or resumes) a chat room for the caller.
type OpenRoomRequest struct {
	IsGroup bool `json:"is_group"`
}

// MessageRequest is one user chat turn. Mentioned reports whether the bot
// was addressed explicitly; it only matters in group rooms.
type MessageRequest struct {
	Text      string `json:"text" binding:"required"`
	Mentioned bool   `json:"mentioned"`
}

// LocationRequest is the structured location message sent after the bot
// asks where to search.
type LocationRequest struct {
	Kind      string  `json:"kind"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// MessageResponse is one bot message of a reply bundle.
type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyResponse is the full bot reply: ordered messages plus the restaurant
// candidates when the bundle carries search results. Restaurants is always
// present, as an empty list with a zero count outside result bundles.
type ReplyResponse struct {
	Messages    []MessageResponse            `json:"messages"`
	Restaurants []domain.RestaurantCandidate `json:"restaurants"`
	Count       int                          `json:"count"`
}

func toReplyResponse(reply *domain.BotReply) ReplyResponse {
	resp := ReplyResponse{
		Messages:    []MessageResponse{},
		Restaurants: []domain.RestaurantCandidate{},
	}
	if reply == nil {
		return resp
	}
	for _, m := range reply.Messages {
		resp.Messages = append(resp.Messages, MessageResponse{
			ID:        m.ID.String(),
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	if len(reply.Restaurants) > 0 {
		resp.Restaurants = reply.Restaurants
	}
	resp.Count = len(resp.Restaurants)
	return resp
}

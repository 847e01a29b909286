package messageRepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/persistence"
	ports "github.com/bap-pick/bab-back/internal/ports/repository"
)

type messageColumns struct {
	TableName string
	ID        string
	RoomID    string
	Role      string
	Content   string
	CreatedAt string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns messageColumns
}

// New creates the chat message repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IMessageRepo {
	cols := messageColumns{
		TableName: "chat_messages",
		ID:        "id",
		RoomID:    "room_id",
		Role:      "role",
		Content:   "content",
		CreatedAt: "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.RoomID,
		r.columns.Role,
		r.columns.Content,
		r.columns.CreatedAt)
}

// Create persists one chat turn.
func (r *Repository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		msg.ID,
		msg.RoomID,
		msg.Role,
		msg.Content,
		msg.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create message", "error", err, "room_id", msg.RoomID)
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListRecent returns the last messages of a room in chronological order.
func (r *Repository) ListRecent(ctx context.Context, roomID int64, limit int) ([]domain.ChatMessage, error) {
	var rows []domain.ChatMessage
	// Newest first to apply the limit, reversed below for prompt order.
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.RoomID,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &rows, query, roomID, limit); err != nil {
		r.Log.Error("failed to list messages", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

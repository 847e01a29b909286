package roomRepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/persistence"
	ports "github.com/bap-pick/bab-back/internal/ports/repository"
)

type roomColumns struct {
	TableName     string
	ID            string
	OwnerUID      string
	IsGroup       string
	State         string
	SelectedMenu  string
	LastFoods     string
	LastMessageID string
	CreatedAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns roomColumns
}

// New creates the conversation room repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IRoomRepo {
	cols := roomColumns{
		TableName:     "chat_rooms",
		ID:            "id",
		OwnerUID:      "owner_uid",
		IsGroup:       "is_group",
		State:         "state",
		SelectedMenu:  "selected_menu",
		LastFoods:     "last_foods",
		LastMessageID: "last_message_id",
		CreatedAt:     "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// roomRow mirrors the chat_rooms table. The recommendation batch is stored
// as a JSON array in a text column.
type roomRow struct {
	ID            int64      `db:"id"`
	OwnerUID      string     `db:"owner_uid"`
	IsGroup       bool       `db:"is_group"`
	State         string     `db:"state"`
	SelectedMenu  *string    `db:"selected_menu"`
	LastFoods     string     `db:"last_foods"`
	LastMessageID *uuid.UUID `db:"last_message_id"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.OwnerUID,
		r.columns.IsGroup,
		r.columns.State,
		r.columns.SelectedMenu,
		r.columns.LastFoods,
		r.columns.LastMessageID,
		r.columns.CreatedAt)
}

// GetByID loads a room's durable flow state.
func (r *Repository) GetByID(ctx context.Context, roomID int64) (*domain.ConversationRoom, error) {
	var row roomRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &row, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %d: %w", roomID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get room", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return row.toDomain(r.Log)
}

// Create inserts a fresh room record.
func (r *Repository) Create(ctx context.Context, room *domain.ConversationRoom) error {
	foods, err := marshalFoods(room.LastFoods)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.OwnerUID,
		r.columns.IsGroup,
		r.columns.State,
		r.columns.SelectedMenu,
		r.columns.LastFoods)
	err = r.db.Exec(ctx, query,
		room.ID,
		room.OwnerUID,
		room.IsGroup,
		string(room.State),
		room.SelectedMenu,
		foods)
	if err != nil {
		r.Log.Error("failed to create room", "error", err, "room_id", room.ID)
		return fmt.Errorf("failed to create room: %w", err)
	}
	r.Log.Debug("room created", "room_id", room.ID, "owner_uid", room.OwnerUID)
	return nil
}

// UpdateFlow writes the state label, the selection and the last batch in one
// statement so a crash between writes cannot leave them out of step.
func (r *Repository) UpdateFlow(ctx context.Context, roomID int64, state domain.RoomState, selectedMenu *string, lastFoods []string) error {
	foods, err := marshalFoods(lastFoods)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3 WHERE %s = $4`,
		r.columns.TableName,
		r.columns.State,
		r.columns.SelectedMenu,
		r.columns.LastFoods,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query, string(state), selectedMenu, foods, roomID)
	if err != nil {
		r.Log.Error("failed to update room flow", "error", err, "room_id", roomID)
		return fmt.Errorf("failed to update room flow: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("room %d: %w", roomID, domain.ErrNotFound)
	}
	return nil
}

// SetLastMessage advances the room's last-message pointer.
func (r *Repository) SetLastMessage(ctx context.Context, roomID int64, messageID uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		r.columns.TableName,
		r.columns.LastMessageID,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, messageID, roomID); err != nil {
		r.Log.Error("failed to set last message", "error", err, "room_id", roomID)
		return fmt.Errorf("failed to set last message: %w", err)
	}
	return nil
}

func marshalFoods(foods []string) (string, error) {
	if foods == nil {
		foods = []string{}
	}
	raw, err := json.Marshal(foods)
	if err != nil {
		return "", fmt.Errorf("marshal last foods: %w", err)
	}
	return string(raw), nil
}

func (row *roomRow) toDomain(log *slog.Logger) (*domain.ConversationRoom, error) {
	var foods []string
	if row.LastFoods != "" {
		if err := json.Unmarshal([]byte(row.LastFoods), &foods); err != nil {
			// Corrupt batch data degrades to no anti-repetition context.
			log.Warn("unreadable last_foods column", "room_id", row.ID, "error", err)
			foods = nil
		}
	}
	return &domain.ConversationRoom{
		ID:            row.ID,
		OwnerUID:      row.OwnerUID,
		IsGroup:       row.IsGroup,
		State:         domain.RoomState(row.State),
		SelectedMenu:  row.SelectedMenu,
		LastFoods:     foods,
		LastMessageID: row.LastMessageID,
		CreatedAt:     row.CreatedAt,
	}, nil
}

package userRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/persistence"
	ports "github.com/bap-pick/bab-back/internal/ports/repository"
)

type userColumns struct {
	TableName    string
	ID           string
	UID          string
	Email        string
	Nickname     string
	Gender       string
	BirthDate    string
	BirthTime    string
	Calendar     string
	ProfileImage string
	OhengWood    string
	OhengFire    string
	OhengEarth   string
	OhengMetal   string
	OhengWater   string
	DaySky       string
	DayGround    string
	CreatedAt    string
	UpdatedAt    string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns userColumns
}

// New creates the user repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	cols := userColumns{
		TableName:    "users",
		ID:           "id",
		UID:          "uid",
		Email:        "email",
		Nickname:     "nickname",
		Gender:       "gender",
		BirthDate:    "birth_date",
		BirthTime:    "birth_time",
		Calendar:     "birth_calendar",
		ProfileImage: "profile_image",
		OhengWood:    "oheng_wood",
		OhengFire:    "oheng_fire",
		OhengEarth:   "oheng_earth",
		OhengMetal:   "oheng_metal",
		OhengWater:   "oheng_water",
		DaySky:       "day_sky",
		DayGround:    "day_ground",
		CreatedAt:    "created_at",
		UpdatedAt:    "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// userRow mirrors the users table; the baseline columns fold into the
// domain value on the way out.
type userRow struct {
	ID           int64          `db:"id"`
	UID          string         `db:"uid"`
	Email        string         `db:"email"`
	Nickname     sql.NullString `db:"nickname"`
	Gender       string         `db:"gender"`
	BirthDate    time.Time      `db:"birth_date"`
	BirthTime    *string        `db:"birth_time"`
	Calendar     string         `db:"birth_calendar"`
	ProfileImage *string        `db:"profile_image"`
	OhengWood    float64        `db:"oheng_wood"`
	OhengFire    float64        `db:"oheng_fire"`
	OhengEarth   float64        `db:"oheng_earth"`
	OhengMetal   float64        `db:"oheng_metal"`
	OhengWater   float64        `db:"oheng_water"`
	DaySky       *string        `db:"day_sky"`
	DayGround    *string        `db:"day_ground"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UID,
		r.columns.Email,
		r.columns.Nickname,
		r.columns.Gender,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.Calendar,
		r.columns.ProfileImage,
		r.columns.OhengWood,
		r.columns.OhengFire,
		r.columns.OhengEarth,
		r.columns.OhengMetal,
		r.columns.OhengWater,
		r.columns.DaySky,
		r.columns.DayGround,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

// GetByUID loads a user by the auth provider's uid.
func (r *Repository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	var row userRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UID)
	err := r.db.Get(ctx, &row, query, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("user not found", "uid", uid)
			return nil, fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
		}
		r.Log.Error("failed to get user by uid", "error", err, "uid", uid)
		return nil, fmt.Errorf("failed to get user by uid: %w", err)
	}
	return row.toDomain(), nil
}

// UpdateBaseline persists the recomputed baseline together with the resolved
// day pillar in one statement.
func (r *Repository) UpdateBaseline(ctx context.Context, user *domain.User, baseline domain.ElementDistribution, daySky domain.Stem, dayGround domain.Branch) error {
	userID := user.ID
	query := fmt.Sprintf(`UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $8`,
		r.columns.TableName,
		r.columns.OhengWood,
		r.columns.OhengFire,
		r.columns.OhengEarth,
		r.columns.OhengMetal,
		r.columns.OhengWater,
		r.columns.DaySky,
		r.columns.DayGround,
		r.columns.UpdatedAt,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query,
		baseline.Wood,
		baseline.Fire,
		baseline.Earth,
		baseline.Metal,
		baseline.Water,
		string(daySky),
		string(dayGround),
		userID)
	if err != nil {
		r.Log.Error("failed to update baseline", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update baseline: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	r.Log.Debug("baseline updated", "user_id", userID)
	return nil
}

func (row *userRow) toDomain() *domain.User {
	u := &domain.User{
		ID:           row.ID,
		UID:          row.UID,
		Email:        row.Email,
		Nickname:     row.Nickname.String,
		Gender:       row.Gender,
		BirthDate:    row.BirthDate,
		BirthTime:    row.BirthTime,
		Calendar:     domain.Calendar(row.Calendar),
		ProfileImage: row.ProfileImage,
		Baseline: domain.ElementDistribution{
			Wood:  row.OhengWood,
			Fire:  row.OhengFire,
			Earth: row.OhengEarth,
			Metal: row.OhengMetal,
			Water: row.OhengWater,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.DaySky != nil {
		s := domain.Stem(*row.DaySky)
		u.DaySky = &s
	}
	if row.DayGround != nil {
		b := domain.Branch(*row.DayGround)
		u.DayGround = &b
	}
	return u
}

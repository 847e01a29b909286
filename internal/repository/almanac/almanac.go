package almanacRepo

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

type almanacColumns struct {
	TableName       string
	SolarDate       string
	LunarDate       string
	LeapMonth       string
	Season          string
	SeasonStartTime string
	YearSky         string
	YearGround      string
	MonthSky        string
	MonthGround     string
	DaySky          string
	DayGround       string
}

// Repository reads the manse almanac reference table. The table is loaded
// once by the data pipeline and never written by this service.
type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns almanacColumns
}

// New creates the almanac repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IAlmanacRepo {
	cols := almanacColumns{
		TableName:       "manse",
		SolarDate:       "solar_date",
		LunarDate:       "lunar_date",
		LeapMonth:       "leap_month",
		Season:          "season",
		SeasonStartTime: "season_start_time",
		YearSky:         "year_sky",
		YearGround:      "year_ground",
		MonthSky:        "month_sky",
		MonthGround:     "month_ground",
		DaySky:          "day_sky",
		DayGround:       "day_ground",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

type almanacRow struct {
	SolarDate       time.Time      `db:"solar_date"`
	LunarDate       time.Time      `db:"lunar_date"`
	LeapMonth       bool           `db:"leap_month"`
	Season          sql.NullString `db:"season"`
	SeasonStartTime *time.Time     `db:"season_start_time"`
	YearSky         string         `db:"year_sky"`
	YearGround      string         `db:"year_ground"`
	MonthSky        string         `db:"month_sky"`
	MonthGround     string         `db:"month_ground"`
	DaySky          string         `db:"day_sky"`
	DayGround       string         `db:"day_ground"`
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.SolarDate,
		r.columns.LunarDate,
		r.columns.LeapMonth,
		r.columns.Season,
		r.columns.SeasonStartTime,
		r.columns.YearSky,
		r.columns.YearGround,
		r.columns.MonthSky,
		r.columns.MonthGround,
		r.columns.DaySky,
		r.columns.DayGround)
}

// GetBySolarDate looks up the record of a solar calendar day.
func (r *Repository) GetBySolarDate(ctx context.Context, date time.Time) (*domain.AlmanacRecord, error) {
	var row almanacRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.SolarDate)
	err := r.db.Get(ctx, &row, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, r.wrapLookupError(err, "solar_date", date)
	}
	return row.toDomain(), nil
}

// GetByLunarDate looks up the record of a lunar calendar day. The leap flag
// disambiguates dates repeated by a leap month.
func (r *Repository) GetByLunarDate(ctx context.Context, date time.Time, leapMonth bool) (*domain.AlmanacRecord, error) {
	var row almanacRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.LunarDate,
		r.columns.LeapMonth)
	err := r.db.Get(ctx, &row, query, date.Format("2006-01-02"), leapMonth)
	if err != nil {
		return nil, r.wrapLookupError(err, "lunar_date", date)
	}
	return row.toDomain(), nil
}

// GetLatestBefore returns the chronologically nearest record preceding the
// given solar date, used for the solar-term correction.
func (r *Repository) GetLatestBefore(ctx context.Context, solarDate time.Time) (*domain.AlmanacRecord, error) {
	var row almanacRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s < $1 ORDER BY %s DESC LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.SolarDate,
		r.columns.SolarDate)
	err := r.db.Get(ctx, &row, query, solarDate.Format("2006-01-02"))
	if err != nil {
		return nil, r.wrapLookupError(err, "before_solar_date", solarDate)
	}
	return row.toDomain(), nil
}

func (r *Repository) wrapLookupError(err error, field string, date time.Time) error {
	if errors.Is(err, sql.ErrNoRows) {
		r.Log.Warn("almanac record not found", field, date.Format("2006-01-02"))
		return fmt.Errorf("almanac %s %s: %w", field, date.Format("2006-01-02"), domain.ErrNotFound)
	}
	r.Log.Error("almanac lookup failed", "error", err, field, date.Format("2006-01-02"))
	return fmt.Errorf("almanac lookup failed: %w", err)
}

func (row *almanacRow) toDomain() *domain.AlmanacRecord {
	return &domain.AlmanacRecord{
		SolarDate:       row.SolarDate,
		LunarDate:       row.LunarDate,
		LeapMonth:       row.LeapMonth,
		Season:          row.Season.String,
		SeasonStartTime: row.SeasonStartTime,
		YearSky:         domain.Stem(row.YearSky),
		YearGround:      domain.Branch(row.YearGround),
		MonthSky:        domain.Stem(row.MonthSky),
		MonthGround:     domain.Branch(row.MonthGround),
		DaySky:          domain.Stem(row.DaySky),
		DayGround:       domain.Branch(row.DayGround),
	}
}

package restaurantRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/persistence"
	ports "github.com/bap-pick/bab-back/internal/ports/repository"
)

type restaurantColumns struct {
	TableName   string
	MenuTable   string
	ID          string
	Name        string
	Category    string
	Address     string
	Image       string
	Rating      string
	ReviewCount string
	Latitude    string
	Longitude   string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns restaurantColumns
}

// New creates the restaurant repository.
func New(db persistence.Persistence, log *slog.Logger) ports.IRestaurantRepo {
	cols := restaurantColumns{
		TableName:   "restaurants",
		MenuTable:   "restaurant_menus",
		ID:          "id",
		Name:        "name",
		Category:    "category",
		Address:     "address",
		Image:       "image",
		Rating:      "rating",
		ReviewCount: "review_count",
		Latitude:    "latitude",
		Longitude:   "longitude",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

type summaryRow struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Category    sql.NullString  `db:"category"`
	Address     sql.NullString  `db:"address"`
	Image       sql.NullString  `db:"image"`
	Rating      float64         `db:"rating"`
	ReviewCount int             `db:"review_count"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
}

func (r *Repository) summaryColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.Name,
		r.columns.Category,
		r.columns.Address,
		r.columns.Image,
		r.columns.Rating,
		r.columns.ReviewCount,
		r.columns.Latitude,
		r.columns.Longitude)
}

// ListLocations returns the coordinate rows fed to the geo index. Rows
// without coordinates are filtered here, not downstream.
func (r *Repository) ListLocations(ctx context.Context) ([]domain.RestaurantLocation, error) {
	var rows []domain.RestaurantLocation
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s IS NOT NULL AND %s IS NOT NULL`,
		r.columns.ID,
		r.columns.Latitude,
		r.columns.Longitude,
		r.columns.TableName,
		r.columns.Latitude,
		r.columns.Longitude)
	if err := r.db.Select(ctx, &rows, query); err != nil {
		r.Log.Error("failed to list restaurant locations", "error", err)
		return nil, fmt.Errorf("failed to list restaurant locations: %w", err)
	}
	return rows, nil
}

// ListSummaries returns every restaurant's display summary for the cache
// bulk-load.
func (r *Repository) ListSummaries(ctx context.Context) ([]domain.RestaurantSummary, error) {
	var rows []summaryRow
	query := fmt.Sprintf(`SELECT %s FROM %s`, r.summaryColumns(), r.columns.TableName)
	if err := r.db.Select(ctx, &rows, query); err != nil {
		r.Log.Error("failed to list restaurant summaries", "error", err)
		return nil, fmt.Errorf("failed to list restaurant summaries: %w", err)
	}
	summaries := make([]domain.RestaurantSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].toDomain())
	}
	return summaries, nil
}

// GetSummary loads one restaurant's display summary.
func (r *Repository) GetSummary(ctx context.Context, restaurantID int64) (*domain.RestaurantSummary, error) {
	var row summaryRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.summaryColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &row, query, restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("restaurant %d: %w", restaurantID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get restaurant", "error", err, "restaurant_id", restaurantID)
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	summary := row.toDomain()
	return &summary, nil
}

// GetDetail loads the summary plus the menu list.
func (r *Repository) GetDetail(ctx context.Context, restaurantID int64) (*domain.RestaurantDetail, error) {
	summary, err := r.GetSummary(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	var menus []domain.RestaurantMenu
	query := fmt.Sprintf(`SELECT id, menu_name, menu_price FROM %s WHERE restaurant_id = $1 ORDER BY id`,
		r.columns.MenuTable)
	if err := r.db.Select(ctx, &menus, query, restaurantID); err != nil {
		r.Log.Error("failed to list menus", "error", err, "restaurant_id", restaurantID)
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}

	return &domain.RestaurantDetail{
		Summary: *summary,
		Menus:   menus,
	}, nil
}

// ListMenuDocuments builds one searchable text document per restaurant:
// name, category and the concatenated menu names. Restaurants without menus
// still get a document from their name and category.
func (r *Repository) ListMenuDocuments(ctx context.Context) (map[int64]string, error) {
	type docRow struct {
		ID       int64          `db:"id"`
		Name     string         `db:"name"`
		Category sql.NullString `db:"category"`
		Menus    sql.NullString `db:"menus"`
	}

	var rows []docRow
	query := fmt.Sprintf(`
		SELECT r.%s AS id, r.%s AS name, r.%s AS category,
		       STRING_AGG(m.menu_name, ', ' ORDER BY m.id) AS menus
		FROM %s r
		LEFT JOIN %s m ON m.restaurant_id = r.%s
		GROUP BY r.%s, r.%s, r.%s`,
		r.columns.ID, r.columns.Name, r.columns.Category,
		r.columns.TableName,
		r.columns.MenuTable, r.columns.ID,
		r.columns.ID, r.columns.Name, r.columns.Category)
	if err := r.db.Select(ctx, &rows, query); err != nil {
		r.Log.Error("failed to list menu documents", "error", err)
		return nil, fmt.Errorf("failed to list menu documents: %w", err)
	}

	docs := make(map[int64]string, len(rows))
	for _, row := range rows {
		parts := []string{row.Name}
		if row.Category.Valid && row.Category.String != "" {
			parts = append(parts, row.Category.String)
		}
		if row.Menus.Valid && row.Menus.String != "" {
			parts = append(parts, row.Menus.String)
		}
		docs[row.ID] = strings.Join(parts, " ")
	}
	return docs, nil
}

func (row *summaryRow) toDomain() domain.RestaurantSummary {
	return domain.RestaurantSummary{
		ID:          row.ID,
		Name:        row.Name,
		Category:    row.Category.String,
		Address:     row.Address.String,
		Image:       row.Image.String,
		Rating:      row.Rating,
		ReviewCount: row.ReviewCount,
		Latitude:    row.Latitude.Float64,
		Longitude:   row.Longitude.Float64,
	}
}

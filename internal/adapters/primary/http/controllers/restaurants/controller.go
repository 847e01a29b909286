package restaurants

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/kafka"
	"github.com/bap-pick/bab-back/internal/ports/repository"
	"github.com/bap-pick/bab-back/internal/ports/service"
	"github.com/bap-pick/bab-back/internal/ports/storage"
)

const (
	defaultRadiusKm = 2.0
	defaultLimit    = 10
	presignExpiry   = 15 * time.Minute
)

type Controller struct {
	Matcher        service.IRestaurantMatcher
	RestaurantRepo repository.IRestaurantRepo
	Images         storage.IS3Client
	Updates        kafka.IProducer
	Log            *slog.Logger
}

func New(
	matcher service.IRestaurantMatcher,
	restaurantRepo repository.IRestaurantRepo,
	images storage.IS3Client,
	updates kafka.IProducer,
	log *slog.Logger,
) *Controller {
	return &Controller{
		Matcher:        matcher,
		RestaurantRepo: restaurantRepo,
		Images:         images,
		Updates:        updates,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/restaurants/nearby", c.nearby)
	router.GET("/api/restaurants/:id", c.detail)
	router.POST("/internal/restaurants/:id/refresh", c.refresh)
}

// nearby lists restaurants around a point, most reviewed first.
func (c *Controller) nearby(ctx *gin.Context) {
	lat, err := strconv.ParseFloat(ctx.Query("latitude"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
		return
	}
	lon, err := strconv.ParseFloat(ctx.Query("longitude"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
		return
	}

	radiusKm := defaultRadiusKm
	if raw := ctx.Query("radius_km"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil || radiusKm <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
			return
		}
	}

	limit := defaultLimit
	if raw := ctx.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	candidates, err := c.Matcher.Nearby(ctx.Request.Context(), lon, lat, radiusKm, limit)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	if candidates == nil {
		candidates = []domain.RestaurantCandidate{}
	}
	for i := range candidates {
		candidates[i].Image = c.imageURL(ctx, candidates[i].Image)
	}

	ctx.JSON(http.StatusOK, gin.H{"restaurants": candidates, "count": len(candidates)})
}

// detail returns one restaurant's summary and menu list.
func (c *Controller) detail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	detail, err := c.RestaurantRepo.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	detail.Summary.Image = c.imageURL(ctx, detail.Summary.Image)
	ctx.JSON(http.StatusOK, detail)
}

// refresh publishes a restaurant update event so every service instance
// reloads its cached views of the record.
func (c *Controller) refresh(ctx *gin.Context) {
	if c.Updates == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "update events not configured"})
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"restaurant_id": id,
		"action":        "refresh",
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := c.Updates.Send(ctx.Request.Context(), strconv.FormatInt(id, 10), payload); err != nil {
		c.Log.Error("failed to publish restaurant update", "error", err, "restaurant_id", id)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "event publish failed"})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{"ok": true})
}

// imageURL swaps a stored object key for a presigned URL. Absolute URLs and
// empty values pass through; presign failures degrade to the raw value.
func (c *Controller) imageURL(ctx *gin.Context, image string) string {
	if image == "" || strings.HasPrefix(image, "http") || c.Images == nil {
		return image
	}

	url, err := c.Images.GetPresignedURL(ctx.Request.Context(), image, presignExpiry)
	if err != nil {
		c.Log.Warn("failed to presign image", "error", err, "image", image)
		return image
	}
	return url
}

func (c *Controller) writeError(ctx *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case domain.IsExternalService(err):
		c.Log.Warn("restaurant request hit unavailable dependency", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
	default:
		if !domain.IsBusinessError(err) {
			c.Log.Error("restaurant request failed", "error", err)
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

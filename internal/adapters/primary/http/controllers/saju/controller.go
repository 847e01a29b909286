package saju

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/repository"
	"github.com/bap-pick/bab-back/internal/ports/service"
	sajuUsecase "github.com/bap-pick/bab-back/internal/usecases/saju"
)

const userHeader = "X-User-UID"

type Controller struct {
	SajuService service.ISajuService
	UserRepo    repository.IUserRepo
	Log         *slog.Logger
}

func New(sajuService service.ISajuService, userRepo repository.IUserRepo, log *slog.Logger) *Controller {
	return &Controller{
		SajuService: sajuService,
		UserRepo:    userRepo,
		Log:         log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/saju/analyze", c.analyze)
	router.GET("/api/saju/today", c.today)
}

// analyze returns the caller's birth-chart element distribution with the
// derived interpretation texts.
func (c *Controller) analyze(ctx *gin.Context) {
	user, ok := c.caller(ctx)
	if !ok {
		return
	}

	baseline, daySky, err := c.SajuService.BaselineFor(ctx.Request.Context(), user)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	cls := sajuUsecase.Classify(baseline)
	ctx.JSON(http.StatusOK, AnalysisResponse{
		Scores:      toScores(baseline),
		DaySky:      string(daySky),
		Type:        sajuUsecase.KoreanType(cls.Type),
		Headline:    sajuUsecase.Headline(cls),
		Advice:      sajuUsecase.Advice(cls),
		Lacking:     elementNames(cls.Lacking),
		Strong:      elementNames(cls.Strong),
		Recommended: recommendedFoods(cls),
	})
}

// today returns the daily reading: the baseline blended with today's pillar.
func (c *Controller) today(ctx *gin.Context) {
	user, ok := c.caller(ctx)
	if !ok {
		return
	}

	reading, err := c.SajuService.TodayReading(ctx.Request.Context(), user, time.Now())
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, TodayResponse{
		Scores:      toScores(reading.Distribution),
		DaySky:      string(reading.DaySky),
		DayGround:   string(reading.DayGround),
		Relation:    reading.Relation,
		Type:        sajuUsecase.KoreanType(reading.Classification.Type),
		Headline:    sajuUsecase.Headline(reading.Classification),
		Advice:      sajuUsecase.Advice(reading.Classification),
		Lacking:     elementNames(reading.Classification.Lacking),
		Strong:      elementNames(reading.Classification.Strong),
		Recommended: recommendedFoods(reading.Classification),
	})
}

func (c *Controller) caller(ctx *gin.Context) (*domain.User, bool) {
	uid := ctx.GetHeader(userHeader)
	if uid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing user"})
		return nil, false
	}

	user, err := c.UserRepo.GetByUID(ctx.Request.Context(), uid)
	if err != nil {
		c.writeError(ctx, err)
		return nil, false
	}
	return user, true
}

func (c *Controller) writeError(ctx *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case domain.IsConfiguration(err):
		c.Log.Error("analysis reference data broken", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		if !domain.IsBusinessError(err) {
			c.Log.Error("saju request failed", "error", err)
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

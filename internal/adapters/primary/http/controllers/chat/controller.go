package chat

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/service"
)

// userHeader carries the authenticated caller's uid, set by the gateway in
// front of this service.
const userHeader = "X-User-UID"

type Controller struct {
	ChatService service.IChatService
	Log         *slog.Logger
}

func New(chatService service.IChatService, log *slog.Logger) *Controller {
	return &Controller{
		ChatService: chatService,
		Log:         log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	rooms := router.Group("/api/chat/rooms")
	rooms.POST("/:roomID/open", c.openRoom)
	rooms.POST("/:roomID/messages", c.postMessage)
	rooms.POST("/:roomID/location", c.postLocation)
}

func (c *Controller) openRoom(ctx *gin.Context) {
	uid, roomID, ok := c.identify(ctx)
	if !ok {
		return
	}

	var req OpenRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := c.ChatService.OpenRoom(ctx.Request.Context(), uid, roomID, req.IsGroup)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toReplyResponse(reply))
}

func (c *Controller) postMessage(ctx *gin.Context) {
	uid, roomID, ok := c.identify(ctx)
	if !ok {
		return
	}

	var req MessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := c.ChatService.HandleUserMessage(ctx.Request.Context(), uid, roomID, req.Text, req.Mentioned)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	// A nil reply means the bot stayed silent (group room, not addressed).
	ctx.JSON(http.StatusOK, toReplyResponse(reply))
}

func (c *Controller) postLocation(ctx *gin.Context) {
	uid, roomID, ok := c.identify(ctx)
	if !ok {
		return
	}

	var req LocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	loc := domain.LocationSignal{
		Kind:      domain.LocationKind(req.Kind),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	reply, err := c.ChatService.HandleLocation(ctx.Request.Context(), uid, roomID, loc)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toReplyResponse(reply))
}

// identify pulls the caller uid and the room id out of the request.
func (c *Controller) identify(ctx *gin.Context) (uid string, roomID int64, ok bool) {
	uid = ctx.GetHeader(userHeader)
	if uid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing user"})
		return "", 0, false
	}

	roomID, err := strconv.ParseInt(ctx.Param("roomID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return "", 0, false
	}

	return uid, roomID, true
}

func (c *Controller) writeError(ctx *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case domain.IsExternalService(err):
		c.Log.Warn("chat request hit unavailable dependency", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
	default:
		if !domain.IsBusinessError(err) {
			c.Log.Error("chat request failed", "error", err)
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

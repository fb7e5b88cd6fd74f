package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/websocket"
)

// ChatController proxies questions to the AI service over HTTP and WebSocket
type ChatController struct {
	chatService services.ChatService
	wsHandler   *websocket.Handler
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController. Sessions opened through
// WebSocket are registered with hub.
func NewChatController(chatService services.ChatService, hub *websocket.Hub, logger zerolog.Logger) *ChatController {
	c := &ChatController{
		chatService: chatService,
		logger:      logger,
	}
	c.wsHandler = websocket.NewHandler(hub, c.answer, logger.With().Str("transport", "websocket").Logger())
	return c
}

// Ask godoc
// @Summary Ask the AI assistant
// @Description Forwards the question to the AI service. context_type defaults to syllabus.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ChatFailureResponse "AI service unavailable"
// @Router /chat [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.chatService.Ask(ctx.Request.Context(), req)
	if err != nil {
		var upstreamErr *apperrors.UpstreamError
		if errors.As(err, &upstreamErr) {
			ctx.JSON(http.StatusInternalServerError, dto.NewChatFailure(upstreamErr.Details))
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Models godoc
// @Summary List AI models
// @Description Passes through the model list of the AI service
// @Tags chat
// @Produce json
// @Success 200 {object} object
// @Failure 500 {object} dto.ChatProbeError
// @Router /chat/models [get]
func (c *ChatController) Models(ctx *gin.Context) {
	body, err := c.chatService.Models(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ChatProbeError{Error: services.ModelsUnavailableMessage})
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Health godoc
// @Summary AI service health
// @Tags chat
// @Produce json
// @Success 200 {object} object
// @Failure 500 {object} dto.ChatProbeError
// @Router /chat/health [get]
func (c *ChatController) Health(ctx *gin.Context) {
	body, err := c.chatService.Health(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ChatProbeError{Error: services.HealthUnavailableMessage})
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// WebSocket godoc
// @Summary Chat over WebSocket
// @Description Each text frame {"id","question","context_type"} is answered with {"id","payload"}, where payload has the same shape as the POST /chat response
// @Tags chat
// @Param token query string false "Optional JWT access token"
// @Success 101 {string} string "Switching Protocols"
// @Router /chat/ws [get]
func (c *ChatController) WebSocket(ctx *gin.Context) {
	var userID int64
	if principal := middleware.GetPrincipal(ctx); principal != nil {
		userID = principal.UserID
	}
	c.wsHandler.Serve(ctx, userID)
}

// answer renders one WebSocket question the way Ask renders an HTTP one
func (c *ChatController) answer(ctx context.Context, userID int64, msg *websocket.Message) interface{} {
	resp, err := c.chatService.Ask(ctx, dto.ChatRequest{Question: msg.Question, ContextType: msg.ContextType})
	if err == nil {
		return resp
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return dto.NewErrorResponse(dto.FieldErrorsDetail(verr.Fields))
	}

	var upstreamErr *apperrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		return dto.NewChatFailure(upstreamErr.Details)
	}

	c.logger.Error().Err(err).Int64("userID", userID).Msg("Unexpected chat failure")
	return dto.NewChatFailure("")
}

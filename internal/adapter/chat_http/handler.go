package chat_http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rag-chatbot/internal/domain"
	"rag-chatbot/internal/infra/logger"
	"rag-chatbot/internal/usecase"
)

type Handler struct {
	answerUsecase usecase.GenerateAnswerUsecase
	ingestUsecase usecase.IngestNewsUsecase
	statusUsecase usecase.SystemStatusUsecase
	sessions      domain.SessionRepository
	logger        *slog.Logger
}

func NewHandler(
	answerUsecase usecase.GenerateAnswerUsecase,
	ingestUsecase usecase.IngestNewsUsecase,
	statusUsecase usecase.SystemStatusUsecase,
	sessions domain.SessionRepository,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		answerUsecase: answerUsecase,
		ingestUsecase: ingestUsecase,
		statusUsecase: statusUsecase,
		sessions:      sessions,
		logger:        logger,
	}
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.POST("/session", h.CreateSession)
	e.GET("/history/:sessionId", h.History)
	e.DELETE("/session/:sessionId", h.DeleteSession)
	e.GET("/sessions", h.ListSessions)
	e.DELETE("/sessions", h.ClearSessions)
	e.GET("/status", h.Status)
	e.POST("/ingest", h.TriggerIngestion)
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

// Chat answers one user turn. A request without a session id gets a
// fresh session so the client can keep the conversation going.
func (h *Handler) Chat(ctx echo.Context) error {
	var req chatRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Message == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	sessionID := req.SessionID
	isNewSession := sessionID == ""
	if isNewSession {
		sessionID = uuid.NewString()
	}
	reqCtx := logger.WithSessionID(ctx.Request().Context(), sessionID)
	if isNewSession {
		if err := h.sessions.Create(reqCtx, sessionID); err != nil {
			return h.storeError(ctx, err)
		}
	}

	if err := h.sessions.Append(reqCtx, sessionID, domain.NewMessage(domain.SenderUser, req.Message)); err != nil {
		return h.storeError(ctx, err)
	}

	answer, err := h.answerUsecase.Execute(reqCtx, req.Message, sessionID)
	if err != nil {
		return h.storeError(ctx, err)
	}

	if err := h.sessions.Append(reqCtx, sessionID, domain.NewMessage(domain.SenderBot, answer)); err != nil {
		return h.storeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, chatResponse{Response: answer, SessionID: sessionID})
}

func (h *Handler) CreateSession(ctx echo.Context) error {
	sessionID := uuid.NewString()
	if err := h.sessions.Create(ctx.Request().Context(), sessionID); err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{"sessionId": sessionID})
}

func (h *Handler) History(ctx echo.Context) error {
	sessionID := ctx.Param("sessionId")
	reqCtx := ctx.Request().Context()

	exists, err := h.sessions.Exists(reqCtx, sessionID)
	if err != nil {
		return h.storeError(ctx, err)
	}
	if !exists {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	messages, err := h.sessions.Read(reqCtx, sessionID)
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"messages":  messages,
	})
}

func (h *Handler) DeleteSession(ctx echo.Context) error {
	sessionID := ctx.Param("sessionId")

	deleted, err := h.sessions.Delete(ctx.Request().Context(), sessionID)
	if err != nil {
		return h.storeError(ctx, err)
	}
	if !deleted {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted", "sessionId": sessionID})
}

func (h *Handler) ListSessions(ctx echo.Context) error {
	infos, err := h.sessions.ListAll(ctx.Request().Context())
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"sessions": infos,
		"count":    len(infos),
	})
}

func (h *Handler) ClearSessions(ctx echo.Context) error {
	n, err := h.sessions.DeleteAll(ctx.Request().Context())
	if err != nil {
		return h.storeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"status": "cleared", "count": n})
}

func (h *Handler) Status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, h.statusUsecase.Execute())
}

// TriggerIngestion starts a background refresh of the news index.
// A refresh already in flight is reported as a conflict.
func (h *Handler) TriggerIngestion(ctx echo.Context) error {
	if err := h.ingestUsecase.Trigger(); err != nil {
		if errors.Is(err, domain.ErrIngestionInProgress) {
			return ctx.JSON(http.StatusConflict, map[string]string{"error": "ingestion already in progress"})
		}
		h.logger.Error("ingest_trigger_failed", slog.String("error", err.Error()))
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to start ingestion"})
	}
	return ctx.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}

func (h *Handler) Healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(ctx echo.Context) error {
	status := h.statusUsecase.Execute()
	if !status.IndexInitialized {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) storeError(ctx echo.Context, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		h.logger.Error("session_store_unavailable", slog.String("error", err.Error()))
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session store unavailable"})
	}
	h.logger.Error("request_failed", slog.String("error", err.Error()))
	return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

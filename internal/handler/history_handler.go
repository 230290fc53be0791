package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/interview-trainer-api/internal/service"
	"github.com/noah-isme/interview-trainer-api/internal/utils"
)

// HistoryHandler exposes completed interviews over the JSON API.
type HistoryHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewHistoryHandler constructs a history handler.
func NewHistoryHandler(service service.InterviewService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// Register wires history routes. The router must already authenticate the caller.
func (h *HistoryHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.detail)
}

func (h *HistoryHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	page, err := parseQueryInt(c, "page")
	if err != nil || page < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil || pageSize < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	history, err := h.service.History(c.UserContext(), userID, page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list interviews")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list interviews")
	}

	return utils.OK(c, history.Items, "interviews retrieved", history.Pagination)
}

func (h *HistoryHandler) detail(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid interview id")
	}

	detail, err := h.service.Detail(c.UserContext(), userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrInterviewNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "interview not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load interview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load interview")
	}

	return utils.SendSuccess(c, "interview retrieved", detail)
}

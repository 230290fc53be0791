package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/interview-trainer-api/internal/dto"
	"github.com/noah-isme/interview-trainer-api/internal/interview"
	"github.com/noah-isme/interview-trainer-api/internal/middleware"
	"github.com/noah-isme/interview-trainer-api/internal/service"
	"github.com/noah-isme/interview-trainer-api/internal/utils"
)

// Notices shown while interviewing.
const (
	NoticeInvalidRole       = "Please choose a valid role."
	NoticeStartFailed       = "Error starting interview. Please try again."
	NoticeSubmitFailed      = "Error submitting answer. Please try again."
	NoticeCompleteFailed    = "Error completing interview. Please try again."
	NoticeStaleSubmission   = "That question was already answered."
	NoticeAnswerTooLong     = "Your answer is too long."
	NoticeNoActiveInterview = "No interview in progress."
)

// InterviewHandler serves the interview pages.
type InterviewHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewInterviewHandler constructs an interview handler.
func NewInterviewHandler(service service.InterviewService, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register wires the interview routes. Every route requires a logged in user.
func (h *InterviewHandler) Register(router fiber.Router) {
	guard := middleware.AuthOptions{RedirectTo: "/"}
	router.Post("/start_interview", middleware.WithAuth(h.start, guard))
	router.Get("/interview", middleware.WithAuth(h.question, guard))
	router.Post("/submit_answer", middleware.WithAuth(h.submit, guard))
	router.Get("/complete_interview", middleware.WithAuth(h.complete, guard))
}

func (h *InterviewHandler) start(c *fiber.Ctx) error {
	var payload dto.StartInterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return redirectWithNotice(c, "/dashboard", NoticeInvalidRole)
	}

	session := middleware.CurrentSession(c)
	started, err := h.service.Start(c.UserContext(), session.UserID, payload.Role)
	if err != nil {
		if errors.Is(err, interview.ErrInvalidRole) {
			return redirectWithNotice(c, "/dashboard", NoticeInvalidRole)
		}
		requestLogger(h.logger, c).Error().Err(err).Str("role", payload.Role).Msg("failed to start interview")
		return redirectWithNotice(c, "/dashboard", NoticeStartFailed)
	}

	session.SetInterview(started)
	return c.Redirect("/interview", fiber.StatusFound)
}

func (h *InterviewHandler) question(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	active, ok := session.ActiveInterview()
	if !ok {
		return c.Redirect("/", fiber.StatusFound)
	}

	view, err := h.service.Question(active)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewComplete) {
			return c.Redirect("/complete_interview", fiber.StatusFound)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render question")
		return redirectWithNotice(c, "/dashboard", NoticeStartFailed)
	}

	return utils.SendView(c, "interview", view, session.PopNotices())
}

func (h *InterviewHandler) submit(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	active, ok := session.ActiveInterview()
	if !ok {
		return redirectWithNotice(c, "/interview", NoticeNoActiveInterview)
	}

	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return redirectWithNotice(c, "/interview", NoticeSubmitFailed)
	}

	next, err := h.service.SubmitAnswer(c.UserContext(), active, payload)
	if err != nil {
		logger := requestLogger(h.logger, c)
		switch {
		case isValidationError(err):
			return redirectWithNotice(c, "/interview", NoticeAnswerTooLong)
		case errors.Is(err, interview.ErrInvalidState):
			logger.Warn().Err(err).Msg("rejected out of sequence answer")
			return redirectWithNotice(c, "/interview", NoticeStaleSubmission)
		case interview.IsRetryable(err):
			logger.Warn().Err(err).Uint("user_id", active.UserID).Msg("answer not recorded; user may retry")
			return redirectWithNotice(c, "/interview", NoticeSubmitFailed)
		default:
			logger.Error().Err(err).Uint("user_id", active.UserID).Msg("failed to submit answer")
			return redirectWithNotice(c, "/interview", NoticeSubmitFailed)
		}
	}

	session.SetInterview(next)
	return c.Redirect("/interview", fiber.StatusFound)
}

func (h *InterviewHandler) complete(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	active, ok := session.ActiveInterview()
	if !ok {
		return redirectWithNotice(c, "/dashboard", NoticeCompleteFailed)
	}

	_, result, err := h.service.Complete(c.UserContext(), active)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", active.UserID).Msg("failed to complete interview")
		return redirectWithNotice(c, "/dashboard", NoticeCompleteFailed)
	}

	session.ClearInterview()
	return utils.SendView(c, "interview completed", result, session.PopNotices())
}

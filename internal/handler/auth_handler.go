package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/interview-trainer-api/internal/dto"
	"github.com/noah-isme/interview-trainer-api/internal/interview"
	"github.com/noah-isme/interview-trainer-api/internal/middleware"
	"github.com/noah-isme/interview-trainer-api/internal/service"
	"github.com/noah-isme/interview-trainer-api/internal/utils"
)

// Notices shown on the browser pages.
const (
	NoticeDuplicateAccount   = "Username or email already exists!"
	NoticeRegistered         = "Registration successful! Please login."
	NoticeRegistrationFailed = "Registration failed! Please try again."
	NoticeInvalidCredentials = "Invalid credentials!"
)

// AuthHandler serves the signup, login, dashboard and logout pages.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the browser auth routes. limiter guards the credential endpoints and may be nil.
func (h *AuthHandler) Register(router fiber.Router, limiter fiber.Handler) {
	if limiter == nil {
		limiter = passThrough
	}

	router.Get("/", h.home)
	router.Get("/signup", h.signupPage)
	router.Post("/signup", limiter, h.signup)
	router.Post("/login", limiter, h.login)
	router.Get("/dashboard", middleware.WithAuth(h.dashboard, middleware.AuthOptions{RedirectTo: "/"}))
	router.Get("/logout", h.logout)
}

// RegisterAPI wires the token exchange endpoint.
func (h *AuthHandler) RegisterAPI(router fiber.Router, limiter fiber.Handler) {
	if limiter == nil {
		limiter = passThrough
	}
	router.Post("/token", limiter, h.token)
}

func (h *AuthHandler) home(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session.Authenticated() {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return utils.SendView(c, "login", dto.LoginView{Page: "login"}, session.PopNotices())
}

func (h *AuthHandler) signupPage(c *fiber.Ctx) error {
	return utils.SendView(c, "signup", dto.LoginView{Page: "signup"}, middleware.CurrentSession(c).PopNotices())
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return redirectWithNotice(c, "/signup", NoticeRegistrationFailed)
	}

	if _, err := h.service.Signup(c.UserContext(), payload); err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateAccount):
			return redirectWithNotice(c, "/signup", NoticeDuplicateAccount)
		case isValidationError(err), errors.Is(err, service.ErrInvalidUsername):
			return redirectWithNotice(c, "/signup", NoticeRegistrationFailed)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register user")
			return redirectWithNotice(c, "/signup", NoticeRegistrationFailed)
		}
	}

	return redirectWithNotice(c, "/", NoticeRegistered)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return redirectWithNotice(c, "/", NoticeInvalidCredentials)
	}

	user, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to log in user")
		}
		return redirectWithNotice(c, "/", NoticeInvalidCredentials)
	}

	session := middleware.CurrentSession(c)
	session.Renew(uuid.NewString())
	session.SetUser(user.ID, user.Username)
	return c.Redirect("/dashboard", fiber.StatusFound)
}

func (h *AuthHandler) dashboard(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)

	roles := interview.Roles()
	views := make([]dto.RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, dto.RoleView{Key: string(role.Key), Label: role.Label, Focus: role.Focus})
	}

	return utils.SendView(c, "dashboard", dto.DashboardView{Username: session.Username, Roles: views}, session.PopNotices())
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	middleware.CurrentSession(c).Clear()
	return c.Redirect("/", fiber.StatusFound)
}

func (h *AuthHandler) token(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, err := h.service.IssueToken(c.UserContext(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to issue token")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to issue token")
	}

	return utils.SendSuccess(c, "token issued", token)
}

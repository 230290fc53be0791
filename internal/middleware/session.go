package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/interview-trainer-api/internal/repository"
	"github.com/noah-isme/interview-trainer-api/internal/utils"
)

const sessionLocalsKey = "web_session"

// SessionConfig customises the browser session middleware.
type SessionConfig struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
	Logger     zerolog.Logger
}

// Session loads the server-side session named by the session cookie, exposes it to
// handlers and writes it back once the handler chain returns.
func Session(store repository.SessionRepository, cfg SessionConfig) fiber.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "trainer_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	logger := cfg.Logger.With().Str("component", "session_middleware").Logger()

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var session *repository.WebSession
		if id := c.Cookies(cfg.CookieName); id != "" {
			loaded, err := store.Get(ctx, id)
			switch {
			case err == nil:
				session = loaded
			case errors.Is(err, repository.ErrSessionNotFound):
			default:
				logger.Error().Err(err).Str("correlation_id", GetCorrelationID(c)).Msg("failed to load session")
				return utils.SendError(c, fiber.StatusServiceUnavailable, "session store unavailable")
			}
		}
		if session == nil {
			session = repository.NewWebSession(uuid.NewString())
		}

		c.Locals(sessionLocalsKey, session)
		if session.Authenticated() {
			c.Locals("user_id", session.UserID)
		}

		err := c.Next()

		if replaced := session.ReplacedID(); replaced != "" {
			if delErr := store.Delete(ctx, replaced); delErr != nil {
				logger.Warn().Err(delErr).Msg("failed to delete replaced session")
			}
		}

		switch {
		case session.Cleared():
			if delErr := store.Delete(ctx, session.ID); delErr != nil {
				logger.Warn().Err(delErr).Msg("failed to delete session")
			}
			c.ClearCookie(cfg.CookieName)
		case session.Dirty():
			if saveErr := store.Save(ctx, session); saveErr != nil {
				logger.Error().Err(saveErr).Str("correlation_id", GetCorrelationID(c)).Msg("failed to save session")
				return saveErr
			}
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    session.ID,
				Path:     "/",
				Expires:  time.Now().Add(cfg.TTL),
				Secure:   cfg.Secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		return err
	}
}

// CurrentSession returns the browser session bound to the request. Outside the
// Session middleware a detached empty session is returned.
func CurrentSession(c *fiber.Ctx) *repository.WebSession {
	if session, ok := c.Locals(sessionLocalsKey).(*repository.WebSession); ok && session != nil {
		return session
	}
	session := repository.NewWebSession("")
	c.Locals(sessionLocalsKey, session)
	return session
}

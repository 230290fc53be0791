package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/interview-trainer-api/internal/handler"
	"github.com/noah-isme/interview-trainer-api/internal/middleware"
	"github.com/noah-isme/interview-trainer-api/internal/models"
	"github.com/noah-isme/interview-trainer-api/internal/repository"
	"github.com/noah-isme/interview-trainer-api/internal/service"
)

const testJWTSecret = "handler-test-secret"

type questionStub struct {
	questions []string
}

func (s *questionStub) GenerateQuestions(context.Context, string) ([]string, error) {
	return append([]string(nil), s.questions...), nil
}

type feedbackStub struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (s *feedbackStub) GenerateFeedback(context.Context, string, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no scripted feedback")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *feedbackStub) script(replies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

func (s *feedbackStub) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type testServer struct {
	app      *fiber.App
	feedback *feedbackStub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Interview{}, &models.InterviewResponse{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	redisServer := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	log := zerolog.Nop()
	validate := validator.New()

	questions := &questionStub{questions: []string{"What is a closure?", "Explain the GIL."}}
	feedback := &feedbackStub{}

	interviewRepo := repository.NewInterviewRepository(db)
	authService := service.NewAuthService(repository.NewUserRepository(db), validate, testJWTSecret, time.Hour, log)
	interviewService := service.NewInterviewService(questions, feedback, interviewRepo, nil, validate, service.InterviewServiceConfig{
		TimeLimit: 30 * time.Minute,
	}, log)

	sessions := repository.NewSessionRepository(redisClient, "test:session", time.Hour)

	app := fiber.New()
	web := app.Group("", middleware.Session(sessions, middleware.SessionConfig{CookieName: "sid", Logger: log}))

	authHandler := handler.NewAuthHandler(authService, log)
	authHandler.Register(web, nil)
	handler.NewInterviewHandler(interviewService, log).Register(web)

	api := app.Group("/api/v1")
	authHandler.RegisterAPI(api.Group("/auth"), nil)
	handler.NewHistoryHandler(interviewService, log).Register(api.Group("/interviews", middleware.JWTProtected(testJWTSecret)))

	return &testServer{app: app, feedback: feedback}
}

// browser replays the session cookie between requests.
type browser struct {
	t      *testing.T
	server *testServer
	cookie string
}

func (s *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, server: s}
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	if b.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: b.cookie})
	}
	resp, err := b.server.app.Test(req, -1)
	require.NoError(b.t, err)

	for _, cookie := range resp.Cookies() {
		if cookie.Name != "sid" {
			continue
		}
		if cookie.Value == "" || cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())) {
			b.cookie = ""
		} else {
			b.cookie = cookie.Value
		}
	}
	return resp
}

func (b *browser) signupAndLogin(username, email, password string) {
	b.t.Helper()
	resp := b.post("/signup", url.Values{"username": {username}, "email": {email}, "password": {password}})
	requireRedirect(b.t, resp, "/")
	// Consume the registration notice.
	decodeEnvelope(b.t, b.get("/"))
	resp = b.post("/login", url.Values{"email": {email}, "password": {password}})
	requireRedirect(b.t, resp, "/dashboard")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Notices []string        `json:"notices"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload envelope
	require.NoError(t, json.Unmarshal(body, &payload), string(body))
	return payload
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}

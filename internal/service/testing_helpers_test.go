package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/interview-trainer-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

type questionSourceStub struct {
	questions []string
	err       error
}

func (s *questionSourceStub) GenerateQuestions(ctx context.Context, role string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.questions...), nil
}

type feedbackSourceStub struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (s *feedbackSourceStub) GenerateFeedback(ctx context.Context, question, answer string) (string, error) {
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

type stepClock struct {
	current time.Time
}

func (c *stepClock) Now() time.Time {
	return c.current
}

func (c *stepClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// QuestionSource produces the ordered question list for a role.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, role string) ([]string, error)
}

// FeedbackSource grades an answer, returning free-form feedback with an embedded score.
type FeedbackSource interface {
	GenerateFeedback(ctx context.Context, question, answer string) (string, error)
}

// Gateway durably stores interviews and their responses.
type Gateway interface {
	WithinTransaction(ctx context.Context, fn func(Gateway) error) error
	CreateInterview(ctx context.Context, userID uint, role Role, questions []string) (uint, error)
	AppendResponse(ctx context.Context, interviewID uint, record QuestionRecord) error
	FinalizeInterview(ctx context.Context, interviewID uint, score, durationSeconds int, completedAt time.Time) error
}

// Result is the outcome of a completed interview.
type Result struct {
	InterviewID uint             `json:"interview_id"`
	UserID      uint             `json:"user_id"`
	Role        Role             `json:"role"`
	Score       int              `json:"score"`
	Duration    int              `json:"duration"`
	CompletedAt time.Time        `json:"completed_at"`
	Responses   []QuestionRecord `json:"responses"`
}

// Engine drives interview sessions through their lifecycle.
type Engine struct {
	questions QuestionSource
	feedback  FeedbackSource
	gateway   Gateway
	logger    zerolog.Logger
	now       func() time.Time
	limit     time.Duration
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTimeLimit overrides the advisory time budget stamped on new sessions.
func WithTimeLimit(limit time.Duration) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// NewEngine wires an engine to its collaborators.
func NewEngine(questions QuestionSource, feedback FeedbackSource, gateway Gateway, logger zerolog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		questions: questions,
		feedback:  feedback,
		gateway:   gateway,
		logger:    logger.With().Str("component", "interview_engine").Logger(),
		now:       time.Now,
		limit:     SessionLimit,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Start generates questions for the role and opens a new session.
func (e *Engine) Start(ctx context.Context, userID uint, role string) (Session, error) {
	info, err := ParseRole(role)
	if err != nil {
		return Session{}, err
	}

	questions, err := e.questions.GenerateQuestions(ctx, info.Label)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	cleaned := make([]string, 0, len(questions))
	for _, question := range questions {
		if trimmed := strings.TrimSpace(question); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return Session{}, ErrNoQuestionsGenerated
	}

	return Session{
		UserID:       userID,
		Role:         info.Key,
		StartedAt:    e.now(),
		Questions:    cleaned,
		CurrentIndex: 0,
		Responses:    []QuestionRecord{},
		Status:       StatusInProgress,
		LimitSeconds: int(e.limit / time.Second),
	}, nil
}

type submitOptions struct {
	expectIndex *int
}

// SubmitOption customises a single submission.
type SubmitOption func(*submitOptions)

// ExpectIndex rejects the submission unless it answers the question at index.
func ExpectIndex(index int) SubmitOption {
	return func(o *submitOptions) {
		o.expectIndex = &index
	}
}

// SubmitAnswer grades the answer to the current question and records it. The input
// session is never modified; on any error the caller keeps its previous state.
func (e *Engine) SubmitAnswer(ctx context.Context, session Session, answer string, opts ...SubmitOption) (Session, error) {
	var options submitOptions
	for _, opt := range opts {
		opt(&options)
	}

	if !session.InProgress() {
		return session, fmt.Errorf("%w: interview is not in progress", ErrInvalidState)
	}
	question, err := session.CurrentQuestion()
	if err != nil {
		return session, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if options.expectIndex != nil && *options.expectIndex != session.CurrentIndex {
		return session, fmt.Errorf("%w: answer targets question %d but question %d is current", ErrInvalidState, *options.expectIndex, session.CurrentIndex)
	}

	feedback, err := e.feedback.GenerateFeedback(ctx, question, answer)
	if err != nil {
		return session, fmt.Errorf("%w: %w: %w", ErrFeedbackUnavailable, ErrGeneration, err)
	}

	record := QuestionRecord{
		Question: question,
		Answer:   answer,
		Feedback: feedback,
	}
	if score, parseErr := ParseScore(feedback); parseErr == nil {
		record.Score = &score
	} else {
		e.logger.Warn().Err(parseErr).
			Uint("user_id", session.UserID).
			Int("question_index", session.CurrentIndex).
			Msg("feedback score unreadable; excluded from aggregate")
	}

	interviewID := session.InterviewID
	err = e.gateway.WithinTransaction(ctx, func(tx Gateway) error {
		if interviewID == 0 {
			id, createErr := tx.CreateInterview(ctx, session.UserID, session.Role, session.Questions)
			if createErr != nil {
				return createErr
			}
			interviewID = id
		}
		return tx.AppendResponse(ctx, interviewID, record)
	})
	if err != nil {
		return session, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	next := session.clone()
	next.InterviewID = interviewID
	next.Responses = append(next.Responses, record)
	next.CurrentIndex++
	return next, nil
}

// Complete scores whatever has been answered and finalizes the stored interview.
// Completing before every question is answered is allowed.
func (e *Engine) Complete(ctx context.Context, session Session) (Session, Result, error) {
	if !session.InProgress() {
		return session, Result{}, fmt.Errorf("%w: interview is not in progress", ErrInvalidState)
	}

	completedAt := e.now()
	score := session.Score()
	duration := session.Elapsed(completedAt)

	interviewID := session.InterviewID
	err := e.gateway.WithinTransaction(ctx, func(tx Gateway) error {
		if interviewID == 0 {
			id, createErr := tx.CreateInterview(ctx, session.UserID, session.Role, session.Questions)
			if createErr != nil {
				return createErr
			}
			interviewID = id
		}
		return tx.FinalizeInterview(ctx, interviewID, score, duration, completedAt)
	})
	if err != nil {
		return session, Result{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	next := session.clone()
	next.InterviewID = interviewID
	next.Status = StatusCompleted

	return next, Result{
		InterviewID: interviewID,
		UserID:      session.UserID,
		Role:        session.Role,
		Score:       score,
		Duration:    duration,
		CompletedAt: completedAt,
		Responses:   next.Responses,
	}, nil
}

// IsRetryable reports whether err leaves the session intact so the user can retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGeneration) || errors.Is(err, ErrPersistence)
}

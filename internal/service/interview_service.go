package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/interview-trainer-api/internal/dto"
	"github.com/noah-isme/interview-trainer-api/internal/interview"
	"github.com/noah-isme/interview-trainer-api/internal/observability"
	"github.com/noah-isme/interview-trainer-api/internal/repository"
)

// ErrInterviewNotFound indicates the interview does not exist or belongs to another user.
var ErrInterviewNotFound = errors.New("interview not found")

// InterviewService drives interview sessions for the web layer and serves interview history.
type InterviewService interface {
	Start(ctx context.Context, userID uint, role string) (interview.Session, error)
	Question(session interview.Session) (dto.QuestionView, error)
	SubmitAnswer(ctx context.Context, session interview.Session, req dto.SubmitAnswerRequest) (interview.Session, error)
	Complete(ctx context.Context, session interview.Session) (interview.Session, dto.ResultView, error)
	History(ctx context.Context, userID uint, page, pageSize int) (dto.InterviewHistoryResponse, error)
	Detail(ctx context.Context, userID, interviewID uint) (dto.InterviewDetail, error)
}

// InterviewServiceConfig tunes the interview service.
type InterviewServiceConfig struct {
	TimeLimit time.Duration
	Clock     func() time.Time
}

type interviewService struct {
	engine    *interview.Engine
	repo      repository.InterviewRepository
	events    *EventPublisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewInterviewService constructs the interview service. events may be nil.
func NewInterviewService(questions interview.QuestionSource, feedback interview.FeedbackSource, repo repository.InterviewRepository, events *EventPublisher, validate *validator.Validate, cfg InterviewServiceConfig, logger zerolog.Logger) InterviewService {
	opts := []interview.Option{interview.WithTimeLimit(cfg.TimeLimit)}
	if cfg.Clock != nil {
		opts = append(opts, interview.WithClock(cfg.Clock))
	}

	return &interviewService{
		engine:    interview.NewEngine(questions, feedback, repo, logger, opts...),
		repo:      repo,
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "interview_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/interview-trainer-api/internal/service/interview"),
	}
}

func (s *interviewService) Start(ctx context.Context, userID uint, role string) (interview.Session, error) {
	spanCtx, span := s.tracer.Start(ctx, "interview.start", trace.WithAttributes(
		attribute.Int64("interview.user_id", int64(userID)),
		attribute.String("interview.role", role),
	))
	defer span.End()

	session, err := s.engine.Start(spanCtx, userID, role)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		roleLabel := role
		outcome := "error"
		if errors.Is(err, interview.ErrInvalidRole) {
			roleLabel = "unknown"
			outcome = "invalid_role"
		} else if errors.Is(err, interview.ErrNoQuestionsGenerated) {
			outcome = "no_questions"
		}
		observability.InterviewsStarted().WithLabelValues(roleLabel, outcome).Inc()
		return interview.Session{}, err
	}

	observability.InterviewsStarted().WithLabelValues(string(session.Role), "success").Inc()
	s.logger.Info().
		Uint("user_id", userID).
		Str("role", string(session.Role)).
		Int("questions", len(session.Questions)).
		Msg("interview started")
	return session, nil
}

func (s *interviewService) Question(session interview.Session) (dto.QuestionView, error) {
	if !session.InProgress() {
		return dto.QuestionView{}, interview.ErrInvalidState
	}
	question, err := session.CurrentQuestion()
	if err != nil {
		return dto.QuestionView{}, err
	}

	return dto.QuestionView{
		Role:           session.Role.Label(),
		Question:       question,
		QuestionIndex:  session.CurrentIndex,
		QuestionNumber: session.CurrentIndex + 1,
		TotalQuestions: len(session.Questions),
		TimeRemaining:  session.TimeRemaining(s.engine.Now()),
	}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, session interview.Session, req dto.SubmitAnswerRequest) (interview.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return session, err
	}

	var opts []interview.SubmitOption
	if raw := strings.TrimSpace(req.QuestionIndex); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return session, fmt.Errorf("%w: malformed question index %q", interview.ErrInvalidState, raw)
		}
		opts = append(opts, interview.ExpectIndex(index))
	}

	spanCtx, span := s.tracer.Start(ctx, "interview.submit_answer", trace.WithAttributes(
		attribute.Int64("interview.user_id", int64(session.UserID)),
		attribute.String("interview.role", string(session.Role)),
		attribute.Int("interview.question_index", session.CurrentIndex),
	))
	defer span.End()

	next, err := s.engine.SubmitAnswer(spanCtx, session, req.Answer, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.AnswersSubmitted().WithLabelValues(string(session.Role), submitOutcome(err)).Inc()
		return session, err
	}

	observability.AnswersSubmitted().WithLabelValues(string(session.Role), "success").Inc()
	if last := next.Responses[len(next.Responses)-1]; last.Score == nil {
		observability.ScoreParseFailures().Inc()
	}
	return next, nil
}

func submitOutcome(err error) string {
	switch {
	case errors.Is(err, interview.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, interview.ErrFeedbackUnavailable):
		return "feedback_unavailable"
	case errors.Is(err, interview.ErrPersistence):
		return "persistence_error"
	default:
		return "error"
	}
}

func (s *interviewService) Complete(ctx context.Context, session interview.Session) (interview.Session, dto.ResultView, error) {
	spanCtx, span := s.tracer.Start(ctx, "interview.complete", trace.WithAttributes(
		attribute.Int64("interview.user_id", int64(session.UserID)),
		attribute.String("interview.role", string(session.Role)),
		attribute.Int("interview.answered", len(session.Responses)),
	))
	defer span.End()

	next, result, err := s.engine.Complete(spanCtx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return session, dto.ResultView{}, err
	}

	finished := strconv.FormatBool(next.Answered())
	observability.InterviewsCompleted().WithLabelValues(string(result.Role), finished).Inc()
	observability.InterviewScore().WithLabelValues(string(result.Role)).Observe(float64(result.Score))
	span.SetAttributes(attribute.Int("interview.score", result.Score))

	s.events.PublishCompleted(spanCtx, result)

	s.logger.Info().
		Uint("user_id", result.UserID).
		Uint("interview_id", result.InterviewID).
		Int("score", result.Score).
		Int("duration", result.Duration).
		Msg("interview completed")

	return next, dto.NewResultView(result), nil
}

func (s *interviewService) History(ctx context.Context, userID uint, page, pageSize int) (dto.InterviewHistoryResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 50 {
		pageSize = 50
	}

	items, total, err := s.repo.ListCompletedByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return dto.InterviewHistoryResponse{}, err
	}

	summaries := make([]dto.InterviewSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, dto.NewInterviewSummary(item))
	}

	return dto.InterviewHistoryResponse{
		Items:      summaries,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *interviewService) Detail(ctx context.Context, userID, interviewID uint) (dto.InterviewDetail, error) {
	record, err := s.repo.GetWithResponses(ctx, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InterviewDetail{}, ErrInterviewNotFound
		}
		return dto.InterviewDetail{}, err
	}
	if record.UserID != userID {
		return dto.InterviewDetail{}, ErrInterviewNotFound
	}

	return dto.NewInterviewDetail(record), nil
}

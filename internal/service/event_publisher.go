package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/interview-trainer-api/internal/interview"
	"github.com/noah-isme/interview-trainer-api/internal/middleware"
	"github.com/noah-isme/interview-trainer-api/internal/observability"
)

// EventInterviewCompleted is the type of the event emitted when an interview is finalized.
const EventInterviewCompleted = "interview.completed"

// InterviewEvent is broadcast to other services when an interview finishes.
type InterviewEvent struct {
	Type          string    `json:"type"`
	Source        string    `json:"source"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	InterviewID   uint      `json:"interview_id"`
	UserID        uint      `json:"user_id"`
	Role          string    `json:"role"`
	Score         int       `json:"score"`
	Duration      int       `json:"duration"`
	Answered      int       `json:"answered"`
	CompletedAt   time.Time `json:"completed_at"`
	SentAt        time.Time `json:"sent_at"`
}

// EventPublisher fans interview events out to redis pub/sub and NATS. Either transport may be nil.
type EventPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	nodeID       string
	logger       zerolog.Logger
}

// NewEventPublisher constructs a publisher. channelBase such as "trainer:interviews" yields the
// redis channel "trainer:interviews:completed" and the NATS subject "trainer.interviews.completed".
func NewEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) *EventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":completed"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".completed"
	}

	return &EventPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		nodeID:       uuid.NewString(),
		logger:       logger.With().Str("component", "event_publisher").Logger(),
	}
}

// RedisChannel returns the redis pub/sub channel events are sent to.
func (p *EventPublisher) RedisChannel() string {
	return p.redisChannel
}

// NATSSubject returns the NATS subject events are sent to.
func (p *EventPublisher) NATSSubject() string {
	return p.natsSubject
}

// PublishCompleted announces a finished interview. Delivery failures are logged and counted only.
func (p *EventPublisher) PublishCompleted(ctx context.Context, result interview.Result) {
	if p == nil {
		return
	}

	event := InterviewEvent{
		Type:          EventInterviewCompleted,
		Source:        p.nodeID,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		InterviewID:   result.InterviewID,
		UserID:        result.UserID,
		Role:          string(result.Role),
		Score:         result.Score,
		Duration:      result.Duration,
		Answered:      len(result.Responses),
		CompletedAt:   result.CompletedAt.UTC(),
		SentAt:        time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode interview event")
		return
	}

	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("channel", p.redisChannel).Msg("failed to publish interview event to redis")
			observability.EventsPublished().WithLabelValues("redis", "error").Inc()
		} else {
			observability.EventsPublished().WithLabelValues("redis", "success").Inc()
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		msg := nats.NewMsg(p.natsSubject)
		msg.Data = payload
		if event.CorrelationID != "" {
			msg.Header.Set(middleware.CorrelationHeader, event.CorrelationID)
		}
		if err := p.nats.PublishMsg(msg); err != nil {
			p.logger.Warn().Err(err).Str("subject", p.natsSubject).Msg("failed to publish interview event to nats")
			observability.EventsPublished().WithLabelValues("nats", "error").Inc()
		} else {
			observability.EventsPublished().WithLabelValues("nats", "success").Inc()
		}
	}
}

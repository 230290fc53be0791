package interview

import (
	"time"
)

// SessionLimit is the advisory time budget of one interview.
const SessionLimit = 30 * time.Minute

// Status enumerates the lifecycle states of a session.
type Status string

// Session lifecycle states.
const (
	StatusNotStarted Status = ""
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// QuestionRecord is one answered question with its feedback.
type QuestionRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Score    *int   `json:"parsed_score,omitempty"`
}

// Session is the mutable progress of a single interview attempt. It is a plain value:
// operations return an updated copy and never modify the receiver.
type Session struct {
	UserID       uint             `json:"user_id"`
	Role         Role             `json:"current_role"`
	StartedAt    time.Time        `json:"interview_start_time"`
	Questions    []string         `json:"questions"`
	CurrentIndex int              `json:"current_question"`
	Responses    []QuestionRecord `json:"responses"`
	InterviewID  uint             `json:"interview_id,omitempty"`
	Status       Status           `json:"status"`
	LimitSeconds int              `json:"limit_seconds,omitempty"`
}

// InProgress reports whether the session accepts answers or completion.
func (s Session) InProgress() bool {
	return s.Status == StatusInProgress
}

// Answered reports whether every question has a recorded response.
func (s Session) Answered() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// CurrentQuestion returns the question awaiting an answer.
func (s Session) CurrentQuestion() (string, error) {
	if s.CurrentIndex < 0 || s.Answered() {
		return "", ErrInterviewComplete
	}
	return s.Questions[s.CurrentIndex], nil
}

// Elapsed returns the whole seconds since the session started, never negative.
func (s Session) Elapsed(now time.Time) int {
	elapsed := int(now.Sub(s.StartedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// TimeRemaining returns the advisory seconds left before the time limit, never negative.
func (s Session) TimeRemaining(now time.Time) int {
	limit := s.LimitSeconds
	if limit <= 0 {
		limit = int(SessionLimit / time.Second)
	}
	remaining := limit - s.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Score is the aggregate of every parsed response score.
func (s Session) Score() int {
	return TotalScore(s.Responses)
}

func (s Session) clone() Session {
	next := s
	next.Questions = append([]string(nil), s.Questions...)
	next.Responses = append([]QuestionRecord(nil), s.Responses...)
	return next
}

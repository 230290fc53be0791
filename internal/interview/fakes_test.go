package interview

import (
	"context"
	"errors"
	"time"
)

type stubQuestions struct {
	questions []string
	err       error
	calls     []string
}

func (s *stubQuestions) GenerateQuestions(_ context.Context, role string) ([]string, error) {
	s.calls = append(s.calls, role)
	if s.err != nil {
		return nil, s.err
	}
	return s.questions, nil
}

type stubFeedback struct {
	replies []string
	err     error
	calls   int
}

func (s *stubFeedback) GenerateFeedback(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

type storedInterview struct {
	ID          uint
	UserID      uint
	Role        Role
	Questions   []string
	Score       int
	Duration    int
	CompletedAt *time.Time
}

type memoryGateway struct {
	interviews []storedInterview
	responses  map[uint][]QuestionRecord
	nextID     uint
	createErr  error
	appendErr  error
	finalErr   error
}

func newMemoryGateway() *memoryGateway {
	return &memoryGateway{responses: map[uint][]QuestionRecord{}}
}

func (g *memoryGateway) WithinTransaction(ctx context.Context, fn func(Gateway) error) error {
	interviews := append([]storedInterview(nil), g.interviews...)
	responses := make(map[uint][]QuestionRecord, len(g.responses))
	for id, records := range g.responses {
		responses[id] = append([]QuestionRecord(nil), records...)
	}
	nextID := g.nextID

	if err := fn(g); err != nil {
		g.interviews = interviews
		g.responses = responses
		g.nextID = nextID
		return err
	}
	return nil
}

func (g *memoryGateway) CreateInterview(_ context.Context, userID uint, role Role, questions []string) (uint, error) {
	if g.createErr != nil {
		return 0, g.createErr
	}
	g.nextID++
	g.interviews = append(g.interviews, storedInterview{ID: g.nextID, UserID: userID, Role: role, Questions: questions})
	return g.nextID, nil
}

func (g *memoryGateway) AppendResponse(_ context.Context, interviewID uint, record QuestionRecord) error {
	if g.appendErr != nil {
		return g.appendErr
	}
	g.responses[interviewID] = append(g.responses[interviewID], record)
	return nil
}

func (g *memoryGateway) FinalizeInterview(_ context.Context, interviewID uint, score, duration int, completedAt time.Time) error {
	if g.finalErr != nil {
		return g.finalErr
	}
	for i := range g.interviews {
		if g.interviews[i].ID == interviewID {
			g.interviews[i].Score = score
			g.interviews[i].Duration = duration
			at := completedAt
			g.interviews[i].CompletedAt = &at
			return nil
		}
	}
	return errors.New("interview not found")
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

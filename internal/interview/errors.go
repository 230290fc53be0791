package interview

import "errors"

var (
	// ErrInvalidRole indicates the requested role is not part of the catalog.
	ErrInvalidRole = errors.New("invalid role")
	// ErrNoQuestionsGenerated indicates the question source returned an empty list.
	ErrNoQuestionsGenerated = errors.New("no questions generated")
	// ErrInvalidState indicates an operation was called out of sequence.
	ErrInvalidState = errors.New("invalid interview state")
	// ErrInterviewComplete indicates every question has been answered.
	ErrInterviewComplete = errors.New("interview complete")
	// ErrGeneration wraps failures of the AI collaborators.
	ErrGeneration = errors.New("generation failed")
	// ErrFeedbackUnavailable indicates the feedback source failed for a submission.
	ErrFeedbackUnavailable = errors.New("feedback unavailable")
	// ErrPersistence wraps failures of the persistence gateway.
	ErrPersistence = errors.New("persistence failed")
	// ErrScoreParse indicates feedback text carried no readable score.
	ErrScoreParse = errors.New("score not found in feedback")
	// ErrScoreOutOfRange indicates a parsed score fell outside [MinScore, MaxScore].
	ErrScoreOutOfRange = errors.New("score out of range")
)

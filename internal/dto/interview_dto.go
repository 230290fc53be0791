package dto

import (
	"time"

	"github.com/noah-isme/interview-trainer-api/internal/interview"
	"github.com/noah-isme/interview-trainer-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta derives page counts from totals.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}

// StartInterviewRequest selects the role to interview for.
type StartInterviewRequest struct {
	Role string `json:"role" form:"role" validate:"required"`
}

// SubmitAnswerRequest carries one answer. QuestionIndex, when present, names the
// zero-based question the client displayed.
type SubmitAnswerRequest struct {
	Answer        string `json:"answer" form:"answer" validate:"max=10000"`
	QuestionIndex string `json:"question_index" form:"question_index"`
}

// QuestionView is the current question page.
type QuestionView struct {
	Role           string `json:"role"`
	Question       string `json:"question"`
	QuestionIndex  int    `json:"question_index"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	TimeRemaining  int    `json:"time_remaining"`
}

// ResponseView is one answered question.
type ResponseView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Score    *int   `json:"score"`
}

// ResultView is rendered when an interview completes.
type ResultView struct {
	InterviewID uint           `json:"interview_id"`
	Role        string         `json:"role"`
	Score       int            `json:"score"`
	Duration    int            `json:"duration"`
	CompletedAt time.Time      `json:"completed_at"`
	Responses   []ResponseView `json:"responses"`
}

// NewResultView converts an engine result into its view.
func NewResultView(result interview.Result) ResultView {
	responses := make([]ResponseView, 0, len(result.Responses))
	for _, record := range result.Responses {
		responses = append(responses, ResponseView{
			Question: record.Question,
			Answer:   record.Answer,
			Feedback: record.Feedback,
			Score:    record.Score,
		})
	}
	return ResultView{
		InterviewID: result.InterviewID,
		Role:        result.Role.Label(),
		Score:       result.Score,
		Duration:    result.Duration,
		CompletedAt: result.CompletedAt,
		Responses:   responses,
	}
}

// InterviewSummary is one row of the interview history.
type InterviewSummary struct {
	ID          uint       `json:"id"`
	Role        string     `json:"role"`
	RoleLabel   string     `json:"role_label"`
	Score       *int       `json:"score"`
	Duration    *int       `json:"duration"`
	CompletedAt *time.Time `json:"completed_at"`
	Questions   int        `json:"questions"`
}

// InterviewHistoryResponse wraps a page of summaries.
type InterviewHistoryResponse struct {
	Items      []InterviewSummary `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// InterviewDetail is a stored interview with its responses.
type InterviewDetail struct {
	InterviewSummary
	QuestionList []string       `json:"question_list"`
	Responses    []ResponseView `json:"responses"`
}

// NewInterviewSummary converts a stored interview.
func NewInterviewSummary(model models.Interview) InterviewSummary {
	return InterviewSummary{
		ID:          model.ID,
		Role:        model.Role,
		RoleLabel:   interview.Role(model.Role).Label(),
		Score:       model.Score,
		Duration:    model.Duration,
		CompletedAt: model.CompletedAt,
		Questions:   len(model.QuestionList()),
	}
}

// NewInterviewDetail converts a stored interview and its responses.
func NewInterviewDetail(model models.Interview) InterviewDetail {
	responses := make([]ResponseView, 0, len(model.Responses))
	for _, response := range model.Responses {
		responses = append(responses, ResponseView{
			Question: response.Question,
			Answer:   response.Answer,
			Feedback: response.Feedback,
			Score:    response.Score,
		})
	}
	return InterviewDetail{
		InterviewSummary: NewInterviewSummary(model),
		QuestionList:     model.QuestionList(),
		Responses:        responses,
	}
}

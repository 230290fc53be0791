package ai

import (
	"fmt"
	"regexp"
	"strings"
)

var questionPrefix = regexp.MustCompile(`^(?:\d+[.)]|[-*•#]+)\s+`)

func questionSystemPrompt() string {
	return "You are a senior technical interviewer. Reply with interview questions only, one per line, " +
		"without commentary, headings or answers."
}

func buildQuestionPrompt(role string, count int) string {
	return fmt.Sprintf("Generate %d interview questions for the role of %s. Format: List of questions only.", count, role)
}

func feedbackSystemPrompt() string {
	return "You are a supportive but rigorous technical interviewer grading a candidate's answer. " +
		"Finish your reply with a final line in exactly this format: Score: X out of 10"
}

func buildFeedbackPrompt(question, answer string) string {
	builder := strings.Builder{}
	builder.WriteString("Question: ")
	builder.WriteString(question)
	builder.WriteString("\nCandidate's Answer: ")
	builder.WriteString(answer)
	builder.WriteString("\nProvide a brief feedback and correct answer for this question and score out of 10.")
	return builder.String()
}

// ParseQuestionList splits a model reply into questions, dropping blank lines and
// leading list numbering or bullets.
func ParseQuestionList(content string) []string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	questions := make([]string, 0, len(lines))
	for _, line := range lines {
		question := strings.TrimSpace(questionPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if question != "" {
			questions = append(questions, question)
		}
	}
	return questions
}

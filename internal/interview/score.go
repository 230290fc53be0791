package interview

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	scoreMarker = "Score:"
	scoreSuffix = "out of"

	// MinScore and MaxScore bound a single response's score.
	MinScore = 0
	MaxScore = 10
)

// ParseScore extracts the integer rating embedded in free-form feedback, e.g.
// "... Score: 7 out of 10 ...". The text between the first "Score:" marker and the
// following "out of" (or the next marker) must be an integer in [MinScore, MaxScore].
func ParseScore(feedback string) (int, error) {
	_, rest, found := strings.Cut(feedback, scoreMarker)
	if !found {
		return 0, ErrScoreParse
	}
	if next := strings.Index(rest, scoreMarker); next >= 0 {
		rest = rest[:next]
	}
	if cut := strings.Index(rest, scoreSuffix); cut >= 0 {
		rest = rest[:cut]
	}

	score, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrScoreParse, strings.TrimSpace(rest))
	}
	if score < MinScore || score > MaxScore {
		return 0, fmt.Errorf("%w: %d", ErrScoreOutOfRange, score)
	}
	return score, nil
}

// TotalScore sums the parsed scores of the records, skipping records without one.
func TotalScore(records []QuestionRecord) int {
	total := 0
	for _, record := range records {
		if record.Score != nil {
			total += *record.Score
		}
	}
	return total
}

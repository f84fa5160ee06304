package quiz

import (
	"math"

	"quiz-client/internal/i18n"
)

// ResultView is the display projection of a SubmissionResult.
type ResultView struct {
	QuizSetID      int64
	TotalQuestions int
	TotalCorrect   int
	Percent        int
	Items          []ResultItem
}

type ResultItem struct {
	QuestionID       int64
	Correct          bool
	CorrectChoiceIDs []int64
}

func NewResultView(result SubmissionResult) ResultView {
	view := ResultView{
		QuizSetID:      result.QuizSetID,
		TotalQuestions: result.TotalQuestions,
		TotalCorrect:   result.TotalCorrect,
		Percent:        Percent(result.TotalCorrect, result.TotalQuestions),
		Items:          make([]ResultItem, 0, len(result.Results)),
	}
	for _, item := range result.Results {
		ids := make([]int64, len(item.CorrectChoiceIDs))
		copy(ids, item.CorrectChoiceIDs)
		view.Items = append(view.Items, ResultItem{
			QuestionID:       item.QuestionID,
			Correct:          item.IsCorrect,
			CorrectChoiceIDs: ids,
		})
	}
	return view
}

// Percent rounds correct/total to the nearest whole percent; 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// ProgressPercent truncates, matching the progress bar shown while answering.
func ProgressPercent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(current) / float64(total) * 100))
}

// Summary renders the headline line, e.g. "정답 2/2 (100%)".
func (v ResultView) Summary(locale string) string {
	return i18n.Tf(locale, "result.summary", v.TotalCorrect, v.TotalQuestions, v.Percent)
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quiz-client/internal/i18n"
	"quiz-client/internal/quiz"
)

const progressWidth = 20

func (a *app) runList(ctx context.Context) error {
	sets, err := a.client.ListQuizSets(ctx)
	if err != nil {
		a.log.Error("list quiz sets failed", zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "list.error"))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}

	if len(sets) == 0 {
		fmt.Fprintln(a.out, i18n.T(a.locale, "list.empty"))
		return nil
	}

	fmt.Fprintln(a.out, i18n.T(a.locale, "list.title"))
	for idx, set := range sets {
		fmt.Fprintln(a.out, i18n.Tf(a.locale, "list.item", idx+1, set.Category, set.Title, set.ID, questionCount(set)))
		if desc := strings.TrimSpace(set.Description); desc != "" {
			fmt.Fprintf(a.out, "   %s\n", desc)
		}
	}
	return nil
}

func (a *app) runShow(ctx context.Context, id int64) error {
	set, err := a.client.GetQuizSet(ctx, id)
	if err != nil {
		a.log.Error("get quiz set failed", zap.Int64("quizset_id", id), zap.Error(err))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}
	list, err := a.client.ListQuestions(ctx, id)
	if err != nil {
		a.log.Error("list questions failed", zap.Int64("quizset_id", id), zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "play.load.error"))
		return nil
	}

	fmt.Fprintln(a.out, i18n.Tf(a.locale, "set.detail", set.ID, set.Title, set.Category))
	if desc := strings.TrimSpace(set.Description); desc != "" {
		fmt.Fprintln(a.out, desc)
	}
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "set.questions", list.TotalQuestionCount))
	for _, question := range list.Questions {
		mode := quiz.InferSelectionMode(question.Choices)
		fmt.Fprintf(a.out, "  #%d %s (%d choices, %s)\n", question.ID, question.QuestionText, len(question.Choices), mode)
	}
	return nil
}

// runResult renders the submission handed over by the play view. The result
// is never re-fetched, so a direct visit shows an empty 0/0 summary.
func (a *app) runResult(_ context.Context, quizSetID int64, result *quiz.SubmissionResult) (*navigation, error) {
	var submitted quiz.SubmissionResult
	if result != nil {
		submitted = *result
	}
	view := quiz.NewResultView(submitted)

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, i18n.T(a.locale, "result.title"))
	fmt.Fprintln(a.out, view.Summary(a.locale))
	for _, item := range view.Items {
		verdict := i18n.T(a.locale, "result.incorrect")
		if item.Correct {
			verdict = i18n.T(a.locale, "result.correct")
		}
		fmt.Fprintln(a.out, i18n.Tf(a.locale, "result.item", item.QuestionID, verdict))
		fmt.Fprintf(a.out, "  %s\n", i18n.Tf(a.locale, "result.correct_choices", formatIDs(item.CorrectChoiceIDs)))
	}

	fmt.Fprintln(a.out, i18n.T(a.locale, "result.next"))
	fmt.Fprint(a.out, "> ")
	line, err := readLine(a.reader)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(line) {
	case "retry":
		return &navigation{route: Route{Kind: RoutePlay, QuizSetID: quizSetID}}, nil
	case "list":
		return &navigation{route: Route{Kind: RouteList}}, nil
	default:
		return nil, nil
	}
}

// questionCount shows "?" when the server sent no count.
func questionCount(set quiz.QuizSet) string {
	if set.QuestionCount <= 0 {
		return "?"
	}
	return strconv.Itoa(set.QuestionCount)
}

func renderProgress(locale string, current, total int) string {
	percent := quiz.ProgressPercent(current, total)
	filled := percent * progressWidth / 100
	bar := strings.Repeat("#", filled) + strings.Repeat(".", progressWidth-filled)
	return fmt.Sprintf("%s [%s] %d%%", i18n.Tf(locale, "progress", current, total), bar, percent)
}

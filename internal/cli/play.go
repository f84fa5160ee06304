package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"quiz-client/internal/i18n"
	"quiz-client/internal/quiz"
	"quiz-client/internal/session"
)

var errAbandon = errors.New("session abandoned")

// runPlay hosts one graded session: a fresh shuffle every time the route is
// entered. On completion it hands back the result route with the submission
// as navigation state.
func (a *app) runPlay(ctx context.Context, quizSetID int64) (*navigation, error) {
	play := session.NewPlay(a.client, quizSetID, a.sessionOpts...)
	renderer := &playRenderer{out: a.out, locale: a.locale, shownIndex: -1}
	unsubscribe := play.Subscribe(renderer.render)
	defer unsubscribe()

	if err := play.Load(ctx); err != nil {
		return nil, nil
	}

	for {
		switch play.State() {
		case session.Completed:
			result, _ := play.Result()
			return &navigation{route: Route{Kind: RouteResult, QuizSetID: quizSetID}, state: &result}, nil
		case session.Failed:
			retry, err := promptYesNo(a.reader, a.out, a.locale, i18n.T(a.locale, "play.retry.prompt"))
			if err != nil {
				return nil, err
			}
			if !retry {
				return nil, nil
			}
			if !a.retrySubmit(ctx, play) {
				return nil, nil
			}
			continue
		}

		fmt.Fprint(a.out, "> ")
		line, err := readLine(a.reader)
		if err != nil {
			return nil, err
		}
		if err := a.handlePlayInput(ctx, play, line); errors.Is(err, errAbandon) {
			return nil, nil
		}
	}
}

// retrySubmit re-sends the answer log and reports whether the session is
// still worth prompting for. An ignored retry leaves the view.
func (a *app) retrySubmit(ctx context.Context, play *session.Play) bool {
	err := play.RetrySubmit(ctx)
	switch {
	case err == nil:
		return true
	case errors.Is(err, session.ErrIgnored):
		a.log.Warn("retry submit ignored",
			zap.String("session_id", play.ID()),
			zap.String("state", play.State().String()),
		)
		return false
	default:
		a.log.Warn("retry submit failed", zap.String("session_id", play.ID()), zap.Error(err))
		return true
	}
}

func (a *app) handlePlayInput(ctx context.Context, play *session.Play, line string) error {
	switch strings.ToLower(line) {
	case "q", "quit":
		return errAbandon
	case "", "next", "submit":
		if err := play.Advance(ctx); errors.Is(err, quiz.ErrEmptySelection) {
			fmt.Fprintln(a.out, i18n.T(a.locale, "play.empty"))
		}
		return nil
	}

	current, ok := play.Current()
	if !ok {
		return nil
	}
	indexes, ok := parseLetters(line, len(current.ShuffledChoices))
	if !ok {
		fmt.Fprintln(a.out, i18n.T(a.locale, "prompt.invalid"))
		return nil
	}
	for _, idx := range indexes {
		_ = play.Select(current.ShuffledChoices[idx].ID)
	}
	return nil
}

// playRenderer prints a question once when it appears, and only the
// selection line while the user is still choosing.
type playRenderer struct {
	out        io.Writer
	locale     string
	shownIndex int
	shownState session.State
}

func (r *playRenderer) render(v session.PlayView) {
	defer func() {
		r.shownIndex, r.shownState = v.Index, v.State
	}()

	switch v.State {
	case session.Answering:
		if v.Index == r.shownIndex && r.shownState == session.Answering {
			r.renderSelection(v)
			return
		}
		r.renderQuestion(v)
	case session.Submitting:
		fmt.Fprintln(r.out, i18n.T(r.locale, "play.submitting"))
	case session.Failed:
		var submissionErr *quiz.SubmissionError
		if errors.As(v.Err, &submissionErr) {
			fmt.Fprintln(r.out, i18n.T(r.locale, "play.submit.error"))
			return
		}
		fmt.Fprintln(r.out, i18n.T(r.locale, "play.load.error"))
	}
}

func (r *playRenderer) renderQuestion(v session.PlayView) {
	question := v.Question
	mode := i18n.T(r.locale, "play.single")
	if question.Mode == quiz.MultiSelect {
		mode = i18n.T(r.locale, "play.multi")
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, renderProgress(r.locale, v.Index+1, v.Total))
	fmt.Fprintf(r.out, "%s %s\n\n", i18n.Tf(r.locale, "play.heading", v.Index+1), mode)
	fmt.Fprintf(r.out, "%s\n\n", question.QuestionText)
	for idx, choice := range question.ShuffledChoices {
		fmt.Fprintf(r.out, "%s. %s %s\n", letterFor(idx), marker(contains(v.Selected, choice.ID)), choice.Text)
	}

	action := i18n.T(r.locale, "play.next")
	if v.IsLast {
		action = i18n.T(r.locale, "play.submit")
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, i18n.Tf(r.locale, "play.hint", letterFor(len(question.ShuffledChoices)-1), action))
}

func (r *playRenderer) renderSelection(v session.PlayView) {
	letters := make([]string, 0, len(v.Selected))
	for idx, choice := range v.Question.ShuffledChoices {
		if contains(v.Selected, choice.ID) {
			letters = append(letters, letterFor(idx))
		}
	}
	fmt.Fprintln(r.out, i18n.Tf(r.locale, "play.selected", strings.Join(letters, ", ")))
}

func marker(selected bool) string {
	if selected {
		return "[v]"
	}
	return "[ ]"
}

func contains(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

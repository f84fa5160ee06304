package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"quiz-client/internal/i18n"
	"quiz-client/internal/quiz"
)

func (a *app) runCreateSet(ctx context.Context) error {
	title, err := promptRequired(a.reader, a.out, a.locale, i18n.T(a.locale, "form.title"))
	if err != nil {
		return err
	}
	description, err := promptLine(a.reader, a.out, i18n.T(a.locale, "form.description"))
	if err != nil {
		return err
	}
	category, err := a.promptCategory(quiz.CategoryOS)
	if err != nil {
		return err
	}

	set, err := a.client.CreateQuizSet(ctx, quiz.QuizSetInput{
		Title:       title,
		Description: description,
		Category:    category,
	})
	if err != nil {
		a.log.Error("create quiz set failed", zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "set.create.error"))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "set.created", set.ID))
	return nil
}

// runEditSet keeps the current value of any field left blank.
func (a *app) runEditSet(ctx context.Context, id int64) error {
	current, err := a.client.GetQuizSet(ctx, id)
	if err != nil {
		a.log.Error("get quiz set failed", zap.Int64("quizset_id", id), zap.Error(err))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}

	title, err := promptLine(a.reader, a.out, fmt.Sprintf("%s[%s] ", i18n.T(a.locale, "form.title"), current.Title))
	if err != nil {
		return err
	}
	if title == "" {
		title = current.Title
	}
	description, err := promptLine(a.reader, a.out, fmt.Sprintf("%s[%s] ", i18n.T(a.locale, "form.description"), current.Description))
	if err != nil {
		return err
	}
	if description == "" {
		description = current.Description
	}
	category, err := a.promptCategory(current.Category)
	if err != nil {
		return err
	}

	set, err := a.client.UpdateQuizSet(ctx, id, quiz.QuizSetInput{
		Title:       title,
		Description: description,
		Category:    category,
	})
	if err != nil {
		a.log.Error("update quiz set failed", zap.Int64("quizset_id", id), zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "set.update.error"))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "set.updated", set.ID))
	return nil
}

func (a *app) runDeleteSet(ctx context.Context, id int64) error {
	ok, err := promptYesNo(a.reader, a.out, a.locale, i18n.Tf(a.locale, "form.confirm.delete", id))
	if err != nil || !ok {
		return err
	}
	if err := a.client.DeleteQuizSet(ctx, id); err != nil {
		a.log.Error("delete quiz set failed", zap.Int64("quizset_id", id), zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "set.delete.error"))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "set.deleted", id))
	return nil
}

func (a *app) runDeleteQuestion(ctx context.Context, id int64) error {
	ok, err := promptYesNo(a.reader, a.out, a.locale, i18n.Tf(a.locale, "form.confirm.delete", id))
	if err != nil || !ok {
		return err
	}
	if err := a.client.DeleteQuestion(ctx, id); err != nil {
		a.log.Error("delete question failed", zap.Int64("question_id", id), zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "question.delete.error"))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "question.deleted", id))
	return nil
}

// runCreateQuestion reads choices one per line until a blank line and then
// the letters of the correct ones. preselected skips the quiz set prompt.
func (a *app) runCreateQuestion(ctx context.Context, preselected int64) error {
	quizSetID := preselected
	if quizSetID <= 0 {
		line, err := promptLine(a.reader, a.out, i18n.T(a.locale, "form.quizset"))
		if err != nil {
			return err
		}
		id, err := parseID([]string{line}, 0)
		if err != nil {
			fmt.Fprintln(a.out, i18n.T(a.locale, "set.required"))
			return nil
		}
		quizSetID = id
	}

	text, err := promptRequired(a.reader, a.out, a.locale, i18n.T(a.locale, "form.question"))
	if err != nil {
		return err
	}

	var choices []quiz.ChoiceInput
	for {
		choice, err := promptLine(a.reader, a.out, i18n.Tf(a.locale, "form.choice", letterFor(len(choices))))
		if err != nil {
			return err
		}
		if choice == "" {
			break
		}
		choices = append(choices, quiz.ChoiceInput{Text: choice})
	}

	if len(choices) > 0 {
		for {
			line, err := promptLine(a.reader, a.out, i18n.T(a.locale, "form.correct"))
			if err != nil {
				return err
			}
			indexes, ok := parseLetters(line, len(choices))
			if ok {
				for _, idx := range indexes {
					choices[idx].IsCorrect = true
				}
				break
			}
			fmt.Fprintln(a.out, i18n.T(a.locale, "prompt.invalid"))
		}
	}

	explanation, err := promptLine(a.reader, a.out, i18n.T(a.locale, "form.explanation"))
	if err != nil {
		return err
	}
	difficulty, err := promptLine(a.reader, a.out, i18n.T(a.locale, "form.difficulty"))
	if err != nil {
		return err
	}

	question, err := a.client.CreateQuestion(ctx, quiz.QuestionInput{
		QuizSetID:       quizSetID,
		QuestionText:    text,
		Explanation:     explanation,
		DifficultyLevel: strings.ToLower(difficulty),
		Choices:         choices,
	})
	if err != nil {
		a.log.Error("create question failed", zap.Int64("quizset_id", quizSetID), zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "question.create.error"))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "question.created", question.ID))
	return nil
}

// runImportTrivia copies amount OpenTriviaDB questions into an existing set.
// Questions already created stay when a later one fails.
func (a *app) runImportTrivia(ctx context.Context, quizSetID int64, amount int) error {
	if _, err := a.client.GetQuizSet(ctx, quizSetID); err != nil {
		a.log.Error("get quiz set failed", zap.Int64("quizset_id", quizSetID), zap.Error(err))
		fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
		return nil
	}

	raw, err := a.trivia.FetchQuestions(ctx, amount)
	if err != nil {
		a.log.Error("fetch trivia failed", zap.Int("amount", amount), zap.Error(err))
		fmt.Fprintln(a.out, i18n.T(a.locale, "import.error"))
		fmt.Fprintf(a.out, "error: %v\n", err)
		return nil
	}

	src := a.source
	if src == nil {
		src = quiz.NewSource()
	}
	created := 0
	for _, input := range quiz.QuestionsFromTrivia(quizSetID, raw, src) {
		if _, err := a.client.CreateQuestion(ctx, input); err != nil {
			a.log.Error("create imported question failed", zap.Int64("quizset_id", quizSetID), zap.Error(err))
			fmt.Fprintln(a.out, i18n.T(a.locale, "import.error"))
			fmt.Fprintf(a.out, "error: %s\n", describeClientError(err, a.locale, a.serverURL))
			break
		}
		created++
	}
	a.log.Info("trivia imported", zap.Int64("quizset_id", quizSetID), zap.Int("created", created))
	fmt.Fprintln(a.out, i18n.Tf(a.locale, "import.done", created))
	return nil
}

// promptCategory re-prompts until a known category is entered. A blank line
// keeps fallback.
func (a *app) promptCategory(fallback quiz.Category) (quiz.Category, error) {
	names := make([]string, 0, len(quiz.Categories))
	for _, category := range quiz.Categories {
		names = append(names, string(category))
	}
	prompt := i18n.Tf(a.locale, "form.category", strings.Join(names, "/"), fallback)

	for {
		line, err := promptLine(a.reader, a.out, prompt)
		if err != nil {
			return "", err
		}
		if line == "" {
			return fallback, nil
		}
		if category, ok := quiz.ParseCategory(line); ok {
			return category, nil
		}
		fmt.Fprintln(a.out, i18n.T(a.locale, "prompt.invalid"))
	}
}

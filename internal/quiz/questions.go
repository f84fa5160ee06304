package quiz

import (
	"html"
	"strings"

	"quiz-client/internal/opentdb"
)

// QuestionsFromTrivia converts OpenTriviaDB questions into creation inputs
// for the given quiz set. HTML entities are unescaped and the correct answer
// lands at a random position among the choices.
func QuestionsFromTrivia(quizSetID int64, raw []opentdb.RawQuestion, src Source) []QuestionInput {
	if src == nil {
		src = NewSource()
	}

	inputs := make([]QuestionInput, 0, len(raw))
	for _, item := range raw {
		inputs = append(inputs, buildQuestion(quizSetID, item, src))
	}
	return inputs
}

func buildQuestion(quizSetID int64, raw opentdb.RawQuestion, src Source) QuestionInput {
	choices := make([]ChoiceInput, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, ChoiceInput{Text: html.UnescapeString(incorrect)})
	}
	choices = append(choices, ChoiceInput{
		Text:      html.UnescapeString(raw.CorrectAnswer),
		IsCorrect: true,
	})

	input := QuestionInput{
		QuizSetID:       quizSetID,
		QuestionText:    html.UnescapeString(raw.Question),
		DifficultyLevel: strings.ToLower(strings.TrimSpace(raw.Difficulty)),
		Choices:         Shuffle(choices, src),
	}
	if category := strings.TrimSpace(raw.Category); category != "" {
		input.Explanation = "OpenTriviaDB: " + html.UnescapeString(category)
	}
	return input.Normalize()
}

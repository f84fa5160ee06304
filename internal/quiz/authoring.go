package quiz

import (
	"fmt"
	"strings"
)

const minChoices = 2

// QuizSetInput is the body sent when creating or updating a quiz set.
type QuizSetInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

func (in QuizSetInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", in.Category)}
	}
	return nil
}

type ChoiceInput struct {
	Text      string `json:"text"`
	Order     int    `json:"order"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionInput is the body sent when creating or updating a question.
// Choice order is assigned from slice position by Normalize.
type QuestionInput struct {
	QuizSetID       int64         `json:"quiz_set"`
	QuestionText    string        `json:"question_text"`
	Explanation     string        `json:"explanation"`
	DifficultyLevel string        `json:"difficulty_level"`
	Choices         []ChoiceInput `json:"choices"`
}

func (in QuestionInput) Validate() error {
	if in.QuizSetID <= 0 {
		return &ValidationError{Field: "quiz_set", Message: "quiz set is required"}
	}
	if strings.TrimSpace(in.QuestionText) == "" {
		return &ValidationError{Field: "question_text", Message: "question text is required"}
	}
	if len(in.Choices) < minChoices {
		return &ValidationError{Field: "choices", Message: fmt.Sprintf("at least %d choices are required", minChoices)}
	}

	correct := 0
	for idx, choice := range in.Choices {
		if strings.TrimSpace(choice.Text) == "" {
			return &ValidationError{Field: "choices", Message: fmt.Sprintf("choice %d is empty", idx+1)}
		}
		if choice.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return &ValidationError{Field: "choices", Message: "mark at least one correct choice"}
	}
	return nil
}

// Normalize numbers choices 1..n in slice order.
func (in QuestionInput) Normalize() QuestionInput {
	out := in
	out.Choices = make([]ChoiceInput, len(in.Choices))
	for idx, choice := range in.Choices {
		choice.Order = idx + 1
		out.Choices[idx] = choice
	}
	return out
}

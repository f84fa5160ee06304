package quiz

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryOS    Category = "OS"
	CategoryNET   Category = "NET"
	CategoryDB    Category = "DB"
	CategoryGIT   Category = "GIT"
	CategoryCLOUD Category = "CLOUD"
	CategorySEC   Category = "SEC"
)

// Categories lists every category the quiz API accepts, in display order.
var Categories = []Category{CategoryOS, CategoryNET, CategoryDB, CategoryGIT, CategoryCLOUD, CategorySEC}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts any letter case.
func ParseCategory(raw string) (Category, bool) {
	category := Category(strings.ToUpper(strings.TrimSpace(raw)))
	return category, category.Valid()
}

// QuizSet is the metadata of one quiz set. QuestionCount is computed by the
// server and is zero when the payload omits it.
type QuizSet struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Choice struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID              int64    `json:"id"`
	QuizSetID       int64    `json:"quiz_set"`
	QuestionText    string   `json:"question_text"`
	Explanation     string   `json:"explanation"`
	DifficultyLevel string   `json:"difficulty_level"`
	Choices         []Choice `json:"choices"`
}

// QuestionList is the payload of the per-set question listing.
type QuestionList struct {
	QuizSetID          int64
	TotalQuestionCount int
	Questions          []Question
}

// SessionQuestion is a question as presented in one session. ShuffledChoices
// is fixed at load time and never reordered afterwards.
type SessionQuestion struct {
	Question
	ShuffledChoices []Choice
	Mode            SelectionMode
}

// ChoiceByID looks a choice up among the shuffled choices.
func (q SessionQuestion) ChoiceByID(id int64) (Choice, bool) {
	for _, choice := range q.ShuffledChoices {
		if choice.ID == id {
			return choice, true
		}
	}
	return Choice{}, false
}

type AnswerEntry struct {
	QuestionID int64   `json:"question_id"`
	ChoiceIDs  []int64 `json:"choice_ids"`
}

type QuestionResult struct {
	QuestionID       int64   `json:"question_id"`
	IsCorrect        bool    `json:"is_correct"`
	CorrectChoiceIDs []int64 `json:"correct_choice_ids"`
}

type SubmissionResult struct {
	QuizSetID      int64            `json:"quizset_id"`
	TotalQuestions int              `json:"total_questions"`
	TotalCorrect   int              `json:"total_correct"`
	Results        []QuestionResult `json:"results"`
}

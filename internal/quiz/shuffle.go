package quiz

import (
	"math/rand"
	"time"
)

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle returns a uniformly permuted copy of items. The input is left untouched.
func Shuffle[T any](items []T, src Source) []T {
	if src == nil {
		src = NewSource()
	}

	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// NewSessionQuestions shuffles question order and, independently, each
// question's choices, and infers every question's selection mode.
func NewSessionQuestions(questions []Question, src Source) []SessionQuestion {
	if src == nil {
		src = NewSource()
	}

	ordered := Shuffle(questions, src)
	session := make([]SessionQuestion, 0, len(ordered))
	for _, question := range ordered {
		session = append(session, SessionQuestion{
			Question:        question,
			ShuffledChoices: Shuffle(question.Choices, src),
			Mode:            InferSelectionMode(question.Choices),
		})
	}
	return session
}

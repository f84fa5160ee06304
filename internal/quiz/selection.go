package quiz

type SelectionMode int

const (
	SingleSelect SelectionMode = iota
	MultiSelect
)

func (m SelectionMode) String() string {
	if m == MultiSelect {
		return "multi"
	}
	return "single"
}

// InferSelectionMode returns MultiSelect when more than one choice is marked
// correct. A question with zero correct choices is treated as SingleSelect.
func InferSelectionMode(choices []Choice) SelectionMode {
	correct := 0
	for _, choice := range choices {
		if choice.IsCorrect {
			correct++
		}
	}
	if correct > 1 {
		return MultiSelect
	}
	return SingleSelect
}

// Selection is the set of chosen choice ids for one question. Iteration
// order follows insertion so displays stay stable.
type Selection struct {
	ids []int64
}

// Apply replaces the selection in single-select mode and toggles membership
// in multi-select mode.
func (s *Selection) Apply(mode SelectionMode, choiceID int64) {
	if mode == SingleSelect {
		s.ids = []int64{choiceID}
		return
	}

	for idx, id := range s.ids {
		if id == choiceID {
			s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
			return
		}
	}
	s.ids = append(s.ids, choiceID)
}

func (s *Selection) Contains(choiceID int64) bool {
	for _, id := range s.ids {
		if id == choiceID {
			return true
		}
	}
	return false
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Clear() {
	s.ids = nil
}

package quiz

import (
	"slices"
	"testing"
)

func TestInferSelectionMode(t *testing.T) {
	tests := []struct {
		name    string
		choices []Choice
		want    SelectionMode
	}{
		{name: "no correct", choices: []Choice{{ID: 1}, {ID: 2}}, want: SingleSelect},
		{name: "one correct", choices: []Choice{{ID: 1, IsCorrect: true}, {ID: 2}}, want: SingleSelect},
		{name: "two correct", choices: []Choice{{ID: 1, IsCorrect: true}, {ID: 2, IsCorrect: true}, {ID: 3}}, want: MultiSelect},
		{name: "empty", choices: nil, want: SingleSelect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferSelectionMode(tt.choices); got != tt.want {
				t.Fatalf("InferSelectionMode = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectionSingleReplaces(t *testing.T) {
	var sel Selection
	sel.Apply(SingleSelect, 1)
	sel.Apply(SingleSelect, 2)
	if got := sel.IDs(); !slices.Equal(got, []int64{2}) {
		t.Fatalf("single select = %v, want [2]", got)
	}
	sel.Apply(SingleSelect, 2)
	if got := sel.IDs(); !slices.Equal(got, []int64{2}) {
		t.Fatalf("reselect = %v, want [2]", got)
	}
}

func TestSelectionMultiToggles(t *testing.T) {
	var sel Selection
	sel.Apply(MultiSelect, 1)
	sel.Apply(MultiSelect, 2)
	sel.Apply(MultiSelect, 1)
	if got := sel.IDs(); !slices.Equal(got, []int64{2}) {
		t.Fatalf("multi select = %v, want [2]", got)
	}
	if sel.Contains(1) || !sel.Contains(2) {
		t.Fatalf("Contains mismatch for %v", sel.IDs())
	}

	sel.Clear()
	if sel.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", sel.Len())
	}
}

func TestSelectionIDsReturnsCopy(t *testing.T) {
	var sel Selection
	sel.Apply(MultiSelect, 7)
	ids := sel.IDs()
	ids[0] = 99
	if !sel.Contains(7) {
		t.Fatalf("mutating IDs() changed the selection")
	}
}

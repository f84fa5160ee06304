// Package apitest runs an in-memory stand-in for the quiz API so client,
// session and CLI tests can exercise real HTTP round trips.
package apitest

import (
	"cmp"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"quiz-client/internal/quiz"
)

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	sets        map[int64]quiz.QuizSet
	questions   map[int64]quiz.Question
	nextSet     int64
	nextQ       int64
	nextChoice  int64
	failures    map[string]int
	hits        map[string]int
	submissions [][]quiz.AnswerEntry
}

// NewServer starts a server that is closed when the test finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		sets:      make(map[int64]quiz.QuizSet),
		questions: make(map[int64]quiz.Question),
		failures:  make(map[string]int),
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root, the equivalent of http://localhost:8000/api.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		s.handle(r, http.MethodGet, "/quizsets/", s.listQuizSets)
		s.handle(r, http.MethodPost, "/quizsets/", s.createQuizSet)
		s.handle(r, http.MethodGet, "/quizsets/{id}/", s.getQuizSet)
		s.handle(r, http.MethodPut, "/quizsets/{id}/", s.updateQuizSet)
		s.handle(r, http.MethodDelete, "/quizsets/{id}/", s.deleteQuizSet)
		s.handle(r, http.MethodGet, "/quizsets/{id}/questions/", s.listQuestions)
		s.handle(r, http.MethodPost, "/quizsets/{id}/submit_all/", s.submitAll)
		s.handle(r, http.MethodPost, "/questions/", s.createQuestion)
		s.handle(r, http.MethodGet, "/questions/{id}/", s.getQuestion)
		s.handle(r, http.MethodPut, "/questions/{id}/", s.updateQuestion)
		s.handle(r, http.MethodDelete, "/questions/{id}/", s.deleteQuestion)
	})
	return r
}

func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := method + " " + pattern
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.hits[key]++
		status, failing := s.failures[key]
		s.mu.Unlock()
		if failing {
			writeDetail(w, status, "injected failure")
			return
		}
		h(w, req)
	}))
}

// Fail makes every request to method+pattern answer with status until
// Recover is called. pattern uses the route form, e.g. "/quizsets/{id}/submit_all/".
func (s *Server) Fail(method, pattern string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = status
}

func (s *Server) Recover(method, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+pattern)
}

// Hits counts requests routed to method+pattern, failed ones included.
func (s *Server) Hits(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+pattern]
}

// Submissions returns every answer log posted to submit_all, in order.
func (s *Server) Submissions() [][]quiz.AnswerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.submissions)
}

func (s *Server) AddQuizSet(title string, category quiz.Category) quiz.QuizSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertSetLocked(quiz.QuizSetInput{Title: title, Category: category})
}

// AddQuestion stores a question whose choices get sequential ids.
func (s *Server) AddQuestion(quizSetID int64, text string, choices ...quiz.ChoiceInput) quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertQuestionLocked(quiz.QuestionInput{QuizSetID: quizSetID, QuestionText: text, Choices: choices}.Normalize())
}

func (s *Server) Question(id int64) (quiz.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	return q, ok
}

func (s *Server) insertSetLocked(input quiz.QuizSetInput) quiz.QuizSet {
	s.nextSet++
	now := time.Now().UTC().Truncate(time.Second)
	set := quiz.QuizSet{
		ID:          s.nextSet,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.sets[set.ID] = set
	return set
}

func (s *Server) insertQuestionLocked(input quiz.QuestionInput) quiz.Question {
	s.nextQ++
	question := quiz.Question{
		ID:              s.nextQ,
		QuizSetID:       input.QuizSetID,
		QuestionText:    input.QuestionText,
		Explanation:     input.Explanation,
		DifficultyLevel: input.DifficultyLevel,
		Choices:         s.buildChoicesLocked(input.Choices),
	}
	s.questions[question.ID] = question
	return question
}

func (s *Server) buildChoicesLocked(inputs []quiz.ChoiceInput) []quiz.Choice {
	choices := make([]quiz.Choice, 0, len(inputs))
	for idx, input := range inputs {
		s.nextChoice++
		choices = append(choices, quiz.Choice{
			ID:        s.nextChoice,
			Text:      input.Text,
			Order:     idx + 1,
			IsCorrect: input.IsCorrect,
		})
	}
	return choices
}

func (s *Server) withCountLocked(set quiz.QuizSet) quiz.QuizSet {
	set.QuestionCount = len(s.questionsOfLocked(set.ID))
	return set
}

func (s *Server) questionsOfLocked(quizSetID int64) []quiz.Question {
	out := make([]quiz.Question, 0)
	for _, q := range s.questions {
		if q.QuizSetID == quizSetID {
			out = append(out, q)
		}
	}
	slices.SortFunc(out, func(a, b quiz.Question) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Server) listQuizSets(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	sets := make([]quiz.QuizSet, 0, len(s.sets))
	for _, set := range s.sets {
		sets = append(sets, s.withCountLocked(set))
	}
	s.mu.Unlock()
	slices.SortFunc(sets, func(a, b quiz.QuizSet) int { return cmp.Compare(a.ID, b.ID) })
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) createQuizSet(w http.ResponseWriter, r *http.Request) {
	var input quiz.QuizSetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := input.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	set := s.insertSetLocked(input)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) getQuizSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	set, found := s.sets[id]
	set = s.withCountLocked(set)
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) updateQuizSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input quiz.QuizSetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	set, found := s.sets[id]
	if found {
		set.Title = input.Title
		set.Description = input.Description
		set.Category = input.Category
		set.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		s.sets[id] = set
	}
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) deleteQuizSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.sets[id]
	if found {
		delete(s.sets, id)
		for qid, q := range s.questions {
			if q.QuizSetID == id {
				delete(s.questions, qid)
			}
		}
	}
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	questions := s.questionsOfLocked(id)
	s.mu.Unlock()

	// The real API echoes the path parameter, which arrives as a string.
	writeJSON(w, http.StatusOK, map[string]any{
		"quizset_id":           strconv.FormatInt(id, 10),
		"total_question_count": len(questions),
		"questions":            questions,
	})
}

func (s *Server) submitAll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Answers []quiz.AnswerEntry `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Answers == nil {
		writeDetail(w, http.StatusBadRequest, "'answers' must be a list of { question_id, choice_ids }.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.sets[id]; !found {
		writeDetail(w, http.StatusNotFound, "QuizSet not found.")
		return
	}
	s.submissions = append(s.submissions, payload.Answers)

	byID := make(map[int64]quiz.Question)
	for _, q := range s.questionsOfLocked(id) {
		byID[q.ID] = q
	}

	result := quiz.SubmissionResult{QuizSetID: id, TotalQuestions: len(byID), Results: []quiz.QuestionResult{}}
	for _, answer := range payload.Answers {
		question, found := byID[answer.QuestionID]
		if !found {
			result.Results = append(result.Results, quiz.QuestionResult{QuestionID: answer.QuestionID, CorrectChoiceIDs: []int64{}})
			continue
		}
		correct := correctIDs(question)
		submitted := slices.Clone(answer.ChoiceIDs)
		slices.Sort(submitted)
		submitted = slices.Compact(submitted)
		isCorrect := slices.Equal(submitted, correct)
		if isCorrect {
			result.TotalCorrect++
		}
		result.Results = append(result.Results, quiz.QuestionResult{
			QuestionID:       question.ID,
			IsCorrect:        isCorrect,
			CorrectChoiceIDs: correct,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var input quiz.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.sets[input.QuizSetID]; !found {
		writeDetail(w, http.StatusBadRequest, "Invalid pk - object does not exist.")
		return
	}
	writeJSON(w, http.StatusCreated, s.insertQuestionLocked(input))
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	question, found := s.questions[id]
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input quiz.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	question, found := s.questions[id]
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	question.QuestionText = input.QuestionText
	question.Explanation = input.Explanation
	question.DifficultyLevel = input.DifficultyLevel
	if input.Choices != nil {
		question.Choices = s.buildChoicesLocked(input.Choices)
	}
	s.questions[id] = question
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.questions[id]
	delete(s.questions, id)
	s.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func correctIDs(question quiz.Question) []int64 {
	ids := make([]int64, 0)
	for _, choice := range question.Choices {
		if choice.IsCorrect {
			ids = append(ids, choice.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

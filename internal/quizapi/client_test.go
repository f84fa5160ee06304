package quizapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"quiz-client/internal/apitest"
	"quiz-client/internal/metrics"
	"quiz-client/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := New("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	}, WithLogger(zaptest.NewLogger(t)))

	_, err := client.ListQuizSets(context.Background())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReadsDetailAndErrorBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "detail", body: `{"detail":"QuizSet not found."}`, want: "QuizSet not found."},
		{name: "error", body: `{"error":"bad request payload"}`, want: "bad request payload"},
		{name: "empty", body: ``, want: "400 Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(server.URL, server.Client())
			err := client.doJSON(context.Background(), http.MethodGet, "/anything", "/anything", nil, nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T (%v)", err, err)
			}
			if apiErr.StatusCode != http.StatusBadRequest {
				t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
			}
			if apiErr.Message != tt.want {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestNotFoundMatchesErrNotFound(t *testing.T) {
	api := apitest.NewServer(t)
	client := New(api.BaseURL(), api.Client())

	_, err := client.GetQuizSet(context.Background(), 404)
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("GetQuizSet(missing) = %v, want quiz.ErrNotFound", err)
	}
}

func TestListQuizSetsDecodesQuestionCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/quizsets/" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"OS","description":"","category":"OS","question_count":7},
			{"id":2,"title":"Git","description":"","category":"GIT"}
		]`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	sets, err := client.ListQuizSets(context.Background())
	if err != nil {
		t.Fatalf("ListQuizSets failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	if sets[0].QuestionCount != 7 {
		t.Fatalf("question count = %d, want 7", sets[0].QuestionCount)
	}
	if sets[1].QuestionCount != 0 {
		t.Fatalf("missing question count = %d, want 0", sets[1].QuestionCount)
	}
}

func TestGetQuizSetCountsQuestions(t *testing.T) {
	api := apitest.NewServer(t)
	set := api.AddQuizSet("Git", quiz.CategoryGIT)
	api.AddQuestion(set.ID, "git init?", quiz.ChoiceInput{Text: "repo", IsCorrect: true}, quiz.ChoiceInput{Text: "nothing"})

	client := New(api.BaseURL(), api.Client())
	got, err := client.GetQuizSet(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("GetQuizSet failed: %v", err)
	}
	if got.QuestionCount != 1 {
		t.Fatalf("question count = %d, want 1", got.QuestionCount)
	}
}

func TestListQuestionsAcceptsStringQuizSetID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/quizsets/3/questions/" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"quizset_id":"3","total_question_count":1,"questions":[{"id":7,"quiz_set":3,"question_text":"Q?","explanation":"","difficulty_level":"","choices":[{"id":22,"text":"A","order":1,"is_correct":true}]}]}`))
	}))
	defer server.Close()

	client := New(server.URL+"/api/", server.Client())
	list, err := client.ListQuestions(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if list.QuizSetID != 3 || list.TotalQuestionCount != 1 {
		t.Fatalf("unexpected list header: %+v", list)
	}
	if len(list.Questions) != 1 || list.Questions[0].Choices[0].ID != 22 || !list.Questions[0].Choices[0].IsCorrect {
		t.Fatalf("unexpected questions: %+v", list.Questions)
	}
}

func TestSubmitAllSendsAnswerLog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/quizsets/3/submit_all/" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("content type = %q", r.Header.Get("Content-Type"))
		}
		var payload submitAllRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Answers) != 2 || payload.Answers[1].QuestionID != 8 || !slices.Equal(payload.Answers[1].ChoiceIDs, []int64{26, 27}) {
			t.Fatalf("unexpected answers: %+v", payload.Answers)
		}
		_ = json.NewEncoder(w).Encode(quiz.SubmissionResult{
			QuizSetID:      3,
			TotalQuestions: 2,
			TotalCorrect:   1,
			Results: []quiz.QuestionResult{
				{QuestionID: 7, IsCorrect: true, CorrectChoiceIDs: []int64{22}},
				{QuestionID: 8, IsCorrect: false, CorrectChoiceIDs: []int64{26}},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	result, err := client.SubmitAll(context.Background(), 3, []quiz.AnswerEntry{
		{QuestionID: 7, ChoiceIDs: []int64{22}},
		{QuestionID: 8, ChoiceIDs: []int64{26, 27}},
	})
	if err != nil {
		t.Fatalf("SubmitAll failed: %v", err)
	}
	if result.TotalCorrect != 1 || len(result.Results) != 2 || result.Results[1].IsCorrect {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAuthoringRoundTrip(t *testing.T) {
	api := apitest.NewServer(t)
	client := New(api.BaseURL(), api.Client())
	ctx := context.Background()

	set, err := client.CreateQuizSet(ctx, quiz.QuizSetInput{Title: "Networks", Category: quiz.CategoryNET})
	if err != nil {
		t.Fatalf("CreateQuizSet failed: %v", err)
	}
	if set.ID == 0 || set.Title != "Networks" {
		t.Fatalf("unexpected set: %+v", set)
	}

	set, err = client.UpdateQuizSet(ctx, set.ID, quiz.QuizSetInput{Title: "Networking", Category: quiz.CategoryNET, Description: "L2-L7"})
	if err != nil {
		t.Fatalf("UpdateQuizSet failed: %v", err)
	}
	if set.Title != "Networking" || set.Description != "L2-L7" {
		t.Fatalf("update not applied: %+v", set)
	}

	question, err := client.CreateQuestion(ctx, quiz.QuestionInput{
		QuizSetID:    set.ID,
		QuestionText: "Which port does SSH use?",
		Choices:      []quiz.ChoiceInput{{Text: "22", IsCorrect: true}, {Text: "80"}},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if len(question.Choices) != 2 || question.Choices[1].Order != 2 {
		t.Fatalf("unexpected question: %+v", question)
	}

	fetched, err := client.GetQuestion(ctx, question.ID)
	if err != nil || fetched.QuestionText != question.QuestionText {
		t.Fatalf("GetQuestion = (%+v, %v)", fetched, err)
	}

	updated, err := client.UpdateQuestion(ctx, question.ID, quiz.QuestionInput{
		QuizSetID:    set.ID,
		QuestionText: "Which port does HTTPS use?",
		Choices:      []quiz.ChoiceInput{{Text: "443", IsCorrect: true}, {Text: "80"}, {Text: "22"}},
	})
	if err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if len(updated.Choices) != 3 {
		t.Fatalf("choices after update = %d, want 3", len(updated.Choices))
	}

	if err := client.DeleteQuestion(ctx, question.ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	if err := client.DeleteQuizSet(ctx, set.ID); err != nil {
		t.Fatalf("DeleteQuizSet failed: %v", err)
	}
	sets, err := client.ListQuizSets(ctx)
	if err != nil || len(sets) != 0 {
		t.Fatalf("ListQuizSets after delete = (%v, %v), want empty", sets, err)
	}
}

func TestCreateRejectsInvalidInputWithoutRequest(t *testing.T) {
	client := New("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			t.Fatalf("no request expected")
			return nil, nil
		}),
	})

	_, err := client.CreateQuizSet(context.Background(), quiz.QuizSetInput{Category: quiz.CategoryOS})
	var validationErr *quiz.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "title" {
		t.Fatalf("CreateQuizSet = %v, want title validation error", err)
	}
}

func TestRequestsAreCounted(t *testing.T) {
	api := apitest.NewServer(t)
	m := metrics.New(prometheus.NewRegistry())
	client := New(api.BaseURL(), api.Client(), WithMetrics(m))

	if _, err := client.ListQuizSets(context.Background()); err != nil {
		t.Fatalf("ListQuizSets failed: %v", err)
	}
	_, _ = client.GetQuizSet(context.Background(), 99)

	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues(http.MethodGet, "/quizsets/", "200")); got != 1 {
		t.Fatalf("list counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues(http.MethodGet, "/quizsets/{id}/", "404")); got != 1 {
		t.Fatalf("get counter = %v, want 1", got)
	}
}

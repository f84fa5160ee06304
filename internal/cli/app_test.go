package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"quiz-client/internal/apitest"
	"quiz-client/internal/i18n"
	"quiz-client/internal/quiz"
	"quiz-client/internal/quizapi"
)

// identitySource keeps every slice in its original order.
type identitySource struct{}

func (identitySource) Intn(n int) int { return n - 1 }

func runScript(t *testing.T, api *apitest.Server, script string, mutate ...func(*Config)) string {
	t.Helper()
	cfg := Config{
		ServerURL:  api.BaseURL(),
		HTTPClient: api.Client(),
		Locale:     i18n.Korean,
		Logger:     zaptest.NewLogger(t),
		Source:     identitySource{},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(script), &out, cfg); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String()
}

func seedGitSet(api *apitest.Server) (quiz.QuizSet, quiz.Question, quiz.Question) {
	set := api.AddQuizSet("Git", quiz.CategoryGIT)
	q1 := api.AddQuestion(set.ID, "git init?",
		quiz.ChoiceInput{Text: "creates a repo", IsCorrect: true},
		quiz.ChoiceInput{Text: "deletes a repo"},
	)
	q2 := api.AddQuestion(set.ID, "tracked by git?",
		quiz.ChoiceInput{Text: "files", IsCorrect: true},
		quiz.ChoiceInput{Text: "history", IsCorrect: true},
		quiz.ChoiceInput{Text: "your mood"},
	)
	return set, q1, q2
}

func TestRunPlaySubmitsAndShowsResult(t *testing.T) {
	api := apitest.NewServer(t)
	set, q1, q2 := seedGitSet(api)

	text := runScript(t, api, fmt.Sprintf("play %d\na\n\na b\n\nlist\nexit\n", set.ID))

	for _, want := range []string{
		"1 / 2 문제",
		"2 / 2 문제",
		"(단일 선택)",
		"(복수 선택)",
		"다음 문제",
		"제출 및 결과보기",
		"정답 2/2 (100%)",
		fmt.Sprintf("문제 ID %d : 정답", q1.ID),
		fmt.Sprintf("문제 ID %d : 정답", q2.ID),
		"문제집 목록",
		fmt.Sprintf("[GIT] Git (ID %d, 문제 수: 2)", set.ID),
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got: %s", want, text)
		}
	}

	subs := api.Submissions()
	if len(subs) != 1 || len(subs[0]) != 2 {
		t.Fatalf("submissions = (%+v), want one submission of two answers", subs)
	}
	if got := subs[0][1].ChoiceIDs; len(got) != 2 || got[0] != q2.Choices[0].ID || got[1] != q2.Choices[1].ID {
		t.Fatalf("second answer choices = (%v), want both correct choices", got)
	}
}

func TestRunPlayRequiresSelectionBeforeAdvance(t *testing.T) {
	api := apitest.NewServer(t)
	set, _, _ := seedGitSet(api)

	text := runScript(t, api, fmt.Sprintf("play %d\n\nz\nq\nexit\n", set.ID))

	if !strings.Contains(text, "선택지를 하나 이상 골라주세요.") {
		t.Fatalf("expected empty selection hint, got: %s", text)
	}
	if !strings.Contains(text, "잘못된 입력입니다.") {
		t.Fatalf("expected invalid input hint, got: %s", text)
	}
	if got := len(api.Submissions()); got != 0 {
		t.Fatalf("submissions = %d, want 0", got)
	}
}

func TestRunPlaySingleSelectReplacesChoice(t *testing.T) {
	api := apitest.NewServer(t)
	set, q1, _ := seedGitSet(api)

	runScript(t, api, fmt.Sprintf("play %d\nb\na\n\na\n\n\nexit\n", set.ID))

	subs := api.Submissions()
	if len(subs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(subs))
	}
	if got := subs[0][0].ChoiceIDs; len(got) != 1 || got[0] != q1.Choices[0].ID {
		t.Fatalf("first answer choices = (%v), want [%d]", got, q1.Choices[0].ID)
	}
}

func TestRunPlayRetriesFailedSubmission(t *testing.T) {
	api := apitest.NewServer(t)
	set, _, _ := seedGitSet(api)
	api.Fail(http.MethodPost, "/quizsets/{id}/submit_all/", http.StatusInternalServerError)

	text := runScript(t, api, fmt.Sprintf("play %d\na\n\na\n\nyes\nno\nexit\n", set.ID))

	if got := strings.Count(text, "퀴즈 결과 제출 오류"); got != 2 {
		t.Fatalf("submission errors = %d, want 2; output: %s", got, text)
	}
	if got := api.Hits(http.MethodPost, "/quizsets/{id}/submit_all/"); got != 2 {
		t.Fatalf("submit hits = %d, want 2", got)
	}
	if strings.Contains(text, "퀴즈 결과\n") {
		t.Fatalf("result view shown after failed submission: %s", text)
	}
}

func TestRunPlayReportsLoadFailure(t *testing.T) {
	api := apitest.NewServer(t)

	text := runScript(t, api, "play 99\nexit\n")

	if !strings.Contains(text, "문제를 불러오는 중 오류가 발생했습니다.") {
		t.Fatalf("expected load error, got: %s", text)
	}
}

func TestRunMemorizeLineMode(t *testing.T) {
	api := apitest.NewServer(t)
	set, _, _ := seedGitSet(api)

	text := runScript(t, api, fmt.Sprintf("memorize %d\nr\nn\nn\np\nq\nsets\nexit\n", set.ID))

	if got := strings.Count(text, "(정답)"); got != 1 {
		t.Fatalf("revealed markers = %d, want 1; output: %s", got, text)
	}
	if !strings.Contains(text, "* A. creates a repo (정답)") {
		t.Fatalf("expected highlighted correct choice, got: %s", text)
	}
	if got := strings.Count(text, "1 / 2 문제"); got != 3 {
		t.Fatalf("first question renders = %d, want 3; output: %s", got, text)
	}
	if got := strings.Count(text, "2 / 2 문제"); got != 1 {
		t.Fatalf("second question renders = %d, want 1; output: %s", got, text)
	}
	if !strings.Contains(text, "문제집 목록") {
		t.Fatalf("expected to return to the command loop, got: %s", text)
	}
	if got := api.Hits(http.MethodPost, "/quizsets/{id}/submit_all/"); got != 0 {
		t.Fatalf("submit hits = %d, want 0", got)
	}
}

func TestRunMemorizeReportsLoadFailure(t *testing.T) {
	api := apitest.NewServer(t)

	text := runScript(t, api, "memorize 5\nexit\n")

	if !strings.Contains(text, "암기 모드를 위한 문제를 불러오는 중 오류가 발생했습니다.") {
		t.Fatalf("expected memorization load error, got: %s", text)
	}
}

func TestRunCreateSetAndQuestion(t *testing.T) {
	api := apitest.NewServer(t)

	script := strings.Join([]string{
		"create-set",
		"",
		"Networks",
		"Layers",
		"foo",
		"net",
		"add-question 1",
		"What is TCP?",
		"protocol",
		"food",
		"",
		"z",
		"A",
		"because",
		"Easy",
		"sets",
		"exit",
	}, "\n") + "\n"
	text := runScript(t, api, script)

	for _, want := range []string{
		"필수 입력 항목입니다.",
		"문제집이 생성되었습니다. (ID 1)",
		"문제가 생성되었습니다. (ID 1)",
		"[NET] Networks",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got: %s", want, text)
		}
	}

	question, ok := api.Question(1)
	if !ok {
		t.Fatalf("question 1 was not stored")
	}
	if question.Explanation != "because" || question.DifficultyLevel != "easy" {
		t.Fatalf("question = (%+v), want explanation and lowercased difficulty", question)
	}
	if len(question.Choices) != 2 || !question.Choices[0].IsCorrect || question.Choices[1].IsCorrect {
		t.Fatalf("choices = (%+v), want A correct and B wrong", question.Choices)
	}
	if question.Choices[0].Order != 1 || question.Choices[1].Order != 2 {
		t.Fatalf("choice order = (%d, %d), want (1, 2)", question.Choices[0].Order, question.Choices[1].Order)
	}
}

func TestRunCreateQuestionRejectsTooFewChoices(t *testing.T) {
	api := apitest.NewServer(t)
	api.AddQuizSet("Git", quiz.CategoryGIT)

	text := runScript(t, api, "add-question 1\nLonely?\nonly\n\nA\n\n\nexit\n")

	if !strings.Contains(text, "문제 생성 중 오류 발생") {
		t.Fatalf("expected create error, got: %s", text)
	}
	if got := api.Hits(http.MethodPost, "/questions/"); got != 0 {
		t.Fatalf("question POST hits = %d, want 0", got)
	}
}

func TestRunCreateQuestionWithoutSet(t *testing.T) {
	api := apitest.NewServer(t)

	text := runScript(t, api, "open /questions/create\n\nexit\n")

	if !strings.Contains(text, "먼저 문제집을 선택해주세요.") {
		t.Fatalf("expected set required message, got: %s", text)
	}
}

func TestRunEditAndDeleteSet(t *testing.T) {
	api := apitest.NewServer(t)
	set := api.AddQuizSet("Git", quiz.CategoryGIT)

	text := runScript(t, api, fmt.Sprintf("edit-set %d\nGit 2\nbranches\n\ndelete-set %d\nno\n", set.ID, set.ID))
	if !strings.Contains(text, fmt.Sprintf("문제집이 수정되었습니다. (ID %d)", set.ID)) {
		t.Fatalf("expected update message, got: %s", text)
	}

	client := quizapi.New(api.BaseURL(), api.Client())
	got, err := client.GetQuizSet(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("GetQuizSet returned error: %v", err)
	}
	if got.Title != "Git 2" || got.Description != "branches" || got.Category != quiz.CategoryGIT {
		t.Fatalf("updated set = (%+v), want title, description and kept category", got)
	}

	text = runScript(t, api, fmt.Sprintf("delete-set %d\nyes\n", set.ID))
	if !strings.Contains(text, fmt.Sprintf("문제집이 삭제되었습니다. (ID %d)", set.ID)) {
		t.Fatalf("expected delete message, got: %s", text)
	}
	if _, err := client.GetQuizSet(context.Background(), set.ID); err == nil {
		t.Fatalf("expected quiz set to be gone")
	}
}

func TestRunImportTrivia(t *testing.T) {
	api := apitest.NewServer(t)
	set := api.AddQuizSet("Trivia", quiz.CategoryNET)

	amounts := make(chan string, 1)
	trivia := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case amounts <- r.URL.Query().Get("amount"):
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_code":0,"results":[
			{"type":"multiple","difficulty":"easy","category":"Science","question":"What is H&amp;2O?","correct_answer":"Water","incorrect_answers":["Fire","Air","Earth"]},
			{"type":"boolean","difficulty":"hard","category":"Science","question":"Is TCP reliable?","correct_answer":"True","incorrect_answers":["False"]}
		]}`))
	}))
	defer trivia.Close()

	text := runScript(t, api, fmt.Sprintf("import-trivia %d 2\nshow %d\nexit\n", set.ID, set.ID), func(cfg *Config) {
		cfg.TriviaURL = trivia.URL
	})

	if got := <-amounts; got != "2" {
		t.Fatalf("trivia amount = %q, want 2", got)
	}
	if !strings.Contains(text, "문제 2개를 가져왔습니다.") {
		t.Fatalf("expected import summary, got: %s", text)
	}
	if !strings.Contains(text, "What is H&2O?") {
		t.Fatalf("expected unescaped question in show output, got: %s", text)
	}
}

func TestRunDirectResultVisitShowsEmptySummary(t *testing.T) {
	api := apitest.NewServer(t)

	text := runScript(t, api, "open /quiz/1/result\n\nexit\n")

	if !strings.Contains(text, "정답 0/0 (0%)") {
		t.Fatalf("expected empty summary, got: %s", text)
	}
	if got := api.Hits(http.MethodPost, "/quizsets/{id}/submit_all/"); got != 0 {
		t.Fatalf("submit hits = %d, want 0", got)
	}
}

func TestRunUnknownRouteAndCommand(t *testing.T) {
	api := apitest.NewServer(t)

	text := runScript(t, api, "open /nope\ndance\nexit\n", func(cfg *Config) {
		cfg.Locale = i18n.English
	})

	if !strings.Contains(text, "Unknown route: /nope") {
		t.Fatalf("expected unknown route, got: %s", text)
	}
	if !strings.Contains(text, "unknown command. type 'help' for usage.") {
		t.Fatalf("expected unknown command, got: %s", text)
	}
}

func TestRunReportsUnavailableService(t *testing.T) {
	api := apitest.NewServer(t)
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL + "/api"
	down.Close()

	text := runScript(t, api, "sets\n", func(cfg *Config) {
		cfg.ServerURL = downURL
		cfg.HTTPClient = nil
	})

	if !strings.Contains(text, "문제집을 불러오는 중에 오류가 발생했습니다.") {
		t.Fatalf("expected list error, got: %s", text)
	}
	if !strings.Contains(text, "퀴즈 서비스에 연결할 수 없습니다 ("+downURL+")") {
		t.Fatalf("expected unavailable hint, got: %s", text)
	}
}

func TestRunListEmpty(t *testing.T) {
	api := apitest.NewServer(t)

	text := runScript(t, api, "sets")

	if !strings.Contains(text, "생성된 문제집이 없습니다.") {
		t.Fatalf("expected empty list message, got: %s", text)
	}
}

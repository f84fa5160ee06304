// Package i18n holds the fixed user-facing strings of the terminal client.
package i18n

import "fmt"

const (
	Korean  = "ko"
	English = "en"

	DefaultLocale = Korean
)

var translations = map[string]map[string]string{
	Korean: {
		"app.title":              "퀴즈 클라이언트",
		"list.title":             "문제집 목록",
		"list.empty":             "생성된 문제집이 없습니다.",
		"list.error":             "문제집을 불러오는 중에 오류가 발생했습니다.",
		"list.item":              "%d. [%s] %s (ID %d, 문제 수: %s)",
		"set.detail":             "문제집 %d: %s [%s]",
		"set.questions":          "문제 %d개",
		"set.created":            "문제집이 생성되었습니다. (ID %d)",
		"set.updated":            "문제집이 수정되었습니다. (ID %d)",
		"set.deleted":            "문제집이 삭제되었습니다. (ID %d)",
		"set.create.error":       "문제집 생성 중 오류가 발생했습니다.",
		"set.update.error":       "문제집 수정 중 오류가 발생했습니다.",
		"set.delete.error":       "문제집 삭제 중 오류가 발생했습니다.",
		"set.required":           "먼저 문제집을 선택해주세요.",
		"question.created":       "문제가 생성되었습니다. (ID %d)",
		"question.deleted":       "문제가 삭제되었습니다. (ID %d)",
		"question.create.error":  "문제 생성 중 오류 발생",
		"question.delete.error":  "문제 삭제 중 오류 발생",
		"form.required":          "필수 입력 항목입니다.",
		"form.title":             "제목: ",
		"form.description":       "설명: ",
		"form.category":          "카테고리 (%s) [%s]: ",
		"form.quizset":           "문제집 ID: ",
		"form.question":          "문제: ",
		"form.choice":            "선택지 %s (빈 줄로 종료): ",
		"form.correct":           "정답 선택지 (예: A 또는 A,C): ",
		"form.explanation":       "해설: ",
		"form.difficulty":        "난이도 (easy/medium/hard): ",
		"form.confirm.delete":    "ID %d 항목을 삭제할까요? (yes/no): ",
		"import.done":            "문제 %d개를 가져왔습니다.",
		"import.error":           "외부 문제를 가져오는 중 오류가 발생했습니다.",
		"play.load.error":        "문제를 불러오는 중 오류가 발생했습니다.",
		"play.submit.error":      "퀴즈 결과 제출 오류",
		"play.submitting":        "제출 중...",
		"play.multi":             "(복수 선택)",
		"play.single":            "(단일 선택)",
		"play.empty":             "선택지를 하나 이상 골라주세요.",
		"play.next":              "다음 문제",
		"play.submit":            "제출 및 결과보기",
		"play.retry.prompt":      "다시 제출할까요? (yes/no): ",
		"play.heading":           "문제 %d",
		"play.hint":              "A-%s 선택, Enter로 %s, q 종료",
		"play.selected":          "선택: %s",
		"progress":               "%d / %d 문제",
		"memo.load.error":        "암기 모드를 위한 문제를 불러오는 중 오류가 발생했습니다.",
		"memo.title":             "암기 모드",
		"memo.hint.keys":         "←/→ 이동, Space 정답 보기, q 종료",
		"memo.hint.lines":        "n 다음, p 이전, r 정답 보기, q 종료",
		"memo.explanation":       "해설: %s",
		"memo.correct":           "(정답)",
		"result.title":           "퀴즈 결과",
		"result.summary":         "정답 %d/%d (%d%%)",
		"result.item":            "문제 ID %d : %s",
		"result.correct":         "정답",
		"result.incorrect":       "오답",
		"result.correct_choices": "올바른 Choice ID: %s",
		"result.next":            "retry: 다시 풀기, list: 목록으로",
		"route.unknown":          "알 수 없는 경로입니다: %s",
		"service.unavailable":    "퀴즈 서비스에 연결할 수 없습니다 (%s)",
		"prompt.yesno":           "yes 또는 no로 답해주세요.",
		"prompt.invalid":         "잘못된 입력입니다.",
		"command.unknown":        "알 수 없는 명령입니다. 'help'를 입력하세요.",
	},
	English: {
		"app.title":              "Quiz client",
		"list.title":             "Quiz sets",
		"list.empty":             "No quiz sets have been created.",
		"list.error":             "Failed to load quiz sets.",
		"list.item":              "%d. [%s] %s (ID %d, questions: %s)",
		"set.detail":             "Quiz set %d: %s [%s]",
		"set.questions":          "%d questions",
		"set.created":            "Quiz set created. (ID %d)",
		"set.updated":            "Quiz set updated. (ID %d)",
		"set.deleted":            "Quiz set deleted. (ID %d)",
		"set.create.error":       "Failed to create the quiz set.",
		"set.update.error":       "Failed to update the quiz set.",
		"set.delete.error":       "Failed to delete the quiz set.",
		"set.required":           "Select a quiz set first.",
		"question.created":       "Question created. (ID %d)",
		"question.deleted":       "Question deleted. (ID %d)",
		"question.create.error":  "Failed to create the question.",
		"question.delete.error":  "Failed to delete the question.",
		"form.required":          "This field is required.",
		"form.title":             "Title: ",
		"form.description":       "Description: ",
		"form.category":          "Category (%s) [%s]: ",
		"form.quizset":           "Quiz set ID: ",
		"form.question":          "Question: ",
		"form.choice":            "Choice %s (blank line to finish): ",
		"form.correct":           "Correct choices (e.g. A or A,C): ",
		"form.explanation":       "Explanation: ",
		"form.difficulty":        "Difficulty (easy/medium/hard): ",
		"form.confirm.delete":    "Delete item %d? (yes/no): ",
		"import.done":            "Imported %d questions.",
		"import.error":           "Failed to import trivia questions.",
		"play.load.error":        "Failed to load the questions.",
		"play.submit.error":      "Failed to submit quiz answers.",
		"play.submitting":        "Submitting...",
		"play.multi":             "(select all that apply)",
		"play.single":            "(select one)",
		"play.empty":             "Select at least one choice.",
		"play.next":              "Next question",
		"play.submit":            "Submit and view result",
		"play.retry.prompt":      "Submit again? (yes/no): ",
		"play.heading":           "Question %d",
		"play.hint":              "A-%s to choose, Enter for %s, q to quit",
		"play.selected":          "Selected: %s",
		"progress":               "%d / %d questions",
		"memo.load.error":        "Failed to load questions for memorization mode.",
		"memo.title":             "Memorization mode",
		"memo.hint.keys":         "left/right to move, space to reveal, q to quit",
		"memo.hint.lines":        "n next, p previous, r reveal, q quit",
		"memo.explanation":       "Explanation: %s",
		"memo.correct":           "(correct)",
		"result.title":           "Quiz result",
		"result.summary":         "Correct %d/%d (%d%%)",
		"result.item":            "Question ID %d : %s",
		"result.correct":         "correct",
		"result.incorrect":       "wrong",
		"result.correct_choices": "Correct choice IDs: %s",
		"result.next":            "retry: play again, list: back to list",
		"route.unknown":          "Unknown route: %s",
		"service.unavailable":    "quiz service unavailable at %s",
		"prompt.yesno":           "Please answer yes or no.",
		"prompt.invalid":         "Invalid input.",
		"command.unknown":        "unknown command. type 'help' for usage.",
	},
}

// Supported reports whether locale has a catalog.
func Supported(locale string) bool {
	_, ok := translations[locale]
	return ok
}

// T returns the translated string for key in locale, falling back to the
// default locale and then to the key itself.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations[DefaultLocale][key]; ok {
		return v
	}
	return key
}

func Tf(locale, key string, args ...any) string {
	return fmt.Sprintf(T(locale, key), args...)
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-client/internal/i18n"
	"quiz-client/internal/quizapi"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  sets                         list quiz sets (/)")
	fmt.Fprintln(out, "  show <set_id>")
	fmt.Fprintln(out, "  create-set                   (/quizsets/create)")
	fmt.Fprintln(out, "  edit-set <set_id>")
	fmt.Fprintln(out, "  delete-set <set_id>")
	fmt.Fprintln(out, "  add-question [set_id]        (/questions/create)")
	fmt.Fprintln(out, "  delete-question <question_id>")
	fmt.Fprintln(out, "  import-trivia <set_id> [amount]")
	fmt.Fprintln(out, "  play <set_id>                (/quiz/{id})")
	fmt.Fprintln(out, "  memorize <set_id>            (/quiz/{id}/memorization)")
	fmt.Fprintln(out, "  open <route>")
	fmt.Fprintln(out, "  exit")
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	return readLine(reader)
}

// promptRequired re-prompts until a non-empty line is entered.
func promptRequired(reader *bufio.Reader, out io.Writer, locale, prompt string) (string, error) {
	for {
		value, err := promptLine(reader, out, prompt)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Fprintln(out, i18n.T(locale, "form.required"))
	}
}

func promptYesNo(reader *bufio.Reader, out io.Writer, locale, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := readLine(reader)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes", "예", "네":
			return true, nil
		case "n", "no", "아니오", "아니요":
			return false, nil
		default:
			fmt.Fprintln(out, i18n.T(locale, "prompt.yesno"))
		}
	}
}

func parseID(args []string, index int) (int64, error) {
	if len(args) <= index {
		return 0, errors.New("missing id")
	}
	value, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil || value <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return value, nil
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

// parseLetters reads choice letters such as "a", "A C" or "a,c" into
// zero-based indexes below count.
func parseLetters(line string, count int) ([]int, bool) {
	letters := strings.NewReplacer(",", "", " ", "").Replace(strings.ToUpper(line))
	if letters == "" || count < 1 {
		return nil, false
	}

	maxLetter := rune('A' + count - 1)
	indexes := make([]int, 0, len(letters))
	for _, letter := range letters {
		if letter < 'A' || letter > maxLetter {
			return nil, false
		}
		indexes = append(indexes, int(letter-'A'))
	}
	return indexes, true
}

func letterFor(index int) string {
	return string(rune('A' + index))
}

func formatIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func describeClientError(err error, locale, serverURL string) string {
	if errors.Is(err, quizapi.ErrServiceUnavailable) {
		return i18n.Tf(locale, "service.unavailable", serverURL)
	}
	return err.Error()
}

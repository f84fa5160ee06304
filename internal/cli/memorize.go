package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"quiz-client/internal/i18n"
	"quiz-client/internal/session"
)

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03
)

// runMemorize hosts the review mode. On an interactive terminal it switches
// stdin to raw mode and reads arrow keys; otherwise it reads one command per
// line. Either way the keys go through a session.Keyboard so the view can
// claim them before the host's own quit binding runs.
func (a *app) runMemorize(ctx context.Context, quizSetID int64) error {
	memo := session.NewMemorization(a.client, quizSetID, a.sessionOpts...)

	keyboard := session.NewKeyboard()
	unbind := memo.BindKeys(keyboard)
	defer unbind()

	readKey := a.lineKey
	renderer := &memoRenderer{out: a.out, locale: a.locale, hint: "memo.hint.lines"}
	if fd, ok := a.terminal(); ok {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			a.log.Warn("raw terminal mode unavailable", zap.Error(err))
		} else {
			defer func() { _ = term.Restore(fd, oldState) }()
			readKey = a.rawKey
			renderer.out = crlfWriter{w: a.out}
			renderer.hint = "memo.hint.keys"
			renderer.clear = true
		}
	}

	unsubscribe := memo.Subscribe(renderer.render)
	defer unsubscribe()

	if err := memo.Load(ctx); err != nil {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		ev, err := readKey()
		if err != nil {
			return err
		}
		if keyboard.Dispatch(&ev) && quitsView(ev) {
			return nil
		}
	}
}

func quitsView(ev session.KeyEvent) bool {
	return ev.Key == session.KeyEscape || (ev.Key == session.KeyRune && (ev.Rune == 'q' || ev.Rune == 'Q'))
}

// lineKey maps one line of input to a key: n (or an empty line) is
// ArrowRight, p is ArrowLeft, r is Space and q is Escape.
func (a *app) lineKey() (session.KeyEvent, error) {
	fmt.Fprint(a.out, "> ")
	line, err := readLine(a.reader)
	if err != nil {
		return session.KeyEvent{}, err
	}

	switch strings.ToLower(line) {
	case "", "n", "next":
		return session.KeyEvent{Key: session.KeyArrowRight}, nil
	case "p", "prev":
		return session.KeyEvent{Key: session.KeyArrowLeft}, nil
	case "r", "reveal":
		return session.KeyEvent{Key: session.KeySpace, Rune: ' '}, nil
	case "q", "quit":
		return session.KeyEvent{Key: session.KeyEscape}, nil
	}

	r := []rune(line)
	if len(r) == 1 {
		return session.KeyEvent{Key: session.KeyRune, Rune: r[0]}, nil
	}
	return session.KeyEvent{Key: session.KeyUnknown}, nil
}

func (a *app) rawKey() (session.KeyEvent, error) {
	return readRawKey(a.reader)
}

// readRawKey decodes one key press from a terminal in raw mode. ESC followed
// by "[C" or "[D" is an arrow key; a lone ESC is Escape.
func readRawKey(r *bufio.Reader) (session.KeyEvent, error) {
	b, err := r.ReadByte()
	if err != nil {
		return session.KeyEvent{}, err
	}

	switch b {
	case keyEsc:
		if r.Buffered() == 0 {
			return session.KeyEvent{Key: session.KeyEscape}, nil
		}
		if next, err := r.ReadByte(); err != nil || next != '[' {
			return session.KeyEvent{Key: session.KeyEscape}, nil
		}
		code, err := r.ReadByte()
		if err != nil {
			return session.KeyEvent{}, err
		}
		switch code {
		case 'C':
			return session.KeyEvent{Key: session.KeyArrowRight}, nil
		case 'D':
			return session.KeyEvent{Key: session.KeyArrowLeft}, nil
		default:
			return session.KeyEvent{Key: session.KeyUnknown}, nil
		}
	case ' ':
		return session.KeyEvent{Key: session.KeySpace, Rune: ' '}, nil
	case '\r', '\n':
		return session.KeyEvent{Key: session.KeyEnter}, nil
	case keyCtrlC:
		return session.KeyEvent{Key: session.KeyEscape}, nil
	default:
		return session.KeyEvent{Key: session.KeyRune, Rune: rune(b)}, nil
	}
}

type memoRenderer struct {
	out    io.Writer
	locale string
	hint   string
	clear  bool
}

func (r *memoRenderer) render(v session.MemorizationView) {
	switch v.State {
	case session.Failed:
		fmt.Fprintln(r.out, i18n.T(r.locale, "memo.load.error"))
		return
	case session.Browsing:
	default:
		return
	}

	if r.clear {
		fmt.Fprint(r.out, "\x1b[2J\x1b[H")
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s: %s\n", i18n.T(r.locale, "memo.title"), v.QuizSet.Title)
	fmt.Fprintln(r.out, renderProgress(r.locale, v.Index+1, v.Total))
	fmt.Fprintf(r.out, "%s\n\n", v.Question.QuestionText)
	for idx, choice := range v.Choices {
		if choice.Highlighted {
			fmt.Fprintf(r.out, "* %s. %s %s\n", letterFor(idx), choice.Text, i18n.T(r.locale, "memo.correct"))
			continue
		}
		fmt.Fprintf(r.out, "  %s. %s\n", letterFor(idx), choice.Text)
	}
	if v.Reveal && strings.TrimSpace(v.Question.Explanation) != "" {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, i18n.Tf(r.locale, "memo.explanation", v.Question.Explanation))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, i18n.T(r.locale, r.hint))
}

// crlfWriter restores the carriage returns a raw-mode terminal no longer
// adds on its own.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

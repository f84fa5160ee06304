package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"quiz-client/internal/i18n"
	"quiz-client/internal/metrics"
	"quiz-client/internal/opentdb"
	"quiz-client/internal/quiz"
	"quiz-client/internal/quizapi"
	"quiz-client/internal/session"
)

const (
	defaultHTTPTimeout  = 10 * time.Second
	defaultTriviaAmount = 10
)

type Config struct {
	ServerURL    string
	HTTPTimeout  time.Duration
	Locale       string
	TriviaURL    string
	TriviaAmount int

	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// HTTPClient overrides the client built from HTTPTimeout.
	HTTPClient *http.Client
	// Source fixes the shuffle order, for tests.
	Source quiz.Source
}

type app struct {
	reader       *bufio.Reader
	out          io.Writer
	input        io.Reader
	client       *quizapi.Client
	trivia       *opentdb.Client
	locale       string
	serverURL    string
	triviaAmount int
	log          *zap.Logger
	sessionOpts  []session.Option
	source       quiz.Source
}

// Run is the interactive loop. It returns nil on "exit" or end of input.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	a := newApp(in, out, cfg)

	fmt.Fprintf(out, "%s\nserver=%s\n\n", i18n.T(a.locale, "app.title"), a.serverURL)
	printHelp(out)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, "\n> ")
		line, err := a.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(line) != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])
		if command == "exit" || command == "quit" {
			return nil
		}
		if err := a.dispatch(ctx, command, args); err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
	}
}

func newApp(in io.Reader, out io.Writer, cfg Config) *app {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = quizapi.DefaultBaseURL
	}
	locale := cfg.Locale
	if !i18n.Supported(locale) {
		locale = i18n.DefaultLocale
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	amount := cfg.TriviaAmount
	if amount <= 0 {
		amount = defaultTriviaAmount
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	client := quizapi.New(serverURL, httpClient, quizapi.WithLogger(log), quizapi.WithMetrics(cfg.Metrics))
	opts := []session.Option{session.WithLogger(log), session.WithMetrics(cfg.Metrics)}
	if cfg.Source != nil {
		opts = append(opts, session.WithSource(cfg.Source))
	}

	return &app{
		reader:       bufio.NewReader(in),
		out:          out,
		input:        in,
		client:       client,
		trivia:       opentdb.NewClient(httpClient, opentdb.WithURL(cfg.TriviaURL)),
		locale:       locale,
		serverURL:    client.BaseURL(),
		triviaAmount: amount,
		log:          log,
		sessionOpts:  opts,
		source:       cfg.Source,
	}
}

// dispatch runs one command. Only input errors are returned; remote
// failures are reported on out and scoped to the command.
func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		printHelp(a.out)
		return nil
	case "sets", "list", "ls":
		return a.navigate(ctx, Route{Kind: RouteList}, nil)
	case "open":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "usage: open <route>")
			return nil
		}
		route, err := ParseRoute(args[1])
		if err != nil {
			fmt.Fprintln(a.out, i18n.Tf(a.locale, "route.unknown", args[1]))
			return nil
		}
		return a.navigate(ctx, route, nil)
	case "create-set":
		return a.navigate(ctx, Route{Kind: RouteCreateSet}, nil)
	case "add-question":
		var preselected int64
		if len(args) > 1 {
			id, err := parseID(args, 1)
			if err != nil {
				fmt.Fprintln(a.out, "usage: add-question [set_id]")
				return nil
			}
			preselected = id
		}
		return a.navigate(ctx, Route{Kind: RouteCreateQuestion}, preselected)
	case "play", "memorize", "show", "edit-set", "delete-set", "delete-question":
		id, err := parseID(args, 1)
		if err != nil || len(args) != 2 {
			fmt.Fprintf(a.out, "usage: %s <id>\n", command)
			return nil
		}
		switch command {
		case "play":
			return a.navigate(ctx, Route{Kind: RoutePlay, QuizSetID: id}, nil)
		case "memorize":
			return a.navigate(ctx, Route{Kind: RouteMemorization, QuizSetID: id}, nil)
		case "show":
			return a.runShow(ctx, id)
		case "edit-set":
			return a.runEditSet(ctx, id)
		case "delete-set":
			return a.runDeleteSet(ctx, id)
		default:
			return a.runDeleteQuestion(ctx, id)
		}
	case "import-trivia":
		id, err := parseID(args, 1)
		if err != nil {
			fmt.Fprintln(a.out, "usage: import-trivia <set_id> [amount]")
			return nil
		}
		amount, err := parsePositiveLimit(args, 2, a.triviaAmount)
		if err != nil {
			fmt.Fprintf(a.out, "invalid amount: %v\n", err)
			return nil
		}
		return a.runImportTrivia(ctx, id, amount)
	default:
		fmt.Fprintln(a.out, i18n.T(a.locale, "command.unknown"))
		return nil
	}
}

// navigation is a route plus its payload: the submission result for
// RouteResult, a preselected quiz set id for RouteCreateQuestion.
type navigation struct {
	route Route
	state any
}

// navigate shows route and then every route the views hand back, one at a
// time, until a view returns to the command prompt.
func (a *app) navigate(ctx context.Context, route Route, state any) error {
	next := &navigation{route: route, state: state}
	for next != nil {
		var err error
		if next, err = a.show(ctx, *next); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) show(ctx context.Context, nav navigation) (*navigation, error) {
	a.log.Debug("navigate", zap.String("route", nav.route.String()))

	switch nav.route.Kind {
	case RouteList:
		return nil, a.runList(ctx)
	case RouteCreateSet:
		return nil, a.runCreateSet(ctx)
	case RouteCreateQuestion:
		preselected, _ := nav.state.(int64)
		return nil, a.runCreateQuestion(ctx, preselected)
	case RoutePlay:
		return a.runPlay(ctx, nav.route.QuizSetID)
	case RouteResult:
		result, _ := nav.state.(*quiz.SubmissionResult)
		return a.runResult(ctx, nav.route.QuizSetID, result)
	case RouteMemorization:
		return nil, a.runMemorize(ctx, nav.route.QuizSetID)
	default:
		fmt.Fprintln(a.out, i18n.Tf(a.locale, "route.unknown", nav.route.String()))
		return nil, nil
	}
}

// terminal reports the file descriptor of an interactive stdin.
func (a *app) terminal() (int, bool) {
	f, ok := a.input.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// Package session holds the quiz-play and memorization state machines. Both
// are driven only through their transition methods; hosts render from the
// snapshot views handed to subscribers.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quiz-client/internal/metrics"
	"quiz-client/internal/quiz"
)

// ErrIgnored is returned for input that is not valid in the current state.
// The state is left untouched.
var ErrIgnored = errors.New("input ignored in current state")

type State int

const (
	Loading State = iota
	Answering
	Submitting
	Completed
	Browsing
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Answering:
		return "answering"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	case Browsing:
		return "browsing"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Remote is the read side of the quiz API a session loads from.
type Remote interface {
	GetQuizSet(ctx context.Context, id int64) (quiz.QuizSet, error)
	ListQuestions(ctx context.Context, quizSetID int64) (quiz.QuestionList, error)
}

// Grader adds answer submission to Remote.
type Grader interface {
	Remote
	SubmitAll(ctx context.Context, quizSetID int64, answers []quiz.AnswerEntry) (quiz.SubmissionResult, error)
}

type options struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	source  quiz.Source
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSource fixes the random source used for shuffling.
func WithSource(src quiz.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = quiz.NewSource()
	}
	return o
}

// loadQuiz fetches metadata and questions concurrently, then shuffles.
func loadQuiz(ctx context.Context, remote Remote, quizSetID int64, src quiz.Source) (quiz.QuizSet, []quiz.SessionQuestion, error) {
	var (
		set  quiz.QuizSet
		list quiz.QuestionList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := remote.GetQuizSet(gctx, quizSetID)
		if err != nil {
			return &quiz.FetchError{Op: "quiz set", Err: err}
		}
		set = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := remote.ListQuestions(gctx, quizSetID)
		if err != nil {
			return &quiz.FetchError{Op: "questions", Err: err}
		}
		list = fetched
		return nil
	})
	if err := g.Wait(); err != nil {
		return quiz.QuizSet{}, nil, err
	}

	if len(list.Questions) == 0 {
		return quiz.QuizSet{}, nil, &quiz.FetchError{Op: "questions", Err: quiz.ErrNoQuestions}
	}
	return set, quiz.NewSessionQuestions(list.Questions, src), nil
}

// observers is a registry of view callbacks notified in subscription order.
type observers[V any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(V)
}

func (o *observers[V]) add(fn func(V)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func(V))
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.fns, id)
		})
	}
}

func (o *observers[V]) notify(view V) {
	o.mu.Lock()
	ids := make([]int, 0, len(o.fns))
	for id := range o.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(V), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.fns[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(view)
	}
}

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz-client/internal/quiz"
)

const modePlay = "play"

// Play is one graded run through a quiz set:
// Loading -> Answering -> Submitting -> Completed, with Failed reachable
// from Loading and Submitting.
type Play struct {
	mu        sync.Mutex
	id        string
	quizSetID int64
	remote    Grader
	opts      options
	log       *zap.Logger

	state     State
	fetching  bool
	set       quiz.QuizSet
	questions []quiz.SessionQuestion
	index     int
	selection quiz.Selection
	answers   []quiz.AnswerEntry
	result    quiz.SubmissionResult
	err       error

	observers observers[PlayView]
}

// PlayView is an immutable snapshot of a Play session.
type PlayView struct {
	SessionID  string
	State      State
	QuizSet    quiz.QuizSet
	Index      int
	Total      int
	Question   quiz.SessionQuestion // zero unless answering
	Selected   []int64
	CanAdvance bool
	IsLast     bool
	Answers    []quiz.AnswerEntry
	Result     quiz.SubmissionResult
	Err        error
}

func NewPlay(remote Grader, quizSetID int64, opts ...Option) *Play {
	o := buildOptions(opts)
	id := uuid.NewString()
	return &Play{
		id:        id,
		quizSetID: quizSetID,
		remote:    remote,
		opts:      o,
		log:       o.log.With(zap.String("session_id", id), zap.Int64("quizset_id", quizSetID), zap.String("mode", modePlay)),
		state:     Loading,
	}
}

func (p *Play) ID() string {
	return p.id
}

// Load fetches the quiz set and its questions. Failure of either fetch moves
// the session to Failed with a *quiz.FetchError; there is no automatic retry.
func (p *Play) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.state != Loading || p.fetching {
		p.mu.Unlock()
		return ErrIgnored
	}
	p.fetching = true
	p.mu.Unlock()

	set, questions, err := loadQuiz(ctx, p.remote, p.quizSetID, p.opts.source)

	p.mu.Lock()
	p.fetching = false
	if err != nil {
		p.err = err
		p.setStateLocked(Failed)
		p.log.Error("load quiz failed", zap.Error(err))
	} else {
		p.set = set
		p.questions = questions
		p.index = 0
		p.answers = make([]quiz.AnswerEntry, 0, len(questions))
		p.setStateLocked(Answering)
		p.log.Info("quiz loaded", zap.Int("questions", len(questions)))
	}
	view := p.viewLocked()
	p.mu.Unlock()

	p.observers.notify(view)
	return err
}

// Select applies a choice to the current question: replace for single-select
// questions, toggle for multi-select ones.
func (p *Play) Select(choiceID int64) error {
	p.mu.Lock()
	if p.state != Answering {
		p.mu.Unlock()
		return ErrIgnored
	}
	current := p.questions[p.index]
	if _, ok := current.ChoiceByID(choiceID); !ok {
		p.mu.Unlock()
		return &quiz.ValidationError{Field: "choice_id", Message: "choice does not belong to the current question"}
	}
	p.selection.Apply(current.Mode, choiceID)
	view := p.viewLocked()
	p.mu.Unlock()

	p.observers.notify(view)
	return nil
}

// Advance records the current selection and moves to the next question. On
// the last question it submits the whole answer log instead. An empty
// selection returns quiz.ErrEmptySelection and changes nothing.
func (p *Play) Advance(ctx context.Context) error {
	p.mu.Lock()
	if p.state != Answering {
		p.mu.Unlock()
		return ErrIgnored
	}
	if p.selection.Len() == 0 {
		p.mu.Unlock()
		return quiz.ErrEmptySelection
	}

	current := p.questions[p.index]
	p.answers = append(p.answers, quiz.AnswerEntry{
		QuestionID: current.ID,
		ChoiceIDs:  p.selection.IDs(),
	})
	p.selection.Clear()

	if p.index+1 < len(p.questions) {
		p.index++
		view := p.viewLocked()
		p.mu.Unlock()
		p.observers.notify(view)
		return nil
	}

	answers := p.answersLocked()
	p.setStateLocked(Submitting)
	view := p.viewLocked()
	p.mu.Unlock()

	p.observers.notify(view)
	return p.submit(ctx, answers)
}

// RetrySubmit re-sends the complete answer log after a failed submission.
func (p *Play) RetrySubmit(ctx context.Context) error {
	p.mu.Lock()
	var submissionErr *quiz.SubmissionError
	if p.state != Failed || !errors.As(p.err, &submissionErr) || len(p.answers) != len(p.questions) {
		p.mu.Unlock()
		return ErrIgnored
	}
	answers := p.answersLocked()
	p.err = nil
	p.setStateLocked(Submitting)
	view := p.viewLocked()
	p.mu.Unlock()

	p.observers.notify(view)
	return p.submit(ctx, answers)
}

func (p *Play) submit(ctx context.Context, answers []quiz.AnswerEntry) error {
	result, err := p.remote.SubmitAll(ctx, p.quizSetID, answers)

	p.mu.Lock()
	if err != nil {
		err = &quiz.SubmissionError{Err: err}
		p.err = err
		p.setStateLocked(Failed)
		p.log.Error("submit answers failed", zap.Int("answers", len(answers)), zap.Error(err))
	} else {
		p.result = result
		p.setStateLocked(Completed)
		p.log.Info("quiz completed",
			zap.Int("total_questions", result.TotalQuestions),
			zap.Int("total_correct", result.TotalCorrect),
		)
	}
	view := p.viewLocked()
	p.mu.Unlock()

	p.observers.notify(view)
	return err
}

func (p *Play) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the question being answered.
func (p *Play) Current() (quiz.SessionQuestion, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Answering {
		return quiz.SessionQuestion{}, false
	}
	return p.questions[p.index], true
}

func (p *Play) Selection() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection.IDs()
}

func (p *Play) Answers() []quiz.AnswerEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.answersLocked()
}

// Result is available once the session is Completed.
func (p *Play) Result() (quiz.SubmissionResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Completed {
		return quiz.SubmissionResult{}, false
	}
	return p.result, true
}

func (p *Play) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Play) Snapshot() PlayView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// Subscribe registers fn for every state change. Call the returned func to
// stop receiving updates.
func (p *Play) Subscribe(fn func(PlayView)) (unsubscribe func()) {
	return p.observers.add(fn)
}

func (p *Play) setStateLocked(state State) {
	p.state = state
	p.opts.metrics.Transition(modePlay, state.String())
}

func (p *Play) answersLocked() []quiz.AnswerEntry {
	out := make([]quiz.AnswerEntry, len(p.answers))
	for idx, entry := range p.answers {
		ids := make([]int64, len(entry.ChoiceIDs))
		copy(ids, entry.ChoiceIDs)
		out[idx] = quiz.AnswerEntry{QuestionID: entry.QuestionID, ChoiceIDs: ids}
	}
	return out
}

func (p *Play) viewLocked() PlayView {
	view := PlayView{
		SessionID: p.id,
		State:     p.state,
		QuizSet:   p.set,
		Index:     p.index,
		Total:     len(p.questions),
		Selected:  p.selection.IDs(),
		Answers:   p.answersLocked(),
		Result:    p.result,
		Err:       p.err,
	}
	if p.state == Answering {
		view.Question = p.questions[p.index]
		view.CanAdvance = p.selection.Len() > 0
		view.IsLast = p.index == len(p.questions)-1
	}
	return view
}

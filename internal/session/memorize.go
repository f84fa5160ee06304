package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz-client/internal/quiz"
)

const modeMemorization = "memorization"

// Memorization is the ungraded review mode: Loading -> Browsing, or Failed
// when the initial fetch fails. It never submits anything.
type Memorization struct {
	mu        sync.Mutex
	id        string
	quizSetID int64
	remote    Remote
	opts      options
	log       *zap.Logger

	state     State
	fetching  bool
	set       quiz.QuizSet
	questions []quiz.SessionQuestion
	index     int
	reveal    bool
	err       error

	observers observers[MemorizationView]
}

type MemorizationView struct {
	SessionID string
	State     State
	QuizSet   quiz.QuizSet
	Index     int
	Total     int
	Question  quiz.SessionQuestion
	Reveal    bool
	Choices   []ChoiceView
	Err       error
}

// ChoiceView is a choice as rendered in memorization mode. Choices are never
// interactive there; Highlighted marks correct ones once revealed.
type ChoiceView struct {
	quiz.Choice
	Highlighted bool
	Interactive bool
}

func NewMemorization(remote Remote, quizSetID int64, opts ...Option) *Memorization {
	o := buildOptions(opts)
	id := uuid.NewString()
	return &Memorization{
		id:        id,
		quizSetID: quizSetID,
		remote:    remote,
		opts:      o,
		log:       o.log.With(zap.String("session_id", id), zap.Int64("quizset_id", quizSetID), zap.String("mode", modeMemorization)),
		state:     Loading,
	}
}

func (m *Memorization) ID() string {
	return m.id
}

func (m *Memorization) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.state != Loading || m.fetching {
		m.mu.Unlock()
		return ErrIgnored
	}
	m.fetching = true
	m.mu.Unlock()

	set, questions, err := loadQuiz(ctx, m.remote, m.quizSetID, m.opts.source)

	m.mu.Lock()
	m.fetching = false
	if err != nil {
		m.err = err
		m.setStateLocked(Failed)
		m.log.Error("load memorization questions failed", zap.Error(err))
	} else {
		m.set = set
		m.questions = questions
		m.index = 0
		m.reveal = false
		m.setStateLocked(Browsing)
		m.log.Info("memorization loaded", zap.Int("questions", len(questions)))
	}
	view := m.viewLocked()
	m.mu.Unlock()

	m.observers.notify(view)
	return err
}

// Advance moves to the next question and hides the answer. It does nothing
// on the last question.
func (m *Memorization) Advance() error {
	return m.apply(m.nextLocked)
}

// Retreat moves to the previous question and hides the answer. It does
// nothing on the first question.
func (m *Memorization) Retreat() error {
	return m.apply(m.prevLocked)
}

func (m *Memorization) ToggleReveal() error {
	return m.apply(m.toggleRevealLocked)
}

// Click is accepted for symmetry with the play view and has no effect.
func (m *Memorization) Click(int64) {}

// HandleKey maps ArrowRight, ArrowLeft and Space to Advance, Retreat and
// ToggleReveal. Outside Browsing every key is left to the host untouched.
func (m *Memorization) HandleKey(ev *KeyEvent) {
	var transition func() bool
	switch ev.Key {
	case KeyArrowRight:
		transition = m.nextLocked
	case KeyArrowLeft:
		transition = m.prevLocked
	case KeySpace:
		transition = m.toggleRevealLocked
	default:
		return
	}

	if err := m.apply(transition); err == nil {
		ev.PreventDefault()
	}
}

// BindKeys subscribes HandleKey to kb for the lifetime of the view. The
// caller must invoke unbind when the view is torn down.
func (m *Memorization) BindKeys(kb *Keyboard) (unbind func()) {
	return kb.Listen(m.HandleKey)
}

func (m *Memorization) nextLocked() bool {
	if m.index+1 >= len(m.questions) {
		return false
	}
	m.index++
	m.reveal = false
	return true
}

func (m *Memorization) prevLocked() bool {
	if m.index-1 < 0 {
		return false
	}
	m.index--
	m.reveal = false
	return true
}

func (m *Memorization) toggleRevealLocked() bool {
	m.reveal = !m.reveal
	return true
}

// apply runs transition under the lock and notifies subscribers when it
// reports a change.
func (m *Memorization) apply(transition func() bool) error {
	m.mu.Lock()
	if m.state != Browsing {
		m.mu.Unlock()
		return ErrIgnored
	}
	if !transition() {
		m.mu.Unlock()
		return nil
	}
	view := m.viewLocked()
	m.mu.Unlock()

	m.observers.notify(view)
	return nil
}

func (m *Memorization) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Memorization) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Memorization) Snapshot() MemorizationView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Memorization) Subscribe(fn func(MemorizationView)) (unsubscribe func()) {
	return m.observers.add(fn)
}

func (m *Memorization) setStateLocked(state State) {
	m.state = state
	m.opts.metrics.Transition(modeMemorization, state.String())
}

func (m *Memorization) viewLocked() MemorizationView {
	view := MemorizationView{
		SessionID: m.id,
		State:     m.state,
		QuizSet:   m.set,
		Index:     m.index,
		Total:     len(m.questions),
		Reveal:    m.reveal,
		Err:       m.err,
	}
	if m.state != Browsing {
		return view
	}

	view.Question = m.questions[m.index]
	view.Choices = make([]ChoiceView, 0, len(view.Question.ShuffledChoices))
	for _, choice := range view.Question.ShuffledChoices {
		view.Choices = append(view.Choices, ChoiceView{
			Choice:      choice,
			Highlighted: m.reveal && choice.IsCorrect,
		})
	}
	return view
}
